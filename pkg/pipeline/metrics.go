// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

var (
	// Run metrics
	runDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hostdiag_run_duration_seconds",
			Help:    "Time taken by a complete collection run",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
	)

	runTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostdiag_run_total",
			Help: "Total number of collection runs",
		},
		[]string{"status"}, // success or error
	)

	// Stage metrics
	stageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hostdiag_stage_duration_seconds",
			Help:    "Time taken by individual stages",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 120},
		},
		[]string{"stage"},
	)

	stageTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostdiag_stage_total",
			Help: "Total number of stage executions by outcome",
		},
		[]string{"stage", "status"},
	)

	lastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hostdiag_last_run_timestamp_seconds",
			Help: "Unix time the last collection run finished",
		},
	)
)

func observeStage(r StageResult) {
	stageDuration.WithLabelValues(r.Name).Observe(r.Duration.Seconds())
	status := statusSuccess
	if r.Err != nil {
		status = statusError
	}
	stageTotal.WithLabelValues(r.Name, status).Inc()
}

// WriteMetrics writes the registered metrics to path in the node-exporter
// textfile collector format.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
