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

// Package pipeline runs a host diagnostic collection.
//
// A run first ensures the output directory exists, which is the only stage
// whose failure is fatal, and then runs the collectors in a fixed order:
//
//  1. system configurations
//  2. log files
//  3. security policies
//  4. service states (when systemd units are configured)
//  5. system logs (when enabled)
//
// A progress line is printed after each stage whatever its outcome, followed
// by a completion line naming the output directory.
//
// # Usage
//
//	p := &pipeline.Pipeline{Config: cfg}
//	results, err := p.Run(ctx)
//
// # Observability
//
// Every log line of a run carries a run_id attribute. Stage durations and
// outcomes are recorded as Prometheus metrics:
//
//   - hostdiag_run_duration_seconds
//   - hostdiag_run_total{status}
//   - hostdiag_stage_duration_seconds{stage}
//   - hostdiag_stage_total{stage,status}
//   - hostdiag_last_run_timestamp_seconds
//
// When a metrics file is configured the metrics are written after the run in
// the node-exporter textfile format.
package pipeline
