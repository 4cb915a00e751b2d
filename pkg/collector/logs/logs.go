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

package logs

import (
	"context"
	stderrors "errors"
	"log/slog"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/NVIDIA/hostdiag/pkg/collector/file"
)

// Collector names used in logs and metrics.
const (
	NameLogFiles   = "log-files"
	NameSystemLogs = "system-logs"
)

// Collector copies log files into the output directory, keeping their base
// file names. Every source is attempted; one failure does not stop the rest.
type Collector struct {
	// CollectorName defaults to NameLogFiles.
	CollectorName string

	// Sources are absolute paths of the files to copy.
	Sources []string

	// ReportMissing logs absent sources at WARN level instead of skipping
	// them silently. Absent sources are never an error.
	ReportMissing bool
}

// Name implements collector.Collector.
func (c *Collector) Name() string {
	if c.CollectorName == "" {
		return NameLogFiles
	}
	return c.CollectorName
}

// Collect implements collector.Collector. It returns the joined copy errors.
func (c *Collector) Collect(ctx context.Context, outDir string) error {
	slog.Info("collecting log files",
		slog.String("collector", c.Name()),
		slog.Int("sources", len(c.Sources)))

	var errs []error
	for _, src := range c.Sources {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		if !file.Exists(src) {
			if c.ReportMissing {
				slog.Warn("log file not found", slog.String("source", src))
			}
			continue
		}

		dst := filepath.Join(outDir, filepath.Base(src))
		n, err := file.Copy(src, dst)
		if err != nil {
			slog.Error("error copying log file",
				slog.String("source", src),
				slog.String("error", err.Error()))
			errs = append(errs, err)
			continue
		}

		slog.Debug("copied log file",
			slog.String("source", src),
			slog.String("destination", dst),
			slog.String("size", humanize.Bytes(uint64(n))))
	}

	return stderrors.Join(errs...)
}
