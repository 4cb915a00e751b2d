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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/NVIDIA/hostdiag/pkg/collector"
	"github.com/NVIDIA/hostdiag/pkg/command"
	"github.com/NVIDIA/hostdiag/pkg/config"
	"github.com/NVIDIA/hostdiag/pkg/errors"
	"github.com/NVIDIA/hostdiag/pkg/outdir"
)

// StageInit names the output directory stage in results and metrics.
const StageInit = "init"

// StageResult is the outcome of one stage. It feeds metrics and logging only.
type StageResult struct {
	Name     string
	Duration time.Duration
	Err      error
}

// Pipeline runs the collection stages in a fixed order.
type Pipeline struct {
	// Config is the run configuration. If nil, defaults are used.
	Config *config.Config

	// Factory creates the stage collectors. If nil, the default factory is
	// built from Config with an exec runner.
	Factory collector.Factory

	// Out receives the progress lines. If nil, os.Stdout is used.
	Out io.Writer
}

type stage struct {
	progress string
	create   func() collector.Collector
}

// Run creates the output directory and then runs every enabled stage,
// printing a progress line after each one. Stage failures are logged and
// counted but never stop the run. Only an output directory failure, an
// invalid elevation mode or a cancelled context is returned.
func (p *Pipeline) Run(ctx context.Context) ([]StageResult, error) {
	cfg := p.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}

	factory := p.Factory
	if factory == nil {
		f, err := defaultFactory(cfg)
		if err != nil {
			return nil, err
		}
		factory = f
	}

	out := p.Out
	if out == nil {
		out = os.Stdout
	}

	runID := uuid.NewString()
	prev := slog.Default()
	slog.SetDefault(prev.With(slog.String("run_id", runID)))
	defer slog.SetDefault(prev)

	slog.Debug("starting collection", slog.String("base_dir", cfg.BaseDir()))

	// run metrics are final before the textfile is written
	start := time.Now()
	status := statusError
	defer func() {
		runTotal.WithLabelValues(status).Inc()
		runDuration.Observe(time.Since(start).Seconds())
		lastRunTimestamp.SetToCurrentTime()
		if path := cfg.MetricsFile(); path != "" {
			if err := WriteMetrics(path); err != nil {
				slog.Warn("failed to write metrics file", slog.String("path", path), slog.String("error", err.Error()))
			}
		}
	}()

	results := make([]StageResult, 0, 6)

	initStart := time.Now()
	dir, err := outdir.Ensure(cfg.BaseDir(), cfg.OutputDirName())
	initResult := StageResult{Name: StageInit, Duration: time.Since(initStart), Err: err}
	observeStage(initResult)
	results = append(results, initResult)
	if err != nil {
		slog.Error("failed to create output directory", slog.String("error", err.Error()))
		return results, err
	}

	for _, s := range stages(cfg, factory) {
		if err := ctx.Err(); err != nil {
			slog.Warn("collection interrupted", slog.String("error", err.Error()))
			return results, errors.Wrap(errors.ErrCodeUnavailable, "collection interrupted", err)
		}

		c := s.create()
		r := runStage(ctx, c, dir)
		results = append(results, r)
		fmt.Fprintln(out, s.progress)
	}

	fmt.Fprintf(out, "Data collection completed. Collected data is stored in '%s' directory.\n", dir)
	status = statusSuccess

	slog.Debug("collection complete", slog.String("dir", dir), slog.Int("stages", len(results)))
	return results, nil
}

func stages(cfg *config.Config, f collector.Factory) []stage {
	s := []stage{
		{progress: "System configurations collected.", create: f.CreateSystemConfigCollector},
		{progress: "Log files collected.", create: f.CreateLogCollector},
		{progress: "Security policies collected.", create: f.CreateSecurityPolicyCollector},
	}
	if len(cfg.SystemdUnits()) > 0 {
		s = append(s, stage{progress: "Service states collected.", create: f.CreateServiceStateCollector})
	}
	if cfg.SystemLogs() {
		s = append(s, stage{progress: "System logs collected.", create: f.CreateSystemLogCollector})
	}
	return s
}

func runStage(ctx context.Context, c collector.Collector, dir string) StageResult {
	start := time.Now()
	err := c.Collect(ctx, dir)
	r := StageResult{Name: c.Name(), Duration: time.Since(start), Err: err}
	observeStage(r)

	if err != nil {
		slog.Debug("stage completed with errors",
			slog.String("stage", r.Name),
			slog.Duration("duration", r.Duration),
			slog.String("code", string(errors.CodeOf(err))),
			slog.String("error", err.Error()))
		if errors.HasCode(err, errors.ErrCodePermission) {
			slog.Warn("stage was denied access, run as root for complete results", slog.String("stage", r.Name))
		}
	} else {
		slog.Debug("stage completed",
			slog.String("stage", r.Name),
			slog.Duration("duration", r.Duration))
	}
	return r
}

func defaultFactory(cfg *config.Config) (*collector.DefaultFactory, error) {
	elevator, err := command.NewElevator(cfg.Elevation())
	if err != nil {
		return nil, err
	}
	runner := command.NewExecRunner(
		command.WithElevator(elevator),
		command.WithTimeout(cfg.CommandTimeout()),
	)
	return collector.NewDefaultFactory(cfg, runner), nil
}
