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

package cli

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/hostdiag/pkg/collector"
	"github.com/NVIDIA/hostdiag/pkg/command"
	"github.com/NVIDIA/hostdiag/pkg/config"
	"github.com/NVIDIA/hostdiag/pkg/defaults"
	"github.com/NVIDIA/hostdiag/pkg/errors"
	"github.com/NVIDIA/hostdiag/pkg/logging"
	"github.com/NVIDIA/hostdiag/pkg/pipeline"
)

const (
	flagBaseDir        = "base-dir"
	flagConfig         = "config"
	flagEnvFile        = "env-file"
	flagLogLevel       = "log-level"
	flagElevation      = "elevation"
	flagCommandTimeout = "command-timeout"
	flagLogSource      = "log-source"
	flagNoSystemLogs   = "no-system-logs"
	flagMetricsFile    = "metrics-file"
)

// newFactory replaces the exec-backed collector factory when set.
var newFactory func(cfg *config.Config) collector.Factory

// envVar returns the environment variable a flag is read from.
func envVar(flag string) string {
	if flag == flagLogLevel {
		return logging.EnvVarLogLevel
	}
	return "HOSTDIAG_" + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

func collectFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagBaseDir,
			Usage:   "Directory the output directory is created under",
			Sources: cli.EnvVars(envVar(flagBaseDir)),
			Value:   ".",
		},
		&cli.StringFlag{
			Name:    flagConfig,
			Usage:   "Path to a YAML config file",
			Sources: cli.EnvVars(envVar(flagConfig)),
		},
		&cli.StringFlag{
			Name:    flagEnvFile,
			Usage:   "Path to a dotenv file loaded before flags are resolved (ignored when missing)",
			Sources: cli.EnvVars(envVar(flagEnvFile)),
			Value:   ".env",
		},
		&cli.StringFlag{
			Name:    flagLogLevel,
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.EnvVars(envVar(flagLogLevel)),
			Value:   "info",
		},
		&cli.StringFlag{
			Name:    flagElevation,
			Usage:   "How privileged commands are run (" + strings.Join(command.SupportedModes(), ", ") + ")",
			Sources: cli.EnvVars(envVar(flagElevation)),
			Value:   string(command.ModeAuto),
		},
		&cli.DurationFlag{
			Name:    flagCommandTimeout,
			Usage:   "Timeout for each external command (0 disables it)",
			Sources: cli.EnvVars(envVar(flagCommandTimeout)),
			Value:   defaults.CommandTimeout,
		},
		&cli.StringSliceFlag{
			Name:    flagLogSource,
			Usage:   "Absolute path of a log file to copy (can be repeated, replaces the defaults)",
			Sources: cli.EnvVars(envVar(flagLogSource)),
		},
		&cli.BoolFlag{
			Name:    flagNoSystemLogs,
			Usage:   "Skip the system logs stage",
			Sources: cli.EnvVars(envVar(flagNoSystemLogs)),
		},
		&cli.StringFlag{
			Name:    flagMetricsFile,
			Usage:   "Write run metrics to this file in node-exporter textfile format",
			Sources: cli.EnvVars(envVar(flagMetricsFile)),
		},
	}
}

// applyEnvFile loads the env file and then fills in flags that were not set
// on the command line from the variables it provided.
func applyEnvFile(cmd *cli.Command) error {
	if err := config.LoadEnvFile(cmd.String(flagEnvFile)); err != nil {
		return err
	}
	for _, f := range cmd.Flags {
		flag := f.Names()[0]
		if cmd.IsSet(flag) {
			continue
		}
		v, ok := os.LookupEnv(envVar(flag))
		if !ok {
			continue
		}
		if err := cmd.Set(flag, v); err != nil {
			return errors.WrapWithContext(errors.ErrCodeInvalidRequest, "invalid environment value", err,
				map[string]any{"variable": envVar(flag)})
		}
	}
	return nil
}

// parseConfig builds the run config: defaults, then the config file, then
// flags and environment.
func parseConfig(cmd *cli.Command) (*config.Config, error) {
	opts := []config.Option{config.WithVersion(version)}

	if path := cmd.String(flagConfig); path != "" {
		fileOpts, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fileOpts...)
	}

	if cmd.IsSet(flagBaseDir) {
		opts = append(opts, config.WithBaseDir(cmd.String(flagBaseDir)))
	}
	if cmd.IsSet(flagElevation) {
		mode, err := command.ParseMode(cmd.String(flagElevation))
		if err != nil {
			return nil, err
		}
		opts = append(opts, config.WithElevation(mode))
	}
	if cmd.IsSet(flagCommandTimeout) {
		opts = append(opts, config.WithCommandTimeout(cmd.Duration(flagCommandTimeout)))
	}
	if cmd.IsSet(flagLogSource) {
		opts = append(opts, config.WithLogSources(cmd.StringSlice(flagLogSource)))
	}
	if cmd.Bool(flagNoSystemLogs) {
		opts = append(opts, config.WithSystemLogs(false))
	}
	if path := cmd.String(flagMetricsFile); path != "" {
		opts = append(opts, config.WithMetricsFile(path))
	}

	cfg := config.NewConfig(opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func collectAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := parseConfig(cmd)
	if err != nil {
		return err
	}

	// no run-wide deadline: each command has its own timeout and every stage
	// runs to completion unless the user interrupts
	start := time.Now()
	p := &pipeline.Pipeline{
		Config: cfg,
		Out:    cmd.Root().Writer,
	}
	if newFactory != nil {
		p.Factory = newFactory(cfg)
	}
	if _, err := p.Run(ctx); err != nil {
		return err
	}

	slog.Debug("collection finished", slog.Duration("elapsed", time.Since(start)))
	return nil
}
