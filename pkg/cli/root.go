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
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/hostdiag/pkg/logging"
)

const (
	name           = "hostdiag"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Execute runs the hostdiag command with the process arguments and exits
// non-zero when it fails. This is called by main.main().
func Execute() {
	// Handle SIGINT/SIGTERM for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// LOG_LEVEL applies until flags are parsed
	logging.SetDefaultStructuredLogger(name, version)

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Usage:                 "Collect host diagnostic artifacts",
		Description: `Gather a host's diagnostic state into a local output directory:
  - system identity, CPU, memory, disk usage and installed packages
  - verbatim copies of log files
  - SELinux status and firewall rules
  - systemd unit states of security services

Privileged commands run through sudo or doas without prompting, so run as
root or with passwordless elevation to collect everything.

# Examples

Collect into ./collected_data:
  hostdiag

Collect under /var/tmp with a custom log source:
  hostdiag --base-dir /var/tmp --log-source /var/log/messages

Export run metrics for the node-exporter textfile collector:
  hostdiag --metrics-file /var/lib/node_exporter/hostdiag.prom`,
		Flags:  collectFlags(),
		Before: before,
		Action: collectAction,
	}
}

// before loads the env file and configures slog once flags are parsed so
// overrides like --log-level take effect before the action executes.
func before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if err := applyEnvFile(cmd); err != nil {
		return ctx, err
	}

	logLevel := cmd.String(flagLogLevel)
	logging.SetDefaultStructuredLoggerWithLevel(name, version, logLevel)
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", logLevel)
	return ctx, nil
}
