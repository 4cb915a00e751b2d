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

package security

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/NVIDIA/hostdiag/pkg/command"
	"github.com/NVIDIA/hostdiag/pkg/defaults"
	"github.com/NVIDIA/hostdiag/pkg/errors"
)

// Name identifies the collector in logs and metrics.
const Name = "security-policies"

// DefaultCommands returns the SELinux status and firewall rule dumps.
func DefaultCommands() []command.Cmd {
	return []command.Cmd{
		command.Privileged("sestatus"),
		command.Privileged("iptables-save"),
	}
}

// Collector streams the output of privileged policy commands, back to back
// and without headers, into security_policies.txt.
type Collector struct {
	Runner command.Runner

	// Commands defaults to DefaultCommands.
	Commands []command.Cmd
}

// Name implements collector.Collector.
func (c *Collector) Name() string {
	return Name
}

// Collect implements collector.Collector. Every command runs even when an
// earlier one fails; the failures are joined.
func (c *Collector) Collect(ctx context.Context, outDir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cmds := c.Commands
	if cmds == nil {
		cmds = DefaultCommands()
	}

	path := filepath.Join(outDir, defaults.SecurityPolicyFile)
	slog.Info("collecting security policies", slog.String("path", path), slog.Int("commands", len(cmds)))

	f, err := os.Create(path)
	if err != nil {
		slog.Error("failed to create security policy file",
			slog.String("path", path), slog.String("error", err.Error()))
		return errors.WrapWithContext(errors.ErrCodeInternal, "failed to create security policy file", err,
			map[string]any{"path": path})
	}
	defer f.Close()

	var errs []error
	for _, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := c.Runner.Stream(ctx, cmd, f); err != nil {
			slog.Error("error collecting security policies",
				slog.String("command", cmd.String()),
				slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := f.Sync(); err != nil {
		slog.Debug("failed to sync security policy file", slog.String("error", err.Error()))
	}
	return stderrors.Join(errs...)
}
