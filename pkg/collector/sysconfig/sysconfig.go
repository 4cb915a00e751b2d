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

package sysconfig

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/NVIDIA/hostdiag/pkg/collector/file"
	"github.com/NVIDIA/hostdiag/pkg/command"
	"github.com/NVIDIA/hostdiag/pkg/defaults"
	"github.com/NVIDIA/hostdiag/pkg/errors"
)

// Name identifies the collector in logs and metrics.
const Name = "system-configurations"

// TimeLayout is the format of the "Date and Time" line.
const TimeLayout = "2006-01-02 15:04:05.000000"

// Section is a titled block of command output.
type Section struct {
	Title string
	Cmd   command.Cmd
}

// DefaultSections returns the hardware and resource sections in output order.
func DefaultSections() []Section {
	return []Section{
		{Title: "CPU Information", Cmd: command.New("lscpu")},
		{Title: "Memory Information", Cmd: command.New("free", "-h")},
		{Title: "Disk Usage", Cmd: command.New("df", "-h")},
	}
}

// PackageManager lists installed packages. Program is looked up on PATH to
// decide whether the host has this package manager.
type PackageManager struct {
	Program string
	Cmd     command.Cmd
}

// DefaultPackageManagers returns the package managers probed, in priority order.
func DefaultPackageManagers() []PackageManager {
	return []PackageManager{
		{Program: "dpkg", Cmd: command.New("dpkg", "-l")},
		{Program: "rpm", Cmd: command.New("rpm", "-qa")},
		{Program: "apk", Cmd: command.New("apk", "info", "-v")},
		{Program: "pacman", Cmd: command.New("pacman", "-Q")},
		{Program: "brew", Cmd: command.New("brew", "list", "--versions")},
	}
}

// Collector writes host identity, hardware snapshots and installed packages
// to system_configurations.txt.
//
// The identity lines never depend on external commands. Command sections run
// in order and the first failing command ends the command sections.
type Collector struct {
	Runner command.Runner

	// Sections defaults to DefaultSections.
	Sections []Section

	// PackageManagers defaults to DefaultPackageManagers.
	PackageManagers []PackageManager

	// Getenv defaults to os.Getenv.
	Getenv func(string) string

	// Kernel defaults to KernelIdentity.
	Kernel func(context.Context) Identity

	// Now defaults to time.Now.
	Now func() time.Time

	// ReleaseFiles defaults to /etc/os-release and /usr/lib/os-release.
	ReleaseFiles []string
}

// Name implements collector.Collector.
func (c *Collector) Name() string {
	return Name
}

// Collect implements collector.Collector.
func (c *Collector) Collect(ctx context.Context, outDir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(outDir, defaults.SystemConfigFile)
	slog.Info("collecting system configurations", slog.String("path", path))

	f, err := os.Create(path)
	if err != nil {
		slog.Error("failed to create system configuration file",
			slog.String("path", path), slog.String("error", err.Error()))
		return errors.WrapWithContext(errors.ErrCodeInternal, "failed to create system configuration file", err,
			map[string]any{"path": path})
	}

	w := bufio.NewWriter(f)
	c.writeIdentity(ctx, w)
	cmdErr := c.writeSections(ctx, w)

	if err := w.Flush(); err != nil {
		f.Close()
		return errors.WrapWithContext(errors.ErrCodeInternal, "failed to write system configuration file", err,
			map[string]any{"path": path})
	}
	if err := f.Close(); err != nil {
		return errors.WrapWithContext(errors.ErrCodeInternal, "failed to close system configuration file", err,
			map[string]any{"path": path})
	}

	if cmdErr != nil {
		slog.Error("error collecting system information", slog.String("error", cmdErr.Error()))
		return cmdErr
	}
	return nil
}

func (c *Collector) writeIdentity(ctx context.Context, w io.Writer) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	id := c.identity(ctx)

	fmt.Fprintf(w, "Date and Time: %s\n", now().Format(TimeLayout))
	fmt.Fprintf(w, "Hostname: %s\n", id.Hostname)
	fmt.Fprintf(w, "Operating System: %s\n", id.OS)
	fmt.Fprintf(w, "Architecture: %s\n", id.Arch)
	if release := c.osRelease(); release != "" {
		fmt.Fprintf(w, "OS Release: %s\n", release)
	}
}

func (c *Collector) writeSections(ctx context.Context, w io.Writer) error {
	sections := c.Sections
	if sections == nil {
		sections = DefaultSections()
	}

	if pm, ok := c.packageManager(); ok {
		sections = append(sections[:len(sections):len(sections)],
			Section{Title: "Installed Packages", Cmd: pm.Cmd})
	} else {
		slog.Debug("no supported package manager found, skipping installed packages")
	}

	for _, s := range sections {
		out, err := c.Runner.Output(ctx, s.Cmd)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%s:\n", s.Title)
		if _, err := w.Write(file.Sanitize(out)); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, "failed to write section "+s.Title, err)
		}
	}
	return nil
}

// packageManager returns the first package manager whose program is on PATH.
func (c *Collector) packageManager() (PackageManager, bool) {
	candidates := c.PackageManagers
	if candidates == nil {
		candidates = DefaultPackageManagers()
	}
	for _, pm := range candidates {
		if _, err := c.Runner.LookPath(pm.Program); err == nil {
			return pm, true
		}
	}
	return PackageManager{}, false
}
