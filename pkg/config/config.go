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

package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/NVIDIA/hostdiag/pkg/command"
	"github.com/NVIDIA/hostdiag/pkg/defaults"
	"github.com/NVIDIA/hostdiag/pkg/errors"
)

// Config holds the settings of one collection run.
// Fields are read-only after creation; use the getters.
type Config struct {
	// baseDir is the directory the output directory is created under.
	baseDir string

	// outputDirName is the name of the output directory.
	outputDirName string

	// logSources are the log files copied verbatim.
	logSources []string

	// systemLogs enables the second "system logs" copy stage.
	systemLogs bool

	// elevation selects how privileged commands are run.
	elevation command.Mode

	// commandTimeout bounds each external command; zero disables it.
	commandTimeout time.Duration

	// systemdUnits are the units whose state is recorded; empty disables the stage.
	systemdUnits []string

	// securityCommands are run with elevation and streamed into the policy file.
	securityCommands [][]string

	// metricsFile, when set, receives the run metrics in textfile format.
	metricsFile string

	// version is the hostdiag version.
	version string
}

// BaseDir returns the directory the output directory is created under.
func (c *Config) BaseDir() string {
	return c.baseDir
}

// OutputDirName returns the output directory name.
func (c *Config) OutputDirName() string {
	return c.outputDirName
}

// OutputDir returns the full output directory path.
func (c *Config) OutputDir() string {
	return filepath.Join(c.baseDir, c.outputDirName)
}

// LogSources returns a copy of the configured log sources.
func (c *Config) LogSources() []string {
	return slices.Clone(c.logSources)
}

// SystemLogs reports whether the system logs stage runs.
func (c *Config) SystemLogs() bool {
	return c.systemLogs
}

// Elevation returns the elevation mode.
func (c *Config) Elevation() command.Mode {
	return c.elevation
}

// CommandTimeout returns the per-command timeout.
func (c *Config) CommandTimeout() time.Duration {
	return c.commandTimeout
}

// SystemdUnits returns a copy of the configured systemd units.
func (c *Config) SystemdUnits() []string {
	return slices.Clone(c.systemdUnits)
}

// SecurityCommands returns the security policy commands, marked privileged.
func (c *Config) SecurityCommands() []command.Cmd {
	cmds := make([]command.Cmd, 0, len(c.securityCommands))
	for _, argv := range c.securityCommands {
		cmds = append(cmds, command.Privileged(argv[0], argv[1:]...))
	}
	return cmds
}

// MetricsFile returns the metrics textfile path, empty when disabled.
func (c *Config) MetricsFile() string {
	return c.metricsFile
}

// Version returns the hostdiag version.
func (c *Config) Version() string {
	return c.version
}

// Validate checks if the Config has valid settings.
func (c *Config) Validate() error {
	if c.outputDirName == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "output directory name cannot be empty")
	}
	if filepath.Base(c.outputDirName) != c.outputDirName {
		return errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("output directory name %q must be a single path element", c.outputDirName))
	}
	if _, err := command.ParseMode(string(c.elevation)); err != nil {
		return err
	}
	if c.commandTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("command timeout cannot be negative: %s", c.commandTimeout))
	}
	for _, src := range c.logSources {
		if !filepath.IsAbs(src) {
			return errors.New(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("log source %q must be an absolute path", src))
		}
	}
	for i, argv := range c.securityCommands {
		if len(argv) == 0 || argv[0] == "" {
			return errors.New(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("security command %d is empty", i))
		}
	}
	return nil
}

// Option configures a Config.
type Option func(*Config)

// WithBaseDir sets the directory the output directory is created under.
func WithBaseDir(dir string) Option {
	return func(c *Config) {
		c.baseDir = dir
	}
}

// WithOutputDirName sets the output directory name.
func WithOutputDirName(name string) Option {
	return func(c *Config) {
		c.outputDirName = name
	}
}

// WithLogSources replaces the log sources.
func WithLogSources(sources []string) Option {
	return func(c *Config) {
		c.logSources = slices.Clone(sources)
	}
}

// WithSystemLogs enables or disables the system logs stage.
func WithSystemLogs(enabled bool) Option {
	return func(c *Config) {
		c.systemLogs = enabled
	}
}

// WithElevation sets the elevation mode.
func WithElevation(mode command.Mode) Option {
	return func(c *Config) {
		c.elevation = mode
	}
}

// WithCommandTimeout sets the per-command timeout.
func WithCommandTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.commandTimeout = d
	}
}

// WithSystemdUnits replaces the systemd units; an empty list disables the stage.
func WithSystemdUnits(units []string) Option {
	return func(c *Config) {
		c.systemdUnits = slices.Clone(units)
	}
}

// WithSecurityCommands replaces the security policy commands. Each entry is an argv.
func WithSecurityCommands(cmds [][]string) Option {
	return func(c *Config) {
		c.securityCommands = make([][]string, 0, len(cmds))
		for _, argv := range cmds {
			c.securityCommands = append(c.securityCommands, slices.Clone(argv))
		}
	}
}

// WithMetricsFile sets the metrics textfile path.
func WithMetricsFile(path string) Option {
	return func(c *Config) {
		c.metricsFile = path
	}
}

// WithVersion sets the version.
func WithVersion(version string) Option {
	return func(c *Config) {
		c.version = version
	}
}

// NewConfig returns a Config with default values, then applies options.
func NewConfig(options ...Option) *Config {
	c := &Config{
		baseDir:        ".",
		outputDirName:  defaults.OutputDirName,
		logSources:     defaults.LogSources(),
		systemLogs:     true,
		elevation:      command.ModeAuto,
		commandTimeout: defaults.CommandTimeout,
		systemdUnits:   defaults.SystemdUnits(),
		securityCommands: [][]string{
			{"sestatus"},
			{"iptables-save"},
		},
		version: "dev",
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}
