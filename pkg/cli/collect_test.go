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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/hostdiag/pkg/collector"
	"github.com/NVIDIA/hostdiag/pkg/command"
	"github.com/NVIDIA/hostdiag/pkg/config"
	"github.com/NVIDIA/hostdiag/pkg/defaults"
	"github.com/NVIDIA/hostdiag/pkg/errors"
)

// runParse runs a command carrying the collect flags and returns the config
// its action would use.
func runParse(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	var (
		cfg *config.Config
		err error
	)
	cmd := &cli.Command{
		Name:   "test",
		Flags:  collectFlags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) { return ctx, applyEnvFile(c) },
		Action: func(_ context.Context, c *cli.Command) error {
			cfg, err = parseConfig(c)
			return nil
		},
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...)))
	return cfg, err
}

// unsetenv clears key for the duration of the test.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := runParse(t, "--env-file", "")
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.BaseDir())
	assert.Equal(t, defaults.OutputDirName, cfg.OutputDirName())
	assert.Equal(t, defaults.LogSources(), cfg.LogSources())
	assert.True(t, cfg.SystemLogs())
	assert.Equal(t, command.ModeAuto, cfg.Elevation())
	assert.Equal(t, defaults.CommandTimeout, cfg.CommandTimeout())
	assert.Equal(t, version, cfg.Version())
	assert.Empty(t, cfg.MetricsFile())
}

func TestParseConfig_Flags(t *testing.T) {
	cfg, err := runParse(t,
		"--env-file", "",
		"--base-dir", "/var/tmp",
		"--elevation", "doas",
		"--command-timeout", "15s",
		"--log-source", "/var/log/messages",
		"--log-source", "/var/log/secure",
		"--no-system-logs",
		"--metrics-file", "/tmp/hostdiag.prom",
	)
	require.NoError(t, err)

	assert.Equal(t, "/var/tmp", cfg.BaseDir())
	assert.Equal(t, command.ModeDoas, cfg.Elevation())
	assert.Equal(t, 15*time.Second, cfg.CommandTimeout())
	assert.Equal(t, []string{"/var/log/messages", "/var/log/secure"}, cfg.LogSources())
	assert.False(t, cfg.SystemLogs())
	assert.Equal(t, "/tmp/hostdiag.prom", cfg.MetricsFile())
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown elevation", args: []string{"--elevation", "pkexec"}},
		{name: "relative log source", args: []string{"--log-source", "syslog"}},
		{name: "negative timeout", args: []string{"--command-timeout=-1s"}},
		{name: "missing config file", args: []string{"--config", "/nonexistent/hostdiag.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runParse(t, append([]string{"--env-file", ""}, tt.args...)...)
			require.Error(t, err)
		})
	}
}

func TestParseConfig_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hostdiag.yaml")
	require.NoError(t, os.WriteFile(path, []byte("baseDir: /from/file\nelevation: sudo\nsystemLogs: false\n"), 0o644))

	cfg, err := runParse(t, "--env-file", "", "--config", path, "--base-dir", "/from/flag")
	require.NoError(t, err)

	assert.Equal(t, "/from/flag", cfg.BaseDir())
	assert.Equal(t, command.ModeSudo, cfg.Elevation())
	assert.False(t, cfg.SystemLogs())
}

func TestParseConfig_Environment(t *testing.T) {
	t.Setenv("HOSTDIAG_BASE_DIR", "/from/env")

	cfg, err := runParse(t, "--env-file", "")
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.BaseDir())
}

func TestParseConfig_EnvFile(t *testing.T) {
	unsetenv(t, "HOSTDIAG_METRICS_FILE")
	unsetenv(t, "HOSTDIAG_ELEVATION")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("HOSTDIAG_METRICS_FILE=/tmp/from-dotenv.prom\nHOSTDIAG_ELEVATION=none\n"), 0o644))

	cfg, err := runParse(t, "--env-file", envFile, "--elevation", "sudo")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-dotenv.prom", cfg.MetricsFile())
	// the command line wins over the env file
	assert.Equal(t, command.ModeSudo, cfg.Elevation())
}

func TestParseConfig_MissingEnvFile(t *testing.T) {
	_, err := runParse(t, "--env-file", filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
}

func TestEnvVar(t *testing.T) {
	assert.Equal(t, "HOSTDIAG_BASE_DIR", envVar(flagBaseDir))
	assert.Equal(t, "HOSTDIAG_NO_SYSTEM_LOGS", envVar(flagNoSystemLogs))
	assert.Equal(t, "LOG_LEVEL", envVar(flagLogLevel))
}

func TestRootCmd_Collect(t *testing.T) {
	base := t.TempDir()
	syslog := filepath.Join(t.TempDir(), "syslog")
	require.NoError(t, os.WriteFile(syslog, []byte("hello\n"), 0o644))

	cfgPath := filepath.Join(t.TempDir(), "hostdiag.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("systemdUnits: []\nsecurityCommands:\n  - [\"true\"]\n"), 0o644))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.Writer = &out

	err := cmd.Run(t.Context(), []string{name,
		"--env-file", "",
		"--config", cfgPath,
		"--base-dir", base,
		"--elevation", "none",
		"--command-timeout", "30s",
		"--log-source", syslog,
		"--no-system-logs",
		"--log-level", "error",
	})
	require.NoError(t, err)

	dir := filepath.Join(base, defaults.OutputDirName)
	assert.Equal(t, "System configurations collected.\n"+
		"Log files collected.\n"+
		"Security policies collected.\n"+
		"Data collection completed. Collected data is stored in '"+dir+"' directory.\n", out.String())

	copied, err := os.ReadFile(filepath.Join(dir, "syslog"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(copied))
	assert.FileExists(t, filepath.Join(dir, defaults.SystemConfigFile))
	assert.FileExists(t, filepath.Join(dir, defaults.SecurityPolicyFile))
}

func TestRootCmd_InitFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	cmd := newRootCmd()
	cmd.Writer = &bytes.Buffer{}
	err := cmd.Run(t.Context(), []string{name, "--env-file", "", "--base-dir", blocker, "--log-level", "error"})
	require.Error(t, err)
	assert.NotEqual(t, errors.ErrorCode(""), errors.CodeOf(err))
}

// deadlineCollector records whether its context carries a deadline.
type deadlineCollector struct {
	name        string
	hasDeadline *[]bool
}

func (c *deadlineCollector) Name() string { return c.name }

func (c *deadlineCollector) Collect(ctx context.Context, _ string) error {
	_, ok := ctx.Deadline()
	*c.hasDeadline = append(*c.hasDeadline, ok)
	return nil
}

type deadlineFactory struct{ hasDeadline []bool }

func (f *deadlineFactory) make(name string) collector.Collector {
	return &deadlineCollector{name: name, hasDeadline: &f.hasDeadline}
}

func (f *deadlineFactory) CreateSystemConfigCollector() collector.Collector {
	return f.make("system-configurations")
}
func (f *deadlineFactory) CreateLogCollector() collector.Collector { return f.make("log-files") }
func (f *deadlineFactory) CreateSecurityPolicyCollector() collector.Collector {
	return f.make("security-policies")
}
func (f *deadlineFactory) CreateServiceStateCollector() collector.Collector {
	return f.make("service-states")
}
func (f *deadlineFactory) CreateSystemLogCollector() collector.Collector { return f.make("system-logs") }

func TestRootCmd_NoRunDeadline(t *testing.T) {
	f := &deadlineFactory{}
	newFactory = func(*config.Config) collector.Factory { return f }
	t.Cleanup(func() { newFactory = nil })

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.Writer = &out
	err := cmd.Run(context.Background(), []string{name, "--env-file", "", "--base-dir", t.TempDir(), "--log-level", "error"})
	require.NoError(t, err)

	assert.Equal(t, []bool{false, false, false, false, false}, f.hasDeadline)
	assert.Contains(t, out.String(), "Data collection completed.")
}
