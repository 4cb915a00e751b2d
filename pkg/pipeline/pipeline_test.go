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
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/hostdiag/pkg/collector"
	"github.com/NVIDIA/hostdiag/pkg/command/commandtest"
	"github.com/NVIDIA/hostdiag/pkg/config"
	"github.com/NVIDIA/hostdiag/pkg/defaults"
	"github.com/NVIDIA/hostdiag/pkg/errors"
)

type stubCollector struct {
	name  string
	err   error
	calls *[]string
}

func (s *stubCollector) Name() string { return s.name }

func (s *stubCollector) Collect(_ context.Context, outDir string) error {
	*s.calls = append(*s.calls, s.name)
	return s.err
}

type stubFactory struct {
	calls []string
	fail  map[string]error
}

func (f *stubFactory) make(name string) collector.Collector {
	return &stubCollector{name: name, err: f.fail[name], calls: &f.calls}
}

func (f *stubFactory) CreateSystemConfigCollector() collector.Collector {
	return f.make("system-configurations")
}
func (f *stubFactory) CreateLogCollector() collector.Collector { return f.make("log-files") }
func (f *stubFactory) CreateSecurityPolicyCollector() collector.Collector {
	return f.make("security-policies")
}
func (f *stubFactory) CreateServiceStateCollector() collector.Collector {
	return f.make("service-states")
}
func (f *stubFactory) CreateSystemLogCollector() collector.Collector { return f.make("system-logs") }

func TestRun_StageOrderAndProgress(t *testing.T) {
	tests := []struct {
		name       string
		opts       []config.Option
		wantStages []string
		wantLines  []string
	}{
		{
			name:       "defaults",
			wantStages: []string{"system-configurations", "log-files", "security-policies", "service-states", "system-logs"},
			wantLines: []string{
				"System configurations collected.",
				"Log files collected.",
				"Security policies collected.",
				"Service states collected.",
				"System logs collected.",
			},
		},
		{
			name:       "no units and no system logs",
			opts:       []config.Option{config.WithSystemdUnits(nil), config.WithSystemLogs(false)},
			wantStages: []string{"system-configurations", "log-files", "security-policies"},
			wantLines: []string{
				"System configurations collected.",
				"Log files collected.",
				"Security policies collected.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			cfg := config.NewConfig(append([]config.Option{config.WithBaseDir(base)}, tt.opts...)...)
			f := &stubFactory{}
			var out bytes.Buffer

			results, err := (&Pipeline{Config: cfg, Factory: f, Out: &out}).Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantStages, f.calls)
			require.Len(t, results, len(tt.wantStages)+1)
			assert.Equal(t, StageInit, results[0].Name)

			dir := filepath.Join(base, defaults.OutputDirName)
			want := strings.Join(tt.wantLines, "\n") + "\n" +
				fmt.Sprintf("Data collection completed. Collected data is stored in '%s' directory.\n", dir)
			assert.Equal(t, want, out.String())
			assert.DirExists(t, dir)
		})
	}
}

func TestRun_StageFailuresContinue(t *testing.T) {
	f := &stubFactory{fail: map[string]error{
		"system-configurations": errors.New(errors.ErrCodeCommandFailed, "lscpu failed"),
		"security-policies":     errors.New(errors.ErrCodeNotFound, "sestatus not found"),
	}}
	cfg := config.NewConfig(config.WithBaseDir(t.TempDir()))
	var out bytes.Buffer

	results, err := (&Pipeline{Config: cfg, Factory: f, Out: &out}).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, f.calls, 5)

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	assert.Equal(t, 2, failed)
	assert.Contains(t, out.String(), "System configurations collected.\n")
	assert.Contains(t, out.String(), "Data collection completed.")
}

func TestRun_InitFailureIsFatal(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	f := &stubFactory{}
	var out bytes.Buffer
	results, err := (&Pipeline{Config: config.NewConfig(config.WithBaseDir(blocker)), Factory: f, Out: &out}).Run(context.Background())
	require.Error(t, err)
	assert.Empty(t, f.calls)
	assert.Empty(t, out.String())
	require.Len(t, results, 1)
	assert.Equal(t, StageInit, results[0].Name)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &stubFactory{}
	var out bytes.Buffer
	_, err := (&Pipeline{Config: config.NewConfig(config.WithBaseDir(t.TempDir())), Factory: f, Out: &out}).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.calls)
	assert.NotContains(t, out.String(), "Data collection completed.")
}

func TestRun_InvalidElevation(t *testing.T) {
	cfg := config.NewConfig(config.WithBaseDir(t.TempDir()), config.WithElevation("pkexec"))
	_, err := (&Pipeline{Config: cfg, Out: &bytes.Buffer{}}).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeInvalidRequest, errors.CodeOf(err))
}

func TestRun_MetricsFile(t *testing.T) {
	base := t.TempDir()
	metrics := filepath.Join(base, "hostdiag.prom")
	cfg := config.NewConfig(config.WithBaseDir(base), config.WithMetricsFile(metrics))

	_, err := (&Pipeline{Config: cfg, Factory: &stubFactory{}, Out: &bytes.Buffer{}}).Run(context.Background())
	require.NoError(t, err)

	b, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(b), `hostdiag_stage_total{stage="log-files",status="success"}`)
	assert.Contains(t, string(b), "hostdiag_stage_duration_seconds")

	// the run being exported must already be counted in the file
	metricValue := func(name string) string {
		for _, line := range strings.Split(string(b), "\n") {
			if v, ok := strings.CutPrefix(line, name+" "); ok {
				return v
			}
		}
		return ""
	}
	assert.NotContains(t, []string{"", "0"}, metricValue("hostdiag_run_duration_seconds_count"))
	assert.NotContains(t, []string{"", "0"}, metricValue("hostdiag_last_run_timestamp_seconds"))
	assert.NotContains(t, []string{"", "0"}, metricValue(`hostdiag_run_total{status="success"}`))
}

func TestRun_MetricsFileOnInitFailure(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	metrics := filepath.Join(base, "hostdiag.prom")

	cfg := config.NewConfig(config.WithBaseDir(blocker), config.WithMetricsFile(metrics))
	_, err := (&Pipeline{Config: cfg, Factory: &stubFactory{}, Out: &bytes.Buffer{}}).Run(context.Background())
	require.Error(t, err)

	b, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(b), `hostdiag_run_total{status="error"}`)
	assert.Contains(t, string(b), `hostdiag_stage_total{stage="init",status="error"}`)
}

func TestRun_RelativeBaseDirIsReportedAbsolute(t *testing.T) {
	wd := t.TempDir()
	t.Chdir(wd)

	var out bytes.Buffer
	_, err := (&Pipeline{Config: config.NewConfig(), Factory: &stubFactory{}, Out: &out}).Run(context.Background())
	require.NoError(t, err)

	want := filepath.Join(wd, defaults.OutputDirName)
	assert.Contains(t, out.String(), fmt.Sprintf("Collected data is stored in '%s' directory.\n", want))
	assert.DirExists(t, want)
}

func TestRun_PermissionFailureIsLogged(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	f := &stubFactory{fail: map[string]error{
		"log-files": errors.New(errors.ErrCodePermission, "open /var/log/auth.log: permission denied"),
	}}
	_, err := (&Pipeline{Config: config.NewConfig(config.WithBaseDir(t.TempDir())), Factory: f, Out: &bytes.Buffer{}}).Run(context.Background())
	require.NoError(t, err)

	got := logs.String()
	assert.Contains(t, got, `"code":"PERMISSION"`)
	assert.Contains(t, got, "stage was denied access")
	assert.Contains(t, got, `"run_id":`)
}

func TestRun_EndToEnd(t *testing.T) {
	base := t.TempDir()
	logDir := t.TempDir()
	syslog := filepath.Join(logDir, "syslog")
	require.NoError(t, os.WriteFile(syslog, []byte("hello\n"), 0o644))

	cfg := config.NewConfig(
		config.WithBaseDir(base),
		config.WithLogSources([]string{syslog, filepath.Join(logDir, "auth.log")}),
		config.WithSystemdUnits(nil),
	)
	runner := commandtest.NewFake().
		Set("lscpu", "Architecture: x86_64\n").
		Set("free -h", "Mem: 1Gi\n").
		Set("df -h", "/dev/sda1 10G\n").
		Set("sestatus", "SELinux status: disabled\n")
	p := &Pipeline{Config: cfg, Factory: collector.NewDefaultFactory(cfg, runner)}

	// run twice; the second run must overwrite, not append
	for range 2 {
		var out bytes.Buffer
		p.Out = &out
		_, err := p.Run(context.Background())
		require.NoError(t, err)
		assert.Contains(t, out.String(), "System logs collected.\n")
	}

	dir := filepath.Join(base, defaults.OutputDirName)

	copied, err := os.ReadFile(filepath.Join(dir, "syslog"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(copied))
	assert.NoFileExists(t, filepath.Join(dir, "auth.log"))

	policies, err := os.ReadFile(filepath.Join(dir, defaults.SecurityPolicyFile))
	require.NoError(t, err)
	assert.Equal(t, "SELinux status: disabled\n", string(policies))

	sysconf, err := os.ReadFile(filepath.Join(dir, defaults.SystemConfigFile))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(sysconf), "Date and Time: "))
	assert.Equal(t, 1, strings.Count(string(sysconf), "Date and Time: "))
	assert.Contains(t, string(sysconf), "\nCPU Information:\nArchitecture: x86_64\n")
}
