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

package systemd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/coreos/go-systemd/v22/dbus"
	"github.com/coreos/go-systemd/v22/util"

	"github.com/NVIDIA/hostdiag/pkg/defaults"
	"github.com/NVIDIA/hostdiag/pkg/errors"
)

// Name identifies the collector in logs and metrics.
const Name = "service-states"

// Properties are the unit properties recorded per line, in output order.
var Properties = []string{"ActiveState", "SubState", "UnitFileState"}

// Conn is the subset of the systemd D-Bus connection the collector uses.
type Conn interface {
	GetUnitPropertiesContext(ctx context.Context, unit string) (map[string]interface{}, error)
	Close()
}

// DialSystemd opens a connection to the system manager.
func DialSystemd(ctx context.Context) (Conn, error) {
	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Collector records the state of security-relevant systemd units.
type Collector struct {
	Units []string

	// Dial defaults to DialSystemd.
	Dial func(ctx context.Context) (Conn, error)

	// Running reports whether systemd is the init system. Defaults to
	// util.IsRunningSystemd.
	Running func() bool
}

// Name implements collector.Collector.
func (c *Collector) Name() string {
	return Name
}

// Collect implements collector.Collector. Units that cannot be queried are
// recorded with an error note and the remaining units are still queried.
func (c *Collector) Collect(ctx context.Context, outDir string) error {
	if len(c.Units) == 0 {
		slog.Debug("no systemd units configured")
		return nil
	}

	running := c.Running
	if running == nil {
		running = util.IsRunningSystemd
	}
	if !running() {
		slog.Debug("systemd is not the init system, skipping service states")
		return nil
	}

	dial := c.Dial
	if dial == nil {
		dial = DialSystemd
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.SystemdTimeout)
	defer cancel()

	slog.Info("collecting systemd service states", slog.Int("units", len(c.Units)))

	conn, err := dial(ctx)
	if err != nil {
		slog.Error("failed to connect to systemd", slog.String("error", err.Error()))
		return errors.Wrap(errors.ErrCodeUnavailable, "failed to connect to systemd", err)
	}
	defer conn.Close()

	var b strings.Builder
	var failed []string
	for _, unit := range c.Units {
		props, err := conn.GetUnitPropertiesContext(ctx, unit)
		if err != nil {
			slog.Warn("failed to get unit properties",
				slog.String("unit", unit), slog.String("error", err.Error()))
			fmt.Fprintf(&b, "%s: error=%q\n", unit, err.Error())
			failed = append(failed, unit)
			continue
		}
		b.WriteString(formatUnit(unit, props))
	}

	path := filepath.Join(outDir, defaults.ServiceStateFile)
	if err := os.WriteFile(path, []byte(b.String()), defaults.FilePerm); err != nil {
		slog.Error("failed to write service states",
			slog.String("path", path), slog.String("error", err.Error()))
		return errors.WrapWithContext(errors.ErrCodeInternal, "failed to write service states", err,
			map[string]any{"path": path})
	}

	if len(failed) > 0 {
		return errors.NewWithContext(errors.ErrCodeUnavailable, "failed to query some units",
			map[string]any{"units": failed})
	}
	return nil
}

func formatUnit(unit string, props map[string]interface{}) string {
	fields := make([]string, 0, len(Properties))
	for _, p := range Properties {
		v, ok := props[p]
		if !ok {
			v = "unknown"
		}
		fields = append(fields, fmt.Sprintf("%s=%v", p, v))
	}
	return unit + ": " + strings.Join(fields, " ") + "\n"
}
