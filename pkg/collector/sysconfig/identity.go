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
	"context"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/NVIDIA/hostdiag/pkg/collector/file"
)

// Environment variables that take precedence over kernel-reported identity.
const (
	EnvHostname = "COMPUTERNAME"
	EnvOS       = "OS"
	EnvArch     = "PROCESSOR_ARCHITECTURE"
)

const unknown = "unknown"

var releaseFiles = []string{
	"/etc/os-release",
	"/usr/lib/os-release",
}

// Identity is the host name, operating system and architecture of the host.
type Identity struct {
	Hostname string
	OS       string
	Arch     string
}

func (i Identity) complete() bool {
	return i.Hostname != "" && i.OS != "" && i.Arch != ""
}

// merge fills the empty fields of i from other.
func (i Identity) merge(other Identity) Identity {
	if i.Hostname == "" {
		i.Hostname = other.Hostname
	}
	if i.OS == "" {
		i.OS = other.OS
	}
	if i.Arch == "" {
		i.Arch = other.Arch
	}
	return i
}

// KernelIdentity returns the identity reported by the kernel, the equivalent
// of uname -n, -s and -m. Every field is non-empty.
func KernelIdentity(ctx context.Context) Identity {
	var id Identity

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		slog.Debug("host info unavailable, using runtime values", slog.String("error", err.Error()))
	}
	if info != nil {
		id = Identity{
			Hostname: info.Hostname,
			OS:       sysname(info.OS),
			Arch:     info.KernelArch,
		}
	}

	if id.Hostname == "" {
		if h, herr := os.Hostname(); herr == nil {
			id.Hostname = h
		}
	}
	return id.merge(Identity{
		Hostname: unknown,
		OS:       sysname(runtime.GOOS),
		Arch:     runtime.GOARCH,
	})
}

// sysname turns a GOOS-style name ("linux") into the kernel's spelling ("Linux").
func sysname(goos string) string {
	if goos == "" {
		return ""
	}
	return cases.Title(language.Und).String(goos)
}

// identity resolves the host identity, preferring the environment.
func (c *Collector) identity(ctx context.Context) Identity {
	getenv := c.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	id := Identity{
		Hostname: strings.TrimSpace(getenv(EnvHostname)),
		OS:       strings.TrimSpace(getenv(EnvOS)),
		Arch:     strings.TrimSpace(getenv(EnvArch)),
	}
	if id.complete() {
		return id
	}

	kernel := c.Kernel
	if kernel == nil {
		kernel = KernelIdentity
	}
	id = id.merge(kernel(ctx))

	// last resort so the identity lines are never blank
	return id.merge(Identity{Hostname: unknown, OS: unknown, Arch: unknown})
}

// osRelease returns PRETTY_NAME (or NAME) from the first readable os-release file.
func (c *Collector) osRelease() string {
	paths := c.ReleaseFiles
	if paths == nil {
		paths = releaseFiles
	}

	parser := file.NewParser(file.WithVTrimChars(`"'`))
	for _, p := range paths {
		if !file.Exists(p) {
			continue
		}
		kv, err := parser.GetMap(p)
		if err != nil {
			slog.Debug("failed to read os release", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		if v := kv["PRETTY_NAME"]; v != "" {
			return v
		}
		if v := kv["NAME"]; v != "" {
			return v
		}
	}
	return ""
}
