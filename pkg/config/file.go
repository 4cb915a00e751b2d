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
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/hostdiag/pkg/command"
	"github.com/NVIDIA/hostdiag/pkg/errors"
)

// File is the on-disk YAML representation of a Config.
// Unset fields keep their defaults.
//
//	baseDir: /var/tmp
//	logSources:
//	  - /var/log/syslog
//	  - /var/log/messages
//	systemLogs: false
//	elevation: sudo
//	commandTimeout: 90s
//	systemdUnits: [firewalld.service]
//	securityCommands:
//	  - [sestatus]
//	  - [iptables-save, -t, filter]
type File struct {
	BaseDir          string     `yaml:"baseDir,omitempty"`
	OutputDir        string     `yaml:"outputDir,omitempty"`
	LogSources       []string   `yaml:"logSources,omitempty"`
	SystemLogs       *bool      `yaml:"systemLogs,omitempty"`
	Elevation        string     `yaml:"elevation,omitempty"`
	CommandTimeout   string     `yaml:"commandTimeout,omitempty"`
	SystemdUnits     []string   `yaml:"systemdUnits"`
	SecurityCommands [][]string `yaml:"securityCommands,omitempty"`
	MetricsFile      string     `yaml:"metricsFile,omitempty"`
}

// LoadFile reads a YAML config file and returns the options it sets.
// Unknown keys are rejected.
func LoadFile(path string) ([]Option, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeNotFound, "failed to read config file", err,
			map[string]any{"path": path})
	}
	return Parse(b)
}

// Parse decodes YAML config content into options.
func Parse(b []byte) ([]Option, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, "failed to parse config", err)
	}
	return f.Options()
}

// Options converts the file fields that are set into options.
func (f *File) Options() ([]Option, error) {
	var opts []Option

	if f.BaseDir != "" {
		opts = append(opts, WithBaseDir(f.BaseDir))
	}
	if f.OutputDir != "" {
		opts = append(opts, WithOutputDirName(f.OutputDir))
	}
	if f.LogSources != nil {
		opts = append(opts, WithLogSources(f.LogSources))
	}
	if f.SystemLogs != nil {
		opts = append(opts, WithSystemLogs(*f.SystemLogs))
	}
	if f.Elevation != "" {
		mode, err := command.ParseMode(f.Elevation)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithElevation(mode))
	}
	if f.CommandTimeout != "" {
		d, err := time.ParseDuration(f.CommandTimeout)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidRequest,
				fmt.Sprintf("invalid commandTimeout %q", f.CommandTimeout), err)
		}
		opts = append(opts, WithCommandTimeout(d))
	}
	if f.SystemdUnits != nil {
		opts = append(opts, WithSystemdUnits(f.SystemdUnits))
	}
	if f.SecurityCommands != nil {
		opts = append(opts, WithSecurityCommands(f.SecurityCommands))
	}
	if f.MetricsFile != "" {
		opts = append(opts, WithMetricsFile(f.MetricsFile))
	}

	return opts, nil
}

// LoadEnvFile loads KEY=VALUE pairs from a dotenv file into the process
// environment without overriding variables that are already set.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.WrapWithContext(errors.ErrCodeInvalidRequest, "failed to load env file", err,
			map[string]any{"path": path})
	}
	return nil
}
