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

// Package config holds the settings of a hostdiag collection run.
//
// Configuration is assembled with functional options. Sources are layered:
// built-in defaults, then an optional YAML file (LoadFile), then
// environment variables and flags applied by the CLI. A dotenv file
// (LoadEnvFile) can seed the environment before flags are read.
//
// # Usage
//
//	fileOpts, err := config.LoadFile("hostdiag.yaml")
//	cfg := config.NewConfig(append(fileOpts,
//	    config.WithBaseDir(cwd),
//	    config.WithElevation(command.ModeNone),
//	)...)
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// # Defaults
//
//   - OutputDirName: collected_data
//   - LogSources: /var/log/syslog, /var/log/auth.log
//   - SystemLogs: true
//   - Elevation: auto
//   - CommandTimeout: defaults.CommandTimeout
//   - SystemdUnits: defaults.SystemdUnits()
//   - SecurityCommands: sestatus, iptables-save
package config
