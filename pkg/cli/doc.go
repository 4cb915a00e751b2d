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

// Package cli implements the hostdiag command line.
//
// hostdiag takes no positional arguments. Run without flags it collects into
// ./collected_data:
//
//	hostdiag
//	hostdiag --base-dir /var/tmp --elevation doas
//	hostdiag --config /etc/hostdiag.yaml --metrics-file /var/lib/node_exporter/hostdiag.prom
//
// # Configuration Precedence
//
// Settings are resolved from defaults, then the YAML file given with --config,
// then environment variables and flags. Every flag has a HOSTDIAG_* variable
// (LOG_LEVEL for --log-level). A dotenv file (--env-file, default .env) is
// loaded first; it never overrides variables already present.
//
// # Exit Codes
//
//   - 0: the run completed, even when individual stages failed
//   - 1: invalid configuration or the output directory could not be created
//
// Version information is injected at build time:
//
//	go build -ldflags "-X github.com/NVIDIA/hostdiag/pkg/cli.version=1.0.0"
package cli
