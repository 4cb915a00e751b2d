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

// Package collector defines how host diagnostics are gathered.
//
// # Core Interface
//
// Every stage of a run is a Collector that writes into the output directory:
//
//	type Collector interface {
//	    Name() string
//	    Collect(ctx context.Context, outDir string) error
//	}
//
// Collectors log failures where they occur and return them. The caller
// counts the failure and moves on; no collector error aborts a run.
//
// # Factory Pattern
//
// The Factory interface enables dependency injection and testing by
// abstracting collector creation:
//
//	factory := collector.NewDefaultFactory(cfg, command.NewExecRunner())
//	c := factory.CreateSecurityPolicyCollector()
//	if err := c.Collect(ctx, outDir); err != nil {
//	    // already logged
//	}
//
// # Implementations
//
//   - sysconfig: host identity and hardware/software inventory
//   - logs: verbatim copies of log files
//   - security: SELinux status and firewall rules
//   - systemd: unit states over D-Bus
//
// Shared file helpers live in the file subpackage.
package collector
