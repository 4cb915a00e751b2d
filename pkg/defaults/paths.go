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

package defaults

import "os"

// Output layout.
const (
	// OutputDirName is the directory created under the base directory.
	OutputDirName = "collected_data"

	// SystemConfigFile holds identity, hardware and package information.
	SystemConfigFile = "system_configurations.txt"

	// SecurityPolicyFile holds raw security policy command output.
	SecurityPolicyFile = "security_policies.txt"

	// ServiceStateFile holds systemd unit states.
	ServiceStateFile = "service_states.txt"
)

// Permissions for created directories and authored artifacts.
const (
	DirPerm  os.FileMode = 0o755
	FilePerm os.FileMode = 0o644
)

// LogSources returns the default log files copied into the output directory.
func LogSources() []string {
	return []string{
		"/var/log/syslog",
		"/var/log/auth.log",
	}
}

// SystemdUnits returns the default security-relevant units whose state is recorded.
func SystemdUnits() []string {
	return []string{
		"firewalld.service",
		"apparmor.service",
		"auditd.service",
		"ufw.service",
	}
}
