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

// Package file provides the filesystem helpers collectors share.
//
// # Copying
//
// Copy reproduces a source file byte for byte, including its permission
// bits, truncating any previous artifact of the same name:
//
//	n, err := file.Copy("/var/log/syslog", filepath.Join(out, "syslog"))
//
// # Parsing
//
// Parser reads small key=value files such as /etc/os-release:
//
//	p := file.NewParser(file.WithVTrimChars(`"'`))
//	kv, err := p.GetMap("/etc/os-release")
//
// # Text
//
// Sanitize forces command output to valid UTF-8 before it is written into a
// text artifact.
//
// # Error Handling
//
// Errors are *errors.StructuredError values. Missing files map to NOT_FOUND,
// permission problems to PERMISSION, everything else to INTERNAL.
package file
