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

// Package sysconfig writes system_configurations.txt.
//
// The file starts with the collection time and the host identity (hostname,
// operating system, architecture). Each identity field is taken from an
// environment variable when set and otherwise from the kernel. It is followed
// by one titled section per inventory command:
//
//	CPU Information:
//	Memory Information:
//	Disk Usage:
//	Installed Packages:
//
// The installed packages section uses the first package manager found on
// PATH. Collection stops at the first command that fails; what was written
// up to that point is kept.
package sysconfig
