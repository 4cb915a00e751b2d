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

import "time"

// Command timeouts for external helpers invoked by collectors.
const (
	// CommandTimeout bounds a single external command (lscpu, iptables-save, ...).
	// A zero timeout disables the bound.
	CommandTimeout = 2 * time.Minute

	// SystemdTimeout bounds the D-Bus round trips of the service state collector.
	SystemdTimeout = 10 * time.Second
)
