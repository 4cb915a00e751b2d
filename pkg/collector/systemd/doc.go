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

// Package systemd records the state of systemd units.
//
// The collector queries the system manager over D-Bus for each configured
// unit and writes one line per unit to service_states.txt:
//
//	auditd.service: ActiveState=active SubState=running UnitFileState=enabled
//
// On hosts where systemd is not the init system the collector does nothing.
// A unit that cannot be queried is recorded with its error and the remaining
// units are still queried.
package systemd
