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

// Package command runs the external helpers hostdiag collects from.
//
// Collectors never call os/exec directly. They describe what to run with a
// Cmd and hand it to a Runner, which lets tests substitute canned output and
// lets the CLI decide how privileged commands are elevated:
//
//	elev, _ := command.NewElevator(command.ModeAuto)
//	r := command.NewExecRunner(
//	    command.WithElevator(elev),
//	    command.WithTimeout(defaults.CommandTimeout),
//	)
//	out, err := r.Output(ctx, command.New("lscpu"))
//
// Elevation helpers are always invoked non-interactively (sudo -n, doas -n)
// and without a stdin, so a missing credential is reported as a failed
// command instead of blocking the run on a password prompt.
//
// Errors returned by ExecRunner are *errors.StructuredError values with one of
// NOT_FOUND, COMMAND_FAILED or TIMEOUT. The command line and, when available,
// the exit code are recorded in the error context.
package command
