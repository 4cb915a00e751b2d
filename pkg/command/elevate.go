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

package command

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/NVIDIA/hostdiag/pkg/errors"
)

// Mode names an elevation strategy.
type Mode string

const (
	// ModeAuto runs privileged commands directly as root, otherwise through sudo.
	ModeAuto Mode = "auto"
	// ModeSudo always wraps privileged commands with non-interactive sudo.
	ModeSudo Mode = "sudo"
	// ModeDoas always wraps privileged commands with non-interactive doas.
	ModeDoas Mode = "doas"
	// ModeNone runs privileged commands as the current user.
	ModeNone Mode = "none"
)

// SupportedModes returns the accepted elevation mode names.
func SupportedModes() []string {
	return []string{string(ModeAuto), string(ModeSudo), string(ModeDoas), string(ModeNone)}
}

// ParseMode validates an elevation mode name. Empty means ModeAuto.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModeAuto, nil
	}
	if !slices.Contains(SupportedModes(), s) {
		return "", errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("unknown elevation mode %q (supported: %s)", s, strings.Join(SupportedModes(), ", ")))
	}
	return Mode(s), nil
}

// Elevator rewrites a command line so it runs with elevated rights.
type Elevator interface {
	Elevate(name string, args []string) (string, []string)
}

// NoElevation leaves commands untouched.
type NoElevation struct{}

// Elevate implements Elevator.
func (NoElevation) Elevate(name string, args []string) (string, []string) {
	return name, args
}

// Wrapper prefixes commands with a helper program such as sudo.
type Wrapper struct {
	Program string
	Flags   []string
}

// Elevate implements Elevator.
func (w Wrapper) Elevate(name string, args []string) (string, []string) {
	out := make([]string, 0, len(w.Flags)+1+len(args))
	out = append(out, w.Flags...)
	out = append(out, name)
	out = append(out, args...)
	return w.Program, out
}

// Sudo returns the non-interactive sudo wrapper.
func Sudo() Wrapper {
	return Wrapper{Program: "sudo", Flags: []string{"-n"}}
}

// Doas returns the non-interactive doas wrapper.
func Doas() Wrapper {
	return Wrapper{Program: "doas", Flags: []string{"-n"}}
}

// NewElevator returns the Elevator for mode, resolving ModeAuto against the
// effective user of this process.
func NewElevator(mode Mode) (Elevator, error) {
	return newElevator(mode, os.Geteuid())
}

func newElevator(mode Mode, euid int) (Elevator, error) {
	switch mode {
	case ModeAuto, "":
		if euid == 0 {
			return NoElevation{}, nil
		}
		return Sudo(), nil
	case ModeSudo:
		return Sudo(), nil
	case ModeDoas:
		return Doas(), nil
	case ModeNone:
		return NoElevation{}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("unknown elevation mode %q", mode))
	}
}
