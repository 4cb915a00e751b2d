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

// Package commandtest provides a scripted command.Runner for tests.
package commandtest

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/NVIDIA/hostdiag/pkg/command"
	"github.com/NVIDIA/hostdiag/pkg/errors"
)

// Response is the canned result of one command line.
type Response struct {
	Stdout []byte
	Err    error
}

// Fake is a command.Runner that answers from a table keyed by Cmd.String().
// Commands without an entry fail with NOT_FOUND, as if absent from PATH.
type Fake struct {
	Responses map[string]Response

	// Available lists names LookPath resolves. Nil means nothing resolves.
	Available map[string]bool

	mu    sync.Mutex
	calls []command.Cmd
}

var _ command.Runner = (*Fake)(nil)

// NewFake returns an empty Fake.
func NewFake() *Fake {
	return &Fake{
		Responses: make(map[string]Response),
		Available: make(map[string]bool),
	}
}

// Set registers stdout for the command line.
func (f *Fake) Set(line string, stdout string) *Fake {
	f.Responses[line] = Response{Stdout: []byte(stdout)}
	return f
}

// Fail registers err for the command line.
func (f *Fake) Fail(line string, err error) *Fake {
	f.Responses[line] = Response{Err: err}
	return f
}

// Provide marks program names as resolvable by LookPath.
func (f *Fake) Provide(names ...string) *Fake {
	for _, n := range names {
		f.Available[n] = true
	}
	return f
}

// Calls returns the commands run so far, in order.
func (f *Fake) Calls() []command.Cmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]command.Cmd(nil), f.calls...)
}

// Output implements command.Runner.
func (f *Fake) Output(ctx context.Context, c command.Cmd) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()

	resp, ok := f.Responses[c.String()]
	if !ok {
		return nil, errors.WrapWithContext(errors.ErrCodeNotFound, "command not found",
			fmt.Errorf("exec: %q: executable file not found in $PATH", c.Name),
			map[string]any{"command": c.String()})
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return resp.Stdout, nil
}

// Stream implements command.Runner.
func (f *Fake) Stream(ctx context.Context, c command.Cmd, stdout io.Writer) error {
	out, err := f.Output(ctx, c)
	if err != nil {
		return err
	}
	_, err = stdout.Write(out)
	return err
}

// LookPath implements command.Runner.
func (f *Fake) LookPath(name string) (string, error) {
	if f.Available[name] {
		return "/usr/bin/" + name, nil
	}
	return "", errors.New(errors.ErrCodeNotFound, fmt.Sprintf("%s not found in PATH", name))
}
