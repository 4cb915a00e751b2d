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
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/NVIDIA/hostdiag/pkg/errors"
)

// waitDelay caps how long Wait blocks on output pipes after the process is killed.
const waitDelay = 5 * time.Second

// Cmd describes one external command invocation.
type Cmd struct {
	Name string
	Args []string

	// Privileged commands are run through the runner's Elevator.
	Privileged bool
}

// New returns an unprivileged command.
func New(name string, args ...string) Cmd {
	return Cmd{Name: name, Args: args}
}

// Privileged returns a command that must run with elevated rights.
func Privileged(name string, args ...string) Cmd {
	return Cmd{Name: name, Args: args, Privileged: true}
}

// String returns the command line as it would be typed, without elevation.
func (c Cmd) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner executes external commands.
type Runner interface {
	// Output runs c and returns its standard output.
	Output(ctx context.Context, c Cmd) ([]byte, error)

	// Stream runs c, writing its standard output to stdout as it is produced.
	Stream(ctx context.Context, c Cmd, stdout io.Writer) error

	// LookPath reports whether name resolves to an executable on PATH.
	LookPath(name string) (string, error)
}

// Option configures an ExecRunner.
type Option func(*ExecRunner)

// WithElevator sets the strategy used for privileged commands.
func WithElevator(e Elevator) Option {
	return func(r *ExecRunner) {
		r.elevator = e
	}
}

// WithTimeout bounds each command. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *ExecRunner) {
		r.timeout = d
	}
}

// WithStderr redirects the standard error of every command.
// Default is os.Stderr, the diagnostic stream.
func WithStderr(w io.Writer) Option {
	return func(r *ExecRunner) {
		r.stderr = w
	}
}

// ExecRunner runs commands as child processes.
// Standard input is never connected so elevation helpers cannot prompt.
type ExecRunner struct {
	elevator Elevator
	timeout  time.Duration
	stderr   io.Writer
}

// NewExecRunner creates a runner with no elevation, no timeout and stderr
// passed through, then applies opts.
func NewExecRunner(opts ...Option) *ExecRunner {
	r := &ExecRunner{
		elevator: NoElevation{},
		stderr:   os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.elevator == nil {
		r.elevator = NoElevation{}
	}
	return r
}

// LookPath implements Runner.
func (r *ExecRunner) LookPath(name string) (string, error) {
	p, err := exec.LookPath(name)
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeNotFound,
			"command not found in PATH", err, map[string]any{"command": name})
	}
	return p, nil
}

// Output implements Runner.
func (r *ExecRunner) Output(ctx context.Context, c Cmd) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Stream(ctx, c, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Stream implements Runner.
func (r *ExecRunner) Stream(ctx context.Context, c Cmd, stdout io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, args := c.Name, c.Args
	if c.Privileged {
		name, args = r.elevator.Elevate(name, args)
	}

	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = r.stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	slog.Debug("running command",
		slog.String("command", c.String()),
		slog.Bool("privileged", c.Privileged),
		slog.String("exec", name))

	err := cmd.Run()
	if err == nil {
		slog.Debug("command finished",
			slog.String("command", c.String()),
			slog.Duration("duration", time.Since(start)))
		return nil
	}
	return classify(runCtx, c, err)
}

func classify(ctx context.Context, c Cmd, err error) error {
	details := map[string]any{"command": c.String()}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if stderrors.Is(ctxErr, context.DeadlineExceeded) {
			return errors.WrapWithContext(errors.ErrCodeTimeout, "command timed out", err, details)
		}
		return errors.WrapWithContext(errors.ErrCodeInternal, "command canceled", ctxErr, details)
	}

	if stderrors.Is(err, exec.ErrNotFound) || stderrors.Is(err, os.ErrNotExist) {
		return errors.WrapWithContext(errors.ErrCodeNotFound, "command not found", err, details)
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		details["exitCode"] = exitErr.ExitCode()
	}
	return errors.WrapWithContext(errors.ErrCodeCommandFailed, "command failed", err, details)
}
