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

package file

import (
	stderrors "errors"
	"io"
	"io/fs"
	"os"

	"github.com/NVIDIA/hostdiag/pkg/errors"
)

// Exists reports whether path can be stat'ed.
// Paths that cannot be inspected are treated as absent.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Copy copies src to dst byte for byte, truncating any existing dst, and
// carries over the permission bits of src. It returns the bytes copied.
func Copy(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, errors.WrapWithContext(codeFor(err), "failed to open source file", err,
			map[string]any{"source": src})
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, errors.WrapWithContext(codeFor(err), "failed to stat source file", err,
			map[string]any{"source": src})
	}
	if info.IsDir() {
		return 0, errors.NewWithContext(errors.ErrCodeInvalidRequest, "source is a directory",
			map[string]any{"source": src})
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, errors.WrapWithContext(codeFor(err), "failed to create destination file", err,
			map[string]any{"destination": dst})
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return n, errors.WrapWithContext(codeFor(err), "failed to copy file", err,
			map[string]any{"source": src, "destination": dst})
	}
	if err := out.Close(); err != nil {
		return n, errors.WrapWithContext(errors.ErrCodeInternal, "failed to close destination file", err,
			map[string]any{"destination": dst})
	}

	// OpenFile only applies the mode to new files
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return n, errors.WrapWithContext(codeFor(err), "failed to set destination mode", err,
			map[string]any{"destination": dst})
	}
	return n, nil
}

func codeFor(err error) errors.ErrorCode {
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return errors.ErrCodeNotFound
	case stderrors.Is(err, fs.ErrPermission):
		return errors.ErrCodePermission
	default:
		return errors.ErrCodeInternal
	}
}
