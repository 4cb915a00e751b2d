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

// Package outdir creates the directory every collector writes into.
package outdir

import (
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/NVIDIA/hostdiag/pkg/defaults"
	"github.com/NVIDIA/hostdiag/pkg/errors"
)

// Ensure makes sure <base>/<name> exists, creating missing parents, and
// returns its absolute path. It succeeds silently when the directory already exists.
func Ensure(base, name string) (string, error) {
	if name == "" {
		name = defaults.OutputDirName
	}
	dir, err := filepath.Abs(filepath.Join(base, name))
	if err != nil {
		return "", errors.WrapWithContext(errors.ErrCodeInternal, "failed to resolve output directory", err,
			map[string]any{"base": base, "name": name})
	}

	if err := os.MkdirAll(dir, defaults.DirPerm); err != nil {
		code := errors.ErrCodeInternal
		if stderrors.Is(err, fs.ErrPermission) {
			code = errors.ErrCodePermission
		}
		return "", errors.WrapWithContext(code, "failed to create output directory", err,
			map[string]any{"path": dir})
	}

	slog.Debug("output directory ready", slog.String("path", dir))
	return dir, nil
}
