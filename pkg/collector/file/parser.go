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
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/NVIDIA/hostdiag/pkg/errors"
)

// Option configures a Parser.
type Option func(*Parser)

// Parser reads small line-oriented configuration files such as os-release.
type Parser struct {
	maxSize      int
	skipComments bool
	kvDelimiter  string
	vTrimChars   string
}

// WithMaxSize sets the largest file, in bytes, the parser accepts. Default is 1MB.
func WithMaxSize(size int) Option {
	return func(p *Parser) {
		p.maxSize = size
	}
}

// WithSkipComments sets whether lines starting with '#' are dropped. Default is true.
func WithSkipComments(skip bool) Option {
	return func(p *Parser) {
		p.skipComments = skip
	}
}

// WithKVDelimiter sets the key-value delimiter used by GetMap. Default is "=".
func WithKVDelimiter(kvDelim string) Option {
	return func(p *Parser) {
		p.kvDelimiter = kvDelim
	}
}

// WithVTrimChars sets characters trimmed from both ends of values in GetMap.
func WithVTrimChars(trimChars string) Option {
	return func(p *Parser) {
		p.vTrimChars = trimChars
	}
}

// NewParser creates a parser with the provided options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		maxSize:      1 << 20,
		skipComments: true,
		kvDelimiter:  "=",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetLines returns the trimmed, non-empty lines of the file at path.
func (p *Parser) GetLines(path string) ([]string, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "file path cannot be empty")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithContext(codeFor(err), "failed to read file", err,
			map[string]any{"path": path})
	}
	if len(b) > p.maxSize {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("file %q exceeds maximum size of %d bytes", path, p.maxSize),
			map[string]any{"path": path, "size": len(b)})
	}
	if !utf8.Valid(b) {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("content of file %q is not valid UTF-8", path), map[string]any{"path": path})
	}

	parts := strings.Split(string(b), "\n")
	lines := make([]string, 0, len(parts))
	for _, part := range parts {
		line := strings.TrimSpace(part)
		if line == "" {
			continue
		}
		if p.skipComments && strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// GetMap parses the file at path into key-value pairs.
// Lines without the delimiter or with an empty value are dropped.
func (p *Parser) GetMap(path string) (map[string]string, error) {
	lines, err := p.GetLines(path)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(lines))
	for _, line := range lines {
		key, value, ok := strings.Cut(line, p.kvDelimiter)
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if p.vTrimChars != "" {
			value = strings.Trim(value, p.vTrimChars)
		}
		if key == "" || value == "" {
			continue
		}
		result[key] = value
	}
	return result, nil
}
