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

import (
	"path/filepath"
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		{"CommandTimeout", CommandTimeout, 30 * time.Second, 10 * time.Minute},
		{"SystemdTimeout", SystemdTimeout, 1 * time.Second, 60 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s = %v, want >= %v", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s = %v, want <= %v", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestLogSourcesAreAbsolute(t *testing.T) {
	sources := LogSources()
	if len(sources) == 0 {
		t.Fatal("expected default log sources")
	}
	for _, s := range sources {
		if !filepath.IsAbs(s) {
			t.Errorf("log source %q is not absolute", s)
		}
	}

	// callers may mutate the returned slice
	sources[0] = "changed"
	if LogSources()[0] == "changed" {
		t.Error("LogSources must return a fresh slice")
	}
}

func TestArtifactNamesDistinct(t *testing.T) {
	names := map[string]bool{}
	for _, n := range []string{SystemConfigFile, SecurityPolicyFile, ServiceStateFile} {
		if names[n] {
			t.Errorf("duplicate artifact name %q", n)
		}
		names[n] = true
	}
}
