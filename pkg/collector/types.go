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

package collector

import "context"

// Collector writes one artifact (or a set of copied files) into the output
// directory. Implementations log failures where they happen and return them
// so the caller can account for the stage; a returned error never means the
// run should stop.
type Collector interface {
	// Name identifies the collector in logs and metrics.
	Name() string

	// Collect writes into outDir, which already exists.
	Collect(ctx context.Context, outDir string) error
}
