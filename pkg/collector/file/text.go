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
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Sanitize returns b with every invalid UTF-8 sequence replaced by U+FFFD,
// so text artifacts stay valid UTF-8 whatever the command printed.
func Sanitize(b []byte) []byte {
	out, _, err := transform.Bytes(runes.ReplaceIllFormed(), b)
	if err != nil {
		return b
	}
	return out
}
