// Copyright 2026 The mplsliveness Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package liveness

import "math"

// IsNewID reports whether candidate is newer than lastSeen in sequence
// number space. Zero is never a valid sequence id and a lastSeen of zero
// means nothing has been seen yet. Otherwise a candidate is newer if it lies
// less than half the id space ahead of lastSeen, modulo 2^32.
func IsNewID(lastSeen, candidate uint32) bool {
	if candidate == 0 {
		return false
	}
	if lastSeen == 0 {
		return true
	}
	return int32(candidate-lastSeen) > 0
}

// NextID returns the sequence id following id. It wraps past math.MaxUint32
// to 1 since zero is reserved.
func NextID(id uint32) uint32 {
	if id == math.MaxUint32 {
		return 1
	}
	return id + 1
}
