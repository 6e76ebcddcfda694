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

package liveness_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tunnelwatch/mplsliveness/pkg/liveness"
)

func TestIsNewID(t *testing.T) {
	testCases := []struct {
		name      string
		lastSeen  uint32
		candidate uint32
		want      bool
	}{
		{name: "next", lastSeen: 5, candidate: 6, want: true},
		{name: "older", lastSeen: 6, candidate: 5, want: false},
		{name: "duplicate", lastSeen: 5, candidate: 5, want: false},
		{name: "wraparound", lastSeen: math.MaxUint32, candidate: 1, want: true},
		{name: "wraparound backwards", lastSeen: 1, candidate: math.MaxUint32, want: false},
		{name: "nothing seen yet", lastSeen: 0, candidate: 1, want: true},
		{name: "nothing seen yet high", lastSeen: 0, candidate: math.MaxUint32, want: true},
		{name: "zero never new", lastSeen: 0, candidate: 0, want: false},
		{name: "zero after wrap", lastSeen: math.MaxUint32, candidate: 0, want: false},
		{name: "large jump", lastSeen: 1, candidate: 1 << 30, want: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, liveness.IsNewID(tc.lastSeen, tc.candidate))
		})
	}
}

func TestNextID(t *testing.T) {
	assert.Equal(t, uint32(1), liveness.NextID(0))
	assert.Equal(t, uint32(6), liveness.NextID(5))
	assert.Equal(t, uint32(1), liveness.NextID(math.MaxUint32))
}
