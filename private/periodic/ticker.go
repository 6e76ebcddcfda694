// Copyright 2018 ETH Zurich, Anapaya Systems
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

// Package periodic contains the ticker abstraction used by periodic loops.
package periodic

import (
	"time"
)

// Ticker interface to improve testability of periodic code.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

type defaultTicker struct {
	*time.Ticker
}

func (t *defaultTicker) Chan() <-chan time.Time {
	return t.C
}

// NewTicker returns a new Ticker with time.Ticker as implementation.
func NewTicker(d time.Duration) Ticker {
	return &defaultTicker{
		Ticker: time.NewTicker(d),
	}
}

// ManualTicker is a Ticker that only fires when told to. It is meant for
// tests.
type ManualTicker struct {
	C       chan time.Time
	stopped chan struct{}
}

// NewManualTicker creates a ManualTicker.
func NewManualTicker() *ManualTicker {
	return &ManualTicker{
		C:       make(chan time.Time),
		stopped: make(chan struct{}),
	}
}

func (t *ManualTicker) Chan() <-chan time.Time {
	return t.C
}

func (t *ManualTicker) Stop() {
	select {
	case <-t.stopped:
	default:
		close(t.stopped)
	}
}

// Tick delivers now to the ticker's consumer. It blocks until the tick is
// consumed and returns false if the ticker was stopped first.
func (t *ManualTicker) Tick(now time.Time) bool {
	select {
	case t.C <- now:
		return true
	case <-t.stopped:
		return false
	}
}
