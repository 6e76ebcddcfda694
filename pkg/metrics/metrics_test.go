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

package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/tunnelwatch/mplsliveness/pkg/metrics"
)

func TestNilSafeHelpers(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.CounterInc(nil)
		metrics.CounterAdd(nil, 3)
		metrics.GaugeSet(nil, 1)
		metrics.GaugeAdd(nil, -1)
	})
	c := metrics.NewTestCounter()
	metrics.CounterInc(c)
	metrics.CounterAdd(c, 2)
	assert.Equal(t, float64(3), metrics.CounterValue(c))

	g := metrics.NewTestGauge()
	metrics.GaugeSet(g, 4)
	metrics.GaugeAdd(g, -1)
	assert.Equal(t, float64(3), metrics.GaugeValue(g))
}

func TestTestCounterVec(t *testing.T) {
	v := metrics.NewTestCounterVec()
	metrics.CounterInc(v.With("malformed"))
	metrics.CounterInc(v.With("malformed"))
	metrics.CounterInc(v.With("unknown_peer"))
	assert.Equal(t, float64(2), v.Value("malformed"))
	assert.Equal(t, float64(1), v.Value("unknown_peer"))
	assert.Equal(t, float64(0), v.Value("stale"))
}

func TestFactoryRegistersWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	f := metrics.ApplyOptions(metrics.WithRegistry(reg)).Auto()
	c := f.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "help"})
	metrics.CounterInc(c)
	assert.Equal(t, float64(1), testutil.ToFloat64(c))
	n, err := testutil.GatherAndCount(reg, "test_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}
