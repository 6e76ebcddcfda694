// Copyright 2017 ETH Zurich
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

// Package prom contains helpers for exporting prometheus metrics that are
// not tied to a specific component.
package prom

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace is the namespace of all metrics exported by the agent.
const Namespace = "mplsliveness"

// ExportElementID exports the instance ID from the config file as a constant
// info metric on reg. Calling it again with the same registry replaces the
// previous value.
func ExportElementID(reg prometheus.Registerer, id string) {
	vec := SafeRegister(reg, prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "instance_info",
			Help:      "The instance ID from the config file.",
		},
		[]string{"id"},
	)).(*prometheus.GaugeVec)
	vec.Reset()
	vec.WithLabelValues(id).Set(1)
}

// SafeRegister registers c and returns the registered collector. If c was
// already registered the already registered collector is returned. In case of
// any other error this method panics (as MustRegister).
func SafeRegister(reg prometheus.Registerer, c prometheus.Collector) prometheus.Collector {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector
		}
		panic(err)
	}
	return c
}
