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

package agent

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tunnelwatch/mplsliveness/pkg/metrics"
	"github.com/tunnelwatch/mplsliveness/pkg/private/prom"
)

// Drop reasons.
const (
	DropMalformed         = "malformed"
	DropUnknownPeer       = "unknown_peer"
	DropStale             = "stale"
	DropRemoteTunnelLimit = "remote_tunnel_limit"
)

// Reload results.
const (
	ReloadOK  = "ok"
	ReloadErr = "error"
)

// Metrics are the metrics of the agent. Nil metrics are ignored.
type Metrics struct {
	PacketsSent     metrics.Counter
	PacketsReceived metrics.Counter
	PacketsDropped  func(reason string) metrics.Counter
	SendErrors      metrics.Counter
	StateChanges    func(transition string) metrics.Counter
	TunnelsAlive    metrics.Gauge
	Reloads         func(result string) metrics.Counter
}

// NewMetrics creates prometheus backed metrics.
func NewMetrics(opts ...metrics.Option) Metrics {
	const ns = prom.Namespace
	f := metrics.ApplyOptions(opts...).Auto()
	dropped := f.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "packets_dropped_total",
		Help:      "Number of received heartbeats that were dropped.",
	}, []string{"reason"})
	changes := f.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "tunnel_state_changes_total",
		Help:      "Number of egress tunnel state changes.",
	}, []string{"transition"})
	reloads := f.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "config_reloads_total",
		Help:      "Number of tunnel configuration loads.",
	}, []string{"result"})
	return Metrics{
		PacketsSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "packets_sent_total",
			Help:      "Number of heartbeats sent.",
		}),
		PacketsReceived: f.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "packets_received_total",
			Help:      "Number of datagrams received on the heartbeat port.",
		}),
		PacketsDropped: func(reason string) metrics.Counter {
			return dropped.WithLabelValues(reason)
		},
		SendErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "send_errors_total",
			Help:      "Number of heartbeats that could not be sent.",
		}),
		StateChanges: func(transition string) metrics.Counter {
			return changes.WithLabelValues(transition)
		},
		TunnelsAlive: f.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "tunnels_alive",
			Help:      "Number of egress tunnels currently alive.",
		}),
		Reloads: func(result string) metrics.Counter {
			return reloads.WithLabelValues(result)
		},
	}
}

func (m Metrics) dropped(reason string) metrics.Counter {
	if m.PacketsDropped == nil {
		return nil
	}
	return m.PacketsDropped(reason)
}

func (m Metrics) stateChange(transition string) metrics.Counter {
	if m.StateChanges == nil {
		return nil
	}
	return m.StateChanges(transition)
}

func (m Metrics) reload(result string) metrics.Counter {
	if m.Reloads == nil {
		return nil
	}
	return m.Reloads(result)
}
