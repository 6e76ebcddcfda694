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
	"net/netip"

	"github.com/tunnelwatch/mplsliveness/agent/registry"
	"github.com/tunnelwatch/mplsliveness/pkg/log"
)

// Handler is notified about egress tunnel state changes. It is called from
// the agent's event loop and must not block.
type Handler interface {
	// TunnelAlive is called when a dead tunnel is reported alive again.
	TunnelAlive(peer netip.Addr, key uint32, t registry.TunnelInfo)
	// TunnelDead is called when a tunnel is reported dead or times out.
	TunnelDead(peer netip.Addr, key uint32, t registry.TunnelInfo)
}

// LogHandler logs state changes.
type LogHandler struct {
	Logger log.Logger
}

func (h LogHandler) TunnelAlive(peer netip.Addr, key uint32, t registry.TunnelInfo) {
	h.logger().Info("Tunnel came back", "peer", peer, "tunnel_key", key, "label", t.Label)
}

func (h LogHandler) TunnelDead(peer netip.Addr, key uint32, t registry.TunnelInfo) {
	h.logger().Info("Tunnel died", "peer", peer, "tunnel_key", key, "label", t.Label,
		"last_update", t.LastUpdate)
}

func (h LogHandler) logger() log.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return log.Root()
}
