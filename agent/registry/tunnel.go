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

package registry

import (
	"net"
	"net/netip"
	"time"
)

// Transition is the outcome of applying a liveness report to a tunnel.
type Transition int

const (
	NoChange Transition = iota
	BecameAlive
	BecameDead
)

func (t Transition) String() string {
	switch t {
	case BecameAlive:
		return "became_alive"
	case BecameDead:
		return "became_dead"
	default:
		return "no_change"
	}
}

// EgressTunnel is one of our outgoing MPLS tunnels towards a remote switch,
// together with the resolved forwarding information used to send
// heartbeats down that tunnel.
type EgressTunnel struct {
	Key                uint32
	Label              uint32
	NexthopIP          netip.Addr
	NexthopMAC         net.HardwareAddr
	EgressInterface    string
	EgressInterfaceMAC net.HardwareAddr
	LastUpdate         time.Time
	Alive              bool
}

// Report applies the peer's view of this tunnel. LastUpdate is refreshed
// regardless of the outcome.
func (t *EgressTunnel) Report(alive bool, now time.Time) Transition {
	t.LastUpdate = now
	switch {
	case alive == t.Alive:
		return NoChange
	case alive:
		t.Alive = true
		return BecameAlive
	default:
		t.Alive = false
		return BecameDead
	}
}

// CheckTimeout marks an alive tunnel dead if it has not been updated for
// longer than timeout. It returns true only on that transition.
func (t *EgressTunnel) CheckTimeout(now time.Time, timeout time.Duration) bool {
	if !t.Alive || now.Sub(t.LastUpdate) <= timeout {
		return false
	}
	t.Alive = false
	return true
}

// TunnelInfo is an immutable snapshot of an EgressTunnel handed to
// callbacks and the management API.
type TunnelInfo struct {
	Key                uint32    `json:"key"`
	Label              uint32    `json:"label"`
	NexthopIP          string    `json:"nexthop_ip"`
	NexthopMAC         string    `json:"nexthop_mac"`
	EgressInterface    string    `json:"egress_interface"`
	EgressInterfaceMAC string    `json:"egress_interface_mac"`
	LastUpdate         time.Time `json:"last_update"`
	Alive              bool      `json:"alive"`
}

// Info returns a snapshot of t.
func (t *EgressTunnel) Info() TunnelInfo {
	return TunnelInfo{
		Key:                t.Key,
		Label:              t.Label,
		NexthopIP:          t.NexthopIP.String(),
		NexthopMAC:         t.NexthopMAC.String(),
		EgressInterface:    t.EgressInterface,
		EgressInterfaceMAC: t.EgressInterfaceMAC.String(),
		LastUpdate:         t.LastUpdate,
		Alive:              t.Alive,
	}
}
