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

// Package registry holds the state of the liveness protocol: the remote
// switches, our egress tunnels towards them and our view of their tunnels
// towards us.
//
// A Registry is not safe for concurrent use. It is owned by the agent's event
// loop and replaced as a whole when the tunnel configuration is reloaded.
package registry

import (
	"net/netip"
	"slices"
	"time"

	"github.com/tunnelwatch/mplsliveness/pkg/private/serrors"
)

// Registry maps peer addresses to remote switches.
type Registry struct {
	// LocalPID is the process id advertised in our heartbeats.
	LocalPID uint32
	// SrcIP is the source address of our heartbeats.
	SrcIP    netip.Addr
	Switches map[netip.Addr]*RemoteSwitch
}

// New creates an empty registry advertising pid.
func New(pid uint32, src netip.Addr) *Registry {
	return &Registry{
		LocalPID: pid,
		SrcIP:    src,
		Switches: make(map[netip.Addr]*RemoteSwitch),
	}
}

// Add inserts rs. It fails if a switch with the same destination exists.
func (r *Registry) Add(rs *RemoteSwitch) error {
	if _, ok := r.Switches[rs.DestinationIP]; ok {
		return serrors.New("duplicate remote switch", "destination_ip", rs.DestinationIP)
	}
	r.Switches[rs.DestinationIP] = rs
	return nil
}

// Lookup returns the remote switch with destination ip.
func (r *Registry) Lookup(ip netip.Addr) (*RemoteSwitch, bool) {
	rs, ok := r.Switches[ip.Unmap()]
	return rs, ok
}

// Sorted returns the remote switches ordered by destination address.
func (r *Registry) Sorted() []*RemoteSwitch {
	switches := make([]*RemoteSwitch, 0, len(r.Switches))
	for _, rs := range r.Switches {
		switches = append(switches, rs)
	}
	slices.SortFunc(switches, func(a, b *RemoteSwitch) int {
		return a.DestinationIP.Compare(b.DestinationIP)
	})
	return switches
}

// AliveTunnels returns the number of egress tunnels that are alive.
func (r *Registry) AliveTunnels() int {
	n := 0
	for _, rs := range r.Switches {
		for _, t := range rs.EgressTunnels {
			if t.Alive {
				n++
			}
		}
	}
	return n
}

// NextPID returns the process id to advertise after a configuration reload.
// Peers treat a changed id as a restart.
func NextPID(pid uint32) uint32 {
	return pid - 1
}

// Status is a point in time snapshot of the registry.
type Status struct {
	LocalPID uint32         `json:"local_pid"`
	SrcIP    string         `json:"src_ip"`
	Switches []SwitchStatus `json:"switches"`
}

// SwitchStatus is a snapshot of a remote switch.
type SwitchStatus struct {
	DestinationIP          string             `json:"destination_ip"`
	PID                    uint32             `json:"pid"`
	LastSentSequenceID     uint32             `json:"last_sent_sequence_id"`
	LastReceivedSequenceID uint32             `json:"last_received_sequence_id"`
	EgressTunnels          []TunnelInfo       `json:"egress_tunnels"`
	RemoteTunnels          []RemoteTunnelInfo `json:"remote_tunnels"`
}

// RemoteTunnelInfo is a snapshot of a RemoteTunnelStatus.
type RemoteTunnelInfo struct {
	Key                    uint32    `json:"key"`
	LastReceivedSequenceID uint32    `json:"last_received_sequence_id"`
	LastUpdate             time.Time `json:"last_update"`
}

// Status returns a snapshot of r. It does not modify r.
func (r *Registry) Status() Status {
	s := Status{
		LocalPID: r.LocalPID,
		SrcIP:    r.SrcIP.String(),
		Switches: make([]SwitchStatus, 0, len(r.Switches)),
	}
	for _, rs := range r.Sorted() {
		ss := SwitchStatus{
			DestinationIP:          rs.DestinationIP.String(),
			PID:                    rs.PID,
			LastSentSequenceID:     rs.LastSentSequenceID,
			LastReceivedSequenceID: rs.LastReceivedSequenceID,
			EgressTunnels:          make([]TunnelInfo, 0, len(rs.EgressTunnels)),
			RemoteTunnels:          make([]RemoteTunnelInfo, 0, len(rs.RemoteTunnels)),
		}
		for _, key := range rs.SortedEgressKeys() {
			ss.EgressTunnels = append(ss.EgressTunnels, rs.EgressTunnels[key].Info())
		}
		for key, rt := range rs.RemoteTunnels {
			ss.RemoteTunnels = append(ss.RemoteTunnels, RemoteTunnelInfo{
				Key:                    key,
				LastReceivedSequenceID: rt.LastReceivedSequenceID,
				LastUpdate:             rt.LastUpdate,
			})
		}
		slices.SortFunc(ss.RemoteTunnels, func(a, b RemoteTunnelInfo) int {
			switch {
			case a.Key < b.Key:
				return -1
			case a.Key > b.Key:
				return 1
			}
			return 0
		})
		s.Switches = append(s.Switches, ss)
	}
	return s
}
