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
	"errors"
	"net/netip"
	"slices"
	"time"

	"github.com/tunnelwatch/mplsliveness/pkg/liveness"
)

// EvictionFactor multiplied with the timeout gives the age after which a
// silent remote tunnel is forgotten.
const EvictionFactor = 10

// ErrRemoteTunnelLimit is returned if a peer names more distinct tunnels
// than fit into a single heartbeat.
var ErrRemoteTunnelLimit = errors.New("too many remote tunnels")

// RemoteTunnelStatus tracks one of the peer's tunnels towards us.
type RemoteTunnelStatus struct {
	LastReceivedSequenceID uint32
	LastUpdate             time.Time
}

// RemoteSwitch is a peer switch. It owns our egress tunnels towards the peer
// and our view of the peer's tunnels towards us.
type RemoteSwitch struct {
	DestinationIP netip.Addr
	// PID is the last sender PID seen from the peer. A change means the
	// peer restarted.
	PID                    uint32
	LastSentSequenceID     uint32
	LastReceivedSequenceID uint32
	EgressTunnels          map[uint32]*EgressTunnel
	RemoteTunnels          map[uint32]*RemoteTunnelStatus
}

// NewRemoteSwitch creates a remote switch without any tunnels.
func NewRemoteSwitch(dst netip.Addr) *RemoteSwitch {
	return &RemoteSwitch{
		DestinationIP: dst,
		EgressTunnels: make(map[uint32]*EgressTunnel),
		RemoteTunnels: make(map[uint32]*RemoteTunnelStatus),
	}
}

// LivenessView computes our view of the peer's tunnels to embed in
// outgoing heartbeats. Entries not updated for more than EvictionFactor
// times timeout are deleted, entries older than timeout are reported dead.
// The result is sorted by tunnel key.
func (rs *RemoteSwitch) LivenessView(now time.Time, timeout time.Duration) []liveness.Entry {
	entries := make([]liveness.Entry, 0, len(rs.RemoteTunnels))
	for key, status := range rs.RemoteTunnels {
		delta := now.Sub(status.LastUpdate)
		switch {
		case delta > EvictionFactor*timeout:
			delete(rs.RemoteTunnels, key)
		case delta > timeout:
			entries = append(entries, liveness.Entry{TunnelKey: key, Alive: false})
		default:
			entries = append(entries, liveness.Entry{TunnelKey: key, Alive: true})
		}
	}
	slices.SortFunc(entries, func(a, b liveness.Entry) int {
		switch {
		case a.TunnelKey < b.TunnelKey:
			return -1
		case a.TunnelKey > b.TunnelKey:
			return 1
		}
		return 0
	})
	return entries
}

// NextSequenceID advances and returns the outgoing sequence id.
func (rs *RemoteSwitch) NextSequenceID() uint32 {
	rs.LastSentSequenceID = liveness.NextID(rs.LastSentSequenceID)
	return rs.LastSentSequenceID
}

// Observe records the receipt of msg from the peer. It tracks the sending
// tunnel of the peer, detects peer restarts and reports whether the liveness
// entries carried by msg are fresh and should be applied to our egress
// tunnels. It fails with ErrRemoteTunnelLimit if msg names a new remote
// tunnel while the table is full, in which case no state is modified.
func (rs *RemoteSwitch) Observe(msg *liveness.Message, now time.Time) (bool, error) {
	status, ok := rs.RemoteTunnels[msg.EgressTunnelKey]
	if !ok {
		if len(rs.RemoteTunnels) >= liveness.MaxEntries {
			return false, ErrRemoteTunnelLimit
		}
		status = &RemoteTunnelStatus{LastUpdate: now}
		rs.RemoteTunnels[msg.EgressTunnelKey] = status
	}
	if msg.SenderPID != rs.PID {
		rs.PID = msg.SenderPID
		rs.LastReceivedSequenceID = 0
		status.LastReceivedSequenceID = 0
	}
	if liveness.IsNewID(status.LastReceivedSequenceID, msg.SequenceID) {
		status.LastUpdate = now
		status.LastReceivedSequenceID = msg.SequenceID
	}
	if !liveness.IsNewID(rs.LastReceivedSequenceID, msg.SequenceID) {
		return false, nil
	}
	rs.LastReceivedSequenceID = msg.SequenceID
	return true, nil
}

// SortedEgressKeys returns the keys of the egress tunnels in ascending
// order.
func (rs *RemoteSwitch) SortedEgressKeys() []uint32 {
	keys := make([]uint32, 0, len(rs.EgressTunnels))
	for k := range rs.EgressTunnels {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// CheckTimeouts applies the timeout rule to every egress tunnel and returns
// the keys of the tunnels that died, in ascending order.
func (rs *RemoteSwitch) CheckTimeouts(now time.Time, timeout time.Duration) []uint32 {
	var died []uint32
	for _, key := range rs.SortedEgressKeys() {
		if rs.EgressTunnels[key].CheckTimeout(now, timeout) {
			died = append(died, key)
		}
	}
	return died
}
