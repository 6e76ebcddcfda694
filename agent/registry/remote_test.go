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

package registry_test

import (
	"math"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunnelwatch/mplsliveness/agent/registry"
	"github.com/tunnelwatch/mplsliveness/pkg/liveness"
)

const timeout = 5 * time.Second

func newSwitch() *registry.RemoteSwitch {
	return registry.NewRemoteSwitch(netip.MustParseAddr("10.0.0.2"))
}

func TestLivenessView(t *testing.T) {
	rs := newSwitch()
	now := t0.Add(time.Hour)
	rs.RemoteTunnels[1] = &registry.RemoteTunnelStatus{LastUpdate: now}
	rs.RemoteTunnels[2] = &registry.RemoteTunnelStatus{LastUpdate: now.Add(-timeout)}
	rs.RemoteTunnels[3] = &registry.RemoteTunnelStatus{LastUpdate: now.Add(-timeout - 1)}
	rs.RemoteTunnels[4] = &registry.RemoteTunnelStatus{
		LastUpdate: now.Add(-registry.EvictionFactor * timeout),
	}
	rs.RemoteTunnels[5] = &registry.RemoteTunnelStatus{
		LastUpdate: now.Add(-registry.EvictionFactor*timeout - 1),
	}

	want := []liveness.Entry{
		{TunnelKey: 1, Alive: true},
		{TunnelKey: 2, Alive: true},
		{TunnelKey: 3, Alive: false},
		{TunnelKey: 4, Alive: false},
	}
	assert.Equal(t, want, rs.LivenessView(now, timeout))
	assert.NotContains(t, rs.RemoteTunnels, uint32(5))
	assert.Equal(t, want, rs.LivenessView(now, timeout))
}

func TestNextSequenceID(t *testing.T) {
	rs := newSwitch()
	assert.Equal(t, uint32(1), rs.NextSequenceID())
	assert.Equal(t, uint32(2), rs.NextSequenceID())
	rs.LastSentSequenceID = math.MaxUint32
	assert.Equal(t, uint32(1), rs.NextSequenceID())
	assert.Equal(t, uint32(1), rs.LastSentSequenceID)
}

func msg(pid, key, seq uint32) *liveness.Message {
	return &liveness.Message{
		Version:         liveness.Version,
		SenderPID:       pid,
		EgressTunnelKey: key,
		SequenceID:      seq,
	}
}

func TestObserveCreatesRemoteTunnel(t *testing.T) {
	rs := newSwitch()
	fresh, err := rs.Observe(msg(100, 7, 1), t0)
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, uint32(100), rs.PID)
	assert.Equal(t, uint32(1), rs.LastReceivedSequenceID)
	require.Contains(t, rs.RemoteTunnels, uint32(7))
	assert.Equal(t, &registry.RemoteTunnelStatus{
		LastReceivedSequenceID: 1,
		LastUpdate:             t0,
	}, rs.RemoteTunnels[7])
}

func TestObserveStale(t *testing.T) {
	rs := newSwitch()
	_, err := rs.Observe(msg(100, 7, 5), t0)
	require.NoError(t, err)

	later := t0.Add(time.Second)
	for _, seq := range []uint32{5, 4, 0} {
		fresh, err := rs.Observe(msg(100, 7, seq), later)
		require.NoError(t, err)
		assert.False(t, fresh, "seq %d", seq)
		assert.Equal(t, uint32(5), rs.LastReceivedSequenceID)
		assert.Equal(t, uint32(5), rs.RemoteTunnels[7].LastReceivedSequenceID)
		assert.Equal(t, t0, rs.RemoteTunnels[7].LastUpdate)
	}
}

func TestObservePerTunnelFreshness(t *testing.T) {
	// The peer sends the same sequence id down each of its tunnels. Every
	// tunnel is tracked, but the reports are applied only once.
	rs := newSwitch()
	fresh, err := rs.Observe(msg(100, 1, 10), t0)
	require.NoError(t, err)
	assert.True(t, fresh)

	later := t0.Add(time.Second)
	fresh, err = rs.Observe(msg(100, 2, 10), later)
	require.NoError(t, err)
	assert.False(t, fresh)
	assert.Equal(t, uint32(10), rs.RemoteTunnels[2].LastReceivedSequenceID)
	assert.Equal(t, later, rs.RemoteTunnels[2].LastUpdate)
}

func TestObservePeerRestart(t *testing.T) {
	rs := newSwitch()
	_, err := rs.Observe(msg(100, 7, 5000), t0)
	require.NoError(t, err)

	later := t0.Add(time.Second)
	fresh, err := rs.Observe(msg(99, 7, 1), later)
	require.NoError(t, err)
	assert.True(t, fresh)
	assert.Equal(t, uint32(99), rs.PID)
	assert.Equal(t, uint32(1), rs.LastReceivedSequenceID)
	assert.Equal(t, uint32(1), rs.RemoteTunnels[7].LastReceivedSequenceID)
	assert.Equal(t, later, rs.RemoteTunnels[7].LastUpdate)
}

func TestObserveRemoteTunnelLimit(t *testing.T) {
	rs := newSwitch()
	for i := 0; i < liveness.MaxEntries; i++ {
		rs.RemoteTunnels[uint32(i)] = &registry.RemoteTunnelStatus{LastUpdate: t0}
	}
	fresh, err := rs.Observe(msg(100, liveness.MaxEntries, 1), t0)
	assert.ErrorIs(t, err, registry.ErrRemoteTunnelLimit)
	assert.False(t, fresh)
	assert.Len(t, rs.RemoteTunnels, liveness.MaxEntries)
	assert.Equal(t, uint32(0), rs.PID)

	// Known tunnels are still accepted.
	fresh, err = rs.Observe(msg(100, 0, 1), t0)
	assert.NoError(t, err)
	assert.True(t, fresh)

	// The view of a full table still fits into one message.
	_, err = liveness.Encode(&liveness.Message{Entries: rs.LivenessView(t0, timeout)})
	assert.NoError(t, err)
}

func TestCheckTimeouts(t *testing.T) {
	rs := newSwitch()
	rs.EgressTunnels[2] = &registry.EgressTunnel{Key: 2, Alive: true, LastUpdate: t0}
	rs.EgressTunnels[1] = &registry.EgressTunnel{Key: 1, Alive: true, LastUpdate: t0}
	rs.EgressTunnels[3] = &registry.EgressTunnel{
		Key: 3, Alive: true, LastUpdate: t0.Add(10 * time.Second),
	}
	now := t0.Add(timeout + time.Second)
	assert.Equal(t, []uint32{1, 2}, rs.CheckTimeouts(now, timeout))
	assert.Empty(t, rs.CheckTimeouts(now, timeout))
	assert.Equal(t, []uint32{1, 2, 3}, rs.SortedEgressKeys())
}
