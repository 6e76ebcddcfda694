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

// Package agent implements the MPLS tunnel liveness agent.
//
// The agent periodically sends a heartbeat down every configured egress
// tunnel. Each heartbeat carries the agent's view of the peer's tunnels
// towards us. Peers do the same, so every heartbeat received tells us which
// of our tunnels the peer has recently heard from.
//
// All protocol state is owned by a single goroutine, see Run. The methods
// Load, Reload, Poll and HandlePacket are not safe for concurrent use and
// must only be called from that goroutine, or before Run is started.
package agent

import (
	"context"
	"net"
	"net/netip"
	"sync"
	"time"

	"github.com/tunnelwatch/mplsliveness/agent/config"
	"github.com/tunnelwatch/mplsliveness/agent/registry"
	"github.com/tunnelwatch/mplsliveness/agent/resolve"
	"github.com/tunnelwatch/mplsliveness/agent/underlay"
	"github.com/tunnelwatch/mplsliveness/pkg/liveness"
	"github.com/tunnelwatch/mplsliveness/pkg/log"
	"github.com/tunnelwatch/mplsliveness/pkg/metrics"
	"github.com/tunnelwatch/mplsliveness/pkg/private/serrors"
	"github.com/tunnelwatch/mplsliveness/private/periodic"
)

// Sender writes a frame to an interface.
type Sender interface {
	Send(intf string, dst net.HardwareAddr, frame []byte) error
}

// Resolver resolves the addresses needed to send heartbeats.
type Resolver interface {
	SourceIP(intf string) (netip.Addr, error)
	Resolve(ctx context.Context, nexthop netip.Addr) (resolve.Path, error)
}

// Agent runs the liveness protocol.
type Agent struct {
	// Liveness is the protocol configuration. Defaults are applied to unset
	// values.
	Liveness config.Liveness
	Resolver Resolver
	Sender   Sender
	// Handler is notified about tunnel state changes. It defaults to a
	// LogHandler.
	Handler Handler
	Metrics Metrics
	Logger  log.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// NewTicker defaults to periodic.NewTicker.
	NewTicker func(time.Duration) periodic.Ticker
	// PID is the process id advertised before the first load. Every load
	// advertises the next lower id.
	PID uint32

	once       sync.Once
	statusReqs chan chan registry.Status

	srcIntf string
	reg     *registry.Registry
}

func (a *Agent) initDefaults() {
	a.Liveness.InitDefaults()
	if a.Logger == nil {
		a.Logger = log.Root()
	}
	if a.Handler == nil {
		a.Handler = LogHandler{Logger: a.Logger}
	}
	if a.Now == nil {
		a.Now = time.Now
	}
	if a.NewTicker == nil {
		a.NewTicker = periodic.NewTicker
	}
	a.statusReqs = make(chan chan registry.Status)
}

func (a *Agent) init() {
	a.once.Do(a.initDefaults)
}

// SourceIP returns the source address of heartbeats. It is only valid
// after a successful load.
func (a *Agent) SourceIP() netip.Addr {
	if a.reg == nil {
		return netip.Addr{}
	}
	return a.reg.SrcIP
}

// Reload reads the tunnel configuration file and loads it. On failure the
// previous configuration stays in place.
func (a *Agent) Reload(ctx context.Context) error {
	a.init()
	tunnels, err := config.LoadTunnels(a.Liveness.TunnelConfig)
	if err == nil {
		err = a.Load(ctx, tunnels)
	}
	if err != nil {
		metrics.CounterInc(a.Metrics.reload(ReloadErr))
		return err
	}
	metrics.CounterInc(a.Metrics.reload(ReloadOK))
	return nil
}

// Load resolves every tunnel in tunnels and replaces the registry with the
// result. All state of the previous registry is discarded and the
// advertised process id is decremented so that peers reset their view of us.
// If any tunnel fails to resolve the previous registry is kept.
func (a *Agent) Load(ctx context.Context, tunnels *config.Tunnels) error {
	a.init()
	srcIntf := tunnels.SrcIntf
	if a.srcIntf != "" && srcIntf != a.srcIntf {
		a.Logger.Info("Ignoring changed src_intf, restart to apply",
			"current", a.srcIntf, "configured", srcIntf)
		srcIntf = a.srcIntf
	}
	srcIP, err := a.Resolver.SourceIP(srcIntf)
	if err != nil {
		return err
	}

	pid := registry.NextPID(a.PID)
	reg := registry.New(pid, srcIP)
	initial := a.Now().Add(a.Liveness.StartupGracePeriod.Duration)
	for _, rsCfg := range tunnels.RemoteSwitches {
		rs := registry.NewRemoteSwitch(rsCfg.DestinationIP)
		for _, key := range rsCfg.SortedKeys() {
			tc := rsCfg.Tunnels[key]
			path, err := a.Resolver.Resolve(ctx, tc.NexthopIP)
			if err != nil {
				return serrors.Wrap("resolving tunnel", err,
					"peer", rsCfg.DestinationIP, "tunnel_key", key, "nexthop", tc.NexthopIP)
			}
			rs.EgressTunnels[key] = &registry.EgressTunnel{
				Key:                key,
				Label:              tc.Label,
				NexthopIP:          tc.NexthopIP,
				NexthopMAC:         path.NexthopMAC,
				EgressInterface:    path.Interface,
				EgressInterfaceMAC: path.InterfaceMAC,
				LastUpdate:         initial,
				Alive:              true,
			}
		}
		if err := reg.Add(rs); err != nil {
			return err
		}
	}

	a.PID = pid
	a.srcIntf = srcIntf
	a.reg = reg
	metrics.GaugeSet(a.Metrics.TunnelsAlive, float64(reg.AliveTunnels()))
	a.Logger.Info("Tunnel config loaded", "src_intf", srcIntf, "src_ip", srcIP,
		"pid", pid, "remote_switches", len(reg.Switches))
	return nil
}

// Poll sends one heartbeat down every egress tunnel and then declares dead
// the tunnels that have not been reported on within the timeout. Send
// errors are logged and counted only. An error is returned if a heartbeat
// cannot be built, which means the peer reports on more tunnels than fit
// into a heartbeat.
func (a *Agent) Poll(now time.Time) error {
	a.init()
	if a.reg == nil {
		return nil
	}
	timeout := a.Liveness.Timeout.Duration
	for _, rs := range a.reg.Sorted() {
		view := rs.LivenessView(now, timeout)
		seq := rs.NextSequenceID()
		for _, key := range rs.SortedEgressKeys() {
			if err := a.send(rs, key, seq, view); err != nil {
				return err
			}
		}
		for _, key := range rs.CheckTimeouts(now, timeout) {
			a.notify(rs.DestinationIP, key, rs.EgressTunnels[key], registry.BecameDead)
		}
	}
	metrics.GaugeSet(a.Metrics.TunnelsAlive, float64(a.reg.AliveTunnels()))
	return nil
}

func (a *Agent) send(rs *registry.RemoteSwitch, key, seq uint32,
	view []liveness.Entry) error {

	t := rs.EgressTunnels[key]
	msg := &liveness.Message{
		Version:         liveness.Version,
		SenderPID:       a.reg.LocalPID,
		EgressTunnelKey: key,
		SequenceID:      seq,
		Entries:         view,
	}
	encap := underlay.Encapsulation{
		SrcMAC:  t.EgressInterfaceMAC,
		DstMAC:  t.NexthopMAC,
		Label:   t.Label,
		MPLSTTL: a.Liveness.MPLSTTL,
		SrcIP:   a.reg.SrcIP,
		DstIP:   rs.DestinationIP,
		Port:    a.Liveness.UDPPort,
	}
	frame, err := encap.Build(msg)
	if err != nil {
		return serrors.Wrap("building heartbeat", err,
			"peer", rs.DestinationIP, "tunnel_key", key, "entries", len(view))
	}
	if err := a.Sender.Send(t.EgressInterface, t.NexthopMAC, frame); err != nil {
		metrics.CounterInc(a.Metrics.SendErrors)
		a.Logger.Debug("Sending heartbeat failed", "peer", rs.DestinationIP,
			"tunnel_key", key, "intf", t.EgressInterface, "err", err)
		return nil
	}
	metrics.CounterInc(a.Metrics.PacketsSent)
	return nil
}

// HandlePacket processes a datagram received on the heartbeat port.
func (a *Agent) HandlePacket(p underlay.Packet, now time.Time) {
	a.init()
	metrics.CounterInc(a.Metrics.PacketsReceived)
	msg, ok := liveness.Decode(p.Data)
	if !ok {
		metrics.CounterInc(a.Metrics.dropped(DropMalformed))
		a.Logger.Debug("Ignoring malformed heartbeat", "src", p.Src, "len", len(p.Data))
		return
	}
	if a.reg == nil {
		metrics.CounterInc(a.Metrics.dropped(DropUnknownPeer))
		return
	}
	rs, ok := a.reg.Lookup(p.Src)
	if !ok {
		metrics.CounterInc(a.Metrics.dropped(DropUnknownPeer))
		a.Logger.Debug("Ignoring heartbeat from unknown peer", "src", p.Src)
		return
	}
	fresh, err := rs.Observe(msg, now)
	if err != nil {
		metrics.CounterInc(a.Metrics.dropped(DropRemoteTunnelLimit))
		a.Logger.Error("Ignoring heartbeat", "src", p.Src,
			"tunnel_key", msg.EgressTunnelKey, "err", err)
		return
	}
	if !fresh {
		metrics.CounterInc(a.Metrics.dropped(DropStale))
		a.Logger.Debug("Ignoring old heartbeat", "src", p.Src, "seq", msg.SequenceID,
			"last_seq", rs.LastReceivedSequenceID)
		return
	}
	for _, e := range msg.Entries {
		t, ok := rs.EgressTunnels[e.TunnelKey]
		if !ok {
			a.Logger.Info("Liveness report for unknown tunnel", "src", p.Src,
				"tunnel_key", e.TunnelKey)
			continue
		}
		a.notify(rs.DestinationIP, e.TunnelKey, t, t.Report(e.Alive, now))
	}
	metrics.GaugeSet(a.Metrics.TunnelsAlive, float64(a.reg.AliveTunnels()))
}

func (a *Agent) notify(peer netip.Addr, key uint32, t *registry.EgressTunnel,
	tr registry.Transition) {

	switch tr {
	case registry.BecameAlive:
		a.Handler.TunnelAlive(peer, key, t.Info())
	case registry.BecameDead:
		a.Handler.TunnelDead(peer, key, t.Info())
	default:
		return
	}
	metrics.CounterInc(a.Metrics.stateChange(tr.String()))
}

func (a *Agent) status() registry.Status {
	if a.reg == nil {
		return registry.Status{LocalPID: a.PID, Switches: []registry.SwitchStatus{}}
	}
	return a.reg.Status()
}
