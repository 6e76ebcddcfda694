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

// Package resolve maps tunnel nexthops to the link layer information needed
// to send heartbeats down a tunnel: the nexthop MAC address, the egress
// interface and the MAC address of that interface.
//
// Resolution consults the neighbor table first (learned entries, then static
// entries), optionally falls back to an active ARP probe, then looks up the
// nexthop MAC in the MAC table of the configured VLAN to find the egress
// interface.
package resolve

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/tunnelwatch/mplsliveness/pkg/log"
	"github.com/tunnelwatch/mplsliveness/pkg/private/serrors"
)

var (
	// ErrNoNeighbor indicates that the nexthop has no neighbor entry.
	ErrNoNeighbor = errors.New("nexthop has no neighbor entry")
	// ErrNoInterface indicates that the egress interface is unknown.
	ErrNoInterface = errors.New("nexthop MAC not on any interface")
	// ErrNoInterfaceMAC indicates that the egress interface has no MAC.
	ErrNoInterfaceMAC = errors.New("interface has no MAC address")
	// ErrNoSourceIP indicates that the source interface has no IPv4 address.
	ErrNoSourceIP = errors.New("interface has no IPv4 address")
)

// DefaultProbeCacheTTL is the time an ARP probe result is reused.
const DefaultProbeCacheTTL = 30 * time.Second

// Neighbor is an entry of the neighbor table.
type Neighbor struct {
	MAC net.HardwareAddr
	// Interface is the interface the neighbor was learned on. It may be
	// empty.
	Interface string
}

// Path is the resolved link layer information of a tunnel.
type Path struct {
	NexthopMAC   net.HardwareAddr
	Interface    string
	InterfaceMAC net.HardwareAddr
}

// Tables gives access to the forwarding tables of the host.
type Tables interface {
	// InterfaceAddrs returns the IPv4 addresses assigned to intf.
	InterfaceAddrs(intf string) ([]netip.Addr, error)
	// Neighbor returns the learned neighbor entry for ip.
	Neighbor(ip netip.Addr) (Neighbor, bool, error)
	// StaticNeighbor returns the configured neighbor entry for ip.
	StaticNeighbor(ip netip.Addr) (Neighbor, bool, error)
	// MACEntry returns the interface mac was learned on in vlan.
	MACEntry(vlan uint16, mac net.HardwareAddr) (string, bool, error)
	// InterfaceMAC returns the MAC address of intf.
	InterfaceMAC(intf string) (net.HardwareAddr, error)
}

// Prober actively resolves the MAC address of an IP address.
type Prober interface {
	Probe(ctx context.Context, ip netip.Addr) (Neighbor, error)
}

// Resolver resolves tunnel nexthops.
type Resolver struct {
	Tables Tables
	// Prober is used if the neighbor table has no entry for a nexthop. If
	// nil, no active probing is done.
	Prober Prober
	// VLAN is used for MAC table lookups.
	VLAN uint16
	// Logger is used for debug output. If nil, the root logger is used.
	Logger log.Logger

	probed *gocache.Cache
}

// New creates a resolver. The prober may be nil.
func New(tables Tables, prober Prober, vlan uint16) *Resolver {
	return &Resolver{
		Tables: tables,
		Prober: prober,
		VLAN:   vlan,
		// No janitor goroutine, expired entries are dropped on access and
		// in Resolve.
		probed: gocache.New(DefaultProbeCacheTTL, 0),
	}
}

// SourceIP returns the first IPv4 address of intf.
func (r *Resolver) SourceIP(intf string) (netip.Addr, error) {
	addrs, err := r.Tables.InterfaceAddrs(intf)
	if err != nil {
		return netip.Addr{}, serrors.Wrap("listing interface addresses", err, "intf", intf)
	}
	for _, a := range addrs {
		if a = a.Unmap(); a.Is4() {
			return a, nil
		}
	}
	return netip.Addr{}, serrors.Wrap("resolving source address", ErrNoSourceIP, "intf", intf)
}

// Resolve resolves the link layer path towards nexthop.
func (r *Resolver) Resolve(ctx context.Context, nexthop netip.Addr) (Path, error) {
	logger := r.logger().New("nexthop", nexthop)
	neigh, err := r.neighbor(ctx, logger, nexthop)
	if err != nil {
		return Path{}, err
	}
	logger.Debug("Nexthop resolved", "mac", neigh.MAC)

	intf, ok, err := r.Tables.MACEntry(r.VLAN, neigh.MAC)
	if err != nil {
		return Path{}, serrors.Wrap("looking up MAC table", err,
			"nexthop", nexthop, "mac", neigh.MAC, "vlan", r.VLAN)
	}
	if !ok {
		if neigh.Interface == "" {
			return Path{}, serrors.Wrap("resolving egress interface", ErrNoInterface,
				"nexthop", nexthop, "mac", neigh.MAC, "vlan", r.VLAN)
		}
		logger.Debug("No MAC table entry, using neighbor interface",
			"intf", neigh.Interface)
		intf = neigh.Interface
	}

	intfMAC, err := r.Tables.InterfaceMAC(intf)
	if err != nil {
		return Path{}, serrors.Wrap("looking up interface MAC", err, "intf", intf)
	}
	if len(intfMAC) == 0 {
		return Path{}, serrors.Wrap("resolving interface MAC", ErrNoInterfaceMAC, "intf", intf)
	}
	logger.Debug("Egress interface resolved", "intf", intf, "intf_mac", intfMAC)
	return Path{NexthopMAC: neigh.MAC, Interface: intf, InterfaceMAC: intfMAC}, nil
}

func (r *Resolver) neighbor(ctx context.Context, logger log.Logger,
	nexthop netip.Addr) (Neighbor, error) {

	neigh, ok, err := r.Tables.Neighbor(nexthop)
	if err != nil {
		return Neighbor{}, serrors.Wrap("looking up neighbor", err, "nexthop", nexthop)
	}
	if ok {
		return neigh, nil
	}
	logger.Debug("Checking static neighbor entries")
	neigh, ok, err = r.Tables.StaticNeighbor(nexthop)
	if err != nil {
		return Neighbor{}, serrors.Wrap("looking up static neighbor", err, "nexthop", nexthop)
	}
	if ok {
		return neigh, nil
	}
	if r.Prober == nil {
		return Neighbor{}, serrors.Wrap("resolving nexthop", ErrNoNeighbor, "nexthop", nexthop)
	}
	r.probed.DeleteExpired()
	if cached, ok := r.probed.Get(nexthop.String()); ok {
		return cached.(Neighbor), nil
	}
	logger.Debug("Probing nexthop")
	neigh, err = r.Prober.Probe(ctx, nexthop)
	if err != nil {
		return Neighbor{}, serrors.Join(ErrNoNeighbor, err, "nexthop", nexthop)
	}
	r.probed.SetDefault(nexthop.String(), neigh)
	return neigh, nil
}

func (r *Resolver) logger() log.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Root()
}
