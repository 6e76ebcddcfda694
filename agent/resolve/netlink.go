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

//go:build linux

package resolve

import (
	"bytes"
	"net"
	"net/netip"

	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"

	"github.com/tunnelwatch/mplsliveness/pkg/private/serrors"
)

const (
	learnedStates = netlink.NUD_REACHABLE | netlink.NUD_STALE | netlink.NUD_DELAY |
		netlink.NUD_PROBE
	staticStates = netlink.NUD_PERMANENT | netlink.NUD_NOARP
)

// NetlinkTables reads the kernel's forwarding tables over netlink.
type NetlinkTables struct{}

func (NetlinkTables) InterfaceAddrs(intf string) ([]netip.Addr, error) {
	link, err := netlink.LinkByName(intf)
	if err != nil {
		return nil, err
	}
	addrs, err := netlink.AddrList(link, netlink.FAMILY_V4)
	if err != nil {
		return nil, err
	}
	res := make([]netip.Addr, 0, len(addrs))
	for _, a := range addrs {
		if ip, ok := netip.AddrFromSlice(a.IP); ok {
			res = append(res, ip.Unmap())
		}
	}
	return res, nil
}

func (t NetlinkTables) Neighbor(ip netip.Addr) (Neighbor, bool, error) {
	return t.neighbor(ip, learnedStates)
}

func (t NetlinkTables) StaticNeighbor(ip netip.Addr) (Neighbor, bool, error) {
	return t.neighbor(ip, staticStates)
}

func (NetlinkTables) neighbor(ip netip.Addr, states int) (Neighbor, bool, error) {
	neighbors, err := netlink.NeighList(0, netlink.FAMILY_V4)
	if err != nil {
		return Neighbor{}, false, err
	}
	for _, n := range neighbors {
		neighIP, ok := netip.AddrFromSlice(n.IP)
		if !ok || neighIP.Unmap() != ip {
			continue
		}
		if n.State&states == 0 || len(n.HardwareAddr) != 6 {
			continue
		}
		neigh := Neighbor{MAC: n.HardwareAddr}
		if link, err := netlink.LinkByIndex(n.LinkIndex); err == nil {
			neigh.Interface = link.Attrs().Name
		}
		return neigh, true, nil
	}
	return Neighbor{}, false, nil
}

// MACEntry searches the bridge forwarding database. Entries without a VLAN
// match any VLAN.
func (NetlinkTables) MACEntry(vlan uint16, mac net.HardwareAddr) (string, bool, error) {
	entries, err := netlink.NeighList(0, unix.AF_BRIDGE)
	if err != nil {
		return "", false, err
	}
	for _, e := range entries {
		if !bytes.Equal(e.HardwareAddr, mac) {
			continue
		}
		if e.Vlan != 0 && e.Vlan != int(vlan) {
			continue
		}
		link, err := netlink.LinkByIndex(e.LinkIndex)
		if err != nil {
			return "", false, serrors.Wrap("looking up bridge port", err,
				"index", e.LinkIndex)
		}
		return link.Attrs().Name, true, nil
	}
	return "", false, nil
}

func (NetlinkTables) InterfaceMAC(intf string) (net.HardwareAddr, error) {
	link, err := netlink.LinkByName(intf)
	if err != nil {
		return nil, err
	}
	return link.Attrs().HardwareAddr, nil
}
