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
	"context"
	"net"
	"net/netip"
	"time"

	"github.com/mdlayher/arp"
	"github.com/mdlayher/ethernet"
	"github.com/vishvananda/netlink"

	"github.com/tunnelwatch/mplsliveness/pkg/private/serrors"
)

// ARPProber resolves nexthops by sending an ARP request out of the interface
// the kernel routes the nexthop through.
type ARPProber struct {
	Timeout time.Duration
}

func (p ARPProber) Probe(ctx context.Context, ip netip.Addr) (Neighbor, error) {
	routes, err := netlink.RouteGet(net.IP(ip.AsSlice()))
	if err != nil {
		return Neighbor{}, serrors.Wrap("looking up route", err, "ip", ip)
	}
	if len(routes) == 0 {
		return Neighbor{}, serrors.New("no route", "ip", ip)
	}
	ifi, err := net.InterfaceByIndex(routes[0].LinkIndex)
	if err != nil {
		return Neighbor{}, serrors.Wrap("looking up interface", err,
			"index", routes[0].LinkIndex)
	}
	c, err := arp.Dial(ifi)
	if err != nil {
		return Neighbor{}, serrors.Wrap("opening ARP client", err, "intf", ifi.Name)
	}
	defer c.Close()

	deadline := time.Now().Add(p.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.SetDeadline(deadline); err != nil {
		return Neighbor{}, serrors.Wrap("setting ARP deadline", err)
	}
	mac, err := c.Resolve(ip)
	if err != nil {
		return Neighbor{}, serrors.Wrap("ARP probe", err, "ip", ip, "intf", ifi.Name)
	}
	if len(mac) != 6 || bytes.Equal(mac, ethernet.Broadcast) || mac[0]&0x01 != 0 {
		return Neighbor{}, serrors.New("ARP reply with invalid address", "ip", ip,
			"mac", mac)
	}
	return Neighbor{MAC: mac, Interface: ifi.Name}, nil
}
