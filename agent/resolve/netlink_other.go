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

//go:build !linux

package resolve

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"time"
)

var errUnsupported = errors.New("not supported on this platform")

// NetlinkTables is only available on Linux.
type NetlinkTables struct{}

func (NetlinkTables) InterfaceAddrs(string) ([]netip.Addr, error) {
	return nil, errUnsupported
}

func (NetlinkTables) Neighbor(netip.Addr) (Neighbor, bool, error) {
	return Neighbor{}, false, errUnsupported
}

func (NetlinkTables) StaticNeighbor(netip.Addr) (Neighbor, bool, error) {
	return Neighbor{}, false, errUnsupported
}

func (NetlinkTables) MACEntry(uint16, net.HardwareAddr) (string, bool, error) {
	return "", false, errUnsupported
}

func (NetlinkTables) InterfaceMAC(string) (net.HardwareAddr, error) {
	return nil, errUnsupported
}

// ARPProber is only available on Linux.
type ARPProber struct {
	Timeout time.Duration
}

func (ARPProber) Probe(context.Context, netip.Addr) (Neighbor, error) {
	return Neighbor{}, errUnsupported
}
