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

package config

import (
	"bytes"
	"encoding/json"
	"io"
	"net/netip"
	"os"
	"slices"
	"strconv"

	"github.com/tunnelwatch/mplsliveness/pkg/private/serrors"
)

// MaxLabel is the largest value of a 20 bit MPLS label.
const MaxLabel = 1<<20 - 1

// Tunnels is the validated tunnel configuration.
type Tunnels struct {
	// SrcIntf is the interface whose IPv4 address is used as source of
	// heartbeats and on which heartbeats are received.
	SrcIntf string
	// RemoteSwitches are sorted by destination address.
	RemoteSwitches []RemoteSwitch
}

// RemoteSwitch is a peer switch reached through one or more tunnels.
type RemoteSwitch struct {
	DestinationIP netip.Addr
	Tunnels       map[uint32]Tunnel
}

// Tunnel is a single outgoing MPLS tunnel towards a remote switch.
type Tunnel struct {
	Label     uint32
	NexthopIP netip.Addr
}

// The JSON representation uses pointers so that missing mandatory fields can
// be told apart from zero values.
type jsonTunnels struct {
	SrcIntf        *string            `json:"src_intf"`
	RemoteSwitches []jsonRemoteSwitch `json:"remote_switches"`
}

type jsonRemoteSwitch struct {
	DestinationIP *string               `json:"destination_ip"`
	Tunnels       map[string]jsonTunnel `json:"tunnels"`
}

type jsonTunnel struct {
	Label     *uint32 `json:"label"`
	NexthopIP *string `json:"nexthop_ip"`
}

// LoadTunnels reads and validates the tunnel configuration in file.
func LoadTunnels(file string) (*Tunnels, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, serrors.Wrap("reading tunnel config", err, "file", file)
	}
	t, err := ParseTunnels(raw)
	if err != nil {
		return nil, serrors.Wrap("parsing tunnel config", err, "file", file)
	}
	return t, nil
}

// ParseTunnels decodes and validates a JSON tunnel configuration. Unknown
// fields are rejected.
func ParseTunnels(raw []byte) (*Tunnels, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var j jsonTunnels
	if err := dec.Decode(&j); err != nil {
		return nil, serrors.Wrap("decoding json", err)
	}
	if dec.More() {
		return nil, serrors.New("trailing data after tunnel config")
	}
	if j.SrcIntf == nil || *j.SrcIntf == "" {
		return nil, serrors.New("src_intf is required")
	}
	if j.RemoteSwitches == nil {
		return nil, serrors.New("remote_switches is required")
	}
	t := &Tunnels{
		SrcIntf:        *j.SrcIntf,
		RemoteSwitches: make([]RemoteSwitch, 0, len(j.RemoteSwitches)),
	}
	seen := make(map[netip.Addr]struct{}, len(j.RemoteSwitches))
	for i, jrs := range j.RemoteSwitches {
		rs, err := jrs.convert()
		if err != nil {
			return nil, serrors.Wrap("invalid remote switch", err, "index", i)
		}
		if _, ok := seen[rs.DestinationIP]; ok {
			return nil, serrors.New("duplicate destination_ip",
				"destination_ip", rs.DestinationIP)
		}
		seen[rs.DestinationIP] = struct{}{}
		t.RemoteSwitches = append(t.RemoteSwitches, rs)
	}
	slices.SortFunc(t.RemoteSwitches, func(a, b RemoteSwitch) int {
		return a.DestinationIP.Compare(b.DestinationIP)
	})
	return t, nil
}

func (j jsonRemoteSwitch) convert() (RemoteSwitch, error) {
	if j.DestinationIP == nil {
		return RemoteSwitch{}, serrors.New("destination_ip is required")
	}
	dst, err := parseIPv4(*j.DestinationIP)
	if err != nil {
		return RemoteSwitch{}, serrors.Wrap("invalid destination_ip", err)
	}
	if j.Tunnels == nil {
		return RemoteSwitch{}, serrors.New("tunnels is required", "destination_ip", dst)
	}
	rs := RemoteSwitch{
		DestinationIP: dst,
		Tunnels:       make(map[uint32]Tunnel, len(j.Tunnels)),
	}
	for rawKey, jt := range j.Tunnels {
		key, err := strconv.ParseUint(rawKey, 10, 32)
		if err != nil {
			return RemoteSwitch{}, serrors.Wrap("invalid tunnel key", err, "key", rawKey)
		}
		if _, ok := rs.Tunnels[uint32(key)]; ok {
			// "1" and "01" name the same tunnel.
			return RemoteSwitch{}, serrors.New("duplicate tunnel key", "key", rawKey)
		}
		tunnel, err := jt.convert()
		if err != nil {
			return RemoteSwitch{}, serrors.Wrap("invalid tunnel", err, "key", rawKey)
		}
		rs.Tunnels[uint32(key)] = tunnel
	}
	return rs, nil
}

func (j jsonTunnel) convert() (Tunnel, error) {
	if j.Label == nil {
		return Tunnel{}, serrors.New("label is required")
	}
	if *j.Label > MaxLabel {
		return Tunnel{}, serrors.New("label out of range", "label", *j.Label, "max", MaxLabel)
	}
	if j.NexthopIP == nil {
		return Tunnel{}, serrors.New("nexthop_ip is required")
	}
	nh, err := parseIPv4(*j.NexthopIP)
	if err != nil {
		return Tunnel{}, serrors.Wrap("invalid nexthop_ip", err)
	}
	return Tunnel{Label: *j.Label, NexthopIP: nh}, nil
}

func parseIPv4(s string) (netip.Addr, error) {
	a, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, err
	}
	a = a.Unmap()
	if !a.Is4() {
		return netip.Addr{}, serrors.New("not an IPv4 address", "addr", s)
	}
	return a, nil
}

// SortedKeys returns the tunnel keys of rs in ascending order.
func (rs RemoteSwitch) SortedKeys() []uint32 {
	keys := make([]uint32, 0, len(rs.Tunnels))
	for k := range rs.Tunnels {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// WriteTunnelsSample writes an example tunnel configuration to dst.
func WriteTunnelsSample(dst io.Writer) error {
	_, err := io.WriteString(dst, tunnelsSample)
	return err
}
