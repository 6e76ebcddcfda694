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

// Package underlay moves heartbeats on and off the wire. Outgoing heartbeats
// are wrapped into Ethernet/MPLS/IPv4/UDP frames and written to a raw socket
// on the tunnel's egress interface, so that they traverse the tunnel.
// Incoming heartbeats arrive, with the label already popped by the network,
// on a plain UDP socket.
package underlay

import (
	"net"
	"net/netip"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"

	"github.com/tunnelwatch/mplsliveness/pkg/liveness"
	"github.com/tunnelwatch/mplsliveness/pkg/private/serrors"
)

// DefaultTTL is used for the MPLS label and the IPv4 header if no TTL is
// set.
const DefaultTTL = 64

// Encapsulation describes the headers put in front of a heartbeat.
type Encapsulation struct {
	SrcMAC net.HardwareAddr
	DstMAC net.HardwareAddr
	Label  uint32
	// MPLSTTL defaults to DefaultTTL if zero.
	MPLSTTL uint8
	SrcIP   netip.Addr
	DstIP   netip.Addr
	// Port is used as UDP source and destination port. It defaults to
	// liveness.UDPPort if zero.
	Port uint16
}

// Build serializes msg wrapped into the headers described by e.
func (e Encapsulation) Build(msg *liveness.Message) ([]byte, error) {
	if !e.SrcIP.Is4() || !e.DstIP.Is4() {
		return nil, serrors.New("IPv4 addresses required", "src", e.SrcIP, "dst", e.DstIP)
	}
	ttl := e.MPLSTTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	port := layers.UDPPort(e.Port)
	if port == 0 {
		port = liveness.UDPPort
	}
	eth := &layers.Ethernet{
		SrcMAC:       e.SrcMAC,
		DstMAC:       e.DstMAC,
		EthernetType: layers.EthernetTypeMPLSUnicast,
	}
	mpls := &layers.MPLS{
		Label:       e.Label,
		StackBottom: true,
		TTL:         ttl,
	}
	ip := &layers.IPv4{
		Version:  4,
		TTL:      DefaultTTL,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    net.IP(e.SrcIP.AsSlice()),
		DstIP:    net.IP(e.DstIP.AsSlice()),
	}
	udp := &layers.UDP{
		SrcPort: port,
		DstPort: port,
	}
	if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
		return nil, err
	}
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, eth, mpls, ip, udp, msg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Parse dissects a frame produced by Build.
func Parse(frame []byte) (Encapsulation, *liveness.Message, error) {
	pkt := gopacket.NewPacket(frame, layers.LayerTypeEthernet, gopacket.Default)
	if errLayer := pkt.ErrorLayer(); errLayer != nil {
		return Encapsulation{}, nil, serrors.Wrap("decoding frame", errLayer.Error())
	}
	eth, ok := pkt.Layer(layers.LayerTypeEthernet).(*layers.Ethernet)
	if !ok {
		return Encapsulation{}, nil, serrors.New("no Ethernet header")
	}
	mpls, ok := pkt.Layer(layers.LayerTypeMPLS).(*layers.MPLS)
	if !ok {
		return Encapsulation{}, nil, serrors.New("no MPLS header")
	}
	ip, ok := pkt.Layer(layers.LayerTypeIPv4).(*layers.IPv4)
	if !ok {
		return Encapsulation{}, nil, serrors.New("no IPv4 header")
	}
	udp, ok := pkt.Layer(layers.LayerTypeUDP).(*layers.UDP)
	if !ok {
		return Encapsulation{}, nil, serrors.New("no UDP header")
	}
	msg, ok := pkt.Layer(liveness.LayerTypeLiveness).(*liveness.Message)
	if !ok {
		return Encapsulation{}, nil, serrors.New("no heartbeat", "port", udp.DstPort)
	}
	src, _ := netip.AddrFromSlice(ip.SrcIP)
	dst, _ := netip.AddrFromSlice(ip.DstIP)
	e := Encapsulation{
		SrcMAC:  eth.SrcMAC,
		DstMAC:  eth.DstMAC,
		Label:   mpls.Label,
		MPLSTTL: mpls.TTL,
		SrcIP:   src.Unmap(),
		DstIP:   dst.Unmap(),
		Port:    uint16(udp.DstPort),
	}
	return e, msg, nil
}
