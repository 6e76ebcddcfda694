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

package underlay

import (
	"context"
	"errors"
	"net"
	"net/netip"

	"golang.org/x/net/ipv4"

	"github.com/tunnelwatch/mplsliveness/pkg/liveness"
	"github.com/tunnelwatch/mplsliveness/pkg/log"
	"github.com/tunnelwatch/mplsliveness/pkg/private/serrors"
)

// Packet is a datagram received on the heartbeat port.
type Packet struct {
	Src netip.Addr
	// IfIndex is the index of the interface the packet arrived on, zero if
	// unknown.
	IfIndex int
	Data    []byte
}

// Receiver reads heartbeats from a UDP socket.
type Receiver struct {
	conn *net.UDPConn
	pc   *ipv4.PacketConn
}

// Listen opens the heartbeat socket on addr.
func Listen(addr netip.AddrPort) (*Receiver, error) {
	conn, err := net.ListenUDP("udp4", net.UDPAddrFromAddrPort(addr))
	if err != nil {
		return nil, serrors.Wrap("listening", err, "addr", addr)
	}
	pc := ipv4.NewPacketConn(conn)
	if err := pc.SetControlMessage(ipv4.FlagInterface, true); err != nil {
		// Not all platforms support this, the interface is informational.
		log.Debug("Interface control messages unavailable", "err", err)
	}
	return &Receiver{conn: conn, pc: pc}, nil
}

// LocalAddr returns the address the socket is bound to.
func (r *Receiver) LocalAddr() netip.AddrPort {
	return r.conn.LocalAddr().(*net.UDPAddr).AddrPort()
}

// Run reads datagrams and delivers them to out until ctx is done or the
// receiver is closed. It closes the socket before returning. Packets are
// copied, the receiving side owns them.
func (r *Receiver) Run(ctx context.Context, out chan<- Packet) error {
	stop := context.AfterFunc(ctx, func() { r.conn.Close() })
	defer stop()
	defer r.conn.Close()

	// Datagrams larger than a heartbeat are truncated, trailing bytes are
	// ignored by the decoder anyway.
	buf := make([]byte, liveness.MaxPacketSize)
	for {
		n, cm, src, err := r.pc.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return serrors.Wrap("reading heartbeat", err)
		}
		p := Packet{Data: append([]byte(nil), buf[:n]...)}
		if udp, ok := src.(*net.UDPAddr); ok {
			p.Src = udp.AddrPort().Addr().Unmap()
		}
		if cm != nil {
			p.IfIndex = cm.IfIndex
		}
		select {
		case out <- p:
		case <-ctx.Done():
			return nil
		}
	}
}

// Close closes the socket. A running Run returns.
func (r *Receiver) Close() error {
	return r.conn.Close()
}
