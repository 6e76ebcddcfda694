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
	"net"

	"github.com/mdlayher/packet"
)

// DialPacket opens an AF_PACKET socket on intf. Frames written to it must
// carry their own Ethernet header. The socket is bound to protocol zero and
// receives no frames.
func DialPacket(intf string) (FrameConn, error) {
	ifi, err := net.InterfaceByName(intf)
	if err != nil {
		return nil, err
	}
	conn, err := packet.Listen(ifi, packet.Raw, 0, nil)
	if err != nil {
		return nil, err
	}
	return packetConn{Conn: conn}, nil
}

// packetConn translates the destination address for the packet socket.
type packetConn struct {
	*packet.Conn
}

func (c packetConn) WriteTo(b []byte, addr net.Addr) (int, error) {
	if a, ok := addr.(*hwAddr); ok {
		return c.Conn.WriteTo(b, &packet.Addr{HardwareAddr: a.mac})
	}
	return c.Conn.WriteTo(b, addr)
}
