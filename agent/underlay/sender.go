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
	"sync"

	"github.com/tunnelwatch/mplsliveness/pkg/private/serrors"
)

// FrameConn writes link layer frames to a single interface.
type FrameConn interface {
	WriteTo(b []byte, addr net.Addr) (int, error)
	Close() error
}

// DialFunc opens a FrameConn on the interface with the given name.
type DialFunc func(intf string) (FrameConn, error)

// RawSender writes frames to raw sockets. One socket is opened per egress
// interface on first use and kept until Close.
type RawSender struct {
	// Dial opens the per interface sockets. It defaults to DialPacket.
	Dial DialFunc

	mtx   sync.Mutex
	conns map[string]FrameConn
}

// Send writes frame to intf. dst is the destination MAC address of the
// frame.
func (s *RawSender) Send(intf string, dst net.HardwareAddr, frame []byte) error {
	conn, err := s.conn(intf)
	if err != nil {
		return err
	}
	if _, err := conn.WriteTo(frame, &hwAddr{mac: dst}); err != nil {
		s.drop(intf, conn)
		return serrors.Wrap("writing frame", err, "intf", intf)
	}
	return nil
}

// Close closes all open sockets.
func (s *RawSender) Close() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	var errs serrors.List
	for intf, conn := range s.conns {
		if err := conn.Close(); err != nil {
			errs = append(errs, serrors.Wrap("closing socket", err, "intf", intf))
		}
	}
	s.conns = nil
	return errs.ToError()
}

func (s *RawSender) conn(intf string) (FrameConn, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if conn, ok := s.conns[intf]; ok {
		return conn, nil
	}
	dial := s.Dial
	if dial == nil {
		dial = DialPacket
	}
	conn, err := dial(intf)
	if err != nil {
		return nil, serrors.Wrap("opening raw socket", err, "intf", intf)
	}
	if s.conns == nil {
		s.conns = make(map[string]FrameConn)
	}
	s.conns[intf] = conn
	return conn, nil
}

// drop closes conn after a failed write, the interface may have been
// recreated. The next send reopens the socket.
func (s *RawSender) drop(intf string, conn FrameConn) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.conns[intf] == conn {
		delete(s.conns, intf)
		conn.Close()
	}
}

// hwAddr is the destination of a frame.
type hwAddr struct {
	mac net.HardwareAddr
}

func (a *hwAddr) Network() string { return "ethernet" }

func (a *hwAddr) String() string { return a.mac.String() }
