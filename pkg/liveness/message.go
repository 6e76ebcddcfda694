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

// Package liveness implements the heartbeat message exchanged between tunnel
// endpoints.
//
// A message is a fixed header of five little-endian uint32 fields (version,
// sender PID, egress tunnel key, sequence id, entry count) followed by
// entry count entries of a little-endian uint32 tunnel key and a one byte
// liveness flag. Entries are packed without padding.
package liveness

import (
	"encoding/binary"
	"errors"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"

	"github.com/tunnelwatch/mplsliveness/pkg/private/serrors"
)

const (
	// Version is the only protocol version understood.
	Version uint32 = 1
	// HeaderLen is the length of the fixed message header.
	HeaderLen = 20
	// EntryLen is the length of a single entry.
	EntryLen = 5
	// MaxPacketSize bounds the size of an encoded message.
	MaxPacketSize = 2048
	// MaxEntries is the largest number of entries that fit into a message.
	MaxEntries = (MaxPacketSize - HeaderLen) / EntryLen
	// UDPPort is the UDP port used as source and destination for heartbeats.
	UDPPort = 17171
)

// ErrTooLarge indicates that a message does not fit into MaxPacketSize.
var ErrTooLarge = errors.New("message too large")

// Entry reports the liveness of one of the receiver's egress tunnels.
type Entry struct {
	TunnelKey uint32
	Alive     bool
}

// Message is a liveness heartbeat. It is usable as a gopacket layer.
type Message struct {
	layers.BaseLayer

	Version         uint32
	SenderPID       uint32
	EgressTunnelKey uint32
	SequenceID      uint32
	Entries         []Entry
}

// Len returns the encoded length of the message.
func (m *Message) Len() int {
	return HeaderLen + EntryLen*len(m.Entries)
}

func (m *Message) LayerType() gopacket.LayerType {
	return LayerTypeLiveness
}

func (m *Message) CanDecode() gopacket.LayerClass {
	return LayerClassLiveness
}

func (m *Message) NextLayerType() gopacket.LayerType {
	return gopacket.LayerTypePayload
}

// DecodeFromBytes parses data into m. Bytes after the last entry end up in
// the payload.
func (m *Message) DecodeFromBytes(data []byte, df gopacket.DecodeFeedback) error {
	if len(data) < HeaderLen {
		df.SetTruncated()
		return serrors.New("message is shorter than header",
			"min", HeaderLen, "actual", len(data))
	}
	m.Version = binary.LittleEndian.Uint32(data[0:4])
	if m.Version != Version {
		return serrors.New("unsupported version", "version", m.Version)
	}
	m.SenderPID = binary.LittleEndian.Uint32(data[4:8])
	m.EgressTunnelKey = binary.LittleEndian.Uint32(data[8:12])
	m.SequenceID = binary.LittleEndian.Uint32(data[12:16])
	count := binary.LittleEndian.Uint32(data[16:20])
	// Compare in uint64 so that huge counts cannot overflow.
	end := uint64(HeaderLen) + uint64(count)*EntryLen
	if uint64(len(data)) < end {
		df.SetTruncated()
		return serrors.New("message is shorter than announced entries",
			"entries", count, "min", end, "actual", len(data))
	}
	m.Entries = make([]Entry, count)
	for i := range m.Entries {
		off := HeaderLen + i*EntryLen
		m.Entries[i] = Entry{
			TunnelKey: binary.LittleEndian.Uint32(data[off : off+4]),
			Alive:     data[off+4] != 0,
		}
	}
	m.BaseLayer = layers.BaseLayer{Contents: data[:end], Payload: data[end:]}
	return nil
}

// SerializeTo writes the message into b. The version field is written as
// Version regardless of m.Version.
func (m *Message) SerializeTo(b gopacket.SerializeBuffer,
	opts gopacket.SerializeOptions) error {

	if m.Len() > MaxPacketSize {
		return serrors.Wrap("encoding message", ErrTooLarge,
			"entries", len(m.Entries), "max", MaxEntries)
	}
	buf, err := b.PrependBytes(m.Len())
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(buf[0:4], Version)
	binary.LittleEndian.PutUint32(buf[4:8], m.SenderPID)
	binary.LittleEndian.PutUint32(buf[8:12], m.EgressTunnelKey)
	binary.LittleEndian.PutUint32(buf[12:16], m.SequenceID)
	binary.LittleEndian.PutUint32(buf[16:20], uint32(len(m.Entries)))
	for i, e := range m.Entries {
		off := HeaderLen + i*EntryLen
		binary.LittleEndian.PutUint32(buf[off:off+4], e.TunnelKey)
		buf[off+4] = 0
		if e.Alive {
			buf[off+4] = 1
		}
	}
	return nil
}

func decodeLiveness(data []byte, pb gopacket.PacketBuilder) error {
	m := &Message{}
	if err := m.DecodeFromBytes(data, pb); err != nil {
		return err
	}
	pb.AddLayer(m)
	return pb.NextDecoder(m.NextLayerType())
}

// Encode serializes msg. It fails with ErrTooLarge if msg carries more than
// MaxEntries entries.
func Encode(msg *Message) ([]byte, error) {
	buf := gopacket.NewSerializeBuffer()
	if err := msg.SerializeTo(buf, gopacket.SerializeOptions{}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses b. It reports false for any buffer that is not a well formed
// message of the supported version.
func Decode(b []byte) (*Message, bool) {
	m := &Message{}
	if err := m.DecodeFromBytes(b, gopacket.NilDecodeFeedback); err != nil {
		return nil, false
	}
	return m, true
}
