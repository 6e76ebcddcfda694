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

package liveness_test

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunnelwatch/mplsliveness/pkg/liveness"
	"github.com/tunnelwatch/mplsliveness/pkg/private/xtest"
)

var ignoreBase = cmpopts.IgnoreFields(liveness.Message{}, "BaseLayer")

func TestEncodeDecode(t *testing.T) {
	testCases := map[string]*liveness.Message{
		"no entries": {
			Version:         liveness.Version,
			SenderPID:       4242,
			EgressTunnelKey: 7,
			SequenceID:      1,
			Entries:         []liveness.Entry{},
		},
		"mixed entries": {
			Version:         liveness.Version,
			SenderPID:       0xFFFFFFFF,
			EgressTunnelKey: 1,
			SequenceID:      99,
			Entries: []liveness.Entry{
				{TunnelKey: 1, Alive: true},
				{TunnelKey: 2, Alive: false},
				{TunnelKey: 0xDEADBEEF, Alive: true},
			},
		},
	}
	for name, msg := range testCases {
		t.Run(name, func(t *testing.T) {
			raw, err := liveness.Encode(msg)
			require.NoError(t, err)
			assert.Len(t, raw, liveness.HeaderLen+liveness.EntryLen*len(msg.Entries))
			got, ok := liveness.Decode(raw)
			require.True(t, ok)
			if diff := cmp.Diff(msg, got, ignoreBase); diff != "" {
				t.Errorf("decoded message mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeLayout(t *testing.T) {
	raw, err := liveness.Encode(&liveness.Message{
		SenderPID:       2,
		EgressTunnelKey: 3,
		SequenceID:      4,
		Entries:         []liveness.Entry{{TunnelKey: 0x01020304, Alive: true}},
	})
	require.NoError(t, err)
	want := []byte{
		1, 0, 0, 0,
		2, 0, 0, 0,
		3, 0, 0, 0,
		4, 0, 0, 0,
		1, 0, 0, 0,
		4, 3, 2, 1, 1,
	}
	assert.Equal(t, want, raw)
}

func TestEncodeTooLarge(t *testing.T) {
	msg := &liveness.Message{Entries: make([]liveness.Entry, liveness.MaxEntries)}
	raw, err := liveness.Encode(msg)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(raw), liveness.MaxPacketSize)

	msg.Entries = append(msg.Entries, liveness.Entry{})
	_, err = liveness.Encode(msg)
	assert.ErrorIs(t, err, liveness.ErrTooLarge)
}

func header(version, count uint32) []byte {
	b := make([]byte, liveness.HeaderLen)
	binary.LittleEndian.PutUint32(b[0:4], version)
	binary.LittleEndian.PutUint32(b[16:20], count)
	return b
}

func TestDecodeMalformed(t *testing.T) {
	testCases := map[string][]byte{
		"empty":            nil,
		"short header":     make([]byte, liveness.HeaderLen-1),
		"bad version":      header(2, 0),
		"zero version":     header(0, 0),
		"missing entries":  append(header(1, 2), make([]byte, liveness.EntryLen)...),
		"partial entry":    append(header(1, 1), 1, 2, 3, 4),
		"huge entry count": header(1, 0xFFFFFFFF),
	}
	for name, raw := range testCases {
		t.Run(name, func(t *testing.T) {
			var msg *liveness.Message
			var ok bool
			assert.NotPanics(t, func() { msg, ok = liveness.Decode(raw) })
			assert.False(t, ok)
			assert.Nil(t, msg)
		})
	}
}

func TestDecodeLenient(t *testing.T) {
	raw := append(header(1, 1), 9, 0, 0, 0, 0x80)
	raw = append(raw, []byte("trailer")...)
	msg, ok := liveness.Decode(raw)
	require.True(t, ok)
	assert.Equal(t, []liveness.Entry{{TunnelKey: 9, Alive: true}}, msg.Entries)
	assert.Equal(t, []byte("trailer"), msg.Payload)
}

func TestUDPPortDecodesAsLiveness(t *testing.T) {
	msg := &liveness.Message{
		SenderPID:       10,
		EgressTunnelKey: 20,
		SequenceID:      30,
		Entries:         []liveness.Entry{{TunnelKey: 20, Alive: true}},
	}
	ip := &layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    net.IP{10, 0, 0, 1},
		DstIP:    net.IP{10, 0, 0, 2},
	}
	udp := &layers.UDP{
		SrcPort: liveness.UDPPort,
		DstPort: liveness.UDPPort,
	}
	require.NoError(t, udp.SetNetworkLayerForChecksum(ip))
	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, ip, udp, msg))

	pkt := gopacket.NewPacket(buf.Bytes(), layers.LayerTypeIPv4, gopacket.Default)
	require.Nil(t, pkt.ErrorLayer())
	l := pkt.Layer(liveness.LayerTypeLiveness)
	require.NotNil(t, l)
	got := l.(*liveness.Message)
	msg.Version = liveness.Version
	if diff := cmp.Diff(msg, got, ignoreBase); diff != "" {
		t.Errorf("dissected message mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, bytes.Equal(got.LayerContents(), buf.Bytes()[28:]))
}

var update = xtest.UpdateGoldenFiles()

func TestEncodeGolden(t *testing.T) {
	msg := &liveness.Message{
		Version:         liveness.Version,
		SenderPID:       0x1234,
		EgressTunnelKey: 7,
		SequenceID:      42,
		Entries: []liveness.Entry{
			{TunnelKey: 1, Alive: true},
			{TunnelKey: 0x0a0b, Alive: false},
		},
	}
	raw, err := liveness.Encode(msg)
	require.NoError(t, err)
	if *update {
		xtest.MustWriteToFile(t, []byte(hex.EncodeToString(raw)+"\n"), "heartbeat.hex")
	}
	want := xtest.MustParseHexString(string(xtest.MustReadFromFile(t, "heartbeat.hex")))
	assert.Equal(t, want, raw)

	got, ok := liveness.Decode(want)
	require.True(t, ok)
	assert.Empty(t, cmp.Diff(msg, got, ignoreBase))
}
