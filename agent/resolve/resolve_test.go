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

package resolve_test

import (
	"context"
	"errors"
	"net"
	"net/netip"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunnelwatch/mplsliveness/agent/resolve"
	"github.com/tunnelwatch/mplsliveness/agent/resolve/mock_resolve"
	"github.com/tunnelwatch/mplsliveness/pkg/log/testlog"
)

var (
	nexthop  = netip.MustParseAddr("192.168.1.2")
	peerMAC  = net.HardwareAddr{0x02, 0, 0, 0, 0, 0x02}
	localMAC = net.HardwareAddr{0x02, 0, 0, 0, 0, 0x01}
)

func newResolver(t *testing.T, tables resolve.Tables, prober resolve.Prober) *resolve.Resolver {
	r := resolve.New(tables, prober, 1)
	r.Logger = testlog.NewLogger(t)
	return r
}

func TestResolveLearnedNeighbor(t *testing.T) {
	ctrl := gomock.NewController(t)
	tables := mock_resolve.NewMockTables(ctrl)
	tables.EXPECT().Neighbor(nexthop).Return(
		resolve.Neighbor{MAC: peerMAC, Interface: "br0"}, true, nil)
	tables.EXPECT().MACEntry(uint16(1), peerMAC).Return("et1", true, nil)
	tables.EXPECT().InterfaceMAC("et1").Return(localMAC, nil)

	path, err := newResolver(t, tables, nil).Resolve(context.Background(), nexthop)
	require.NoError(t, err)
	assert.Equal(t, resolve.Path{
		NexthopMAC:   peerMAC,
		Interface:    "et1",
		InterfaceMAC: localMAC,
	}, path)
}

func TestResolveStaticNeighbor(t *testing.T) {
	ctrl := gomock.NewController(t)
	tables := mock_resolve.NewMockTables(ctrl)
	gomock.InOrder(
		tables.EXPECT().Neighbor(nexthop).Return(resolve.Neighbor{}, false, nil),
		tables.EXPECT().StaticNeighbor(nexthop).Return(
			resolve.Neighbor{MAC: peerMAC}, true, nil),
	)
	tables.EXPECT().MACEntry(uint16(1), peerMAC).Return("et2", true, nil)
	tables.EXPECT().InterfaceMAC("et2").Return(localMAC, nil)

	path, err := newResolver(t, tables, nil).Resolve(context.Background(), nexthop)
	require.NoError(t, err)
	assert.Equal(t, "et2", path.Interface)
}

func TestResolveNoNeighbor(t *testing.T) {
	ctrl := gomock.NewController(t)
	tables := mock_resolve.NewMockTables(ctrl)
	tables.EXPECT().Neighbor(nexthop).Return(resolve.Neighbor{}, false, nil)
	tables.EXPECT().StaticNeighbor(nexthop).Return(resolve.Neighbor{}, false, nil)

	_, err := newResolver(t, tables, nil).Resolve(context.Background(), nexthop)
	assert.ErrorIs(t, err, resolve.ErrNoNeighbor)
}

func TestResolveProbeCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	tables := mock_resolve.NewMockTables(ctrl)
	prober := mock_resolve.NewMockProber(ctrl)
	tables.EXPECT().Neighbor(nexthop).Return(resolve.Neighbor{}, false, nil).Times(2)
	tables.EXPECT().StaticNeighbor(nexthop).Return(resolve.Neighbor{}, false, nil).Times(2)
	prober.EXPECT().Probe(gomock.Any(), nexthop).Return(
		resolve.Neighbor{MAC: peerMAC, Interface: "eth3"}, nil).Times(1)
	tables.EXPECT().MACEntry(uint16(1), peerMAC).Return("", false, nil).Times(2)
	tables.EXPECT().InterfaceMAC("eth3").Return(localMAC, nil).Times(2)

	r := newResolver(t, tables, prober)
	for i := 0; i < 2; i++ {
		path, err := r.Resolve(context.Background(), nexthop)
		require.NoError(t, err)
		assert.Equal(t, resolve.Path{
			NexthopMAC:   peerMAC,
			Interface:    "eth3",
			InterfaceMAC: localMAC,
		}, path)
	}
}

func TestResolveProbeFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	tables := mock_resolve.NewMockTables(ctrl)
	prober := mock_resolve.NewMockProber(ctrl)
	tables.EXPECT().Neighbor(nexthop).Return(resolve.Neighbor{}, false, nil)
	tables.EXPECT().StaticNeighbor(nexthop).Return(resolve.Neighbor{}, false, nil)
	probeErr := errors.New("i/o timeout")
	prober.EXPECT().Probe(gomock.Any(), nexthop).Return(resolve.Neighbor{}, probeErr)

	_, err := newResolver(t, tables, prober).Resolve(context.Background(), nexthop)
	assert.ErrorIs(t, err, resolve.ErrNoNeighbor)
	assert.ErrorIs(t, err, probeErr)
}

func TestResolveNoMACEntry(t *testing.T) {
	ctrl := gomock.NewController(t)
	tables := mock_resolve.NewMockTables(ctrl)
	tables.EXPECT().Neighbor(nexthop).Return(resolve.Neighbor{MAC: peerMAC}, true, nil)
	tables.EXPECT().MACEntry(uint16(1), peerMAC).Return("", false, nil)

	_, err := newResolver(t, tables, nil).Resolve(context.Background(), nexthop)
	assert.ErrorIs(t, err, resolve.ErrNoInterface)
}

func TestResolveNoInterfaceMAC(t *testing.T) {
	ctrl := gomock.NewController(t)
	tables := mock_resolve.NewMockTables(ctrl)
	tables.EXPECT().Neighbor(nexthop).Return(resolve.Neighbor{MAC: peerMAC}, true, nil)
	tables.EXPECT().MACEntry(uint16(1), peerMAC).Return("et1", true, nil)
	tables.EXPECT().InterfaceMAC("et1").Return(nil, nil)

	_, err := newResolver(t, tables, nil).Resolve(context.Background(), nexthop)
	assert.ErrorIs(t, err, resolve.ErrNoInterfaceMAC)
}

func TestResolveTableError(t *testing.T) {
	ctrl := gomock.NewController(t)
	tables := mock_resolve.NewMockTables(ctrl)
	tables.EXPECT().Neighbor(nexthop).Return(resolve.Neighbor{}, false, errors.New("netlink"))

	_, err := newResolver(t, tables, nil).Resolve(context.Background(), nexthop)
	assert.Error(t, err)
}

func TestSourceIP(t *testing.T) {
	ctrl := gomock.NewController(t)
	tables := mock_resolve.NewMockTables(ctrl)
	tables.EXPECT().InterfaceAddrs("lo0").Return([]netip.Addr{
		netip.MustParseAddr("fd00::1"),
		netip.MustParseAddr("10.0.0.1"),
		netip.MustParseAddr("10.0.0.5"),
	}, nil)
	tables.EXPECT().InterfaceAddrs("lo1").Return(nil, nil)

	r := newResolver(t, tables, nil)
	ip, err := r.SourceIP("lo0")
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("10.0.0.1"), ip)

	_, err = r.SourceIP("lo1")
	assert.ErrorIs(t, err, resolve.ErrNoSourceIP)
}
