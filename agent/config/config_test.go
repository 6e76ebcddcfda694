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

package config_test

import (
	"bytes"
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunnelwatch/mplsliveness/agent/config"
	"github.com/tunnelwatch/mplsliveness/pkg/private/util"
	libconfig "github.com/tunnelwatch/mplsliveness/private/config"
)

func TestConfigSample(t *testing.T) {
	var sample bytes.Buffer
	var cfg config.Config
	cfg.Sample(&sample, nil, nil)

	err := toml.NewDecoder(bytes.NewReader(sample.Bytes())).DisallowUnknownFields().Decode(&cfg)
	require.NoError(t, err)
	cfg.InitDefaults()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "mplsliveness-1", cfg.General.ID)
	assert.Equal(t, "info", cfg.Logging.Console.Level)
	assert.Empty(t, cfg.Metrics.Prometheus)
	assert.Empty(t, cfg.API.Addr)
	checkLivenessDefaults(t, &cfg.Liveness)
}

func TestLivenessDefaults(t *testing.T) {
	var cfg config.Liveness
	cfg.InitDefaults()
	require.NoError(t, cfg.Validate())
	checkLivenessDefaults(t, &cfg)
}

func checkLivenessDefaults(t *testing.T, cfg *config.Liveness) {
	t.Helper()
	assert.Equal(t, config.DefaultTunnelConfig, cfg.TunnelConfig)
	assert.Equal(t, time.Second, cfg.PollInterval.Duration)
	assert.Equal(t, 5*time.Second, cfg.Timeout.Duration)
	assert.Equal(t, time.Duration(0), cfg.StartupGracePeriod.Duration)
	assert.Equal(t, uint16(17171), cfg.UDPPort)
	assert.Equal(t, uint8(64), cfg.MPLSTTL)
	assert.Equal(t, uint16(1), cfg.VLAN)
	assert.True(t, cfg.ARPProbeEnabled())
	assert.Equal(t, time.Second, cfg.ARPProbeTimeout.Duration)
}

func TestLivenessKeepsExplicitValues(t *testing.T) {
	raw := `
[liveness]
timeout = "3s"
arp_probe = false
vlan = 20
`
	var cfg config.Config
	require.NoError(t, libconfig.Decode([]byte(raw), &cfg))
	cfg.InitDefaults()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3*time.Second, cfg.Liveness.Timeout.Duration)
	assert.False(t, cfg.Liveness.ARPProbeEnabled())
	assert.Equal(t, uint16(20), cfg.Liveness.VLAN)
}

func TestLivenessValidate(t *testing.T) {
	testCases := map[string]func(*config.Liveness){
		"negative poll": func(c *config.Liveness) {
			c.PollInterval = util.DurWrap{Duration: -time.Second}
		},
		"negative timeout": func(c *config.Liveness) {
			c.Timeout = util.DurWrap{Duration: -time.Second}
		},
		"negative grace": func(c *config.Liveness) {
			c.StartupGracePeriod = util.DurWrap{Duration: -time.Second}
		},
		"vlan too large": func(c *config.Liveness) { c.VLAN = 4095 },
	}
	for name, mutate := range testCases {
		t.Run(name, func(t *testing.T) {
			var cfg config.Liveness
			cfg.InitDefaults()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadServiceConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "agent.toml")
	require.NoError(t, os.WriteFile(file, []byte("[general]\nid = \"sw1\"\n"), 0o644))
	var cfg config.Config
	require.NoError(t, libconfig.Load(file, &cfg))
	assert.Equal(t, "sw1", cfg.General.ID)

	require.NoError(t, os.WriteFile(file, []byte("[general]\nbogus = 1\n"), 0o644))
	assert.Error(t, libconfig.Load(file, &config.Config{}))
}

func TestParseTunnels(t *testing.T) {
	raw := `{
		"src_intf": "lo",
		"remote_switches": [
			{"destination_ip": "10.0.0.3", "tunnels": {"7": {"label": 70, "nexthop_ip": "192.168.0.7"}}},
			{"destination_ip": "10.0.0.2", "tunnels": {
				"1": {"label": 100, "nexthop_ip": "192.168.1.2"},
				"4294967295": {"label": 1048575, "nexthop_ip": "192.168.2.2"}
			}}
		]
	}`
	got, err := config.ParseTunnels([]byte(raw))
	require.NoError(t, err)
	want := &config.Tunnels{
		SrcIntf: "lo",
		RemoteSwitches: []config.RemoteSwitch{
			{
				DestinationIP: netip.MustParseAddr("10.0.0.2"),
				Tunnels: map[uint32]config.Tunnel{
					1:          {Label: 100, NexthopIP: netip.MustParseAddr("192.168.1.2")},
					4294967295: {Label: 1048575, NexthopIP: netip.MustParseAddr("192.168.2.2")},
				},
			},
			{
				DestinationIP: netip.MustParseAddr("10.0.0.3"),
				Tunnels: map[uint32]config.Tunnel{
					7: {Label: 70, NexthopIP: netip.MustParseAddr("192.168.0.7")},
				},
			},
		},
	}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b netip.Addr) bool {
		return a == b
	})); diff != "" {
		t.Errorf("tunnels mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []uint32{1, 4294967295}, got.RemoteSwitches[0].SortedKeys())
}

func TestParseTunnelsInvalid(t *testing.T) {
	testCases := map[string]string{
		"not json":        `{`,
		"missing intf":    `{"remote_switches": []}`,
		"empty intf":      `{"src_intf": "", "remote_switches": []}`,
		"unknown field":   `{"src_intf": "lo", "remote_switches": [], "extra": 1}`,
		"missing dst":     `{"src_intf": "lo", "remote_switches": [{"tunnels": {}}]}`,
		"bad dst":         `{"src_intf": "lo", "remote_switches": [{"destination_ip": "nope", "tunnels": {}}]}`,
		"ipv6 dst":        `{"src_intf": "lo", "remote_switches": [{"destination_ip": "fd00::1", "tunnels": {}}]}`,
		"duplicate dst":   `{"src_intf": "lo", "remote_switches": [{"destination_ip": "10.0.0.1", "tunnels": {}}, {"destination_ip": "10.0.0.1", "tunnels": {}}]}`,
		"missing peers":   `{"src_intf": "lo"}`,
		"null peers":      `{"src_intf": "lo", "remote_switches": null}`,
		"missing tunnels": `{"src_intf": "lo", "remote_switches": [{"destination_ip": "10.0.0.1"}]}`,
		"bad key":         `{"src_intf": "lo", "remote_switches": [{"destination_ip": "10.0.0.1", "tunnels": {"x": {"label": 1, "nexthop_ip": "10.1.1.1"}}}]}`,
		"key overflow":    `{"src_intf": "lo", "remote_switches": [{"destination_ip": "10.0.0.1", "tunnels": {"4294967296": {"label": 1, "nexthop_ip": "10.1.1.1"}}}]}`,
		"duplicate key":   `{"src_intf": "lo", "remote_switches": [{"destination_ip": "10.0.0.1", "tunnels": {"1": {"label": 1, "nexthop_ip": "10.1.1.1"}, "01": {"label": 2, "nexthop_ip": "10.1.1.1"}}}]}`,
		"missing label":   `{"src_intf": "lo", "remote_switches": [{"destination_ip": "10.0.0.1", "tunnels": {"1": {"nexthop_ip": "10.1.1.1"}}}]}`,
		"negative label":  `{"src_intf": "lo", "remote_switches": [{"destination_ip": "10.0.0.1", "tunnels": {"1": {"label": -1, "nexthop_ip": "10.1.1.1"}}}]}`,
		"label too large": `{"src_intf": "lo", "remote_switches": [{"destination_ip": "10.0.0.1", "tunnels": {"1": {"label": 1048576, "nexthop_ip": "10.1.1.1"}}}]}`,
		"missing nexthop": `{"src_intf": "lo", "remote_switches": [{"destination_ip": "10.0.0.1", "tunnels": {"1": {"label": 1}}}]}`,
		"bad nexthop":     `{"src_intf": "lo", "remote_switches": [{"destination_ip": "10.0.0.1", "tunnels": {"1": {"label": 1, "nexthop_ip": "10.1.1"}}}]}`,
		"trailing data":   `{"src_intf": "lo", "remote_switches": []} {}`,
	}
	for name, raw := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := config.ParseTunnels([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestParseTunnelsEmpty(t *testing.T) {
	got, err := config.ParseTunnels([]byte(`{"src_intf": "lo", "remote_switches": []}`))
	require.NoError(t, err)
	assert.Empty(t, got.RemoteSwitches)

	got, err = config.ParseTunnels([]byte(
		`{"src_intf": "lo", "remote_switches": [{"destination_ip": "10.0.0.1", "tunnels": {}}]}`))
	require.NoError(t, err)
	require.Len(t, got.RemoteSwitches, 1)
	assert.Empty(t, got.RemoteSwitches[0].Tunnels)
}

func TestLoadTunnelsSample(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, config.WriteTunnelsSample(&buf))
	file := filepath.Join(t.TempDir(), "tunnels.json")
	require.NoError(t, os.WriteFile(file, buf.Bytes(), 0o644))
	got, err := config.LoadTunnels(file)
	require.NoError(t, err)
	assert.Equal(t, "Loopback0", got.SrcIntf)
	require.Len(t, got.RemoteSwitches, 1)
	assert.Len(t, got.RemoteSwitches[0].Tunnels, 2)

	_, err = config.LoadTunnels(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
