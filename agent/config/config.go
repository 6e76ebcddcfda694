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

// Package config contains the configuration of the liveness agent: the
// service configuration read from TOML and the tunnel configuration read
// from JSON.
package config

import (
	"io"
	"time"

	"github.com/tunnelwatch/mplsliveness/pkg/liveness"
	"github.com/tunnelwatch/mplsliveness/pkg/log"
	"github.com/tunnelwatch/mplsliveness/pkg/private/serrors"
	"github.com/tunnelwatch/mplsliveness/pkg/private/util"
	"github.com/tunnelwatch/mplsliveness/private/config"
	"github.com/tunnelwatch/mplsliveness/private/env"
)

// Defaults.
const (
	DefaultTunnelConfig    = "/etc/mplsliveness/tunnels.json"
	DefaultPollInterval    = time.Second
	DefaultTimeout         = 5 * time.Second
	DefaultMPLSTTL         = 64
	DefaultVLAN            = 1
	DefaultARPProbeTimeout = time.Second

	// MaxVLAN is the largest valid 802.1Q VLAN id.
	MaxVLAN = 4094
)

var _ config.Config = (*Config)(nil)

// Config is the service configuration of the agent.
type Config struct {
	General  env.General `toml:"general,omitempty"`
	Logging  log.Config  `toml:"log,omitempty"`
	Metrics  env.Metrics `toml:"metrics,omitempty"`
	API      env.API     `toml:"api,omitempty"`
	Liveness Liveness    `toml:"liveness,omitempty"`
}

func (cfg *Config) InitDefaults() {
	config.InitAll(
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.API,
		&cfg.Liveness,
	)
}

func (cfg *Config) Validate() error {
	return config.ValidateAll(
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.API,
		&cfg.Liveness,
	)
}

func (cfg *Config) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteSample(dst, path, config.CtxMap{config.ID: "mplsliveness-1"},
		&cfg.General,
		&cfg.Logging,
		&cfg.Metrics,
		&cfg.API,
		&cfg.Liveness,
	)
}

var _ config.Config = (*Liveness)(nil)

// Liveness holds the protocol configuration.
type Liveness struct {
	// TunnelConfig is the path of the JSON tunnel configuration. The file is
	// watched and reloaded on change.
	TunnelConfig string `toml:"tunnel_config,omitempty"`
	// PollInterval is the interval between two heartbeat rounds.
	PollInterval util.DurWrap `toml:"poll_interval,omitempty"`
	// Timeout is the time after which a tunnel without reports is declared
	// dead. Remote tunnels silent for ten times this long are forgotten.
	Timeout util.DurWrap `toml:"timeout,omitempty"`
	// StartupGracePeriod is added to the initial last update time of every
	// tunnel after a (re)load.
	StartupGracePeriod util.DurWrap `toml:"startup_grace_period,omitempty"`
	// UDPPort is used as source and destination port of heartbeats.
	UDPPort uint16 `toml:"udp_port,omitempty"`
	// MPLSTTL is the TTL of the MPLS label pushed onto heartbeats.
	MPLSTTL uint8 `toml:"mpls_ttl,omitempty"`
	// VLAN is used for MAC table lookups.
	VLAN uint16 `toml:"vlan,omitempty"`
	// ARPProbe enables active ARP requests for nexthops missing from the
	// neighbor table.
	ARPProbe *bool `toml:"arp_probe,omitempty"`
	// ARPProbeTimeout bounds a single ARP probe.
	ARPProbeTimeout util.DurWrap `toml:"arp_probe_timeout,omitempty"`
}

func (cfg *Liveness) InitDefaults() {
	if cfg.TunnelConfig == "" {
		cfg.TunnelConfig = DefaultTunnelConfig
	}
	if cfg.PollInterval.Duration == 0 {
		cfg.PollInterval.Duration = DefaultPollInterval
	}
	if cfg.Timeout.Duration == 0 {
		cfg.Timeout.Duration = DefaultTimeout
	}
	if cfg.UDPPort == 0 {
		cfg.UDPPort = liveness.UDPPort
	}
	if cfg.MPLSTTL == 0 {
		cfg.MPLSTTL = DefaultMPLSTTL
	}
	if cfg.VLAN == 0 {
		cfg.VLAN = DefaultVLAN
	}
	if cfg.ARPProbe == nil {
		probe := true
		cfg.ARPProbe = &probe
	}
	if cfg.ARPProbeTimeout.Duration == 0 {
		cfg.ARPProbeTimeout.Duration = DefaultARPProbeTimeout
	}
}

func (cfg *Liveness) Validate() error {
	if cfg.PollInterval.Duration <= 0 {
		return serrors.New("poll_interval must be positive",
			"poll_interval", cfg.PollInterval)
	}
	if cfg.Timeout.Duration <= 0 {
		return serrors.New("timeout must be positive", "timeout", cfg.Timeout)
	}
	if cfg.StartupGracePeriod.Duration < 0 {
		return serrors.New("startup_grace_period must not be negative",
			"startup_grace_period", cfg.StartupGracePeriod)
	}
	if cfg.VLAN > MaxVLAN {
		return serrors.New("vlan out of range", "vlan", cfg.VLAN, "max", MaxVLAN)
	}
	return nil
}

// ARPProbeEnabled reports whether active ARP probing is enabled.
func (cfg *Liveness) ARPProbeEnabled() bool {
	return cfg.ARPProbe == nil || *cfg.ARPProbe
}

func (cfg *Liveness) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteString(dst, livenessSample)
}

func (cfg *Liveness) ConfigName() string {
	return "liveness"
}
