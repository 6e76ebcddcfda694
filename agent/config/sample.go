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

const livenessSample = `
# Path of the JSON tunnel configuration. The file is reloaded whenever it
# changes. (default /etc/mplsliveness/tunnels.json)
tunnel_config = "/etc/mplsliveness/tunnels.json"

# Interval between two heartbeat rounds. (default 1s)
poll_interval = "1s"

# A tunnel without liveness reports for this long is declared dead. Remote
# tunnels that stay silent for ten times as long are forgotten. (default 5s)
timeout = "5s"

# Extra time granted to every tunnel after a configuration (re)load before
# the timeout starts counting. (default 0s)
startup_grace_period = "0s"

# UDP source and destination port of heartbeats. (default 17171)
udp_port = 17171

# TTL of the MPLS label pushed onto heartbeats. (default 64)
mpls_ttl = 64

# VLAN used for MAC table lookups. (default 1)
vlan = 1

# Send ARP requests for nexthops that are missing from the neighbor table.
# (default true)
arp_probe = true

# Maximum time to wait for a single ARP reply. (default 1s)
arp_probe_timeout = "1s"
`

const tunnelsSample = `{
    "src_intf": "Loopback0",
    "remote_switches": [
        {
            "destination_ip": "10.0.0.2",
            "tunnels": {
                "1": {"label": 100, "nexthop_ip": "192.168.1.2"},
                "2": {"label": 200, "nexthop_ip": "192.168.2.2"}
            }
        }
    ]
}
`
