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

package mgmtapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/tunnelwatch/mplsliveness/agent/registry"
	"github.com/tunnelwatch/mplsliveness/pkg/private/serrors"
)

// ErrTimeout indicates that the agent did not answer before the deadline.
var ErrTimeout = serrors.New("management API did not answer in time")

// Client queries the management API of a running agent.
type Client struct {
	// Addr is the host:port of the API.
	Addr string
	// HTTP defaults to http.DefaultClient.
	HTTP *http.Client
}

// Status fetches the protocol state.
func (c Client) Status(ctx context.Context) (registry.Status, error) {
	url := "http://" + c.Addr + BaseURL + "/status"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return registry.Status{}, serrors.Wrap("creating request", err, "url", url)
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	rep, err := client.Do(req)
	if serrors.IsTimeout(err) {
		return registry.Status{}, serrors.Join(ErrTimeout, err, "url", url)
	}
	if err != nil {
		return registry.Status{}, serrors.Wrap("requesting status", err, "url", url)
	}
	defer rep.Body.Close()
	if rep.StatusCode != http.StatusOK {
		var p Problem
		_ = json.NewDecoder(rep.Body).Decode(&p)
		return registry.Status{}, serrors.New("status request failed",
			"code", rep.StatusCode, "detail", p.Detail)
	}
	var s registry.Status
	if err := json.NewDecoder(rep.Body).Decode(&s); err != nil {
		return registry.Status{}, serrors.Wrap("decoding status", err)
	}
	return s, nil
}

// Human writes s in human readable form to w. Times are shown relative to
// now.
func Human(w io.Writer, s registry.Status, now time.Time, colored bool) {
	noColor := color.New()
	header := noColor
	statusGood := noColor
	statusBad := noColor
	if colored {
		header = color.New(color.FgHiBlack)
		statusGood = color.New(color.FgGreen)
		statusBad = color.New(color.FgRed)
		// Colors are disabled by default on non terminals.
		header.EnableColor()
		statusGood.EnableColor()
		statusBad.EnableColor()
	}

	fmt.Fprintf(w, "Source IP: %s  PID: %d\n", s.SrcIP, s.LocalPID)
	for _, rs := range s.Switches {
		fmt.Fprintln(w)
		header.Fprintf(w, "Remote switch %s (pid %d, sent %d, received %d)\n",
			rs.DestinationIP, rs.PID, rs.LastSentSequenceID, rs.LastReceivedSequenceID)

		rows := make([][]string, 0, len(rs.EgressTunnels))
		for _, t := range rs.EgressTunnels {
			state := statusBad.Sprint("DEAD")
			if t.Alive {
				state = statusGood.Sprint("ALIVE")
			}
			rows = append(rows, []string{
				fmt.Sprint(t.Key),
				fmt.Sprint(t.Label),
				t.NexthopIP,
				t.NexthopMAC,
				t.EgressInterface,
				state,
				since(now, t.LastUpdate),
			})
		}
		table := newTable(w)
		table.SetHeader([]string{"KEY", "LABEL", "NEXTHOP", "NEXTHOP MAC", "INTERFACE",
			"STATE", "LAST UPDATE"})
		table.AppendBulk(rows)
		table.Render()

		if len(rs.RemoteTunnels) == 0 {
			continue
		}
		keys := make([]string, 0, len(rs.RemoteTunnels))
		for _, rt := range rs.RemoteTunnels {
			keys = append(keys, fmt.Sprintf("%d (%s)", rt.Key, since(now, rt.LastUpdate)))
		}
		fmt.Fprintf(w, "Remote tunnels: %s\n", strings.Join(keys, ", "))
	}
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func since(now, t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	d := now.Sub(t).Truncate(time.Millisecond)
	if d < 0 {
		return fmt.Sprintf("in %s", -d)
	}
	return fmt.Sprintf("%s ago", d)
}
