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

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tunnelwatch/mplsliveness/agent/mgmtapi"
	"github.com/tunnelwatch/mplsliveness/pkg/private/serrors"
	"github.com/tunnelwatch/mplsliveness/private/app/command"
)

var _ pflag.Value = (*hostPort)(nil)

// hostPort is a host:port flag value.
type hostPort string

func (v *hostPort) Set(val string) error {
	if _, _, err := net.SplitHostPort(val); err != nil {
		return err
	}
	*v = hostPort(val)
	return nil
}

func (v *hostPort) Type() string   { return "host:port" }
func (v *hostPort) String() string { return string(*v) }

func newStatus(pather command.Pather) *cobra.Command {
	var flags struct {
		api     hostPort
		timeout time.Duration
		json    bool
		noColor bool
	}
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Display the tunnel state of a running agent",
		Example: fmt.Sprintf(`  %[1]s status --api 127.0.0.1:30471
  %[1]s status --api 127.0.0.1:30471 --json`, pather.CommandPath()),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), flags.timeout)
			defer cancel()
			s, err := mgmtapi.Client{Addr: string(flags.api)}.Status(ctx)
			if errors.Is(err, mgmtapi.ErrTimeout) {
				return serrors.Wrap("agent API unreachable, check [api] addr", err,
					"timeout", flags.timeout)
			}
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if flags.json {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "    ")
				return enc.Encode(s)
			}
			colored := !flags.noColor && isatty.IsTerminal(os.Stdout.Fd())
			mgmtapi.Human(w, s, time.Now(), colored)
			return nil
		},
	}
	flags.api = "127.0.0.1:30471"
	cmd.Flags().Var(&flags.api, "api", "Address of the management API of the agent")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 5*time.Second, "Request timeout")
	cmd.Flags().BoolVar(&flags.json, "json", false, "Write the raw JSON status")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	return cmd
}
