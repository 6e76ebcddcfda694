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

// The mplsliveness command runs the MPLS tunnel liveness agent.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/netip"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tunnelwatch/mplsliveness/agent"
	"github.com/tunnelwatch/mplsliveness/agent/config"
	"github.com/tunnelwatch/mplsliveness/agent/mgmtapi"
	"github.com/tunnelwatch/mplsliveness/agent/resolve"
	"github.com/tunnelwatch/mplsliveness/agent/underlay"
	"github.com/tunnelwatch/mplsliveness/pkg/log"
	"github.com/tunnelwatch/mplsliveness/pkg/private/processmetrics"
	"github.com/tunnelwatch/mplsliveness/pkg/private/serrors"
	"github.com/tunnelwatch/mplsliveness/private/app/command"
	"github.com/tunnelwatch/mplsliveness/private/app/launcher"
	"github.com/tunnelwatch/mplsliveness/private/env"
)

var globalCfg config.Config

func main() {
	application := launcher.Application{
		TOMLConfig: &globalCfg,
		ShortName:  "MPLS Tunnel Liveness Agent",
		Samplers: []func(command.Pather) *cobra.Command{
			command.NewSampleFile("tunnels", "Display sample tunnel configuration",
				config.WriteTunnelsSample),
		},
		Commands: []func(command.Pather) *cobra.Command{
			newStatus,
		},
		Main: realMain,
	}
	application.Run()
}

func realMain(ctx context.Context) error {
	cfg := globalCfg.Liveness
	if err := processmetrics.Init(prometheus.DefaultRegisterer); err != nil {
		log.Info("Process metrics not available", "err", err)
	}

	var prober resolve.Prober
	if cfg.ARPProbeEnabled() {
		prober = resolve.ARPProber{Timeout: cfg.ARPProbeTimeout.Duration}
	}
	resolver := resolve.New(resolve.NetlinkTables{}, prober, cfg.VLAN)
	resolver.Logger = log.New("component", "resolver")

	sender := &underlay.RawSender{}
	defer sender.Close()

	a := &agent.Agent{
		Liveness: cfg,
		Resolver: resolver,
		Sender:   sender,
		Metrics:  agent.NewMetrics(),
		Logger:   log.New("component", "agent"),
		PID:      uint32(os.Getpid()),
	}
	// Without a valid initial config the agent does not know its source
	// address, so failing here is fatal.
	if err := a.Reload(ctx); err != nil {
		return serrors.Wrap("loading tunnel config", err, "file", cfg.TunnelConfig)
	}

	receiver, err := underlay.Listen(netip.AddrPortFrom(a.SourceIP(), cfg.UDPPort))
	if err != nil {
		return err
	}
	log.Info("Listening for heartbeats", "addr", receiver.LocalAddr())

	changes, err := agent.WatchFile(ctx, cfg.TunnelConfig)
	if err != nil {
		receiver.Close()
		return err
	}

	g, errCtx := errgroup.WithContext(ctx)
	packets := make(chan underlay.Packet, 64)
	g.Go(func() error {
		defer log.HandlePanic()
		return receiver.Run(errCtx, packets)
	})
	g.Go(func() error {
		defer log.HandlePanic()
		return a.Run(errCtx, agent.Inputs{
			Packets:       packets,
			ConfigChanges: changes,
			Reloads:       env.ReloadSignals(errCtx),
		})
	})

	if globalCfg.API.Addr != "" {
		server := &mgmtapi.Server{
			Status: a.Status,
			Config: &globalCfg,
		}
		apiCtx := log.CtxWith(errCtx, log.New("component", "mgmtapi"))
		mgmtServer := &http.Server{
			Addr:        globalCfg.API.Addr,
			Handler:     server.Handler(),
			BaseContext: func(net.Listener) context.Context { return apiCtx },
		}
		log.Info("Exposing API", "addr", globalCfg.API.Addr)
		g.Go(func() error {
			defer log.HandlePanic()
			err := mgmtServer.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return serrors.Wrap("serving management API", err)
			}
			return nil
		})
		g.Go(func() error {
			defer log.HandlePanic()
			<-errCtx.Done()
			return mgmtServer.Close()
		})
	}

	g.Go(func() error {
		defer log.HandlePanic()
		return globalCfg.Metrics.ServePrometheus(errCtx)
	})

	return g.Wait()
}
