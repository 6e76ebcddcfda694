// Copyright 2018 ETH Zurich, Anapaya Systems
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

// Package env contains the config blocks and initialization code shared by
// the agent's commands.
//
// SIGHUP is captured at package initialization so that a signal arriving
// during startup is not lost. Use ReloadSignals to consume it.
package env

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tunnelwatch/mplsliveness/pkg/log"
	"github.com/tunnelwatch/mplsliveness/pkg/private/serrors"
	"github.com/tunnelwatch/mplsliveness/private/config"
)

const (
	// ShutdownGraceInterval is the time applications wait after issuing a
	// clean shutdown signal, before forcefully tearing down the application.
	ShutdownGraceInterval = 5 * time.Second

	// HandlerTimeout is the time after which the http handler gives up on a request and
	// returns an error instead.
	HandlerTimeout = time.Minute
)

var sighupC chan os.Signal

func init() {
	sighupC = make(chan os.Signal, 1)
	signal.Notify(sighupC, syscall.SIGHUP)
}

// ReloadSignals returns a channel that receives a value for every SIGHUP
// delivered to the process. Bursts are coalesced. The forwarding goroutine
// stops when ctx is done.
func ReloadSignals(ctx context.Context) <-chan struct{} {
	out := make(chan struct{}, 1)
	go func() {
		defer log.HandlePanic()
		for {
			select {
			case <-ctx.Done():
				return
			case <-sighupC:
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()
	return out
}

var _ config.Config = (*General)(nil)

type General struct {
	// ID is the name of this agent instance. It shows up in logs and on the
	// management API.
	ID string `toml:"id,omitempty"`
}

func (cfg *General) InitDefaults() {
	if cfg.ID == "" {
		if host, err := os.Hostname(); err == nil {
			cfg.ID = host
		}
	}
}

func (cfg *General) Validate() error {
	if cfg.ID == "" {
		return serrors.New("no agent id specified")
	}
	return nil
}

func (cfg *General) Sample(dst io.Writer, path config.Path, ctx config.CtxMap) {
	config.WriteString(dst, fmt.Sprintf(generalSample, ctx[config.ID]))
}

func (cfg *General) ConfigName() string {
	return "general"
}

var _ config.Config = (*Metrics)(nil)

type Metrics struct {
	config.NoDefaulter
	// Prometheus contains the address to export prometheus metrics on. If
	// not set, metrics are not exported.
	Prometheus string `toml:"prometheus,omitempty"`
}

func (cfg *Metrics) Validate() error {
	if cfg.Prometheus == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(cfg.Prometheus); err != nil {
		return serrors.Wrap("invalid prometheus address", err, "addr", cfg.Prometheus)
	}
	return nil
}

func (cfg *Metrics) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteString(dst, metricsSample)
}

func (cfg *Metrics) ConfigName() string {
	return "metrics"
}

// ServePrometheus exposes the default prometheus registry on /metrics until
// ctx is done. It returns immediately if no address is configured.
func (cfg *Metrics) ServePrometheus(ctx context.Context) error {
	if cfg.Prometheus == "" {
		return nil
	}
	handler := promhttp.InstrumentMetricHandler(
		prometheus.DefaultRegisterer,
		promhttp.HandlerFor(
			prometheus.DefaultGatherer,
			promhttp.HandlerOpts{Timeout: HandlerTimeout},
		),
	)
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	log.Info("Exporting prometheus metrics", "addr", cfg.Prometheus)

	server := &http.Server{Addr: cfg.Prometheus, Handler: mux}
	go func() {
		defer log.HandlePanic()
		<-ctx.Done()
		server.Close()
	}()
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return serrors.Wrap("serving prometheus metrics", err)
	}
	return nil
}

var _ config.Config = (*API)(nil)

// API is the configuration of the management API.
type API struct {
	config.NoDefaulter
	// Addr is the address the management API listens on. If not set, the
	// API is disabled.
	Addr string `toml:"addr,omitempty"`
}

func (cfg *API) Validate() error {
	if cfg.Addr == "" {
		return nil
	}
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return serrors.Wrap("invalid api address", err, "addr", cfg.Addr)
	}
	return nil
}

func (cfg *API) Sample(dst io.Writer, path config.Path, _ config.CtxMap) {
	config.WriteString(dst, apiSample)
}

func (cfg *API) ConfigName() string {
	return "api"
}

// LogAppStarted logs the start of the application together with its build
// information.
func LogAppStarted(name, id string) {
	ctx := []any{"name", name, "id", id}
	if info, ok := debug.ReadBuildInfo(); ok {
		ctx = append(ctx, "go_version", info.GoVersion, "version", info.Main.Version)
	}
	log.Info("=====================> Service started", ctx...)
}

// LogAppStopped logs the end of the application.
func LogAppStopped(name, id string) {
	log.Info("=====================> Service stopped", "name", name, "id", id)
}
