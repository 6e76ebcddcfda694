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

package agent

import (
	"context"

	"github.com/tunnelwatch/mplsliveness/agent/registry"
	"github.com/tunnelwatch/mplsliveness/agent/underlay"
)

// Inputs are the event sources of the event loop. Nil channels are never
// selected.
type Inputs struct {
	// Packets are datagrams received on the heartbeat port.
	Packets <-chan underlay.Packet
	// ConfigChanges signal that the tunnel configuration file changed.
	ConfigChanges <-chan struct{}
	// Reloads request a reload of the tunnel configuration, e.g. on SIGHUP.
	Reloads <-chan struct{}
}

// Run runs the event loop until ctx is done. Every event is processed to
// completion before the next one is serviced. Run returns an error only if
// a heartbeat cannot be built.
func (a *Agent) Run(ctx context.Context, in Inputs) error {
	a.init()
	ticker := a.NewTicker(a.Liveness.PollInterval.Duration)
	defer ticker.Stop()

	a.Logger.Info("Starting liveness agent",
		"poll_interval", a.Liveness.PollInterval, "timeout", a.Liveness.Timeout)
	defer a.Logger.Info("Stopped liveness agent")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			if err := a.Poll(a.Now()); err != nil {
				return err
			}
		case p, ok := <-in.Packets:
			if !ok {
				in.Packets = nil
				continue
			}
			a.HandlePacket(p, a.Now())
		case _, ok := <-in.ConfigChanges:
			if !ok {
				in.ConfigChanges = nil
				continue
			}
			a.reload(ctx, "file change")
		case _, ok := <-in.Reloads:
			if !ok {
				in.Reloads = nil
				continue
			}
			a.reload(ctx, "reload request")
		case req := <-a.statusReqs:
			req <- a.status()
		}
	}
}

func (a *Agent) reload(ctx context.Context, trigger string) {
	a.Logger.Info("Reloading tunnel config", "trigger", trigger,
		"file", a.Liveness.TunnelConfig)
	if err := a.Reload(ctx); err != nil {
		a.Logger.Error("Reloading tunnel config failed, keeping previous config",
			"err", err)
	}
}

// Status returns a snapshot of the protocol state. It is safe for concurrent
// use and is answered by the event loop, so it blocks until Run services
// the request or ctx is done.
func (a *Agent) Status(ctx context.Context) (registry.Status, error) {
	a.init()
	reply := make(chan registry.Status, 1)
	select {
	case a.statusReqs <- reply:
	case <-ctx.Done():
		return registry.Status{}, ctx.Err()
	}
	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return registry.Status{}, ctx.Err()
	}
}
