// Copyright 2023 SCION Association
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

// Package processmetrics exports the scheduler times of the agent process.
//
// The agent's heartbeats are sent from a single goroutine. When the host is
// overloaded heartbeats go out late and peers may declare tunnels dead that
// are fine. The runnable time (threads waiting for a CPU) makes that
// visible:
//
//	rate(process_runnable_seconds_total[1m])
//
// The times are read from /proc/<pid>/task/*/schedstat on every scrape.

//go:build linux

package processmetrics

import (
	"os"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/procfs"

	"github.com/tunnelwatch/mplsliveness/pkg/private/serrors"
)

var (
	runningTime = prometheus.NewDesc(
		"process_running_seconds_total",
		"CPU time the process used (running state) since it started (all threads summed).",
		nil, nil,
	)
	runnableTime = prometheus.NewDesc(
		"process_runnable_seconds_total",
		"CPU time the process was denied (runnable state) since it started (all threads summed).",
		nil, nil,
	)
	goCores = prometheus.NewDesc(
		"go_sched_maxprocs_threads",
		"The current runtime.GOMAXPROCS setting.",
		nil, nil,
	)
)

type schedStatCollector struct {
	fs  procfs.FS
	pid int
}

func (c *schedStatCollector) totals() (running, runnable uint64, err error) {
	threads, err := c.fs.AllThreads(c.pid)
	if err != nil {
		return 0, 0, err
	}
	for _, t := range threads {
		s, err := t.Schedstat()
		if err != nil {
			// The thread exited in between.
			continue
		}
		running += s.RunningNanoseconds
		runnable += s.WaitingNanoseconds
	}
	return running, runnable, nil
}

func (c *schedStatCollector) Describe(ch chan<- *prometheus.Desc) {
	prometheus.DescribeByCollect(c, ch)
}

func (c *schedStatCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(goCores, prometheus.GaugeValue,
		float64(runtime.GOMAXPROCS(-1)))
	running, runnable, err := c.totals()
	if err != nil {
		ch <- prometheus.NewInvalidMetric(runningTime, err)
		return
	}
	ch <- prometheus.MustNewConstMetric(runningTime, prometheus.CounterValue,
		float64(running)/1e9)
	ch <- prometheus.MustNewConstMetric(runnableTime, prometheus.CounterValue,
		float64(runnable)/1e9)
}

// Init registers the collector on reg. It fails if /proc is not readable,
// in which case the metrics are simply missing.
func Init(reg prometheus.Registerer) error {
	fs, err := procfs.NewDefaultFS()
	if err != nil {
		return serrors.Wrap("opening procfs", err)
	}
	c := &schedStatCollector{fs: fs, pid: os.Getpid()}
	if _, _, err := c.totals(); err != nil {
		return serrors.Wrap("reading scheduler stats", err, "pid", c.pid)
	}
	if err := reg.Register(c); err != nil {
		return serrors.Wrap("registering collector", err)
	}
	return nil
}
