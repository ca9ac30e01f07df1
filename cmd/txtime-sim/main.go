/*
Copyright 2026 The txtime Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// txtime-sim drives a release engine with synthetic paced traffic against the real clock and reports what came out the
// other end. It exists to exercise the whole stack end to end (admission, store, watchdog, dequeue, metrics) and as a
// worked example of wiring an engine into an owner loop.
package main

import (
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"

	logutil "github.com/zetxqx/txtime/internal/logging"
	"github.com/zetxqx/txtime/pkg/txtime/clocks"
	"github.com/zetxqx/txtime/pkg/txtime/engine"
	"github.com/zetxqx/txtime/pkg/txtime/metrics"
	"github.com/zetxqx/txtime/pkg/txtime/store"
	"github.com/zetxqx/txtime/pkg/txtime/types"
)

var (
	clockDomain   = flag.String("clock", "monotonic", "Clock domain to run in: realtime, monotonic, boottime or tai.")
	guardInterval = flag.Duration("guard", 5*time.Millisecond, "Guard interval subtracted from each txtime.")
	deadlineMode  = flag.Bool("deadline", false, "Run in deadline mode instead of windowed mode.")
	storeName     = flag.String("store", store.TimingHeapName, "Time-ordered store implementation to use.")
	packetCount   = flag.Int("count", 50, "Number of synthetic packets to admit.")
	spread        = flag.Duration("spread", 2*time.Second, "Interval over which the synthetic txtimes are spread.")
	metricsAddr   = flag.String("metrics-addr", "", "Address to serve prometheus metrics on; empty disables the endpoint.")
	verbosity     = flag.Int("v", logutil.DEFAULT, "Log verbosity level.")
)

var domainNames = map[string]clocks.Domain{
	"realtime":  clocks.Realtime,
	"monotonic": clocks.Monotonic,
	"boottime":  clocks.Boottime,
	"tai":       clocks.TAI,
}

// simPacket is the simulator's packet. The payload is synthetic; only the scheduling attributes matter.
type simPacket struct {
	id       string
	txtime   time.Time
	byteSize uint64
	sender   *simSender
}

func (p *simPacket) Txtime() time.Time    { return p.txtime }
func (p *simPacket) ByteSize() uint64     { return p.byteSize }
func (p *simPacket) ID() string           { return p.id }
func (p *simPacket) Sender() types.Sender { return p.sender }

type simSender struct {
	domain   clocks.Domain
	deadline bool
}

func (s *simSender) TxtimeEnabled() bool        { return true }
func (s *simSender) ClockDomain() clocks.Domain { return s.domain }
func (s *simSender) DeadlineMode() bool         { return s.deadline }

func main() {
	flag.Parse()
	logger := logutil.NewLogger(*verbosity).WithName("txtime-sim")

	domain, ok := domainNames[*clockDomain]
	if !ok {
		logger.Error(fmt.Errorf("unknown clock domain %q", *clockDomain), "Invalid --clock flag")
		os.Exit(1)
	}
	mode := engine.ReleaseModeWindowed
	if *deadlineMode {
		mode = engine.ReleaseModeDeadline
	}

	if err := run(logger, domain, mode); err != nil {
		logger.Error(err, "Simulation failed")
		os.Exit(1)
	}
}

func run(logger logr.Logger, domain clocks.Domain, mode engine.ReleaseMode) error {
	registry := prometheus.NewRegistry()
	sink := metrics.NewSink(registry)
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error(err, "Metrics endpoint failed", "addr", *metricsAddr)
			}
		}()
		logger.V(logutil.DEFAULT).Info("Serving metrics", "addr", *metricsAddr)
	}

	cfg, err := engine.NewConfig(
		engine.WithClockDomain(domain),
		engine.WithGuardInterval(*guardInterval),
		engine.WithReleaseMode(mode),
		engine.WithStore(store.RegisteredStoreName(*storeName)),
	)
	if err != nil {
		return err
	}

	// The wake callback only nudges the owner loop; a full channel means a poll is already pending.
	wake := make(chan struct{}, 1)
	eng, err := engine.New(cfg,
		engine.WithLogger(logger),
		engine.WithDropRecorder(sink),
		engine.WithReleaseRecorder(sink),
		engine.WithWakeCallback(func() {
			select {
			case wake <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return err
	}
	defer eng.Close()
	metrics.RegisterQueueStats(registry, eng)

	admitted := admitTraffic(logger, eng, sink)
	logger.V(logutil.DEFAULT).Info("Traffic admitted",
		"admitted", admitted, "rejected", *packetCount-admitted, "backlogBytes", eng.Backlog())

	released, dropped := ownerLoop(logger, eng, wake, admitted)
	logger.V(logutil.DEFAULT).Info("Simulation complete", "released", released, "dropped", dropped)
	return nil
}

// admitTraffic generates packets with txtimes spread uniformly over the configured interval and admits them in random
// order, which exercises the store's sorting rather than its append fast path.
func admitTraffic(logger logr.Logger, eng *engine.Engine, sink *metrics.Sink) int {
	source, _ := clocks.NewSource(eng.ClockDomain(), nil)
	base := source.Now().Add(50 * time.Millisecond)

	offsets := make([]time.Duration, *packetCount)
	for i := range offsets {
		offsets[i] = time.Duration(rand.Int63n(int64(*spread)))
	}

	admitted := 0
	sender := &simSender{domain: eng.ClockDomain(), deadline: eng.ReleaseMode() == engine.ReleaseModeDeadline}
	for _, off := range offsets {
		pkt := &simPacket{
			id:       uuid.NewString(),
			txtime:   base.Add(off),
			byteSize: uint64(64 + rand.Intn(1400)),
			sender:   sender,
		}
		if err := eng.Admit(pkt); err != nil {
			sink.RecordRejection(err)
			logger.V(logutil.VERBOSE).Info("Packet rejected", "packetID", pkt.id, "err", err)
			continue
		}
		admitted++
	}
	return admitted
}

// ownerLoop serializes all polling on a single goroutine, waking on the watchdog's nudge and draining every releasable
// packet per wake. It returns once all admitted packets have either been released or dropped.
func ownerLoop(logger logr.Logger, eng *engine.Engine, wake <-chan struct{}, admitted int) (released, dropped int) {
	// Backstop ticker in case the process is descheduled past a wake.
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for released+dropped < admitted {
		before := eng.Len()
		polled := 0
		for {
			lenBefore := eng.Len()
			item := eng.Poll()
			if item == nil {
				// A nil poll that shrank the store was an expiry drop; keep going until the head is genuinely not ready.
				if eng.Len() == lenBefore {
					break
				}
				continue
			}
			polled++
			pkt := item.OriginalPacket()
			logger.V(logutil.DEBUG).Info("Released packet",
				"packetID", pkt.ID(), "txtime", item.Txtime(), "bytes", pkt.ByteSize(), "queueWait", item.Txtime().Sub(item.EnqueueTime()))
		}
		released += polled
		// Anything that left the store without being returned was an expiry drop.
		dropped += before - eng.Len() - polled

		if released+dropped >= admitted {
			break
		}
		select {
		case <-wake:
		case <-ticker.C:
		}
	}
	return released, dropped
}
