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

// Package metrics provides the standard prometheus-backed implementation of the engine's accounting contracts. The
// engine core never imports this package; it reports through `contracts.DropRecorder` and `contracts.ReleaseRecorder`,
// and integrators who want counters wire a `Sink` in.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zetxqx/txtime/pkg/txtime/contracts"
	"github.com/zetxqx/txtime/pkg/txtime/types"
)

const subsystem = "txtime"

// Sink implements both accounting contracts on prometheus counters. All methods are goroutine-safe and non-blocking.
type Sink struct {
	drops         *prometheus.CounterVec
	rejections    *prometheus.CounterVec
	releases      prometheus.Counter
	releasedBytes prometheus.Counter
}

var (
	_ contracts.DropRecorder    = &Sink{}
	_ contracts.ReleaseRecorder = &Sink{}
)

// NewSink creates a Sink with its collectors registered on reg. A nil reg selects the default registerer.
func NewSink(reg prometheus.Registerer) *Sink {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Sink{
		drops: factory.NewCounterVec(prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "dropped_packets_total",
			Help:      "Packets discarded after admission, partitioned by drop reason.",
		}, []string{"reason"}),
		rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "rejected_packets_total",
			Help:      "Packets rejected at admission, partitioned by rejection reason.",
		}, []string{"reason"}),
		releases: factory.NewCounter(prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "released_packets_total",
			Help:      "Packets released to the transmission path.",
		}),
		releasedBytes: factory.NewCounter(prometheus.CounterOpts{
			Subsystem: subsystem,
			Name:      "released_bytes_total",
			Help:      "Total byte size of packets released to the transmission path.",
		}),
	}
}

// RecordDrop implements `contracts.DropRecorder`.
func (s *Sink) RecordDrop(_ types.Packet, reason types.DropReason) {
	s.drops.WithLabelValues(reason.String()).Inc()
}

// RecordRelease implements `contracts.ReleaseRecorder`.
func (s *Sink) RecordRelease(packet types.PacketAccessor) {
	s.releases.Inc()
	s.releasedBytes.Add(float64(packet.OriginalPacket().ByteSize()))
}

// RecordRejection counts an admission rejection by its reason sentinel. Rejection drops are the caller's
// responsibility (the engine never owned the packet), so this is a convenience for integrators, not a contract the
// engine calls.
func (s *Sink) RecordRejection(err error) {
	s.rejections.WithLabelValues(rejectionReason(err)).Inc()
}

// QueueStats is the read-only view of the engine's live queue state the gauges sample. `*engine.Engine` satisfies it.
type QueueStats interface {
	Len() int
	Backlog() uint64
}

// RegisterQueueStats registers gauges exposing the queue depth and byte backlog, sampled from stats at scrape time. A
// nil reg selects the default registerer. The returned gauges are mainly useful to tests.
func RegisterQueueStats(reg prometheus.Registerer, stats QueueStats) (depth, backlog prometheus.GaugeFunc) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	depth = factory.NewGaugeFunc(prometheus.GaugeOpts{
		Subsystem: subsystem,
		Name:      "queue_depth",
		Help:      "Number of packets currently held in the time-ordered store.",
	}, func() float64 { return float64(stats.Len()) })
	backlog = factory.NewGaugeFunc(prometheus.GaugeOpts{
		Subsystem: subsystem,
		Name:      "backlog_bytes",
		Help:      "Total byte size of packets currently held in the time-ordered store.",
	}, func() float64 { return float64(stats.Backlog()) })
	return depth, backlog
}

// rejectionReason maps an admission error to a low-cardinality label.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, types.ErrTxtimeDisabled):
		return "TxtimeDisabled"
	case errors.Is(err, types.ErrClockMismatch):
		return "ClockMismatch"
	case errors.Is(err, types.ErrModeMismatch):
		return "ModeMismatch"
	case errors.Is(err, types.ErrExpired):
		return "Expired"
	case errors.Is(err, types.ErrOutOfOrder):
		return "OutOfOrder"
	default:
		return "Other"
	}
}
