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

package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/zetxqx/txtime/pkg/txtime/clocks"
	"github.com/zetxqx/txtime/pkg/txtime/types"
	"github.com/zetxqx/txtime/pkg/txtime/types/mocks"
)

func newTestSink() *Sink {
	return NewSink(prometheus.NewRegistry())
}

func TestSink_RecordDrop(t *testing.T) {
	t.Parallel()
	sink := newTestSink()
	pkt := mocks.NewMockPacket("p", time.Now(), 100, clocks.Monotonic)

	sink.RecordDrop(pkt, types.DropReasonExpired)
	sink.RecordDrop(pkt, types.DropReasonExpired)
	sink.RecordDrop(pkt, types.DropReasonDrained)

	assert.Equal(t, 2.0, testutil.ToFloat64(sink.drops.WithLabelValues(types.DropReasonExpired.String())))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.drops.WithLabelValues(types.DropReasonDrained.String())))
}

func TestSink_RecordRelease(t *testing.T) {
	t.Parallel()
	sink := newTestSink()

	sink.RecordRelease(mocks.NewMockPacketAccessor("a", time.Now(), 100))
	sink.RecordRelease(mocks.NewMockPacketAccessor("b", time.Now(), 250))

	assert.Equal(t, 2.0, testutil.ToFloat64(sink.releases))
	assert.Equal(t, 350.0, testutil.ToFloat64(sink.releasedBytes))
}

type fakeQueueStats struct {
	length  int
	backlog uint64
}

func (f *fakeQueueStats) Len() int        { return f.length }
func (f *fakeQueueStats) Backlog() uint64 { return f.backlog }

func TestRegisterQueueStats(t *testing.T) {
	t.Parallel()
	stats := &fakeQueueStats{length: 3, backlog: 4096}
	depth, backlog := RegisterQueueStats(prometheus.NewRegistry(), stats)

	assert.Equal(t, 3.0, testutil.ToFloat64(depth))
	assert.Equal(t, 4096.0, testutil.ToFloat64(backlog))

	stats.length = 0
	stats.backlog = 0
	assert.Equal(t, 0.0, testutil.ToFloat64(depth), "gauges sample live state at scrape time")
	assert.Equal(t, 0.0, testutil.ToFloat64(backlog))
}

func TestSink_RecordRejection(t *testing.T) {
	t.Parallel()
	sink := newTestSink()

	wrapped := fmt.Errorf("%w: %w", types.ErrRejected, types.ErrOutOfOrder)
	sink.RecordRejection(wrapped)
	sink.RecordRejection(types.ErrClockMismatch)
	sink.RecordRejection(fmt.Errorf("some unrelated failure"))

	assert.Equal(t, 1.0, testutil.ToFloat64(sink.rejections.WithLabelValues("OutOfOrder")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.rejections.WithLabelValues("ClockMismatch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.rejections.WithLabelValues("Other")))
}
