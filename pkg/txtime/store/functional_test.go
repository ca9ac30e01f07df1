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

package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zetxqx/txtime/pkg/txtime/framework"
	"github.com/zetxqx/txtime/pkg/txtime/types"
	"github.com/zetxqx/txtime/pkg/txtime/types/mocks"
)

var testBase = time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

// drainIDs pops every packet via Drain and returns the packet IDs in the order produced.
func drainIDs(s framework.TimeOrderedStore) []string {
	ids := []string{}
	for _, item := range s.Drain() {
		ids = append(ids, item.OriginalPacket().ID())
	}
	return ids
}

// TestStores_Conformance runs the behavioral suite against every registered store implementation, so a new store picks
// up the full contract for free.
func TestStores_Conformance(t *testing.T) {
	t.Parallel()
	for name, constructor := range RegisteredStores {
		constructor := constructor
		t.Run(string(name), func(t *testing.T) {
			t.Parallel()
			runConformance(t, constructor)
		})
	}
}

func runConformance(t *testing.T, newStore StoreConstructor) {
	t.Helper()

	t.Run("InitiallyEmpty", func(t *testing.T) {
		t.Parallel()
		s, err := newStore()
		require.NoError(t, err)
		assert.Zero(t, s.Len())
		assert.Zero(t, s.ByteSize())
		assert.Nil(t, s.PeekMin())
	})

	t.Run("AddSetsHandleAndAccounting", func(t *testing.T) {
		t.Parallel()
		s, err := newStore()
		require.NoError(t, err)

		item := mocks.NewMockPacketAccessor("pkt-a", testBase.Add(time.Second), 100)
		s.Add(item)

		require.NotNil(t, item.Handle(), "Add must attach a handle")
		assert.False(t, item.Handle().IsInvalidated())
		assert.Equal(t, 1, s.Len())
		assert.Equal(t, uint64(100), s.ByteSize())
		require.NotNil(t, s.PeekMin())
		assert.Equal(t, "pkt-a", s.PeekMin().OriginalPacket().ID())
	})

	t.Run("PeekMinTracksEarliestTxtime", func(t *testing.T) {
		t.Parallel()
		s, err := newStore()
		require.NoError(t, err)

		s.Add(mocks.NewMockPacketAccessor("late", testBase.Add(3*time.Second), 10))
		assert.Equal(t, "late", s.PeekMin().OriginalPacket().ID())

		s.Add(mocks.NewMockPacketAccessor("early", testBase.Add(time.Second), 10))
		assert.Equal(t, "early", s.PeekMin().OriginalPacket().ID())

		s.Add(mocks.NewMockPacketAccessor("middle", testBase.Add(2*time.Second), 10))
		assert.Equal(t, "early", s.PeekMin().OriginalPacket().ID())
	})

	t.Run("DrainAscendingOrder", func(t *testing.T) {
		t.Parallel()
		s, err := newStore()
		require.NoError(t, err)

		// Admit out of order.
		for _, off := range []int{5, 1, 4, 2, 3} {
			id := fmt.Sprintf("pkt-%d", off)
			s.Add(mocks.NewMockPacketAccessor(id, testBase.Add(time.Duration(off)*time.Second), 1))
		}

		want := []string{"pkt-1", "pkt-2", "pkt-3", "pkt-4", "pkt-5"}
		if diff := cmp.Diff(want, drainIDs(s)); diff != "" {
			t.Errorf("unexpected drain order (-want +got):\n%s", diff)
		}
		assert.Zero(t, s.Len())
		assert.Zero(t, s.ByteSize())
		assert.Nil(t, s.PeekMin())
	})

	t.Run("EqualTxtimesKeepAdmissionOrder", func(t *testing.T) {
		t.Parallel()
		s, err := newStore()
		require.NoError(t, err)

		tie := testBase.Add(time.Second)
		s.Add(mocks.NewMockPacketAccessor("first", tie, 1))
		s.Add(mocks.NewMockPacketAccessor("second", tie, 1))
		s.Add(mocks.NewMockPacketAccessor("third", tie, 1))

		assert.Equal(t, "first", s.PeekMin().OriginalPacket().ID())
		if diff := cmp.Diff([]string{"first", "second", "third"}, drainIDs(s)); diff != "" {
			t.Errorf("ties must release in admission order (-want +got):\n%s", diff)
		}
	})

	t.Run("RemoveHeadRepeatedlyYieldsAscendingOrder", func(t *testing.T) {
		t.Parallel()
		s, err := newStore()
		require.NoError(t, err)

		for _, off := range []int{3, 1, 2} {
			id := fmt.Sprintf("pkt-%d", off)
			s.Add(mocks.NewMockPacketAccessor(id, testBase.Add(time.Duration(off)*time.Second), 1))
		}

		got := []string{}
		for s.Len() > 0 {
			head := s.PeekMin()
			removed, err := s.Remove(head.Handle())
			require.NoError(t, err)
			got = append(got, removed.OriginalPacket().ID())
		}
		if diff := cmp.Diff([]string{"pkt-1", "pkt-2", "pkt-3"}, got); diff != "" {
			t.Errorf("unexpected removal order (-want +got):\n%s", diff)
		}
	})

	t.Run("RemoveMidQueueLeavesOrderIntact", func(t *testing.T) {
		t.Parallel()
		s, err := newStore()
		require.NoError(t, err)

		var middle types.PacketAccessor
		for _, off := range []int{1, 2, 3, 4} {
			item := mocks.NewMockPacketAccessor(fmt.Sprintf("pkt-%d", off), testBase.Add(time.Duration(off)*time.Second), 10)
			s.Add(item)
			if off == 2 {
				middle = item
			}
		}

		removed, err := s.Remove(middle.Handle())
		require.NoError(t, err)
		assert.Equal(t, "pkt-2", removed.OriginalPacket().ID())
		assert.True(t, middle.Handle().IsInvalidated(), "removal must invalidate the handle")
		assert.Equal(t, uint64(30), s.ByteSize())

		if diff := cmp.Diff([]string{"pkt-1", "pkt-3", "pkt-4"}, drainIDs(s)); diff != "" {
			t.Errorf("unexpected order after targeted removal (-want +got):\n%s", diff)
		}
	})

	t.Run("RemoveErrors", func(t *testing.T) {
		t.Parallel()
		s, err := newStore()
		require.NoError(t, err)
		item := mocks.NewMockPacketAccessor("pkt-a", testBase.Add(time.Second), 1)
		s.Add(item)

		t.Run("NilHandle", func(t *testing.T) {
			_, err := s.Remove(nil)
			assert.ErrorIs(t, err, framework.ErrInvalidPacketHandle)
		})
		t.Run("ForeignHandleType", func(t *testing.T) {
			_, err := s.Remove(&mocks.MockPacketHandle{})
			assert.ErrorIs(t, err, framework.ErrInvalidPacketHandle)
		})
		t.Run("HandleFromAnotherInstance", func(t *testing.T) {
			other, err := newStore()
			require.NoError(t, err)
			foreign := mocks.NewMockPacketAccessor("pkt-b", testBase.Add(time.Second), 1)
			other.Add(foreign)
			_, err = s.Remove(foreign.Handle())
			assert.ErrorIs(t, err, framework.ErrInvalidPacketHandle)
		})
		t.Run("DoubleRemove", func(t *testing.T) {
			handle := item.Handle()
			_, err := s.Remove(handle)
			require.NoError(t, err)
			_, err = s.Remove(handle)
			assert.ErrorIs(t, err, framework.ErrInvalidPacketHandle)
		})
	})

	t.Run("DrainInvalidatesHandles", func(t *testing.T) {
		t.Parallel()
		s, err := newStore()
		require.NoError(t, err)
		item := mocks.NewMockPacketAccessor("pkt-a", testBase.Add(time.Second), 1)
		s.Add(item)

		drained := s.Drain()
		require.Len(t, drained, 1)
		assert.True(t, item.Handle().IsInvalidated())
		_, err = s.Remove(item.Handle())
		assert.ErrorIs(t, err, framework.ErrInvalidPacketHandle)
	})

	t.Run("ByteSizeAccounting", func(t *testing.T) {
		t.Parallel()
		s, err := newStore()
		require.NoError(t, err)

		a := mocks.NewMockPacketAccessor("a", testBase.Add(time.Second), 100)
		b := mocks.NewMockPacketAccessor("b", testBase.Add(2*time.Second), 250)
		s.Add(a)
		s.Add(b)
		assert.Equal(t, uint64(350), s.ByteSize())

		_, err = s.Remove(a.Handle())
		require.NoError(t, err)
		assert.Equal(t, uint64(250), s.ByteSize())

		s.Drain()
		assert.Zero(t, s.ByteSize())
	})
}
