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
	"sync"
	"sync/atomic"
	"time"

	"github.com/zetxqx/txtime/pkg/txtime/framework"
	"github.com/zetxqx/txtime/pkg/txtime/types"
)

// TimingHeapName is the name of the binary min-heap store implementation.
//
// This is the default store. It provides O(log n) insertion and targeted removal with O(1) peek of the earliest
// txtime, which matches the engine's access pattern: every dequeue decision consults only the minimum.
//
// Equal txtimes are ordered by a monotonic admission sequence carried in the heap's own node wrapper, so release order
// among ties is the admission order and `PeekMin` is deterministic.
const TimingHeapName = "TimingHeap"

func init() {
	MustRegisterStore(RegisteredStoreName(TimingHeapName),
		func() (framework.TimeOrderedStore, error) {
			return newTimingHeap(), nil
		})
}

// timingHeap is the internal implementation of the TimingHeap store.
// See the documentation for the exported `TimingHeapName` constant for detailed user-facing information.
type timingHeap struct {
	nodes    []*heapNode
	byteSize atomic.Uint64
	mu       sync.RWMutex
	// nextSeq is the admission sequence used to break txtime ties. Never reset, so sequences stay unique across
	// drains.
	nextSeq uint64
}

// heapNode is the boxed node wrapping a packet in the heap. It doubles as the packet's `types.PacketHandle`, holding
// the index bookkeeping that makes O(log n) targeted removal possible.
type heapNode struct {
	packet        types.PacketAccessor
	key           time.Time
	seq           uint64
	index         int
	owner         *timingHeap
	isInvalidated bool
}

// Handle returns the heap node itself, which is used as the handle.
func (n *heapNode) Handle() any {
	return n
}

// Invalidate marks the handle as invalid.
func (n *heapNode) Invalidate() {
	n.isInvalidated = true
}

// IsInvalidated returns true if the handle has been invalidated.
func (n *heapNode) IsInvalidated() bool {
	return n.isInvalidated
}

var _ types.PacketHandle = &heapNode{}

// newTimingHeap creates an empty `timingHeap`.
func newTimingHeap() *timingHeap {
	return &timingHeap{
		nodes: make([]*heapNode, 0),
	}
}

// --- `framework.TimeOrderedStore` Interface Implementation ---

// Name returns the name of the store.
func (h *timingHeap) Name() string {
	return TimingHeapName
}

// Len returns the number of packets in the store.
func (h *timingHeap) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.nodes)
}

// ByteSize returns the total byte size of all packets in the store.
func (h *timingHeap) ByteSize() uint64 {
	return h.byteSize.Load()
}

// PeekMin returns the packet with the earliest txtime without removing it.
// Time complexity: O(1).
func (h *timingHeap) PeekMin() types.PacketAccessor {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.nodes) == 0 {
		return nil
	}
	return h.nodes[0].packet
}

// Add inserts a packet keyed by its current txtime.
// Time complexity: O(log n).
func (h *timingHeap) Add(packet types.PacketAccessor) {
	h.mu.Lock()
	defer h.mu.Unlock()

	node := &heapNode{
		packet: packet,
		key:    packet.Txtime(),
		seq:    h.nextSeq,
		index:  len(h.nodes),
		owner:  h,
	}
	h.nextSeq++
	h.nodes = append(h.nodes, node)
	packet.SetHandle(node)
	h.up(len(h.nodes) - 1)
	h.byteSize.Add(packet.OriginalPacket().ByteSize())
}

// Remove removes the packet identified by the given handle.
// Time complexity: O(log n).
func (h *timingHeap) Remove(handle types.PacketHandle) (types.PacketAccessor, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if handle == nil || handle.IsInvalidated() {
		return nil, framework.ErrInvalidPacketHandle
	}
	node, ok := handle.(*heapNode)
	if !ok || node.owner != h {
		return nil, framework.ErrInvalidPacketHandle
	}
	if node.index >= len(h.nodes) || h.nodes[node.index] != node {
		return nil, framework.ErrPacketNotFound
	}

	h.removeAt(node.index)
	handle.Invalidate()
	h.byteSize.Add(^node.packet.OriginalPacket().ByteSize() + 1) // Atomic subtraction
	return node.packet, nil
}

// Drain removes all packets and returns them in ascending txtime order.
func (h *timingHeap) Drain() []types.PacketAccessor {
	h.mu.Lock()
	defer h.mu.Unlock()

	drained := make([]types.PacketAccessor, 0, len(h.nodes))
	// Popping the root repeatedly yields ascending key order.
	for len(h.nodes) > 0 {
		root := h.nodes[0]
		h.removeAt(0)
		root.Invalidate()
		drained = append(drained, root.packet)
	}
	h.byteSize.Store(0)
	return drained
}

// --- Heap maintenance ---

// less reports whether the node at index i sorts strictly before the node at index j: earlier txtime first, admission
// order within equal txtimes.
func (h *timingHeap) less(i, j int) bool {
	a, b := h.nodes[i], h.nodes[j]
	if !a.key.Equal(b.key) {
		return a.key.Before(b.key)
	}
	return a.seq < b.seq
}

// swap swaps two nodes and updates their index bookkeeping.
func (h *timingHeap) swap(i, j int) {
	h.nodes[i], h.nodes[j] = h.nodes[j], h.nodes[i]
	h.nodes[i].index = i
	h.nodes[j].index = j
}

// removeAt removes the node at index i and restores the heap property. The displaced node may need to move in either
// direction, so both sift passes run; at most one does work.
func (h *timingHeap) removeAt(i int) {
	n := len(h.nodes) - 1
	if i < n {
		h.swap(i, n)
		h.nodes = h.nodes[:n]
		h.down(i)
		h.up(i)
	} else {
		h.nodes = h.nodes[:n]
	}
}

// up moves the node at index i up the heap to its correct position.
func (h *timingHeap) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			break
		}
		h.swap(i, parent)
		i = parent
	}
}

// down moves the node at index i down the heap to its correct position.
func (h *timingHeap) down(i int) {
	n := len(h.nodes)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		m := left
		if right := left + 1; right < n && h.less(right, left) {
			m = right
		}
		if !h.less(m, i) {
			break
		}
		h.swap(i, m)
		i = m
	}
}
