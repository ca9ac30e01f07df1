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
	"container/list"
	"sync"
	"sync/atomic"

	"github.com/zetxqx/txtime/pkg/txtime/framework"
	"github.com/zetxqx/txtime/pkg/txtime/types"
)

// SortedListName is the name of the sorted linked-list store implementation.
//
// The list is kept in ascending txtime order by scanning for the insertion point from the back. Insertion is O(n) in
// the worst case but O(1) when producers emit packets in roughly ascending txtime order, which is the common shape of
// paced traffic. Peek and targeted removal are O(1), cheaper than the heap's O(log n) removal.
//
// A packet with a txtime equal to ones already queued is placed after them, so ties release in admission order, the
// same observable order the TimingHeap produces.
const SortedListName = "SortedList"

func init() {
	MustRegisterStore(RegisteredStoreName(SortedListName),
		func() (framework.TimeOrderedStore, error) {
			return newSortedList(), nil
		})
}

// sortedList is the internal implementation of the SortedList store.
// See the documentation for the exported `SortedListName` constant for detailed user-facing information.
type sortedList struct {
	packets  *list.List
	byteSize atomic.Uint64
	mu       sync.RWMutex
}

// listHandle is the concrete `types.PacketHandle` used by `sortedList`. It wraps the `list.Element` and includes a
// pointer to the owning list for validation.
type listHandle struct {
	element       *list.Element
	owner         *sortedList
	isInvalidated bool
}

// Handle returns the underlying store-specific raw handle.
func (lh *listHandle) Handle() any {
	return lh.element
}

// Invalidate marks this handle instance as no longer valid for future operations.
func (lh *listHandle) Invalidate() {
	lh.isInvalidated = true
}

// IsInvalidated returns true if this handle instance has been marked as invalid.
func (lh *listHandle) IsInvalidated() bool {
	return lh.isInvalidated
}

var _ types.PacketHandle = &listHandle{}

// newSortedList creates an empty `sortedList`.
func newSortedList() *sortedList {
	return &sortedList{
		packets: list.New(),
	}
}

// --- `framework.TimeOrderedStore` Interface Implementation ---

// Name returns the name of the store.
func (sl *sortedList) Name() string {
	return SortedListName
}

// Len returns the number of packets in the store.
func (sl *sortedList) Len() int {
	sl.mu.RLock()
	defer sl.mu.RUnlock()
	return sl.packets.Len()
}

// ByteSize returns the total byte size of all packets in the store.
func (sl *sortedList) ByteSize() uint64 {
	return sl.byteSize.Load()
}

// PeekMin returns the packet at the front of the list without removing it.
func (sl *sortedList) PeekMin() types.PacketAccessor {
	sl.mu.RLock()
	defer sl.mu.RUnlock()

	front := sl.packets.Front()
	if front == nil {
		return nil
	}
	return front.Value.(types.PacketAccessor)
}

// Add inserts a packet at its sorted position, scanning from the back. Packets with equal txtimes are placed after the
// ones already present.
func (sl *sortedList) Add(packet types.PacketAccessor) {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	txtime := packet.Txtime()

	// Walk backwards past every packet with a strictly later txtime. Stopping at the first element that is not later
	// puts equal keys in admission order.
	at := sl.packets.Back()
	for at != nil && at.Value.(types.PacketAccessor).Txtime().After(txtime) {
		at = at.Prev()
	}

	var element *list.Element
	if at == nil {
		element = sl.packets.PushFront(packet)
	} else {
		element = sl.packets.InsertAfter(packet, at)
	}
	sl.byteSize.Add(packet.OriginalPacket().ByteSize())
	packet.SetHandle(&listHandle{element: element, owner: sl})
}

// Remove removes the packet identified by the given handle from the list.
func (sl *sortedList) Remove(handle types.PacketHandle) (types.PacketAccessor, error) {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if handle == nil || handle.IsInvalidated() {
		return nil, framework.ErrInvalidPacketHandle
	}
	lh, ok := handle.(*listHandle)
	if !ok || lh.owner != sl {
		return nil, framework.ErrInvalidPacketHandle
	}

	packet := lh.element.Value.(types.PacketAccessor)
	sl.packets.Remove(lh.element)
	sl.byteSize.Add(^packet.OriginalPacket().ByteSize() + 1) // Atomic subtraction
	handle.Invalidate()
	return packet, nil
}

// Drain removes all packets and returns them in ascending txtime order (the list order).
func (sl *sortedList) Drain() []types.PacketAccessor {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	drained := make([]types.PacketAccessor, 0, sl.packets.Len())
	for e := sl.packets.Front(); e != nil; e = e.Next() {
		packet := e.Value.(types.PacketAccessor)
		if handle := packet.Handle(); handle != nil {
			handle.Invalidate()
		}
		drained = append(drained, packet)
	}

	sl.packets.Init()
	sl.byteSize.Store(0)
	return drained
}
