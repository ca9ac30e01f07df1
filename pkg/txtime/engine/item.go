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

package engine

import (
	"time"

	"github.com/zetxqx/txtime/pkg/txtime/types"
)

// packetItem is the engine's internal representation of an admitted packet. It implements `types.PacketAccessor`,
// wrapping the producer's immutable `types.Packet` with the engine-owned effective txtime and the store handle.
//
// All fields except txtime and handle are set at admission and never change. txtime starts as the producer's declared
// txtime and is rewritten exactly once, to the release instant, when a deadline-mode engine releases the packet. The
// rewrite always happens after the item has left the store, so store ordering never observes it.
type packetItem struct {
	// pkt is the underlying producer packet.
	pkt types.Packet
	// enqueueTime is the engine-domain timestamp at which admission succeeded.
	enqueueTime time.Time
	// txtime is the effective release stamp.
	txtime time.Time
	// handle identifies this item within the store while queued.
	handle types.PacketHandle
}

var _ types.PacketAccessor = &packetItem{}

// newItem wraps an admitted packet.
func newItem(pkt types.Packet, now time.Time) *packetItem {
	return &packetItem{
		pkt:         pkt,
		enqueueTime: now,
		txtime:      pkt.Txtime(),
	}
}

// OriginalPacket returns the producer's packet.
func (pi *packetItem) OriginalPacket() types.Packet { return pi.pkt }

// Txtime returns the effective release stamp.
func (pi *packetItem) Txtime() time.Time { return pi.txtime }

// EnqueueTime returns the timestamp at which admission succeeded.
func (pi *packetItem) EnqueueTime() time.Time { return pi.enqueueTime }

// Handle returns the store handle, or nil if the item is not in a store.
func (pi *packetItem) Handle() types.PacketHandle { return pi.handle }

// SetHandle associates a store handle with this item. Called by the store inside Add.
func (pi *packetItem) SetHandle(handle types.PacketHandle) { pi.handle = handle }
