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

// Package framework defines the contracts between the release engine and the pluggable structures it composes.
package framework

import (
	"github.com/zetxqx/txtime/pkg/txtime/types"
)

// StoreInspectionMethods defines TimeOrderedStore's read-only methods.
type StoreInspectionMethods interface {
	// Name returns a string identifier for the concrete store implementation type (e.g., "TimingHeap").
	Name() string

	// Len returns the current number of packets in the store.
	Len() int

	// ByteSize returns the current total byte size of all packets in the store (the backlog).
	ByteSize() uint64

	// PeekMin returns the packet with the earliest txtime without removing it, or nil if the store is empty. The
	// minimum-keyed packet is always the next candidate for release or expiry.
	PeekMin() types.PacketAccessor
}

// TimeOrderedStore is the contract for an ordered multiset of admitted packets keyed by effective txtime. Equal keys
// are permitted, are never deduplicated, and MUST be ordered by admission: a packet added later with an equal txtime
// sorts after every packet already present with that txtime. This keeps `PeekMin` deterministic and release order
// stable.
//
// The store never enforces any relationship between its keys and the engine's last released txtime; that invariant is
// an admission-time barrier, not a store property.
//
// All implementations MUST be goroutine-safe. The engine itself is single-owner (see the engine package doc), but
// `PeekMin` must remain safe against a concurrent inspection from the wake path.
type TimeOrderedStore interface {
	StoreInspectionMethods

	// Add inserts a packet keyed by its current `Txtime()`. It must associate a new, unique `types.PacketHandle` with
	// the packet by calling `SetHandle`.
	// Contract: the caller MUST NOT provide a nil packet.
	Add(packet types.PacketAccessor)

	// Remove atomically finds and removes the packet identified by the given handle. On success the store MUST
	// invalidate the handle by calling `handle.Invalidate()`, clearing any transient linkage so the packet can be
	// safely handed off or dropped.
	// Returns `ErrInvalidPacketHandle` if the handle is nil, invalidated, or foreign to this store.
	// Returns `ErrPacketNotFound` if the handle is valid but the packet is no longer present.
	Remove(handle types.PacketHandle) (removed types.PacketAccessor, err error)

	// Drain atomically removes every packet and returns them in ascending txtime order (admission order within equal
	// keys). All handles MUST be invalidated and the store MUST be empty afterwards. Used for teardown and reset, not
	// on the release hot path.
	Drain() (drained []types.PacketAccessor)
}
