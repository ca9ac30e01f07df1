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

package types

import (
	"time"

	"github.com/zetxqx/txtime/pkg/txtime/clocks"
)

// Packet is the contract for an outbound transmissible unit submitted to `engine.Engine.Admit`. It represents the
// "raw" producer-provided data for a single unit of work.
//
// Ownership: the producer relinquishes the packet at the moment `Admit` returns nil. From then on the engine owns it
// exclusively until it is released to the transmission path or dropped; the producer has no further channel to observe
// its fate through the engine (drop accounting is the `contracts.DropRecorder`'s concern).
type Packet interface {
	// Txtime returns the target transmission time assigned by the producer before admission, expressed in the
	// producer's declared clock domain. It is treated as an immutable value; the engine never consults it again after
	// wrapping the packet.
	Txtime() time.Time

	// ByteSize returns the packet's size in bytes. It is used for backlog accounting and release/drop statistics, not
	// for any scheduling decision.
	ByteSize() uint64

	// ID returns an optional, producer-facing identifier for this packet. It is intended for logging and tracing; the
	// engine's own bookkeeping uses the opaque `PacketHandle`.
	ID() string

	// Sender returns the identity of the packet's owning context. Admission checks the sender's declared opt-in flag,
	// clock domain and release mode against the engine's configuration. A nil sender fails admission.
	Sender() Sender
}

// Sender is the owner identity a packet carries into admission. It mirrors the per-connection transmit-time options a
// producer configures once and stamps on every packet it emits.
type Sender interface {
	// TxtimeEnabled reports whether this sender has explicitly opted in to timed release. Packets from senders that
	// have not opted in are rejected.
	TxtimeEnabled() bool

	// ClockDomain returns the domain the sender's txtimes are expressed in. It must equal the engine's configured
	// domain; the engine performs no cross-timestamping.
	ClockDomain() clocks.Domain

	// DeadlineMode reports whether the sender expects deadline-mode release. It must agree with the engine's
	// configured release mode.
	DeadlineMode() bool
}

// PacketHandle is an opaque handle to a packet that has been admitted into a `framework.TimeOrderedStore`. It acts as
// a key, allowing the engine to perform targeted removal without knowing the store's internal structure.
//
// A handle is created by and bound to the specific store instance holding the packet.
type PacketHandle interface {
	// Handle returns the underlying, store-specific raw handle (e.g., a `*list.Element`). Callers outside the store
	// implementation treat it as opaque.
	Handle() any

	// Invalidate marks this handle as no longer valid. It MUST be called by the store itself once the packet has been
	// removed, so that no stale linkage survives the packet's hand-off or drop.
	//
	// Conformance: implementations MUST be idempotent.
	Invalidate()

	// IsInvalidated returns true once `Invalidate` has been called. A store MUST reject operations on an invalidated
	// handle, typically with `framework.ErrInvalidPacketHandle`.
	IsInvalidated() bool
}

// PacketAccessor is the engine's enriched, read-only view of an admitted packet. It is the type stores order and the
// type `engine.Engine.Poll` hands to the transmission path.
type PacketAccessor interface {
	// OriginalPacket returns the underlying producer `Packet`.
	OriginalPacket() Packet

	// Txtime returns the effective release stamp. It starts equal to `OriginalPacket().Txtime()` and is rewritten to
	// the actual release instant when a deadline-mode engine releases the packet; for a packet still queued it is
	// always the original value, so stores may key on it.
	Txtime() time.Time

	// EnqueueTime is the engine-domain timestamp at which admission succeeded.
	EnqueueTime() time.Time

	// Handle returns the `PacketHandle` for this packet, or nil if it is not currently in a store.
	Handle() PacketHandle

	// SetHandle associates a `PacketHandle` with this packet.
	//
	// Conformance: MUST be called by a `framework.TimeOrderedStore` implementation inside `Add`, immediately after the
	// handle is created. It is not intended for use outside store implementations.
	SetHandle(handle PacketHandle)
}
