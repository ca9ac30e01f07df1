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

// Package contracts defines the narrow interfaces through which the release engine reports to its surrounding
// framework. The engine depends only on these contracts; the standard prometheus-backed implementation lives in the
// metrics package, and both sinks default to no-ops so a bare engine carries no accounting machinery.
package contracts

import (
	"github.com/zetxqx/txtime/pkg/txtime/types"
)

// DropRecorder is the drop-accounting sink. The engine calls it for every packet it discards after admission: expiry
// at poll time and reset drains. The drop is otherwise silent; this is the only place post-admission packet fate is
// observable.
//
// # Conformance
//
// Implementations MUST NOT block; `RecordDrop` is called from the poll path.
type DropRecorder interface {
	// RecordDrop records that packet was discarded for the given reason.
	RecordDrop(packet types.Packet, reason types.DropReason)
}

// ReleaseRecorder is the transmit-accounting sink, called once for every packet the engine hands to the transmission
// path. The accessor's `Txtime()` is the effective release stamp (rewritten to the release instant in deadline mode).
//
// # Conformance
//
// Implementations MUST NOT block; `RecordRelease` is called from the poll path.
type ReleaseRecorder interface {
	// RecordRelease records a successful release.
	RecordRelease(packet types.PacketAccessor)
}

// NopDropRecorder is a DropRecorder that discards everything.
type NopDropRecorder struct{}

func (NopDropRecorder) RecordDrop(types.Packet, types.DropReason) {}

var _ DropRecorder = NopDropRecorder{}

// NopReleaseRecorder is a ReleaseRecorder that discards everything.
type NopReleaseRecorder struct{}

func (NopReleaseRecorder) RecordRelease(types.PacketAccessor) {}

var _ ReleaseRecorder = NopReleaseRecorder{}
