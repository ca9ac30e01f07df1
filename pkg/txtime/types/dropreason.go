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

import "strconv"

// DropReason classifies why the engine discarded a packet it had already admitted. It is reported through
// `contracts.DropRecorder` and is designed as a low-cardinality label suitable for metrics.
//
// Admission rejections are deliberately not a `DropReason`: a rejected packet was never owned by the engine, and
// counting that drop is the caller's responsibility.
type DropReason int

const (
	// DropReasonExpired indicates the packet's txtime passed while it was still queued. The drop is silent from the
	// producer's perspective: ownership moved to the engine at admission and no delivery-failure signal flows back.
	DropReasonExpired DropReason = iota

	// DropReasonDrained indicates the packet was discarded by `engine.Engine.Reset` draining the store.
	DropReasonDrained
)

// String returns a human-readable representation of the DropReason.
func (r DropReason) String() string {
	switch r {
	case DropReasonExpired:
		return "Expired"
	case DropReasonDrained:
		return "Drained"
	default:
		return "UnknownReason(" + strconv.Itoa(int(r)) + ")"
	}
}
