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
	"errors"
)

// ErrRejected is the sentinel all admission failures wrap. A rejected packet never entered the store; the caller
// retains ownership and is expected to drop it (and count the drop, if it cares).
//
// Callers should use `errors.Is(err, ErrRejected)` for the general class and `errors.Is` against the specific
// sentinels below for the reason.
var ErrRejected = errors.New("packet rejected at admission")

// Admission rejection reasons, in the order the validator checks them. The validator short-circuits on the first
// failure, so exactly one of these is wrapped by any `ErrRejected` error.
var (
	// ErrTxtimeDisabled indicates the packet's sender never opted in to timed release (or the packet carries no
	// sender at all).
	ErrTxtimeDisabled = errors.New("sender has not opted in to timed release")

	// ErrClockMismatch indicates the sender's declared clock domain differs from the engine's. The engine performs no
	// cross-timestamping between domains.
	ErrClockMismatch = errors.New("sender clock domain does not match engine clock domain")

	// ErrModeMismatch indicates the sender's declared release mode (deadline vs. windowed) differs from the engine's.
	ErrModeMismatch = errors.New("sender release mode does not match engine release mode")

	// ErrExpired indicates the packet's txtime is already strictly in the past.
	ErrExpired = errors.New("txtime is in the past")

	// ErrOutOfOrder indicates the packet's txtime is strictly before the txtime of the most recently released packet.
	// Admitting it would violate the engine's non-decreasing release order.
	ErrOutOfOrder = errors.New("txtime precedes last released txtime")
)
