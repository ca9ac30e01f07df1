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

// Package engine implements the time-ordered packet-release engine: packets are admitted against temporal and identity
// invariants, held in a time-ordered store, and released in txtime order once their release window opens (or, in
// deadline mode, as soon as they are polled while still unexpired).
//
// # Concurrency Model
//
// The engine is designed for a single logical owner. The surrounding scheduler framework is expected to serialize
// `Admit`, `Poll`, `Reset` and `Close`; the engine takes no lock of its own around its state, and concurrent
// unsynchronized calls are outside the contract. This mirrors the single-producer/single-dispatcher discipline of a
// transmit queue.
//
// The one component that crosses goroutines is the watchdog. It parks on a timer and, when the wake deadline passes,
// invokes the configured wake callback (`WithWakeCallback`). The callback runs on the watchdog's goroutine; it is the
// callback owner's job to route the resulting `Poll` through whatever serialization the framework already provides.
// The watchdog is advisory: it exists only so somebody polls promptly, and `Poll` is always safe to call directly,
// early, or redundantly.
//
// # Release Ordering
//
// Packets are released in non-decreasing original-txtime order, ties in admission order. The engine's
// `lastTxtime` barrier enforces that order against future admissions only; it never reorders what is already queued.
// Deadline mode rewrites the outgoing record's stamp to the actual release instant, which does not perturb queue
// order.
package engine
