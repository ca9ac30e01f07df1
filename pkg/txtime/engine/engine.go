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
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/utils/clock"

	logutil "github.com/zetxqx/txtime/internal/logging"
	"github.com/zetxqx/txtime/pkg/txtime/clocks"
	"github.com/zetxqx/txtime/pkg/txtime/contracts"
	"github.com/zetxqx/txtime/pkg/txtime/framework"
	"github.com/zetxqx/txtime/pkg/txtime/store"
	"github.com/zetxqx/txtime/pkg/txtime/types"
)

// Engine is the facade composing the admission validator, the time-ordered store, the watchdog and the dequeue state
// machine into the four operations the surrounding scheduler framework calls.
//
// See the package documentation for the single-owner concurrency contract.
type Engine struct {
	cfg      *Config
	source   *clocks.Source
	store    framework.TimeOrderedStore
	watchdog *watchdog
	drops    contracts.DropRecorder
	releases contracts.ReleaseRecorder
	logger   logr.Logger

	// lastTxtime is the txtime of the most recently released packet, monotonically non-decreasing once releases
	// begin. The zero value (before any release, and after Reset) admits everything.
	lastTxtime time.Time
}

// Option configures an Engine at construction time.
type Option func(*Engine, *engineDeps)

// engineDeps holds construction-time dependencies that are not retained on the Engine itself.
type engineDeps struct {
	clk    clock.Clock
	onWake func()
}

// WithLogger sets the engine's logger. Defaults to a discarding logger.
func WithLogger(logger logr.Logger) Option {
	return func(e *Engine, _ *engineDeps) {
		e.logger = logger
	}
}

// WithClock injects the clock backing both the engine's time source and its watchdog timer. Defaults to the real
// clock; tests inject `k8s.io/utils/clock/testing.FakeClock` to drive the engine deterministically.
func WithClock(clk clock.Clock) Option {
	return func(_ *Engine, deps *engineDeps) {
		deps.clk = clk
	}
}

// WithDropRecorder sets the drop-accounting sink. Defaults to a no-op.
func WithDropRecorder(r contracts.DropRecorder) Option {
	return func(e *Engine, _ *engineDeps) {
		e.drops = r
	}
}

// WithReleaseRecorder sets the transmit-accounting sink. Defaults to a no-op.
func WithReleaseRecorder(r contracts.ReleaseRecorder) Option {
	return func(e *Engine, _ *engineDeps) {
		e.releases = r
	}
}

// WithWakeCallback sets the function the watchdog invokes when a wake deadline passes. The callback runs on the
// watchdog goroutine; the owner is responsible for routing it into its own serialization before calling `Poll`.
// Without a callback the watchdog still arms but a fire only logs.
func WithWakeCallback(fn func()) Option {
	return func(_ *Engine, deps *engineDeps) {
		deps.onWake = fn
	}
}

// New builds an Engine from a validated Config. A nil cfg selects the defaults. Construction is all-or-nothing: any
// error leaves no partial engine behind.
func New(cfg *Config, opts ...Option) (*Engine, error) {
	var err error
	if cfg == nil {
		if cfg, err = NewConfig(); err != nil {
			return nil, err
		}
	} else if err = cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	e := &Engine{
		cfg:      cfg,
		drops:    contracts.NopDropRecorder{},
		releases: contracts.NopReleaseRecorder{},
		logger:   logr.Discard(),
	}
	deps := &engineDeps{clk: clock.RealClock{}}
	for _, opt := range opts {
		opt(e, deps)
	}

	if e.source, err = clocks.NewSource(cfg.ClockDomain, deps.clk); err != nil {
		return nil, err
	}
	if e.store, err = store.NewStoreFromName(cfg.Store); err != nil {
		return nil, err
	}
	e.watchdog = newWatchdog(deps.clk, e.source, deps.onWake, e.logger.WithName("watchdog"))

	e.logger.V(logutil.DEFAULT).Info("Engine configured",
		"clockDomain", cfg.ClockDomain.String(),
		"guardInterval", cfg.GuardInterval,
		"mode", cfg.Mode.String(),
		"store", e.store.Name(),
	)
	return e, nil
}

// Admit validates a packet and, on success, takes ownership of it and inserts it into the store. A non-nil error
// wraps `types.ErrRejected` together with the first failing reason; the caller keeps ownership of a rejected packet
// and is expected to drop it.
func (e *Engine) Admit(pkt types.Packet) error {
	if pkt == nil {
		return fmt.Errorf("%w: nil packet", types.ErrRejected)
	}
	now := e.source.Now()
	if err := validatePacket(pkt, e.cfg, e.lastTxtime, now); err != nil {
		e.logger.V(logutil.VERBOSE).Info("Rejecting packet", "packetID", pkt.ID(), "reason", err)
		return fmt.Errorf("%w: %w", types.ErrRejected, err)
	}

	item := newItem(pkt, now)
	e.store.Add(item)
	e.logger.V(logutil.TRACE).Info("Packet admitted",
		"packetID", pkt.ID(), "txtime", item.Txtime(), "backlog", e.store.ByteSize())

	// The new packet may be the new minimum.
	e.rearmWatchdog()
	return nil
}

// Poll runs the dequeue state machine against the current head of the store. It returns the released packet, or nil
// when the store is empty, the head is still outside its window, or the head expired (an expired head is removed and
// reported to the drop sink, never returned).
//
// Poll is called from the wake callback and directly by the framework; it is always safe to call and never blocks.
func (e *Engine) Poll() types.PacketAccessor {
	head := e.store.PeekMin()
	if head == nil {
		return nil
	}
	now := e.source.Now()

	// Drop if the head expired while queued. The drop is silent toward the producer; only the drop sink observes it.
	if head.Txtime().Before(now) {
		item := e.removeHead(head)
		if item == nil {
			return nil
		}
		e.drops.RecordDrop(item.OriginalPacket(), types.DropReasonExpired)
		e.logger.V(logutil.VERBOSE).Info("Dropped expired packet",
			"packetID", item.OriginalPacket().ID(), "txtime", item.Txtime(), "now", now)
		e.rearmWatchdog()
		return nil
	}

	// In deadline mode, release as soon as possible and restamp with the actual send time.
	if e.cfg.Mode == ReleaseModeDeadline {
		item := e.removeHead(head)
		if item == nil {
			return nil
		}
		item.txtime = now
		e.lastTxtime = now
		e.releases.RecordRelease(item)
		e.rearmWatchdog()
		return item
	}

	// Windowed: release only once now has reached [txtime - guard, txtime].
	windowOpen := head.Txtime().Add(-e.cfg.GuardInterval)
	if now.Before(windowOpen) {
		// Head unchanged, so the armed wake deadline is still right.
		return nil
	}
	item := e.removeHead(head)
	if item == nil {
		return nil
	}
	e.lastTxtime = item.txtime
	e.releases.RecordRelease(item)
	e.rearmWatchdog()
	return item
}

// Peek returns the head of the store without removing it, or nil if the store is empty.
func (e *Engine) Peek() types.PacketAccessor {
	return e.store.PeekMin()
}

// Reset cancels any outstanding wake, drains the store discarding every held packet (each reported to the drop sink),
// and clears the release-order barrier.
func (e *Engine) Reset() {
	e.watchdog.cancel()
	for _, item := range e.store.Drain() {
		e.drops.RecordDrop(item.OriginalPacket(), types.DropReasonDrained)
	}
	e.lastTxtime = time.Time{}
	e.logger.V(logutil.DEFAULT).Info("Engine reset")
}

// Close cancels any outstanding wake unconditionally. It does not touch the store: a caller that wants queued packets
// accounted for must Reset first, otherwise they are abandoned. The asymmetry with Reset is deliberate and preserved.
func (e *Engine) Close() {
	e.watchdog.cancel()
	e.logger.V(logutil.DEFAULT).Info("Engine closed", "abandoned", e.store.Len())
}

// removeHead removes the current head from the store and returns it as the engine's item type.
func (e *Engine) removeHead(head types.PacketAccessor) *packetItem {
	removed, err := e.store.Remove(head.Handle())
	if err != nil {
		// Under the single-owner contract the head cannot vanish between peek and remove.
		e.logger.Error(err, "Failed to remove head packet from store")
		return nil
	}
	item, ok := removed.(*packetItem)
	if !ok {
		// Every queued item was created by Admit; any other type violates a core invariant.
		panic(fmt.Sprintf("internal error: packet %q of type %T is not a *packetItem",
			removed.OriginalPacket().ID(), removed))
	}
	return item
}

// rearmWatchdog recomputes the wake deadline after any mutation that can change the store's minimum: armed for
// head txtime minus the guard interval, or cancelled outright when the store is empty.
func (e *Engine) rearmWatchdog() {
	head := e.store.PeekMin()
	if head == nil {
		e.watchdog.cancel()
		return
	}
	e.watchdog.scheduleAt(head.Txtime().Add(-e.cfg.GuardInterval))
}

// --- Introspection ---

// ClockDomain returns the configured clock domain.
func (e *Engine) ClockDomain() clocks.Domain { return e.cfg.ClockDomain }

// GuardInterval returns the configured guard interval.
func (e *Engine) GuardInterval() time.Duration { return e.cfg.GuardInterval }

// ReleaseMode returns the configured release mode.
func (e *Engine) ReleaseMode() ReleaseMode { return e.cfg.Mode }

// StoreName returns the name of the configured store implementation.
func (e *Engine) StoreName() string { return e.store.Name() }

// Len returns the number of queued packets.
func (e *Engine) Len() int { return e.store.Len() }

// Backlog returns the total byte size of queued packets.
func (e *Engine) Backlog() uint64 { return e.store.ByteSize() }
