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
	"sync"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/utils/clock"

	logutil "github.com/zetxqx/txtime/internal/logging"
	"github.com/zetxqx/txtime/pkg/txtime/clocks"
)

// watchdog is the engine's single outstanding deferred wake. At most one wake is armed at a time; arming for the time
// already armed is a no-op, arming for any other time cancels and reschedules, and `cancel` is idempotent.
//
// When the wake deadline passes, the watchdog invokes onWake on its own goroutine. The wake is advisory: its only
// purpose is to prompt a poll, and nothing breaks if the owner polls without it.
type watchdog struct {
	clk    clock.Clock
	source *clocks.Source
	onWake func()
	logger logr.Logger

	// mu guards the armed state against the fired goroutine marking itself done.
	mu        sync.Mutex
	armed     bool
	wakeAt    time.Time
	cancelCur chan struct{}
}

func newWatchdog(clk clock.Clock, source *clocks.Source, onWake func(), logger logr.Logger) *watchdog {
	return &watchdog{
		clk:    clk,
		source: source,
		onWake: onWake,
		logger: logger,
	}
}

// scheduleAt arms the watchdog to wake at the given instant in the engine's clock domain. A deadline already in the
// past fires immediately.
func (w *watchdog) scheduleAt(at time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.armed && w.wakeAt.Equal(at) {
		return
	}
	w.cancelLocked()

	delay := at.Sub(w.source.Now())
	if delay < 0 {
		delay = 0
	}
	timer := w.clk.NewTimer(delay)
	cancel := make(chan struct{})
	w.armed = true
	w.wakeAt = at
	w.cancelCur = cancel

	go func() {
		select {
		case <-timer.C():
			w.mu.Lock()
			if w.cancelCur == cancel {
				w.armed = false
				w.cancelCur = nil
			}
			w.mu.Unlock()
			w.logger.V(logutil.TRACE).Info("Watchdog fired", "wakeAt", at)
			if w.onWake != nil {
				w.onWake()
			}
		case <-cancel:
			timer.Stop()
		}
	}()
}

// cancel disarms any outstanding wake. Safe to call at any time, including with nothing armed.
func (w *watchdog) cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cancelLocked()
}

func (w *watchdog) cancelLocked() {
	if !w.armed {
		return
	}
	close(w.cancelCur)
	w.armed = false
	w.cancelCur = nil
}

// wakeTime reports the currently armed wake deadline, if any.
func (w *watchdog) wakeTime() (time.Time, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.wakeAt, w.armed
}
