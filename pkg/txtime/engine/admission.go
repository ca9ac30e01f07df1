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

// validatePacket decides whether a packet may enter the store. Checks run in a fixed order and short-circuit on the
// first failure, so exactly one reason sentinel comes back for any rejected packet.
//
// Both time comparisons are strict: a txtime equal to now, or equal to the last released txtime, is admissible.
func validatePacket(pkt types.Packet, cfg *Config, lastTxtime, now time.Time) error {
	sender := pkt.Sender()
	if sender == nil || !sender.TxtimeEnabled() {
		return types.ErrTxtimeDisabled
	}

	// No cross-timestamping: a txtime expressed in another domain is meaningless here.
	if sender.ClockDomain() != cfg.ClockDomain {
		return types.ErrClockMismatch
	}

	if sender.DeadlineMode() != (cfg.Mode == ReleaseModeDeadline) {
		return types.ErrModeMismatch
	}

	txtime := pkt.Txtime()
	if txtime.Before(now) {
		return types.ErrExpired
	}
	if txtime.Before(lastTxtime) {
		return types.ErrOutOfOrder
	}
	return nil
}
