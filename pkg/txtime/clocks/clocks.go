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

// Package clocks defines the selectable time domains a release engine can be configured against and the `Source` type
// that reads "now" from one of them.
//
// A `Source` is a pure, side-effect-free reader. The underlying clock is injectable (`clock.PassiveClock`), which is
// what makes the whole engine deterministic under test: every timestamp the engine ever compares flows through a single
// `Source`.
package clocks

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"k8s.io/utils/clock"
)

// Domain identifies the time domain a txtime is expressed in. The numeric values deliberately match the POSIX clockid
// constants so that a domain read back from an engine's configuration is directly comparable with the value a producer
// declared.
type Domain int

const (
	// Realtime is the settable wall-clock domain (CLOCK_REALTIME).
	Realtime Domain = 0

	// Monotonic is monotonic time since boot, excluding suspend (CLOCK_MONOTONIC).
	//
	// The Go runtime exposes a single monotonic reading attached to wall-clock values, so on this implementation
	// Monotonic and Boottime read the same underlying clock. The domains remain distinct for admission matching: a
	// producer declaring Boottime is still rejected by a Monotonic-configured engine.
	Monotonic Domain = 1

	// Boottime is monotonic time since boot, including time spent in suspend (CLOCK_BOOTTIME).
	Boottime Domain = 7

	// TAI is international atomic time (CLOCK_TAI): wall-clock time with leap seconds not applied.
	TAI Domain = 11
)

// taiOffset is the current TAI-UTC offset. It has been fixed at 37s since the leap second of 2016-12-31 and changes
// only by IERS bulletin.
const taiOffset = 37 * time.Second

// ErrUnsupportedClock indicates a clock domain outside the supported set. Dynamic (negative) clock identifiers are
// never supported.
var ErrUnsupportedClock = errors.New("unsupported clock domain")

// Supported reports whether d is one of the selectable domains.
func (d Domain) Supported() bool {
	switch d {
	case Realtime, Monotonic, Boottime, TAI:
		return true
	default:
		return false
	}
}

// String returns the conventional lowercase name of the domain.
func (d Domain) String() string {
	switch d {
	case Realtime:
		return "realtime"
	case Monotonic:
		return "monotonic"
	case Boottime:
		return "boottime"
	case TAI:
		return "tai"
	default:
		return "unknown(" + strconv.Itoa(int(d)) + ")"
	}
}

// Source reads the current time in a fixed, validated domain.
type Source struct {
	domain Domain
	base   clock.PassiveClock
}

// NewSource returns a `Source` for the given domain backed by base. A nil base selects the real clock. An unknown or
// negative domain returns `ErrUnsupportedClock`.
func NewSource(domain Domain, base clock.PassiveClock) (*Source, error) {
	if !domain.Supported() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedClock, domain)
	}
	if base == nil {
		base = clock.RealClock{}
	}
	return &Source{domain: domain, base: base}, nil
}

// Domain returns the domain this source was built for.
func (s *Source) Domain() Domain {
	return s.domain
}

// Now returns the current time in the source's domain. It is a pure read with no side effects.
func (s *Source) Now() time.Time {
	now := s.base.Now()
	if s.domain == TAI {
		return now.Add(taiOffset)
	}
	return now
}
