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
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/zetxqx/txtime/pkg/txtime/clocks"
	"github.com/zetxqx/txtime/pkg/txtime/store"
)

// ReleaseMode selects the dequeue behavior for unexpired head packets.
type ReleaseMode int

const (
	// ReleaseModeWindowed releases the head only once now falls within [txtime - guard, txtime]. The released record
	// keeps its original txtime.
	ReleaseModeWindowed ReleaseMode = iota

	// ReleaseModeDeadline releases the head as soon as it is polled while not yet expired, rewriting its effective
	// txtime to the actual release instant.
	ReleaseModeDeadline
)

// String returns a human-readable representation of the ReleaseMode.
func (m ReleaseMode) String() string {
	switch m {
	case ReleaseModeWindowed:
		return "Windowed"
	case ReleaseModeDeadline:
		return "Deadline"
	default:
		return "UnknownMode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ErrInvalidGuardInterval indicates a negative guard interval was configured.
var ErrInvalidGuardInterval = errors.New("guard interval must not be negative")

// --- Defaults ---

const (
	// defaultClockDomain is the domain used when none is configured. Monotonic is the conventional choice for paced
	// transmit scheduling: it never jumps backwards under wall-clock adjustment.
	defaultClockDomain = clocks.Monotonic
	// defaultStore is the default `framework.TimeOrderedStore` implementation.
	defaultStore store.RegisteredStoreName = store.TimingHeapName
)

// Config holds the validated configuration of an Engine. Build it with `NewConfig`; a Config constructed by hand
// bypasses validation and may produce an engine that violates its own invariants.
type Config struct {
	// ClockDomain is the time domain all txtimes are interpreted in. Admission rejects packets declaring any other
	// domain.
	// Optional: defaults to `clocks.Monotonic`.
	ClockDomain clocks.Domain

	// GuardInterval (delta) is subtracted from a packet's txtime to compute both the earliest wake of the watchdog and
	// the opening of the release window. Must not be negative.
	// Optional: defaults to 0.
	GuardInterval time.Duration

	// Mode selects windowed or deadline release. Admission rejects packets whose sender declares the other mode.
	// Optional: defaults to `ReleaseModeWindowed`.
	Mode ReleaseMode

	// Store names the `framework.TimeOrderedStore` implementation to hold queued packets.
	// Optional: defaults to `store.TimingHeapName`.
	Store store.RegisteredStoreName
}

// ConfigOption defines a functional option for building a Config.
type ConfigOption func(*Config) error

// WithClockDomain sets the engine's clock domain.
func WithClockDomain(d clocks.Domain) ConfigOption {
	return func(c *Config) error {
		c.ClockDomain = d
		return nil
	}
}

// WithGuardInterval sets the guard interval (delta).
func WithGuardInterval(d time.Duration) ConfigOption {
	return func(c *Config) error {
		c.GuardInterval = d
		return nil
	}
}

// WithReleaseMode sets windowed or deadline release.
func WithReleaseMode(m ReleaseMode) ConfigOption {
	return func(c *Config) error {
		c.Mode = m
		return nil
	}
}

// WithStore selects the time-ordered store implementation by registered name.
func WithStore(name store.RegisteredStoreName) ConfigOption {
	return func(c *Config) error {
		if name == "" {
			return errors.New("store name cannot be empty")
		}
		c.Store = name
		return nil
	}
}

// NewConfig creates a Config populated with defaults, applies the provided options, and enforces strict validation.
// No partial configuration survives an error.
func NewConfig(opts ...ConfigOption) (*Config, error) {
	cfg := &Config{
		ClockDomain: defaultClockDomain,
		Mode:        ReleaseModeWindowed,
		Store:       defaultStore,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	return cfg, nil
}

// validate checks the integrity of the configuration, instantiating a throwaway store to prove the name resolves.
func (c *Config) validate() error {
	if !c.ClockDomain.Supported() {
		return fmt.Errorf("%w: %s", clocks.ErrUnsupportedClock, c.ClockDomain)
	}
	if c.GuardInterval < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidGuardInterval, c.GuardInterval)
	}
	if _, err := store.NewStoreFromName(c.Store); err != nil {
		return err
	}
	return nil
}
