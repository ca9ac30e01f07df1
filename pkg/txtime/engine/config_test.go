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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zetxqx/txtime/pkg/txtime/clocks"
	"github.com/zetxqx/txtime/pkg/txtime/store"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, clocks.Monotonic, cfg.ClockDomain)
	assert.Equal(t, time.Duration(0), cfg.GuardInterval)
	assert.Equal(t, ReleaseModeWindowed, cfg.Mode)
	assert.Equal(t, store.RegisteredStoreName(store.TimingHeapName), cfg.Store)
}

func TestNewConfig_Options(t *testing.T) {
	t.Parallel()
	cfg, err := NewConfig(
		WithClockDomain(clocks.TAI),
		WithGuardInterval(25*time.Millisecond),
		WithReleaseMode(ReleaseModeDeadline),
		WithStore(store.SortedListName),
	)
	require.NoError(t, err)
	assert.Equal(t, clocks.TAI, cfg.ClockDomain)
	assert.Equal(t, 25*time.Millisecond, cfg.GuardInterval)
	assert.Equal(t, ReleaseModeDeadline, cfg.Mode)
	assert.Equal(t, store.RegisteredStoreName(store.SortedListName), cfg.Store)
}

func TestNewConfig_Validation(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name        string
		opts        []ConfigOption
		expectedErr error
	}{
		{
			name:        "NegativeGuardInterval",
			opts:        []ConfigOption{WithGuardInterval(-time.Millisecond)},
			expectedErr: ErrInvalidGuardInterval,
		},
		{
			name:        "UnsupportedClockDomain",
			opts:        []ConfigOption{WithClockDomain(clocks.Domain(3))},
			expectedErr: clocks.ErrUnsupportedClock,
		},
		{
			name:        "NegativeClockDomain",
			opts:        []ConfigOption{WithClockDomain(clocks.Domain(-1))},
			expectedErr: clocks.ErrUnsupportedClock,
		},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := NewConfig(tc.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.Nil(t, cfg)
		})
	}

	t.Run("UnknownStore", func(t *testing.T) {
		t.Parallel()
		cfg, err := NewConfig(WithStore("NoSuchStore"))
		require.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("EmptyStoreName", func(t *testing.T) {
		t.Parallel()
		cfg, err := NewConfig(WithStore(""))
		require.Error(t, err)
		assert.Nil(t, cfg)
	})
}

func TestReleaseMode_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Windowed", ReleaseModeWindowed.String())
	assert.Equal(t, "Deadline", ReleaseModeDeadline.String())
	assert.Equal(t, "UnknownMode(7)", ReleaseMode(7).String())
}
