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

package clocks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testclock "k8s.io/utils/clock/testing"
)

func TestDomain_Supported(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		name     string
		domain   Domain
		expected bool
	}{
		{name: "Realtime", domain: Realtime, expected: true},
		{name: "Monotonic", domain: Monotonic, expected: true},
		{name: "Boottime", domain: Boottime, expected: true},
		{name: "TAI", domain: TAI, expected: true},
		{name: "UnknownPositive", domain: Domain(5), expected: false},
		{name: "DynamicNegative", domain: Domain(-2), expected: false},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, tc.domain.Supported())
		})
	}
}

func TestDomain_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "realtime", Realtime.String())
	assert.Equal(t, "monotonic", Monotonic.String())
	assert.Equal(t, "boottime", Boottime.String())
	assert.Equal(t, "tai", TAI.String())
	assert.Equal(t, "unknown(5)", Domain(5).String())
}

func TestNewSource_RejectsUnsupportedDomain(t *testing.T) {
	t.Parallel()
	for _, d := range []Domain{Domain(2), Domain(-1), Domain(99)} {
		src, err := NewSource(d, nil)
		require.Error(t, err, "domain %d must be rejected", d)
		assert.ErrorIs(t, err, ErrUnsupportedClock)
		assert.Nil(t, src)
	}
}

func TestNewSource_NilBaseUsesRealClock(t *testing.T) {
	t.Parallel()
	src, err := NewSource(Monotonic, nil)
	require.NoError(t, err)
	assert.Equal(t, Monotonic, src.Domain())
	assert.WithinDuration(t, time.Now(), src.Now(), time.Minute)
}

func TestSource_Now(t *testing.T) {
	t.Parallel()
	base := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)
	fake := testclock.NewFakePassiveClock(base)

	testCases := []struct {
		name     string
		domain   Domain
		expected time.Time
	}{
		{name: "RealtimeReadsBase", domain: Realtime, expected: base},
		{name: "MonotonicReadsBase", domain: Monotonic, expected: base},
		{name: "BoottimeReadsBase", domain: Boottime, expected: base},
		{name: "TAIAppliesLeapSecondOffset", domain: TAI, expected: base.Add(37 * time.Second)},
	}
	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			src, err := NewSource(tc.domain, fake)
			require.NoError(t, err)
			assert.True(t, tc.expected.Equal(src.Now()),
				"expected %s, got %s", tc.expected, src.Now())
		})
	}
}
