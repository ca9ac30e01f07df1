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

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zetxqx/txtime/pkg/txtime/framework"
)

func TestNewStoreFromName(t *testing.T) {
	t.Parallel()

	t.Run("KnownNames", func(t *testing.T) {
		t.Parallel()
		for _, name := range []RegisteredStoreName{TimingHeapName, SortedListName} {
			s, err := NewStoreFromName(name)
			require.NoError(t, err)
			assert.Equal(t, string(name), s.Name())
		}
	})

	t.Run("UnknownName", func(t *testing.T) {
		t.Parallel()
		s, err := NewStoreFromName("NoSuchStore")
		require.Error(t, err)
		assert.Nil(t, s)
	})

	t.Run("FreshInstancePerCall", func(t *testing.T) {
		t.Parallel()
		a, err := NewStoreFromName(TimingHeapName)
		require.NoError(t, err)
		b, err := NewStoreFromName(TimingHeapName)
		require.NoError(t, err)
		assert.NotSame(t, a, b)
	})
}

func TestMustRegisterStore_PanicsOnDuplicate(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		MustRegisterStore(TimingHeapName, func() (framework.TimeOrderedStore, error) {
			return newTimingHeap(), nil
		})
	})
}
