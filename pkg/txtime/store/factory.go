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

// Package store provides the registry and the concrete implementations of the `framework.TimeOrderedStore` used by the
// release engine. Ordering is fixed (ascending txtime, admission order within equal keys), so constructors take no
// comparator; an implementation's job is purely to maintain that order with its own trade-offs.
package store

import (
	"fmt"
	"sync"

	"github.com/zetxqx/txtime/pkg/txtime/framework"
)

// RegisteredStoreName identifies a store implementation in the registry.
type RegisteredStoreName string

// StoreConstructor defines the function signature for creating a `framework.TimeOrderedStore`.
type StoreConstructor func() (framework.TimeOrderedStore, error)

var (
	// mu guards the registration map.
	mu sync.RWMutex
	// RegisteredStores stores the constructors for all registered store implementations.
	RegisteredStores = make(map[RegisteredStoreName]StoreConstructor)
)

// MustRegisterStore registers a store constructor, and panics if the name is already registered.
// This is intended to be called from init() functions.
func MustRegisterStore(name RegisteredStoreName, constructor StoreConstructor) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := RegisteredStores[name]; ok {
		panic(fmt.Sprintf("framework.TimeOrderedStore already registered with name %q", name))
	}
	RegisteredStores[name] = constructor
}

// NewStoreFromName creates a new TimeOrderedStore given its registered name. It is called by the engine during
// configuration; an unknown name is a configuration error.
func NewStoreFromName(name RegisteredStoreName) (framework.TimeOrderedStore, error) {
	mu.RLock()
	defer mu.RUnlock()
	constructor, ok := RegisteredStores[name]
	if !ok {
		return nil, fmt.Errorf("no framework.TimeOrderedStore registered with name %q", name)
	}
	return constructor()
}
