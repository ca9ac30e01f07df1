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

package framework

import (
	"errors"
)

// `TimeOrderedStore` errors. They are returned by store methods and may be wrapped by the engine.
var (
	// ErrInvalidPacketHandle indicates that a `types.PacketHandle` provided to a store operation is nil, has already
	// been invalidated, or was created by a different store instance.
	ErrInvalidPacketHandle = errors.New("invalid packet handle")

	// ErrPacketNotFound indicates that a `TimeOrderedStore.Remove(handle)` operation did not find a packet matching
	// the provided, valid handle.
	ErrPacketNotFound = errors.New("packet not found for the given handle")
)
