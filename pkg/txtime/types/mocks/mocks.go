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

// Package mocks provides simple, configurable mock implementations of the core txtime types, intended for use in unit
// tests.
package mocks

import (
	"time"

	"github.com/zetxqx/txtime/pkg/txtime/clocks"
	"github.com/zetxqx/txtime/pkg/txtime/types"
)

// MockSender provides a mock implementation of the `types.Sender` interface.
type MockSender struct {
	TxtimeEnabledV bool
	ClockDomainV   clocks.Domain
	DeadlineModeV  bool
}

func (m *MockSender) TxtimeEnabled() bool        { return m.TxtimeEnabledV }
func (m *MockSender) ClockDomain() clocks.Domain { return m.ClockDomainV }
func (m *MockSender) DeadlineMode() bool         { return m.DeadlineModeV }

var _ types.Sender = &MockSender{}

// MockPacket provides a mock implementation of the `types.Packet` interface.
type MockPacket struct {
	TxtimeV   time.Time
	ByteSizeV uint64
	IDV       string
	SenderV   types.Sender
}

func (m *MockPacket) Txtime() time.Time    { return m.TxtimeV }
func (m *MockPacket) ByteSize() uint64     { return m.ByteSizeV }
func (m *MockPacket) ID() string           { return m.IDV }
func (m *MockPacket) Sender() types.Sender { return m.SenderV }

var _ types.Packet = &MockPacket{}

// NewMockPacket creates a `MockPacket` with an opted-in sender in the given domain, which is the common case in store
// and engine tests.
func NewMockPacket(id string, txtime time.Time, byteSize uint64, domain clocks.Domain) *MockPacket {
	return &MockPacket{
		TxtimeV:   txtime,
		ByteSizeV: byteSize,
		IDV:       id,
		SenderV:   &MockSender{TxtimeEnabledV: true, ClockDomainV: domain},
	}
}

// MockPacketHandle provides a mock implementation of the `types.PacketHandle` interface.
type MockPacketHandle struct {
	RawHandle      any
	IsInvalidatedV bool
}

func (m *MockPacketHandle) Handle() any         { return m.RawHandle }
func (m *MockPacketHandle) Invalidate()         { m.IsInvalidatedV = true }
func (m *MockPacketHandle) IsInvalidated() bool { return m.IsInvalidatedV }

var _ types.PacketHandle = &MockPacketHandle{}

// MockPacketAccessor provides a mock implementation of the `types.PacketAccessor` interface.
type MockPacketAccessor struct {
	TxtimeV         time.Time
	EnqueueTimeV    time.Time
	OriginalPacketV types.Packet
	HandleV         types.PacketHandle
}

func (m *MockPacketAccessor) Txtime() time.Time      { return m.TxtimeV }
func (m *MockPacketAccessor) EnqueueTime() time.Time { return m.EnqueueTimeV }

func (m *MockPacketAccessor) OriginalPacket() types.Packet {
	if m.OriginalPacketV == nil {
		return &MockPacket{}
	}
	return m.OriginalPacketV
}

func (m *MockPacketAccessor) Handle() types.PacketHandle          { return m.HandleV }
func (m *MockPacketAccessor) SetHandle(handle types.PacketHandle) { m.HandleV = handle }

var _ types.PacketAccessor = &MockPacketAccessor{}

// NewMockPacketAccessor is a constructor for `MockPacketAccessor` that wraps a fresh `MockPacket` so tests cannot trip
// over nil fields.
func NewMockPacketAccessor(id string, txtime time.Time, byteSize uint64) *MockPacketAccessor {
	return &MockPacketAccessor{
		TxtimeV:         txtime,
		EnqueueTimeV:    time.Now(),
		OriginalPacketV: NewMockPacket(id, txtime, byteSize, clocks.Monotonic),
	}
}
