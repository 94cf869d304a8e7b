// go-sm130
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-sm130.
//
// go-sm130 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-sm130 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-sm130; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package sm130

import (
	"bytes"
	"io"
	"sync"
	"time"
)

// MockTransport is a scripted in-memory transport. Responses queued with
// QueueResponse are released into the receive buffer one per seek command,
// mimicking a reader that answers each seek.
type MockTransport struct {
	WriteErr  error
	ReadErr   error
	OpenErr   error
	writes    [][]byte
	rx        []byte
	responses [][]byte
	baudRate  int
	mu        sync.Mutex
	open      bool
	closed    bool
}

// NewMockTransport creates an unopened mock transport
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// NewOpenMockTransport creates a mock transport that is already open
func NewOpenMockTransport() *MockTransport {
	m := NewMockTransport()
	m.open = true
	m.baudRate = DefaultBaudRate
	return m
}

// Open marks the transport open and records the baud rate
func (m *MockTransport) Open(baudRate int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.OpenErr != nil {
		return m.OpenErr
	}
	m.open = true
	m.closed = false
	m.baudRate = baudRate
	return nil
}

// Available returns the number of bytes waiting in the receive buffer
func (m *MockTransport) Available() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return 0, m.ReadErr
	}
	if !m.open {
		return 0, ErrNotOpen
	}
	return len(m.rx), nil
}

// ReadByte pops the next byte from the receive buffer
func (m *MockTransport) ReadByte() (byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return 0, m.ReadErr
	}
	if len(m.rx) == 0 {
		return 0, io.EOF
	}
	b := m.rx[0]
	m.rx = m.rx[1:]
	return b, nil
}

// Write records the bytes and, for a seek command, releases the next queued
// response into the receive buffer
func (m *MockTransport) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return 0, m.WriteErr
	}
	if !m.open {
		return 0, ErrNotOpen
	}
	m.writes = append(m.writes, append([]byte(nil), p...))
	if bytes.Equal(p, seekCommand) && len(m.responses) > 0 {
		m.rx = append(m.rx, m.responses[0]...)
		m.responses = m.responses[1:]
	}
	return len(p), nil
}

// Close marks the transport closed
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrTransportClosed
	}
	m.open = false
	m.closed = true
	return nil
}

// IsConnected returns true while the transport is open
func (m *MockTransport) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

// Type returns TransportMock
func (*MockTransport) Type() TransportType {
	return TransportMock
}

// QueueResponse queues bytes to be delivered after the next seek command. An
// empty response models a reader that stays silent for that poll.
func (m *MockTransport) QueueResponse(resp ...[]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var joined []byte
	for _, r := range resp {
		joined = append(joined, r...)
	}
	m.responses = append(m.responses, joined)
}

// Inject appends bytes to the receive buffer immediately
func (m *MockTransport) Inject(b ...byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rx = append(m.rx, b...)
}

// Writes returns a copy of every write made so far
func (m *MockTransport) Writes() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.writes))
	for i, w := range m.writes {
		out[i] = append([]byte(nil), w...)
	}
	return out
}

// BaudRate returns the baud rate passed to Open
func (m *MockTransport) BaudRate() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baudRate
}

// Pending returns the number of bytes still unread
func (m *MockTransport) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rx)
}

// FakeClock is a Clock whose Sleep advances virtual time instantly
type FakeClock struct {
	now   time.Time
	slept []time.Duration
	mu    sync.Mutex
}

// NewFakeClock creates a FakeClock starting at the given time
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the virtual time
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleep advances virtual time by d without blocking
func (c *FakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slept = append(c.slept, d)
	if d > 0 {
		c.now = c.now.Add(d)
	}
}

// Advance moves virtual time forward without recording a sleep
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Sleeps returns every duration passed to Sleep
func (c *FakeClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]time.Duration(nil), c.slept...)
}
