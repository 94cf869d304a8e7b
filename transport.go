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

// Transport defines the byte-level channel between the host and an SM130
// reader. It is implemented by the UART backend and by MockTransport.
type Transport interface {
	// Open opens the channel at the given baud rate
	Open(baudRate int) error

	// Available returns the number of bytes that can be read without blocking
	Available() (int, error)

	// ReadByte reads the next buffered byte
	ReadByte() (byte, error)

	// Write writes raw bytes to the reader
	Write(p []byte) (int, error)

	// Close closes the transport connection
	Close() error

	// IsConnected returns true if the transport is open
	IsConnected() bool

	// Type returns the transport type
	Type() TransportType
}

// TransportType represents the type of transport
type TransportType string

const (
	// TransportUART represents UART/serial transport.
	TransportUART TransportType = "uart"
	// TransportMock represents a mock transport for testing
	TransportMock TransportType = "mock"
)

// ResetLine is a hardware reset control for the reader. Reset must leave the
// reader running when it returns.
type ResetLine interface {
	Reset() error
}
