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

// Package uart provides UART transport implementation for SM130
package uart

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	sm130 "github.com/ZaparooProject/go-sm130"
	"github.com/ZaparooProject/go-sm130/internal/transport"
	"go.bug.st/serial"
)

const readChunk = 64

// Busy ports are retried; a USB adapter is often probed by other services
// right after it enumerates.
const (
	openRetries    = 3
	openRetryDelay = 200 * time.Millisecond
)

// Transport implements the sm130.Transport interface for serial communication.
//
// The serial port is read with a zero timeout so Available never blocks;
// bytes already on the line are moved into an internal buffer.
type Transport struct {
	port     serial.Port
	portName string
	pending  []byte
	mu       sync.Mutex
}

// New creates a new UART transport for the given port. The port is opened by
// Open, which sm130.Device.Init calls with the reader's baud rate.
func New(portName string) (*Transport, error) {
	if portName == "" {
		return nil, fmt.Errorf("%w: empty port name", sm130.ErrInvalidParameter)
	}
	return &Transport{portName: portName}, nil
}

// Mode returns the serial settings for the given baud rate: 8 data bits, no
// parity, one stop bit.
func Mode(baudRate int) *serial.Mode {
	return &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
}

// Open opens the serial port
func (t *Transport) Open(baudRate int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port != nil {
		return nil
	}

	port, err := transport.WithRetry(transport.RetryConfig{
		Description: "open " + t.portName,
		MaxRetries:  openRetries,
		RetryDelay:  openRetryDelay,
	}, func() (serial.Port, bool, error) {
		p, err := serial.Open(t.portName, Mode(baudRate))
		return p, isBusy(err), err
	})
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", t.portName, err)
	}

	if err := port.SetReadTimeout(0); err != nil {
		_ = port.Close()
		return fmt.Errorf("failed to set read timeout: %w", err)
	}

	// Drop anything left over from before the reader was ours
	_ = port.ResetInputBuffer()

	t.port = port
	t.pending = t.pending[:0]
	return nil
}

// codedError matches *serial.PortError and anything else carrying a port
// error code
type codedError interface {
	error
	Code() serial.PortErrorCode
}

func portErrorCode(err error) (serial.PortErrorCode, bool) {
	var ce codedError
	if errors.As(err, &ce) {
		return ce.Code(), true
	}
	return 0, false
}

func isBusy(err error) bool {
	code, ok := portErrorCode(err)
	return ok && code == serial.PortBusy
}

// Available returns the number of bytes readable without blocking
func (t *Transport) Available() (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return 0, sm130.ErrNotOpen
	}
	if err := t.fill(); err != nil {
		return len(t.pending), err
	}
	return len(t.pending), nil
}

// fill moves whatever the port has buffered into pending. Callers hold mu.
func (t *Transport) fill() error {
	var buf [readChunk]byte
	for {
		n, err := t.port.Read(buf[:])
		if err != nil {
			return t.mapError(err)
		}
		if n == 0 {
			return nil
		}
		t.pending = append(t.pending, buf[:n]...)
		if n < readChunk {
			return nil
		}
	}
}

// ReadByte returns the next buffered byte
func (t *Transport) ReadByte() (byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return 0, sm130.ErrNotOpen
	}
	if len(t.pending) == 0 {
		if err := t.fill(); err != nil {
			return 0, err
		}
		if len(t.pending) == 0 {
			return 0, io.EOF
		}
	}

	b := t.pending[0]
	t.pending = t.pending[1:]
	return b, nil
}

// Write writes raw bytes and waits until they have left the host
func (t *Transport) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return 0, sm130.ErrNotOpen
	}

	n, err := t.port.Write(p)
	if err != nil {
		return n, t.mapError(err)
	}
	if err := t.port.Drain(); err != nil {
		return n, t.mapError(err)
	}
	return n, nil
}

// mapError converts serial port errors into sm130 errors where one applies
func (*Transport) mapError(err error) error {
	if code, ok := portErrorCode(err); ok && code == serial.PortClosed {
		return fmt.Errorf("%w: %w", sm130.ErrTransportClosed, err)
	}
	return err
}

// Close closes the serial port
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.port == nil {
		return nil
	}
	err := t.port.Close()
	t.port = nil
	t.pending = nil
	if err != nil {
		return fmt.Errorf("failed to close serial port: %w", err)
	}
	return nil
}

// IsConnected returns true if the serial port is open
func (t *Transport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.port != nil
}

// Type returns the transport type
func (*Transport) Type() sm130.TransportType {
	return sm130.TransportUART
}

// PortName returns the serial port path
func (t *Transport) PortName() string {
	return t.portName
}
