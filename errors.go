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
	"errors"
	"fmt"
)

// Device errors
var (
	ErrNotOpen          = errors.New("transport not open")
	ErrTransportClosed  = errors.New("transport closed")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrShortWrite       = errors.New("short write")
)

// TransportError describes a failure of the underlying byte channel. Protocol
// anomalies (noise, truncated frames, error identifiers) never produce one.
type TransportError struct {
	Err  error
	Op   string
	Port string
}

// NewTransportError creates a TransportError for the given operation.
func NewTransportError(op, port string, err error) *TransportError {
	return &TransportError{Op: op, Port: port, Err: err}
}

func (e *TransportError) Error() string {
	if e.Port != "" {
		return fmt.Sprintf("%s on %s: %v", e.Op, e.Port, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err wraps a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
