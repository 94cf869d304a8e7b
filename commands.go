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
	"fmt"

	"github.com/ZaparooProject/go-sm130/internal/frame"
)

var (
	seekCommand = frame.BuildCommand(frame.CmdSeek)
	haltCommand = frame.BuildCommand(frame.CmdHalt)
)

// SeekCommand returns the encoded seek-for-tag command (FF 00 01 82 83).
func SeekCommand() []byte {
	return append([]byte(nil), seekCommand...)
}

// HaltCommand returns the encoded halt-tag command (FF 00 01 93 94).
func HaltCommand() []byte {
	return append([]byte(nil), haltCommand...)
}

// writeCommand writes an encoded command verbatim. No response is awaited.
func (d *Device) writeCommand(op string, cmd []byte) error {
	if !d.transport.IsConnected() {
		return NewTransportError(op, string(d.transport.Type()), ErrNotOpen)
	}
	n, err := d.transport.Write(cmd)
	if err != nil {
		return NewTransportError(op, string(d.transport.Type()), err)
	}
	if n != len(cmd) {
		return NewTransportError(op, string(d.transport.Type()), fmt.Errorf("%w: wrote %d of %d bytes", ErrShortWrite, n, len(cmd)))
	}
	debugf("%s: sent % X", op, cmd)
	return nil
}

// seek asks the reader to search for a tag and waits for it to settle.
func (d *Device) seek() error {
	if err := d.writeCommand("seek", seekCommand); err != nil {
		return err
	}
	d.config.Clock.Sleep(d.config.SettleDelay)
	return nil
}
