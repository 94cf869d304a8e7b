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

// Package frame provides frame manipulation and protocol constants for SM130 communication
package frame

// Frame markers
const (
	Header   = 0xFF // Sentinel byte that starts every command and response
	Reserved = 0x00 // Always zero on the wire
)

// Command codes
const (
	CmdSeek = 0x82 // Seek for tag
	CmdHalt = 0x93 // Halt tag
)

// Response frame layout. Index 0 of a response buffer is never written by the
// parser; indices 1..PayloadLength hold the bytes that followed the header.
const (
	ResponseSize  = 11
	PayloadLength = ResponseSize - 1

	IndexReserved = 1
	IndexLength   = 2
	IndexCommand  = 3
	IndexTagType  = 4
)

// StatusLength is the length byte reported by short status responses such as
// "seek in progress" (0x4C) or "RF field off" (0x55).
const StatusLength = 0x02

// Status codes carried in short responses
const (
	StatusSeekInProgress = 0x4C // 'L'
	StatusRFOff          = 0x55 // 'U'
	StatusNoTag          = 0x4E // 'N'
)

// PresentTail is the byte run at indices 6..10 that marks a tag as present when
// a status response is immediately followed by the header of a tag frame.
var PresentTail = [5]byte{Header, Reserved, 0x06, CmdSeek, 0x02}

// PresentTailStart is the response index where PresentTail begins.
const PresentTailStart = 6
