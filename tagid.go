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
	"strconv"
	"strings"
)

// TagID is the 4-byte identifier the reader reports for a tag.
//
// TagID is a comparable value type. Bytes are held in the order the driver
// extracts them from a response frame (indices 8, 7, 6, 5).
type TagID struct {
	b [4]byte
}

// NewTagID creates a TagID from four bytes, most significant first.
func NewTagID(b0, b1, b2, b3 byte) TagID {
	return TagID{b: [4]byte{b0, b1, b2, b3}}
}

// Byte returns the byte at position i (0..3).
func (id TagID) Byte(i int) byte {
	return id.b[i]
}

// Bytes returns a copy of the four identifier bytes.
func (id TagID) Bytes() [4]byte {
	return id.b
}

// Equal reports whether both identifiers carry the same four bytes.
func (id TagID) Equal(other TagID) bool {
	return id.b == other.b
}

// String renders each byte as lowercase hex at its natural width, without
// separators or zero padding: (0x98, 0xC0, 0x0D, 0x0E) renders as "98c0de".
// Distinct identifiers can therefore share a rendering; compare with Equal.
func (id TagID) String() string {
	var sb strings.Builder
	sb.Grow(8)
	for _, v := range id.b {
		_, _ = sb.WriteString(strconv.FormatUint(uint64(v), 16))
	}
	return sb.String()
}

// IsFirmwareError reports whether the identifier is one of the patterns the
// reader emits on a failed read: all bytes 0x00 ("0000") or all bytes 0xFF.
//
// Device never applies this check. Callers that act on identifiers should.
func (id TagID) IsFirmwareError() bool {
	return id.b == [4]byte{} || id.b == [4]byte{0xFF, 0xFF, 0xFF, 0xFF}
}
