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

package frame

// CalculateChecksum returns the 8-bit sum of data. SM130 checksums cover every
// byte after the header: reserved, length, command and payload.
func CalculateChecksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return sum
}

// BuildCommand encodes an SM130 command frame:
// header, reserved, length, command, data..., checksum.
func BuildCommand(cmd byte, data ...byte) []byte {
	body := make([]byte, 0, 3+len(data))
	body = append(body, Reserved, byte(len(data)+1), cmd)
	body = append(body, data...)

	out := make([]byte, 0, len(body)+2)
	out = append(out, Header)
	out = append(out, body...)
	return append(out, CalculateChecksum(body))
}

// ValidateChecksum reports whether a complete frame (header included) carries
// a correct trailing checksum.
func ValidateChecksum(f []byte) bool {
	if len(f) < 5 || f[0] != Header {
		return false
	}
	return CalculateChecksum(f[1:len(f)-1]) == f[len(f)-1]
}
