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

// Package testing provides scripted SM130 responses for tests
package testing

import "github.com/ZaparooProject/go-sm130/internal/frame"

// Tag types reported in seek responses
const (
	TagTypeUltralight = 0x01
	TagTypeClassic1K  = 0x02
	TagTypeClassic4K  = 0x03
)

// BuildSeekTagFoundResponse creates the response sent when a seek finds a tag.
// The four UID bytes land at response indices 5..8.
func BuildSeekTagFoundResponse(tagType byte, uid [4]byte) []byte {
	return buildResponse(frame.CmdSeek, append([]byte{tagType}, uid[:]...)...)
}

// BuildSeekInProgressResponse creates the short "seek in progress" response.
func BuildSeekInProgressResponse() []byte {
	return buildResponse(frame.CmdSeek, frame.StatusSeekInProgress)
}

// BuildRFOffResponse creates the short "RF field off" response.
func BuildRFOffResponse() []byte {
	return buildResponse(frame.CmdSeek, frame.StatusRFOff)
}

// BuildNoTagResponse creates the short "no tag" response.
func BuildNoTagResponse() []byte {
	return buildResponse(frame.CmdSeek, frame.StatusNoTag)
}

// BuildHaltResponse creates the acknowledgement for a halt command.
func BuildHaltResponse() []byte {
	return buildResponse(frame.CmdHalt, frame.StatusSeekInProgress)
}

// BuildPayload creates a header followed by exactly the given payload bytes,
// without any checksum. Useful for placing arbitrary values at fixed indices.
func BuildPayload(payload ...byte) []byte {
	return append([]byte{frame.Header}, payload...)
}

// BuildStatusWithPresentTail creates a status response whose indices 6..10
// carry the present marker, as seen when a tag frame header trails a status
// response in the same read.
func BuildStatusWithPresentTail() []byte {
	status := BuildSeekInProgressResponse()
	return append(status, frame.PresentTail[:]...)
}

// buildResponse creates a response frame. The reader reports the tag UID in
// its own byte order; callers pass bytes exactly as they appear on the wire.
func buildResponse(cmd byte, data ...byte) []byte {
	return frame.BuildCommand(cmd, data...)
}

// Common UIDs for testing
var (
	// TestUID is a sample MIFARE Classic 1K UID
	TestUID = [4]byte{0xDE, 0x6D, 0xC0, 0x98}

	// TestUIDAlt is a second sample UID
	TestUIDAlt = [4]byte{0x12, 0x34, 0x56, 0x78}

	// ZeroUID is the all-zero pattern the reader emits on errors
	ZeroUID = [4]byte{0x00, 0x00, 0x00, 0x00}
)
