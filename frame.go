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

// Frame is the retained response buffer. Index 0 is never written by the
// parser; indices 1..10 hold the bytes that followed the most recent header.
type Frame [frame.ResponseSize]byte

// TruncatedFramePolicy selects what happens to frame positions that were not
// refilled because the stream ran dry after a header.
type TruncatedFramePolicy int

const (
	// KeepStale leaves unfilled positions holding the previous frame's bytes.
	KeepStale TruncatedFramePolicy = iota
	// ZeroFill clears unfilled positions to zero.
	ZeroFill
)

func (p TruncatedFramePolicy) String() string {
	switch p {
	case KeepStale:
		return "keep-stale"
	case ZeroFill:
		return "zero-fill"
	default:
		return fmt.Sprintf("TruncatedFramePolicy(%d)", int(p))
	}
}

// ParseTruncatedFramePolicy converts a policy name back to its value.
func ParseTruncatedFramePolicy(name string) (TruncatedFramePolicy, error) {
	switch name {
	case "keep-stale", "":
		return KeepStale, nil
	case "zero-fill":
		return ZeroFill, nil
	default:
		return KeepStale, fmt.Errorf("%w: unknown truncated frame policy %q", ErrInvalidParameter, name)
	}
}

// CardPresent reports whether the frame indicates a tag in the field.
//
// Any frame whose length byte is not the short status length counts as
// present. A status frame counts as present only when the tag frame header
// trails it at indices 6..10.
func (f Frame) CardPresent() bool {
	if f[frame.IndexLength] != frame.StatusLength {
		return true
	}
	for i, b := range frame.PresentTail {
		if f[frame.PresentTailStart+i] != b {
			return false
		}
	}
	return true
}

// TagID extracts the identifier from indices 8, 7, 6 and 5.
func (f Frame) TagID() TagID {
	return NewTagID(f[8], f[7], f[6], f[5])
}

// Command returns the command byte the frame answers.
func (f Frame) Command() byte {
	return f[frame.IndexCommand]
}

// TagType returns the tag type byte of a seek response. For short status
// frames this position holds the status code instead.
func (f Frame) TagType() byte {
	return f[frame.IndexTagType]
}

// ChecksumValid reports whether the frame's length byte describes a response
// that fits in the frame and whose trailing checksum matches. Stale bytes kept
// from an earlier poll usually fail this check. Presence detection does not
// use it.
func (f Frame) ChecksumValid() bool {
	if f[frame.IndexReserved] != frame.Reserved {
		return false
	}
	end := frame.IndexCommand + int(f[frame.IndexLength])
	if f[frame.IndexLength] == 0 || end >= frame.ResponseSize {
		return false
	}
	raw := make([]byte, 0, end+1)
	raw = append(raw, frame.Header)
	raw = append(raw, f[1:end+1]...)
	return frame.ValidateChecksum(raw)
}

// byteSource is the read side of a Transport.
type byteSource interface {
	Available() (int, error)
	ReadByte() (byte, error)
}

// parseResult summarises one parse pass.
type parseResult struct {
	frames    int
	truncated int
	discarded int
}

// parseFrames drains src into f. Each header starts a new frame that
// overwrites the previous one, so the last header in the stream wins.
func parseFrames(src byteSource, f *Frame, policy TruncatedFramePolicy) (parseResult, error) {
	var res parseResult
	for {
		n, err := src.Available()
		if err != nil {
			return res, err
		}
		if n == 0 {
			return res, nil
		}

		b, err := src.ReadByte()
		if err != nil {
			return res, err
		}
		if b != frame.Header {
			res.discarded++
			continue
		}

		res.frames++
		filled, err := readPayload(src, f)
		if err != nil {
			return res, err
		}
		if filled < frame.PayloadLength {
			res.truncated++
			if policy == ZeroFill {
				for i := filled + 1; i < frame.ResponseSize; i++ {
					f[i] = 0
				}
			}
		}
	}
}

// readPayload reads up to PayloadLength bytes into positions 1..10 and returns
// how many were read before the stream emptied.
func readPayload(src byteSource, f *Frame) (int, error) {
	for i := 1; i < frame.ResponseSize; i++ {
		n, err := src.Available()
		if err != nil {
			return i - 1, err
		}
		if n == 0 {
			return i - 1, nil
		}
		b, err := src.ReadByte()
		if err != nil {
			return i - 1, err
		}
		f[i] = b
	}
	return frame.PayloadLength, nil
}
