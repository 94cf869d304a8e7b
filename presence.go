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

// PresenceState is the tag presence state of a Device.
type PresenceState int

const (
	// PresenceAbsent means no tag was seen on the last poll.
	PresenceAbsent PresenceState = iota
	// PresenceNew means a tag appeared on the last poll. It lasts one poll.
	PresenceNew
	// PresenceHeld means the same tag has been present for two or more polls.
	PresenceHeld
)

func (s PresenceState) String() string {
	switch s {
	case PresenceAbsent:
		return "absent"
	case PresenceNew:
		return "new"
	case PresenceHeld:
		return "held"
	default:
		return "unknown"
	}
}

// nextPresence applies one poll's presence result to the current state.
func nextPresence(state PresenceState, present bool) PresenceState {
	if !present {
		return PresenceAbsent
	}
	if state == PresenceAbsent {
		return PresenceNew
	}
	return PresenceHeld
}
