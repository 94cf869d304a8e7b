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

package polling

import (
	"time"

	"github.com/ZaparooProject/go-sm130"
)

// CardState tracks what the monitor has reported for the reader
type CardState struct {
	LastSeenTime time.Time
	LastID       sm130.TagID
	Detections   int
	Rejected     int
	PollErrors   int
	Present      bool
}

// transitionToPresent records a newly reported tag
func (cs *CardState) transitionToPresent(id sm130.TagID, seen time.Time) {
	cs.Present = true
	cs.LastID = id
	cs.LastSeenTime = seen
	cs.Detections++
}

// transitionToIdle clears presence but keeps the last identifier and counters
func (cs *CardState) transitionToIdle() {
	cs.Present = false
}
