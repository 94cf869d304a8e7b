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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextPresence(t *testing.T) {
	t.Parallel()
	tests := []struct {
		state   PresenceState
		want    PresenceState
		present bool
	}{
		{state: PresenceAbsent, present: true, want: PresenceNew},
		{state: PresenceAbsent, present: false, want: PresenceAbsent},
		{state: PresenceNew, present: true, want: PresenceHeld},
		{state: PresenceNew, present: false, want: PresenceAbsent},
		{state: PresenceHeld, present: true, want: PresenceHeld},
		{state: PresenceHeld, present: false, want: PresenceAbsent},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, nextPresence(tt.state, tt.present),
			"%s with present=%v", tt.state, tt.present)
	}
}

func TestPresenceState_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "absent", PresenceAbsent.String())
	assert.Equal(t, "new", PresenceNew.String())
	assert.Equal(t, "held", PresenceHeld.String())
	assert.Equal(t, "unknown", PresenceState(7).String())
}
