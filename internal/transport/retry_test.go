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

package transport

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry(t *testing.T) {
	t.Parallel()

	t.Run("SucceedsFirstTime", func(t *testing.T) {
		t.Parallel()
		calls := 0
		got, err := WithRetry(RetryConfig{MaxRetries: 3}, func() (int, bool, error) {
			calls++
			return 42, false, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, got)
		assert.Equal(t, 1, calls)
	})

	t.Run("PermanentErrorStops", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("no such port")
		calls := 0
		_, err := WithRetry(RetryConfig{MaxRetries: 3}, func() (int, bool, error) {
			calls++
			return 0, false, boom
		})
		require.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("RetriesThenSucceeds", func(t *testing.T) {
		t.Parallel()
		busy := errors.New("busy")
		var slept []time.Duration
		var retried []int
		calls := 0
		config := RetryConfig{
			MaxRetries: 3,
			RetryDelay: 50 * time.Millisecond,
			Sleep:      func(d time.Duration) { slept = append(slept, d) },
			OnRetry:    func(attempt int, _ error) { retried = append(retried, attempt) },
		}
		got, err := WithRetry(config, func() (string, bool, error) {
			calls++
			if calls < 3 {
				return "", true, busy
			}
			return "open", false, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "open", got)
		assert.Equal(t, []time.Duration{50 * time.Millisecond, 50 * time.Millisecond}, slept)
		assert.Equal(t, []int{1, 2}, retried)
	})

	t.Run("Exhausted", func(t *testing.T) {
		t.Parallel()
		busy := errors.New("busy")
		calls := 0
		config := RetryConfig{
			Description: "open /dev/ttyUSB0",
			MaxRetries:  2,
			RetryDelay:  time.Millisecond,
			Sleep:       func(time.Duration) {},
		}
		_, err := WithRetry(config, func() (int, bool, error) {
			calls++
			return 0, true, busy
		})
		require.ErrorIs(t, err, ErrRetriesExhausted)
		require.ErrorIs(t, err, busy)
		assert.Contains(t, err.Error(), "open /dev/ttyUSB0")
		assert.Equal(t, 3, calls)
	})
}
