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

// Package transport provides internal transport utilities
package transport

import (
	"errors"
	"fmt"
	"time"
)

// ErrRetriesExhausted is returned when every attempt asked to be retried
var ErrRetriesExhausted = errors.New("retries exhausted")

// RetryOperation represents a function that can be retried
// Returns: data, shouldRetry, error
// - data: the result if successful
// - shouldRetry: true if the operation should be retried
// - error: the last failure; permanent when shouldRetry is false
type RetryOperation[T any] func() (T, bool, error)

// RetryConfig configures retry behavior
type RetryConfig struct {
	OnRetry     func(attempt int, err error)
	Sleep       func(time.Duration)
	Description string
	MaxRetries  int
	RetryDelay  time.Duration
}

// WithRetry executes an operation with retry logic. Only host-side setup
// goes through here; reader polls are never retried.
func WithRetry[T any](config RetryConfig, operation RetryOperation[T]) (T, error) {
	var zero T
	var lastErr error

	sleep := config.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		result, shouldRetry, err := operation()
		if !shouldRetry {
			return result, err
		}
		lastErr = err

		if attempt >= config.MaxRetries {
			break
		}
		if config.OnRetry != nil {
			config.OnRetry(attempt+1, err)
		}
		if config.RetryDelay > 0 {
			sleep(config.RetryDelay)
		}
	}

	if lastErr == nil {
		return zero, fmt.Errorf("%s: %w", config.Description, ErrRetriesExhausted)
	}
	return zero, fmt.Errorf("%s: %w: %w", config.Description, ErrRetriesExhausted, lastErr)
}
