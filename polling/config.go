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
	"fmt"
	"time"

	"github.com/ZaparooProject/go-sm130"
)

// DefaultStartupDelay is the pause between reader initialisation and the
// first HALT.
const DefaultStartupDelay = 10 * time.Millisecond

// Config holds monitor settings
type Config struct {
	// PollInterval is the wait between poll cycles. The reader needs at
	// least sm130.MinPollInterval between seeks.
	PollInterval time.Duration
	// StartupDelay is the pause between Init and the HALT sent by Start.
	StartupDelay time.Duration
	// RejectFirmwareErrors drops tags whose identifier is an all-zero or
	// all-0xFF firmware error pattern.
	RejectFirmwareErrors bool
	// SkipInit makes Start go straight to polling.
	SkipInit bool
}

// DefaultConfig returns the default monitor settings
func DefaultConfig() *Config {
	return &Config{
		PollInterval:         sm130.MinPollInterval,
		StartupDelay:         DefaultStartupDelay,
		RejectFirmwareErrors: true,
	}
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.PollInterval < sm130.MinPollInterval {
		return fmt.Errorf("%w: poll interval %v is below %v",
			sm130.ErrInvalidParameter, c.PollInterval, sm130.MinPollInterval)
	}
	if c.StartupDelay < 0 {
		return fmt.Errorf("%w: startup delay must not be negative", sm130.ErrInvalidParameter)
	}
	return nil
}
