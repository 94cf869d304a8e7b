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
	"time"
)

// Reader timing and line defaults
const (
	// DefaultBaudRate is the SM130 UART speed.
	DefaultBaudRate = 19200
	// DefaultSettleDelay is the reader's scan latency after a seek command.
	DefaultSettleDelay = 10 * time.Millisecond
	// DefaultParseDelay is the extra wait before the response buffer is read.
	DefaultParseDelay = 10 * time.Millisecond
	// DefaultResetDelay is the boot time allowed after a hardware reset.
	DefaultResetDelay = 50 * time.Millisecond
	// MinPollInterval is the shortest pause between two Update calls that
	// still lets the reader produce a fresh response.
	MinPollInterval = 100 * time.Millisecond
)

// DeviceConfig contains configuration options for the Device
type DeviceConfig struct {
	// Clock drives the fixed delays of the poll cycle
	Clock Clock
	// ResetLine is pulsed by Init when set
	ResetLine ResetLine
	// BaudRate is passed to Transport.Open
	BaudRate int
	// SettleDelay is waited after every seek command
	SettleDelay time.Duration
	// ParseDelay is waited after the settle delay, before parsing
	ParseDelay time.Duration
	// ResetDelay is waited after pulsing ResetLine
	ResetDelay time.Duration
	// TruncatedPolicy decides what fills frame positions a short read left empty
	TruncatedPolicy TruncatedFramePolicy
}

// DefaultDeviceConfig returns default device configuration
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		Clock:           NewRealClock(),
		BaudRate:        DefaultBaudRate,
		SettleDelay:     DefaultSettleDelay,
		ParseDelay:      DefaultParseDelay,
		ResetDelay:      DefaultResetDelay,
		TruncatedPolicy: KeepStale,
	}
}

// Validate checks the configuration for values the reader cannot work with.
func (c *DeviceConfig) Validate() error {
	if c.Clock == nil {
		return fmt.Errorf("%w: clock is required", ErrInvalidParameter)
	}
	if c.BaudRate <= 0 {
		return fmt.Errorf("%w: baud rate must be positive, got %d", ErrInvalidParameter, c.BaudRate)
	}
	if c.SettleDelay <= 0 {
		return fmt.Errorf("%w: settle delay must be positive, got %s", ErrInvalidParameter, c.SettleDelay)
	}
	if c.ParseDelay < 0 || c.ResetDelay < 0 {
		return fmt.Errorf("%w: delays cannot be negative", ErrInvalidParameter)
	}
	if c.TruncatedPolicy != KeepStale && c.TruncatedPolicy != ZeroFill {
		return fmt.Errorf("%w: unknown truncated frame policy %d", ErrInvalidParameter, c.TruncatedPolicy)
	}
	return nil
}

// Option is a functional option for configuring a Device
type Option func(*Device) error

// WithClock sets the clock used for the poll cycle delays
func WithClock(clock Clock) Option {
	return func(d *Device) error {
		if clock == nil {
			return fmt.Errorf("%w: nil clock", ErrInvalidParameter)
		}
		d.config.Clock = clock
		return nil
	}
}

// WithBaudRate sets the serial speed used by Init
func WithBaudRate(baudRate int) Option {
	return func(d *Device) error {
		d.config.BaudRate = baudRate
		return nil
	}
}

// WithSettleDelay sets the wait after each seek command
func WithSettleDelay(delay time.Duration) Option {
	return func(d *Device) error {
		d.config.SettleDelay = delay
		return nil
	}
}

// WithParseDelay sets the wait between the settle delay and parsing
func WithParseDelay(delay time.Duration) Option {
	return func(d *Device) error {
		d.config.ParseDelay = delay
		return nil
	}
}

// WithTruncatedFramePolicy sets how short reads fill the response frame
func WithTruncatedFramePolicy(policy TruncatedFramePolicy) Option {
	return func(d *Device) error {
		d.config.TruncatedPolicy = policy
		return nil
	}
}

// WithResetLine sets a hardware reset line pulsed during Init, and the boot
// time to wait afterwards
func WithResetLine(line ResetLine, bootDelay time.Duration) Option {
	return func(d *Device) error {
		d.config.ResetLine = line
		d.config.ResetDelay = bootDelay
		return nil
	}
}

// WithConfig replaces the whole configuration. Later options still apply.
func WithConfig(config *DeviceConfig) Option {
	return func(d *Device) error {
		if config == nil {
			return fmt.Errorf("%w: nil config", ErrInvalidParameter)
		}
		cfg := *config
		if cfg.Clock == nil {
			cfg.Clock = NewRealClock()
		}
		d.config = &cfg
		return nil
	}
}
