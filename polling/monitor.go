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
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/go-sm130"
	"github.com/sirupsen/logrus"
)

// Monitor drives a Device at a steady cadence and reports presence changes
// through callbacks. It runs in the caller's goroutine and is not safe for
// concurrent use.
type Monitor struct {
	device *sm130.Device
	config *Config
	sleep  func(ctx context.Context, d time.Duration) error

	// OnCardDetected fires once per presentation. An error from the callback
	// is returned by PollOnce; Start logs it and keeps polling.
	OnCardDetected func(id sm130.TagID) error
	// OnCardRemoved fires once when a reported tag leaves the field.
	OnCardRemoved func(id sm130.TagID)
	// OnPollError receives transport errors that Start survives.
	OnPollError func(err error)

	state CardState
}

// NewMonitor creates a new card monitor
func NewMonitor(device *sm130.Device, config *Config) (*Monitor, error) {
	if device == nil {
		return nil, fmt.Errorf("%w: device is nil", sm130.ErrInvalidParameter)
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Monitor{
		device: device,
		config: config,
		sleep:  sleepContext,
	}, nil
}

// Start initialises the reader, halts it, then polls until ctx is done or
// the transport goes away. It returns ctx.Err() on cancellation.
func (m *Monitor) Start(ctx context.Context) error {
	if !m.config.SkipInit {
		if err := m.startup(ctx); err != nil {
			return err
		}
	}

	for {
		if err := m.PollOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if isFatal(err) {
				return err
			}
			m.handlePollingError(err)
		}

		if err := m.sleep(ctx, m.config.PollInterval); err != nil {
			return err
		}
	}
}

// startup mirrors the reader's boot sequence: init, short pause, HALT
func (m *Monitor) startup(ctx context.Context) error {
	if err := m.device.InitContext(ctx); err != nil {
		return fmt.Errorf("failed to initialise reader: %w", err)
	}
	if err := m.sleep(ctx, m.config.StartupDelay); err != nil {
		return err
	}
	if err := m.device.Halt(); err != nil {
		return fmt.Errorf("failed to halt reader: %w", err)
	}
	return nil
}

// PollOnce runs a single poll cycle and fires callbacks for any change
func (m *Monitor) PollOnce(ctx context.Context) error {
	if err := m.device.UpdateContext(ctx); err != nil {
		m.state.PollErrors++
		return fmt.Errorf("poll failed: %w", err)
	}

	switch m.device.State() {
	case sm130.PresenceNew:
		return m.handleNewCard(m.device.CurrentID())
	case sm130.PresenceHeld:
		if m.state.Present {
			m.state.LastSeenTime = m.device.Stats().LastPoll
		}
	case sm130.PresenceAbsent:
		m.handleCardRemoval()
	}
	return nil
}

func (m *Monitor) handleNewCard(id sm130.TagID) error {
	if m.config.RejectFirmwareErrors && id.IsFirmwareError() {
		m.state.Rejected++
		m.logger().Debugf("ignoring firmware error identifier %s", id)
		return nil
	}

	m.state.transitionToPresent(id, m.device.Stats().LastPoll)

	if m.OnCardDetected != nil {
		if err := m.OnCardDetected(id); err != nil {
			return fmt.Errorf("card detected callback failed: %w", err)
		}
	}
	return nil
}

func (m *Monitor) handleCardRemoval() {
	if !m.state.Present {
		return
	}
	id := m.state.LastID
	m.state.transitionToIdle()
	if m.OnCardRemoved != nil {
		m.OnCardRemoved(id)
	}
}

func (m *Monitor) handlePollingError(err error) {
	m.logger().WithError(err).Debug("polling error")
	if m.OnPollError != nil {
		m.OnPollError(err)
	}
}

// logger resolves the package logger on every call so SetLogger applies to
// running monitors
func (*Monitor) logger() *logrus.Entry {
	return sm130.Logger().WithField("component", "monitor")
}

// GetState returns the current card state
func (m *Monitor) GetState() CardState {
	return m.state
}

// GetDevice returns the underlying device
func (m *Monitor) GetDevice() *sm130.Device {
	return m.device
}

// Close closes the underlying device
func (m *Monitor) Close() error {
	if err := m.device.Close(); err != nil {
		return fmt.Errorf("failed to close device: %w", err)
	}
	return nil
}

// isFatal reports errors after which polling cannot make progress
func isFatal(err error) bool {
	return errors.Is(err, sm130.ErrTransportClosed) || errors.Is(err, sm130.ErrNotOpen)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
