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
	"context"
	"errors"
	"fmt"
	"time"
)

// Stats holds diagnostic counters for a Device. They play no part in presence
// detection.
type Stats struct {
	LastPoll        time.Time
	Polls           uint64
	Frames          uint64
	TruncatedFrames uint64
	DiscardedBytes  uint64
	BadChecksums    uint64
	TagsPresented   uint64
}

// Device represents an SM130 RFID reader driven by polling.
//
// Each Update runs one poll cycle: seek, settle, parse the response frame and
// advance the presence state machine. Observers (HasCardPresent, HasNewCard,
// CurrentID, State) only read the result of the last cycle.
//
// Thread Safety: Device is NOT thread-safe. All methods must be called from
// a single goroutine or protected with external synchronization. A caller
// that skips a poll may miss the single-poll PresenceNew signal.
type Device struct {
	transport Transport
	config    *DeviceConfig
	stats     Stats
	frame     Frame
	currentID TagID
	state     PresenceState
}

// New creates a new SM130 device with the given transport
func New(transport Transport, opts ...Option) (*Device, error) {
	if transport == nil {
		return nil, fmt.Errorf("%w: nil transport", ErrInvalidParameter)
	}

	device := &Device{
		transport: transport,
		config:    DefaultDeviceConfig(),
		state:     PresenceAbsent,
	}

	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}

	if err := device.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid device config: %w", err)
	}

	return device, nil
}

// Transport returns the underlying transport
func (d *Device) Transport() Transport {
	return d.transport
}

// Config returns a copy of the device configuration
func (d *Device) Config() DeviceConfig {
	return *d.config
}

// Init opens the transport at the configured baud rate
func (d *Device) Init() error {
	return d.InitContext(context.Background())
}

// InitContext opens the transport and, when a reset line is configured,
// pulses it and waits for the reader to boot
func (d *Device) InitContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("init cancelled: %w", err)
	}

	if !d.transport.IsConnected() {
		if err := d.transport.Open(d.config.BaudRate); err != nil {
			return NewTransportError("open", string(d.transport.Type()), err)
		}
	}
	debugf("transport %s open at %d baud", d.transport.Type(), d.config.BaudRate)

	if d.config.ResetLine != nil {
		if err := d.config.ResetLine.Reset(); err != nil {
			return fmt.Errorf("failed to reset reader: %w", err)
		}
		d.config.Clock.Sleep(d.config.ResetDelay)
		debugln("reader reset")
	}

	return nil
}

// Halt sends the halt command, stopping any pending tag operation
func (d *Device) Halt() error {
	return d.writeCommand("halt", haltCommand)
}

// Update runs one poll cycle. It blocks for the settle and parse delays.
func (d *Device) Update() error {
	return d.UpdateContext(context.Background())
}

// UpdateContext runs one poll cycle. The context is only checked before the
// cycle starts; a started cycle always runs to completion.
//
// An error is returned only when the transport fails. The presence state is
// left unchanged in that case. Noise, truncated frames and firmware error
// identifiers are not errors.
func (d *Device) UpdateContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("update cancelled: %w", err)
	}

	if err := d.seek(); err != nil {
		return err
	}
	d.config.Clock.Sleep(d.config.ParseDelay)

	res, err := parseFrames(d.transport, &d.frame, d.config.TruncatedPolicy)
	d.stats.Frames += uint64(res.frames)
	d.stats.TruncatedFrames += uint64(res.truncated)
	d.stats.DiscardedBytes += uint64(res.discarded)
	if err != nil {
		return NewTransportError("read", string(d.transport.Type()), err)
	}

	if res.frames > 0 && !d.frame.ChecksumValid() {
		d.stats.BadChecksums++
		debugf("checksum mismatch in frame % X", d.frame[1:])
	}

	d.stats.Polls++
	d.stats.LastPoll = d.config.Clock.Now()
	d.advance(d.frame.CardPresent())
	return nil
}

// advance applies the presence result of the current frame
func (d *Device) advance(present bool) {
	prev := d.state
	d.state = nextPresence(prev, present)

	switch {
	case prev == PresenceAbsent && d.state == PresenceNew:
		d.currentID = d.frame.TagID()
		d.stats.TagsPresented++
		debugf("tag presented: %s", d.currentID)
	case prev != PresenceAbsent && d.state == PresenceAbsent:
		debugf("tag removed: %s", d.currentID)
	}
}

// HasCardPresent returns true while a tag is in the field (new or held)
func (d *Device) HasCardPresent() bool {
	return d.state != PresenceAbsent
}

// HasNewCard returns true only on the poll where a tag first appeared
func (d *Device) HasNewCard() bool {
	return d.state == PresenceNew
}

// State returns the presence state after the last poll
func (d *Device) State() PresenceState {
	return d.state
}

// CurrentID returns the identifier captured when the current tag appeared.
// The value is stale when no tag is present and may be a firmware error
// pattern; see TagID.IsFirmwareError.
func (d *Device) CurrentID() TagID {
	return d.currentID
}

// LastFrame returns a copy of the retained response frame
func (d *Device) LastFrame() Frame {
	return d.frame
}

// Stats returns the diagnostic counters
func (d *Device) Stats() Stats {
	return d.stats
}

// Close closes the device connection
func (d *Device) Close() error {
	if d.transport == nil {
		return nil
	}
	if err := d.transport.Close(); err != nil && !errors.Is(err, ErrTransportClosed) {
		return fmt.Errorf("failed to close transport: %w", err)
	}
	return nil
}
