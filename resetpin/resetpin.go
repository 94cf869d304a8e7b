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

// Package resetpin drives the SM130 active-low RESET line from a host GPIO
package resetpin

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// DefaultPulse is how long RESET is held low.
const DefaultPulse = 10 * time.Millisecond

var (
	ErrEmptyPinName = errors.New("empty pin name")
	ErrPinNotFound  = errors.New("gpio pin not found")
)

// outputPin is the part of gpio.PinIO the reset line uses
type outputPin interface {
	Out(l gpio.Level) error
	Name() string
}

// Line is a reset line bound to one GPIO pin. It implements sm130.ResetLine.
type Line struct {
	pin   outputPin
	sleep func(time.Duration)
	pulse time.Duration
}

// New initialises the periph host drivers and binds the named pin, e.g.
// "GPIO17". The line is driven high (reader running) before returning.
func New(pinName string, pulse time.Duration) (*Line, error) {
	if pinName == "" {
		return nil, ErrEmptyPinName
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("%w: %s", ErrPinNotFound, pinName)
	}

	return newLine(pin, pulse)
}

func newLine(pin outputPin, pulse time.Duration) (*Line, error) {
	if pulse <= 0 {
		pulse = DefaultPulse
	}
	line := &Line{pin: pin, pulse: pulse, sleep: time.Sleep}
	if err := pin.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("failed to drive %s high: %w", pin.Name(), err)
	}
	return line, nil
}

// Reset pulses the line low for the configured duration, then releases it
func (l *Line) Reset() error {
	if err := l.pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("failed to assert reset on %s: %w", l.pin.Name(), err)
	}
	l.sleep(l.pulse)
	if err := l.pin.Out(gpio.High); err != nil {
		return fmt.Errorf("failed to release reset on %s: %w", l.pin.Name(), err)
	}
	return nil
}

// Pin returns the bound pin name
func (l *Line) Pin() string {
	return l.pin.Name()
}
