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

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/ZaparooProject/go-sm130"
	"github.com/ZaparooProject/go-sm130/detection"
	"github.com/ZaparooProject/go-sm130/polling"
	"github.com/ZaparooProject/go-sm130/resetpin"
	"github.com/ZaparooProject/go-sm130/transport/uart"
	log "github.com/sirupsen/logrus"
)

// selectPort returns the configured port or the first detected one
func selectPort(ctx context.Context, cfg *Config) (string, error) {
	if cfg.Port != "" {
		return cfg.Port, nil
	}

	opts, err := cfg.detectionOptions()
	if err != nil {
		return "", err
	}
	devices, err := detection.DetectAllContext(ctx, &opts)
	if err != nil {
		if errors.Is(err, detection.ErrNoDevicesFound) {
			return "", errors.New("no reader found, pass --port")
		}
		return "", fmt.Errorf("auto-detection failed: %w", err)
	}
	if len(devices) > 1 {
		log.Warnf("%d candidate ports found, using %s", len(devices), devices[0].Path)
	}
	return devices[0].Path, nil
}

// newDevice builds a device from the configuration. The transport is opened
// by Init.
func newDevice(ctx context.Context, cfg *Config) (*sm130.Device, error) {
	dc, err := cfg.deviceConfig()
	if err != nil {
		return nil, err
	}

	if cfg.ResetPin != "" {
		line, err := resetpin.New(cfg.ResetPin, cfg.ResetPulse)
		if err != nil {
			return nil, fmt.Errorf("failed to set up reset pin: %w", err)
		}
		dc.ResetLine = line
	}

	path, err := selectPort(ctx, cfg)
	if err != nil {
		return nil, err
	}
	transport, err := uart.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create UART transport: %w", err)
	}

	device, err := sm130.New(transport, sm130.WithConfig(dc))
	if err != nil {
		return nil, err
	}
	log.Debugf("using reader on %s", path)
	return device, nil
}

func runWatch(ctx context.Context, cfg *Config, out *Output) error {
	device, err := newDevice(ctx, cfg)
	if err != nil {
		return err
	}

	monitor, err := polling.NewMonitor(device, cfg.monitorConfig())
	if err != nil {
		_ = device.Close()
		return err
	}
	defer func() {
		if err := monitor.Close(); err != nil {
			log.Debug(err)
		}
	}()

	monitor.OnCardDetected = func(id sm130.TagID) error {
		out.TagPresented(id)
		return nil
	}
	monitor.OnCardRemoved = out.TagRemoved
	monitor.OnPollError = func(err error) {
		log.Warn(err)
	}

	out.Watching(device.Transport())
	err = monitor.Start(ctx)
	state := monitor.GetState()
	out.Summary(device.Stats(), state.Detections, state.Rejected)
	return err
}

func runHalt(ctx context.Context, cfg *Config, out *Output) error {
	device, err := newDevice(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = device.Close() }()

	if err := device.InitContext(ctx); err != nil {
		return fmt.Errorf("failed to initialise reader: %w", err)
	}
	if err := device.Halt(); err != nil {
		return err
	}
	out.Halted()
	return nil
}

func runPorts(ctx context.Context, cfg *Config, out *Output) error {
	opts, err := cfg.detectionOptions()
	if err != nil {
		return err
	}
	devices, err := detection.DetectAllContext(ctx, &opts)
	if errors.Is(err, detection.ErrNoDevicesFound) {
		out.NoPorts()
		return nil
	}
	if err != nil {
		return err
	}
	out.Ports(devices)
	return nil
}
