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

// Package detection finds serial ports that may host an SM130 reader
package detection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Mode controls how much a detector may do to confirm a candidate
type Mode int

const (
	// Passive only lists ports reported by the operating system.
	Passive Mode = iota
	// Safe additionally checks that the device node exists and is usable,
	// without sending anything to it.
	Safe
)

var (
	ErrNoDevicesFound      = errors.New("no devices found")
	ErrUnsupportedPlatform = errors.New("detection not supported on this platform")
)

// DeviceInfo describes a detected candidate port
type DeviceInfo struct {
	Metadata  map[string]string
	Path      string
	Transport string
	Name      string
}

// Options configures detection
type Options struct {
	Blocklist   []string
	IgnorePaths []string
	Mode        Mode
	USBOnly     bool
}

// DefaultOptions returns passive, USB-only detection with the default blocklist
func DefaultOptions() Options {
	return Options{
		Mode:      Passive,
		USBOnly:   true,
		Blocklist: DefaultBlocklist(),
	}
}

// Detector finds devices for one transport type
type Detector interface {
	Transport() string
	Detect(ctx context.Context, opts *Options) ([]DeviceInfo, error)
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Detector{}
)

// RegisterDetector makes a detector available to DetectAll. Registering the
// same transport twice replaces the earlier detector.
func RegisterDetector(d Detector) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[d.Transport()] = d
}

// Detectors returns the registered detectors ordered by transport name
func Detectors() []Detector {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Detector, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Transport() < out[j].Transport() })
	return out
}

// DetectAll runs every registered detector
func DetectAll(opts *Options) ([]DeviceInfo, error) {
	return DetectAllContext(context.Background(), opts)
}

// DetectAllContext runs every registered detector and drops ignored paths.
// Platform gaps in individual detectors are skipped.
func DetectAllContext(ctx context.Context, opts *Options) ([]DeviceInfo, error) {
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}

	var all []DeviceInfo
	for _, d := range Detectors() {
		devices, err := d.Detect(ctx, opts)
		if err != nil {
			if errors.Is(err, ErrUnsupportedPlatform) {
				continue
			}
			return nil, fmt.Errorf("%s detection failed: %w", d.Transport(), err)
		}
		for _, dev := range devices {
			if IsPathIgnored(dev.Path, opts.IgnorePaths) {
				continue
			}
			all = append(all, dev)
		}
	}

	if len(all) == 0 {
		return nil, ErrNoDevicesFound
	}
	return all, nil
}
