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

// Package uart finds USB serial adapters that may host an SM130 reader
package uart

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ZaparooProject/go-sm130/detection"
	"go.bug.st/serial/enumerator"
)

// TransportName is the transport label reported in DeviceInfo
const TransportName = "uart"

// Metadata keys set on detected devices
const (
	MetaVIDPID  = "vidpid"
	MetaSerial  = "serial"
	MetaAdapter = "adapter"
)

// knownAdapters maps USB-UART bridge chips commonly wired to the SM130
var knownAdapters = map[string]string{
	"0403:6001": "FTDI FT232R",
	"0403:6015": "FTDI FT231X",
	"10C4:EA60": "Silicon Labs CP210x",
	"1A86:7523": "WCH CH340",
	"067B:2303": "Prolific PL2303",
}

// listPorts is swapped in tests
var listPorts = enumerator.GetDetailedPortsList

// statPath is swapped in tests
var statPath = isCharDevice

type detector struct{}

func init() {
	detection.RegisterDetector(&detector{})
}

func (*detector) Transport() string {
	return TransportName
}

func (*detector) Detect(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ports, err := listPorts()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	devices := make([]detection.DeviceInfo, 0, len(ports))
	for _, p := range ports {
		if p == nil || p.Name == "" {
			continue
		}
		if opts.USBOnly && !p.IsUSB {
			continue
		}

		vidpid := detection.FormatVIDPID(p.VID, p.PID)
		if detection.IsBlocked(vidpid, opts.Blocklist) {
			continue
		}
		if detection.IsPathIgnored(p.Name, opts.IgnorePaths) {
			continue
		}
		if opts.Mode == detection.Safe && !statPath(p.Name) {
			continue
		}

		devices = append(devices, describe(p, vidpid))
	}
	return devices, nil
}

func describe(p *enumerator.PortDetails, vidpid string) detection.DeviceInfo {
	info := detection.DeviceInfo{
		Path:      p.Name,
		Transport: TransportName,
		Name:      filepath.Base(p.Name),
		Metadata:  map[string]string{},
	}
	if vidpid != "" {
		info.Metadata[MetaVIDPID] = vidpid
		if adapter, ok := knownAdapters[vidpid]; ok {
			info.Metadata[MetaAdapter] = adapter
		}
	}
	if p.SerialNumber != "" {
		info.Metadata[MetaSerial] = p.SerialNumber
	}
	return info
}
