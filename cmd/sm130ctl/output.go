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
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ZaparooProject/go-sm130"
	"github.com/ZaparooProject/go-sm130/detection"
)

// Output handles consistent formatting of messages
type Output struct {
	w io.Writer
}

// NewOutput creates a new output handler
func NewOutput(w io.Writer) *Output {
	return &Output{w: w}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

// Watching prints the banner shown when polling starts
func (o *Output) Watching(t sm130.Transport) {
	if p, ok := t.(interface{ PortName() string }); ok {
		o.printf("Watching for tags on %s (Ctrl+C to stop)\n", p.PortName())
		return
	}
	o.printf("Watching for tags (Ctrl+C to stop)\n")
}

// TagPresented prints a new presentation
func (o *Output) TagPresented(id sm130.TagID) {
	o.printf("TAG: %s presented\n", id)
}

// TagRemoved prints a removal
func (o *Output) TagRemoved(id sm130.TagID) {
	o.printf("TAG: %s removed\n", id)
}

// Halted confirms a HALT was sent
func (o *Output) Halted() {
	o.printf("HALT sent\n")
}

// Summary prints counters after watching stops
func (o *Output) Summary(stats sm130.Stats, detections, rejected int) {
	o.printf("\n%d polls, %d tags presented, %d firmware error IDs ignored, %d truncated frames\n",
		stats.Polls, detections, rejected, stats.TruncatedFrames)
}

// NoPorts reports an empty detection result
func (o *Output) NoPorts() {
	o.printf("No candidate serial ports found\n")
}

// Ports lists detected ports with their metadata
func (o *Output) Ports(devices []detection.DeviceInfo) {
	for _, d := range devices {
		o.printf("%s\t%s", d.Path, d.Transport)
		if len(d.Metadata) > 0 {
			keys := make([]string, 0, len(d.Metadata))
			for k := range d.Metadata {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			pairs := make([]string, 0, len(keys))
			for _, k := range keys {
				pairs = append(pairs, k+"="+d.Metadata[k])
			}
			o.printf("\t%s", strings.Join(pairs, " "))
		}
		o.printf("\n")
	}
}
