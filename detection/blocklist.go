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

package detection

import (
	"path/filepath"
	"strings"
)

// DefaultBlocklist returns USB devices that enumerate as serial ports but are
// never an SM130 bridge.
// Format: VID:PID in hexadecimal (case-insensitive).
func DefaultBlocklist() []string {
	return []string{
		"2341:0043", // Arduino Uno R3 (native CDC, would reset on open)
		"2341:0042", // Arduino Mega 2560 R3
		"1D50:6015", // Smoothieboard
	}
}

// FormatVIDPID joins vendor and product IDs into the canonical VID:PID form.
func FormatVIDPID(vid, pid string) string {
	vid = strings.ToUpper(strings.TrimSpace(vid))
	pid = strings.ToUpper(strings.TrimSpace(pid))
	if vid == "" || pid == "" {
		return ""
	}
	return padHex(vid) + ":" + padHex(pid)
}

// padHex left-pads a hex ID to four digits.
func padHex(s string) string {
	if len(s) >= 4 {
		return s
	}
	return strings.Repeat("0", 4-len(s)) + s
}

// IsBlocked checks if a USB device is in the blocklist.
func IsBlocked(vidpid string, blocklist []string) bool {
	vidpid = strings.ToUpper(strings.TrimSpace(vidpid))
	if vidpid == "" {
		return false
	}

	for _, blocked := range blocklist {
		if strings.ToUpper(strings.TrimSpace(blocked)) == vidpid {
			return true
		}
	}
	return false
}

// ParseVIDPID extracts VID:PID from the descriptor formats users paste into
// configuration: "VID:1234 PID:5678", "vid=1234 pid=5678" or "1234:5678".
func ParseVIDPID(descriptor string) string {
	descriptor = strings.ToUpper(strings.TrimSpace(descriptor))

	vid := hexAfter(descriptor, "VID:", "VID=", "VENDOR=")
	pid := hexAfter(descriptor, "PID:", "PID=", "PRODUCT=")
	if vid != "" && pid != "" {
		return FormatVIDPID(vid, pid)
	}

	parts := strings.Split(descriptor, ":")
	if len(parts) == 2 && isHex(parts[0]) && isHex(parts[1]) {
		return FormatVIDPID(parts[0], parts[1])
	}
	return ""
}

// hexAfter returns the hex digits following the first marker found.
func hexAfter(s string, markers ...string) string {
	for _, m := range markers {
		if idx := strings.Index(s, m); idx >= 0 {
			return extractHex(s[idx+len(m):])
		}
	}
	return ""
}

// extractHex extracts the first sequence of hex digits from an uppercase string.
func extractHex(s string) string {
	s = strings.TrimLeft(s, " ")
	end := 0
	for end < len(s) && isHexDigit(rune(s[end])) {
		end++
	}
	return s[:end]
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'A' && r <= 'F') || (r >= 'a' && r <= 'f')
}

// isHex checks if a string contains only hexadecimal characters.
func isHex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isHexDigit(r) {
			return false
		}
	}
	return true
}

// IsPathIgnored checks if a device path should be ignored.
// Paths are compared after cleaning and case folding.
func IsPathIgnored(devicePath string, ignorePaths []string) bool {
	if devicePath == "" || len(ignorePaths) == 0 {
		return false
	}

	normalizedDevice := normalizedPath(devicePath)
	for _, ignorePath := range ignorePaths {
		if ignorePath == "" {
			continue
		}
		if devicePath == ignorePath || normalizedDevice == normalizedPath(ignorePath) {
			return true
		}
	}
	return false
}

// normalizedPath normalizes a device path for comparison
func normalizedPath(path string) string {
	return strings.ToLower(filepath.Clean(path))
}
