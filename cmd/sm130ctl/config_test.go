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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZaparooProject/go-sm130"
	"github.com/ZaparooProject/go-sm130/detection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sm130.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("NoFile", func(t *testing.T) {
		t.Parallel()
		cfg, err := loadConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
		assert.Equal(t, sm130.DefaultBaudRate, cfg.Baud)
		assert.Equal(t, sm130.MinPollInterval, cfg.PollInterval)
	})

	t.Run("OverridesDefaults", func(t *testing.T) {
		t.Parallel()
		path := writeConfig(t, `
port: /dev/ttyUSB0
baud: 9600
poll_interval: 250ms
settle_delay: 15ms
truncated_policy: zero-fill
reset_pin: GPIO17
ignore_paths:
  - /dev/ttyUSB1
`)
		cfg, err := loadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "/dev/ttyUSB0", cfg.Port)
		assert.Equal(t, 9600, cfg.Baud)
		assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
		assert.Equal(t, 15*time.Millisecond, cfg.SettleDelay)
		assert.Equal(t, sm130.DefaultParseDelay, cfg.ParseDelay)
		assert.Equal(t, "zero-fill", cfg.TruncatedPolicy)
		assert.Equal(t, "GPIO17", cfg.ResetPin)
		assert.Equal(t, []string{"/dev/ttyUSB1"}, cfg.IgnorePaths)
	})

	t.Run("EmptyFile", func(t *testing.T) {
		t.Parallel()
		cfg, err := loadConfig(writeConfig(t, ""))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("UnknownKey", func(t *testing.T) {
		t.Parallel()
		_, err := loadConfig(writeConfig(t, "prot: /dev/ttyUSB0\n"))
		require.Error(t, err)
	})

	t.Run("MissingFile", func(t *testing.T) {
		t.Parallel()
		_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestConfigApply(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.Port = "/dev/ttyUSB0"
	cfg.IgnorePaths = []string{"/dev/ttyS0"}

	cfg.apply(overrides{
		Baud:        38400,
		IgnorePaths: []string{"/dev/ttyUSB1"},
		Debug:       true,
	})

	assert.Equal(t, "/dev/ttyUSB0", cfg.Port, "unset flags keep file values")
	assert.Equal(t, 38400, cfg.Baud)
	assert.Equal(t, []string{"/dev/ttyS0", "/dev/ttyUSB1"}, cfg.IgnorePaths)
	assert.True(t, cfg.Debug)
	assert.Equal(t, sm130.DefaultSettleDelay, cfg.SettleDelay)
}

func TestConfigDeviceConfig(t *testing.T) {
	t.Parallel()

	t.Run("Valid", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.TruncatedPolicy = "zero-fill"
		cfg.ParseDelay = 0

		dc, err := cfg.deviceConfig()
		require.NoError(t, err)
		assert.Equal(t, sm130.ZeroFill, dc.TruncatedPolicy)
		assert.Equal(t, time.Duration(0), dc.ParseDelay)
		assert.NotNil(t, dc.Clock)
	})

	t.Run("BadPolicy", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.TruncatedPolicy = "drop"
		_, err := cfg.deviceConfig()
		require.ErrorIs(t, err, sm130.ErrInvalidParameter)
	})

	t.Run("ZeroSettleDelay", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.SettleDelay = 0
		_, err := cfg.deviceConfig()
		require.ErrorIs(t, err, sm130.ErrInvalidParameter)
	})
}

func TestConfigMonitorAndDetection(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	cfg.AllowFirmwareID = true
	cfg.PollInterval = 200 * time.Millisecond
	cfg.Blocklist = []string{"0403:6001"}

	mc := cfg.monitorConfig()
	assert.False(t, mc.RejectFirmwareErrors)
	assert.Equal(t, 200*time.Millisecond, mc.PollInterval)

	opts, err := cfg.detectionOptions()
	require.NoError(t, err)
	assert.Contains(t, opts.Blocklist, "0403:6001")
	assert.Contains(t, opts.Blocklist, "2341:0043")
	assert.Equal(t, detection.Passive, opts.Mode)
}

func TestConfigDetectionOptions(t *testing.T) {
	t.Parallel()

	t.Run("BlocklistNormalised", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.Blocklist = []string{"vid=1a86 pid=7523", "VID:67b PID:2303", "10c4:ea60"}

		opts, err := cfg.detectionOptions()
		require.NoError(t, err)
		assert.True(t, detection.IsBlocked("1A86:7523", opts.Blocklist))
		assert.True(t, detection.IsBlocked("067B:2303", opts.Blocklist))
		assert.True(t, detection.IsBlocked("10C4:EA60", opts.Blocklist))
	})

	t.Run("BadBlocklistEntry", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.Blocklist = []string{"ftdi"}

		_, err := cfg.detectionOptions()
		require.ErrorIs(t, err, sm130.ErrInvalidParameter)
	})

	t.Run("SafeDetectFromFile", func(t *testing.T) {
		t.Parallel()
		cfg, err := loadConfig(writeConfig(t, "safe_detect: true\n"))
		require.NoError(t, err)

		opts, err := cfg.detectionOptions()
		require.NoError(t, err)
		assert.Equal(t, detection.Safe, opts.Mode)
	})

	t.Run("SafeDetectFromFlag", func(t *testing.T) {
		t.Parallel()
		cfg := DefaultConfig()
		cfg.apply(overrides{SafeDetect: true})

		opts, err := cfg.detectionOptions()
		require.NoError(t, err)
		assert.Equal(t, detection.Safe, opts.Mode)
	})
}
