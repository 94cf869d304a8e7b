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
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ZaparooProject/go-sm130"
	"github.com/ZaparooProject/go-sm130/detection"
	"github.com/ZaparooProject/go-sm130/polling"
	"gopkg.in/yaml.v3"
)

// Config is the tool configuration. It is read from an optional YAML file
// and then overridden by flags and SM130_* environment variables.
type Config struct {
	Port            string        `yaml:"port"`
	ResetPin        string        `yaml:"reset_pin"`
	TruncatedPolicy string        `yaml:"truncated_policy"`
	IgnorePaths     []string      `yaml:"ignore_paths"`
	Blocklist       []string      `yaml:"blocklist"`
	Baud            int           `yaml:"baud"`
	PollInterval    time.Duration `yaml:"poll_interval"`
	SettleDelay     time.Duration `yaml:"settle_delay"`
	ParseDelay      time.Duration `yaml:"parse_delay"`
	ResetPulse      time.Duration `yaml:"reset_pulse"`
	ResetDelay      time.Duration `yaml:"reset_delay"`
	AllowFirmwareID bool          `yaml:"allow_firmware_ids"`
	SafeDetect      bool          `yaml:"safe_detect"`
	Debug           bool          `yaml:"debug"`
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() *Config {
	dc := sm130.DefaultDeviceConfig()
	return &Config{
		Baud:            dc.BaudRate,
		PollInterval:    sm130.MinPollInterval,
		SettleDelay:     dc.SettleDelay,
		ParseDelay:      dc.ParseDelay,
		ResetDelay:      dc.ResetDelay,
		TruncatedPolicy: dc.TruncatedPolicy.String(),
	}
}

// loadConfig reads a YAML config file on top of the defaults. Unknown keys
// are rejected so typos do not silently fall back to defaults.
func loadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// overrides holds values given on the command line. Zero values mean the
// flag was not set.
type overrides struct {
	Port            string
	ResetPin        string
	TruncatedPolicy string
	IgnorePaths     []string
	Baud            int
	PollInterval    time.Duration
	SettleDelay     time.Duration
	ParseDelay      time.Duration
	AllowFirmwareID bool
	SafeDetect      bool
	Debug           bool
}

func (c *Config) apply(o overrides) {
	if o.Port != "" {
		c.Port = o.Port
	}
	if o.ResetPin != "" {
		c.ResetPin = o.ResetPin
	}
	if o.TruncatedPolicy != "" {
		c.TruncatedPolicy = o.TruncatedPolicy
	}
	if len(o.IgnorePaths) > 0 {
		c.IgnorePaths = append(c.IgnorePaths, o.IgnorePaths...)
	}
	if o.Baud != 0 {
		c.Baud = o.Baud
	}
	if o.PollInterval != 0 {
		c.PollInterval = o.PollInterval
	}
	if o.SettleDelay != 0 {
		c.SettleDelay = o.SettleDelay
	}
	if o.ParseDelay != 0 {
		c.ParseDelay = o.ParseDelay
	}
	c.AllowFirmwareID = c.AllowFirmwareID || o.AllowFirmwareID
	c.SafeDetect = c.SafeDetect || o.SafeDetect
	c.Debug = c.Debug || o.Debug
}

// deviceConfig converts the settings into a validated driver config. The
// reset line is attached separately because it needs hardware access.
func (c *Config) deviceConfig() (*sm130.DeviceConfig, error) {
	policy, err := sm130.ParseTruncatedFramePolicy(c.TruncatedPolicy)
	if err != nil {
		return nil, err
	}
	dc := sm130.DefaultDeviceConfig()
	dc.BaudRate = c.Baud
	dc.SettleDelay = c.SettleDelay
	dc.ParseDelay = c.ParseDelay
	dc.ResetDelay = c.ResetDelay
	dc.TruncatedPolicy = policy
	if err := dc.Validate(); err != nil {
		return nil, err
	}
	return dc, nil
}

func (c *Config) monitorConfig() *polling.Config {
	mc := polling.DefaultConfig()
	mc.PollInterval = c.PollInterval
	mc.RejectFirmwareErrors = !c.AllowFirmwareID
	return mc
}

// detectionOptions builds port detection settings. Blocklist entries may be
// written in any form ParseVIDPID understands.
func (c *Config) detectionOptions() (detection.Options, error) {
	opts := detection.DefaultOptions()
	opts.IgnorePaths = c.IgnorePaths
	if c.SafeDetect {
		opts.Mode = detection.Safe
	}
	for _, entry := range c.Blocklist {
		vidpid := detection.ParseVIDPID(entry)
		if vidpid == "" {
			return opts, fmt.Errorf("%w: blocklist entry %q is not a VID:PID pair",
				sm130.ErrInvalidParameter, entry)
		}
		opts.Blocklist = append(opts.Blocklist, vidpid)
	}
	return opts, nil
}
