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

// Command sm130ctl talks to an SM130 RFID reader over a serial port.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZaparooProject/go-sm130"
	log "github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"

	// Register the serial port detector
	_ "github.com/ZaparooProject/go-sm130/detection/uart"
)

var (
	app = kingpin.New("sm130ctl", "Watch and control an SM130 RFID reader.")

	configPath = app.Flag("config", "YAML configuration file.").Envar("SM130_CONFIG").ExistingFile()
	port       = app.Flag("port", "Serial port of the reader. Auto-detected when empty.").
			Short('p').Envar("SM130_PORT").String()
	baud     = app.Flag("baud", "Serial baud rate.").Envar("SM130_BAUD").Int()
	resetPin = app.Flag("reset-pin", "GPIO pin wired to the reader's RESET input, e.g. GPIO17.").
			Envar("SM130_RESET_PIN").String()
	settleDelay = app.Flag("settle-delay", "Wait after each seek command.").Envar("SM130_SETTLE_DELAY").Duration()
	parseDelay  = app.Flag("parse-delay", "Wait before parsing the response.").Envar("SM130_PARSE_DELAY").Duration()
	truncated   = app.Flag("truncated-policy", "What a short frame leaves behind: keep-stale or zero-fill.").
			Envar("SM130_TRUNCATED_POLICY").Enum("keep-stale", "zero-fill")
	ignorePaths = app.Flag("ignore", "Serial path to skip during auto-detection. Repeatable.").Strings()
	safeDetect  = app.Flag("safe-detect", "Only auto-detect ports whose device node exists.").
			Envar("SM130_SAFE_DETECT").Bool()
	debug = app.Flag("debug", "Enable debug logging.").Short('d').Envar("SM130_DEBUG").Bool()

	watch         = app.Command("watch", "Print tag presentations and removals until interrupted.")
	pollInterval  = watch.Flag("poll-interval", "Wait between polls.").Envar("SM130_POLL_INTERVAL").Duration()
	allowFirmware = watch.Flag("allow-firmware-ids", "Report 0000 and ffffffff identifiers as tags.").Bool()

	halt = app.Command("halt", "Send a single HALT command.")

	ports = app.Command("ports", "List serial ports that may host a reader.")
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	command := kingpin.MustParse(app.Parse(args))

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Error(err)
		return 1
	}
	cfg.apply(overrides{
		Port:            *port,
		ResetPin:        *resetPin,
		TruncatedPolicy: *truncated,
		IgnorePaths:     *ignorePaths,
		Baud:            *baud,
		PollInterval:    *pollInterval,
		SettleDelay:     *settleDelay,
		ParseDelay:      *parseDelay,
		AllowFirmwareID: *allowFirmware,
		SafeDetect:      *safeDetect,
		Debug:           *debug,
	})
	setupLogging(cfg.Debug)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	out := NewOutput(os.Stdout)
	switch command {
	case watch.FullCommand():
		err = runWatch(ctx, cfg, out)
	case halt.FullCommand():
		err = runHalt(ctx, cfg, out)
	case ports.FullCommand():
		err = runPorts(ctx, cfg, out)
	default:
		err = fmt.Errorf("unknown command %q", command)
	}

	if err != nil && ctx.Err() == nil {
		log.Error(err)
		return 1
	}
	return 0
}

func setupLogging(enabled bool) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if enabled {
		log.SetLevel(log.DebugLevel)
		sm130.SetLogger(log.StandardLogger())
	}
}
