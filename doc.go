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

/*
Package sm130 provides a pure Go driver for SonMicro SM130 RFID readers on a
serial line.

The driver is polled: every call to Update sends a seek command, waits for
the reader to settle, parses the most recent response frame and advances a
three-state presence machine (absent, new, held). It performs no I/O on its
own between polls.

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-sm130"
	    "github.com/ZaparooProject/go-sm130/transport/uart"
	)

	transport, err := uart.New("/dev/ttyUSB0")
	if err != nil {
	    log.Fatal(err)
	}

	device, err := sm130.New(transport)
	if err != nil {
	    log.Fatal(err)
	}
	defer device.Close()

	if err := device.Init(); err != nil {
	    log.Fatal(err)
	}
	_ = device.Halt()

	for {
	    if err := device.Update(); err != nil {
	        log.Fatal(err)
	    }
	    if device.HasNewCard() {
	        id := device.CurrentID()
	        if !id.IsFirmwareError() {
	            fmt.Println("tag:", id)
	        }
	    }
	    time.Sleep(sm130.MinPollInterval)
	}

The polling package wraps this loop with callbacks.

Presence:

A tag is reported as PresenceNew for exactly one poll, then PresenceHeld for
as long as it stays in the field. The identifier is captured on the new poll
and frozen while held. Callers that poll slower than once per cycle can miss
the new signal.

Error Handling:

Noise and short reads never produce errors. A frame cut short keeps the bytes
of the previous frame in the positions it did not reach (TruncatedFramePolicy
KeepStale, the default), so stale bytes can bleed through and keep a tag
reading as present. WithTruncatedFramePolicy(ZeroFill) clears those positions
instead. The reader reports failed reads as the identifiers 0000 and
ffffffff, which the driver passes through unchanged. Use TagID.IsFirmwareError
to reject them. Only transport failures are returned as errors:

	if sm130.IsTransportError(err) {
	    // reopen the port
	}

Thread Safety:

Device operations are not thread-safe. If you need concurrent access,
implement appropriate synchronization in your application.
*/
package sm130
