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

package sm130

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	testutil "github.com/ZaparooProject/go-sm130/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var clockStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// newTestDevice creates an initialised device on an open mock transport and a fake clock
func newTestDevice(t *testing.T, opts ...Option) (*Device, *MockTransport, *FakeClock) {
	t.Helper()
	mock := NewMockTransport()
	clock := NewFakeClock(clockStart)
	device, err := New(mock, append([]Option{WithClock(clock)}, opts...)...)
	require.NoError(t, err)
	require.NoError(t, device.Init())
	return device, mock, clock
}

// presentFrame places length byte 0x01 at index 2 and the given bytes at 5..8
func presentFrame(b5, b6, b7, b8 byte) []byte {
	return testutil.BuildPayload(0x00, 0x01, 0x82, 0x02, b5, b6, b7, b8, 0x00, 0x00)
}

// absentFrame is a full status response without the present tail
func absentFrame() []byte {
	return testutil.BuildPayload(0x00, 0x02, 0x82, 0x4C, 0xD0, 0x00, 0x00, 0x00, 0x00, 0x00)
}

type fakeResetLine struct {
	err   error
	calls int
}

func (f *fakeResetLine) Reset() error {
	f.calls++
	return f.err
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("NilTransport", func(t *testing.T) {
		t.Parallel()
		_, err := New(nil)
		require.ErrorIs(t, err, ErrInvalidParameter)
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Parallel()
		device, err := New(NewMockTransport())
		require.NoError(t, err)

		cfg := device.Config()
		assert.Equal(t, DefaultBaudRate, cfg.BaudRate)
		assert.Equal(t, 10*time.Millisecond, cfg.SettleDelay)
		assert.Equal(t, 10*time.Millisecond, cfg.ParseDelay)
		assert.Equal(t, KeepStale, cfg.TruncatedPolicy)
		assert.Equal(t, PresenceAbsent, device.State())
		assert.False(t, device.HasCardPresent())
		assert.False(t, device.HasNewCard())
	})

	t.Run("InvalidOption", func(t *testing.T) {
		t.Parallel()
		_, err := New(NewMockTransport(), WithSettleDelay(0))
		require.ErrorIs(t, err, ErrInvalidParameter)
	})

	t.Run("NilClock", func(t *testing.T) {
		t.Parallel()
		_, err := New(NewMockTransport(), WithClock(nil))
		require.ErrorIs(t, err, ErrInvalidParameter)
	})
}

func TestDevice_Init(t *testing.T) {
	t.Parallel()

	t.Run("OpensAtConfiguredBaudRate", func(t *testing.T) {
		t.Parallel()
		mock := NewMockTransport()
		device, err := New(mock)
		require.NoError(t, err)

		require.NoError(t, device.Init())
		assert.True(t, mock.IsConnected())
		assert.Equal(t, 19200, mock.BaudRate())
	})

	t.Run("OpenFailure", func(t *testing.T) {
		t.Parallel()
		mock := NewMockTransport()
		mock.OpenErr = errors.New("no such port")
		device, err := New(mock)
		require.NoError(t, err)

		err = device.Init()
		require.Error(t, err)
		assert.True(t, IsTransportError(err))
	})

	t.Run("PulsesResetLine", func(t *testing.T) {
		t.Parallel()
		line := &fakeResetLine{}
		clock := NewFakeClock(clockStart)
		device, err := New(NewMockTransport(), WithClock(clock), WithResetLine(line, 40*time.Millisecond))
		require.NoError(t, err)

		require.NoError(t, device.Init())
		assert.Equal(t, 1, line.calls)
		assert.Equal(t, []time.Duration{40 * time.Millisecond}, clock.Sleeps())
	})

	t.Run("ResetFailure", func(t *testing.T) {
		t.Parallel()
		line := &fakeResetLine{err: errors.New("pin busy")}
		device, err := New(NewMockTransport(), WithResetLine(line, 0))
		require.NoError(t, err)

		err = device.Init()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to reset reader")
	})

	t.Run("CancelledContext", func(t *testing.T) {
		t.Parallel()
		mock := NewMockTransport()
		device, err := New(mock)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.ErrorIs(t, device.InitContext(ctx), context.Canceled)
		assert.False(t, mock.IsConnected())
	})
}

func TestDevice_Halt(t *testing.T) {
	t.Parallel()

	t.Run("WritesHaltCommand", func(t *testing.T) {
		t.Parallel()
		device, mock, _ := newTestDevice(t)

		require.NoError(t, device.Halt())
		require.Len(t, mock.Writes(), 1)
		assert.Equal(t, []byte{0xFF, 0x00, 0x01, 0x93, 0x94}, mock.Writes()[0])
	})

	t.Run("NotOpen", func(t *testing.T) {
		t.Parallel()
		device, err := New(NewMockTransport())
		require.NoError(t, err)

		err = device.Halt()
		require.ErrorIs(t, err, ErrNotOpen)
	})
}

func TestDevice_UpdateCycle(t *testing.T) {
	t.Parallel()
	device, mock, clock := newTestDevice(t)

	require.NoError(t, device.Update())

	require.Len(t, mock.Writes(), 1)
	assert.Equal(t, []byte{0xFF, 0x00, 0x01, 0x82, 0x83}, mock.Writes()[0])
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 10 * time.Millisecond}, clock.Sleeps())
	assert.Equal(t, clockStart.Add(20*time.Millisecond), clock.Now())
	assert.Equal(t, clockStart.Add(20*time.Millisecond), device.Stats().LastPoll)
}

func TestDevice_PresenceScenarios(t *testing.T) {
	t.Parallel()

	t.Run("AbsentToNewCapturesID", func(t *testing.T) {
		t.Parallel()
		device, mock, _ := newTestDevice(t)
		mock.QueueResponse(presentFrame(0x11, 0x22, 0x33, 0x44))

		require.NoError(t, device.Update())

		assert.Equal(t, PresenceNew, device.State())
		assert.True(t, device.HasNewCard())
		assert.True(t, device.HasCardPresent())
		assert.Equal(t, NewTagID(0x44, 0x33, 0x22, 0x11), device.CurrentID())
	})

	t.Run("NewToHeldFreezesID", func(t *testing.T) {
		t.Parallel()
		device, mock, _ := newTestDevice(t)
		mock.QueueResponse(presentFrame(0x11, 0x22, 0x33, 0x44))
		mock.QueueResponse(presentFrame(0xAA, 0xBB, 0xCC, 0xDD))

		require.NoError(t, device.Update())
		require.NoError(t, device.Update())

		assert.Equal(t, PresenceHeld, device.State())
		assert.False(t, device.HasNewCard())
		assert.True(t, device.HasCardPresent())
		assert.Equal(t, NewTagID(0x44, 0x33, 0x22, 0x11), device.CurrentID())
	})

	t.Run("HeldToAbsent", func(t *testing.T) {
		t.Parallel()
		device, mock, _ := newTestDevice(t)
		mock.QueueResponse(presentFrame(0x11, 0x22, 0x33, 0x44))
		mock.QueueResponse(presentFrame(0x11, 0x22, 0x33, 0x44))
		mock.QueueResponse(absentFrame())

		for i := 0; i < 3; i++ {
			require.NoError(t, device.Update())
		}

		assert.Equal(t, PresenceAbsent, device.State())
		assert.False(t, device.HasCardPresent())
		assert.False(t, device.HasNewCard())
	})

	t.Run("NewToAbsent", func(t *testing.T) {
		t.Parallel()
		device, mock, _ := newTestDevice(t)
		mock.QueueResponse(presentFrame(0x11, 0x22, 0x33, 0x44))
		mock.QueueResponse(absentFrame())

		require.NoError(t, device.Update())
		require.NoError(t, device.Update())

		assert.Equal(t, PresenceAbsent, device.State())
	})

	t.Run("ReaderTagFoundResponse", func(t *testing.T) {
		t.Parallel()
		device, mock, _ := newTestDevice(t)
		mock.QueueResponse(testutil.BuildSeekTagFoundResponse(testutil.TagTypeClassic1K, testutil.TestUID))

		require.NoError(t, device.Update())

		require.True(t, device.HasNewCard())
		id := device.CurrentID()
		assert.True(t, id.Equal(NewTagID(0x98, 0xC0, 0x6D, 0xDE)))
		assert.Equal(t, "98c06dde", id.String())
		assert.False(t, id.IsFirmwareError())
	})

	t.Run("StatusWithPresentTail", func(t *testing.T) {
		t.Parallel()
		device, mock, _ := newTestDevice(t)
		mock.QueueResponse(testutil.BuildStatusWithPresentTail())

		require.NoError(t, device.Update())
		assert.True(t, device.HasNewCard())
	})

	t.Run("SeekInProgressAfterTag", func(t *testing.T) {
		t.Parallel()
		device, mock, _ := newTestDevice(t)
		mock.QueueResponse(testutil.BuildSeekTagFoundResponse(testutil.TagTypeClassic1K, testutil.TestUID))
		mock.QueueResponse(testutil.BuildSeekInProgressResponse())

		require.NoError(t, device.Update())
		require.NoError(t, device.Update())

		// Stale tag bytes at 6..10 do not match the present tail
		assert.Equal(t, PresenceAbsent, device.State())
	})
}

func TestDevice_ZeroFrameYieldsFirmwareErrorID(t *testing.T) {
	t.Parallel()
	device, _, _ := newTestDevice(t)

	// A silent reader leaves the initial all-zero frame in place; its length
	// byte is not the status length, so it reads as present.
	require.NoError(t, device.Update())

	require.True(t, device.HasNewCard())
	id := device.CurrentID()
	assert.Equal(t, "0000", id.String())
	assert.True(t, id.IsFirmwareError(), "all-zero identifier must be rejected by the caller")
}

func TestDevice_SilentReaderKeepsLastFrame(t *testing.T) {
	t.Parallel()
	device, mock, _ := newTestDevice(t)
	mock.QueueResponse(presentFrame(0x11, 0x22, 0x33, 0x44))

	require.NoError(t, device.Update())
	frameAfterFirst := device.LastFrame()

	require.NoError(t, device.Update())
	assert.Equal(t, frameAfterFirst, device.LastFrame())
	assert.Equal(t, PresenceHeld, device.State())
}

func TestDevice_NewSignalLastsOnePoll(t *testing.T) {
	t.Parallel()
	device, mock, _ := newTestDevice(t)

	rng := rand.New(rand.NewSource(42))
	presence := make([]bool, 200)
	for i := range presence {
		presence[i] = rng.Intn(3) > 0
	}

	edges, signals := 0, 0
	prev := false
	for _, present := range presence {
		if present {
			mock.QueueResponse(presentFrame(byte(rng.Intn(256)), 0x22, 0x33, 0x44))
		} else {
			mock.QueueResponse(absentFrame())
		}
		require.NoError(t, device.Update())

		assert.Equal(t, present, device.HasCardPresent())
		if present && !prev {
			edges++
			assert.True(t, device.HasNewCard())
		} else {
			assert.False(t, device.HasNewCard())
		}
		if device.HasNewCard() {
			signals++
		}
		prev = present
	}

	assert.Equal(t, edges, signals)
	assert.Equal(t, uint64(edges), device.Stats().TagsPresented)
}

func TestDevice_UpdateErrors(t *testing.T) {
	t.Parallel()

	t.Run("WriteFailureLeavesStateUnchanged", func(t *testing.T) {
		t.Parallel()
		device, mock, _ := newTestDevice(t)
		mock.QueueResponse(presentFrame(0x11, 0x22, 0x33, 0x44))
		require.NoError(t, device.Update())

		mock.WriteErr = errors.New("device unplugged")
		err := device.Update()
		require.Error(t, err)
		assert.True(t, IsTransportError(err))
		assert.Equal(t, PresenceNew, device.State())
	})

	t.Run("ReadFailure", func(t *testing.T) {
		t.Parallel()
		device, mock, _ := newTestDevice(t)
		mock.ReadErr = errors.New("i/o error")

		err := device.Update()
		require.Error(t, err)
		assert.True(t, IsTransportError(err))
		assert.Equal(t, PresenceAbsent, device.State())
		assert.Zero(t, device.Stats().Polls)
	})

	t.Run("NotInitialised", func(t *testing.T) {
		t.Parallel()
		device, err := New(NewMockTransport())
		require.NoError(t, err)
		require.ErrorIs(t, device.Update(), ErrNotOpen)
	})

	t.Run("CancelledContext", func(t *testing.T) {
		t.Parallel()
		device, mock, _ := newTestDevice(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		require.ErrorIs(t, device.UpdateContext(ctx), context.Canceled)
		assert.Empty(t, mock.Writes())
	})
}

func TestDevice_Stats(t *testing.T) {
	t.Parallel()
	device, mock, _ := newTestDevice(t)
	mock.QueueResponse([]byte{0x01, 0x02}, presentFrame(0x11, 0x22, 0x33, 0x44))
	mock.QueueResponse(testutil.BuildSeekInProgressResponse())

	require.NoError(t, device.Update())
	require.NoError(t, device.Update())

	stats := device.Stats()
	assert.Equal(t, uint64(2), stats.Polls)
	assert.Equal(t, uint64(2), stats.Frames)
	assert.Equal(t, uint64(1), stats.TruncatedFrames)
	assert.Equal(t, uint64(2), stats.DiscardedBytes)
	assert.Equal(t, uint64(1), stats.TagsPresented)
	assert.Equal(t, uint64(1), stats.BadChecksums, "hand-built present frame carries no checksum")
}

func TestDevice_Close(t *testing.T) {
	t.Parallel()
	device, mock, _ := newTestDevice(t)

	require.NoError(t, device.Close())
	assert.False(t, mock.IsConnected())
	require.NoError(t, device.Close())
}

func TestDevice_TruncatedFrameStaleBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		policy  TruncatedFramePolicy
		present bool
	}{
		{name: "KeepStaleBleedsThrough", policy: KeepStale, present: true},
		{name: "ZeroFillClears", policy: ZeroFill, present: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			device, mock, _ := newTestDevice(t, WithTruncatedFramePolicy(tt.policy))
			mock.QueueResponse(testutil.BuildStatusWithPresentTail())
			mock.QueueResponse(testutil.BuildSeekInProgressResponse())

			require.NoError(t, device.Update())
			require.True(t, device.HasCardPresent())

			// The second status frame stops at index 5; indices 6..10 still
			// hold the present marker unless cleared.
			require.NoError(t, device.Update())
			assert.Equal(t, tt.present, device.HasCardPresent())
			assert.Equal(t, uint64(1), device.Stats().TruncatedFrames)
		})
	}
}
