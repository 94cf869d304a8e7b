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
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logMu  sync.RWMutex
	logger = newDefaultLogger()
)

func newDefaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.InfoLevel)
	return l
}

// SetLogger replaces the logger used for debug output. A nil logger restores
// the silent default.
func SetLogger(l *logrus.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	if l == nil {
		l = newDefaultLogger()
	}
	logger = l
}

// Logger returns the logger used for debug output.
func Logger() *logrus.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}

// SetDebugEnabled toggles debug output. When enabling on the silent default
// logger, output goes to stderr.
func SetDebugEnabled(enabled bool) {
	l := Logger()
	if !enabled {
		l.SetLevel(logrus.InfoLevel)
		return
	}
	if l.Out == io.Discard {
		l.SetOutput(logrus.StandardLogger().Out)
	}
	l.SetLevel(logrus.DebugLevel)
}

func debugf(format string, args ...any) {
	Logger().WithField("component", "sm130").Debugf(format, args...)
}

func debugln(args ...any) {
	Logger().WithField("component", "sm130").Debugln(args...)
}
