// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package recompose

import (
	"os"
	"sync/atomic"
)

// Logger receives published events.
type Logger interface {
	Log(e Event)
}

// LoggerFunc adapts a function to the [Logger] interface.
type LoggerFunc func(e Event)

// Log calls f(e).
func (f LoggerFunc) Log(e Event) { f(e) }

type loggerRef struct {
	Logger
}

var (
	currentLogger atomic.Pointer[loggerRef]
	disabled      atomic.Bool

	defaultLogger = &loggerRef{NewConsoleLogger(os.Stderr)}
)

// SetLogger replaces the logger receiving events. nil restores the console logger.
func SetLogger(l Logger) {
	if l == nil {
		currentLogger.Store(nil)

		return
	}

	currentLogger.Store(&loggerRef{l})
}

// CurrentLogger returns the logger receiving events.
func CurrentLogger() Logger {
	return current().Logger
}

func current() *loggerRef {
	if ref := currentLogger.Load(); ref != nil {
		return ref
	}

	return defaultLogger
}

// SetEnabled switches publishing of events on or off. Tracing is enabled by default.
//
// Events are not buffered while disabled.
func SetEnabled(enabled bool) {
	disabled.Store(!enabled)
}

// IsEnabled reports whether events are published.
func IsEnabled() bool {
	return !disabled.Load()
}

// publish forwards an event to the current logger when enabled.
//
// The switch and the logger are each read once, a concurrent reconfiguration
// affects either this event or the next. Panicking loggers are ignored.
func publish(e Event) {
	if disabled.Load() {
		return
	}

	l := current().Logger

	defer func() { _ = recover() }()

	l.Log(e)
}
