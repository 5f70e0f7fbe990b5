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
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var (
	headerColor    = color.New(color.FgCyan, color.Bold)
	changedColor   = color.New(color.FgYellow)
	unchangedColor = color.New(color.FgGreen)
	unstableColor  = color.New(color.FgRed, color.Bold)
)

// ConsoleLogger writes human-readable events, colored when the terminal supports it.
type ConsoleLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleLogger creates a [ConsoleLogger] writing to w.
func NewConsoleLogger(w io.Writer) *ConsoleLogger {
	return &ConsoleLogger{w: w}
}

// Log writes one event.
func (c *ConsoleLogger) Log(e Event) {
	var b bytes.Buffer

	headerColor.Fprintf(&b, "[Recomposition #%d] %s", e.RecompositionCount, e.ComposableName)

	if e.Tag != "" {
		b.WriteString(" (tag: " + e.Tag + ")")
	}

	b.WriteByte('\n')

	for _, p := range e.ParameterChanges {
		b.WriteString("  " + p.Name + ": " + p.Type + " ")

		if p.Changed {
			changedColor.Fprintf(&b, "%s → %s (changed)", FormatValue(p.Old), FormatValue(p.New))
		} else {
			unchangedColor.Fprintf(&b, "%s (unchanged)", FormatValue(p.New))
		}

		if !p.Stable {
			b.WriteByte(' ')
			unstableColor.Fprint(&b, "[unstable]")
		}

		b.WriteByte('\n')
	}

	if len(e.UnstableParameters) > 0 {
		b.WriteString("  unstable parameters: " + strings.Join(e.UnstableParameters, ", ") + "\n")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, _ = c.w.Write(b.Bytes())
}

// SlogLogger writes structured events to a [slog.Logger].
type SlogLogger struct {
	Logger *slog.Logger
	Level  slog.Level
}

// NewSlogLogger creates a [SlogLogger] logging at [slog.LevelDebug].
func NewSlogLogger(l *slog.Logger) SlogLogger {
	return SlogLogger{Logger: l, Level: slog.LevelDebug}
}

// Log writes one event as a structured record.
func (s SlogLogger) Log(e Event) {
	l := s.Logger
	if l == nil {
		l = slog.Default()
	}

	params := make([]any, 0, len(e.ParameterChanges))
	for _, p := range e.ParameterChanges {
		params = append(params, slog.Group(p.Name,
			slog.String("type", p.Type),
			slog.String("old", FormatValue(p.Old)),
			slog.String("new", FormatValue(p.New)),
			slog.Bool("changed", p.Changed),
			slog.Bool("stable", p.Stable),
		))
	}

	l.Log(context.Background(), s.Level, "recomposition",
		slog.String("composable", e.ComposableName),
		slog.String("tag", e.Tag),
		slog.Int("count", e.RecompositionCount),
		slog.Group("params", params...),
		slog.Any("unstable", e.UnstableParameters),
	)
}
