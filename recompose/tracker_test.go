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

package recompose_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/fatih/color"

	. "fillmore-labs.com/stableguard/recompose"
)

type capture struct {
	mu     sync.Mutex
	events []Event
}

func (c *capture) Log(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, e)
}

func (c *capture) all() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]Event(nil), c.events...)
}

// install captures published events for the duration of a test.
// Tests using it must not run in parallel.
func install(t *testing.T) *capture {
	t.Helper()

	c := &capture{}

	SetLogger(c)
	SetEnabled(true)

	t.Cleanup(func() {
		SetLogger(nil)
		SetEnabled(true)
	})

	return c
}

func TestThresholdRoundTrip(t *testing.T) {
	c := install(t)

	tr := NewTracker("example.com/ui.Header", "main", 3)

	titles := []string{"a", "a", "b", "b"}
	for round, title := range titles {
		tr.TrackParameter("title", "string", title, true)
		tr.TrackParameter("items", "[]string", []string{title}, false)
		tr.LogIfThresholdMet()

		if got, want := len(c.all()), max(round-1, 0); got != want {
			t.Fatalf("Round %d: got %d events, want %d", round+1, got, want)
		}
	}

	events := c.all()

	third, fourth := events[0], events[1]
	if third.RecompositionCount != 3 || fourth.RecompositionCount != 4 {
		t.Errorf("Got counts %d and %d, want 3 and 4", third.RecompositionCount, fourth.RecompositionCount)
	}

	if third.ComposableName != "example.com/ui.Header" || third.Tag != "main" {
		t.Errorf("Got event for %s (%s)", third.ComposableName, third.Tag)
	}

	title := third.ParameterChanges[0]
	if title.Name != "title" || title.Old != "a" || title.New != "b" || !title.Changed {
		t.Errorf("Round 3: got title change %+v", title)
	}

	title = fourth.ParameterChanges[0]
	if title.Old != "b" || title.New != "b" || title.Changed {
		t.Errorf("Round 4: got title change %+v", title)
	}

	if items := fourth.ParameterChanges[1]; items.Changed || items.Stable {
		t.Errorf("Round 4: got items change %+v", items)
	}

	if got := fourth.UnstableParameters; len(got) != 1 || got[0] != "items" {
		t.Errorf("Got unstable parameters %v, want [items]", got)
	}
}

func TestAbsent(t *testing.T) {
	c := install(t)

	tr := NewTracker("example.com/ui.Nullable", "", 1)

	var none *int

	tr.TrackParameter("p", "*int", none, true)
	tr.TrackParameter("e", "error", nil, true)
	tr.LogIfThresholdMet()

	tr.TrackParameter("p", "*int", none, true)
	tr.TrackParameter("e", "error", nil, true)
	tr.LogIfThresholdMet()

	events := c.all()
	if len(events) != 2 {
		t.Fatalf("Got %d events, want 2", len(events))
	}

	for _, change := range events[0].ParameterChanges {
		if change.Old != Absent || !change.Changed {
			t.Errorf("First observation of %s: got %+v", change.Name, change)
		}
	}

	for _, change := range events[1].ParameterChanges {
		if change.Old == Absent || change.Changed {
			t.Errorf("Second observation of %s: got %+v", change.Name, change)
		}
	}
}

func TestUncomparable(t *testing.T) {
	c := install(t)

	type holder struct{ v any }

	tr := NewTracker("example.com/ui.List", "", 1)

	for range 2 {
		tr.TrackParameter("m", "map[string]int", map[string]int{"a": 1}, false)
		tr.TrackParameter("h", "holder", holder{[]int{1}}, false)
		tr.LogIfThresholdMet()
	}

	events := c.all()
	for _, change := range events[1].ParameterChanges {
		if change.Changed {
			t.Errorf("Got %s changed, want equal contents", change.Name)
		}
	}
}

func TestSwitch(t *testing.T) {
	c := install(t)

	tr := NewTracker("example.com/ui.Switch", "", 1)

	round := func() {
		tr.TrackParameter("n", "int", tr.Count(), true)
		tr.LogIfThresholdMet()
	}

	round()

	SetEnabled(false)

	if IsEnabled() {
		t.Error("Expected tracing to be disabled")
	}

	round()
	round()

	SetEnabled(true)
	round()

	events := c.all()
	if len(events) != 2 {
		t.Fatalf("Got %d events, want 2", len(events))
	}

	if events[1].RecompositionCount != 4 {
		t.Errorf("Got count %d, want 4", events[1].RecompositionCount)
	}

	// The baseline advances while disabled.
	if got := events[1].ParameterChanges[0].Old; got != 2 {
		t.Errorf("Got old value %v, want 2", got)
	}
}

func TestLoggerReplacement(t *testing.T) {
	install(t)

	if _, ok := CurrentLogger().(*capture); !ok {
		t.Fatalf("Got logger %T, want *capture", CurrentLogger())
	}

	SetLogger(nil)

	if _, ok := CurrentLogger().(*ConsoleLogger); !ok {
		t.Errorf("Got logger %T, want default *ConsoleLogger", CurrentLogger())
	}

	SetLogger(LoggerFunc(func(Event) { panic("broken logger") }))

	tr := NewTracker("example.com/ui.Panic", "", 1)
	tr.LogIfThresholdMet() // must not panic
}

func TestAcquire(t *testing.T) {
	t.Parallel()

	const workers = 16

	trackers := make([]*Tracker, workers)

	var wg sync.WaitGroup

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			trackers[i] = Acquire("example.com/ui.Concurrent", "shared", i)
		}()
	}

	wg.Wait()

	for _, tr := range trackers[1:] {
		if tr != trackers[0] {
			t.Fatal("Got different trackers for the same call site")
		}
	}

	if th := trackers[0].Threshold(); th < 1 {
		t.Errorf("Got threshold %d, want at least 1", th)
	}

	if Acquire("example.com/ui.Concurrent", "other", 1) == trackers[0] {
		t.Error("Got the same tracker for a different tag")
	}
}

type panicky struct{}

func (panicky) String() string { panic("no string") }

func TestFormatValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, "nil"},
		{"absent", Absent, "<absent>"},
		{"string", "hi", `"hi"`},
		{"int", 42, "42"},
		{"error", errors.New("boom"), "boom"},
		{"slice", []int{1, 2}, "[1 2]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatValue(tt.value); got != tt.want {
				t.Errorf("FormatValue(%#v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}

	if got := FormatValue(panicky{}); !strings.HasPrefix(got, "recompose_test.panicky@") {
		t.Errorf("Got fallback %q", got)
	}
}

func TestConsoleLogger(t *testing.T) {
	t.Parallel()

	color.NoColor = true

	var buf bytes.Buffer

	NewConsoleLogger(&buf).Log(Event{
		ComposableName:     "example.com/ui.Header",
		Tag:                "main",
		RecompositionCount: 3,
		ParameterChanges: []ParameterChange{
			{Name: "title", Type: "string", Old: "a", New: "b", Changed: true, Stable: true},
			{Name: "items", Type: "[]string", Old: []string{"x"}, New: []string{"x"}, Stable: false},
		},
		UnstableParameters: []string{"items"},
	})

	const want = `[Recomposition #3] example.com/ui.Header (tag: main)
  title: string "a" → "b" (changed)
  items: []string [x] (unchanged) [unstable]
  unstable parameters: items
`

	if got := buf.String(); got != want {
		t.Errorf("Got\n%s\nwant\n%s", got, want)
	}
}

func TestSlogLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	NewSlogLogger(l).Log(Event{
		ComposableName:     "example.com/ui.Header",
		RecompositionCount: 1,
		ParameterChanges:   []ParameterChange{{Name: "title", Type: "string", Old: Absent, New: "a", Changed: true, Stable: true}},
	})

	got := buf.String()
	for _, want := range []string{"msg=recomposition", "composable=example.com/ui.Header", "count=1", "params.title.changed=true"} {
		if !strings.Contains(got, want) {
			t.Errorf("Got %q, want it to contain %q", got, want)
		}
	}
}
