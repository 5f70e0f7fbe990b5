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
	"slices"
	"strconv"
	"sync"
)

// Tracker remembers the parameter values of one traced call site.
//
// A Tracker is not safe for concurrent use. The trackers handed out by
// [Acquire] are shared, but a call site invokes its tracker sequentially.
type Tracker struct {
	name      string
	tag       string
	threshold int

	count    int
	staged   []ParameterChange
	previous map[string]any
}

// trackers is never pruned: a tracker keeps the baseline of its call site for
// the lifetime of the process.
var trackers sync.Map // trackerKey → *Tracker

type trackerKey struct {
	name, tag string
}

// Acquire returns the tracker of a call site, creating it on first use.
//
// Concurrent first calls for the same name and tag return the same tracker.
// The threshold of the first call wins, values smaller than one are treated as one.
func Acquire(name, tag string, threshold int) *Tracker {
	key := trackerKey{name, tag}

	if t, ok := trackers.Load(key); ok {
		return t.(*Tracker)
	}

	t, _ := trackers.LoadOrStore(key, NewTracker(name, tag, threshold))

	return t.(*Tracker)
}

// NewTracker creates a tracker that is not shared with other call sites.
func NewTracker(name, tag string, threshold int) *Tracker {
	return &Tracker{
		name:      name,
		tag:       tag,
		threshold: max(threshold, 1),
		previous:  make(map[string]any),
	}
}

// Name is the traced function name.
func (t *Tracker) Name() string { return t.name }

// Tag is the tag of the call site, empty if unset.
func (t *Tracker) Tag() string { return t.tag }

// Threshold is the number of invocations before events are published.
func (t *Tracker) Threshold() int { return t.threshold }

// Count is the number of completed invocations.
func (t *Tracker) Count() int { return t.count }

// TrackParameter records the value of a parameter for the current invocation.
func (t *Tracker) TrackParameter(name, typ string, value any, stable bool) {
	old, ok := t.previous[name]
	if !ok {
		old = Absent
	}

	t.staged = append(t.staged, ParameterChange{
		Name:    name,
		Type:    typ,
		Old:     old,
		New:     value,
		Changed: !ok || !equal(old, value),
		Stable:  stable,
	})
}

// LogIfThresholdMet completes the current invocation.
//
// When the invocation count reached the threshold an [Event] is published.
// The recorded values become the baseline of the next invocation in any case.
func (t *Tracker) LogIfThresholdMet() {
	t.count++

	if t.count >= t.threshold {
		publish(t.event())
	}

	for _, s := range t.staged {
		t.previous[s.Name] = s.New
	}

	clear(t.staged)
	t.staged = t.staged[:0]
}

func (t *Tracker) event() Event {
	changes := slices.Clone(t.staged)

	var unstable []string

	for _, c := range changes {
		if !c.Stable {
			unstable = append(unstable, c.Name)
		}
	}

	return Event{
		ComposableName:     t.name,
		Tag:                t.tag,
		RecompositionCount: t.count,
		ParameterChanges:   changes,
		UnstableParameters: unstable,
	}
}

func (t *Tracker) String() string {
	if t.tag == "" {
		return t.name + "#" + strconv.Itoa(t.count)
	}

	return t.name + "[" + t.tag + "]#" + strconv.Itoa(t.count)
}
