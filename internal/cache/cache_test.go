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

package cache_test

import (
	"os"
	"path/filepath"
	"testing"

	. "fillmore-labs.com/stableguard/internal/cache"
	"fillmore-labs.com/stableguard/internal/stability"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	d, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	h := NewHasher()
	h.String("example.com/ui")
	key := h.Sum()

	if _, ok, err := d.Get(key); ok || err != nil {
		t.Fatalf("Got hit %t, error %v on empty cache", ok, err)
	}

	want := &Payload{
		PkgPath: "example.com/ui",
		Functions: []stability.ComposableInfo{{
			Name:          "Card",
			QualifiedName: "example.com/ui.Card",
			Restartable:   true,
			Parameters:    []stability.ParameterInfo{{Name: "m", Type: "ui.M", Stability: stability.Unstable, Reason: "mutable"}},
			Receivers:     []stability.ReceiverInfo{{Type: "*ui.Box", Stability: stability.Stable, Kind: stability.Dispatch}},
		}},
		Ignored: []string{"example.com/ui.debug"},
	}

	if err := d.Put(key, want); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok, err := d.Get(key)
	if !ok || err != nil {
		t.Fatalf("Got hit %t, error %v", ok, err)
	}

	f := got.Functions[0]
	if got.PkgPath != want.PkgPath || f.QualifiedName != "example.com/ui.Card" || f.Parameters[0].Stability != stability.Unstable ||
		f.Receivers[0].Kind != stability.Dispatch || got.Ignored[0] != "example.com/ui.debug" {
		t.Errorf("Got %+v, want %+v", got, want)
	}

	if err := d.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if _, ok, _ := d.Get(key); ok {
		t.Error("Got hit after Clear")
	}
}

func TestHasher(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.go")

	if err := os.WriteFile(file, []byte("package a\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	sum := func() Key {
		h := NewHasher()
		if err := h.File(file); err != nil {
			t.Fatalf("File failed: %v", err)
		}

		return h.Sum()
	}

	first := sum()
	if again := sum(); again != first {
		t.Error("Got different keys for the same content")
	}

	if err := os.WriteFile(file, []byte("package b\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if changed := sum(); changed == first {
		t.Error("Got the same key for changed content")
	}

	// Strings are length-prefixed.
	a, b := NewHasher(), NewHasher()
	a.String("ab")
	a.String("c")
	b.String("a")
	b.String("bc")

	if a.Sum() == b.Sum() {
		t.Error("Got the same key for different string sequences")
	}
}

func TestNilDisk(t *testing.T) {
	t.Parallel()

	var d *Disk

	if err := d.Put(Key{}, &Payload{}); err != nil {
		t.Errorf("Put on nil cache: %v", err)
	}

	if _, ok, err := d.Get(Key{}); ok || err != nil {
		t.Errorf("Get on nil cache: %t, %v", ok, err)
	}
}
