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

package session_test

import (
	"context"
	"errors"
	"go/ast"
	"go/types"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/go/packages"

	"fillmore-labs.com/stableguard/internal/cache"
	"fillmore-labs.com/stableguard/internal/config"
	"fillmore-labs.com/stableguard/internal/directive"
	. "fillmore-labs.com/stableguard/internal/session"
	"fillmore-labs.com/stableguard/internal/stability"
	"fillmore-labs.com/stableguard/internal/testsource"
)

const src = `
type S struct{ Name string }

type M struct {
	Name string ` + "`stability:\"mutable\"`" + `
}

//stableguard:stable
type Theme interface{ Color() int }

//stableguard:composable
func Title(s S, t Theme) {}

//stableguard:composable
func Profile(m M) {}

//stableguard:composable
//stableguard:ignore
func debug(m M) {}

//stableguard:trace
func helper() {}

//stableguard:composable
//stableguard:bogus
func broken() {}

func plain(m M) {}

//stableguard:skip
type Legacy struct {
	Count int ` + "`stability:\"mutable\"`" + `
}

//stableguard:composable
func (l *Legacy) Render() {}
`

func unit(t *testing.T) (Unit, directive.Index) {
	t.Helper()

	fset, f := testsource.ParseFile(t, src)
	pkg, info := testsource.Check(t, fset, f)

	idx, err := directive.NewIndex([]*ast.File{f}, info)
	if err != nil {
		t.Fatalf("Got error %v", err)
	}

	return Unit{Fset: fset, Files: []*ast.File{f}, Pkg: pkg, Info: info}, idx
}

func TestAnalyzeUnit(t *testing.T) {
	t.Parallel()

	s, err := New(Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	u, idx := unit(t)

	r := s.AnalyzeUnit(t.Context(), u, idx)

	if len(r.Entries) != 5 {
		t.Fatalf("Got %d entries, want 5", len(r.Entries))
	}

	want := map[string]bool{"test.Title": true, "test.Profile": false, "test.debug": false, "test.broken": true, "test.Legacy.Render": false}
	for _, e := range r.Entries {
		if skippable, ok := want[e.Info.QualifiedName]; !ok || e.Info.Skippable != skippable {
			t.Errorf("Got %s", e.Info.Summary())
		}

		if e.Decl == nil || e.Decl.Name.Name != e.Info.Name {
			t.Errorf("Got declaration %v for %s", e.Decl, e.Info.Name)
		}
	}

	if len(r.Ignored) != 2 || r.Ignored[0] != "test.debug" || r.Ignored[1] != "test.Legacy.Render" {
		t.Errorf("Got ignored %v", r.Ignored)
	}

	if len(r.Errors) != 2 {
		t.Fatalf("Got errors %v, want 2", r.Errors)
	}

	if !errors.Is(r.Errors[0], directive.ErrTraceNotComposable) || !errors.Is(r.Errors[1], directive.ErrUnknownDirective) {
		t.Errorf("Got errors %v", r.Errors)
	}

	if r.PkgPath != "test" || r.Cached || len(r.Unanalyzed) != 0 {
		t.Errorf("Got %+v", r)
	}
}

func TestUnanalyzed(t *testing.T) {
	t.Parallel()

	s, err := New(Options{})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	u, idx := unit(t)
	u.Info = &types.Info{Defs: make(map[*ast.Ident]types.Object)}

	r := s.AnalyzeUnit(t.Context(), u, idx)

	if len(r.Entries) != 0 || len(r.Unanalyzed) != 5 {
		t.Fatalf("Got %d entries, %d unanalyzed", len(r.Entries), len(r.Unanalyzed))
	}

	if !errors.Is(r.Unanalyzed[0].Err, ErrNoObject) || r.Unanalyzed[0].QualifiedName != "Title" {
		t.Errorf("Got %+v", r.Unanalyzed[0])
	}
}

func TestStrongSkipping(t *testing.T) {
	t.Parallel()

	s, err := New(Options{Behavior: config.FromBits(config.StrongSkipping)})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	u, idx := unit(t)

	for _, e := range s.AnalyzeUnit(t.Context(), u, idx).Entries {
		if e.Info.QualifiedName != "test.Profile" {
			continue
		}

		if !e.Info.Skippable || !e.Info.SkippableInStrongSkippingMode {
			t.Errorf("Got %s", e.Info.Summary())
		}
	}
}

func TestBump(t *testing.T) {
	t.Parallel()

	s, err := New(Options{CacheSize: 16})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	u, idx := unit(t)

	first := s.AnalyzeUnit(t.Context(), u, idx)

	// Removing the marker has no effect until the session is invalidated.
	for tn := range idx {
		delete(idx, tn)
	}

	if r := s.AnalyzeUnit(t.Context(), u, idx); !r.Entries[0].Info.Skippable {
		t.Errorf("Got %s from memoized session", r.Entries[0].Info.Summary())
	}

	if v := s.Bump(); v != 1 || s.Version() != 1 {
		t.Errorf("Got version %d", v)
	}

	r := s.AnalyzeUnit(t.Context(), u, idx)
	if !first.Entries[0].Info.Skippable || r.Entries[0].Info.Skippable {
		t.Errorf("Got %s after invalidation", r.Entries[0].Info.Summary())
	}

	if p := r.Entries[0].Info.Parameters[1]; p.Stability != stability.Runtime {
		t.Errorf("Got parameter %+v", p)
	}
}

func TestAnalyzePackages(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	write := func(name, content string) {
		t.Helper()

		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	write("go.mod", "module example.com/ui\n\ngo 1.24\n")
	write("ui.go", `package ui

import "example.com/ui/theme"

//stableguard:composable
func Card(p theme.Palette) {}
`)

	if err := os.Mkdir(filepath.Join(dir, "theme"), 0o755); err != nil {
		t.Fatal(err)
	}

	write("theme/theme.go", `package theme

//stableguard:stable
type Palette interface{ Primary() int }
`)

	pkgs, err := packages.Load(&packages.Config{Mode: LoadMode, Dir: dir, Context: t.Context()}, "./...")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	disk, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	analyze := func() []*Result {
		t.Helper()

		s, err := New(Options{Jobs: 2, Disk: disk})
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}

		results, err := s.Analyze(context.Background(), pkgs)
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}

		return results
	}

	results := analyze()

	var ui *Result

	for _, r := range results {
		if r.PkgPath == "example.com/ui" {
			ui = r
		}
	}

	if ui == nil || len(ui.Entries) != 1 || !ui.Entries[0].Info.Skippable || ui.Cached {
		t.Fatalf("Got %+v", ui)
	}

	for _, r := range analyze() {
		if !r.Cached {
			t.Errorf("Got uncached result for %s", r.PkgPath)
		}
	}
}
