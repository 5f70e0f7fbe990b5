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

package directive_test

import (
	"errors"
	"go/ast"
	"go/types"
	"testing"

	"fillmore-labs.com/stableguard/internal/classify"
	. "fillmore-labs.com/stableguard/internal/directive"
	"fillmore-labs.com/stableguard/internal/testsource"
)

func group(lines ...string) *ast.CommentGroup {
	g := &ast.CommentGroup{}
	for _, l := range lines {
		g.List = append(g.List, &ast.Comment{Text: l})
	}

	return g
}

func TestFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		doc   *ast.CommentGroup
		want  FuncDirectives
		trace *Trace
		err   error
	}{
		{"nil", nil, FuncDirectives{}, nil, nil},
		{"plain comment", group("// Header renders the title."), FuncDirectives{}, nil, nil},
		{"composable", group("// Header renders.", "//stableguard:composable"), FuncDirectives{Composable: true}, nil, nil},
		{"trailing comment", group("//stableguard:composable // the header"), FuncDirectives{Composable: true}, nil, nil},
		{"trace trailing comment", group("//stableguard:trace tag=a // debug"), FuncDirectives{}, &Trace{Tag: "a", Threshold: 1}, nil},
		{
			"all flags",
			group("//stableguard:composable", "//stableguard:nonrestartable", "//stableguard:readonly", "//stableguard:ignore"),
			FuncDirectives{Composable: true, NonRestartable: true, Readonly: true, Ignore: true}, nil, nil,
		},
		{"trace defaults", group("//stableguard:trace"), FuncDirectives{}, &Trace{Threshold: 1}, nil},
		{"trace arguments", group("//stableguard:trace tag=header threshold=3"), FuncDirectives{}, &Trace{Tag: "header", Threshold: 3}, nil},
		{"trace quoted tag", group(`//stableguard:trace tag="main"`), FuncDirectives{}, &Trace{Tag: "main", Threshold: 1}, nil},
		{"zero threshold", group("//stableguard:trace threshold=0"), FuncDirectives{}, nil, ErrInvalidThreshold},
		{"bad threshold", group("//stableguard:trace threshold=many"), FuncDirectives{}, nil, ErrInvalidThreshold},
		{"unknown trace argument", group("//stableguard:trace color=red"), FuncDirectives{}, nil, ErrUnknownDirective},
		{"unknown", group("//stableguard:composible"), FuncDirectives{}, nil, ErrUnknownDirective},
		{"flag arguments", group("//stableguard:composable yes"), FuncDirectives{}, nil, ErrUnknownDirective},
		{"type directive", group("//stableguard:composable", "//stableguard:stable"), FuncDirectives{Composable: true}, nil, ErrMisplacedDirective},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Func(tt.doc)

			if !errors.Is(err, tt.err) || (err != nil) != (tt.err != nil) {
				t.Fatalf("Got error %v, want %v", err, tt.err)
			}

			trace := got.Trace
			got.Trace = nil

			if got != tt.want {
				t.Errorf("Got %+v, want %+v", got, tt.want)
			}

			switch {
			case trace == nil && tt.trace == nil:

			case trace == nil || tt.trace == nil || *trace != *tt.trace:
				t.Errorf("Got trace %+v, want %+v", trace, tt.trace)
			}
		})
	}
}

func TestFuncErrorPosition(t *testing.T) {
	t.Parallel()

	doc := &ast.CommentGroup{List: []*ast.Comment{{Slash: 42, Text: "//stableguard:bogus"}}}

	_, err := Func(doc)

	var derr *Error
	if !errors.As(err, &derr) {
		t.Fatalf("Got error %v, want *Error", err)
	}

	if derr.Pos != 42 {
		t.Errorf("Got position %d, want 42", derr.Pos)
	}
}

func TestType(t *testing.T) {
	t.Parallel()

	m, err := Type(group("// State holds.", "//stableguard:stable", "//stableguard:serializable"))
	if err != nil {
		t.Fatalf("Got error %v", err)
	}

	if !m.Enabled(classify.MarkerStable) || !m.Enabled(classify.MarkerSerializable) || m.Enabled(classify.MarkerRuntime) {
		t.Errorf("Got markers %b", m.Bits())
	}

	if _, err := Type(group("//stableguard:trace")); !errors.Is(err, ErrMisplacedDirective) {
		t.Errorf("Got error %v, want %v", err, ErrMisplacedDirective)
	}
}

func TestIndex(t *testing.T) {
	t.Parallel()

	const src = `
//stableguard:stable
type State struct{ n int }

type (
	// Plain is not marked.
	Plain struct{}

	//stableguard:runtime
	Hidden struct{ p *int }
)

//stableguard:composable
type Broken int
`

	fset, f := testsource.ParseFile(t, src)
	pkg, info := testsource.Check(t, fset, f)

	idx, err := NewIndex([]*ast.File{f}, info)
	if !errors.Is(err, ErrMisplacedDirective) {
		t.Errorf("Got error %v, want %v", err, ErrMisplacedDirective)
	}

	lookup := func(name string) classify.Markers {
		tn, _ := pkg.Scope().Lookup(name).(*types.TypeName)

		return idx.Markers(tn)
	}

	if m := lookup("State"); !m.Enabled(classify.MarkerStable) {
		t.Errorf("State markers %b, want stable", m.Bits())
	}

	if m := lookup("Hidden"); !m.Enabled(classify.MarkerRuntime) {
		t.Errorf("Hidden markers %b, want runtime", m.Bits())
	}

	if m := lookup("Plain"); m.Bits() != 0 {
		t.Errorf("Plain markers %b, want none", m.Bits())
	}

	if len(idx) != 2 {
		t.Errorf("Got %d indexed types, want 2", len(idx))
	}
}
