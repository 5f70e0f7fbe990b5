// Copyright 2025-2026 Oliver Eikemeier. All Rights Reserved.
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

package astutil_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	. "fillmore-labs.com/stableguard/internal/astutil"
)

func parse(t *testing.T, name, src string) (*token.FileSet, *ast.File) {
	t.Helper()

	fset := token.NewFileSet()

	f, err := parser.ParseFile(fset, name, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		t.Fatalf("Can't parse: %v", err)
	}

	return fset, f
}

func TestCurrentFile(t *testing.T) {
	t.Parallel()

	const generated = "// Code generated by stringer. DO NOT EDIT.\n\npackage a\n"

	tests := []struct {
		name      string
		file      string
		src       string
		generated bool
		tests     bool
		skip      bool
	}{
		{"plain", "a.go", "package a\n", false, false, false},
		{"generated", "a.go", generated, false, false, true},
		{"generated included", "a.go", generated, true, false, false},
		{"test", "a_test.go", "package a\n", false, false, true},
		{"test included", "a_test.go", "package a\n", false, true, false},
		{"nolint", "a.go", "//nolint:stableguard\npackage a\n", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fset, f := parse(t, tt.file, tt.src)

			c := NewCurrentFile(fset, f)
			if !c.Valid() || c.Name() != tt.file {
				t.Fatalf("Got invalid file %q", c.Name())
			}

			if got := c.Skip(tt.generated, tt.tests); got != tt.skip {
				t.Errorf("Skip(%t, %t) = %t, want %t", tt.generated, tt.tests, got, tt.skip)
			}
		})
	}

	if NewCurrentFile(token.NewFileSet(), nil).Valid() {
		t.Error("Got valid file for nil")
	}
}

func TestFuncDecls(t *testing.T) {
	t.Parallel()

	const src = `package a

func a() {}

//nolint:stableguard
func b() {}

func c()

// nolint:all
func d() {}

func (x T) e() { //nolint:stableguard
}

type T int
`

	fset, f := parse(t, "a.go", src)

	var names []string
	for fun := range FuncDecls(f) {
		names = append(names, fun.Name.Name)
	}

	if len(names) != 2 || names[0] != "a" || names[1] != "e" {
		t.Errorf("Got %v, want [a e]", names)
	}

	c := NewCurrentFile(fset, f)

	for fun := range FuncDecls(f) {
		if got, want := c.NoLintComment(fun.Name.Pos()), fun.Name.Name == "e"; got != want {
			t.Errorf("NoLintComment(%s) = %t, want %t", fun.Name.Name, got, want)
		}

		if !c.Contains(fun.Pos()) {
			t.Errorf("Function %s not contained in file", fun.Name.Name)
		}
	}
}
