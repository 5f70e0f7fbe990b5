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


// Package testsource provides utilities for parsing and analyzing Go source code in tests.
//
// It is designed to simplify testing of the stableguard front end by handling common
// boilerplate code for parsing and type-checking Go source files.
package testsource

import (
	"bytes"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"testing"
)

const (
	testpkg  = "test"
	filename = "test.go"
)

// ParseFile parses top-level declarations into an AST.
// The provided source `src` is prefixed with the `package test` clause,
// so it may contain imports, types and functions. Comments are retained.
func ParseFile(tb testing.TB, src string) (*token.FileSet, *ast.File) {
	tb.Helper()

	var srcFile bytes.Buffer
	srcFile.WriteString("package " + testpkg + "\n") // ignore error
	srcFile.WriteString(src)                         // ignore error

	return parse(tb, &srcFile)
}

// Check performs type checking on the provided AST files.
// It creates and returns a fully type-checked *types.Package and *types.Info.
// Use this helper when testing components that require type information
// (e.g. for method lookup, type identity or declared markers).
func Check(tb testing.TB, fset *token.FileSet, f *ast.File) (*types.Package, *types.Info) {
	tb.Helper()

	info := &types.Info{
		Types:      make(map[ast.Expr]types.TypeAndValue),
		Defs:       make(map[*ast.Ident]types.Object),
		Uses:       make(map[*ast.Ident]types.Object),
		Selections: make(map[*ast.SelectorExpr]*types.Selection),
		Scopes:     make(map[ast.Node]*types.Scope),
	}

	conf := types.Config{Importer: importer.Default()}

	pkg, err := conf.Check(testpkg, fset, []*ast.File{f}, info)
	if err != nil {
		tb.Fatalf("failed to type Check source: %v", err)
	}

	return pkg, info
}

// FuncDecl returns the first top-level function with the given name.
func FuncDecl(tb testing.TB, f *ast.File, name string) *ast.FuncDecl {
	tb.Helper()

	for _, decl := range f.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok && fn.Name.Name == name {
			return fn
		}
	}

	tb.Fatalf("Can't find function %s", name)

	return nil
}

func parse(tb testing.TB, src *bytes.Buffer) (*token.FileSet, *ast.File) {
	tb.Helper()

	fset := token.NewFileSet()
	text := src.String()

	f, err := parser.ParseFile(fset, filename, text, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		tb.Fatalf("Failed to parse source %q: %v", text, err)
	}

	return fset, f
}
