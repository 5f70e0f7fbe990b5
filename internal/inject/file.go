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

package inject

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/printer"
	"go/token"
	"iter"
	"strconv"
	"strings"

	"golang.org/x/tools/go/ast/astutil"

	"fillmore-labs.com/stableguard/internal/stability"
)

// Target is a traced function of a file.
type Target struct {
	Decl      *ast.FuncDecl
	Name      string // qualified function name
	Tag       string
	Threshold int
	Info      stability.ComposableInfo
}

// Stats counts the results of instrumenting a file.
type Stats struct {
	Injected int
	Skipped  int
	Params   int
}

// Add accumulates stats.
func (s *Stats) Add(o Stats) {
	s.Injected += o.Injected
	s.Skipped += o.Skipped
	s.Params += o.Params
}

// File instruments the targets of a file and imports the runtime package when needed.
//
// Targets that cannot be instrumented are skipped and left unchanged.
func File(fset *token.FileSet, f *ast.File, targets []Target, sym Symbols) Stats {
	var stats Stats

	if len(targets) == 0 {
		return stats
	}

	sym.Package = importName(f, targets, sym)

	for _, t := range targets {
		params := Params(t.Decl, t.Info)
		if !Inject(t.Decl, t.Name, t.Tag, t.Threshold, params, sym) {
			stats.Skipped++

			continue
		}

		stats.Injected++
		stats.Params += len(params)
	}

	if stats.Injected > 0 && sym.Path != "" {
		if sym.Package == defaultName(sym.Path) {
			astutil.AddImport(fset, f, sym.Path)
		} else {
			astutil.AddNamedImport(fset, f, sym.Package, sym.Path)
		}
	}

	return stats
}

// Print formats an instrumented file.
func Print(fset *token.FileSet, f *ast.File) ([]byte, error) {
	var buf bytes.Buffer

	cfg := &printer.Config{Mode: printer.UseSpaces | printer.TabIndent, Tabwidth: 8}
	if err := cfg.Fprint(&buf, fset, f); err != nil {
		return nil, fmt.Errorf("printing %s: %w", fset.Position(f.Package).Filename, err)
	}

	return buf.Bytes(), nil
}

// importName returns the name the runtime package is, or will be, imported as.
//
// The name must not be shadowed by the receiver, type parameters, parameters or
// results of any target.
func importName(f *ast.File, targets []Target, sym Symbols) string {
	taken := make(map[string]struct{})

	for _, t := range targets {
		for name := range signatureNames(t.Decl) {
			taken[name] = struct{}{}
		}
	}

	for _, imp := range f.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}

		name := defaultName(path)
		if imp.Name != nil {
			name = imp.Name.Name
		}

		if _, shadowed := taken[name]; path == sym.Path && name != "_" && name != "." && !shadowed {
			return name
		}

		taken[name] = struct{}{}
	}

	for _, decl := range f.Decls {
		switch decl := decl.(type) {
		case *ast.FuncDecl:
			if decl.Recv == nil {
				taken[decl.Name.Name] = struct{}{}
			}

		case *ast.GenDecl:
			for _, spec := range decl.Specs {
				switch spec := spec.(type) {
				case *ast.TypeSpec:
					taken[spec.Name.Name] = struct{}{}

				case *ast.ValueSpec:
					for _, id := range spec.Names {
						taken[id.Name] = struct{}{}
					}
				}
			}
		}
	}

	name := sym.Package
	for i := 1; ; i++ {
		if _, ok := taken[name]; !ok {
			return name
		}

		name = sym.Package + strconv.Itoa(i)
	}
}

// signatureNames yields the identifiers declared by the signature of decl.
func signatureNames(decl *ast.FuncDecl) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, fields := range []*ast.FieldList{decl.Recv, decl.Type.TypeParams, decl.Type.Params, decl.Type.Results} {
			if fields == nil {
				continue
			}

			for _, field := range fields.List {
				for _, id := range field.Names {
					if !yield(id.Name) {
						return
					}
				}
			}
		}
	}
}

func defaultName(path string) string {
	return path[strings.LastIndexByte(path, '/')+1:]
}
