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

package directive

import (
	"errors"
	"go/ast"
	"go/token"
	"go/types"
	"iter"

	"fillmore-labs.com/stableguard/internal/classify"
)

// Index holds the markers of type declarations gathered from syntax.
type Index map[*types.TypeName]classify.Markers

// NewIndex collects the type directives of the given files.
//
// Types without directives are not recorded. Directive errors are returned
// joined, the valid markers are still indexed.
func NewIndex(files []*ast.File, info *types.Info) (Index, error) {
	idx := make(Index)

	var errs []error

	for _, f := range files {
		for spec, doc := range TypeSpecs(f) {
			m, err := Type(doc)
			if err != nil {
				errs = append(errs, err)
			}

			if m.Bits() == 0 {
				continue
			}

			if tn, ok := info.Defs[spec.Name].(*types.TypeName); ok {
				idx[tn] = m
			}
		}
	}

	return idx, errors.Join(errs...)
}

// Markers returns the markers of a type declaration.
func (i Index) Markers(tn *types.TypeName) classify.Markers {
	return i[tn]
}

// TypeSpecs yields the type specifications of a file with their doc comments.
//
// An ungrouped declaration carries its comment on the declaration, not the specification.
func TypeSpecs(f *ast.File) iter.Seq2[*ast.TypeSpec, *ast.CommentGroup] {
	return func(yield func(*ast.TypeSpec, *ast.CommentGroup) bool) {
		for _, decl := range f.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}

			for _, spec := range gen.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}

				doc := ts.Doc
				if doc == nil && !gen.Lparen.IsValid() {
					doc = gen.Doc
				}

				if !yield(ts, doc) {
					return
				}
			}
		}
	}
}
