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

package report

import (
	"go/ast"
	"go/token"

	"fillmore-labs.com/stableguard/internal/astutil"
)

// Files locates the file of a position.
type Files []astutil.CurrentFile

// NewFiles creates [Files] for the given syntax trees.
func NewFiles(fset *token.FileSet, files []*ast.File) Files {
	fs := make(Files, 0, len(files))
	for _, f := range files {
		fs = append(fs, astutil.NewCurrentFile(fset, f))
	}

	return fs
}

// At returns the file containing pos, or an invalid [astutil.CurrentFile].
func (fs Files) At(pos token.Pos) astutil.CurrentFile {
	for _, f := range fs {
		if f.Contains(pos) {
			return f
		}
	}

	return astutil.CurrentFile{}
}
