// Copyright 2025 Oliver Eikemeier. All Rights Reserved.
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

package analyzer

import (
	"golang.org/x/tools/go/analysis"

	"fillmore-labs.com/stableguard/internal/run"
)

const (
	name = "stableguard"
	doc  = `stableguard reports composable functions that can't be skipped because of unstable parameters`
	url  = "https://pkg.go.dev/fillmore-labs.com/stableguard"
)

// TypeMarkers is the fact exported for type declarations carrying stability directives.
type TypeMarkers = run.TypeMarkers

// Result is the per-package result of the [Analyzer].
type Result = run.Result

// New creates a new stableguard [analysis.Analyzer] with the given options.
func New(opts ...Option) *analysis.Analyzer {
	r := makeRunOptions(opts)

	a := analyzer(r)

	registerFlags(r, &a.Flags)

	return a
}

// Analyzer is the stableguard [analysis.Analyzer] with default options.
var Analyzer = New()
