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

package run

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/types"
	"reflect"
	"runtime/trace"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"fillmore-labs.com/stableguard/internal/astutil"
	"fillmore-labs.com/stableguard/internal/classify"
	"fillmore-labs.com/stableguard/internal/config"
	"fillmore-labs.com/stableguard/internal/directive"
	"fillmore-labs.com/stableguard/internal/report"
	"fillmore-labs.com/stableguard/internal/session"
	"fillmore-labs.com/stableguard/internal/stability"
)

// ErrResultMissing is returned when a required analyzer result is missing.
// This typically indicates a configuration error where the analyzer's
// Requires field is not properly set.
var ErrResultMissing = errors.New("analyzer result missing")

// TypeMarkers is the object fact exported for type declarations with directives.
type TypeMarkers struct {
	Bits classify.Marker
}

// AFact implements [analysis.Fact].
func (*TypeMarkers) AFact() {}

func (f *TypeMarkers) String() string { return fmt.Sprintf("markers(%05b)", f.Bits) }

// Result is the result of the stableguard analyzer for one package.
type Result struct {
	// Functions are the summaries of the composable functions.
	Functions []stability.ComposableInfo

	// Ignored are the qualified names of functions excluded from reports.
	Ignored []string
}

// ResultType is the [reflect.Type] of the analyzer result.
var ResultType = reflect.TypeFor[*Result]()

// Run executes the stableguard analyzer's pipeline.
func (r *Options) Run(p *analysis.Pass) (any, error) {
	// Retrieves the [inspector.Inspector] from the pass results.
	in, ok := p.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	if !ok {
		return nil, fmt.Errorf("stableguard: %s %w", inspect.Analyzer.Name, ErrResultMissing)
	}

	s, err := r.Session()
	if err != nil {
		return nil, fmt.Errorf("stableguard: %w", err)
	}

	ctx := context.Background()

	ctx, task := trace.NewTask(ctx, "StableGuard")
	defer task.End()

	trace.Log(ctx, "package", p.Pkg.Path())

	// Collect the files with valid position info
	files := make([]*ast.File, 0, len(p.Files))

	for f := range in.Root().Children() {
		file := f.Node().(*ast.File)

		if !astutil.NewCurrentFile(p.Fset, file).Valid() {
			astutil.InternalError(p, file, "File %s without valid info", file.Name.Name)

			continue
		}

		files = append(files, file)
	}

	// Stage 1: Index type directives and share them with dependent packages
	idx, idxErr := directive.NewIndex(files, p.TypesInfo)
	for tn, m := range idx {
		p.ExportObjectFact(tn, &TypeMarkers{Bits: m.Bits()})
	}

	// Stage 2: Analyze the composable functions
	unit := session.Unit{Fset: p.Fset, Files: files, Pkg: p.Pkg, Info: p.TypesInfo}
	result := s.AnalyzeUnit(ctx, unit, factMarkers{p: p, local: idx})

	switch err := idxErr.(type) {
	case nil:

	case interface{ Unwrap() []error }:
		result.Errors = append(result.Errors, err.Unwrap()...)

	default:
		result.Errors = append(result.Errors, err)
	}

	// Stage 3: Generate diagnostics
	report.ProcessDiagnostics(ctx, p, report.NewFiles(p.Fset, files), result, r.Report)

	return &Result{Functions: result.Infos(), Ignored: result.Ignored}, nil
}

// factMarkers resolves markers from syntax for the current package and from facts otherwise.
type factMarkers struct {
	p     *analysis.Pass
	local directive.Index
}

func (f factMarkers) Markers(tn *types.TypeName) classify.Markers {
	if tn.Pkg() == f.p.Pkg {
		return f.local.Markers(tn)
	}

	var fact TypeMarkers
	if !f.p.ImportObjectFact(tn, &fact) {
		return classify.Markers{}
	}

	return config.FromBits(fact.Bits)
}
