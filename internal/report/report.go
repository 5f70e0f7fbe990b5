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

// Package report emits stability diagnostics for an analysis pass.
package report

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"runtime/trace"

	"golang.org/x/tools/go/analysis"

	"fillmore-labs.com/stableguard/analyzer/level"
	"fillmore-labs.com/stableguard/internal/astutil"
	"fillmore-labs.com/stableguard/internal/directive"
	"fillmore-labs.com/stableguard/internal/gotypes"
	"fillmore-labs.com/stableguard/internal/session"
	"fillmore-labs.com/stableguard/internal/stability"
)

// ProcessDiagnostics reports the findings of a package analysis.
//
// Composable functions that are restartable but not skippable are reported
// with the offending parameters and receivers as related information,
// followed by directive errors and functions that could not be analyzed.
func ProcessDiagnostics(ctx context.Context, p *analysis.Pass, files Files, r *session.Result, lvl level.Report) {
	defer trace.StartRegion(ctx, "Report").End()

	for _, e := range r.Entries {
		if e.Directives.Ignore || e.Decl == nil {
			continue
		}

		if !lvl.Includes(e.Info.Visibility == gotypes.Exported) {
			continue
		}

		if !e.Info.Restartable || e.Info.Skippable {
			continue
		}

		if files.At(e.Decl.Pos()).NoLintComment(e.Decl.Name.Pos()) {
			continue
		}

		reportNonSkippable(p, e)
	}

	for _, err := range r.Errors {
		reportDirective(p, err)
	}

	for _, u := range r.Unanalyzed {
		astutil.InternalError(p, rng{u.Pos, u.Pos}, "Can't analyze %s: %v", u.QualifiedName, u.Err)
	}
}

// reportNonSkippable emits a diagnostic for a composable function that always re-executes.
func reportNonSkippable(p *analysis.Pass, e session.Entry) {
	diagnostic := analysis.Diagnostic{
		Pos:     e.Decl.Name.Pos(),
		End:     e.Decl.Name.End(),
		Message: fmt.Sprintf("Composable function '%s' is restartable but not skippable (stable:nsk)", e.Info.Name),
	}

	if recv := e.Decl.Recv; recv != nil && len(recv.List) > 0 {
		for _, ri := range e.Info.Receivers {
			if ri.Stability == stability.Stable {
				continue
			}

			diagnostic.Related = append(diagnostic.Related, analysis.RelatedInformation{
				Pos:     recv.List[0].Pos(),
				End:     recv.List[0].End(),
				Message: fmt.Sprintf("Receiver of type %s is %s: %s", ri.Type, describe(ri.Stability), ri.Reason),
			})
		}
	}

	idents := paramIdents(e.Decl)

	for _, pi := range e.Info.Parameters {
		if pi.Stability == stability.Stable {
			continue
		}

		var pos, end token.Pos
		if id, ok := idents[pi.Name]; ok {
			pos, end = id.Pos(), id.End()
		} else {
			pos, end = e.Decl.Name.Pos(), e.Decl.Name.End()
		}

		diagnostic.Related = append(diagnostic.Related, analysis.RelatedInformation{
			Pos:     pos,
			End:     end,
			Message: fmt.Sprintf("Parameter '%s' of type %s is %s: %s", pi.Name, pi.Type, describe(pi.Stability), pi.Reason),
		})
	}

	p.Report(diagnostic)
}

// reportDirective emits a diagnostic for an invalid directive.
func reportDirective(p *analysis.Pass, err error) {
	var derr *directive.Error
	if !errors.As(err, &derr) {
		p.Report(analysis.Diagnostic{Pos: p.Files[0].Package, Message: fmt.Sprintf("Invalid directive: %v (stable:dir)", err)})

		return
	}

	end := derr.Pos + token.Pos(len(derr.Text))

	if errors.Is(derr, directive.ErrTraceNotComposable) {
		const composable = directive.Prefix + "composable\n"

		message := "Trace directive on a function that is not composable (stable:trc)"
		p.Report(analysis.Diagnostic{
			Pos:     derr.Pos,
			End:     end,
			Message: message,
			SuggestedFixes: []analysis.SuggestedFix{{
				Message:   "Mark the function composable",
				TextEdits: []analysis.TextEdit{{Pos: derr.Pos, End: derr.Pos, NewText: []byte(composable)}},
			}},
		})

		return
	}

	p.Report(analysis.Diagnostic{
		Pos:     derr.Pos,
		End:     end,
		Message: fmt.Sprintf("Invalid directive %q: %v (stable:dir)", derr.Text, derr.Err),
	})
}

func describe(v stability.Value) string {
	switch v {
	case stability.Unstable:
		return "unstable"

	case stability.Runtime:
		return "only known at runtime"

	default:
		return "stable"
	}
}

// paramIdents maps parameter names to their declaring identifiers.
func paramIdents(decl *ast.FuncDecl) map[string]*ast.Ident {
	idents := make(map[string]*ast.Ident)

	if decl.Type.Params == nil {
		return idents
	}

	for _, field := range decl.Type.Params.List {
		for _, id := range field.Names {
			idents[id.Name] = id
		}
	}

	return idents
}

type rng struct{ pos, end token.Pos }

func (r rng) Pos() token.Pos { return r.pos }

func (r rng) End() token.Pos { return r.end }
