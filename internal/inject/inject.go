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
	"go/ast"
	"go/token"
	"strconv"

	"fillmore-labs.com/stableguard/internal/stability"
)

// Param is a parameter reported to the tracker.
type Param struct {
	Name      string   // display name
	Type      string   // display type
	Value     ast.Expr // reference to the parameter value
	Stability stability.Value
}

// trackerVar is the base name of the injected tracker variable.
const trackerVar = "_recomposeTracker"

// Inject prepends tracking of fn's invocations to its body.
//
// The injected prefix acquires the tracker of (name, tag), records every
// parameter in order and flushes the tracker. Inject returns false without
// modifying fn when fn has no body, a symbol is missing or a parameter has no
// value reference.
func Inject(fn *ast.FuncDecl, name, tag string, threshold int, params []Param, sym Symbols) bool {
	if fn == nil || fn.Body == nil || !sym.Valid() || threshold < 1 {
		return false
	}

	for _, p := range params {
		if p.Value == nil {
			return false
		}
	}

	tracker := ast.NewIdent(freeName(fn, trackerVar))

	prefix := make([]ast.Stmt, 0, len(params)+2)

	prefix = append(prefix, &ast.AssignStmt{
		Lhs: []ast.Expr{tracker},
		Tok: token.DEFINE,
		Rhs: []ast.Expr{&ast.CallExpr{
			Fun:  selector(ast.NewIdent(sym.Package), sym.Acquire),
			Args: []ast.Expr{str(name), str(tag), integer(threshold)},
		}},
	})

	for _, p := range params {
		args := []ast.Expr{str(p.Name), str(p.Type), p.Value, boolean(p.Stability == stability.Stable)}
		prefix = append(prefix, &ast.ExprStmt{X: sym.methodCall(tracker, sym.Track, args)})
	}

	prefix = append(prefix, &ast.ExprStmt{X: sym.methodCall(tracker, sym.Flush, nil)})

	fn.Body.List = append(prefix, fn.Body.List...)

	return true
}

// methodCall builds a call of a tracker method following the calling convention.
func (s Symbols) methodCall(tracker *ast.Ident, method string, args []ast.Expr) *ast.CallExpr {
	if s.Convention != MethodExpression {
		return &ast.CallExpr{Fun: selector(ast.NewIdent(tracker.Name), method), Args: args}
	}

	recv := &ast.ParenExpr{X: &ast.StarExpr{X: selector(ast.NewIdent(s.Package), s.Tracker)}}

	all := make([]ast.Expr, len(args)+1)
	all[0] = ast.NewIdent(tracker.Name)

	for i, arg := range args {
		all[s.Convention.ArgSlot(i)] = arg
	}

	return &ast.CallExpr{Fun: &ast.SelectorExpr{X: recv, Sel: ast.NewIdent(method)}, Args: all}
}

// Params lists the parameters of fn that can be referenced, in declaration order.
//
// Display types and stabilities are taken from info, which describes the
// parameters of fn including unnamed and blank ones.
func Params(fn *ast.FuncDecl, info stability.ComposableInfo) []Param {
	if fn == nil || fn.Type.Params == nil {
		return nil
	}

	var (
		params []Param
		i      int
	)

	for _, field := range fn.Type.Params.List {
		if len(field.Names) == 0 {
			i++ // unnamed

			continue
		}

		for _, id := range field.Names {
			idx := i
			i++

			if id.Name == "_" || idx >= len(info.Parameters) {
				continue
			}

			p := info.Parameters[idx]
			params = append(params, Param{
				Name:      id.Name,
				Type:      p.Type,
				Value:     ast.NewIdent(id.Name),
				Stability: p.Stability,
			})
		}
	}

	return params
}

// freeName returns base, or base with a numeric suffix, unused in fn.
func freeName(fn *ast.FuncDecl, base string) string {
	used := make(map[string]struct{})

	ast.Inspect(fn, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			used[id.Name] = struct{}{}
		}

		return true
	})

	name := base
	for i := 1; ; i++ {
		if _, ok := used[name]; !ok {
			return name
		}

		name = base + strconv.Itoa(i)
	}
}

func selector(x ast.Expr, sel string) *ast.SelectorExpr {
	return &ast.SelectorExpr{X: x, Sel: ast.NewIdent(sel)}
}

func str(s string) *ast.BasicLit {
	return &ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(s)}
}

func integer(n int) *ast.BasicLit {
	return &ast.BasicLit{Kind: token.INT, Value: strconv.Itoa(n)}
}

func boolean(b bool) *ast.Ident {
	return ast.NewIdent(strconv.FormatBool(b))
}
