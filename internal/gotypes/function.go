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

package gotypes

import (
	"go/types"
	"strings"

	"fillmore-labs.com/stableguard/internal/composable"
	"fillmore-labs.com/stableguard/internal/directive"
	"fillmore-labs.com/stableguard/internal/stability"
)

// Visibility of a function in reports.
const (
	Exported   = "exported"
	Unexported = "unexported"
)

// Function describes a function declaration for stability analysis.
func (a *Adapter) Function(fn *types.Func, d directive.FuncDirectives) composable.Function {
	sig, _ := fn.Type().(*types.Signature)

	f := composable.Function{
		Name:           fn.Name(),
		QualifiedName:  QualifiedName(fn),
		Visibility:     Unexported,
		NonRestartable: d.NonRestartable,
		Readonly:       d.Readonly,
	}

	if fn.Exported() {
		f.Visibility = Exported
	}

	if sig == nil {
		return f
	}

	f.ReturnType = ReturnType(sig)

	if recv := sig.Recv(); recv != nil {
		f.Receivers = []composable.Receiver{{Type: a.Type(recv.Type()), Kind: stability.Dispatch}}
	}

	params := sig.Params()

	f.Params = make([]composable.Param, 0, params.Len())
	for v := range params.Variables() {
		f.Params = append(f.Params, composable.Param{Name: v.Name(), Type: a.Type(v.Type())})
	}

	return f
}

// QualifiedName is the package path qualified name of a function.
//
// Methods are qualified by their receiver base type: "example.com/ui.Card.Render".
func QualifiedName(fn *types.Func) string {
	var b strings.Builder

	if pkg := fn.Pkg(); pkg != nil {
		b.WriteString(pkg.Path())
		b.WriteByte('.')
	}

	if sig, ok := fn.Type().(*types.Signature); ok && sig.Recv() != nil {
		t := sig.Recv().Type()
		if p, ok := t.(*types.Pointer); ok {
			t = p.Elem()
		}

		if named, ok := types.Unalias(t).(*types.Named); ok {
			b.WriteString(named.Obj().Name())
			b.WriteByte('.')
		}
	}

	b.WriteString(fn.Name())

	return b.String()
}

// ReturnType is the display form of the results of a signature.
func ReturnType(sig *types.Signature) string {
	qualifier := func(p *types.Package) string { return p.Name() }

	results := sig.Results()
	switch results.Len() {
	case 0:
		return "()"

	case 1:
		return types.TypeString(results.At(0).Type(), qualifier)

	default:
		s := make([]string, 0, results.Len())
		for v := range results.Variables() {
			s = append(s, types.TypeString(v.Type(), qualifier))
		}

		return "(" + strings.Join(s, ", ") + ")"
	}
}
