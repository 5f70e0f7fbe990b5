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

// Package inject rewrites traced functions to report their recompositions.
//
// A traced function
//
//	func Header(title string, items []string) {
//		...
//	}
//
// is rewritten to
//
//	func Header(title string, items []string) {
//		_recomposeTracker := recompose.Acquire("example.com/ui.Header", "", 1)
//		_recomposeTracker.TrackParameter("title", "string", title, true)
//		_recomposeTracker.TrackParameter("items", "[]string", items, false)
//		_recomposeTracker.LogIfThresholdMet()
//		...
//	}
//
// The original statements are kept unchanged after the injected prefix.
package inject

import (
	"errors"
	"fmt"
	"go/types"
)

// Convention is the calling convention of the injected tracker method calls.
type Convention uint8

const (
	// MethodValue calls methods on the tracker: t.Track(args...).
	MethodValue Convention = iota

	// MethodExpression passes the tracker as first argument: (*Tracker).Track(t, args...).
	MethodExpression
)

// ArgSlot is the index of the i-th method argument in the argument list of the call.
func (c Convention) ArgSlot(i int) int {
	if c == MethodExpression {
		return i + 1
	}

	return i
}

// Symbols are the runtime API used by injected code.
type Symbols struct {
	// Package is the name the runtime package is imported as.
	Package string

	// Path is the import path of the runtime package.
	Path string

	Tracker string // tracker type
	Acquire string // func(name, tag string, threshold int) *Tracker
	Track   string // method (name, typ string, value any, stable bool)
	Flush   string // method ()

	Convention Convention
}

// Runtime defaults.
const (
	RuntimePath    = "fillmore-labs.com/stableguard/recompose"
	RuntimePackage = "recompose"
)

// ErrSymbolMissing is returned when the runtime package lacks a required symbol.
var ErrSymbolMissing = errors.New("runtime symbol missing")

// ResolveSymbols looks up the runtime API in a type-checked runtime package.
func ResolveSymbols(pkg *types.Package, conv Convention) (Symbols, error) {
	if pkg == nil {
		return Symbols{}, fmt.Errorf("%w: package %s not loaded", ErrSymbolMissing, RuntimePath)
	}

	scope := pkg.Scope()

	tn, ok := scope.Lookup("Tracker").(*types.TypeName)
	if !ok {
		return Symbols{}, fmt.Errorf("%w: %s.Tracker", ErrSymbolMissing, pkg.Path())
	}

	tracker := types.NewPointer(tn.Type())

	acquire, ok := scope.Lookup("Acquire").(*types.Func)
	if !ok || !returns(acquire, tracker) || arity(acquire) != 3 {
		return Symbols{}, fmt.Errorf("%w: %s.Acquire", ErrSymbolMissing, pkg.Path())
	}

	for name, args := range map[string]int{"TrackParameter": 4, "LogIfThresholdMet": 0} {
		obj, _, _ := types.LookupFieldOrMethod(tracker, false, pkg, name)

		m, ok := obj.(*types.Func)
		if !ok || arity(m) != args {
			return Symbols{}, fmt.Errorf("%w: (*%s.Tracker).%s", ErrSymbolMissing, pkg.Path(), name)
		}
	}

	return Symbols{
		Package:    pkg.Name(),
		Path:       pkg.Path(),
		Tracker:    tn.Name(),
		Acquire:    acquire.Name(),
		Track:      "TrackParameter",
		Flush:      "LogIfThresholdMet",
		Convention: conv,
	}, nil
}

// DefaultSymbols are the symbols of this module's runtime package.
func DefaultSymbols() Symbols {
	return Symbols{
		Package: RuntimePackage,
		Path:    RuntimePath,
		Tracker: "Tracker",
		Acquire: "Acquire",
		Track:   "TrackParameter",
		Flush:   "LogIfThresholdMet",
	}
}

// Valid reports whether every symbol is set.
func (s Symbols) Valid() bool {
	if s.Package == "" || s.Acquire == "" || s.Track == "" || s.Flush == "" {
		return false
	}

	return s.Convention == MethodValue || s.Tracker != ""
}

func arity(fn *types.Func) int {
	sig, ok := fn.Type().(*types.Signature)
	if !ok {
		return -1
	}

	return sig.Params().Len()
}

func returns(fn *types.Func, t types.Type) bool {
	sig, ok := fn.Type().(*types.Signature)

	return ok && sig.Results().Len() == 1 && types.Identical(sig.Results().At(0).Type(), t)
}
