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

// Package gotypes describes [go/types] types for stability classification.
package gotypes

import (
	"go/types"
	"reflect"
	"sync"

	"fillmore-labs.com/stableguard/internal/classify"
)

// MarkerSource provides the directive markers of type declarations.
type MarkerSource interface {
	Markers(tn *types.TypeName) classify.Markers
}

// Adapter converts [types.Type] into [classify.Type].
//
// An Adapter is safe for concurrent use when its [MarkerSource] is.
type Adapter struct {
	markers MarkerSource
	enums   sync.Map // *types.TypeName → bool
}

// New creates an [Adapter]. markers may be nil.
func New(markers MarkerSource) *Adapter {
	return &Adapter{markers: markers}
}

// Type describes t. A nil t describes an unresolved type.
func (a *Adapter) Type(t types.Type) classify.Type {
	if t == nil {
		t = types.Typ[types.Invalid]
	}

	return goType{a: a, t: t}
}

// Markers returns the markers of a named type.
func (a *Adapter) Markers(t types.Type) classify.Markers {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok || a.markers == nil {
		return classify.Markers{}
	}

	return a.markers.Markers(named.Origin().Obj())
}

type goType struct {
	a *Adapter
	t types.Type
}

var _ classify.Type = goType{}

// StabilityTag is the struct tag key marking a field as mutable:
//
//	count int `stability:"mutable"`
const StabilityTag = "stability"

func (g goType) Kind() classify.Kind {
	switch t := types.Unalias(g.t).(type) {
	case *types.Pointer:
		return classify.Nullable

	case *types.TypeParam:
		return classify.TypeParameter

	case *types.Signature:
		return classify.Function

	case *types.Basic:
		if t.Kind() == types.Invalid || t.Kind() == types.UnsafePointer {
			return classify.Invalid
		}

		return classify.Primitive

	case *types.Slice, *types.Map, *types.Chan:
		return classify.MutableCollection

	case *types.Array:
		return classify.Value

	case *types.Struct:
		if t.NumFields() == 0 {
			return classify.Primitive
		}

		return classify.Class

	case *types.Interface:
		return classify.Interface

	case *types.Named:
		return g.namedKind(t)

	default:
		return classify.Invalid
	}
}

func (g goType) namedKind(t *types.Named) classify.Kind {
	if g.Markers().Enabled(classify.MarkerRuntime) {
		return classify.Opaque
	}

	if syncPackage(t.Obj().Pkg()) {
		return classify.MutableCollection
	}

	switch u := t.Underlying().(type) {
	case *types.Struct:
		switch {
		case u.NumFields() == 0:
			return classify.Primitive

		case u.NumFields() == 1 && !mutableField(u, 0):
			return classify.Value

		default:
			return classify.Class
		}

	case *types.Interface:
		return classify.Interface

	case *types.Basic:
		if u.Kind() == types.Invalid || u.Kind() == types.UnsafePointer {
			return classify.Invalid
		}

		if g.a.isEnum(t) {
			return classify.Enum
		}

		return classify.Value

	default:
		return classify.Value
	}
}

func (g goType) Key() string { return types.TypeString(g.t, nil) }

func (g goType) Name() string {
	switch t := types.Unalias(g.t).(type) {
	case *types.Named:
		obj := t.Origin().Obj()
		if obj.Pkg() == nil {
			return obj.Name() // error
		}

		return obj.Pkg().Path() + "." + obj.Name()

	case *types.Basic:
		return t.Name()

	default:
		return ""
	}
}

func (g goType) String() string {
	return types.TypeString(g.t, func(p *types.Package) string { return p.Name() })
}

func (g goType) Elem() classify.Type {
	switch t := types.Unalias(g.t).(type) {
	case *types.Pointer:
		return g.a.Type(t.Elem())

	case *types.Array:
		return g.a.Type(t.Elem())

	case *types.Named:
		if s, ok := t.Underlying().(*types.Struct); ok {
			if s.NumFields() != 1 {
				return nil
			}

			return g.a.Type(s.Field(0).Type())
		}

		return g.a.Type(t.Underlying())

	default:
		return nil
	}
}

func (g goType) Markers() classify.Markers { return g.a.Markers(g.t) }

func (g goType) Members() []classify.Member {
	s, ok := g.t.Underlying().(*types.Struct)
	if !ok {
		return nil
	}

	members := make([]classify.Member, 0, s.NumFields())
	for i := range s.NumFields() {
		f := s.Field(i)
		members = append(members, classify.Member{
			Name:    f.Name(),
			Mutable: mutableField(s, i),
			Type:    g.a.Type(f.Type()),
		})
	}

	return members
}

func (g goType) Supertypes() []classify.Type {
	iface, ok := g.t.Underlying().(*types.Interface)
	if !ok {
		return nil
	}

	supertypes := make([]classify.Type, 0, iface.NumEmbeddeds())
	for i := range iface.NumEmbeddeds() {
		supertypes = append(supertypes, g.a.Type(iface.EmbeddedType(i)))
	}

	return supertypes
}

// mutableField reports whether the i-th field of s can change after construction.
func mutableField(s *types.Struct, i int) bool {
	if reflect.StructTag(s.Tag(i)).Get(StabilityTag) == "mutable" {
		return true
	}

	named, ok := types.Unalias(s.Field(i).Type()).(*types.Named)

	return ok && syncPackage(named.Obj().Pkg())
}

func syncPackage(pkg *types.Package) bool {
	if pkg == nil {
		return false
	}

	switch pkg.Path() {
	case "sync", "sync/atomic":
		return true

	default:
		return false
	}
}

// isEnum reports whether a named basic type has package-level constants.
func (a *Adapter) isEnum(t *types.Named) bool {
	obj := t.Origin().Obj()
	if cached, ok := a.enums.Load(obj); ok {
		return cached.(bool)
	}

	enum := false

	if pkg := obj.Pkg(); pkg != nil {
		scope := pkg.Scope()
		for _, name := range scope.Names() {
			c, ok := scope.Lookup(name).(*types.Const)
			if ok && types.Identical(c.Type(), t) {
				enum = true

				break
			}
		}
	}

	a.enums.Store(obj, enum)

	return enum
}
