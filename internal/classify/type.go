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

package classify

import "fillmore-labs.com/stableguard/internal/config"

// Kind is the structural category of a [Type].
type Kind uint8

const (
	// Invalid types are malformed or unresolved references.
	Invalid Kind = iota

	// Nullable wraps a non-null component, see [Type.Elem].
	Nullable

	// TypeParameter is an unresolved generic type parameter.
	TypeParameter

	// Function is a function or lambda type.
	Function

	// Primitive covers numbers, booleans, text and unit types.
	Primitive

	// ImmutableCollection is a collection that cannot be modified after construction.
	ImmutableCollection

	// MutableCollection is a collection that can be modified in place.
	MutableCollection

	// Value is a wrapper of a single value, see [Type.Elem].
	Value

	// Enum is a type with a fixed set of singleton instances.
	Enum

	// Class is a declaration with inspectable members, see [Type.Members].
	Class

	// Interface is an interface or abstract declaration without a concrete shape.
	Interface

	// Opaque is a declaration whose members cannot be inspected.
	Opaque
)

// Marker is a stability-relevant annotation on a declaration.
type Marker uint8

const (
	// MarkerStable declares a type stable.
	MarkerStable Marker = 1 << iota

	// MarkerImmutable declares a type immutable, which implies stable.
	MarkerImmutable

	// MarkerSerializable restricts inference to the declared members.
	MarkerSerializable

	// MarkerRuntime defers the stability decision to runtime.
	MarkerRuntime

	// MarkerSkip excludes a type from stability reports.
	MarkerSkip
)

// Markers is a set of [Marker] values.
type Markers = config.BitMask[Marker]

// Type describes a type for stability classification.
//
// Implementations resolve their structure lazily, so self-referential type
// graphs can be described without building them eagerly.
type Type interface {
	// Kind is the structural category.
	Kind() Kind

	// Key identifies the type, including generic arguments.
	Key() string

	// Name is the qualified declaration name without generic arguments,
	// e.g. "time.Time". It is empty for unnamed types.
	Name() string

	// String is the display form.
	String() string

	// Elem is the wrapped type of a [Nullable] or [Value] type.
	Elem() Type

	// Markers are the annotations on the declaration.
	Markers() Markers

	// Members are the declared properties of a [Class].
	Members() []Member

	// Supertypes are the declared supertypes.
	Supertypes() []Type
}

// Member is a declared property of a class.
type Member struct {
	Name    string
	Mutable bool
	Type    Type
}
