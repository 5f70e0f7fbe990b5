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

import (
	"slices"

	"fillmore-labs.com/stableguard/internal/stability"
)

// Cache memoizes classification results by [Type.Key].
//
// Implementations must be safe for concurrent use when the [Classifier] is shared.
type Cache interface {
	Get(key string) (stability.Rich, bool)
	Add(key string, value stability.Rich) (evicted bool)
}

// Classifier computes the stability of types.
//
// A Classifier holds no per-call state, it can be used from multiple goroutines
// as long as the configured [Cache] is safe for concurrent use.
type Classifier struct {
	stableTypes []Pattern
	cache       Cache
}

// Option configures a [Classifier].
type Option func(c *Classifier)

// WithStableTypes adds patterns of types that are known to be stable.
func WithStableTypes(patterns ...Pattern) Option {
	return func(c *Classifier) { c.stableTypes = append(c.stableTypes, patterns...) }
}

// WithCache memoizes top-level classification results.
func WithCache(cache Cache) Option {
	return func(c *Classifier) { c.cache = cache }
}

// New creates a [Classifier].
func New(opts ...Option) *Classifier {
	c := &Classifier{}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Classify computes the stability of a type.
//
// Each call uses its own set of types in progress, so concurrent calls never
// observe each other. Self-referential types resolve to
// [stability.RuntimeDependent] at the point of recursion.
func (c *Classifier) Classify(t Type) stability.Rich {
	if t == nil {
		return stability.Unknown{Declaration: "<unresolved>"}
	}

	key := t.Key()

	if c.cache != nil {
		if r, ok := c.cache.Get(key); ok {
			return r
		}
	}

	w := walk{Classifier: c, visiting: make(map[string]struct{})}
	r := w.classify(t)

	if c.cache != nil {
		c.cache.Add(key, r)
	}

	return r
}

// KnownStable reports whether a qualified type name is stable without inspection.
func (c *Classifier) KnownStable(name string) bool {
	if name == "" {
		return false
	}

	if _, ok := _knownStable[name]; ok {
		return true
	}

	return slices.ContainsFunc(c.stableTypes, func(p Pattern) bool { return p.Match(name) })
}

// walk is the state of a single top-level classification.
type walk struct {
	*Classifier
	visiting map[string]struct{}
}

func (w walk) classify(t Type) stability.Rich {
	if t == nil {
		return stability.Unknown{Declaration: "<unresolved>"}
	}

	// Nullability never downgrades stability.
	for t.Kind() == Nullable {
		if t = t.Elem(); t == nil {
			return stability.Unknown{Declaration: "<unresolved>"}
		}
	}

	switch t.Kind() {
	case TypeParameter:
		return stability.Parametric{Parameter: t.String()}

	case Function:
		return stability.StableBecause(t.String() + " is a function type")
	}

	name := t.Name()

	if w.KnownStable(name) {
		return stability.StableBecause(name + " is known to be stable")
	}

	if declaredStable(t) {
		return stability.StableBecause(t.String() + " is declared stable")
	}

	if _, ok := _immutableCollections[name]; ok {
		return stability.StableBecause(t.String() + " is an immutable collection")
	}

	if _, ok := _mutableCollections[name]; ok {
		return stability.UnstableBecause(t.String() + " is a mutable collection")
	}

	switch t.Kind() {
	case Primitive:
		return stability.StableBecause(t.String() + " is a primitive type")

	case ImmutableCollection:
		return stability.StableBecause(t.String() + " is an immutable collection")

	case MutableCollection:
		return stability.UnstableBecause(t.String() + " is a mutable collection")

	case Value:
		return w.guarded(t, func() stability.Rich {
			return w.classify(t.Elem())
		})

	case Enum:
		return stability.StableBecause(t.String() + " is an enum")
	}

	if t.Markers().Enabled(MarkerSerializable) {
		return w.guarded(t, func() stability.Rich { return w.members(t, nil) })
	}

	switch t.Kind() {
	case Interface:
		return stability.Unknown{Declaration: t.String()}

	case Class:
		return w.guarded(t, func() stability.Rich { return w.members(t, t.Supertypes()) })

	case Opaque:
		if t.Markers().Enabled(MarkerRuntime) {
			return stability.RuntimeDependent{TypeName: t.String()}
		}
	}

	return stability.Unknown{Declaration: t.String()}
}

// guarded runs f with t marked as in progress.
func (w walk) guarded(t Type, f func() stability.Rich) stability.Rich {
	key := t.Key()
	if _, ok := w.visiting[key]; ok {
		return stability.RuntimeDependent{TypeName: t.String(), Reason: "recursive type reference"}
	}

	w.visiting[key] = struct{}{}
	defer delete(w.visiting, key)

	return f()
}

// members combines the stabilities of the declared members.
//
// Any mutable member makes the type unstable without inspecting further members.
func (w walk) members(t Type, supertypes []Type) stability.Rich {
	members := t.Members()

	for _, m := range members {
		if m.Mutable {
			return stability.UnstableBecause(t.String() + "." + m.Name + " is mutable")
		}
	}

	parts := make([]stability.Rich, 0, len(members)+len(supertypes))

	for _, m := range members {
		parts = append(parts, inMember(t, m.Name, w.classify(m.Type)))
	}

	for _, s := range supertypes {
		parts = append(parts, w.classify(s))
	}

	return stability.Combine(parts...)
}

// inMember qualifies the reason of a member stability with the member name.
func inMember(t Type, name string, r stability.Rich) stability.Rich {
	if c, ok := r.(stability.Certain); ok && !c.Stable {
		return stability.UnstableBecause(t.String() + "." + name + ": " + c.Reason)
	}

	return r
}

// declaredStable reports whether t or one of its supertypes is marked stable or immutable.
func declaredStable(t Type) bool {
	seen := make(map[string]struct{})

	var marked func(t Type) bool
	marked = func(t Type) bool {
		if t == nil {
			return false
		}

		if t.Markers().Any(MarkerStable, MarkerImmutable) {
			return true
		}

		key := t.Key()
		if _, ok := seen[key]; ok {
			return false
		}

		seen[key] = struct{}{}

		return slices.ContainsFunc(t.Supertypes(), marked)
	}

	return marked(t)
}
