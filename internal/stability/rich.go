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

package stability

import (
	"fmt"
	"slices"
	"strings"
)

// Rich is the analysis-time stability lattice.
//
// The set of variants is closed: [Certain], [RuntimeDependent], [Unknown],
// [Parametric] and [Combined].
type Rich interface {
	fmt.Stringer
	rich()
}

// Certain is a stability resolved definitively.
type Certain struct {
	Stable bool
	Reason string
}

// RuntimeDependent depends on a runtime marker the analysis cannot see.
type RuntimeDependent struct {
	TypeName string
	Reason   string // optional
}

// Unknown is an interface or abstract type without an inspectable shape.
type Unknown struct {
	Declaration string
}

// Parametric depends on an unresolved type parameter.
type Parametric struct {
	Parameter string
}

// Combined aggregates the stabilities of several parts.
//
// Use [Combine] to construct values, the parts are kept minimal and sorted.
type Combined struct {
	parts []Rich
}

func (Certain) rich()          {}
func (RuntimeDependent) rich() {}
func (Unknown) rich()          {}
func (Parametric) rich()       {}
func (Combined) rich()         {}

// StableBecause returns a stable [Certain] value.
func StableBecause(reason string) Certain { return Certain{Stable: true, Reason: reason} }

// UnstableBecause returns an unstable [Certain] value.
func UnstableBecause(reason string) Certain { return Certain{Stable: false, Reason: reason} }

func (c Certain) String() string {
	if c.Stable {
		return "Stable(" + c.Reason + ")"
	}

	return "Unstable(" + c.Reason + ")"
}

func (r RuntimeDependent) String() string {
	if r.Reason == "" {
		return "Runtime(" + r.TypeName + ")"
	}

	return "Runtime(" + r.TypeName + ": " + r.Reason + ")"
}

func (u Unknown) String() string { return "Unknown(" + u.Declaration + ")" }

func (p Parametric) String() string { return "Parametric(" + p.Parameter + ")" }

func (c Combined) String() string {
	var b strings.Builder

	b.WriteString("Combined[") // ignore error

	for i, p := range c.parts {
		if i > 0 {
			b.WriteString(", ") // ignore error
		}

		b.WriteString(p.String()) // ignore error
	}

	b.WriteByte(']') // ignore error

	return b.String()
}

// Parts returns the contributing stabilities.
func (c Combined) Parts() []Rich { return slices.Clone(c.parts) }

// Combine aggregates parts into a [Combined] value.
//
// Stable parts never change the outcome of a mix and are dropped, nested
// combinations are flattened and duplicates removed, so equal inputs produce
// equal outputs regardless of their order.
func Combine(parts ...Rich) Combined {
	var flat []Rich

	var add func(p Rich)
	add = func(p Rich) {
		switch p := p.(type) {
		case nil:
			return

		case Certain:
			if p.Stable {
				return
			}

		case Combined:
			for _, q := range p.parts {
				add(q)
			}

			return
		}

		flat = append(flat, p)
	}

	for _, p := range parts {
		add(p)
	}

	slices.SortFunc(flat, func(a, b Rich) int { return strings.Compare(a.String(), b.String()) })
	flat = slices.CompactFunc(flat, func(a, b Rich) bool { return a.String() == b.String() })

	return Combined{parts: flat}
}

// Reduce maps a [Rich] stability to the runtime [Value].
func Reduce(r Rich) Value {
	switch r := r.(type) {
	case Certain:
		if r.Stable {
			return Stable
		}

		return Unstable

	case RuntimeDependent, Unknown, Parametric:
		return Runtime

	case Combined:
		result := Stable

		for _, p := range r.parts {
			switch Reduce(p) {
			case Unstable:
				return Unstable

			case Runtime:
				result = Runtime

			case Stable:
			}
		}

		return result

	case nil:
		return Runtime

	default:
		panic(fmt.Sprintf("unexpected stability variant %T", r))
	}
}

// Explain returns a human-readable reason for a stability, empty when stable without a reason.
func Explain(r Rich) string {
	switch r := r.(type) {
	case Certain:
		return r.Reason

	case RuntimeDependent:
		if r.Reason != "" {
			return r.TypeName + ": " + r.Reason
		}

		return "stability of " + r.TypeName + " is decided at runtime"

	case Unknown:
		return r.Declaration + " is an interface or abstract type"

	case Parametric:
		return "depends on type parameter " + r.Parameter

	case Combined:
		// Unstable parts explain the outcome, runtime parts only when nothing is unstable.
		want := Reduce(r)

		var reasons []string

		for _, p := range r.parts {
			if Reduce(p) == want {
				reasons = append(reasons, Explain(p))
			}
		}

		return strings.Join(reasons, "; ")

	case nil:
		return "unresolved type"

	default:
		panic(fmt.Sprintf("unexpected stability variant %T", r))
	}
}
