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

package reportfile

import (
	"cmp"
	"fmt"
	"slices"

	"fillmore-labs.com/stableguard/internal/stability"
)

// ChangeKind classifies a difference between two reports.
type ChangeKind uint8

// Change kinds.
const (
	Added ChangeKind = iota
	Removed
	Regressed
	Improved
	Modified
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Regressed:
		return "regressed"
	case Improved:
		return "improved"
	case Modified:
		return "modified"
	default:
		return fmt.Sprintf("ChangeKind(%d)", k)
	}
}

// Change is a difference of one function between a golden and a current report.
type Change struct {
	QualifiedName string
	Kind          ChangeKind
	Detail        string
}

func (c Change) String() string {
	if c.Detail == "" {
		return c.QualifiedName + ": " + c.Kind.String()
	}

	return c.QualifiedName + ": " + c.Kind.String() + " (" + c.Detail + ")"
}

// Diff compares a current report with a golden one, sorted by qualified name.
func Diff(golden, current []stability.ComposableInfo) []Change {
	before := index(golden)
	after := index(current)

	var changes []Change

	for name, old := range before {
		info, ok := after[name]
		if !ok {
			changes = append(changes, Change{QualifiedName: name, Kind: Removed})

			continue
		}

		if c, changed := compare(old, info); changed {
			changes = append(changes, c)
		}
	}

	for name := range after {
		if _, ok := before[name]; !ok {
			changes = append(changes, Change{QualifiedName: name, Kind: Added})
		}
	}

	slices.SortFunc(changes, func(a, b Change) int {
		return cmp.Or(cmp.Compare(a.QualifiedName, b.QualifiedName), cmp.Compare(a.Kind, b.Kind))
	})

	return changes
}

// Regressions filters the regressed changes.
func Regressions(changes []Change) []Change {
	var regressions []Change

	for _, c := range changes {
		if c.Kind == Regressed {
			regressions = append(regressions, c)
		}
	}

	return regressions
}

func index(infos []stability.ComposableInfo) map[string]stability.ComposableInfo {
	m := make(map[string]stability.ComposableInfo, len(infos))
	for _, info := range infos {
		m[info.QualifiedName] = info
	}

	return m
}

func compare(old, cur stability.ComposableInfo) (Change, bool) {
	c := Change{QualifiedName: cur.QualifiedName}

	switch {
	case old.Restartable && !cur.Restartable:
		c.Kind, c.Detail = Regressed, "no longer restartable"

	case old.Skippable && !cur.Skippable:
		c.Kind, c.Detail = Regressed, "no longer skippable"

	case !old.Skippable && cur.Skippable:
		c.Kind, c.Detail = Improved, "now skippable"

	default:
		detail, regressed, changed := compareParams(old.Parameters, cur.Parameters)
		if !changed && old.Restartable == cur.Restartable && old.ReturnType == cur.ReturnType && old.Visibility == cur.Visibility {
			return Change{}, false
		}

		c.Kind, c.Detail = Modified, detail
		if regressed {
			c.Kind = Regressed
		}
	}

	return c, true
}

func compareParams(old, cur []stability.ParameterInfo) (detail string, regressed, changed bool) {
	if len(old) != len(cur) {
		return fmt.Sprintf("%d parameters, was %d", len(cur), len(old)), false, true
	}

	for i := range cur {
		o, n := old[i], cur[i]

		switch {
		case o.Name != n.Name || o.Type != n.Type:
			return fmt.Sprintf("parameter %s: %s, was %s: %s", n.Name, n.Type, o.Name, o.Type), false, true

		case o.Stability == stability.Stable && n.Stability != stability.Stable:
			return fmt.Sprintf("parameter %s: %s, was %s", n.Name, n.Stability, o.Stability), true, true

		case o.Stability != n.Stability:
			return fmt.Sprintf("parameter %s: %s, was %s", n.Name, n.Stability, o.Stability), false, true
		}
	}

	return "", false, false
}
