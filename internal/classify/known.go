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

import "strings"

// _knownStable are types that are stable without inspection.
var _knownStable = map[string]struct{}{
	"time.Time":          {},
	"time.Duration":      {},
	"time.Month":         {},
	"time.Weekday":       {},
	"net/netip.Addr":     {},
	"net/netip.AddrPort": {},
	"net/netip.Prefix":   {},
	"unique.Handle":      {},
	"reflect.Type":       {},
	"image.Point":        {},
	"image.Rectangle":    {},
	"image/color.RGBA":   {},
	"image/color.NRGBA":  {},
	"image/color.Gray":   {},
	"image/color.Color":  {},

	"fillmore-labs.com/stableguard/recompose.Event":           {},
	"fillmore-labs.com/stableguard/recompose.ParameterChange": {},
}

// _immutableCollections are collections that cannot be modified after construction.
var _immutableCollections = map[string]struct{}{
	"github.com/benbjohnson/immutable.List":      {},
	"github.com/benbjohnson/immutable.Map":       {},
	"github.com/benbjohnson/immutable.SortedMap": {},
	"github.com/benbjohnson/immutable.Set":       {},
	"github.com/benbjohnson/immutable.SortedSet": {},
	"iter.Seq":                                   {},
	"iter.Seq2":                                  {},
}

// _mutableCollections are collections that can be modified in place.
var _mutableCollections = map[string]struct{}{
	"container/list.List": {},
	"container/ring.Ring": {},
	"sync.Map":            {},
	"bytes.Buffer":        {},
	"strings.Builder":     {},
}

// Pattern matches qualified type names.
//
// A pattern is either a qualified name ("example.com/pkg.Type") or a package
// wildcard ("example.com/pkg.*") matching every type declared in the package.
type Pattern string

// Match reports whether the qualified name matches the pattern.
func (p Pattern) Match(name string) bool {
	if pkg, ok := strings.CutSuffix(string(p), ".*"); ok {
		i := strings.LastIndexByte(name, '.')

		return i >= 0 && name[:i] == pkg
	}

	return string(p) == name
}
