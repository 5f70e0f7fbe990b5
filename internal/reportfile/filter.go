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
	"slices"
	"strings"

	"fillmore-labs.com/stableguard/internal/stability"
)

// Filter selects the functions written to a report.
type Filter struct {
	// IgnoredPackages are package path prefixes.
	IgnoredPackages []string

	// IgnoredTypes are simple names of receiver base types.
	IgnoredTypes []string

	// Ignored are qualified names of functions marked //stableguard:ignore.
	Ignored map[string]struct{}
}

// Keep reports whether a function belongs in the report.
func (f Filter) Keep(info stability.ComposableInfo) bool {
	if _, ok := f.Ignored[info.QualifiedName]; ok {
		return false
	}

	for _, prefix := range f.IgnoredPackages {
		if strings.HasPrefix(info.QualifiedName, prefix) {
			return false
		}
	}

	if recv := receiverName(info); recv != "" && slices.Contains(f.IgnoredTypes, recv) {
		return false
	}

	return true
}

// Apply returns the functions to keep.
func (f Filter) Apply(infos []stability.ComposableInfo) []stability.ComposableInfo {
	kept := make([]stability.ComposableInfo, 0, len(infos))

	for _, info := range infos {
		if f.Keep(info) {
			kept = append(kept, info)
		}
	}

	return kept
}

// receiverName is the base type name of a method's receiver,
// the last but one element of its qualified name.
func receiverName(info stability.ComposableInfo) string {
	if len(info.Receivers) == 0 {
		return ""
	}

	qn := strings.TrimSuffix(info.QualifiedName, "."+info.Name)
	if i := strings.LastIndexByte(qn, '/'); i >= 0 {
		qn = qn[i+1:]
	}

	_, recv, ok := strings.Cut(qn, ".")
	if !ok {
		return ""
	}

	return recv
}
