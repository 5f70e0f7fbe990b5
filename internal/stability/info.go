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

import "strings"

// ParameterInfo is the stability of a single value parameter.
type ParameterInfo struct {
	Name      string `msgpack:"name"`
	Type      string `msgpack:"type"`
	Stability Value  `msgpack:"stability"`
	Reason    string `msgpack:"reason,omitempty"`
}

// ReceiverInfo is the stability of a receiver.
type ReceiverInfo struct {
	Type      string       `msgpack:"type"`
	Stability Value        `msgpack:"stability"`
	Reason    string       `msgpack:"reason,omitempty"`
	Kind      ReceiverKind `msgpack:"kind"`
}

// ComposableInfo summarizes the stability of a UI-producing function.
//
// Values are never mutated after construction.
type ComposableInfo struct {
	Name          string          `msgpack:"name"`
	QualifiedName string          `msgpack:"qualified_name"`
	Visibility    string          `msgpack:"visibility"`
	ReturnType    string          `msgpack:"return_type"`
	Restartable   bool            `msgpack:"restartable"`
	Skippable     bool            `msgpack:"skippable"`
	Readonly      bool            `msgpack:"readonly"`
	Parameters    []ParameterInfo `msgpack:"parameters"`

	// SkippableInStrongSkippingMode records that the function is only
	// skippable because strong skipping is enabled.
	SkippableInStrongSkippingMode bool           `msgpack:"strong_skipping"`
	Receivers                     []ReceiverInfo `msgpack:"receivers,omitempty"`
}

// HasUnstableParameters reports whether any parameter is unstable.
func (c ComposableInfo) HasUnstableParameters() bool {
	for _, p := range c.Parameters {
		if p.Stability == Unstable {
			return true
		}
	}

	return false
}

// UnstableParameters returns the unstable parameters in declaration order.
func (c ComposableInfo) UnstableParameters() []ParameterInfo {
	var unstable []ParameterInfo

	for _, p := range c.Parameters {
		if p.Stability == Unstable {
			unstable = append(unstable, p)
		}
	}

	return unstable
}

// HasUnstableReceivers reports whether any receiver is unstable.
func (c ComposableInfo) HasUnstableReceivers() bool {
	for _, r := range c.Receivers {
		if r.Stability == Unstable {
			return true
		}
	}

	return false
}

// UnstableReceivers returns the unstable receivers in declaration order.
func (c ComposableInfo) UnstableReceivers() []ReceiverInfo {
	var unstable []ReceiverInfo

	for _, r := range c.Receivers {
		if r.Stability == Unstable {
			unstable = append(unstable, r)
		}
	}

	return unstable
}

// Summary returns a one-line human-readable description.
func (c ComposableInfo) Summary() string {
	var b strings.Builder

	b.WriteString(c.Name) // ignore error
	b.WriteString(": ")   // ignore error

	switch {
	case c.Skippable:
		b.WriteString("✅ Skippable") // ignore error

	case c.Restartable:
		b.WriteString("⚠️ Restartable but not skippable") // ignore error

	default:
		b.WriteString("❌ Not restartable") // ignore error
	}

	if unstable := c.UnstableParameters(); len(unstable) > 0 {
		b.WriteString(" (unstable: ") // ignore error

		for i, p := range unstable {
			if i > 0 {
				b.WriteString(", ") // ignore error
			}

			b.WriteString(p.Name) // ignore error
		}

		b.WriteByte(')') // ignore error
	}

	return b.String()
}
