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
	"errors"
	"fmt"
)

// Value is the three-valued stability exposed in reports and to injected code.
type Value uint8

//go:generate go tool stringer -type Value,ReceiverKind -linecomment
const (
	// Stable values can be compared cheaply to decide whether a call can be skipped.
	Stable Value = iota // STABLE

	// Unstable values may change without the change being observable through equality.
	Unstable // UNSTABLE

	// Runtime stability can only be decided when the program runs.
	Runtime // RUNTIME
)

// ErrInvalidValue is returned when parsing an unknown stability name.
var ErrInvalidValue = errors.New("invalid stability value")

// ParseValue returns the [Value] for its string form.
func ParseValue(s string) (Value, error) {
	switch s {
	case "STABLE":
		return Stable, nil
	case "UNSTABLE":
		return Unstable, nil
	case "RUNTIME":
		return Runtime, nil
	}

	return Runtime, fmt.Errorf("%w: %q", ErrInvalidValue, s)
}

// ReceiverKind distinguishes the receivers of a function.
type ReceiverKind uint8

const (
	// Extension receivers extend a type from outside its declaration.
	Extension ReceiverKind = iota // EXTENSION

	// Dispatch receivers are the instance a method is invoked on.
	Dispatch // DISPATCH

	// Context receivers are implicit scope values available in the function body.
	Context // CONTEXT
)
