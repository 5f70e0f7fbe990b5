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

package recompose

import (
	"fmt"
	"hash/maphash"
	"reflect"
)

// equal compares two parameter values without panicking.
//
// Values of comparable types are compared with ==, other values with
// [reflect.DeepEqual].
func equal(a, b any) (eq bool) {
	defer func() {
		if r := recover(); r != nil {
			eq = reflect.DeepEqual(a, b) // comparable type holding an uncomparable value
		}
	}()

	if a == nil || b == nil {
		return a == b
	}

	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}

	if !ta.Comparable() {
		return reflect.DeepEqual(a, b)
	}

	return a == b
}

var seed = maphash.MakeSeed()

// FormatValue renders a parameter value for display.
//
// Failing String or Error methods are replaced by the type and a hash of the
// value's address or contents.
func FormatValue(v any) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fallback(v)
		}
	}()

	switch v := v.(type) {
	case nil:
		return "nil"

	case string:
		return fmt.Sprintf("%q", v)

	case error:
		return v.Error()

	case fmt.Stringer:
		return v.String()

	default:
		return fmt.Sprintf("%v", v)
	}
}

func fallback(v any) string {
	return fmt.Sprintf("%T@%x", v, identity(v))
}

// identity hashes the address of reference values and the bits of others.
func identity(v any) uint64 {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return uint64(rv.Pointer())

	default:
		return maphash.String(seed, fmt.Sprintf("%#v", v))
	}
}
