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

// Package level defines text-configurable analyzer levels.
package level

import (
	"fmt"
	"strings"
)

// Report specifies which composable functions get non-skippable diagnostics.
type Report uint8

const (
	// ReportAll reports every non-skippable composable function.
	ReportAll Report = iota

	// ReportExported only reports exported functions.
	ReportExported

	// ReportOff disables non-skippable diagnostics. Directive errors are still reported.
	ReportOff
)

// MarshalText implements [encoding.TextMarshaler].
func (o Report) MarshalText() ([]byte, error) {
	switch o {
	case ReportAll:
		return []byte("all"), nil

	case ReportExported:
		return []byte("exported"), nil

	case ReportOff:
		return []byte("off"), nil

	default:
		return nil, fmt.Errorf("unknown report level %d", o)
	}
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (o *Report) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "true", "on", "all":
		*o = ReportAll

	case "exported":
		*o = ReportExported

	case "off", "false":
		*o = ReportOff

	default:
		return fmt.Errorf("unknown report level %q", string(text))
	}

	return nil
}

// Includes reports whether a function with the given exported status is reported.
func (o Report) Includes(exported bool) bool {
	switch o {
	case ReportAll:
		return true

	case ReportExported:
		return exported

	default:
		return false
	}
}
