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

package config

// Flags represents behavioral options of the analysis.
type Flags uint8

const (
	// IncludeGenerated specifies whether to include analysis of generated files.
	IncludeGenerated Flags = 1 << iota

	// IncludeTests specifies whether functions in test files are analyzed.
	IncludeTests

	// StrongSkipping treats every restartable function as skippable.
	StrongSkipping
)

// Behavior holds the enabled [Flags].
type Behavior = BitMask[Flags]

// DefaultBehavior returns the behavior used when no option is given.
func DefaultBehavior() Behavior {
	return NewBitMask[Flags]()
}
