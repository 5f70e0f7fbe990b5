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

// Event describes one traced invocation.
type Event struct {
	ComposableName     string
	Tag                string
	RecompositionCount int // 1-based
	ParameterChanges   []ParameterChange
	UnstableParameters []string
}

// ParameterChange describes a parameter value compared with the previous invocation.
type ParameterChange struct {
	Name string
	Type string

	// Old is [Absent] on the first observation.
	Old any
	New any

	Changed bool
	Stable  bool
}

type absent struct{}

func (absent) String() string { return "<absent>" }

// Absent is the previous value of a parameter observed for the first time.
//
// It differs from every real value, including nil.
var Absent any = absent{}
