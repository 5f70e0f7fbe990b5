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

package composable

import (
	"fillmore-labs.com/stableguard/internal/classify"
	"fillmore-labs.com/stableguard/internal/stability"
)

// Function describes a UI-producing function declaration.
type Function struct {
	Name          string
	QualifiedName string
	Visibility    string
	ReturnType    string

	Receivers []Receiver
	Params    []Param

	// NonRestartable is set when the function is explicitly marked non-restartable.
	NonRestartable bool

	// Readonly is set when the function is explicitly marked read-only.
	Readonly bool
}

// Receiver is an extension, dispatch or context receiver.
type Receiver struct {
	Type classify.Type
	Kind stability.ReceiverKind
}

// Param is a value parameter.
type Param struct {
	Name string
	Type classify.Type
}
