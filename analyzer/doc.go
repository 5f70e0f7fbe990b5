// Copyright 2025 Oliver Eikemeier. All Rights Reserved.
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

// Package analyzer implements the stableguard static analysis pass.
//
// # Overview
//
// StableGuard infers the stability of the parameters of composable functions
// and reports functions that are restartable but can never be skipped,
// because at least one parameter may change without notice.
//
// # Directives
//
// Functions opt in with a directive in their documentation:
//
//	//stableguard:composable
//	func Profile(user User) { ... }
//
// Types can be declared stable when inference can't see it:
//
//	//stableguard:stable
//	type Palette interface{ Primary() Color }
//
// Fields changing after construction are marked with a struct tag:
//
//	type Counter struct {
//	    Value int `stability:"mutable"`
//	}
//
// # Example
//
//	type Counter struct {
//	    Value int `stability:"mutable"`
//	}
//
//	//stableguard:composable
//	func Badge(c Counter) { ... } // Composable function 'Badge' is restartable but not skippable
//
// Type directives are exported as facts, so types declared stable in one
// package are recognized in every package importing it.
package analyzer
