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

// Package recompose is the runtime of recomposition tracing.
//
// Functions marked with //stableguard:trace are instrumented to call into this
// package on every invocation:
//
//	t := recompose.Acquire("example.com/ui.Header", "main", 3)
//	t.TrackParameter("title", "string", title, true)
//	t.LogIfThresholdMet()
//
// Once a function has been invoked threshold times, every invocation publishes
// an [Event] describing which parameters changed since the previous invocation.
// Events are delivered to the [Logger] set with [SetLogger] while tracing is
// enabled, see [SetEnabled].
package recompose
