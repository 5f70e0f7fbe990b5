// Copyright 2025-2026 Oliver Eikemeier. All Rights Reserved.
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

package run

import (
	"fillmore-labs.com/stableguard/analyzer/level"
	"fillmore-labs.com/stableguard/internal/classify"
	"fillmore-labs.com/stableguard/internal/config"
	"fillmore-labs.com/stableguard/internal/session"
)

// Options represent the configuration of a stableguard analyzer run.
type Options struct {
	// Behavior holds the analysis flags.
	Behavior config.Behavior

	// StableTypes are additional patterns of types known to be stable.
	StableTypes []classify.Pattern

	// Report selects the functions receiving non-skippable diagnostics.
	Report level.Report
}

// DefaultOptions returns the options used when no option is given.
func DefaultOptions() *Options {
	return &Options{
		Behavior: config.DefaultBehavior(),
		Report:   level.ReportAll,
	}
}

// Session creates the analysis session of one pass.
//
// Memoized classifications refer to the type-checked packages of a single
// pass. A driver re-checking edited sources runs a new pass, so sessions are
// never shared between passes.
func (r *Options) Session() (*session.Session, error) {
	return session.New(session.Options{
		Behavior:    r.Behavior,
		StableTypes: r.StableTypes,
		CacheSize:   passCacheSize,
	})
}

// passCacheSize bounds the memos of a single pass.
const passCacheSize = 1024
