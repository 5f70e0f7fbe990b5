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

package analyzer

import (
	"flag"

	"fillmore-labs.com/stableguard/internal/config"
	"fillmore-labs.com/stableguard/internal/run"
)

// registerFlags binds the analyzer options to command line flags.
func registerFlags(r *run.Options, flags *flag.FlagSet) {
	if flags == nil {
		flags = flag.CommandLine
	}

	flags.Var(behaviorValue(&r.Behavior, config.IncludeGenerated), "generated", "analyze generated files")
	flags.Var(behaviorValue(&r.Behavior, config.IncludeTests), "include-tests", "analyze functions in test files")
	flags.Var(behaviorValue(&r.Behavior, config.StrongSkipping), "strong-skipping", "treat every restartable function as skippable")
	flags.Var(patternsValue{patterns: &r.StableTypes}, "stable-types", "comma-separated list of types known to be stable")
	flags.TextVar(&r.Report, "report", r.Report, "report non-skippable functions: all, exported or off")
}

func behaviorValue(b *config.Behavior, f config.Flags) boolValue[config.Flags, *config.Behavior] {
	return boolValue[config.Flags, *config.Behavior]{flags: b, value: f}
}
