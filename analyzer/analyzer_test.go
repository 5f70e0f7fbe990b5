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

package analyzer_test

import (
	"path/filepath"
	"slices"
	"testing"

	"golang.org/x/tools/go/analysis/analysistest"

	. "fillmore-labs.com/stableguard/analyzer"
	"fillmore-labs.com/stableguard/analyzer/level"
)

func TestAnalyzer(t *testing.T) {
	t.Parallel()

	testdata := analysistest.TestData()

	tests := []struct {
		name    string
		dir     string
		options Option
		fix     bool
	}{
		{
			name: "Default",
			dir:  "./a",
		},
		{
			name:    "StrongSkipping",
			dir:     "./strong",
			options: Options{WithStrongSkipping(true), WithGenerated(true)},
		},
		{
			name:    "Exported",
			dir:     "./exported",
			options: WithReport(level.ReportExported),
		},
		{
			name: "Fix",
			dir:  "./fix",
			fix:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if a := New(tt.options); tt.fix {
				analysistest.RunWithSuggestedFixes(t, testdata, a, tt.dir)
			} else {
				analysistest.Run(t, testdata, a, tt.dir)
			}
		})
	}
}

func TestEditedSource(t *testing.T) {
	t.Parallel()

	a := New()
	edit := filepath.Join(analysistest.TestData(), "edit")

	// Same package path, the second version makes the parameter unstable.
	analysistest.Run(t, filepath.Join(edit, "v1"), a, "./profile")
	analysistest.Run(t, filepath.Join(edit, "v2"), a, "./profile")
}

func TestResult(t *testing.T) {
	t.Parallel()

	results := analysistest.Run(t, analysistest.TestData(), New(), "./a")

	for _, r := range results {
		if r.Pass.Pkg.Path() != "test/a" {
			continue
		}

		res, ok := r.Result.(*Result)
		if !ok {
			t.Fatalf("Got result %T", r.Result)
		}

		if got := len(res.Functions); got != 8 {
			t.Errorf("Got %d functions, want 8", got)
		}

		if !slices.Equal(res.Ignored, []string{"test/a.Debug"}) {
			t.Errorf("Got ignored %v", res.Ignored)
		}

		for _, f := range res.Functions {
			if f.QualifiedName == "test/a.Title" && !f.Skippable {
				t.Errorf("Got %s, want skippable with stable theme", f.Summary())
			}
		}
	}
}

func TestStableTypes(t *testing.T) {
	t.Parallel()

	a := New(WithStableTypes("test/theme.*"))

	results := analysistest.Run(t, analysistest.TestData(), a, "./stabletypes")

	for _, r := range results {
		if res, ok := r.Result.(*Result); ok && r.Pass.Pkg.Path() == "test/stabletypes" {
			if len(res.Functions) != 1 {
				t.Fatalf("Got %d functions, want 1", len(res.Functions))
			}

			for _, f := range res.Functions {
				if !f.Skippable {
					t.Errorf("Got %s, want skippable", f.Summary())
				}
			}
		}
	}
}
