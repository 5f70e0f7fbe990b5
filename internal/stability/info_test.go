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

package stability_test

import (
	"testing"

	. "fillmore-labs.com/stableguard/internal/stability"
)

func TestSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		info ComposableInfo
		want string
	}{
		{
			name: "skippable",
			info: ComposableInfo{Name: "Greeting", Restartable: true, Skippable: true},
			want: "Greeting: ✅ Skippable",
		},
		{
			name: "restartable",
			info: ComposableInfo{
				Name:        "Profile",
				Restartable: true,
				Parameters: []ParameterInfo{
					{Name: "user", Stability: Unstable},
					{Name: "title", Stability: Stable},
					{Name: "items", Stability: Unstable},
					{Name: "shape", Stability: Runtime},
				},
			},
			want: "Profile: ⚠️ Restartable but not skippable (unstable: user, items)",
		},
		{
			name: "not restartable",
			info: ComposableInfo{Name: "Inline"},
			want: "Inline: ❌ Not restartable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.info.Summary(); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnstableQueries(t *testing.T) {
	t.Parallel()

	info := ComposableInfo{
		Parameters: []ParameterInfo{{Name: "a", Stability: Stable}, {Name: "b", Stability: Runtime}},
		Receivers: []ReceiverInfo{
			{Type: "*View", Stability: Unstable, Kind: Dispatch},
			{Type: "Scope", Stability: Stable, Kind: Context},
		},
	}

	if info.HasUnstableParameters() {
		t.Errorf("HasUnstableParameters() = true, want false")
	}

	if got := info.UnstableParameters(); len(got) != 0 {
		t.Errorf("UnstableParameters() = %v, want none", got)
	}

	if !info.HasUnstableReceivers() {
		t.Errorf("HasUnstableReceivers() = false, want true")
	}

	if got := info.UnstableReceivers(); len(got) != 1 || got[0].Type != "*View" {
		t.Errorf("UnstableReceivers() = %v, want [*View]", got)
	}

	if got, want := Dispatch.String(), "DISPATCH"; got != want {
		t.Errorf("Dispatch.String() = %q, want %q", got, want)
	}
}
