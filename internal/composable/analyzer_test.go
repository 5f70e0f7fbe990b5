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

package composable_test

import (
	"errors"
	"strings"
	"testing"

	"fillmore-labs.com/stableguard/internal/classify"
	. "fillmore-labs.com/stableguard/internal/composable"
	"fillmore-labs.com/stableguard/internal/stability"
)

type fake struct {
	kind    classify.Kind
	name    string
	members []classify.Member
	panics  bool
}

func (f *fake) Kind() classify.Kind {
	if f.panics {
		panic("broken type " + f.name)
	}

	return f.kind
}

func (f *fake) Key() string { return f.name }
func (f *fake) Name() string { return f.name }
func (f *fake) String() string { return f.name }
func (f *fake) Elem() classify.Type { return nil }
func (f *fake) Markers() classify.Markers { return classify.Markers{} }
func (f *fake) Members() []classify.Member { return f.members }
func (f *fake) Supertypes() []classify.Type { return nil }

var (
	str = &fake{kind: classify.Primitive, name: "string"}
	num = &fake{kind: classify.Primitive, name: "int"}

	// type S struct { name string; age int }
	dataS = &fake{kind: classify.Class, name: "example.com/ui.S", members: []classify.Member{
		{Name: "name", Type: str}, {Name: "age", Type: num},
	}}

	// type M struct { name string `stability:"mutable"`; age int `stability:"mutable"` }
	dataM = &fake{kind: classify.Class, name: "example.com/ui.M", members: []classify.Member{
		{Name: "name", Mutable: true, Type: str}, {Name: "age", Mutable: true, Type: num},
	}}

	shape = &fake{kind: classify.Interface, name: "example.com/ui.Shape"}
)

func TestAnalyze(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		fn          Function
		strong      bool
		skippable   bool
		strongOnly  bool
		restartable bool
	}{
		{
			name:        "no parameters",
			fn:          Function{Name: "Header"},
			skippable:   true,
			restartable: true,
		},
		{
			name:        "stable parameter",
			fn:          Function{Name: "Greeting", Params: []Param{{Name: "s", Type: dataS}}},
			skippable:   true,
			restartable: true,
		},
		{
			name:        "unstable parameter",
			fn:          Function{Name: "Profile", Params: []Param{{Name: "m", Type: dataM}}},
			skippable:   false,
			restartable: true,
		},
		{
			name:        "unstable parameter strong skipping",
			fn:          Function{Name: "Profile", Params: []Param{{Name: "m", Type: dataM}}},
			strong:      true,
			skippable:   true,
			strongOnly:  true,
			restartable: true,
		},
		{
			name:        "stable parameter strong skipping",
			fn:          Function{Name: "Greeting", Params: []Param{{Name: "s", Type: dataS}}},
			strong:      true,
			skippable:   true,
			restartable: true,
		},
		{
			name:        "runtime parameter",
			fn:          Function{Name: "Canvas", Params: []Param{{Name: "shape", Type: shape}}},
			skippable:   false,
			restartable: true,
		},
		{
			name:        "non-restartable",
			fn:          Function{Name: "Inline", NonRestartable: true},
			strong:      true,
			skippable:   false,
			restartable: false,
		},
		{
			name:        "unstable receiver",
			fn:          Function{Name: "Render", Receivers: []Receiver{{Type: dataM, Kind: stability.Dispatch}}},
			skippable:   false,
			restartable: true,
		},
		{
			name: "stable extension and context receivers",
			fn: Function{Name: "Row", Receivers: []Receiver{
				{Type: dataS, Kind: stability.Extension}, {Type: str, Kind: stability.Context},
			}},
			skippable:   true,
			restartable: true,
		},
		{
			name: "unstable context receiver",
			fn: Function{Name: "Column", Receivers: []Receiver{
				{Type: dataS, Kind: stability.Dispatch}, {Type: dataM, Kind: stability.Context},
			}},
			skippable:   false,
			restartable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := Analyzer{Classifier: classify.New(), StrongSkipping: tt.strong}

			got := a.Analyze(tt.fn)

			if got.Restartable != tt.restartable {
				t.Errorf("Got restartable %t, want %t", got.Restartable, tt.restartable)
			}

			if got.Skippable != tt.skippable {
				t.Errorf("Got skippable %t, want %t", got.Skippable, tt.skippable)
			}

			if got.SkippableInStrongSkippingMode != tt.strongOnly {
				t.Errorf("Got skippable in strong skipping mode %t, want %t", got.SkippableInStrongSkippingMode, tt.strongOnly)
			}

			if len(got.Parameters) != len(tt.fn.Params) {
				t.Errorf("Got %d parameters, want %d", len(got.Parameters), len(tt.fn.Params))
			}

			if len(got.Receivers) != len(tt.fn.Receivers) {
				t.Errorf("Got %d receivers, want %d", len(got.Receivers), len(tt.fn.Receivers))
			}
		})
	}
}

func TestParameterDetails(t *testing.T) {
	t.Parallel()

	a := Analyzer{Classifier: classify.New()}

	got := a.Analyze(Function{
		Name:          "Card",
		QualifiedName: "example.com/ui.Card",
		Params: []Param{
			{Name: "title", Type: str},
			{Name: "m", Type: dataM},
		},
	})

	if got.Name != "Card" || got.QualifiedName != "example.com/ui.Card" {
		t.Errorf("Got name %q (%q)", got.Name, got.QualifiedName)
	}

	title, m := got.Parameters[0], got.Parameters[1]

	if title.Stability != stability.Stable || title.Reason != "" {
		t.Errorf("Got title %v %q, want stable without reason", title.Stability, title.Reason)
	}

	if m.Stability != stability.Unstable {
		t.Errorf("Got m %v, want %v", m.Stability, stability.Unstable)
	}

	if !strings.Contains(m.Reason, "example.com/ui.M.name") {
		t.Errorf("Got reason %q, want mention of the mutable member", m.Reason)
	}

	if got, want := got.UnstableParameters(), []string{"m"}; len(got) != 1 || got[0].Name != want[0] {
		t.Errorf("Got unstable parameters %v, want %v", got, want)
	}
}

func TestAnalyzeAll(t *testing.T) {
	t.Parallel()

	a := Analyzer{Classifier: classify.New()}

	broken := &fake{name: "example.com/ui.Broken", panics: true}

	infos, err := a.AnalyzeAll([]Function{
		{Name: "A", QualifiedName: "example.com/ui.A"},
		{Name: "B", QualifiedName: "example.com/ui.B", Params: []Param{{Name: "b", Type: broken}}},
		{Name: "C", QualifiedName: "example.com/ui.C", Params: []Param{{Name: "s", Type: dataS}}},
	})

	if len(infos) != 2 || infos[0].Name != "A" || infos[1].Name != "C" {
		t.Errorf("Got %d infos, want A and C", len(infos))
	}

	if !errors.Is(err, ErrAnalysis) {
		t.Fatalf("Got error %v, want %v", err, ErrAnalysis)
	}

	var ferr *FunctionError
	if !errors.As(err, &ferr) || ferr.Function != "example.com/ui.B" {
		t.Errorf("Got error %v, want failure of example.com/ui.B", err)
	}
}
