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

// Package composable computes the stability summary of UI-producing functions.
package composable

import (
	"errors"
	"fmt"
	"runtime/debug"

	"fillmore-labs.com/stableguard/internal/classify"
	"fillmore-labs.com/stableguard/internal/stability"
)

// Analyzer computes [stability.ComposableInfo] for functions.
type Analyzer struct {
	Classifier *classify.Classifier

	// StrongSkipping makes every restartable function skippable.
	StrongSkipping bool
}

// FunctionError is an internal error while analyzing a single function.
type FunctionError struct {
	Function string
	Cause    any
	Stack    []byte
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("analyzing %s: %v", e.Function, e.Cause)
}

// ErrAnalysis is matched by every [FunctionError].
var ErrAnalysis = errors.New("function analysis failed")

// Is makes [FunctionError] match [ErrAnalysis].
func (e *FunctionError) Is(target error) bool { return target == ErrAnalysis }

// Analyze computes the stability summary of a function.
func (a Analyzer) Analyze(fn Function) stability.ComposableInfo {
	c := a.Classifier
	if c == nil {
		c = classify.New()
	}

	allStable := true

	receivers := make([]stability.ReceiverInfo, 0, len(fn.Receivers))
	for _, r := range fn.Receivers {
		rich := c.Classify(r.Type)
		value := stability.Reduce(rich)
		allStable = allStable && value == stability.Stable

		receivers = append(receivers, stability.ReceiverInfo{
			Type:      typeString(r.Type),
			Stability: value,
			Reason:    reason(rich, value),
			Kind:      r.Kind,
		})
	}

	params := make([]stability.ParameterInfo, 0, len(fn.Params))
	for _, p := range fn.Params {
		rich := c.Classify(p.Type)
		value := stability.Reduce(rich)
		allStable = allStable && value == stability.Stable

		params = append(params, stability.ParameterInfo{
			Name:      p.Name,
			Type:      typeString(p.Type),
			Stability: value,
			Reason:    reason(rich, value),
		})
	}

	restartable := !fn.NonRestartable

	skippable := restartable && allStable
	strongOnly := false

	if a.StrongSkipping && restartable {
		skippable = true
		strongOnly = !allStable
	}

	return stability.ComposableInfo{
		Name:                          fn.Name,
		QualifiedName:                 fn.QualifiedName,
		Visibility:                    fn.Visibility,
		ReturnType:                    fn.ReturnType,
		Restartable:                   restartable,
		Skippable:                     skippable,
		Readonly:                      fn.Readonly,
		Parameters:                    params,
		SkippableInStrongSkippingMode: strongOnly,
		Receivers:                     receivers,
	}
}

// AnalyzeAll analyzes every function, isolating failures.
//
// A function whose analysis fails is omitted from the result, the failures are
// returned joined.
func (a Analyzer) AnalyzeAll(fns []Function) ([]stability.ComposableInfo, error) {
	infos := make([]stability.ComposableInfo, 0, len(fns))

	var errs []error

	for _, fn := range fns {
		info, err := a.SafeAnalyze(fn)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		infos = append(infos, info)
	}

	return infos, errors.Join(errs...)
}

// SafeAnalyze is [Analyzer.Analyze], converting panics into a [*FunctionError].
func (a Analyzer) SafeAnalyze(fn Function) (info stability.ComposableInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &FunctionError{Function: fn.QualifiedName, Cause: r, Stack: debug.Stack()}
		}
	}()

	return a.Analyze(fn), nil
}

func typeString(t classify.Type) string {
	if t == nil {
		return "<unresolved>"
	}

	return t.String()
}

func reason(r stability.Rich, v stability.Value) string {
	if v == stability.Stable {
		return ""
	}

	return stability.Explain(r)
}
