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
	"log/slog"

	"fillmore-labs.com/stableguard/analyzer/level"
	"fillmore-labs.com/stableguard/internal/classify"
	"fillmore-labs.com/stableguard/internal/config"
	"fillmore-labs.com/stableguard/internal/run"
)

// Option configures specific behavior of the stableguard [analysis.Analyzer].
type Option interface {
	apply(r *run.Options)
	LogAttr() slog.Attr
}

// Options is a list of [Option] values that also implements [Option].
type Options []Option

// LogValue implements [slog.LogValuer].
func (o Options) LogValue() slog.Value {
	as := make([]slog.Attr, 0, len(o))
	as = appendOptions(as, o)

	return slog.GroupValue(as...)
}

func appendOptions(as []slog.Attr, o Options) []slog.Attr {
	for _, opt := range o {
		switch opt := opt.(type) {
		case nil:
			as = append(as, slog.String("nil", "<nil>"))

		case Options:
			as = appendOptions(as, opt)

		default:
			as = append(as, opt.LogAttr())
		}
	}

	return as
}

func (o Options) apply(r *run.Options) {
	for _, opt := range o {
		if opt == nil {
			continue
		}

		opt.apply(r)
	}
}

// LogAttr returns a [slog.Attr] for logging.
func (o Options) LogAttr() slog.Attr {
	return slog.Any("options", o)
}

// WithGenerated is an [Option] to configure analysis of generated files.
func WithGenerated(generated bool) Option { return generatedOption{generated: generated} }

type generatedOption struct{ generated bool }

func (o generatedOption) apply(r *run.Options) {
	r.Behavior.Set(config.IncludeGenerated, o.generated)
}

func (o generatedOption) LogAttr() slog.Attr {
	return slog.Bool("generated", o.generated)
}

// WithIncludeTests is an [Option] to configure analysis of functions in test files.
func WithIncludeTests(tests bool) Option { return includeTestsOption{tests: tests} }

type includeTestsOption struct{ tests bool }

func (o includeTestsOption) apply(r *run.Options) {
	r.Behavior.Set(config.IncludeTests, o.tests)
}

func (o includeTestsOption) LogAttr() slog.Attr {
	return slog.Bool("include-tests", o.tests)
}

// WithStrongSkipping is an [Option] treating every restartable function as skippable.
func WithStrongSkipping(strong bool) Option { return strongSkippingOption{strong: strong} }

type strongSkippingOption struct{ strong bool }

func (o strongSkippingOption) apply(r *run.Options) {
	r.Behavior.Set(config.StrongSkipping, o.strong)
}

func (o strongSkippingOption) LogAttr() slog.Attr {
	return slog.Bool("strong-skipping", o.strong)
}

// WithStableTypes is an [Option] adding patterns of types known to be stable.
//
// A pattern is a qualified type name like "example.com/ui.Color" or a package
// wildcard like "example.com/ui.*".
func WithStableTypes(patterns ...string) Option { return stableTypesOption{patterns: patterns} }

type stableTypesOption struct{ patterns []string }

func (o stableTypesOption) apply(r *run.Options) {
	for _, p := range o.patterns {
		r.StableTypes = append(r.StableTypes, classify.Pattern(p))
	}
}

func (o stableTypesOption) LogAttr() slog.Attr {
	return slog.Any("stable-types", o.patterns)
}

// WithReport is an [Option] to select which functions get non-skippable diagnostics.
func WithReport(report level.Report) Option { return reportOption{report: report} }

type reportOption struct{ report level.Report }

func (o reportOption) apply(r *run.Options) {
	r.Report = o.report
}

func (o reportOption) LogAttr() slog.Attr {
	return slog.Any("report", o.report)
}
