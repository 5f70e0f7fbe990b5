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

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/tools/go/packages"

	"fillmore-labs.com/stableguard/internal/cache"
	"fillmore-labs.com/stableguard/internal/classify"
	"fillmore-labs.com/stableguard/internal/reportfile"
	"fillmore-labs.com/stableguard/internal/session"
	"fillmore-labs.com/stableguard/internal/stability"
)

// ErrNoPackages is returned when no package could be loaded.
var ErrNoPackages = errors.New("no packages loaded")

// analysis holds loaded packages with their results, in the same order.
type analysis struct {
	pkgs    []*packages.Package
	results []*session.Result
}

// analyze loads and analyzes the packages matching patterns.
//
// The disk cache is only consulted when useCache is set, cached results carry
// no syntax.
func analyze(ctx context.Context, patterns []string, useCache bool) (*analysis, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	pkgs, err := packages.Load(&packages.Config{
		Mode:    session.LoadMode,
		Context: ctx,
		Dir:     cfg.Dir(),
		Tests:   cfg.IncludeTests,
	}, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}

	pkgs = withoutTestMains(pkgs)

	loaded := 0

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			slog.Warn("Package error", slog.String("package", pkg.ID), slog.String("error", e.Error()))
		}

		if pkg.Types != nil && pkg.TypesInfo != nil {
			loaded++
		}
	}

	if loaded == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoPackages, strings.Join(patterns, " "))
	}

	opts := session.Options{
		Behavior:    cfg.Behavior(),
		StableTypes: patternsOf(cfg.StableTypes),
		Jobs:        cfg.Jobs,
		Logger:      slog.Default(),
	}

	if useCache {
		disk, err := cache.Open(cfg.Resolve(cfg.CacheDir))
		if err != nil {
			slog.Warn("Result cache disabled", slog.Any("error", err))
		}

		opts.Disk = disk
	}

	s, err := session.New(opts)
	if err != nil {
		return nil, err
	}

	results, err := s.Analyze(ctx, pkgs)
	if err != nil {
		return nil, err
	}

	for _, r := range results {
		for _, err := range r.Errors {
			slog.Warn("Analysis problem", slog.String("package", r.PkgPath), slog.Any("error", err))
		}

		for _, u := range r.Unanalyzed {
			slog.Warn("Function not analyzed", slog.String("function", u.QualifiedName), slog.Any("error", u.Err))
		}
	}

	return &analysis{pkgs: pkgs, results: results}, nil
}

// infos returns the deduplicated function summaries with the report filter applied.
//
// Test variants of a package repeat its functions, the first occurrence wins.
func (a *analysis) infos() []stability.ComposableInfo {
	filter := reportfile.Filter{
		IgnoredPackages: cfg.IgnoredPackages,
		IgnoredTypes:    cfg.IgnoredTypes,
		Ignored:         make(map[string]struct{}),
	}

	var infos []stability.ComposableInfo

	seen := make(map[string]struct{})

	for _, r := range a.results {
		for _, name := range r.Ignored {
			filter.Ignored[name] = struct{}{}
		}

		for _, info := range r.Infos() {
			if _, ok := seen[info.QualifiedName]; ok {
				continue
			}

			seen[info.QualifiedName] = struct{}{}
			infos = append(infos, info)
		}
	}

	return filter.Apply(infos)
}

// withoutTestMains drops the synthesized main packages of test binaries.
func withoutTestMains(pkgs []*packages.Package) []*packages.Package {
	kept := pkgs[:0]

	for _, pkg := range pkgs {
		if strings.HasSuffix(pkg.ID, ".test") {
			continue
		}

		kept = append(kept, pkg)
	}

	return kept
}

func patternsOf(s []string) []classify.Pattern {
	patterns := make([]classify.Pattern, 0, len(s))
	for _, p := range s {
		patterns = append(patterns, classify.Pattern(p))
	}

	return patterns
}
