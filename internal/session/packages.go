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

package session

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"runtime"
	"runtime/trace"
	"slices"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"

	"fillmore-labs.com/stableguard/internal/cache"
	"fillmore-labs.com/stableguard/internal/directive"
)

// LoadMode is the [packages.LoadMode] required by [Session.Analyze].
const LoadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles | packages.NeedImports |
	packages.NeedTypes | packages.NeedTypesInfo | packages.NeedSyntax

// Analyze analyzes loaded packages concurrently.
//
// Type directives are visible across all given packages. Results are in the
// order of pkgs.
func (s *Session) Analyze(ctx context.Context, pkgs []*packages.Package) ([]*Result, error) {
	ctx, task := trace.NewTask(ctx, "Analyze")
	defer task.End()

	markers := make(directive.Index)
	indexErrs := make([][]error, len(pkgs))

	for i, pkg := range pkgs {
		if pkg.TypesInfo == nil {
			continue
		}

		idx, err := directive.NewIndex(pkg.Syntax, pkg.TypesInfo)
		if err != nil {
			indexErrs[i] = unjoin(err)
		}

		maps.Copy(markers, idx)
	}

	results := make([]*Result, len(pkgs))

	g, ctx := errgroup.WithContext(ctx)

	jobs := s.opts.Jobs
	if jobs <= 0 {
		jobs = len(pkgs)
	}

	g.SetLimit(max(1, min(jobs, len(pkgs))))

	for i, pkg := range pkgs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			if pkg.TypesInfo == nil {
				results[i] = &Result{PkgPath: pkg.PkgPath, Errors: []error{fmt.Errorf("%w: %s", ErrNoTypes, pkg.PkgPath)}}

				return nil
			}

			r, err := s.analyzePackage(ctx, pkg, markers)
			if err != nil {
				return fmt.Errorf("package %s: %w", pkg.PkgPath, err)
			}

			r.Errors = append(indexErrs[i], r.Errors...)
			results[i] = r

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (s *Session) analyzePackage(ctx context.Context, pkg *packages.Package, markers directive.Index) (*Result, error) {
	trace.Log(ctx, "package", pkg.PkgPath)

	var key cache.Key

	if s.opts.Disk != nil {
		k, err := s.diskKey(pkg)
		if err != nil {
			return nil, err
		}

		key = k

		payload, ok, err := s.opts.Disk.Get(key)
		if err != nil {
			s.logger.Warn("Ignoring cache entry", slog.String("package", pkg.PkgPath), slog.Any("error", err))
		}

		if ok {
			s.logger.Debug("Cache hit", slog.String("package", pkg.PkgPath))

			return fromPayload(payload), nil
		}
	}

	r := s.AnalyzeUnit(ctx, Unit{Fset: pkg.Fset, Files: pkg.Syntax, Pkg: pkg.Types, Info: pkg.TypesInfo}, markers)
	r.PkgPath = pkg.PkgPath

	if s.opts.Disk != nil && len(r.Unanalyzed) == 0 && len(r.Errors) == 0 && len(pkg.Errors) == 0 {
		if err := s.opts.Disk.Put(key, &cache.Payload{PkgPath: r.PkgPath, Functions: r.Infos(), Ignored: r.Ignored}); err != nil {
			s.logger.Warn("Can't store cache entry", slog.String("package", pkg.PkgPath), slog.Any("error", err))
		}
	}

	return r, nil
}

// diskKey hashes the package sources, the sources of its imports and the options.
func (s *Session) diskKey(pkg *packages.Package) (cache.Key, error) {
	h := cache.NewHasher()
	h.String(runtime.Version())
	h.String(fmt.Sprintf("%d %q", s.opts.Behavior.Bits(), s.opts.StableTypes))

	seen := make(map[string]struct{})

	var visit func(p *packages.Package) error

	visit = func(p *packages.Package) error {
		if _, ok := seen[p.ID]; ok {
			return nil
		}

		seen[p.ID] = struct{}{}

		h.String(p.ID)

		for _, file := range p.CompiledGoFiles {
			if err := h.File(file); err != nil {
				return err
			}
		}

		for _, path := range slices.Sorted(maps.Keys(p.Imports)) {
			if err := visit(p.Imports[path]); err != nil {
				return err
			}
		}

		return nil
	}

	if err := visit(pkg); err != nil {
		return cache.Key{}, err
	}

	return h.Sum(), nil
}

func fromPayload(p *cache.Payload) *Result {
	r := &Result{PkgPath: p.PkgPath, Ignored: p.Ignored, Cached: true}

	r.Entries = make([]Entry, 0, len(p.Functions))
	for _, info := range p.Functions {
		r.Entries = append(r.Entries, Entry{Info: info})
	}

	return r
}

func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}

	return []error{err}
}
