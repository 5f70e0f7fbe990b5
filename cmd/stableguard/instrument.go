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
	"go/ast"
	"go/types"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"

	"fillmore-labs.com/stableguard/internal/inject"
	"fillmore-labs.com/stableguard/internal/session"
)

// OverlayFile is the name of the overlay description written by instrument.
const OverlayFile = "overlay.json"

var instrumentCmd = &cobra.Command{
	Use:   "instrument -o <dir> [packages]",
	Short: "Instrument traced composable functions with recomposition logging",
	Long: `Write instrumented copies of all files with //stableguard:trace functions
below the output directory, together with an overlay for

	go build -overlay=<dir>/` + OverlayFile,
	RunE: runInstrument,
}

func init() {
	instrumentCmd.Flags().StringP("output", "o", "", "output directory for instrumented files")
	instrumentCmd.Flags().Bool("method-expressions", false, "call tracker methods as method expressions")
	_ = instrumentCmd.MarkFlagRequired("output")
}

func runInstrument(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("output")

	out, err := filepath.Abs(out)
	if err != nil {
		return err
	}

	conv := inject.MethodValue
	if exprs, _ := cmd.Flags().GetBool("method-expressions"); exprs {
		conv = inject.MethodExpression
	}

	a, err := analyze(cmd.Context(), args, false)
	if err != nil {
		return err
	}

	overlay := inject.NewOverlay()
	loader := newRuntimeLoader()

	var (
		mu    sync.Mutex
		stats inject.Stats
	)

	g, ctx := errgroup.WithContext(cmd.Context())
	if cfg.Jobs > 0 {
		g.SetLimit(cfg.Jobs)
	}

	for i, pkg := range a.pkgs {
		r := a.results[i]

		g.Go(func() error {
			s, err := instrumentPackage(ctx, pkg, r, loader, conv, out, overlay)

			mu.Lock()
			stats.Add(s)
			mu.Unlock()

			return err
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	if overlay.Len() == 0 {
		slog.Info("No traced composable functions found")

		return nil
	}

	path := filepath.Join(out, OverlayFile)
	if err := overlay.Save(path); err != nil {
		return err
	}

	slog.Info("Instrumented",
		slog.Int("functions", stats.Injected),
		slog.Int("skipped", stats.Skipped),
		slog.Int("parameters", stats.Params),
		slog.Int("files", overlay.Len()),
	)

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "go build -overlay=%s\n", path)

	return err
}

// instrumentPackage rewrites the files of one package containing traced functions.
func instrumentPackage(ctx context.Context, pkg *packages.Package, r *session.Result, loader *runtimeLoader, conv inject.Convention, out string, overlay *inject.Overlay) (inject.Stats, error) {
	var stats inject.Stats

	targets := make(map[*ast.File][]inject.Target)

	for _, e := range r.Entries {
		if e.Directives.Trace == nil || e.Decl == nil {
			continue
		}

		f := fileOf(pkg, e.Decl)
		if f == nil {
			continue
		}

		targets[f] = append(targets[f], inject.Target{
			Decl:      e.Decl,
			Name:      e.Info.QualifiedName,
			Tag:       e.Directives.Trace.Tag,
			Threshold: e.Directives.Trace.Threshold,
			Info:      e.Info,
		})
	}

	if len(targets) == 0 {
		return stats, nil
	}

	sym, err := symbolsFor(ctx, pkg, loader, conv)
	if err != nil {
		slog.Warn("Skipping package", slog.String("package", pkg.PkgPath), slog.Any("error", err))

		for _, t := range targets {
			stats.Skipped += len(t)
		}

		return stats, nil
	}

	var errs []error

	for f, t := range targets {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		s := inject.File(pkg.Fset, f, t, sym)
		stats.Add(s)

		if s.Injected == 0 {
			continue
		}

		content, err := inject.Print(pkg.Fset, f)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		filename := pkg.Fset.Position(f.Package).Filename
		if err := overlay.WriteFile(out, filename, content); err != nil {
			errs = append(errs, err)

			continue
		}

		slog.Debug("Instrumented file", slog.String("file", filename), slog.Int("functions", s.Injected))
	}

	return stats, errors.Join(errs...)
}

// symbolsFor resolves the runtime API from the package imports, or from the
// runtime package as the build of pkg sees it.
func symbolsFor(ctx context.Context, pkg *packages.Package, loader *runtimeLoader, conv inject.Convention) (inject.Symbols, error) {
	if pkg.Types == nil {
		return inject.Symbols{}, fmt.Errorf("%w: %s has no type information", inject.ErrSymbolMissing, pkg.PkgPath)
	}

	for _, imp := range pkg.Types.Imports() {
		if imp.Path() == inject.RuntimePath {
			return inject.ResolveSymbols(imp, conv)
		}
	}

	dir, err := packageDir(pkg)
	if err != nil {
		return inject.Symbols{}, err
	}

	rt, err := loader.Load(ctx, dir)
	if err != nil {
		return inject.Symbols{}, err
	}

	return inject.ResolveSymbols(rt, conv)
}

func packageDir(pkg *packages.Package) (string, error) {
	for _, files := range [][]string{pkg.CompiledGoFiles, pkg.GoFiles} {
		if len(files) > 0 {
			return filepath.Dir(files[0]), nil
		}
	}

	return "", fmt.Errorf("%w: %s has no source files", inject.ErrSymbolMissing, pkg.PkgPath)
}

// runtimeLoader loads the runtime package once per directory.
type runtimeLoader struct {
	mu    sync.Mutex
	loads map[string]func() (*types.Package, error)
}

func newRuntimeLoader() *runtimeLoader {
	return &runtimeLoader{loads: make(map[string]func() (*types.Package, error))}
}

// Load type-checks the runtime package as imported from dir.
//
// It fails with [inject.ErrSymbolMissing] when the build in dir can't resolve
// the runtime, for example in a module not requiring it.
func (l *runtimeLoader) Load(ctx context.Context, dir string) (*types.Package, error) {
	l.mu.Lock()

	load, ok := l.loads[dir]
	if !ok {
		load = sync.OnceValues(func() (*types.Package, error) { return loadRuntime(ctx, dir) })
		l.loads[dir] = load
	}

	l.mu.Unlock()

	return load()
}

func loadRuntime(ctx context.Context, dir string) (*types.Package, error) {
	pkgs, err := packages.Load(&packages.Config{
		Mode:    packages.NeedName | packages.NeedTypes,
		Context: ctx,
		Dir:     dir,
	}, inject.RuntimePath)
	if err != nil {
		return nil, fmt.Errorf("%w: loading %s: %w", inject.ErrSymbolMissing, inject.RuntimePath, err)
	}

	if len(pkgs) != 1 {
		return nil, fmt.Errorf("%w: %s resolves to %d packages", inject.ErrSymbolMissing, inject.RuntimePath, len(pkgs))
	}

	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", inject.ErrSymbolMissing, pkg.Errors[0])
	}

	if pkg.Types == nil {
		return nil, fmt.Errorf("%w: %s has no type information", inject.ErrSymbolMissing, inject.RuntimePath)
	}

	return pkg.Types, nil
}

func fileOf(pkg *packages.Package, decl *ast.FuncDecl) *ast.File {
	for _, f := range pkg.Syntax {
		if f.FileStart <= decl.Pos() && decl.End() <= f.FileEnd {
			return f
		}
	}

	return nil
}
