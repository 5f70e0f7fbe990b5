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

// Package session analyzes packages with results memoized across runs.
//
// A [Session] is the long-lived form of the analysis used by the command line
// tool and editor integrations: classification results and per-function
// summaries are kept between calls until [Session.Bump] invalidates them.
package session

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"log/slog"
	"runtime/trace"
	"strconv"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"fillmore-labs.com/stableguard/internal/astutil"
	"fillmore-labs.com/stableguard/internal/cache"
	"fillmore-labs.com/stableguard/internal/classify"
	"fillmore-labs.com/stableguard/internal/composable"
	"fillmore-labs.com/stableguard/internal/config"
	"fillmore-labs.com/stableguard/internal/directive"
	"fillmore-labs.com/stableguard/internal/gotypes"
	"fillmore-labs.com/stableguard/internal/stability"
)

// DefaultCacheSize is the number of memoized classifications and functions.
const DefaultCacheSize = 4096

var (
	// ErrNoObject is returned for declarations without type information.
	ErrNoObject = errors.New("declaration has no type information")

	// ErrNoTypes is returned for packages that failed to type check.
	ErrNoTypes = errors.New("package has no type information")
)

// Options configure a [Session].
type Options struct {
	// Behavior holds the analysis flags.
	Behavior config.Behavior

	// StableTypes are additional patterns of types known to be stable.
	StableTypes []classify.Pattern

	// Jobs limits the number of packages analyzed concurrently, zero means one per package.
	Jobs int

	// CacheSize is the capacity of each in-memory cache, zero means [DefaultCacheSize].
	CacheSize int

	// Disk stores package results between runs, nil disables it.
	Disk *cache.Disk

	// Logger receives debug output, nil means [slog.Default].
	Logger *slog.Logger
}

// Session analyzes packages. It is safe for concurrent use.
type Session struct {
	opts       Options
	version    atomic.Uint64
	classifier *classify.Classifier
	functions  *lru.Cache[funcKey, stability.ComposableInfo]
	logger     *slog.Logger
}

type funcKey struct {
	pos     string
	name    string
	version uint64
}

// New creates a [Session].
func New(opts Options) (*Session, error) {
	size := opts.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}

	s := &Session{opts: opts, logger: opts.Logger}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	classes, err := lru.New[string, stability.Rich](size)
	if err != nil {
		return nil, fmt.Errorf("classification cache: %w", err)
	}

	s.functions, err = lru.New[funcKey, stability.ComposableInfo](size)
	if err != nil {
		return nil, fmt.Errorf("function cache: %w", err)
	}

	s.classifier = classify.New(
		classify.WithStableTypes(opts.StableTypes...),
		classify.WithCache(versioned{cache: classes, version: &s.version}),
	)

	return s, nil
}

// Bump invalidates all memoized results, typically after a source change.
func (s *Session) Bump() uint64 {
	v := s.version.Add(1)
	s.logger.Debug("Session invalidated", slog.Uint64("version", v))

	return v
}

// Version returns the current version stamp.
func (s *Session) Version() uint64 { return s.version.Load() }

// Classifier returns the memoizing classifier of this session.
func (s *Session) Classifier() *classify.Classifier { return s.classifier }

// versioned prefixes cache keys with the session version.
type versioned struct {
	cache   *lru.Cache[string, stability.Rich]
	version *atomic.Uint64
}

func (v versioned) key(k string) string {
	return strconv.FormatUint(v.version.Load(), 36) + ":" + k
}

func (v versioned) Get(key string) (stability.Rich, bool) { return v.cache.Get(v.key(key)) }

func (v versioned) Add(key string, value stability.Rich) bool { return v.cache.Add(v.key(key), value) }

// Unit is a type-checked set of files of one package.
type Unit struct {
	Fset  *token.FileSet
	Files []*ast.File
	Pkg   *types.Package
	Info  *types.Info
}

// Entry is the analysis of one composable function.
type Entry struct {
	Info       stability.ComposableInfo
	Directives directive.FuncDirectives
	Decl       *ast.FuncDecl // nil for cached results
}

// Unanalyzed is a function whose analysis failed.
type Unanalyzed struct {
	QualifiedName string
	Pos           token.Pos
	Err           error
}

// Result is the analysis of a package.
type Result struct {
	PkgPath    string
	Entries    []Entry
	Ignored    []string
	Unanalyzed []Unanalyzed
	Errors     []error
	Cached     bool
}

// Infos returns the summaries of all analyzed functions.
func (r *Result) Infos() []stability.ComposableInfo {
	infos := make([]stability.ComposableInfo, 0, len(r.Entries))
	for _, e := range r.Entries {
		infos = append(infos, e.Info)
	}

	return infos
}

// AnalyzeUnit analyzes the composable functions of a unit.
//
// Invalid directives are reported in [Result.Errors], functions that fail
// analysis in [Result.Unanalyzed]. Neither stops the remaining functions.
func (s *Session) AnalyzeUnit(ctx context.Context, u Unit, markers gotypes.MarkerSource) *Result {
	defer trace.StartRegion(ctx, "AnalyzeUnit").End()

	r := &Result{}
	if u.Pkg != nil {
		r.PkgPath = u.Pkg.Path()
	}

	adapter := gotypes.New(markers)
	analyzer := composable.Analyzer{
		Classifier:     s.classifier,
		StrongSkipping: s.opts.Behavior.Enabled(config.StrongSkipping),
	}

	generated := s.opts.Behavior.Enabled(config.IncludeGenerated)
	tests := s.opts.Behavior.Enabled(config.IncludeTests)
	version := s.version.Load()

	for _, f := range u.Files {
		if astutil.NewCurrentFile(u.Fset, f).Skip(generated, tests) {
			continue
		}

		for fun := range astutil.FuncDecls(f) {
			d, err := directive.Func(fun.Doc)
			if err != nil {
				r.Errors = append(r.Errors, err)
			}

			if !d.Composable {
				if d.Trace != nil {
					r.Errors = append(r.Errors, &directive.Error{Pos: d.Trace.Pos, Text: directive.Prefix + "trace", Err: directive.ErrTraceNotComposable})
				}

				continue
			}

			obj, ok := u.Info.Defs[fun.Name].(*types.Func)
			if !ok {
				r.Unanalyzed = append(r.Unanalyzed, Unanalyzed{QualifiedName: fun.Name.Name, Pos: fun.Pos(), Err: ErrNoObject})

				continue
			}

			if skippedReceiver(adapter, obj) {
				d.Ignore = true
			}

			fn := adapter.Function(obj, d)
			if d.Ignore {
				r.Ignored = append(r.Ignored, fn.QualifiedName)
			}

			key := funcKey{pos: u.Fset.Position(fun.Pos()).String(), name: fn.QualifiedName, version: version}

			info, ok := s.functions.Get(key)
			if !ok {
				info, err = analyzer.SafeAnalyze(fn)
				if err != nil {
					s.logger.Warn("Function analysis failed", slog.String("function", fn.QualifiedName), slog.Any("error", err))
					r.Unanalyzed = append(r.Unanalyzed, Unanalyzed{QualifiedName: fn.QualifiedName, Pos: fun.Pos(), Err: err})

					continue
				}

				s.functions.Add(key, info)
			}

			r.Entries = append(r.Entries, Entry{Info: info, Directives: d, Decl: fun})
		}
	}

	return r
}

// skippedReceiver reports whether fn is a method of a type marked skip.
func skippedReceiver(a *gotypes.Adapter, fn *types.Func) bool {
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() == nil {
		return false
	}

	t := sig.Recv().Type()
	if p, ok := t.(*types.Pointer); ok {
		t = p.Elem()
	}

	return a.Markers(t).Enabled(classify.MarkerSkip)
}
