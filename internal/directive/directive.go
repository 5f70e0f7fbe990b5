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

// Package directive parses //stableguard: comment directives.
//
// Function directives:
//
//	//stableguard:composable
//	//stableguard:nonrestartable
//	//stableguard:readonly
//	//stableguard:trace [tag=<tag>] [threshold=<n>]
//	//stableguard:ignore
//
// Type directives:
//
//	//stableguard:stable
//	//stableguard:immutable
//	//stableguard:serializable
//	//stableguard:runtime
//	//stableguard:skip
//
// A directive may be followed by a comment starting with "//".
package directive

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"iter"
	"strconv"
	"strings"

	"fillmore-labs.com/stableguard/internal/classify"
)

// Prefix starts every directive.
const Prefix = "//stableguard:"

var (
	// ErrUnknownDirective is returned for unrecognized directive names or arguments.
	ErrUnknownDirective = errors.New("unknown directive")

	// ErrMisplacedDirective is returned for type directives on functions and vice versa.
	ErrMisplacedDirective = errors.New("misplaced directive")

	// ErrInvalidThreshold is returned for trace thresholds smaller than one.
	ErrInvalidThreshold = errors.New("trace threshold must be a positive integer")

	// ErrTraceNotComposable is returned for trace directives on functions that are not composable.
	ErrTraceNotComposable = errors.New("trace directive on a function that is not composable")
)

// Error is a directive that could not be parsed.
type Error struct {
	Pos  token.Pos
	Text string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid directive %q: %v", e.Text, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Trace holds the arguments of a trace directive.
type Trace struct {
	Pos       token.Pos
	Tag       string
	Threshold int
}

// FuncDirectives are the directives of a function declaration.
type FuncDirectives struct {
	Composable     bool
	NonRestartable bool
	Readonly       bool
	Ignore         bool
	Trace          *Trace
}

var _funcDirectives = map[string]func(d *FuncDirectives){
	"composable":     func(d *FuncDirectives) { d.Composable = true },
	"nonrestartable": func(d *FuncDirectives) { d.NonRestartable = true },
	"readonly":       func(d *FuncDirectives) { d.Readonly = true },
	"ignore":         func(d *FuncDirectives) { d.Ignore = true },
}

var _typeDirectives = map[string]classify.Marker{
	"stable":       classify.MarkerStable,
	"immutable":    classify.MarkerImmutable,
	"serializable": classify.MarkerSerializable,
	"runtime":      classify.MarkerRuntime,
	"skip":         classify.MarkerSkip,
}

// Func parses the directives in a function doc comment.
//
// Valid directives are applied even when others fail to parse.
func Func(doc *ast.CommentGroup) (FuncDirectives, error) {
	var (
		d    FuncDirectives
		errs []error
	)

	for c := range All(doc) {
		name, args := split(c.Text)

		if set, ok := _funcDirectives[name]; ok {
			if args != "" {
				errs = append(errs, &Error{c.Slash, c.Text, fmt.Errorf("%w: unexpected arguments %q", ErrUnknownDirective, args)})

				continue
			}

			set(&d)

			continue
		}

		if name == "trace" {
			t, err := parseTrace(args)
			if err != nil {
				errs = append(errs, &Error{c.Slash, c.Text, err})

				continue
			}

			t.Pos = c.Slash
			d.Trace = &t

			continue
		}

		if _, ok := _typeDirectives[name]; ok {
			errs = append(errs, &Error{c.Slash, c.Text, fmt.Errorf("%w: %q applies to types", ErrMisplacedDirective, name)})

			continue
		}

		errs = append(errs, &Error{c.Slash, c.Text, ErrUnknownDirective})
	}

	return d, errors.Join(errs...)
}

// Type parses the directives in a type doc comment.
func Type(doc *ast.CommentGroup) (classify.Markers, error) {
	var (
		m    classify.Markers
		errs []error
	)

	for c := range All(doc) {
		name, args := split(c.Text)

		marker, ok := _typeDirectives[name]
		switch {
		case ok && args == "":
			m.Enable(marker)

		case ok:
			errs = append(errs, &Error{c.Slash, c.Text, fmt.Errorf("%w: unexpected arguments %q", ErrUnknownDirective, args)})

		case name == "trace" || _funcDirectives[name] != nil:
			errs = append(errs, &Error{c.Slash, c.Text, fmt.Errorf("%w: %q applies to functions", ErrMisplacedDirective, name)})

		default:
			errs = append(errs, &Error{c.Slash, c.Text, ErrUnknownDirective})
		}
	}

	return m, errors.Join(errs...)
}

// All yields the directive comments of a comment group.
func All(doc *ast.CommentGroup) iter.Seq[*ast.Comment] {
	return func(yield func(*ast.Comment) bool) {
		if doc == nil {
			return
		}

		for _, c := range doc.List {
			if !strings.HasPrefix(c.Text, Prefix) {
				continue
			}

			if !yield(c) {
				return
			}
		}
	}
}

// split separates the directive name from its arguments, dropping a trailing comment.
func split(text string) (name, args string) {
	text = strings.TrimPrefix(text, Prefix)
	if i := strings.Index(text, " //"); i >= 0 {
		text = text[:i]
	}

	name, args, _ = strings.Cut(text, " ")

	return name, strings.TrimSpace(args)
}

func parseTrace(args string) (Trace, error) {
	t := Trace{Threshold: 1}

	for arg := range strings.FieldsSeq(args) {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return Trace{}, fmt.Errorf("%w: argument %q has no value", ErrUnknownDirective, arg)
		}

		switch key {
		case "tag":
			if strings.HasPrefix(value, `"`) {
				unquoted, err := strconv.Unquote(value)
				if err != nil {
					return Trace{}, fmt.Errorf("tag %s: %w", value, err)
				}

				value = unquoted
			}

			t.Tag = value

		case "threshold":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return Trace{}, fmt.Errorf("%w: %q", ErrInvalidThreshold, value)
			}

			t.Threshold = n

		default:
			return Trace{}, fmt.Errorf("%w: argument %q", ErrUnknownDirective, key)
		}
	}

	return t, nil
}
