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

// Package reportfile reads and writes stability report files.
//
// A report lists every analyzed function, sorted by qualified name:
//
//	@Composable
//	exported func example.com/ui.Card(title: string, m: ui.M): ()
//	  skippable: false
//	  restartable: true
//	  params:
//	    - title: STABLE
//	    - m: UNSTABLE (ui.M.name is mutable)
package reportfile

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"iter"
	"slices"
	"strconv"
	"strings"

	"fillmore-labs.com/stableguard/internal/stability"
)

// Extension is the file name extension of report files.
const Extension = ".stability"

const (
	annotation = "@Composable"
	indent     = "  "
	itemIndent = "    - "
)

var header = []string{
	"// Stability report generated by stableguard.",
	"// Do not edit, regenerate with: stableguard report",
}

// Write writes a report of the given functions.
//
// The input order is irrelevant, entries are sorted by qualified name.
func Write(w io.Writer, infos []stability.ComposableInfo) error {
	sorted := slices.SortedFunc(slices.Values(infos), func(a, b stability.ComposableInfo) int {
		return cmp.Compare(a.QualifiedName, b.QualifiedName)
	})

	bw := bufio.NewWriter(w)

	for _, line := range header {
		bw.WriteString(line + "\n") // ignore error
	}

	for _, info := range sorted {
		bw.WriteByte('\n') // ignore error
		writeEntry(bw, info)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	return nil
}

func writeEntry(w *bufio.Writer, info stability.ComposableInfo) {
	params := make([]string, 0, len(info.Parameters))
	for _, p := range info.Parameters {
		params = append(params, p.Name+": "+p.Type)
	}

	fmt.Fprintf(w, "%s\n%s func %s(%s): %s\n", annotation, info.Visibility, info.QualifiedName, strings.Join(params, ", "), info.ReturnType)
	fmt.Fprintf(w, "%sskippable: %t\n", indent, info.Skippable)
	fmt.Fprintf(w, "%srestartable: %t\n", indent, info.Restartable)

	if len(info.Parameters) == 0 {
		return
	}

	w.WriteString(indent + "params:\n") // ignore error

	for _, p := range info.Parameters {
		fmt.Fprintf(w, "%s%s: %s", itemIndent, p.Name, p.Stability)

		if p.Reason != "" {
			fmt.Fprintf(w, " (%s)", p.Reason)
		}

		w.WriteByte('\n') // ignore error
	}
}

// ParseError is a malformed report line.
type ParseError struct {
	Line int
	Text string
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
}

// Parse reads a report.
func Parse(r io.Reader) ([]stability.ComposableInfo, error) {
	p := parser{scanner: bufio.NewScanner(r)}

	return p.parse()
}

type parser struct {
	scanner *bufio.Scanner
	line    int
	infos   []stability.ComposableInfo
	current *stability.ComposableInfo
	params  bool
	next    int // next parameter in the params section
}

func (p *parser) parse() ([]stability.ComposableInfo, error) {
	for p.scanner.Scan() {
		p.line++

		text := p.scanner.Text()
		if err := p.parseLine(text); err != nil {
			return nil, err
		}
	}

	if err := p.scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	if err := p.finish(); err != nil {
		return nil, err
	}

	return p.infos, nil
}

func (p *parser) errorf(text, format string, args ...any) error {
	return &ParseError{Line: p.line, Text: text, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) parseLine(text string) error {
	switch {
	case strings.HasPrefix(text, "//"):
		return nil

	case strings.TrimSpace(text) == "":
		return p.finish()

	case text == annotation:
		if err := p.finish(); err != nil {
			return err
		}

		p.current = &stability.ComposableInfo{}

		return nil

	case p.current == nil:
		return p.errorf(text, "expected %s", annotation)

	case p.current.QualifiedName == "":
		return p.signature(text)

	case strings.HasPrefix(text, itemIndent):
		if !p.params {
			return p.errorf(text, "parameter outside of params section")
		}

		return p.param(strings.TrimPrefix(text, itemIndent))

	case strings.HasPrefix(text, indent):
		return p.property(strings.TrimPrefix(text, indent))

	default:
		return p.errorf(text, "unexpected line")
	}
}

// finish completes the current entry.
func (p *parser) finish() error {
	if p.current == nil {
		return nil
	}

	if p.current.QualifiedName == "" {
		return p.errorf("", "missing signature")
	}

	if p.next != len(p.current.Parameters) {
		return p.errorf("", "%s: %d of %d parameters listed", p.current.QualifiedName, p.next, len(p.current.Parameters))
	}

	p.infos = append(p.infos, *p.current)
	p.current, p.params, p.next = nil, false, 0

	return nil
}

func (p *parser) signature(text string) error {
	visibility, rest, ok := strings.Cut(text, " func ")
	if !ok || visibility == "" {
		return p.errorf(text, "expected <visibility> func <name>(...)")
	}

	open := strings.IndexByte(rest, '(')
	end := strings.LastIndex(rest, "): ")

	if open <= 0 || end < open {
		return p.errorf(text, "malformed signature")
	}

	info := p.current
	info.Visibility = visibility
	info.QualifiedName = rest[:open]
	info.Name = info.QualifiedName[strings.LastIndexByte(info.QualifiedName, '.')+1:]
	info.ReturnType = rest[end+3:]

	for param := range splitTopLevel(rest[open+1 : end]) {
		name, typ, ok := strings.Cut(param, ": ")
		if !ok {
			return p.errorf(text, "malformed parameter %q", param)
		}

		info.Parameters = append(info.Parameters, stability.ParameterInfo{Name: name, Type: typ})
	}

	return nil
}

func (p *parser) property(text string) error {
	if text == "params:" {
		p.params = true

		return nil
	}

	key, value, ok := strings.Cut(text, ": ")
	if !ok {
		return p.errorf(text, "expected <key>: <value>")
	}

	b, err := strconv.ParseBool(value)
	if err != nil {
		return p.errorf(text, "invalid boolean %q", value)
	}

	switch key {
	case "skippable":
		p.current.Skippable = b

	case "restartable":
		p.current.Restartable = b

	default:
		return p.errorf(text, "unknown property %q", key)
	}

	return nil
}

func (p *parser) param(text string) error {
	name, rest, ok := strings.Cut(text, ": ")
	if !ok {
		return p.errorf(text, "expected <name>: <stability>")
	}

	value, reason, _ := strings.Cut(rest, " ")

	v, err := stability.ParseValue(value)
	if err != nil {
		return p.errorf(text, "%v", err)
	}

	if reason != "" {
		if !strings.HasPrefix(reason, "(") || !strings.HasSuffix(reason, ")") {
			return p.errorf(text, "reason must be parenthesized")
		}

		reason = reason[1 : len(reason)-1]
	}

	i := p.next
	if i >= len(p.current.Parameters) || p.current.Parameters[i].Name != name {
		return p.errorf(text, "parameter %q does not match signature", name)
	}

	p.current.Parameters[i].Stability = v
	p.current.Parameters[i].Reason = reason
	p.next++

	return nil
}

// splitTopLevel yields the comma separated elements of a parameter list,
// ignoring commas nested in brackets.
func splitTopLevel(s string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if s == "" {
			return
		}

		depth, start := 0, 0

		for i := range len(s) {
			switch s[i] {
			case '(', '[', '{':
				depth++

			case ')', ']', '}':
				depth--

			case ',':
				if depth > 0 {
					continue
				}

				if !yield(strings.TrimSpace(s[start:i])) {
					return
				}

				start = i + 1
			}
		}

		yield(strings.TrimSpace(s[start:]))
	}
}
