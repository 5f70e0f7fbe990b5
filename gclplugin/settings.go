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

package gclplugin

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	stableguard "fillmore-labs.com/stableguard/analyzer"
	"fillmore-labs.com/stableguard/analyzer/level"
)

// Settings represents the configuration options for an instance of the [Plugin].
type Settings struct {
	// IncludeTests enables analysis of functions in test files.
	IncludeTests *bool `json:"include-tests,omitzero"`
	// StrongSkipping treats every restartable function as skippable.
	StrongSkipping *bool `json:"strong-skipping,omitzero"`
	// StableTypes lists additional types known to be stable.
	StableTypes []string `json:"stable-types,omitzero"`
	// Report selects the reported functions: all, exported or off.
	Report *level.Report `json:"report,omitzero"`
}

// Options converts [Settings] into a list of [stableguard.Option] for the stableguard analyzer.
// It processes settings and applies them only when explicitly set (non-nil).
func (s Settings) Options() []stableguard.Option {
	var opts []stableguard.Option

	opts = appendOption(opts, s.IncludeTests, stableguard.WithIncludeTests)
	opts = appendOption(opts, s.StrongSkipping, stableguard.WithStrongSkipping)
	opts = appendOption(opts, s.Report, stableguard.WithReport)

	if len(s.StableTypes) > 0 {
		opts = append(opts, stableguard.WithStableTypes(s.StableTypes...))
	}

	return opts
}

// ErrStableType is returned for a stable-types entry that is neither a qualified
// type name nor a package wildcard.
var ErrStableType = errors.New("malformed stable type")

// Validate checks the stable-types entries, which must look like
// "example.com/ui.Color" or "example.com/geom.*".
func (s Settings) Validate() error {
	var errs []error

	for _, t := range s.StableTypes {
		dot := strings.LastIndexByte(t, '.')
		if dot <= 0 || dot < strings.LastIndexByte(t, '/') {
			errs = append(errs, fmt.Errorf("%w %q: missing package path", ErrStableType, t))

			continue
		}

		if name := t[dot+1:]; name != "*" && !token.IsIdentifier(name) {
			errs = append(errs, fmt.Errorf("%w %q: invalid type name %q", ErrStableType, t, name))
		}
	}

	return errors.Join(errs...)
}

// appendOption appends a non-nil setting to a [stableguard.Option] list.
func appendOption[T any](opts []stableguard.Option, value *T, constructor func(T) stableguard.Option) []stableguard.Option {
	if value == nil {
		return opts
	}

	return append(opts, constructor(*value))
}
