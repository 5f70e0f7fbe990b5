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
	"fmt"

	"github.com/golangci/plugin-module-register/register"
	"golang.org/x/tools/go/analysis"

	stableguard "fillmore-labs.com/stableguard/analyzer"
)

func init() { register.Plugin("stableguard", New) }

// New creates a new [Plugin] instance with the given [Settings].
//
// Malformed stable types fail here, so golangci-lint reports them at startup
// instead of silently classifying the types as unknown.
func New(rawSettings any) (register.LinterPlugin, error) {
	settings, err := register.DecodeSettings[Settings](rawSettings)
	if err != nil {
		return nil, err
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("stableguard settings: %w", err)
	}

	return Plugin{settings: settings}, nil
}

// Plugin reports composable functions that can't be skipped, as a [register.LinterPlugin].
type Plugin struct {
	settings Settings
}

// GetLoadMode returns the golangci load mode.
func (Plugin) GetLoadMode() string {
	return register.LoadModeTypesInfo
}

// BuildAnalyzers returns the stability analyzer configured by the settings.
//
// golangci-lint excludes generated files itself, so the analyzer doesn't.
func (p Plugin) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	opts := append(p.settings.Options(), stableguard.WithGenerated(true))

	return []*analysis.Analyzer{stableguard.New(opts...)}, nil
}
