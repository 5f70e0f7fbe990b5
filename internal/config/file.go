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

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the name of the project configuration file.
const FileName = "stableguard.toml"

// ErrUnknownKey is returned for configuration keys that are not recognized.
var ErrUnknownKey = errors.New("unknown configuration key")

// File is the project configuration read from [FileName].
type File struct {
	// IncludeTests analyzes functions in test files.
	IncludeTests bool `toml:"include-tests"`

	// IncludeGenerated analyzes functions in generated files.
	IncludeGenerated bool `toml:"include-generated"`

	// StrongSkipping treats every restartable function as skippable.
	StrongSkipping bool `toml:"strong-skipping"`

	// IgnoredPackages are package path prefixes excluded from reports.
	IgnoredPackages []string `toml:"ignored-packages"`

	// IgnoredTypes are receiver type names excluded from reports.
	IgnoredTypes []string `toml:"ignored-types"`

	// StableTypes are additional types known to be stable.
	StableTypes []string `toml:"stable-types"`

	// OutputDir receives report files, relative to the configuration file.
	OutputDir string `toml:"output-dir"`

	// ReportName is the report file name without extension.
	ReportName string `toml:"report-name"`

	// Jobs limits concurrently analyzed packages, zero means one per package.
	Jobs int `toml:"jobs"`

	// CacheDir holds the result cache, empty means the user cache directory.
	CacheDir string `toml:"cache-dir"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

// DefaultFile returns the configuration used without a configuration file.
func DefaultFile() File {
	return File{OutputDir: ".", ReportName: "stability"}
}

// Behavior returns the analysis flags of this configuration.
func (f File) Behavior() Behavior {
	b := DefaultBehavior()
	b.Set(IncludeTests, f.IncludeTests)
	b.Set(IncludeGenerated, f.IncludeGenerated)
	b.Set(StrongSkipping, f.StrongSkipping)

	return b
}

// Dir returns the directory relative paths are resolved against.
func (f File) Dir() string {
	if f.Path == "" {
		return "."
	}

	return filepath.Dir(f.Path)
}

// Resolve returns path relative to the configuration directory.
func (f File) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(f.Dir(), path)
}

// Find searches startDir and its parents for [FileName].
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}

		dir = parent
	}
}

// Load reads a configuration file. Missing keys keep their defaults.
func Load(path string) (File, error) {
	f := DefaultFile()

	meta, err := toml.DecodeFile(path, &f)
	if err != nil {
		return File{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}

		return File{}, fmt.Errorf("%s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}

	if f.Jobs < 0 {
		return File{}, fmt.Errorf("%s: jobs must not be negative", path)
	}

	f.Path = path

	return f, nil
}

// LoadFrom finds and loads the configuration for startDir, falling back to [DefaultFile].
func LoadFrom(startDir string) (File, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return DefaultFile(), err
	}

	return Load(path)
}
