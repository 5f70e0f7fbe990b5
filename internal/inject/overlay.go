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

package inject

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Overlay maps original source files to their instrumented copies.
//
// It is written in the format expected by "go build -overlay".
type Overlay struct {
	mu      sync.Mutex
	Replace map[string]string
}

// NewOverlay creates an empty [Overlay].
func NewOverlay() *Overlay {
	return &Overlay{Replace: make(map[string]string)}
}

// WriteFile writes the instrumented copy of source below dir and records it.
func (o *Overlay) WriteFile(dir, source string, content []byte) error {
	abs, err := filepath.Abs(source)
	if err != nil {
		return fmt.Errorf("overlay source %s: %w", source, err)
	}

	target := filepath.Join(dir, abs)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("overlay directory: %w", err)
	}

	if err := os.WriteFile(target, content, 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("overlay file: %w", err)
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	o.Replace[abs] = target

	return nil
}

// Len is the number of replaced files.
func (o *Overlay) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()

	return len(o.Replace)
}

// Save writes the overlay description to path.
func (o *Overlay) Save(path string) error {
	o.mu.Lock()
	data, err := json.MarshalIndent(struct{ Replace map[string]string }{o.Replace}, "", "  ")
	o.mu.Unlock()

	if err != nil {
		return fmt.Errorf("encoding overlay: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec
		return fmt.Errorf("writing overlay: %w", err)
	}

	return nil
}
