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

// Package cache stores per-package analysis results on disk.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"fillmore-labs.com/stableguard/internal/stability"
)

// SchemaVersion is incremented when the [Payload] format or the analysis changes.
const SchemaVersion uint16 = 1

// Key identifies the inputs of a package analysis.
type Key [sha256.Size]byte

func (k Key) String() string { return hex.EncodeToString(k[:]) }

// Hasher computes a [Key].
type Hasher struct {
	h interface {
		io.Writer
		Sum(b []byte) []byte
	}
}

// NewHasher creates a [Hasher] seeded with the schema version.
func NewHasher() *Hasher {
	h := &Hasher{h: sha256.New()}
	_ = binary.Write(h.h, binary.LittleEndian, SchemaVersion)

	return h
}

// String adds a length-prefixed string.
func (h *Hasher) String(s string) {
	_ = binary.Write(h.h, binary.LittleEndian, uint64(len(s)))
	_, _ = io.WriteString(h.h, s)
}

// File adds the name and contents of a file.
func (h *Hasher) File(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("hashing %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("hashing %s: %w", path, err)
	}

	h.String(filepath.Base(path))
	_ = binary.Write(h.h, binary.LittleEndian, info.Size())

	if _, err := io.Copy(h.h, f); err != nil {
		return fmt.Errorf("hashing %s: %w", path, err)
	}

	return nil
}

// Sum returns the key.
func (h *Hasher) Sum() Key {
	var k Key
	copy(k[:], h.h.Sum(nil))

	return k
}

// Payload is the cached analysis result of one package.
type Payload struct {
	Schema    uint16
	PkgPath   string
	Functions []stability.ComposableInfo
	Ignored   []string
}

// Disk stores payloads below a directory. A nil *Disk caches nothing.
//
// Entries are written atomically, so concurrent readers and writers are safe.
type Disk struct {
	dir string
}

// ErrNoCacheDir is returned when no cache directory can be determined.
var ErrNoCacheDir = errors.New("no cache directory")

// Open creates a [Disk] cache in dir, defaulting to the user cache directory.
func Open(dir string) (*Disk, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoCacheDir, err)
		}

		dir = filepath.Join(base, "stableguard")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	return &Disk{dir: dir}, nil
}

func (d *Disk) pathFor(key Key) string {
	k := key.String()

	return filepath.Join(d.dir, k[:2], k+".mp")
}

// Put stores a payload.
func (d *Disk) Put(key Key, payload *Payload) (err error) {
	if d == nil {
		return nil
	}

	p := d.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("cache put: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}

	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	payload.Schema = SchemaVersion

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()

		return fmt.Errorf("cache encode: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("cache put: %w", err)
	}

	if err := os.Rename(f.Name(), p); err != nil {
		return fmt.Errorf("cache put: %w", err)
	}

	return nil
}

// Get loads a payload. Missing entries and entries of another schema are misses.
func (d *Disk) Get(key Key) (*Payload, bool, error) {
	if d == nil {
		return nil, false, nil
	}

	f, err := os.Open(d.pathFor(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}

	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	defer f.Close()

	var payload Payload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}

	if payload.Schema != SchemaVersion {
		return nil, false, nil
	}

	return &payload, true, nil
}

// Clear removes all entries.
func (d *Disk) Clear() error {
	if d == nil {
		return nil
	}

	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}

	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(d.dir, e.Name())); err != nil {
			return fmt.Errorf("cache clear: %w", err)
		}
	}

	return nil
}
