// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hackerinthewoods/sitectl/internal/log"
)

// Dir resolves the base cache directory.
// Precedence:
//  1. SITECTL_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/sitectl
//
// Returns ("", false) if a base cannot be resolved (treat as disabled).
func Dir() (string, bool) {
	if c, ok := os.LookupEnv("SITECTL_CACHE_DIR"); ok && c != "" {
		return c, true
	}
	if dir, err := os.UserCacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "sitectl"), true
	}
	return "", false
}

// Enabled returns true unless SITECTL_CACHE explicitly disables it ("0"/"false").
func Enabled() bool {
	enabled, _ := os.LookupEnv("SITECTL_CACHE")
	return enabled == "" || (enabled != "0" && enabled != "false")
}

// Manifest records the content digest of every object last uploaded to a
// bucket so unchanged files can be skipped on the next publish. A Manifest
// without a path is in-memory only and never persists.
type Manifest struct {
	Bucket  string            `yaml:"bucket"`
	Updated time.Time         `yaml:"updated"`
	Digests map[string]string `yaml:"digests"`

	path  string
	mu    sync.Mutex
	dirty bool
}

// Load reads the manifest for bucket. A missing file, a disabled cache, or an
// unresolvable cache dir all yield an empty manifest.
func Load(bucket string) (*Manifest, error) {
	m := &Manifest{Bucket: bucket, Digests: map[string]string{}}
	if !Enabled() {
		log.Debug("publish cache disabled")
		return m, nil
	}
	base, ok := Dir()
	if !ok {
		return m, nil
	}
	m.path = filepath.Join(base, "publish", encodeKey(bucket)+".yaml")

	b, err := os.ReadFile(m.path)
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read publish cache: %w", err)
	}

	var onDisk Manifest
	if err := yaml.Unmarshal(b, &onDisk); err != nil {
		log.WithError(err).Warnf("discarding unreadable publish cache %s", m.path)
		return m, nil
	}
	if onDisk.Bucket != bucket {
		log.Warnf("publish cache %s belongs to %s, ignoring", m.path, onDisk.Bucket)
		return m, nil
	}
	for k, v := range onDisk.Digests {
		m.Digests[k] = v
	}
	m.Updated = onDisk.Updated
	log.Debugf("cache hit: bucket=%s entries=%d", bucket, len(m.Digests))
	return m, nil
}

// Forget drops the manifest for bucket so the next publish uploads every
// file. Use it whenever the bucket may have been recreated empty.
func Forget(bucket string) error {
	base, ok := Dir()
	if !ok || bucket == "" {
		return nil
	}
	path := filepath.Join(base, "publish", encodeKey(bucket)+".yaml")
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to forget publish cache: %w", err)
	}
	log.Debugf("cache forget: bucket=%s", bucket)
	return nil
}

// Path is where the manifest persists, or "" when it does not.
func (m *Manifest) Path() string {
	return m.path
}

// Unchanged reports whether key was last uploaded with digest.
func (m *Manifest) Unchanged(key, digest string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Digests[key] == digest
}

// Record notes that key was uploaded with digest.
func (m *Manifest) Record(key, digest string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Digests[key] != digest {
		m.Digests[key] = digest
		m.dirty = true
	}
}

// Save writes the manifest if anything was recorded since Load.
func (m *Manifest) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.path == "" || !m.dirty {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	m.Updated = time.Now().UTC()
	b, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode publish cache: %w", err)
	}
	if err := os.WriteFile(m.path, b, os.FileMode(0o600)); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	m.dirty = false
	log.Debugf("cache write: bucket=%s entries=%d", m.Bucket, len(m.Digests))
	return nil
}

// Purge removes cache files older than the provided number of hours.
// If hours <= 0 or the cache dir cannot be resolved, it is a no-op.
func Purge(hours int) error {
	if hours <= 0 {
		log.Debug("cache cleaning disabled")
		return nil
	}

	base, ok := Dir()
	if !ok {
		return nil
	}

	maxAge := time.Duration(hours) * time.Hour
	if err := filepath.Walk(base, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if info == nil {
			return nil
		}

		if !info.IsDir() && time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err == nil {
				log.Debugf("removed cache file %s", path)
			} else {
				log.WithError(err).Warnf("failed to remove cache file %s", path)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}
	return nil
}

// Digest returns the hex SHA-256 of r.
func Digest(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func encodeKey(input string) string {
	h := sha256.New()
	h.Write([]byte(input))
	return hex.EncodeToString(h.Sum(nil))
}
