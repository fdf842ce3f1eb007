// Package cache provides a content-addressed file cache for API responses
// and downloaded archives. Keys are hashed to filenames; freshness is judged
// from file modification time against a TTL. All writes are best effort: a
// failed cache write never fails the caller's operation.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	jsonSuffix   = ".json"
	binarySuffix = ".bin"
)

// Store is a directory-backed cache. Safe for concurrent readers; concurrent
// writers to the same key last-write-wins, which is acceptable for idempotent
// API responses.
type Store struct {
	dir        string
	defaultTTL time.Duration
	log        *zap.Logger
}

// Stats summarizes the on-disk state of a Store.
type Stats struct {
	TotalFiles     int    `json:"total_files"`
	JSONFiles      int    `json:"json_files"`
	BinaryFiles    int    `json:"binary_files"`
	TotalSizeBytes int64  `json:"total_size_bytes"`
	Dir            string `json:"dir"`
}

// New creates the cache directory if needed. defaultTTL applies when a read
// passes a non-positive TTL.
func New(dir string, defaultTTL time.Duration, log *zap.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache: directory must not be empty")
	}
	if defaultTTL <= 0 {
		defaultTTL = time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: creating directory %s: %w", dir, err)
	}
	return &Store{dir: dir, defaultTTL: defaultTTL, log: log}, nil
}

// Dir returns the backing directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(key, suffix string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+suffix)
}

func (s *Store) read(key, suffix string, ttl time.Duration) ([]byte, bool) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	p := s.path(key, suffix)
	info, err := os.Stat(p)
	if err != nil {
		return nil, false
	}
	if time.Since(info.ModTime()) > ttl {
		return nil, false
	}
	data, err := os.ReadFile(p)
	if err != nil {
		s.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return data, true
}

func (s *Store) write(key, suffix string, data []byte) bool {
	p := s.path(key, suffix)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		s.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// GetJSON returns cached JSON for key if present, fresh, and still valid
// JSON. A corrupted entry reads as a miss.
func (s *Store) GetJSON(key string, ttl time.Duration) ([]byte, bool) {
	data, ok := s.read(key, jsonSuffix, ttl)
	if !ok {
		return nil, false
	}
	if !json.Valid(data) {
		s.log.Warn("cache entry is not valid JSON, treating as miss", zap.String("key", key))
		return nil, false
	}
	return data, true
}

// SetJSON stores data under key. Invalid JSON is rejected so the cache never
// serves garbage. Returns whether the entry was written.
func (s *Store) SetJSON(key string, data []byte) bool {
	if !json.Valid(data) {
		s.log.Warn("refusing to cache invalid JSON", zap.String("key", key))
		return false
	}
	return s.write(key, jsonSuffix, data)
}

// GetBinary returns cached bytes for key if present and fresh.
func (s *Store) GetBinary(key string, ttl time.Duration) ([]byte, bool) {
	return s.read(key, binarySuffix, ttl)
}

// SetBinary stores raw bytes under key. Returns whether the entry was written.
func (s *Store) SetBinary(key string, data []byte) bool {
	return s.write(key, binarySuffix, data)
}

// ClearExpired removes entries older than ttl (default TTL when ttl <= 0)
// and returns the number removed.
func (s *Store) ClearExpired(ttl time.Duration) int {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	removed := 0
	for _, entry := range s.entries() {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) > ttl {
			if err := os.Remove(filepath.Join(s.dir, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed
}

// ClearAll removes every cache entry and returns the number removed.
func (s *Store) ClearAll() int {
	removed := 0
	for _, entry := range s.entries() {
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err == nil {
			removed++
		}
	}
	return removed
}

// Stats walks the cache directory and reports entry counts and total size.
func (s *Store) Stats() Stats {
	stats := Stats{Dir: s.dir}
	for _, entry := range s.entries() {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		stats.TotalFiles++
		stats.TotalSizeBytes += info.Size()
		switch {
		case strings.HasSuffix(entry.Name(), jsonSuffix):
			stats.JSONFiles++
		case strings.HasSuffix(entry.Name(), binarySuffix):
			stats.BinaryFiles++
		}
	}
	return stats
}

func (s *Store) entries() []os.DirEntry {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.log.Warn("cache directory scan failed", zap.Error(err))
		return nil
	}
	out := entries[:0]
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, jsonSuffix) || strings.HasSuffix(name, binarySuffix) {
			out = append(out, e)
		}
	}
	return out
}
