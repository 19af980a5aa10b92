// Package cache persists timestamped JSON documents and classifies them by age.
package cache

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// Forever is a TTL under which every readable entry is fresh.
const Forever = time.Duration(math.MaxInt64)

// State classifies the outcome of a cache read.
type State int

// Possible read outcomes.
const (
	Absent State = iota
	Fresh
	Stale
)

func (s State) String() string {
	switch s {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "absent"
	}
}

// Entry is the result of reading a cache file.
type Entry[T any] struct {
	State     State
	Data      T
	Timestamp time.Time
}

type envelope[T any] struct {
	Timestamp *int64 `json:"timestamp"`
	Data      T      `json:"data"`
}

// File is a single cache document holding a value of type T.
type File[T any] struct {
	Path string
	now  func() time.Time
}

// NewFile returns a cache file at path.
func NewFile[T any](path string) *File[T] {
	return &File[T]{Path: path, now: time.Now}
}

// SetClock overrides the clock used for freshness and write timestamps.
func (f *File[T]) SetClock(now func() time.Time) {
	f.now = now
}

// Read loads the entry and classifies it against ttl. Missing and corrupt
// files both read as Absent.
func (f *File[T]) Read(ttl time.Duration) Entry[T] {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return Entry[T]{State: Absent}
	}

	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil || env.Timestamp == nil {
		return Entry[T]{State: Absent}
	}

	ts := time.UnixMilli(*env.Timestamp)
	state := Stale
	if f.now().Sub(ts) < ttl {
		state = Fresh
	}
	return Entry[T]{State: state, Data: env.Data, Timestamp: ts}
}

// Write stores data with the current time, creating parent directories.
func (f *File[T]) Write(data T) error {
	ts := f.now().UnixMilli()
	return writeJSON(f.Path, envelope[T]{Timestamp: &ts, Data: data})
}

// LoadState decodes a raw JSON document at path into dst. A missing or
// corrupt file leaves dst untouched and reports false.
func LoadState(path string, dst any) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

// SaveState writes v to path as indented JSON, creating parent directories.
func SaveState(path string, v any) error {
	return writeJSON(path, v)
}

func writeJSON(path string, v any) error {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
