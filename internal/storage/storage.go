// Package storage persists the alert state, either as a JSON document or in SQLite.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"launchintel/internal/cache"
	"launchintel/internal/config"
	"launchintel/internal/model"
)

// Store loads and saves the alert state.
type Store interface {
	Load(ctx context.Context) (model.AlertState, error)
	Save(ctx context.Context, state model.AlertState) error
	Close() error
}

// Open returns the store selected by the configured backend.
func Open(cfg *config.Config) (Store, error) {
	switch cfg.Alerts.StateBackend {
	case config.BackendSQLite:
		if dir := filepath.Dir(cfg.Paths.AlertsDB); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
		}
		return NewSQLite(cfg.Paths.AlertsDB)
	default:
		return NewJSONState(cfg.Paths.AlertsState), nil
	}
}

// JSONState keeps the alert state as a raw JSON mapping in a single file.
type JSONState struct {
	path string
}

// NewJSONState returns a JSON state store at path.
func NewJSONState(path string) *JSONState {
	return &JSONState{path: path}
}

// Load returns the stored state. A missing or corrupt file yields an empty state.
func (s *JSONState) Load(_ context.Context) (model.AlertState, error) {
	state := model.AlertState{}
	if !cache.LoadState(s.path, &state) || state == nil {
		return model.AlertState{}, nil
	}
	return state, nil
}

// Save writes the state, creating parent directories.
func (s *JSONState) Save(_ context.Context, state model.AlertState) error {
	if err := cache.SaveState(s.path, state); err != nil {
		return fmt.Errorf("save alert state: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *JSONState) Close() error { return nil }
