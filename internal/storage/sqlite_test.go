package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"launchintel/internal/config"
	"launchintel/internal/model"
)

func newTestDB(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStoresRoundTrip(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"sqlite": func(t *testing.T) Store { return newTestDB(t) },
		"json": func(t *testing.T) Store {
			return NewJSONState(filepath.Join(t.TempDir(), "state", "alerts.json"))
		},
	}

	for name, newStore := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			got, err := s.Load(ctx)
			if err != nil {
				t.Fatalf("load empty: %v", err)
			}
			if diff := cmp.Diff(model.AlertState{}, got); diff != "" {
				t.Errorf("empty state mismatch (-want +got):\n%s", diff)
			}

			state := model.AlertState{
				"Falcon 9 | Starlink 10-5-2026-03-02T10:00:00Z": {"24h": true, "1h": false},
				"New Glenn | EscaPADE-2026-03-05T00:00:00Z":     {},
			}
			if err := s.Save(ctx, state); err != nil {
				t.Fatalf("save: %v", err)
			}

			got, err = s.Load(ctx)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if diff := cmp.Diff(state, got); diff != "" {
				t.Errorf("state mismatch (-want +got):\n%s", diff)
			}

			// Save replaces rather than merges.
			next := model.AlertState{"Vulcan-2026-03-07T00:00:00Z": {"10m": true}}
			if err := s.Save(ctx, next); err != nil {
				t.Fatalf("save next: %v", err)
			}
			got, err = s.Load(ctx)
			if err != nil {
				t.Fatalf("load next: %v", err)
			}
			if diff := cmp.Diff(next, got); diff != "" {
				t.Errorf("replaced state mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJSONStateCorruptFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := NewJSONState(path).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(model.AlertState{}, got); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONStateNullFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.json")
	if err := os.WriteFile(path, []byte("null"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := NewJSONState(path).Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected non-nil state")
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		Alerts: config.Alerts{StateBackend: config.BackendJSON},
		Paths: config.Paths{
			AlertsState: filepath.Join(dir, "alerts.json"),
			AlertsDB:    filepath.Join(dir, "db", "alerts.db"),
		},
	}

	s, err := Open(cfg)
	if err != nil {
		t.Fatalf("open json: %v", err)
	}
	if _, ok := s.(*JSONState); !ok {
		t.Errorf("expected *JSONState, got %T", s)
	}
	_ = s.Close()

	cfg.Alerts.StateBackend = config.BackendSQLite
	s, err = Open(cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if _, ok := s.(*SQLite); !ok {
		t.Errorf("expected *SQLite, got %T", s)
	}
	if _, err := os.Stat(cfg.Paths.AlertsDB); err != nil {
		t.Errorf("expected database file: %v", err)
	}
}
