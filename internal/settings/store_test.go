package settings

import (
	"context"
	"path/filepath"
	"testing"
)

// fakeKV is a map-backed KV for RedisStore tests.
type fakeKV struct {
	data map[string]string
}

func (f *fakeKV) GetValue(ctx context.Context, key string) (string, bool, error) {
	v, ok := f.data[key]
	return v, ok, nil
}

func (f *fakeKV) SetValue(ctx context.Context, key, value string) error {
	f.data[key] = value
	return nil
}

func stores(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(filepath.Join(t.TempDir(), "settings.json")),
		"redis":  NewRedisStore(&fakeKV{data: make(map[string]string)}),
	}
}

func TestStore_DefaultsWhenUnset(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := store.Load(context.Background(), "u1")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if got != Defaults() {
				t.Errorf("Expected defaults, got %+v", got)
			}
		})
	}
}

func TestStore_PartialSaveMerges(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			got, err := store.Save(ctx, "u1", Settings{Theme: "dark"})
			if err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			if got.Theme != "dark" {
				t.Errorf("Expected dark theme, got %s", got.Theme)
			}
			// Untouched fields keep their defaults.
			if got.Language != "en" || got.Currency != "USD" {
				t.Errorf("Unset fields lost defaults: %+v", got)
			}

			// A later partial save keeps the earlier change.
			got, err = store.Save(ctx, "u1", Settings{Currency: "EUR"})
			if err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			if got.Theme != "dark" || got.Currency != "EUR" {
				t.Errorf("Merge lost earlier save: %+v", got)
			}

			got, err = store.Load(ctx, "u1")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if got.Theme != "dark" || got.Currency != "EUR" || got.Language != "en" {
				t.Errorf("Load returned %+v", got)
			}
		})
	}
}

func TestStore_UsersAreIsolated(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := store.Save(ctx, "u1", Settings{Theme: "dark"}); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			got, err := store.Load(ctx, "u2")
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if got != Defaults() {
				t.Errorf("Expected defaults for other user, got %+v", got)
			}
		})
	}
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	ctx := context.Background()

	first := NewFileStore(path)
	if _, err := first.Save(ctx, "u1", Settings{Language: "vi"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second := NewFileStore(path)
	got, err := second.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Language != "vi" {
		t.Errorf("Expected persisted language vi, got %s", got.Language)
	}
}
