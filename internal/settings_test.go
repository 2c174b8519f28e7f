package internal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSettings_MissingFileYieldsDefaults(t *testing.T) {
	store := NewSettingsStore(filepath.Join(t.TempDir(), "settings.json"))
	settings, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if settings != DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", settings)
	}
}

func TestSettings_RoundTrip(t *testing.T) {
	store := NewSettingsStore(filepath.Join(t.TempDir(), "settings.json"))
	want := Settings{
		Query:      "lofi",
		DateRange:  "30d",
		Duration:   "long",
		Topic:      "gaming",
		MaxResults: 5,
		Format:     "csv",
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestSettings_CorruptFileIsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := NewSettingsStore(path)
	settings, err := store.Load()
	if err == nil {
		t.Fatal("expected parse error to be reported")
	}
	if settings != DefaultSettings() {
		t.Fatalf("corrupt file should yield defaults, got %+v", settings)
	}
}

func TestSettings_EmptyFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	settings, err := NewSettingsStore(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if settings != DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", settings)
	}
}
