package internal

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testSnapshot() Snapshot {
	return Snapshot{
		Query:     "lofi beats",
		DateRange: "7d",
		Duration:  "any",
		Topic:     "none",
		Items: []VideoResult{
			{
				VideoID:      "abc123",
				Title:        "Lofi Mix, Vol. 1",
				Description:  "chill beats, to relax/study to",
				ChannelTitle: "Chill Channel",
				PublishedAt:  "2026-08-20T10:00:00Z",
				Thumbnail:    "https://i.ytimg.com/vi/abc123/mqdefault.jpg",
				ViewCount:    500123,
				URL:          "https://www.youtube.com/watch?v=abc123",
			},
			{
				VideoID:      "def456",
				Title:        "Morning Jazz",
				Description:  "start your day right",
				ChannelTitle: "Jazz Corner",
				PublishedAt:  "2026-08-22T08:30:00Z",
				ViewCount:    1042,
				URL:          "https://www.youtube.com/watch?v=def456",
			},
		},
	}
}

func TestSaveJSON_RoundTrip(t *testing.T) {
	a := NewArchive(t.TempDir())
	snap := testSnapshot()

	name, err := a.Save(snap, "json")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(name, ".json") {
		t.Fatalf("expected .json suffix, got %q", name)
	}

	data, err := a.Read(name)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var loaded struct {
		SavedAt   string        `json:"savedAt"`
		Query     string        `json:"query"`
		DateRange string        `json:"dateRange"`
		Duration  string        `json:"duration"`
		Topic     string        `json:"topic"`
		Items     []VideoResult `json:"items"`
	}
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if loaded.Query != snap.Query || loaded.DateRange != snap.DateRange || loaded.Topic != snap.Topic {
		t.Fatalf("request params not preserved: %+v", loaded)
	}
	if loaded.SavedAt == "" {
		t.Fatal("savedAt missing")
	}
	if len(loaded.Items) != len(snap.Items) {
		t.Fatalf("expected %d items, got %d", len(snap.Items), len(loaded.Items))
	}
	for i, item := range loaded.Items {
		if item != snap.Items[i] {
			t.Fatalf("item %d not preserved:\n got %+v\nwant %+v", i, item, snap.Items[i])
		}
	}
}

func TestSaveText_ContainsTitlesAndURLs(t *testing.T) {
	a := NewArchive(t.TempDir())
	snap := testSnapshot()

	name, err := a.Save(snap, "text")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(name, ".txt") {
		t.Fatalf("expected .txt suffix, got %q", name)
	}

	data, err := a.Read(name)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(data)
	for _, item := range snap.Items {
		if !strings.Contains(text, item.Title) {
			t.Errorf("text export missing title %q", item.Title)
		}
		if !strings.Contains(text, item.URL) {
			t.Errorf("text export missing url %q", item.URL)
		}
	}
	if !strings.Contains(text, "Query: lofi beats") {
		t.Error("text export missing query line")
	}
}

func TestSaveCSV_EscapesDelimiters(t *testing.T) {
	a := NewArchive(t.TempDir())
	snap := testSnapshot()
	snap.Items = snap.Items[:1]
	snap.Items[0].Description = "beats, to relax\nand study to"

	name, err := a.Save(snap, "csv")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := a.Read(name)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("csv parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d records", len(records))
	}
	header, row := records[0], records[1]
	if len(row) != len(header) {
		t.Fatalf("row has %d columns, header has %d", len(row), len(header))
	}
	col := map[string]string{}
	for i, name := range header {
		col[name] = row[i]
	}
	if col["description"] != snap.Items[0].Description {
		t.Fatalf("description not recovered: %q", col["description"])
	}
	if col["title"] != snap.Items[0].Title || col["url"] != snap.Items[0].URL {
		t.Fatalf("title/url not preserved: %+v", col)
	}
	if col["viewCount"] != "500123" {
		t.Fatalf("viewCount = %q, want 500123", col["viewCount"])
	}
}

func TestSave_UnknownFormatFallsBackToText(t *testing.T) {
	a := NewArchive(t.TempDir())
	name, err := a.Save(testSnapshot(), "yaml")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(name, ".txt") {
		t.Fatalf("expected .txt fallback, got %q", name)
	}
}

func TestSave_CollidingNamesGetSuffixed(t *testing.T) {
	a := NewArchive(t.TempDir())
	snap := testSnapshot()

	// Saves within the same second would collide on the timestamped name.
	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		name, err := a.Save(snap, "json")
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		if seen[name] {
			t.Fatalf("duplicate filename %q", name)
		}
		seen[name] = true
	}

	entries, err := a.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 files, got %d", len(entries))
	}
}

func TestSave_FilenameSlug(t *testing.T) {
	a := NewArchive(t.TempDir())
	snap := testSnapshot()
	snap.Query = "Lofi Beats!! 24/7"

	name, err := a.Save(snap, "text")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.Contains(name, "_lofi-beats-24-7") {
		t.Fatalf("expected slug in filename, got %q", name)
	}

	snap.Query = ""
	snap.Topic = "gaming"
	name, err = a.Save(snap, "text")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.Contains(name, "_search") {
		t.Fatalf("expected fallback slug, got %q", name)
	}
}

func TestList_OrderAndSkips(t *testing.T) {
	dir := t.TempDir()
	a := NewArchive(dir)

	if err := os.WriteFile(filepath.Join(dir, ".gitkeep"), nil, 0o644); err != nil {
		t.Fatalf("write .gitkeep: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	var names []string
	for i := 0; i < 3; i++ {
		name, err := a.Save(testSnapshot(), "text")
		if err != nil {
			t.Fatalf("save: %v", err)
		}
		names = append(names, name)
	}

	entries, err := a.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name, ".") || e.Name == "subdir" {
			t.Fatalf("listing includes %q", e.Name)
		}
		if e.Size == 0 {
			t.Errorf("entry %q has zero size", e.Name)
		}
	}
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if cur.Modified.After(prev.Modified) {
			t.Fatalf("entries not newest-first: %v before %v", prev, cur)
		}
		if cur.Modified.Equal(prev.Modified) && cur.Name > prev.Name {
			t.Fatalf("tie not broken by reverse name: %q before %q", prev.Name, cur.Name)
		}
	}
}

func TestList_MissingDirIsEmpty(t *testing.T) {
	a := NewArchive(filepath.Join(t.TempDir(), "never-created"))
	entries, err := a.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty listing, got %d entries", len(entries))
	}
}

func TestClear_ThenListEmpty(t *testing.T) {
	dir := t.TempDir()
	a := NewArchive(dir)
	if err := os.WriteFile(filepath.Join(dir, ".gitkeep"), nil, 0o644); err != nil {
		t.Fatalf("write .gitkeep: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := a.Save(testSnapshot(), "json"); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	deleted, err := a.Clear()
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", deleted)
	}

	entries, err := a.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty archive after clear, got %d entries", len(entries))
	}
	// .gitkeep survives the clear
	if _, err := os.Stat(filepath.Join(dir, ".gitkeep")); err != nil {
		t.Fatalf(".gitkeep removed: %v", err)
	}
}

func TestRead_RejectsTraversal(t *testing.T) {
	a := NewArchive(t.TempDir())
	for _, name := range []string{
		"../../etc/passwd",
		"..",
		"a/b.txt",
		`a\b.txt`,
		"",
		".hidden",
	} {
		if _, err := a.Read(name); !errors.Is(err, ErrInvalidName) {
			t.Errorf("Read(%q) = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestRead_Missing(t *testing.T) {
	a := NewArchive(t.TempDir())
	if _, err := a.Read("20260830_120000_nope.txt"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
