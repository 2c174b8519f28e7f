package internal

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// descriptionCap limits descriptions in the plain-text export.
	descriptionCap = 280

	// saveAttempts bounds the collision-suffix retry loop on save.
	saveAttempts = 100
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Archive persists search snapshots as files in a single directory.
// Each save creates one new file; files are never mutated afterwards.
type Archive struct {
	dir string
}

// NewArchive creates an archive rooted at dir. The directory is created
// lazily on the first save.
func NewArchive(dir string) *Archive {
	return &Archive{dir: dir}
}

// Dir returns the archive directory.
func (a *Archive) Dir() string {
	return a.dir
}

// snapshotFile is the JSON export payload.
type snapshotFile struct {
	SavedAt   string        `json:"savedAt"`
	Query     string        `json:"query"`
	DateRange string        `json:"dateRange"`
	Duration  string        `json:"duration"`
	Topic     string        `json:"topic"`
	Items     []VideoResult `json:"items"`
}

// csvHeader is the fixed column set of the CSV export.
var csvHeader = []string{
	"query", "dateRange", "duration", "topic", "savedAt",
	"title", "url", "channelTitle", "publishedAt", "viewCount", "description",
}

// Save serializes snap in the requested format ("text", "json" or "csv",
// unknown values fall back to text) and writes it as a new timestamped file.
// It returns the name of the created file. Concurrent saves never overwrite
// each other: the file is created exclusively and name collisions get a
// numeric suffix.
func (a *Archive) Save(snap Snapshot, format string) (string, error) {
	if err := EnsureDirs(a.dir); err != nil {
		return "", err
	}

	format = strings.ToLower(format)
	now := time.Now().UTC()
	savedAt := now.Truncate(time.Second).Format(time.RFC3339)

	var ext string
	var content []byte
	var err error
	switch format {
	case "json":
		ext = ".json"
		content, err = renderJSON(snap, savedAt)
	case "csv":
		ext = ".csv"
		content, err = renderCSV(snap, savedAt)
	default:
		ext = ".txt"
		content = []byte(renderText(snap, savedAt))
	}
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}

	base := now.Format("20060102_150405") + "_" + slugify(snap.Query)
	name, err := a.writeUnique(base, ext, content)
	if err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	return name, nil
}

// writeUnique creates base+ext exclusively, appending a numeric suffix on
// collision so that saves within the same second don't clobber each other.
func (a *Archive) writeUnique(base, ext string, content []byte) (string, error) {
	for i := 1; i <= saveAttempts; i++ {
		name := base + ext
		if i > 1 {
			name = base + "_" + strconv.Itoa(i) + ext
		}
		f, err := os.OpenFile(filepath.Join(a.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err != nil {
			if errors.Is(err, os.ErrExist) {
				continue
			}
			return "", err
		}
		if _, err := f.Write(content); err != nil {
			f.Close()
			return "", err
		}
		if err := f.Close(); err != nil {
			return "", err
		}
		return name, nil
	}
	return "", fmt.Errorf("no free filename for %s%s", base, ext)
}

// List enumerates the snapshot files in the archive, newest modification
// first, ties broken by name in reverse order so stamped names stay
// newest-first. Dotfiles and subdirectories are skipped.
func (a *Archive) List() ([]ArchiveEntry, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []ArchiveEntry{}, nil
		}
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	list := make([]ArchiveEntry, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") || !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		list = append(list, ArchiveEntry{
			Name:     e.Name(),
			Size:     info.Size(),
			Modified: info.ModTime().UTC(),
		})
	}

	sort.Slice(list, func(i, j int) bool {
		if !list[i].Modified.Equal(list[j].Modified) {
			return list[i].Modified.After(list[j].Modified)
		}
		return list[i].Name > list[j].Name
	})
	return list, nil
}

// Clear deletes all snapshot files in the archive, best effort. It returns
// the number of files actually deleted and the first error encountered, so
// a partial failure still reports progress. The .gitkeep marker survives.
func (a *Archive) Clear() (int, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading archive: %w", err)
	}

	deleted := 0
	var firstErr error
	for _, e := range entries {
		if e.Name() == ".gitkeep" || !e.Type().IsRegular() {
			continue
		}
		if err := os.Remove(filepath.Join(a.dir, e.Name())); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("deleting %s: %w", e.Name(), err)
			}
			continue
		}
		deleted++
	}
	return deleted, firstErr
}

// Read returns the raw bytes of a saved snapshot file. Names containing
// path separators or parent-directory segments are rejected before any
// filesystem access.
func (a *Archive) Read(name string) ([]byte, error) {
	if !ValidSnapshotName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	data, err := os.ReadFile(filepath.Join(a.dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return data, nil
}

// ValidSnapshotName reports whether name is a plain file name that stays
// inside the archive directory.
func ValidSnapshotName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return name == filepath.Base(filepath.Clean(name))
}

// slugify reduces a query to a lowercase filename fragment.
func slugify(query string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(query), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "search"
	}
	return slug
}

func renderText(snap Snapshot, savedAt string) string {
	query := snap.Query
	if query == "" {
		query = "Unknown query"
	}
	dateRange := snap.DateRange
	if dateRange == "" {
		dateRange = DefaultDateRange
	}
	duration := snap.Duration
	if duration == "" {
		duration = DefaultDuration
	}

	var b strings.Builder
	b.WriteString("YouTube Search Snapshot\n")
	fmt.Fprintf(&b, "Saved at: %s\n", savedAt)
	fmt.Fprintf(&b, "Query: %s\n", query)
	fmt.Fprintf(&b, "Date range: %s\n", dateRange)
	fmt.Fprintf(&b, "Duration filter: %s\n", duration)
	fmt.Fprintf(&b, "Topic filter: %s\n", NormalizeTopic(snap.Topic).Label)
	fmt.Fprintf(&b, "Results captured: %d\n\n", len(snap.Items))

	for i, item := range snap.Items {
		title := item.Title
		if title == "" {
			title = "Untitled video"
		}
		url := item.URL
		if url == "" {
			url = "https://youtube.com"
		}
		channel := item.ChannelTitle
		if channel == "" {
			channel = "Unknown"
		}
		published := item.PublishedAt
		if published == "" {
			published = "Unknown"
		}
		fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, title, url)
		fmt.Fprintf(&b, "    Channel: %s | Published: %s | Views: %d\n", channel, published, item.ViewCount)
		if item.Description != "" {
			desc := item.Description
			if len(desc) > descriptionCap {
				desc = desc[:descriptionCap]
			}
			fmt.Fprintf(&b, "    Description: %s\n", desc)
		}
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func renderJSON(snap Snapshot, savedAt string) ([]byte, error) {
	topic := snap.Topic
	if topic == "" {
		topic = DefaultTopic
	}
	items := snap.Items
	if items == nil {
		items = []VideoResult{}
	}
	return json.MarshalIndent(snapshotFile{
		SavedAt:   savedAt,
		Query:     snap.Query,
		DateRange: snap.DateRange,
		Duration:  snap.Duration,
		Topic:     topic,
		Items:     items,
	}, "", "  ")
}

func renderCSV(snap Snapshot, savedAt string) ([]byte, error) {
	topic := snap.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, item := range snap.Items {
		row := []string{
			snap.Query,
			snap.DateRange,
			snap.Duration,
			topic,
			savedAt,
			item.Title,
			item.URL,
			item.ChannelTitle,
			item.PublishedAt,
			strconv.FormatUint(item.ViewCount, 10),
			item.Description,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}
