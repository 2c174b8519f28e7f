package internal

import "time"

// SearchRequest holds the filters for one YouTube search.
type SearchRequest struct {
	Query      string `json:"query"`
	DateRange  string `json:"dateRange"`
	Duration   string `json:"duration"`
	Topic      string `json:"topic"`
	MaxResults int64  `json:"maxResults"`
}

// VideoResult is a single video returned by a search. Immutable once fetched.
type VideoResult struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
	Thumbnail    string `json:"thumbnail"`
	ViewCount    uint64 `json:"viewCount"`
	URL          string `json:"url"`
}

// Snapshot is a point-in-time capture of one search's parameters and results,
// as posted by the browser to /api/save and /api/notify.
type Snapshot struct {
	Query     string        `json:"query"`
	DateRange string        `json:"dateRange"`
	Duration  string        `json:"duration"`
	Topic     string        `json:"topic"`
	Items     []VideoResult `json:"items"`
}

// ArchiveEntry describes one saved snapshot file. Derived from filesystem
// state at listing time, never stored separately.
type ArchiveEntry struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// DateRange is a preset publishedAfter window.
type DateRange struct {
	Key   string
	Label string
	Days  int
}

// Topic is a preset topicId filter. Topics that carry a TopicID can be
// searched without a free-text query.
type Topic struct {
	Key              string
	Label            string
	TopicID          string
	AllowsEmptyQuery bool
}

const (
	DefaultDateRange = "7d"
	DefaultTopic     = "none"
	DefaultDuration  = "any"

	// MaxAllowedResults caps maxResults on search requests.
	MaxAllowedResults = 25
	// DefaultMaxResults is used when the request does not specify a limit.
	DefaultMaxResults = 12

	searchOrder = "viewCount"

	// YouTube Data API quota costs. Informational only, not authoritative.
	searchQuotaCost = 100
	statsQuotaCost  = 1
)

// DateRanges are the selectable publishedAfter windows, oldest-first.
var DateRanges = []DateRange{
	{Key: "1d", Label: "Past day", Days: 1},
	{Key: "7d", Label: "Past 7 days", Days: 7},
	{Key: "14d", Label: "Past 14 days", Days: 14},
	{Key: "30d", Label: "Past 30 days", Days: 30},
}

// Topics are the selectable topicId filters.
var Topics = []Topic{
	{Key: "none", Label: "All topics"},
	{Key: "gaming", Label: "Gaming (global)", TopicID: "/m/0bzvm2", AllowsEmptyQuery: true},
}

// Durations maps videoDuration filter keys to labels.
var Durations = map[string]string{
	"any":    "Any length",
	"short":  "Under 4 minutes",
	"medium": "4-20 minutes",
	"long":   "Over 20 minutes",
}

// SnapshotFormats maps export formats to their labels.
var SnapshotFormats = map[string]string{
	"text": "Plain text (.txt)",
	"json": "JSON (.json)",
	"csv":  "CSV (.csv)",
}

// NormalizeDateRange returns the preset for key, falling back to the default
// window for unknown keys.
func NormalizeDateRange(key string) DateRange {
	for _, r := range DateRanges {
		if r.Key == key {
			return r
		}
	}
	return NormalizeDateRange(DefaultDateRange)
}

// NormalizeTopic returns the topic for key, falling back to "none".
func NormalizeTopic(key string) Topic {
	for _, t := range Topics {
		if t.Key == key {
			return t
		}
	}
	return NormalizeTopic(DefaultTopic)
}

// NormalizeDuration returns key if it is a known videoDuration filter,
// otherwise "any".
func NormalizeDuration(key string) string {
	if _, ok := Durations[key]; ok {
		return key
	}
	return DefaultDuration
}

// Validate checks the query/topic invariant shared by search, save and
// notify: a free-text query is required unless the topic allows searching
// without one.
func (s SearchRequest) Validate() error {
	if s.Query == "" && !NormalizeTopic(s.Topic).AllowsEmptyQuery {
		return ErrValidation
	}
	return nil
}

// Request returns the search parameters the snapshot was captured with.
func (s Snapshot) Request() SearchRequest {
	return SearchRequest{
		Query:     s.Query,
		DateRange: s.DateRange,
		Duration:  s.Duration,
		Topic:     s.Topic,
	}
}
