package internal

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Searcher performs a filtered YouTube search and returns the ranked
// results plus the estimated API quota cost.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) ([]VideoResult, int, error)
}

// YouTube implements Searcher on top of the YouTube Data API v3.
type YouTube struct {
	service *youtube.Service
}

// NewYouTube creates a YouTube search gateway. Extra client options are
// mainly useful for tests, which point the service at a stub endpoint.
func NewYouTube(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTube, error) {
	if apiKey != "" {
		opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	}
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating youtube service: %w", err)
	}
	return &YouTube{service: service}, nil
}

// Search runs a video search with the request's date-range, duration and
// topic filters, fetches view counts for the candidates, sorts them by
// views descending and truncates to the requested limit. The returned
// quota cost is a fixed per-call estimate, not authoritative.
func (y *YouTube) Search(ctx context.Context, req SearchRequest) ([]VideoResult, int, error) {
	topic := NormalizeTopic(req.Topic)
	if err := req.Validate(); err != nil {
		return nil, 0, fmt.Errorf("%w: query is required", err)
	}

	dateRange := NormalizeDateRange(req.DateRange)
	duration := NormalizeDuration(req.Duration)
	maxResults := req.MaxResults
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	if maxResults > MaxAllowedResults {
		maxResults = MaxAllowedResults
	}

	publishedAfter := time.Now().UTC().
		AddDate(0, 0, -dateRange.Days).
		Truncate(time.Second).
		Format(time.RFC3339)

	call := y.service.Search.List([]string{"snippet"}).
		Type("video").
		Order(searchOrder).
		MaxResults(maxResults).
		PublishedAfter(publishedAfter)
	if req.Query != "" {
		call = call.Q(req.Query)
	}
	if duration != DefaultDuration {
		call = call.VideoDuration(duration)
	}
	if topic.TopicID != "" {
		call = call.TopicId(topic.TopicID)
	}

	response, err := call.Context(ctx).Do()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	results := make([]VideoResult, 0, len(response.Items))
	videoIDs := make([]string, 0, len(response.Items))
	for _, item := range response.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		videoIDs = append(videoIDs, item.Id.VideoId)
		results = append(results, VideoResult{
			VideoID:      item.Id.VideoId,
			Title:        item.Snippet.Title,
			Description:  item.Snippet.Description,
			ChannelTitle: item.Snippet.ChannelTitle,
			PublishedAt:  item.Snippet.PublishedAt,
			Thumbnail:    bestThumbnail(item.Snippet.Thumbnails),
			URL:          "https://www.youtube.com/watch?v=" + item.Id.VideoId,
		})
	}

	quota := searchQuotaCost
	if len(videoIDs) > 0 {
		views, err := y.fetchViewCounts(ctx, videoIDs)
		if err != nil {
			return nil, 0, err
		}
		for i := range results {
			results[i].ViewCount = views[results[i].VideoID]
		}
		quota += statsQuotaCost
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ViewCount > results[j].ViewCount
	})
	if int64(len(results)) > maxResults {
		results = results[:maxResults]
	}

	return results, quota, nil
}

// fetchViewCounts retrieves statistics for the given video IDs.
func (y *YouTube) fetchViewCounts(ctx context.Context, videoIDs []string) (map[string]uint64, error) {
	response, err := y.service.Videos.List([]string{"statistics"}).
		Id(strings.Join(videoIDs, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	views := make(map[string]uint64, len(response.Items))
	for _, item := range response.Items {
		if item.Id == "" || item.Statistics == nil {
			continue
		}
		views[item.Id] = item.Statistics.ViewCount
	}
	return views, nil
}

// bestThumbnail prefers the medium thumbnail the result cards are sized
// for, falling back to whatever quality is available.
func bestThumbnail(thumbnails *youtube.ThumbnailDetails) string {
	if thumbnails == nil {
		return ""
	}
	if thumbnails.Medium != nil {
		return thumbnails.Medium.Url
	}
	if thumbnails.High != nil {
		return thumbnails.High.Url
	}
	if thumbnails.Default != nil {
		return thumbnails.Default.Url
	}
	return ""
}
