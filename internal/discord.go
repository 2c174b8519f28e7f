package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// maxWebhookResults caps how many results the webhook message lists.
	maxWebhookResults = 5

	webhookTimeout = 15 * time.Second

	// webhookBodyExcerpt limits how much of an error response is echoed.
	webhookBodyExcerpt = 200
)

// Notifier posts condensed snapshot summaries to a Discord webhook.
type Notifier struct {
	webhookURL string
	client     *http.Client
}

// NewNotifier creates a notifier for the configured webhook URL. An empty
// URL leaves the notifier disabled.
func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: webhookTimeout},
	}
}

// Notify formats snap and posts it to the webhook.
func (n *Notifier) Notify(ctx context.Context, snap Snapshot) error {
	if n.webhookURL == "" {
		return fmt.Errorf("%w: missing Discord webhook URL", ErrNotConfigured)
	}

	payload, err := json.Marshal(map[string]string{"content": FormatWebhookMessage(snap)})
	if err != nil {
		return fmt.Errorf("encoding webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, webhookBodyExcerpt))
		return fmt.Errorf("%w: webhook returned status %d: %s", ErrDelivery, resp.StatusCode, body)
	}
	return nil
}

// FormatWebhookMessage builds a readable Discord message summarizing the
// search results: a header with the query and filters, the top results as
// markdown links, and a trailer when results were truncated.
func FormatWebhookMessage(snap Snapshot) string {
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
	b.WriteString("**YouTube Search Snapshot**\n")
	fmt.Fprintf(&b, "• Query: `%s`\n", query)
	fmt.Fprintf(&b, "• Range: %s | Duration: %s | Results: %d\n", dateRange, duration, len(snap.Items))

	for i, item := range snap.Items {
		if i == maxWebhookResults {
			break
		}
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
			channel = "Unknown channel"
		}
		fmt.Fprintf(&b, "\n%d. [%s](%s) — %s • %s views", i+1, title, url, channel, groupThousands(item.ViewCount))
	}

	if len(snap.Items) > maxWebhookResults {
		fmt.Fprintf(&b, "\n...and %d more result(s).", len(snap.Items)-maxWebhookResults)
	}

	return b.String()
}

// groupThousands renders n with comma separators, e.g. 1234567 -> 1,234,567.
func groupThousands(n uint64) string {
	s := strconv.FormatUint(n, 10)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
