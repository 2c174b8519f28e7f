package internal

import "testing"

func TestNormalizeDateRange(t *testing.T) {
	if got := NormalizeDateRange("30d"); got.Days != 30 {
		t.Errorf("30d days = %d, want 30", got.Days)
	}
	for _, key := range []string{"", "90d", "yesterday"} {
		if got := NormalizeDateRange(key); got.Key != DefaultDateRange {
			t.Errorf("NormalizeDateRange(%q) = %q, want default", key, got.Key)
		}
	}
}

func TestNormalizeTopic(t *testing.T) {
	gaming := NormalizeTopic("gaming")
	if gaming.TopicID != "/m/0bzvm2" || !gaming.AllowsEmptyQuery {
		t.Errorf("unexpected gaming topic: %+v", gaming)
	}
	for _, key := range []string{"", "music", "NONE"} {
		if got := NormalizeTopic(key); got.Key != DefaultTopic {
			t.Errorf("NormalizeTopic(%q) = %q, want default", key, got.Key)
		}
	}
}

func TestNormalizeDuration(t *testing.T) {
	if got := NormalizeDuration("short"); got != "short" {
		t.Errorf("short = %q", got)
	}
	for _, key := range []string{"", "tiny", "LONG"} {
		if got := NormalizeDuration(key); got != DefaultDuration {
			t.Errorf("NormalizeDuration(%q) = %q, want any", key, got)
		}
	}
}

func TestSearchRequestValidate(t *testing.T) {
	if err := (SearchRequest{Query: "", Topic: "none"}).Validate(); err == nil {
		t.Error("empty query with topic none should fail")
	}
	if err := (SearchRequest{Query: "", Topic: "gaming"}).Validate(); err != nil {
		t.Errorf("gaming topic should allow empty query: %v", err)
	}
	if err := (SearchRequest{Query: "lofi", Topic: "none"}).Validate(); err != nil {
		t.Errorf("query should validate: %v", err)
	}
}
