package sources

import (
	"strings"
	"testing"
	"time"
)

func TestParseMetric(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"0", 0},
		{"42", 42},
		{"1,234", 1234},
		{"1.2K", 1200},
		{"3k", 3000},
		{"5M", 5000000},
		{"1.5m", 1500000},
		{"2B", 2000000000},
		{"garbage", 0},
		{" 12 ", 12},
	}

	for _, tc := range cases {
		if got := ParseMetric(tc.in); got != tc.want {
			t.Errorf("ParseMetric(%q): expected %d, got %d", tc.in, tc.want, got)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	ts := ParseTimestamp("2024-03-15T14:30:00Z")
	if ts.IsZero() {
		t.Fatal("RFC3339 timestamp should parse")
	}
	if ts.Hour() != 14 {
		t.Errorf("expected hour 14, got %d", ts.Hour())
	}

	if ts := ParseTimestamp("2024-03-15"); ts.IsZero() {
		t.Error("date-only timestamp should parse")
	}
	if ts := ParseTimestamp("not a date"); !ts.IsZero() {
		t.Errorf("unparseable input should yield zero time, got %v", ts)
	}
	if ts := ParseTimestamp(""); !ts.IsZero() {
		t.Error("empty input should yield zero time")
	}
}

func TestParseJSONArray(t *testing.T) {
	raw := `[
		{"content": "Gamma squeeze in progress", "author": "@trader", "likes": 1500, "timestamp": "2024-03-15T14:30:00Z"},
		{"text": "Flow is one-sided today", "username": "flowwatcher", "likes": "2.1K"},
		{"content": "   "}
	]`

	posts, err := ParseJSON(strings.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}

	if len(posts) != 2 {
		t.Fatalf("expected 2 posts (blank content dropped), got %d", len(posts))
	}
	if posts[0].Author != "trader" {
		t.Errorf("expected @ stripped from author, got %q", posts[0].Author)
	}
	if posts[0].Likes != 1500 {
		t.Errorf("expected numeric likes 1500, got %d", posts[0].Likes)
	}
	if posts[0].Timestamp.IsZero() {
		t.Error("expected timestamp to parse")
	}
	if posts[1].Content != "Flow is one-sided today" {
		t.Errorf("expected text field fallback, got %q", posts[1].Content)
	}
	if posts[1].Likes != 2100 {
		t.Errorf("expected display-string likes 2100, got %d", posts[1].Likes)
	}
}

func TestParseJSONWrappedObject(t *testing.T) {
	raw := `{"posts": [{"content": "wrapped", "likes": 5}]}`

	posts, err := ParseJSON(strings.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	if len(posts) != 1 || posts[0].Content != "wrapped" {
		t.Fatalf("expected the wrapped post, got %+v", posts)
	}
}

func TestParseJSONInvalid(t *testing.T) {
	if _, err := ParseJSON(strings.NewReader("{broken")); err == nil {
		t.Error("expected an error for invalid JSON")
	}
}

func TestParseHTML(t *testing.T) {
	page := `<html><body>
	<article>
		<div data-testid="tweetText">Dealers short gamma into opex.</div>
		<a href="/trader/status/123">link</a>
		<time datetime="2024-03-15T14:30:00Z"></time>
		<div data-testid="reply">12</div>
		<div data-testid="retweet">1.2K</div>
		<div data-testid="like">3.4K</div>
	</article>
	<article><p>Plain paragraph post.</p></article>
	<article></article>
	</body></html>`

	posts, err := ParseHTML(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}

	if len(posts) != 2 {
		t.Fatalf("expected 2 posts (empty article dropped), got %d", len(posts))
	}

	first := posts[0]
	if first.Content != "Dealers short gamma into opex." {
		t.Errorf("unexpected content %q", first.Content)
	}
	if first.Author != "trader" {
		t.Errorf("expected author from status URL, got %q", first.Author)
	}
	if first.Retweets != 1200 || first.Likes != 3400 || first.Replies != 12 {
		t.Errorf("unexpected metrics: %+v", first)
	}
	if first.Timestamp.IsZero() || first.Timestamp.Hour() != 14 {
		t.Errorf("unexpected timestamp %v", first.Timestamp)
	}

	if posts[1].Content != "Plain paragraph post." {
		t.Errorf("expected paragraph fallback, got %q", posts[1].Content)
	}
}

func TestTimestampsNormalizedToUTC(t *testing.T) {
	ts := ParseTimestamp("2024-03-15T14:30:00+02:00")
	if ts.IsZero() {
		t.Fatal("offset timestamp should parse")
	}
	if ts.Location() != time.UTC {
		t.Errorf("expected UTC normalization, got %v", ts.Location())
	}
	if ts.Hour() != 12 {
		t.Errorf("expected 12 UTC, got %d", ts.Hour())
	}
}
