// Package sources ingests posts from platform data exports. Two formats
// are supported: JSON export files and saved HTML pages. Both degrade
// tolerantly: a post with unparseable metrics or timestamps is kept with
// zero values rather than dropped.
package sources

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"capturekit/internal/core"
	"capturekit/internal/logger"
)

// jsonPost mirrors the loose field naming seen across export formats.
// Counts come as strings ("1.2K") or numbers depending on the exporter.
type jsonPost struct {
	Content   string          `json:"content"`
	Text      string          `json:"text"`
	Author    string          `json:"author"`
	Username  string          `json:"username"`
	URL       string          `json:"url"`
	Timestamp string          `json:"timestamp"`
	Date      string          `json:"date"`
	Likes     json.RawMessage `json:"likes"`
	Retweets  json.RawMessage `json:"retweets"`
	Replies   json.RawMessage `json:"replies"`
	Quotes    json.RawMessage `json:"quotes"`
}

// LoadJSON reads posts from a JSON export file. The file may hold either
// a bare array of posts or an object with a "posts" array.
func LoadJSON(path string) ([]core.RawPost, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export %q: %w", path, err)
	}
	defer f.Close()
	return ParseJSON(f)
}

// ParseJSON decodes posts from JSON export content.
func ParseJSON(r io.Reader) ([]core.RawPost, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read export: %w", err)
	}

	var entries []jsonPost
	if err := json.Unmarshal(raw, &entries); err != nil {
		var wrapper struct {
			Posts []jsonPost `json:"posts"`
		}
		if err2 := json.Unmarshal(raw, &wrapper); err2 != nil {
			return nil, fmt.Errorf("failed to parse export: %w", err)
		}
		entries = wrapper.Posts
	}

	posts := make([]core.RawPost, 0, len(entries))
	for _, e := range entries {
		content := e.Content
		if content == "" {
			content = e.Text
		}
		if strings.TrimSpace(content) == "" {
			continue
		}
		author := e.Author
		if author == "" {
			author = e.Username
		}
		stamp := e.Timestamp
		if stamp == "" {
			stamp = e.Date
		}

		posts = append(posts, core.RawPost{
			Content:   content,
			Author:    strings.TrimPrefix(author, "@"),
			URL:       e.URL,
			Timestamp: ParseTimestamp(stamp),
			Likes:     metricFromRaw(e.Likes),
			Retweets:  metricFromRaw(e.Retweets),
			Replies:   metricFromRaw(e.Replies),
			Quotes:    metricFromRaw(e.Quotes),
		})
	}

	logger.Debug("parsed JSON export", "posts", len(posts))
	return posts, nil
}

// LoadHTML reads posts from a saved HTML page.
func LoadHTML(path string) ([]core.RawPost, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open export %q: %w", path, err)
	}
	defer f.Close()
	return ParseHTML(f)
}

// ParseHTML extracts posts from saved HTML using article elements, the
// structure both major timeline layouts use. Metrics are read from
// aria-labels or test-id buttons where present.
func ParseHTML(r io.Reader) ([]core.RawPost, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML export: %w", err)
	}

	posts := []core.RawPost{}
	doc.Find("article").Each(func(_ int, article *goquery.Selection) {
		content := strings.TrimSpace(article.Find("[data-testid='tweetText']").First().Text())
		if content == "" {
			content = strings.TrimSpace(article.Find("p").First().Text())
		}
		if content == "" {
			return
		}

		post := core.RawPost{Content: content}

		if href, ok := article.Find("a[href*='/status/']").First().Attr("href"); ok {
			post.URL = href
			if parts := strings.Split(strings.TrimPrefix(href, "/"), "/"); len(parts) > 0 {
				post.Author = parts[0]
			}
		}
		if stamp, ok := article.Find("time").First().Attr("datetime"); ok {
			post.Timestamp = ParseTimestamp(stamp)
		}

		post.Replies = metricFromSelection(article, "reply")
		post.Retweets = metricFromSelection(article, "retweet")
		post.Likes = metricFromSelection(article, "like")

		posts = append(posts, post)
	})

	logger.Debug("parsed HTML export", "posts", len(posts))
	return posts, nil
}

func metricFromSelection(article *goquery.Selection, kind string) int {
	text := strings.TrimSpace(article.Find(fmt.Sprintf("[data-testid='%s']", kind)).First().Text())
	if text == "" {
		return 0
	}
	return ParseMetric(text)
}

// ParseMetric converts a display count like "1.2K", "5M", or "1,234" to an
// integer. Unparseable input yields 0.
func ParseMetric(s string) int {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}

	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "K"), strings.HasSuffix(s, "k"):
		multiplier = 1_000
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "M"), strings.HasSuffix(s, "m"):
		multiplier = 1_000_000
		s = s[:len(s)-1]
	case strings.HasSuffix(s, "B"), strings.HasSuffix(s, "b"):
		multiplier = 1_000_000_000
		s = s[:len(s)-1]
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(value * multiplier)
}

// timestampLayouts are tried in order. RFC3339 first since both export
// formats emit it.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"Jan 2, 2006",
	time.RFC1123,
}

// ParseTimestamp parses a timestamp string against the known layouts,
// returning the zero time when none matches.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}

// metricFromRaw handles the count field coming in as a JSON number or a
// display string.
func metricFromRaw(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseMetric(s)
	}
	return 0
}
