package blogaudit

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Article represents a single article discovered on the remote blog or
// recovered from the local archive. The normalized URL is the article's
// identity: two Articles with the same URL denote the same post, and all
// set membership checks go through NormalizeURL rather than raw strings.
type Article struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Published time.Time `json:"published"`
	Labels    []string  `json:"labels"`
	Content   string    `json:"content,omitempty"`
}

// NewArticle builds an Article from raw feed or page data. The URL is
// normalized, the published timestamp is truncated to a calendar date, and
// labels are trimmed, deduplicated, and sorted. An empty title or an
// unparsable URL is an error; callers walking a feed treat that as a
// malformed entry and skip it.
func NewArticle(title, rawURL string, published time.Time, labels []string, content string) (Article, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Article{}, fmt.Errorf("article title is empty")
	}

	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return Article{}, fmt.Errorf("failed to normalize article URL: %w", err)
	}

	return Article{
		Title:     title,
		URL:       normalized,
		Published: DateOf(published),
		Labels:    normalizeLabels(labels),
		Content:   content,
	}, nil
}

// DateOf truncates a timestamp to its calendar date, represented as
// midnight UTC. Publish dates carry no useful time-of-day precision, and
// storing them this way makes window comparisons plain time comparisons.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// normalizeLabels trims, deduplicates, and sorts a label list. Matching is
// case-sensitive; sorting is only for stable display.
func normalizeLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	result := make([]string, 0, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		result = append(result, label)
	}
	sort.Strings(result)
	return result
}
