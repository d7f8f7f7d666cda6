package feed

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// JSONDecoder decodes the Blogger JSON feed shape served with alt=json:
// a feed.entry array where every scalar lives under a "$t" key.
type JSONDecoder struct{}

type bloggerText struct {
	T string `json:"$t"`
}

type bloggerLink struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

type bloggerCategory struct {
	Term string `json:"term"`
}

type bloggerEntry struct {
	Title     bloggerText       `json:"title"`
	Published bloggerText       `json:"published"`
	Content   bloggerText       `json:"content"`
	Summary   bloggerText       `json:"summary"`
	Link      []bloggerLink     `json:"link"`
	Category  []bloggerCategory `json:"category"`
}

type bloggerFeed struct {
	Feed struct {
		Entry []bloggerEntry `json:"entry"`
	} `json:"feed"`
}

// PageURL addresses one feed page using the Blogger start-index convention.
func (JSONDecoder) PageURL(baseURL string, startIndex, maxResults int) string {
	return fmt.Sprintf("%s/feeds/posts/default?alt=json&start-index=%d&max-results=%d",
		strings.TrimRight(baseURL, "/"), startIndex, maxResults)
}

// DecodePage parses a JSON feed page into raw entries. Per-entry problems
// (missing fields, unparsable timestamps) leave the affected field zero
// rather than failing the page; only an unparsable payload is an error.
func (JSONDecoder) DecodePage(r io.Reader) ([]RawEntry, error) {
	var payload bloggerFeed
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode feed page: %w", err)
	}

	entries := make([]RawEntry, 0, len(payload.Feed.Entry))
	for _, raw := range payload.Feed.Entry {
		content := strings.TrimSpace(raw.Content.T)
		if content == "" {
			content = strings.TrimSpace(raw.Summary.T)
		}

		labels := make([]string, 0, len(raw.Category))
		for _, category := range raw.Category {
			if term := strings.TrimSpace(category.Term); term != "" {
				labels = append(labels, term)
			}
		}

		entries = append(entries, RawEntry{
			Title:     strings.TrimSpace(raw.Title.T),
			URL:       alternateLink(raw.Link),
			Published: parsePublished(raw.Published.T),
			Labels:    labels,
			Content:   content,
		})
	}
	return entries, nil
}

// alternateLink picks the canonical article URL out of an entry's link
// array: the one carrying rel="alternate".
func alternateLink(links []bloggerLink) string {
	for _, link := range links {
		if link.Rel == "alternate" && link.Href != "" {
			return link.Href
		}
	}
	return ""
}

// parsePublished parses an ISO-8601 publish timestamp, returning the zero
// time when it cannot be understood.
func parsePublished(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
