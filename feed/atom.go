package feed

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// AtomDecoder decodes the Atom rendering of the same Blogger endpoint
// (served when alt=json is omitted). gofeed normalizes the Atom entries;
// pagination parameters are identical to the JSON variant.
type AtomDecoder struct {
	parser *gofeed.Parser
}

// NewAtomDecoder creates an Atom page decoder.
func NewAtomDecoder() *AtomDecoder {
	return &AtomDecoder{parser: gofeed.NewParser()}
}

// PageURL addresses one Atom feed page.
func (*AtomDecoder) PageURL(baseURL string, startIndex, maxResults int) string {
	return fmt.Sprintf("%s/feeds/posts/default?start-index=%d&max-results=%d",
		strings.TrimRight(baseURL, "/"), startIndex, maxResults)
}

// DecodePage parses an Atom feed page into raw entries.
func (d *AtomDecoder) DecodePage(r io.Reader) ([]RawEntry, error) {
	parsed, err := d.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse atom feed page: %w", err)
	}

	entries := make([]RawEntry, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		var published time.Time
		if item.PublishedParsed != nil {
			published = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			published = *item.UpdatedParsed
		}

		content := strings.TrimSpace(item.Content)
		if content == "" {
			content = strings.TrimSpace(item.Description)
		}

		entries = append(entries, RawEntry{
			Title:     strings.TrimSpace(item.Title),
			URL:       item.Link,
			Published: published,
			Labels:    item.Categories,
			Content:   content,
		})
	}
	return entries, nil
}
