// Package feed reconstructs a date-bounded subset of a Blogger-style
// paginated article feed. The endpoint is offset-paginated and returns
// entries newest-first; the walker relies on that ordering to decide when
// the window's lower bound has been crossed. A feed that returned entries
// out of order could cause older in-window entries to be missed; that
// precondition is assumed, not hardened against.
package feed

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/caobian/blogaudit"
)

const (
	defaultPageSize = 150

	userAgent = "blogaudit/1.0 (blog archive auditor)"
)

// RawEntry is one feed entry as decoded from a page, before validation.
// Missing fields are left zero; the walker silently drops entries without a
// title, a canonical link, or a parsable publish timestamp.
type RawEntry struct {
	Title     string
	URL       string
	Published time.Time
	Labels    []string
	Content   string
}

// Decoder turns one fetched feed page into raw entries and knows how to
// address a page on the wire.
type Decoder interface {
	PageURL(baseURL string, startIndex, maxResults int) string
	DecodePage(r io.Reader) ([]RawEntry, error)
}

// Config configures a Walker.
type Config struct {
	BaseURL string
	// Inclusive publish-date window, as calendar dates (midnight UTC).
	Start time.Time
	End   time.Time
	// Entries requested per page. Defaults to 150.
	PageSize int
	// Polite pause between page fetches. Zero disables it.
	Delay   time.Duration
	Client  *http.Client
	Decoder Decoder
}

// Walker produces the articles whose publish date falls inside the window,
// as a lazy, finite, non-restartable sequence: advancing it performs
// network I/O. Usage follows the scanner pattern:
//
//	w := feed.NewWalker(cfg)
//	for w.Next() {
//		article := w.Article()
//		...
//	}
//	if err := w.Err(); err != nil { ... }
//
// A transport or decode failure on any page is fatal for the walk and
// surfaces through Err; partial results are never silently passed off as
// complete.
type Walker struct {
	client   *http.Client
	decoder  Decoder
	baseURL  string
	start    time.Time
	end      time.Time
	pageSize int
	delay    time.Duration

	offset  int
	pending []blogaudit.Article
	current blogaudit.Article
	done    bool
	err     error
}

// NewWalker creates a walker over the configured window. The offset starts
// at 1, per the Blogger start-index convention.
func NewWalker(cfg Config) *Walker {
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	decoder := cfg.Decoder
	if decoder == nil {
		decoder = JSONDecoder{}
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	return &Walker{
		client:   client,
		decoder:  decoder,
		baseURL:  cfg.BaseURL,
		start:    blogaudit.DateOf(cfg.Start),
		end:      blogaudit.DateOf(cfg.End),
		pageSize: pageSize,
		delay:    cfg.Delay,
		offset:   1,
	}
}

// Next advances to the next in-window article, fetching further pages as
// needed. It returns false when the feed is exhausted, the window's lower
// bound has been crossed, or an error occurred.
func (w *Walker) Next() bool {
	if w.err != nil {
		return false
	}
	for len(w.pending) == 0 {
		if w.done {
			return false
		}
		if err := w.advance(); err != nil {
			w.err = err
			return false
		}
	}
	w.current = w.pending[0]
	w.pending = w.pending[1:]
	return true
}

// Article returns the article produced by the last successful call to Next.
func (w *Walker) Article() blogaudit.Article {
	return w.current
}

// Err returns the first error encountered during the walk, if any.
func (w *Walker) Err() error {
	return w.err
}

// advance fetches one page and queues its in-window articles. Each call
// either terminates the walk or strictly increases the offset, so the walk
// is always finite.
func (w *Walker) advance() error {
	if w.offset > 1 && w.delay > 0 {
		time.Sleep(w.delay)
	}

	raw, err := w.fetchPage(w.offset)
	if err != nil {
		return err
	}

	var oldest time.Time
	usable := 0
	for _, entry := range raw {
		if entry.Title == "" || entry.URL == "" || entry.Published.IsZero() {
			continue
		}
		article, err := blogaudit.NewArticle(entry.Title, entry.URL, entry.Published, entry.Labels, entry.Content)
		if err != nil {
			continue
		}
		usable++
		if oldest.IsZero() || article.Published.Before(oldest) {
			oldest = article.Published
		}
		if !article.Published.Before(w.start) && !article.Published.After(w.end) {
			w.pending = append(w.pending, article)
		}
	}

	// A page with no usable entries marks the end of the feed. A page whose
	// oldest entry predates the window means no older page can still hold
	// in-window entries; stop after serving what this page yielded.
	if usable == 0 || oldest.Before(w.start) {
		w.done = true
		return nil
	}

	w.offset += w.pageSize
	return nil
}

// fetchPage retrieves and decodes the page starting at the given offset.
func (w *Walker) fetchPage(offset int) ([]RawEntry, error) {
	url := w.decoder.PageURL(w.baseURL, offset, w.pageSize)

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed page at offset %d: %w", offset, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed page at offset %d: HTTP error: %d %s", offset, resp.StatusCode, resp.Status)
	}

	entries, err := w.decoder.DecodePage(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("feed page at offset %d: %w", offset, err)
	}
	return entries, nil
}
