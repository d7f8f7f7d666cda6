// Package audit runs a full archive audit: walk the remote feed over a
// date window, classify entries against the target topical set, and diff
// the matches against the local archive index.
package audit

import (
	"fmt"
	"net/http"
	"time"

	"github.com/caobian/blogaudit"
	"github.com/caobian/blogaudit/archive"
	"github.com/caobian/blogaudit/feed"
	"github.com/caobian/blogaudit/report"
)

// Feed format names accepted by Options.FeedFormat.
const (
	FeedJSON = "json"
	FeedAtom = "atom"
)

// Options configures one audit run.
type Options struct {
	BaseURL  string
	From     time.Time
	To       time.Time
	LocalDir string

	Labels          []string
	TitleKeywords   []string
	ContentKeywords []string

	// FeedFormat selects the wire format of the feed endpoint. Empty means
	// json.
	FeedFormat string
	PageSize   int
	Delay      time.Duration
	Client     *http.Client
}

// Run performs the audit. The local index is read before any network
// activity, so a bad local directory fails fast. A transport or decode
// failure anywhere in the walk fails the whole run; a partial audit is
// worse than no audit.
func Run(opts Options) (*report.Report, error) {
	local, err := archive.ReadIndex(opts.LocalDir)
	if err != nil {
		return nil, err
	}

	decoder, err := decoderFor(opts.FeedFormat)
	if err != nil {
		return nil, err
	}

	classifier := blogaudit.NewClassifier(opts.Labels, opts.TitleKeywords, opts.ContentKeywords)

	walker := feed.NewWalker(feed.Config{
		BaseURL:  opts.BaseURL,
		Start:    opts.From,
		End:      opts.To,
		PageSize: opts.PageSize,
		Delay:    opts.Delay,
		Client:   opts.Client,
		Decoder:  decoder,
	})

	var matched []blogaudit.Article
	for walker.Next() {
		if article := walker.Article(); classifier.Matches(article) {
			matched = append(matched, article)
		}
	}
	if err := walker.Err(); err != nil {
		return nil, fmt.Errorf("feed walk failed: %w", err)
	}

	return report.Build(matched, local, report.Params{
		BaseURL:  opts.BaseURL,
		From:     blogaudit.DateOf(opts.From),
		To:       blogaudit.DateOf(opts.To),
		LocalDir: opts.LocalDir,
	}), nil
}

func decoderFor(format string) (feed.Decoder, error) {
	switch format {
	case "", FeedJSON:
		return feed.JSONDecoder{}, nil
	case FeedAtom:
		return feed.NewAtomDecoder(), nil
	}
	return nil, fmt.Errorf("unknown feed format: %q", format)
}

// DefaultStartDate returns the conventional lower bound of the audit
// window: the same calendar day three years before today, with Feb 29
// clamped to Feb 28 in non-leap years.
func DefaultStartDate(today time.Time) time.Time {
	year, month, day := today.Date()
	if month == time.February && day == 29 {
		day = 28
	}
	return time.Date(year-3, month, day, 0, 0, 0, 0, time.UTC)
}
