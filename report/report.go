// Package report diffs the classified remote article set against the local
// archive index and renders the result. All output formats are projections
// of the same sorted missing list plus a run-level summary.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/caobian/blogaudit"
	"github.com/caobian/blogaudit/archive"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

const dateLayout = "2006-01-02"

// Summary describes one audit run.
type Summary struct {
	BaseURL      string `json:"base_url"`
	From         string `json:"from"`
	To           string `json:"to"`
	LocalDir     string `json:"local_dir"`
	LocalCount   int    `json:"local_count"`
	MatchedCount int    `json:"matched_count"`
	MissingCount int    `json:"missing_count"`
}

// Report is the outcome of an audit: the summary plus the matched articles
// that are absent from the local archive, sorted by (published date,
// normalized URL) ascending.
type Report struct {
	Summary Summary
	Missing []blogaudit.Article
}

// Params carries the run-level facts recorded in the summary.
type Params struct {
	BaseURL  string
	From     time.Time
	To       time.Time
	LocalDir string
}

// Build diffs the matched set against the local index. Matched articles
// carry normalized URLs, so membership is a plain set lookup.
func Build(matched []blogaudit.Article, local archive.Index, p Params) *Report {
	var missing []blogaudit.Article
	for _, article := range matched {
		if !local.Contains(article.URL) {
			missing = append(missing, article)
		}
	}

	sort.Slice(missing, func(i, j int) bool {
		if !missing[i].Published.Equal(missing[j].Published) {
			return missing[i].Published.Before(missing[j].Published)
		}
		return missing[i].URL < missing[j].URL
	})

	return &Report{
		Summary: Summary{
			BaseURL:      p.BaseURL,
			From:         p.From.Format(dateLayout),
			To:           p.To.Format(dateLayout),
			LocalDir:     p.LocalDir,
			LocalCount:   len(local),
			MatchedCount: len(matched),
			MissingCount: len(missing),
		},
		Missing: missing,
	}
}

// Write renders the report in the named format.
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case FormatText:
		return r.WriteText(w)
	case FormatJSON:
		return r.WriteJSON(w)
	case FormatCSV:
		return r.WriteCSV(w)
	}
	return fmt.Errorf("unknown report format: %q", format)
}

// WriteText renders the summary as a single JSON line followed by one
// tab-separated row per missing article.
func (r *Report) WriteText(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r.Summary); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	for _, article := range r.Missing {
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			article.Published.Format(dateLayout),
			article.Title,
			article.URL,
			strings.Join(article.Labels, ","))
		if err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}
	return nil
}

// missingEntry is the wire shape of one missing article in JSON output.
type missingEntry struct {
	Published string   `json:"published"`
	Title     string   `json:"title"`
	URL       string   `json:"url"`
	Labels    []string `json:"labels"`
}

// WriteJSON renders the summary and missing list as one indented JSON
// object.
func (r *Report) WriteJSON(w io.Writer) error {
	missing := make([]missingEntry, 0, len(r.Missing))
	for _, article := range r.Missing {
		labels := article.Labels
		if labels == nil {
			labels = []string{}
		}
		missing = append(missing, missingEntry{
			Published: article.Published.Format(dateLayout),
			Title:     article.Title,
			URL:       article.URL,
			Labels:    labels,
		})
	}

	payload := struct {
		Summary
		Missing []missingEntry `json:"missing"`
	}{r.Summary, missing}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteCSV renders a published,title,url,labels table.
func (r *Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"published", "title", "url", "labels"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, article := range r.Missing {
		row := []string{
			article.Published.Format(dateLayout),
			article.Title,
			article.URL,
			strings.Join(article.Labels, ","),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
