package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/caobian/blogaudit"
	"github.com/caobian/blogaudit/audit"
	"github.com/caobian/blogaudit/history"
	"github.com/google/uuid"
)

func handleAudit(args []string) {
	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	baseURL := fs.String("base-url", "https://www.hecaitou.com", "Blog base URL")
	fromFlag := fs.String("from", "", "Window start date, YYYY-MM-DD (default: three years ago)")
	toFlag := fs.String("to", "", "Window end date, YYYY-MM-DD (default: today)")
	localDir := fs.String("local-dir", "articles", "Directory of archived article files")
	labels := fs.String("labels", "读后感,观后感,电影,音乐", "Labels counted as a match (comma-separated)")
	titleKeywords := fs.String("title-keywords", "读后,观后,推荐,书评,影评", "Title keywords counted as a match (comma-separated)")
	contentKeywords := fs.String("content-keywords", "读后感,观后感,推荐观赏,推荐阅读,夜读推荐", "Content keywords counted as a match (comma-separated)")
	format := fs.String("format", "text", "Report format: text, json, or csv")
	output := fs.String("output", "", "Output file (default: stdout)")
	feedFormat := fs.String("feed-format", "json", "Feed wire format: json or atom")
	pageSize := fs.Int("page-size", 150, "Feed entries requested per page")
	delay := fs.Duration("delay", 200*time.Millisecond, "Polite pause between feed page fetches")
	historyDB := fs.String("history-db", "", "Record the run in this SQLite database (optional)")
	fs.Parse(args)

	today := time.Now()
	from := audit.DefaultStartDate(today)
	if *fromFlag != "" {
		from = mustParseDate(*fromFlag, "from")
	}
	to := blogaudit.DateOf(today)
	if *toFlag != "" {
		to = mustParseDate(*toFlag, "to")
	}

	// Precondition, checked before any network activity.
	if info, err := os.Stat(*localDir); err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "local dir not found: %s\n", *localDir)
		os.Exit(2)
	}

	started := time.Now()
	result, err := audit.Run(audit.Options{
		BaseURL:         *baseURL,
		From:            from,
		To:              to,
		LocalDir:        *localDir,
		Labels:          parseCommaList(*labels),
		TitleKeywords:   parseCommaList(*titleKeywords),
		ContentKeywords: parseCommaList(*contentKeywords),
		FeedFormat:      *feedFormat,
		PageSize:        *pageSize,
		Delay:           *delay,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: audit failed: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if *output != "" {
		if err := os.MkdirAll(filepath.Dir(*output), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create output directory: %v\n", err)
			os.Exit(1)
		}
		f, err := os.Create(*output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create output file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if err := result.Write(out, *format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to write report: %v\n", err)
		os.Exit(1)
	}

	if *historyDB != "" {
		store, err := history.NewStore(*historyDB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open history store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		err = store.Record(history.Run{
			RunID:        uuid.New(),
			StartedAt:    started,
			BaseURL:      result.Summary.BaseURL,
			From:         result.Summary.From,
			To:           result.Summary.To,
			LocalCount:   result.Summary.LocalCount,
			MatchedCount: result.Summary.MatchedCount,
			MissingCount: result.Summary.MissingCount,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to record run: %v\n", err)
			os.Exit(1)
		}
	}
}

func mustParseDate(value, flagName string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -%s date %q (want YYYY-MM-DD)\n", flagName, value)
		os.Exit(1)
	}
	return t
}
