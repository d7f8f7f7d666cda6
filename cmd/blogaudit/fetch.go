package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/caobian/blogaudit"
	"github.com/caobian/blogaudit/archive"
	"github.com/caobian/blogaudit/config"
	"github.com/caobian/blogaudit/scrape"
)

func handleFetch(args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	configPath := fs.String("config", "", "Crawl config file (YAML; default: built-in targets)")
	outputDir := fs.String("output-dir", "", "Override the config's output directory")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	minDelay, maxDelay, err := cfg.DelayBounds()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	client := scrape.NewClient(30 * time.Second)
	collector, err := scrape.NewCollector(client, cfg.BaseURL,
		scrape.YearRange{From: cfg.Years.From, To: cfg.Years.To})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log.Printf("Collecting candidates from %s (%d-%d)", cfg.BaseURL, cfg.Years.From, cfg.Years.To)
	candidates := collectCandidates(collector, cfg, minDelay, maxDelay)
	if len(candidates) == 0 {
		log.Println("No matching articles found")
		return
	}
	log.Printf("Found %d candidate articles", len(candidates))

	writer, err := archive.NewWriter(cfg.OutputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	saved := 0
	for i, candidate := range candidates {
		log.Printf("[%d/%d] %s", i+1, len(candidates), candidate.URL)
		if fetchAndSave(client, writer, candidate) {
			saved++
		}
		politeSleep(minDelay, maxDelay)
	}
	log.Printf("Done: saved %d of %d articles to %s", saved, len(candidates), cfg.OutputDir)
}

// collectCandidates walks label pages, search pages, and known URLs. An
// index page that fails to load is logged and skipped; the other sources
// still run.
func collectCandidates(collector *scrape.Collector, cfg *config.Crawl, minDelay, maxDelay time.Duration) []scrape.Candidate {
	var candidates []scrape.Candidate

	labelNames := make([]string, 0, len(cfg.Labels))
	for name := range cfg.Labels {
		labelNames = append(labelNames, name)
	}
	sort.Strings(labelNames)

	for _, label := range labelNames {
		found, err := collector.FromLabelPage(label, cfg.Labels[label])
		if err != nil {
			log.Printf("ERROR: %v", err)
		} else {
			log.Printf("Label %s: %d articles", label, len(found))
			candidates = append(candidates, found...)
		}
		politeSleep(minDelay, maxDelay)
	}

	for _, keyword := range cfg.SearchKeywords {
		found, err := collector.FromSearch(keyword)
		if err != nil {
			log.Printf("ERROR: %v", err)
		} else {
			log.Printf("Search %s: %d new articles", keyword, len(found))
			candidates = append(candidates, found...)
		}
		politeSleep(minDelay, maxDelay)
	}

	return append(candidates, collector.FromKnownURLs(cfg.KnownArticles)...)
}

// fetchAndSave extracts one article page and archives it. Failures are
// isolated: one bad article never stops the batch.
func fetchAndSave(client *scrape.Client, writer *archive.Writer, candidate scrape.Candidate) bool {
	doc, err := client.GetDocument(candidate.URL)
	if err != nil {
		log.Printf("ERROR: failed to fetch %s: %v", candidate.URL, err)
		return false
	}

	page := scrape.ExtractArticle(doc, candidate.URL)

	// The index page may know things the article page doesn't render.
	title := page.Title
	if title == "" {
		title = candidate.Title
	}
	published := page.Published
	if published.IsZero() {
		published = candidate.Date
	}
	labels := page.Labels
	if len(labels) == 0 && candidate.Source != "" {
		labels = []string{candidate.Source}
	}

	article, err := blogaudit.NewArticle(title, candidate.URL, published, labels, page.Content)
	if err != nil {
		log.Printf("Skipped %s: %v", candidate.URL, err)
		return false
	}

	filename, err := writer.Save(article)
	if errors.Is(err, archive.ErrNoContent) {
		log.Printf("Skipped (no content): %s", article.Title)
		return false
	}
	if err != nil {
		log.Printf("ERROR: failed to save %s: %v", article.Title, err)
		return false
	}
	log.Printf("Saved: %s", filename)
	return true
}

// politeSleep pauses for a duration drawn uniformly from [min, max].
func politeSleep(min, max time.Duration) {
	if max <= 0 {
		return
	}
	d := min
	if max > min {
		d += time.Duration(rand.Int63n(int64(max - min)))
	}
	time.Sleep(d)
}
