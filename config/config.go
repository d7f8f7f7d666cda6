// Package config loads the crawl configuration for the fetch path: which
// labels and search keywords to harvest, which known article URLs to
// include, and how politely to pace requests.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Crawl is the fetch-path configuration. Everything the original target
// list hard-coded lives here instead: no ambient globals.
type Crawl struct {
	BaseURL string `yaml:"base_url"`
	// Label name -> index page path, e.g. "读后感" -> "/search/label/读后感".
	Labels map[string]string `yaml:"labels"`
	// Search keywords that catch articles the label pages missed.
	SearchKeywords []string `yaml:"search_keywords"`
	// Article URLs known to be missing from every index page.
	KnownArticles []string `yaml:"known_articles"`
	// Inclusive publish-year window for candidates.
	Years struct {
		From int `yaml:"from"`
		To   int `yaml:"to"`
	} `yaml:"years"`
	OutputDir string `yaml:"output_dir"`
	// Polite inter-request delay bounds, as duration strings. The actual
	// pause is drawn uniformly from [min, max].
	MinDelay string `yaml:"min_delay"`
	MaxDelay string `yaml:"max_delay"`
}

// Default returns the crawl configuration used when no file is given.
func Default() *Crawl {
	cfg := &Crawl{
		BaseURL: "https://www.hecaitou.com",
		Labels: map[string]string{
			"读后感": "/search/label/读后感",
			"电影":  "/search/label/电影",
			"观后感": "/search/label/观后感",
			"音乐":  "/search/label/音乐",
		},
		SearchKeywords: []string{"读后", "书评", "电影", "观后"},
		KnownArticles:  []string{},
		OutputDir:      "articles",
		MinDelay:       "1s",
		MaxDelay:       "2s",
	}
	cfg.Years.From = 2023
	cfg.Years.To = 2025
	return cfg
}

// Load reads a crawl configuration file. An empty path returns the
// defaults; a path that doesn't exist is an error, a half-filled file is
// topped up from the defaults.
func Load(path string) (*Crawl, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Crawl) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.Years.From > c.Years.To {
		return fmt.Errorf("years.from (%d) is after years.to (%d)", c.Years.From, c.Years.To)
	}
	if _, _, err := c.DelayBounds(); err != nil {
		return err
	}
	return nil
}

// DelayBounds parses the inter-request delay bounds.
func (c *Crawl) DelayBounds() (min, max time.Duration, err error) {
	min, err = time.ParseDuration(c.MinDelay)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid min_delay: %w", err)
	}
	max, err = time.ParseDuration(c.MaxDelay)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid max_delay: %w", err)
	}
	if max < min {
		return 0, 0, fmt.Errorf("max_delay %s is shorter than min_delay %s", c.MaxDelay, c.MinDelay)
	}
	return min, max, nil
}
