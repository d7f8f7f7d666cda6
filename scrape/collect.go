package scrape

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/caobian/blogaudit"
)

// Candidate is an article link discovered on an index page, known only by
// what the index showed: a title, a normalized URL, a URL-derived date, and
// which source surfaced it.
type Candidate struct {
	Title  string
	URL    string
	Date   time.Time
	Source string
}

// YearRange is an inclusive publish-year window for candidate filtering.
type YearRange struct {
	From int
	To   int
}

// Contains reports whether a date's year falls in the range. The zero date
// never does.
func (r YearRange) Contains(t time.Time) bool {
	return !t.IsZero() && r.From <= t.Year() && t.Year() <= r.To
}

// Collector discovers candidate article URLs from label pages, search
// pages, and an explicitly configured known-URL list. One seen-set spans
// all sources, so each article is surfaced at most once no matter how many
// index pages list it.
type Collector struct {
	client  *Client
	baseURL *url.URL
	years   YearRange
	seen    map[string]struct{}
}

// NewCollector creates a collector rooted at the blog's base URL.
func NewCollector(client *Client, baseURL string, years YearRange) (*Collector, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	return &Collector{
		client:  client,
		baseURL: base,
		years:   years,
		seen:    make(map[string]struct{}),
	}, nil
}

// FromLabelPage discovers candidates on a label index page.
func (c *Collector) FromLabelPage(label, labelPath string) ([]Candidate, error) {
	ref, err := url.Parse(labelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse label path %q: %w", labelPath, err)
	}

	doc, err := c.client.GetDocument(c.baseURL.ResolveReference(ref).String())
	if err != nil {
		return nil, fmt.Errorf("label page %q: %w", label, err)
	}

	return c.filter(indexLinks(doc, c.baseURL.Host), label, false), nil
}

// FromSearch discovers candidates via the blog's search page. Search
// results mix article and archive links, so only .html permalinks count.
func (c *Collector) FromSearch(keyword string) ([]Candidate, error) {
	searchURL := fmt.Sprintf("%s://%s/search?q=%s", c.baseURL.Scheme, c.baseURL.Host, url.QueryEscape(keyword))

	doc, err := c.client.GetDocument(searchURL)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", keyword, err)
	}

	links := selectLinks(doc, ".post-title a, h3.post-title a, .entry-title a")
	return c.filter(links, "搜索:"+keyword, true), nil
}

// FromKnownURLs admits explicitly configured article URLs that index pages
// may have missed, subject to the same dedupe and year-window rules.
func (c *Collector) FromKnownURLs(urls []string) []Candidate {
	links := make([]pageLink, 0, len(urls))
	for _, u := range urls {
		links = append(links, pageLink{title: "待获取", href: u})
	}
	return c.filter(links, "已知文章", false)
}

type pageLink struct {
	title string
	href  string
}

// indexLinks extracts article links from an index page using prioritized
// queries; the first query yielding a non-empty set wins. The last resort
// scans post containers for same-host .html links.
func indexLinks(doc *goquery.Document, host string) []pageLink {
	links := selectLinks(doc, ".post-title a, h3.post-title a")
	if len(links) == 0 {
		links = selectLinks(doc, ".entry-title a")
	}
	if len(links) == 0 {
		doc.Find(".blog-post, .post, article").Each(func(_ int, post *goquery.Selection) {
			link := post.Find("a[href*='" + host + "']").First()
			href, ok := link.Attr("href")
			if !ok || !strings.Contains(href, ".html") {
				return
			}
			title := selText(link)
			if title == "" {
				title = "未知标题"
			}
			links = append(links, pageLink{title: title, href: href})
		})
	}
	return links
}

// selectLinks collects (text, href) pairs for a selector group.
func selectLinks(doc *goquery.Document, selector string) []pageLink {
	var links []pageLink
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" {
			links = append(links, pageLink{title: selText(s), href: href})
		}
	})
	return links
}

// filter normalizes, deduplicates, and date-bounds discovered links.
func (c *Collector) filter(links []pageLink, source string, requireHTML bool) []Candidate {
	var out []Candidate
	for _, link := range links {
		if requireHTML && !strings.Contains(link.href, ".html") {
			continue
		}
		normalized, err := blogaudit.NormalizeURL(link.href)
		if err != nil {
			continue
		}
		if _, ok := c.seen[normalized]; ok {
			continue
		}
		c.seen[normalized] = struct{}{}

		date := DateFromURL(normalized)
		if !c.years.Contains(date) {
			continue
		}
		out = append(out, Candidate{Title: link.title, URL: normalized, Date: date, Source: source})
	}
	return out
}
