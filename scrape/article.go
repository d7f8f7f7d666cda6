package scrape

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Prioritized selector lists for article pages. Blogger templates vary;
// the first selector that yields anything wins.
const (
	titleSelector   = "h3.post-title, .post-title, h1.entry-title, .entry-title"
	dateSelector    = ".date-header, .post-timestamp, time, .published"
	contentSelector = ".post-body, .entry-content, .post-content, article"
	labelSelector   = ".post-labels a, .labels a, a[rel='tag']"
)

var (
	dateInText = regexp.MustCompile(`(\d{4})[-年/](\d{1,2})[-月/](\d{1,2})`)
	dateInURL  = regexp.MustCompile(`/(\d{4})/(\d{2})/`)
)

// Page holds what could be extracted from a single article page. Extraction
// is best effort: absent fields stay zero and the caller decides whether it
// has enough, typically by merging in whatever the index page already knew.
type Page struct {
	Title     string
	Published time.Time
	Labels    []string
	Content   string
}

// ExtractArticle pulls title, publish date, labels, and structured body
// text out of an article page. The date falls back to the /YYYY/MM/ segment
// of the page URL when no on-page element carries one.
func ExtractArticle(doc *goquery.Document, pageURL string) *Page {
	page := &Page{}

	page.Title = selText(doc.Find(titleSelector).First())
	if page.Title == "" {
		if full := selText(doc.Find("title").First()); full != "" {
			page.Title = strings.TrimSpace(strings.SplitN(full, ":", 2)[0])
		}
	}

	if dateText := selText(doc.Find(dateSelector).First()); dateText != "" {
		page.Published = parseTextDate(dateText)
	}
	if page.Published.IsZero() {
		page.Published = DateFromURL(pageURL)
	}

	if body := doc.Find(contentSelector).First(); body.Length() > 0 {
		page.Content = ExtractStructuredText(body)
	}

	doc.Find(labelSelector).Each(func(_ int, s *goquery.Selection) {
		if label := selText(s); label != "" {
			page.Labels = append(page.Labels, label)
		}
	})

	return page
}

// DateFromURL recovers a publish date from the /YYYY/MM/ path segment
// Blogger puts in permalinks. Day precision is not available, so the first
// of the month stands in. Returns the zero time when the URL has no date.
func DateFromURL(url string) time.Time {
	m := dateInURL.FindStringSubmatch(url)
	if m == nil {
		return time.Time{}
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}

// parseTextDate finds a YYYY-MM-DD style date (Chinese 年/月 separators
// included) inside free-form element text.
func parseTextDate(text string) time.Time {
	m := dateInText.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// selText is the selection-level counterpart of flatText: concatenated,
// per-fragment-trimmed descendant text.
func selText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, node := range sel.Nodes {
		b.WriteString(flatText(node))
	}
	return b.String()
}
