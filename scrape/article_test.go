package scrape

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(t *testing.T, page string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return d
}

// TestExtractArticle_FullPage verifies the prioritized selectors pick up
// title, date, labels, and body
func TestExtractArticle_FullPage(t *testing.T) {
	page := `<html><head><title>ignored: site</title></head><body>
		<h3 class="post-title">读《活着》</h3>
		<span class="date-header">2024年3月9日</span>
		<div class="post-body">
			<p>第一段</p>
			<script>tracker()</script>
			<p>第二段</p>
		</div>
		<div class="post-labels"><a href="/search/label/x">读后感</a></div>
	</body></html>`

	got := ExtractArticle(doc(t, page), "https://example.com/2024/03/huozhe.html")

	assert.Equal(t, "读《活着》", got.Title)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), got.Published)
	assert.Equal(t, []string{"读后感"}, got.Labels)
	assert.Equal(t, "第一段\n\n第二段\n", got.Content)
}

// TestExtractArticle_TitleFallsBackToDocumentTitle verifies the <title>
// fallback keeps only the part before the first colon
func TestExtractArticle_TitleFallsBackToDocumentTitle(t *testing.T) {
	page := `<html><head><title>文章名: 槽边往事</title></head><body>
		<div class="post-body"><p>正文</p></div>
	</body></html>`

	got := ExtractArticle(doc(t, page), "https://example.com/2024/01/a.html")
	assert.Equal(t, "文章名", got.Title)
}

// TestExtractArticle_DateFallsBackToURL verifies the URL-derived date when
// the page carries none
func TestExtractArticle_DateFallsBackToURL(t *testing.T) {
	page := `<html><body><div class="post-body"><p>正文</p></div></body></html>`

	got := ExtractArticle(doc(t, page), "https://example.com/2023/11/a.html")
	assert.Equal(t, time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC), got.Published)
}

// TestExtractArticle_EntryContentVariant verifies the alternate template
// selectors work too
func TestExtractArticle_EntryContentVariant(t *testing.T) {
	page := `<html><body>
		<h1 class="entry-title">标题</h1>
		<div class="entry-content"><p>正文</p></div>
		<a rel="tag" href="/t">电影</a>
	</body></html>`

	got := ExtractArticle(doc(t, page), "https://example.com/2024/02/b.html")

	assert.Equal(t, "标题", got.Title)
	assert.Equal(t, "正文\n", got.Content)
	assert.Equal(t, []string{"电影"}, got.Labels)
}

// TestExtractArticle_NoContent verifies a page without a recognizable body
// yields empty content rather than an error
func TestExtractArticle_NoContent(t *testing.T) {
	page := `<html><body><h3 class="post-title">只有标题</h3></body></html>`

	got := ExtractArticle(doc(t, page), "https://example.com/2024/02/c.html")
	assert.Equal(t, "只有标题", got.Title)
	assert.Empty(t, got.Content)
}

// TestDateFromURL verifies the /YYYY/MM/ permalink pattern
func TestDateFromURL(t *testing.T) {
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DateFromURL("https://example.com/2024/01/a.html"))
	assert.True(t, DateFromURL("https://example.com/about").IsZero())
}
