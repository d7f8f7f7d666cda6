package feed

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestJSONDecoder_PageURL verifies the Blogger pagination parameters
func TestJSONDecoder_PageURL(t *testing.T) {
	got := JSONDecoder{}.PageURL("https://www.hecaitou.com/", 151, 150)
	assert.Equal(t, "https://www.hecaitou.com/feeds/posts/default?alt=json&start-index=151&max-results=150", got)
}

// TestJSONDecoder_SummaryFallback verifies summary.$t is used when
// content.$t is absent
func TestJSONDecoder_SummaryFallback(t *testing.T) {
	page := `{"feed":{"entry":[{
		"title":{"$t":"t"},
		"published":{"$t":"2024-05-20T08:00:00.000+08:00"},
		"summary":{"$t":"  the summary  "},
		"link":[{"rel":"alternate","href":"https://example.com/2024/05/a.html"}],
		"category":[{"term":"读后感"},{"term":""}]
	}]}}`

	entries, err := JSONDecoder{}.DecodePage(strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "t", entry.Title)
	assert.Equal(t, "https://example.com/2024/05/a.html", entry.URL)
	assert.Equal(t, "the summary", entry.Content)
	assert.Equal(t, []string{"读后感"}, entry.Labels, "empty category terms are dropped")
	assert.Equal(t, 2024, entry.Published.Year())
}

// TestJSONDecoder_MissingFieldsStayZero verifies decode is lenient
// per-entry; validation belongs to the walker
func TestJSONDecoder_MissingFieldsStayZero(t *testing.T) {
	page := `{"feed":{"entry":[{"title":{"$t":"only a title"}}]}}`

	entries, err := JSONDecoder{}.DecodePage(strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	assert.Equal(t, "only a title", entries[0].Title)
	assert.Empty(t, entries[0].URL)
	assert.True(t, entries[0].Published.IsZero())
}

// TestJSONDecoder_NoEntries verifies an entry-less feed decodes to zero
// entries, the walker's end-of-feed signal
func TestJSONDecoder_NoEntries(t *testing.T) {
	entries, err := JSONDecoder{}.DecodePage(strings.NewReader(`{"feed":{}}`))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

// TestAtomDecoder_DecodePage verifies the gofeed-backed decoder maps Atom
// entries onto the same raw-entry shape as the JSON decoder
func TestAtomDecoder_DecodePage(t *testing.T) {
	page := `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
	<title>槽边往事</title>
	<entry>
		<title>某部电影观后感</title>
		<link rel="alternate" type="text/html" href="https://example.com/2024/05/movie.html"/>
		<published>2024-05-12T10:00:00+08:00</published>
		<category scheme="http://www.blogger.com/atom/ns#" term="观后感"/>
		<content type="html">正文内容</content>
	</entry>
</feed>`

	entries, err := NewAtomDecoder().DecodePage(strings.NewReader(page))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "某部电影观后感", entry.Title)
	assert.Equal(t, "https://example.com/2024/05/movie.html", entry.URL)
	assert.Equal(t, "正文内容", entry.Content)
	assert.Contains(t, entry.Labels, "观后感")
	assert.Equal(t, time.May, entry.Published.Month())
}

// TestAtomDecoder_PageURL verifies the Atom variant omits alt=json but
// keeps the same pagination scheme
func TestAtomDecoder_PageURL(t *testing.T) {
	got := NewAtomDecoder().PageURL("https://www.hecaitou.com", 1, 25)
	assert.Equal(t, "https://www.hecaitou.com/feeds/posts/default?start-index=1&max-results=25", got)
}
