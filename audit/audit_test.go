package audit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// feedServer serves a single-page Blogger JSON feed.
func feedServer(t *testing.T, page string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start-index") != "1" {
			fmt.Fprint(w, `{"feed":{}}`)
			return
		}
		fmt.Fprint(w, page)
	}))
	t.Cleanup(server.Close)
	return server
}

func entryJSON(title, url, published, label string) string {
	return fmt.Sprintf(`{
		"title":{"$t":%q},
		"published":{"$t":%q},
		"content":{"$t":"正文"},
		"link":[{"rel":"alternate","href":%q}],
		"category":[{"term":%q}]
	}`, title, published, url, label)
}

// TestRun_EndToEnd verifies the audit over a synthetic feed and a local
// archive with one existing article: two entries match, one is missing
func TestRun_EndToEnd(t *testing.T) {
	localDir := t.TempDir()
	archived := "# A\n\n- 日期：2024-01-10\n- 链接：https://example.com/2024/01/a.html\n- 标签：读后感\n\n---\n\n正文\n"
	require.NoError(t, os.WriteFile(filepath.Join(localDir, "2024-01-10-a.md"), []byte(archived), 0644))

	page := fmt.Sprintf(`{"feed":{"entry":[%s,%s,%s]}}`,
		entryJSON("文章A", "https://example.com/2024/01/a.html", "2024-01-10T08:00:00+08:00", "读后感"),
		entryJSON("文章B", "https://example.com/2024/01/b.html", "2024-01-20T08:00:00+08:00", "读后感"),
		entryJSON("无关文章", "https://example.com/2024/01/c.html", "2024-01-25T08:00:00+08:00", "生活"),
	)
	server := feedServer(t, page)

	r, err := Run(Options{
		BaseURL:  server.URL,
		From:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:       time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		LocalDir: localDir,
		Labels:   []string{"读后感"},
		Client:   server.Client(),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, r.Summary.LocalCount)
	assert.Equal(t, 2, r.Summary.MatchedCount)
	assert.Equal(t, 1, r.Summary.MissingCount)
	require.Len(t, r.Missing, 1)
	assert.Equal(t, "https://example.com/2024/01/b.html", r.Missing[0].URL)

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &summary))
	assert.Equal(t, float64(2), summary["matched_count"])
	assert.Equal(t, float64(1), summary["missing_count"])
	assert.Contains(t, lines[1], "b.html")
	assert.NotContains(t, buf.String(), "a.html", "archived article must not be reported")
}

// TestRun_MissingLocalDir verifies the audit fails before any network
// activity when the archive directory does not exist
func TestRun_MissingLocalDir(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{"feed":{}}`)
	}))
	t.Cleanup(server.Close)

	_, err := Run(Options{
		BaseURL:  server.URL,
		From:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:       time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		LocalDir: filepath.Join(t.TempDir(), "absent"),
		Client:   server.Client(),
	})

	require.Error(t, err)
	assert.Zero(t, requests, "local precondition must be checked before fetching")
}

// TestRun_TitleKeywordFallback verifies keyword criteria apply when labels
// don't match
func TestRun_TitleKeywordFallback(t *testing.T) {
	page := fmt.Sprintf(`{"feed":{"entry":[%s]}}`,
		entryJSON("《繁花》书评", "https://example.com/2024/02/fanhua.html", "2024-02-10T08:00:00+08:00", "生活"))
	server := feedServer(t, page)

	r, err := Run(Options{
		BaseURL:       server.URL,
		From:          time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:            time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		LocalDir:      t.TempDir(),
		Labels:        []string{"读后感"},
		TitleKeywords: []string{"书评"},
		Client:        server.Client(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, r.Summary.MatchedCount)
}

// TestRun_UnknownFeedFormat verifies format validation
func TestRun_UnknownFeedFormat(t *testing.T) {
	_, err := Run(Options{
		LocalDir:   t.TempDir(),
		FeedFormat: "rss2",
	})
	assert.Error(t, err)
}

// TestDefaultStartDate verifies the three-year-back default and the Feb 29
// clamp
func TestDefaultStartDate(t *testing.T) {
	today := time.Date(2026, 8, 30, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2023, 8, 30, 0, 0, 0, 0, time.UTC), DefaultStartDate(today))

	leap := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2021, 2, 28, 0, 0, 0, 0, time.UTC), DefaultStartDate(leap))
}
