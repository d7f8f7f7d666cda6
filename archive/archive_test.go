package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/caobian/blogaudit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

// TestReadIndex_CollectsLinkLines verifies archived URLs are recovered and
// normalized
func TestReadIndex_CollectsLinkLines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2024-01-05-a.md", "# A\n\n- 日期：2024-01-05\n- 链接：HTTPS://Example.com/2024/01/a.html\n- 标签：读后感\n\n---\n\n正文\n")
	writeFile(t, dir, "notes.md", "# 随手记\n\n没有链接行\n")
	writeFile(t, dir, "readme.txt", "- 链接：https://example.com/ignored.html\n")

	idx, err := ReadIndex(dir)
	require.NoError(t, err)

	assert.Len(t, idx, 1)
	assert.True(t, idx.Contains("https://example.com/2024/01/a.html"))
	assert.True(t, idx.Contains("HTTP://EXAMPLE.COM/2024/01/a.html"), "lookup goes through normalization")
	assert.False(t, idx.Contains("https://example.com/ignored.html"), "non-md files contribute nothing")
}

// TestReadIndex_PercentInLink verifies a link line carrying an encoded
// percent sign indexes under the same key as every encoding of that URL
func TestReadIndex_PercentInLink(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2024-01-10-sale.md", "# 促销\n\n- 日期：2024-01-10\n- 链接：https://example.com/2024/01/sale-100%25-off.html\n- 标签：生活\n\n---\n\n正文\n")

	idx, err := ReadIndex(dir)
	require.NoError(t, err)

	assert.True(t, idx.Contains("https://example.com/2024/01/sale-100%25-off.html"))
	assert.True(t, idx.Contains("https://example.com/2024/01/sale-100%-off.html"), "decoded form is the same key")
}

// TestReadIndex_MissingDirectory verifies a missing archive directory is an
// error for the reader
func TestReadIndex_MissingDirectory(t *testing.T) {
	_, err := ReadIndex(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

// TestWriter_Save verifies the file name and front-matter layout
func TestWriter_Save(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	article, err := blogaudit.NewArticle("读《活着》有感", "https://example.com/2024/03/huozhe.html",
		time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), []string{"读后感", "书评"}, "第一段\n\n第二段\n")
	require.NoError(t, err)

	filename, err := w.Save(article)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-09-读《活着》有感.md", filename)

	data, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)

	text := string(data)
	assert.True(t, strings.HasPrefix(text, "# 读《活着》有感\n\n"))
	assert.Contains(t, text, "- 日期：2024-03-09\n")
	assert.Contains(t, text, "- 链接：https://example.com/2024/03/huozhe.html\n")
	assert.Contains(t, text, "- 标签：书评, 读后感\n")
	assert.Contains(t, text, "\n---\n\n第一段\n\n第二段\n")
}

// TestWriter_SaveRejectsEmptyContent verifies the ErrNoContent sentinel
func TestWriter_SaveRejectsEmptyContent(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	article, err := blogaudit.NewArticle("空文章", "https://example.com/2024/01/empty.html",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), nil, "   ")
	require.NoError(t, err)

	_, err = w.Save(article)
	assert.ErrorIs(t, err, ErrNoContent)
}

// TestWriter_SanitizesFilename verifies hostile characters are stripped and
// long titles truncated by runes, not bytes
func TestWriter_SanitizesFilename(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	longTitle := `评:一部"电影"/观后?` + strings.Repeat("很", 60)
	article, err := blogaudit.NewArticle(longTitle, "https://example.com/2024/05/long.html",
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), nil, "正文")
	require.NoError(t, err)

	filename, err := w.Save(article)
	require.NoError(t, err)

	base := strings.TrimSuffix(strings.TrimPrefix(filename, "2024-05-01-"), ".md")
	assert.NotContains(t, base, ":")
	assert.NotContains(t, base, "/")
	assert.NotContains(t, base, `"`)
	assert.NotContains(t, base, "?")
	assert.LessOrEqual(t, len([]rune(base)), 50)
}

// TestWriteThenReadIndex verifies a saved article is found by a subsequent
// audit of the same directory
func TestWriteThenReadIndex(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	article, err := blogaudit.NewArticle("文章", "https://example.com/2024/06/roundtrip.html",
		time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), []string{"电影"}, "正文")
	require.NoError(t, err)

	_, err = w.Save(article)
	require.NoError(t, err)

	idx, err := ReadIndex(dir)
	require.NoError(t, err)
	assert.True(t, idx.Contains("https://example.com/2024/06/roundtrip.html"))
}
