package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caobian/blogaudit"
)

// ErrNoContent marks an article that cannot be archived because its body is
// empty. Callers skip the article and keep going; it is not fatal.
var ErrNoContent = errors.New("article has no content")

// Characters that cannot appear in a filename on common filesystems.
var unsafeFilenameChars = regexp.MustCompile(`[\\/:*?"<>|]`)

const maxTitleRunes = 50

// Writer persists articles into an archive directory.
type Writer struct {
	dir string
}

// NewWriter creates a writer, creating the archive directory if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Save writes one article as a markdown file named
// {date}-{sanitized title}.md and returns the filename. An article with no
// content is rejected with ErrNoContent.
func (w *Writer) Save(article blogaudit.Article) (string, error) {
	if strings.TrimSpace(article.Content) == "" {
		return "", ErrNoContent
	}

	dateStr := "unknown-date"
	if !article.Published.IsZero() {
		dateStr = article.Published.Format("2006-01-02")
	}

	filename := dateStr + "-" + sanitizeTitle(article.Title) + ".md"

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", article.Title)
	fmt.Fprintf(&b, "- 日期：%s\n", dateStr)
	fmt.Fprintf(&b, "- 链接：%s\n", article.URL)
	fmt.Fprintf(&b, "- 标签：%s\n", strings.Join(article.Labels, ", "))
	b.WriteString("\n---\n\n")
	b.WriteString(article.Content)
	b.WriteString("\n")

	path := filepath.Join(w.dir, filename)
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", fmt.Errorf("failed to write article file: %w", err)
	}
	return filename, nil
}

// sanitizeTitle strips filesystem-hostile characters and caps the length at
// 50 runes.
func sanitizeTitle(title string) string {
	safe := unsafeFilenameChars.ReplaceAllString(title, "")
	runes := []rune(safe)
	if len(runes) > maxTitleRunes {
		runes = runes[:maxTitleRunes]
	}
	return string(runes)
}
