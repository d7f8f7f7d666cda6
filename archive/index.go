// Package archive manages the local corpus of saved articles: one markdown
// file per article, carrying a small front-matter block whose link line is
// the article's identity.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caobian/blogaudit"
)

// linkLine recovers the archived URL from a saved article file. A file
// without this line contributes nothing to the index.
var linkLine = regexp.MustCompile(`(?m)^- 链接：(.*)$`)

// Index is the set of normalized URLs already present in the local archive.
// It is read once at startup and read-only afterwards.
type Index map[string]struct{}

// Contains reports whether a URL is already archived. The argument is
// normalized before lookup, so raw URLs are safe to pass.
func (idx Index) Contains(url string) bool {
	normalized, err := blogaudit.NormalizeURL(url)
	if err != nil {
		return false
	}
	_, ok := idx[normalized]
	return ok
}

// ReadIndex scans a directory of archived article files and collects their
// normalized URLs. The caller is responsible for checking the directory
// exists beforehand; a missing directory here is an error.
func ReadIndex(dir string) (Index, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive directory: %w", err)
	}

	idx := make(Index)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read archive file %s: %w", entry.Name(), err)
		}

		m := linkLine.FindSubmatch(data)
		if m == nil {
			continue
		}
		url := strings.TrimSpace(string(m[1]))
		if url == "" {
			continue
		}

		normalized, err := blogaudit.NormalizeURL(url)
		if err != nil {
			continue
		}
		idx[normalized] = struct{}{}
	}
	return idx, nil
}
