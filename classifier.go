package blogaudit

import (
	"regexp"
	"strings"
)

// TextMatcher reports whether a piece of text matches a pattern.
// *regexp.Regexp satisfies it.
type TextMatcher interface {
	MatchString(s string) bool
}

// Classifier decides whether an article belongs to the target topical set.
// Criteria are evaluated in order and short-circuit: a label hit wins
// before the title pattern is consulted, and a title hit wins before the
// content pattern. A nil matcher or empty label set simply contributes no
// match; it never matches everything.
type Classifier struct {
	Labels  map[string]struct{}
	Title   TextMatcher
	Content TextMatcher
}

// NewClassifier builds a classifier from a label set and keyword lists.
// Keywords are matched as literal substrings (an alternation of escaped
// literals), deliberately conservative: no stemming, no fuzzy matching.
func NewClassifier(labels, titleKeywords, contentKeywords []string) *Classifier {
	labelSet := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label != "" {
			labelSet[label] = struct{}{}
		}
	}

	return &Classifier{
		Labels:  labelSet,
		Title:   keywordPattern(titleKeywords),
		Content: keywordPattern(contentKeywords),
	}
}

// Matches reports whether the article belongs to the target set.
func (c *Classifier) Matches(a Article) bool {
	for _, label := range a.Labels {
		if _, ok := c.Labels[label]; ok {
			return true
		}
	}
	if c.Title != nil && c.Title.MatchString(a.Title) {
		return true
	}
	if c.Content != nil && c.Content.MatchString(a.Content) {
		return true
	}
	return false
}

// keywordPattern compiles a keyword list into a substring alternation.
// Returns nil when no usable keywords remain, so an absent criterion is
// skipped rather than matching vacuously.
func keywordPattern(keywords []string) TextMatcher {
	quoted := make([]string, 0, len(keywords))
	for _, keyword := range keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword != "" {
			quoted = append(quoted, regexp.QuoteMeta(keyword))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	return regexp.MustCompile(strings.Join(quoted, "|"))
}
