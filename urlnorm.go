package blogaudit

import (
	"fmt"
	"strings"
)

// Per-component character allowlists for percent re-encoding. Unreserved
// characters (letters, digits, "-._~") are always kept literal on top of
// these. Keeping "%" in the path and query sets means a literal percent
// sign survives a round trip unescaped, which is what makes NormalizeURL
// idempotent.
const (
	pathSafe     = "/~%:@!$&'()*+,;="
	querySafe    = "=&%"
	fragmentSafe = ""
)

// NormalizeURL canonicalizes a URL into a stable comparison key: two URLs a
// browser treats as equivalent (differing only in percent-encoding case,
// redundant encoding, or scheme/host case) normalize to the same string.
// The scheme and authority are lowercased; path, query, and fragment are
// each percent-decoded and re-encoded against a fixed allowlist. Decoding
// is lenient: invalid escapes pass through untouched, so the function is
// total and idempotent over its own output. The split is purely syntactic
// (url.Parse decodes the path strictly and would reject output containing
// a literal percent sign); the only failure mode is an unbalanced bracket
// in the host.
func NormalizeURL(raw string) (string, error) {
	rest := strings.Map(dropLineBreaks, strings.TrimSpace(raw))

	var fragment string
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest, fragment = rest[:i], rest[i+1:]
	}

	var scheme string
	if i := strings.IndexByte(rest, ':'); i > 0 && isScheme(rest[:i]) {
		scheme, rest = strings.ToLower(rest[:i]), rest[i+1:]
	}

	var authority string
	if strings.HasPrefix(rest, "//") {
		end := len(rest)
		if i := strings.IndexAny(rest[2:], "/?#"); i >= 0 {
			end = 2 + i
		}
		authority, rest = strings.ToLower(rest[2:end]), rest[end:]
		if strings.Count(authority, "[") != strings.Count(authority, "]") {
			return "", fmt.Errorf("invalid bracketed host in URL %q", raw)
		}
	}

	var query string
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		rest, query = rest[:i], rest[i+1:]
	}

	path := percentEncode(percentDecode(rest), pathSafe)
	query = percentEncode(percentDecode(query), querySafe)
	fragment = percentEncode(percentDecode(fragment), fragmentSafe)

	var b strings.Builder
	if scheme != "" {
		b.WriteString(scheme)
		b.WriteString(":")
	}
	if authority != "" {
		b.WriteString("//")
		b.WriteString(authority)
	}
	b.WriteString(path)
	if query != "" {
		b.WriteString("?")
		b.WriteString(query)
	}
	if fragment != "" {
		b.WriteString("#")
		b.WriteString(fragment)
	}
	return b.String(), nil
}

// percentEncode escapes every byte that is neither unreserved nor in safe,
// using uppercase hex digits.
func percentEncode(s, safe string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) || strings.IndexByte(safe, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0xf])
	}
	return b.String()
}

// percentDecode decodes valid %XX escapes and passes invalid ones through
// unchanged. "+" is left alone; it only means space in form encoding, which
// feed URLs never use.
func percentDecode(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, okHi := unhex(s[i+1])
			lo, okLo := unhex(s[i+2])
			if okHi && okLo {
				b.WriteByte(hi<<4 | lo)
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// dropLineBreaks removes embedded tabs and newlines wherever they appear,
// the way browsers sanitize pasted URLs.
func dropLineBreaks(r rune) rune {
	if r == '\t' || r == '\n' || r == '\r' {
		return -1
	}
	return r
}

// isScheme reports whether s is a valid URL scheme: a letter followed by
// letters, digits, "+", "-", or ".".
func isScheme(s string) bool {
	if !isAlpha(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !isAlpha(c) && !('0' <= c && c <= '9') && c != '+' && c != '-' && c != '.' {
			return false
		}
	}
	return true
}

func isAlpha(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isUnreserved(c byte) bool {
	return 'a' <= c && c <= 'z' ||
		'A' <= c && c <= 'Z' ||
		'0' <= c && c <= '9' ||
		c == '-' || c == '.' || c == '_' || c == '~'
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
