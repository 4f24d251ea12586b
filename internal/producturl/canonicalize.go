package producturl

import (
	"net/url"
	"strings"

	"storefront-wizard/internal/model"
)

// Canonicalize classifies raw and returns its canonical form.
func Canonicalize(raw string) string {
	return CanonicalizeWith(raw, Classify(raw))
}

// CanonicalizeWith normalizes raw using an already computed classification.
// It never fails: input that does not parse as a URL falls back to plain
// string cutting. The result is a fixed point of Canonicalize.
func CanonicalizeWith(raw string, res model.ClassificationResult) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if cut, ok := Truncate(s); ok {
		return cut
	}
	if res.Kind == model.KindAmazon {
		if rebuilt, ok := rebuildAmazon(s); ok {
			return rebuilt
		}
		return s
	}
	if hasStorePath(s) {
		return stripStoreURL(s)
	}
	return s
}

// Truncate cuts s right after the first .html (or, failing that, .htm) in its
// path, dropping whatever tracking junk follows the page extension. An
// extension inside the query or fragment does not count.
func Truncate(s string) (string, bool) {
	start := pathStart(s)
	if start < 0 {
		return s, false
	}
	end := len(s)
	if i := strings.IndexAny(s[start:], "?#"); i >= 0 {
		end = start + i
	}
	lower := strings.ToLower(s[start:end])
	if i := strings.Index(lower, ".html"); i >= 0 {
		return s[:start+i+len(".html")], true
	}
	from := 0
	for {
		i := strings.Index(lower[from:], ".htm")
		if i < 0 {
			return s, false
		}
		end := from + i + len(".htm")
		if end < len(lower) && lower[end] == 'l' {
			from = end
			continue
		}
		return s[:start+end], true
	}
}

// HasTrailingAfterExtension reports whether Truncate would shorten raw.
func HasTrailingAfterExtension(raw string) bool {
	s := strings.TrimSpace(raw)
	cut, ok := Truncate(s)
	return ok && cut != s
}

func rebuildAmazon(s string) (string, bool) {
	ref, ok := amazonReference(s)
	if !ok {
		return "", false
	}
	if ref.pattern == PatternAmazonShort {
		return "https://amzn" + ref.suffix + "/" + ref.id, true
	}
	return "https://www.amazon" + ref.suffix + "/dp/" + ref.id, true
}

func hasStorePath(s string) bool {
	p := strings.ToLower(pathOf(s))
	return strings.Contains(p, "/products/") || strings.Contains(p, "/collections/")
}

func stripStoreURL(s string) string {
	u, ok := parseLoose(s)
	if !ok {
		return stripStoreString(s)
	}
	u.RawQuery = ""
	u.ForceQuery = false
	u.Fragment = ""
	u.RawFragment = ""
	u.Path = trimTrailingSlashes(u.Path)
	u.RawPath = trimTrailingSlashes(u.RawPath)
	return u.String()
}

func stripStoreString(s string) string {
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	if start := pathStart(s); start >= 0 {
		s = s[:start] + trimTrailingSlashes(s[start:])
	}
	return s
}

// trimTrailingSlashes drops every trailing slash but keeps a root "/".
func trimTrailingSlashes(p string) string {
	if p == "" {
		return p
	}
	if trimmed := strings.TrimRight(p, "/"); trimmed != "" {
		return trimmed
	}
	return "/"
}

// parseLoose parses s, assuming https only for the duration of the parse when
// no scheme is present.
func parseLoose(s string) (*url.URL, bool) {
	candidate := s
	if !strings.Contains(s, "://") {
		candidate = "https://" + strings.TrimPrefix(s, "//")
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" {
		return nil, false
	}
	return u, true
}

func schemeEnd(s string) int {
	if i := strings.Index(s, "://"); i >= 0 {
		return i + len("://")
	}
	return 0
}

// pathStart returns the index of the first '/' after the host, or -1.
func pathStart(s string) int {
	from := schemeEnd(s)
	i := strings.IndexAny(s[from:], "/?#")
	if i < 0 || s[from+i] != '/' {
		return -1
	}
	return from + i
}

func hostOf(s string) string {
	from := schemeEnd(s)
	rest := s[from:]
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		return rest[:i]
	}
	return rest
}

func pathOf(s string) string {
	start := pathStart(s)
	if start < 0 {
		return ""
	}
	p := s[start:]
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return p
}
