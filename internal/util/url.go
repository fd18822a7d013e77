// url.go — URL helpers: origin extraction and resource URL resolution.
package util

import (
	"net/url"
	"strings"
)

// ExtractOrigin extracts the origin (scheme://host[:port]) from a URL.
// Returns empty string for data: URLs and malformed or relative URLs.
// blob: URLs yield their nested origin.
func ExtractOrigin(rawURL string) string {
	if strings.HasPrefix(rawURL, "data:") {
		return ""
	}
	rawURL = strings.TrimPrefix(rawURL, "blob:")

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}

// ResolveURL resolves a resource name against the page URL. Absolute names
// and unparseable inputs are returned unchanged.
func ResolveURL(pageURL, name string) string {
	ref, err := url.Parse(name)
	if err != nil || ref.IsAbs() {
		return name
	}
	base, err := url.Parse(pageURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return name
	}
	return base.ResolveReference(ref).String()
}

// QueryPairs returns the query parameters of rawURL as name/value pairs in
// the order they appear.
func QueryPairs(rawURL string) [][2]string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.RawQuery == "" {
		return nil
	}
	var out [][2]string
	for _, part := range strings.Split(parsed.RawQuery, "&") {
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, "=")
		if n, err := url.QueryUnescape(name); err == nil {
			name = n
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		out = append(out, [2]string{name, value})
	}
	return out
}
