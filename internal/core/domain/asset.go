package domain

import (
	"net/url"
	"path"
	"strings"
)

// AssetIDFromURL derives the asset host identifier from a hosted image URL:
// the last path segment without its extension.
func AssetIDFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		p = u.Path
	}
	base := path.Base(p)
	if base == "/" || base == "." {
		return ""
	}
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base
}
