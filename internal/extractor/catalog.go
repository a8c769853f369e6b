package extractor

import (
	"net/url"
	"path"
	"strings"

	"github.com/user/brand-ingest/internal/entity"
)

var catalogMarkers = []string{"catalog", "download", "pdf", "brochure"}

// ExtractCatalogLinks keeps the links whose path looks like a catalog download.
func ExtractCatalogLinks(links []string) []entity.ParsedCatalogLink {
	seen := make(map[string]struct{}, len(links))
	var out []entity.ParsedCatalogLink
	for _, raw := range links {
		link := decodeValue(raw)
		if link == "" {
			continue
		}
		if _, dup := seen[link]; dup {
			continue
		}
		p := linkPath(link)
		if !isCatalogPath(p) {
			continue
		}
		seen[link] = struct{}{}
		out = append(out, entity.ParsedCatalogLink{URL: link, Filename: filename(p)})
	}
	return out
}

func linkPath(link string) string {
	u, err := url.Parse(link)
	if err != nil {
		return stripQuery(link)
	}
	if unescaped, err := url.PathUnescape(u.EscapedPath()); err == nil {
		return unescaped
	}
	return u.Path
}

func isCatalogPath(p string) bool {
	lower := strings.ToLower(p)
	if strings.HasSuffix(lower, ".pdf") {
		return true
	}
	for _, marker := range catalogMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func filename(p string) string {
	base := path.Base(strings.TrimRight(p, "/"))
	if base == "." || base == "/" {
		return ""
	}
	return base
}
