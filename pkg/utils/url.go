package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// HashURL returns the hex sha256 of a brand page URL. Redis keys for the
// visited set and the enrichment cache end in it.
func HashURL(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}

// ToAbsoluteURL resolves a link found on a page against the page URL.
func ToAbsoluteURL(pageURL *url.URL, link string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return "", err
	}
	return pageURL.ResolveReference(ref).String(), nil
}

// IsFetchable reports whether a link points at something a browser can load,
// as opposed to mailto:, tel:, javascript: or fragment-only references.
func IsFetchable(link string) bool {
	link = strings.TrimSpace(link)
	if link == "" || strings.HasPrefix(link, "#") {
		return false
	}
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
		return true
	}
	return false
}
