package extractor

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/user/brand-ingest/internal/entity"
)

const urlChars = `[^"'\s()<>\\]`

var (
	reLogoPath   = regexp.MustCompile(`https?://` + urlChars + `*?/(?:[\w-]*[-_])?logos?(?:[-_][\w-]*)?/` + urlChars + `+?\.(?:png|jpe?g|gif|svg|webp)`)
	reAboutPath  = regexp.MustCompile(`https?://` + urlChars + `*?/[^"'\s()<>\\/]*about[^"'\s()<>\\]*?\.(?:png|jpe?g|gif|webp)`)
	reHeaderPath = regexp.MustCompile(`https?://` + urlChars + `*?/[^"'\s()<>\\/]*(?:header|banner|hero)[^"'\s()<>\\]*?\.(?:png|jpe?g|gif|webp)`)
)

// ExtractImageURLs picks the logo, header and about images of a brand page.
// The logo comes from the metadata image when that image lives under a logo
// path, otherwise from the raw document. The header image falls back to the
// metadata image only when that image is not a logo.
func ExtractImageURLs(raw string, meta entity.PageMetadata) entity.ExtractedImageURLs {
	doc := normalize(raw)
	og := stripQuery(decodeValue(meta.OgImage))

	var out entity.ExtractedImageURLs
	if og != "" && IsLogoImage(og) {
		out.LogoURL = og
	} else if m := reLogoPath.FindString(doc); m != "" {
		out.LogoURL = stripQuery(decodeValue(m))
	}

	if m := reAboutPath.FindString(doc); m != "" {
		out.AboutImageURL = stripQuery(decodeValue(m))
	}

	if m := reHeaderPath.FindString(doc); m != "" {
		out.HeaderImageURL = stripQuery(decodeValue(m))
	} else if og != "" && !IsLogoImage(og) {
		out.HeaderImageURL = og
	}
	return out
}

// IsLogoImage reports whether an image URL has a path segment naming a logo.
func IsLogoImage(imageURL string) bool {
	p := imageURL
	if u, err := url.Parse(imageURL); err == nil {
		p = u.Path
	}
	for _, seg := range strings.Split(p, "/") {
		if strings.Contains(strings.ToLower(seg), "logo") {
			return true
		}
	}
	return false
}

// FallbackHeaderImage returns the metadata image when it can stand in for a
// header image.
func FallbackHeaderImage(meta entity.PageMetadata) string {
	og := stripQuery(decodeValue(meta.OgImage))
	if og == "" || IsLogoImage(og) {
		return ""
	}
	return og
}
