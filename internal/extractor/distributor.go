package extractor

import (
	"regexp"
	"strings"

	"github.com/user/brand-ingest/internal/entity"
)

// maxDistributorSpan bounds the text scanned after the last entry.
const maxDistributorSpan = 1500

var (
	// reDistributorEntry is the structural fingerprint of a distributor: a
	// seven digit id, a quoted name and a logo marker.
	reDistributorEntry = regexp.MustCompile(`(?:^|\D)(\d{7})\D[^"]{0,40}?(?:"name"\s*:\s*)?` + quotedValue +
		`[^"]{0,40}?(?:"?logo"?\s*:\s*"[^"]*"|"[^"]*logo[^"]*")`)
	reDistributorType = regexp.MustCompile(keyPrefix + `distributorType"?\s*[:,]\s*` + quotedValue)
	reQuoted          = regexp.MustCompile(quotedValue)

	reFallbackPhone   = regexp.MustCompile(keyPattern("phone", "telephone", "tel") + quotedValue)
	reFallbackWebsite = regexp.MustCompile(`"(https?://[^"\s]+)"`)
	reFallbackEmail   = regexp.MustCompile(`"([^"\s@]+@[^"\s@]+)"`)
)

type distributorEntry struct {
	id    string
	name  string
	start int
	end   int
}

// ExtractDistributors recovers the distributor list from a raw document.
func ExtractDistributors(raw string) []entity.ParsedDistributor {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	doc := normalize(raw)

	var entries []distributorEntry
	for _, m := range reDistributorEntry.FindAllStringSubmatchIndex(doc, -1) {
		name := decodeValue(doc[m[4]:m[5]])
		if name == "" || isFieldLabel(name) {
			continue
		}
		entries = append(entries, distributorEntry{
			id:    doc[m[2]:m[3]],
			name:  name,
			start: m[0],
			end:   m[1],
		})
	}

	seen := make(map[string]struct{}, len(entries))
	var out []entity.ParsedDistributor
	for i, e := range entries {
		if _, dup := seen[e.id]; dup {
			continue
		}
		seen[e.id] = struct{}{}

		spanEnd := len(doc)
		if i+1 < len(entries) {
			spanEnd = entries[i+1].start
		}
		if spanEnd-e.end > maxDistributorSpan {
			spanEnd = e.end + maxDistributorSpan
		}
		span := window(doc, e.end, spanEnd)

		d := entity.ParsedDistributor{Name: e.name}
		if loc := reDistributorType.FindStringSubmatchIndex(span); loc != nil {
			d.Type = decodeValue(span[loc[2]:loc[3]])
			classifyTokens(span[loc[1]:], &d)
		} else {
			fallbackFields(span, &d)
		}
		out = append(out, d)
	}
	return out
}

// classifyTokens assigns the quoted strings after a distributorType pair by
// shape: phone, website, email, then street, city and zip in order.
func classifyTokens(span string, d *entity.ParsedDistributor) {
	var plain []string
	for _, m := range reQuoted.FindAllStringSubmatch(span, -1) {
		v := decodeValue(m[1])
		switch {
		case v == "" || isFieldLabel(v) || strings.HasPrefix(v, "/") || strings.ContainsAny(v, "{}[]"):
			continue
		case isPlausiblePhone(v):
			if d.Phone == "" {
				d.Phone = v
			}
		case strings.HasPrefix(strings.ToLower(v), "http"):
			if d.Website == "" {
				d.Website = v
			}
		case strings.Contains(v, "@"):
			if d.Email == "" && IsPlausibleEmail(v) {
				d.Email = v
			}
		default:
			plain = append(plain, v)
		}
	}
	for i, v := range plain {
		switch i {
		case 0:
			d.Street = v
		case 1:
			d.City = v
		case 2:
			d.Zip = v
		}
	}
}

func fallbackFields(span string, d *entity.ParsedDistributor) {
	if v, ok := firstSubmatch(reFallbackPhone, span); ok && isPlausiblePhone(v) {
		d.Phone = v
	}
	if v, ok := firstSubmatch(reFallbackWebsite, span); ok {
		d.Website = v
	}
	for _, m := range reFallbackEmail.FindAllStringSubmatch(span, -1) {
		if v := decodeValue(m[1]); IsPlausibleEmail(v) {
			d.Email = v
			break
		}
	}
}
