package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/user/brand-ingest/internal/entity"
)

// maxUnmatchedNames caps the names listed in the unmatched distributor warning.
const maxUnmatchedNames = 10

type contactPair struct {
	field    string
	expected func(entity.ContactDetails) string
	received func(entity.BrandRecord) string
}

var contactPairs = []contactPair{
	{"phone", func(c entity.ContactDetails) string { return c.Phone }, func(r entity.BrandRecord) string { return r.Phone }},
	{"email", func(c entity.ContactDetails) string { return c.Email }, func(r entity.BrandRecord) string {
		if r.Email != "" {
			return r.Email
		}
		return r.ContactEmail
	}},
	{"street", func(c entity.ContactDetails) string { return c.Street }, func(r entity.BrandRecord) string { return r.Street }},
	{"city", func(c entity.ContactDetails) string { return c.City }, func(r entity.BrandRecord) string { return r.City }},
	{"zip", func(c entity.ContactDetails) string { return c.Zip }, func(r entity.BrandRecord) string { return r.Zip }},
	{"lat", func(c entity.ContactDetails) string { return c.Lat }, func(r entity.BrandRecord) string { return r.Lat }},
	{"lng", func(c entity.ContactDetails) string { return c.Lng }, func(r entity.BrandRecord) string { return r.Lng }},
	{"website", func(c entity.ContactDetails) string { return c.Website }, func(r entity.BrandRecord) string { return r.Website }},
	{"facebook", func(c entity.ContactDetails) string { return c.Facebook }, func(r entity.BrandRecord) string { return r.Facebook }},
	{"instagram", func(c entity.ContactDetails) string { return c.Instagram }, func(r entity.BrandRecord) string { return r.Instagram }},
	{"pinterest", func(c entity.ContactDetails) string { return c.Pinterest }, func(r entity.BrandRecord) string { return r.Pinterest }},
}

// CheckContactPresence reports an error for every scraped contact field the
// record leaves empty. Email is satisfied by either email or contactEmail.
func CheckContactPresence(gt GroundTruth, rec entity.BrandRecord) []entity.ValidationIssue {
	var out []entity.ValidationIssue
	for _, p := range contactPairs {
		want := strings.TrimSpace(p.expected(gt.Contact))
		if want == "" {
			continue
		}
		if strings.TrimSpace(p.received(rec)) == "" {
			out = append(out, issue(p.field, entity.SeverityError,
				fmt.Sprintf("%s was scraped from the source page but is missing from the record", p.field), want, ""))
		}
	}
	return out
}

// CheckHeaderFallback warns when a fallback header image exists but the record has none.
func CheckHeaderFallback(gt GroundTruth, rec entity.BrandRecord) []entity.ValidationIssue {
	if gt.FallbackImage == "" || rec.HeaderImageURL != "" {
		return nil
	}
	return []entity.ValidationIssue{issue("headerImageUrl", entity.SeverityWarning,
		"header image is missing; the page metadata image will be used", gt.FallbackImage, "")}
}

// CheckImages compares image URLs. A wrong logo is an error, header and about
// images are corrected after validation and only warn.
func CheckImages(gt GroundTruth, rec entity.BrandRecord) []entity.ValidationIssue {
	var out []entity.ValidationIssue
	out = appendImageIssue(out, "logoUrl", entity.SeverityError, gt.Images.LogoURL, rec.LogoURL)
	out = appendImageIssue(out, "headerImageUrl", entity.SeverityWarning, gt.Images.HeaderImageURL, rec.HeaderImageURL)
	out = appendImageIssue(out, "aboutImageUrl", entity.SeverityWarning, gt.Images.AboutImageURL, rec.AboutImageURL)
	return out
}

func appendImageIssue(out []entity.ValidationIssue, field string, sev entity.Severity, want, got string) []entity.ValidationIssue {
	switch {
	case want == "":
		return out
	case got == "":
		return append(out, issue(field, sev, field+" is missing", want, ""))
	case got != want:
		return append(out, issue(field, sev, field+" does not match the scraped image", want, got))
	}
	return out
}

// CheckDistributors reconciles the record's distributors with the richer
// scraped list. Every issue is a warning: the scraped list is attached after
// validation whatever the record carries.
func CheckDistributors(gt GroundTruth, rec entity.BrandRecord) []entity.ValidationIssue {
	truth := gt.AuthoritativeDistributors()
	if len(truth) == 0 {
		return nil
	}
	total := strconv.Itoa(len(truth))
	if len(rec.Distributors) == 0 {
		return []entity.ValidationIssue{issue("distributors", entity.SeverityWarning,
			fmt.Sprintf("record has no distributors but the source lists %d", len(truth)), total, "0")}
	}

	var out []entity.ValidationIssue
	if len(rec.Distributors)*2 < len(truth) {
		out = append(out, issue("distributors", entity.SeverityWarning,
			fmt.Sprintf("distributor count mismatch: record has %d of %d", len(rec.Distributors), len(truth)),
			total, strconv.Itoa(len(rec.Distributors))))
	}

	proposed := make(map[string]entity.ParsedDistributor, len(rec.Distributors))
	for _, d := range rec.Distributors {
		proposed[distributorKey(d.Name)] = d
	}

	var unmatched []string
	for _, want := range truth {
		got, ok := proposed[distributorKey(want.Name)]
		if !ok {
			unmatched = append(unmatched, want.Name)
			continue
		}
		out = append(out, distributorFieldIssues(want, got)...)
	}
	if len(unmatched) > 0 {
		out = append(out, issue("distributors", entity.SeverityWarning, unmatchedMessage(unmatched), "", ""))
	}
	return out
}

func distributorKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func distributorFieldIssues(want, got entity.ParsedDistributor) []entity.ValidationIssue {
	fields := []struct {
		name      string
		want, got string
	}{
		{"street", want.Street, got.Street},
		{"city", want.City, got.City},
		{"zip", want.Zip, got.Zip},
		{"phone", want.Phone, got.Phone},
		{"email", want.Email, got.Email},
		{"website", want.Website, got.Website},
	}
	var out []entity.ValidationIssue
	for _, f := range fields {
		if f.want != "" && strings.TrimSpace(f.got) == "" {
			out = append(out, issue("distributors."+f.name, entity.SeverityWarning,
				fmt.Sprintf("distributor %q is missing %s", want.Name, f.name), f.want, ""))
		}
	}
	return out
}

func unmatchedMessage(names []string) string {
	shown := names
	if len(shown) > maxUnmatchedNames {
		shown = shown[:maxUnmatchedNames]
	}
	msg := fmt.Sprintf("%d scraped distributors are not in the record: %s", len(names), strings.Join(shown, ", "))
	if rest := len(names) - len(shown); rest > 0 {
		msg += fmt.Sprintf(" and %d more", rest)
	}
	return msg
}

var reAboutHeading = regexp.MustCompile(`(?im)^#{1,6}[ \t]+.*\b(?:about|philosophy|company|who we are)\b`)

// CheckMarkdownContent warns about content the page shows that the record lacks.
func CheckMarkdownContent(gt GroundTruth, rec entity.BrandRecord) []entity.ValidationIssue {
	var out []entity.ValidationIssue
	if reAboutHeading.MatchString(gt.Markdown) && strings.TrimSpace(rec.Description) == "" {
		out = append(out, issue("description", entity.SeverityWarning,
			"source page has an about section but the record has no description", "", ""))
	}

	mentions := strings.Count(strings.ToLower(gt.Markdown), "catalog")
	switch {
	case len(rec.Catalogs) == 0 && mentions >= 2:
		out = append(out, issue("catalogs", entity.SeverityWarning,
			fmt.Sprintf("source page mentions catalogs %d times but the record has none", mentions), "", "0"))
	case len(rec.Catalogs) > 0 && !anyDownloadURL(rec.Catalogs):
		msg := "no catalog carries a download URL"
		expected := ""
		if len(gt.CachedCatalogLinks) > len(gt.CatalogLinks) {
			expected = strconv.Itoa(len(gt.CachedCatalogLinks))
			msg += fmt.Sprintf("; the cache holds %d catalog links", len(gt.CachedCatalogLinks))
		}
		out = append(out, issue("catalogs", entity.SeverityWarning, msg, expected, ""))
	}
	return out
}

func anyDownloadURL(catalogs []entity.Catalog) bool {
	for _, c := range catalogs {
		if strings.TrimSpace(c.DownloadURL) != "" {
			return true
		}
	}
	return false
}
