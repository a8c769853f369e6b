package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/user/brand-ingest/internal/entity"
)

// BuildDeferredPayload snapshots the fields the catalog service needs from a
// persisted record. A missing country name is recovered from the country code.
func BuildDeferredPayload(rec entity.BrandRecord, indexEntryID string, now time.Time) entity.DeferredCreatePayload {
	p := entity.DeferredCreatePayload{
		RecordID:          rec.ID,
		IndexEntryID:      indexEntryID,
		Name:              strings.TrimSpace(rec.Name),
		CompanyName:       strings.TrimSpace(rec.CompanyName),
		ProductType:       nonEmpty(rec.ProductCategories),
		CountryCode:       NormalizeCountryCode(rec.CountryCode),
		CountryName:       strings.TrimSpace(rec.CountryName),
		Website:           strings.TrimSpace(rec.Website),
		ContactEmail:      strings.TrimSpace(rec.ContactEmail),
		ContactName:       rec.ContactName,
		ContactJobTitle:   rec.ContactJobTitle,
		ExcludedCountries: nonEmpty(rec.ExcludedCountries),
		IsDisabled:        rec.IsDisabled,
		LogoURL:           rec.LogoURL,
		SavedAt:           now,
	}
	recoverCountryName(&p)
	return p
}

func recoverCountryName(p *entity.DeferredCreatePayload) {
	if p.CountryName == "" && p.CountryCode != "" {
		p.CountryName = CountryName(p.CountryCode)
	}
}

// MissingFields splits the empty required fields of p. Retryable fields can
// still be filled in by a later lookup; non-retryable ones never will be.
func MissingFields(p entity.DeferredCreatePayload) (retryable, nonRetryable []string) {
	required := []struct {
		name    string
		missing bool
	}{
		{"name", p.Name == ""},
		{"companyName", p.CompanyName == ""},
		{"productType", len(p.ProductType) == 0},
		{"countryCode", p.CountryCode == ""},
		{"website", p.Website == ""},
		{"contactEmail", p.ContactEmail == ""},
	}
	for _, f := range required {
		if f.missing {
			nonRetryable = append(nonRetryable, f.name)
		}
	}
	if p.CountryName == "" {
		retryable = append(retryable, "countryName")
	}
	return retryable, nonRetryable
}

// rollbackReason is stored on the index entry of a rolled back save.
func rollbackReason(nonRetryable []string) string {
	return fmt.Sprintf("deferred create payload missing non-retryable fields: %s", strings.Join(nonRetryable, ", "))
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
