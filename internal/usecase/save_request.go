package usecase

import (
	"encoding/json"
	"errors"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/user/brand-ingest/internal/entity"
)

var (
	ErrInvalidSaveRequest = errors.New("invalid save request")
	ErrUnknownSaveField   = errors.New("unknown field in save request")
)

// ForbiddenSaveFields are scraped facts. They only ever come from the session
// and a request naming any of them is rejected.
var ForbiddenSaveFields = []string{
	"phone", "email", "street", "city", "zip", "lat", "lng",
	"website", "facebook", "instagram", "pinterest",
	"logoUrl", "headerImageUrl", "aboutImageUrl",
	"distributors", "catalogs", "catalogLinks", "imageUrls", "contactDetails",
	"rawMarkdown", "rawLinks", "rawMetadata",
}

var allowedSaveFields = map[string]struct{}{
	"sessionId": {}, "sourceUrl": {}, "indexEntryId": {},
	"name": {}, "companyName": {}, "description": {},
	"countryCode": {}, "countryName": {}, "productCategories": {},
	"isDisabled": {}, "excludedCountries": {},
	"contactEmail": {}, "contactName": {}, "contactJobTitle": {},
	"websiteFallback": {}, "enrichmentContact": {},
}

var forbiddenSaveFields = func() map[string]struct{} {
	m := make(map[string]struct{}, len(ForbiddenSaveFields))
	for _, f := range ForbiddenSaveFields {
		m[f] = struct{}{}
	}
	return m
}()

// SaveRequest carries the session reference plus the enrichment a caller may
// add on top of the scraped facts.
type SaveRequest struct {
	SessionID    string `json:"sessionId"`
	SourceURL    string `json:"sourceUrl"`
	IndexEntryID string `json:"indexEntryId,omitempty"`

	Name              string                    `json:"name,omitempty"`
	CompanyName       string                    `json:"companyName,omitempty"`
	Description       string                    `json:"description,omitempty"`
	CountryCode       string                    `json:"countryCode,omitempty"`
	CountryName       string                    `json:"countryName,omitempty"`
	ProductCategories []string                  `json:"productCategories,omitempty"`
	IsDisabled        bool                      `json:"isDisabled,omitempty"`
	ExcludedCountries []string                  `json:"excludedCountries,omitempty"`
	ContactEmail      string                    `json:"contactEmail,omitempty"`
	ContactName       string                    `json:"contactName,omitempty"`
	ContactJobTitle   string                    `json:"contactJobTitle,omitempty"`
	WebsiteFallback   string                    `json:"websiteFallback,omitempty"`
	EnrichmentContact *entity.EnrichmentContact `json:"enrichmentContact,omitempty"`

	// SuppliedFields lists the top-level keys of the decoded body.
	SuppliedFields []string `json:"-"`
}

// ParseSaveRequest decodes a JSON save request. Forbidden keys are kept in
// SuppliedFields for the gate to reject; keys that are neither allowed nor
// forbidden fail with ErrUnknownSaveField.
func ParseSaveRequest(body []byte) (SaveRequest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return SaveRequest{}, eris.Wrap(ErrInvalidSaveRequest, err.Error())
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		_, allowed := allowedSaveFields[k]
		_, forbidden := forbiddenSaveFields[k]
		if !allowed && !forbidden {
			return SaveRequest{}, eris.Wrapf(ErrUnknownSaveField, "field %q", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var req SaveRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return SaveRequest{}, eris.Wrap(ErrInvalidSaveRequest, err.Error())
	}
	req.SuppliedFields = keys
	return req, nil
}

// DisallowedFields returns the forbidden keys present in the request.
func (r SaveRequest) DisallowedFields() []string {
	var out []string
	for _, k := range r.SuppliedFields {
		if _, ok := forbiddenSaveFields[k]; ok {
			out = append(out, k)
		}
	}
	return out
}
