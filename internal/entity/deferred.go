package entity

import "time"

// DeferredCreatePayload is the snapshot a later catalog-creation call consumes.
type DeferredCreatePayload struct {
	RecordID          string    `json:"recordId"`
	IndexEntryID      string    `json:"indexEntryId,omitempty"`
	Name              string    `json:"name"`
	CompanyName       string    `json:"companyName"`
	ProductType       []string  `json:"productType"`
	CountryCode       string    `json:"countryCode"`
	CountryName       string    `json:"countryName"`
	Website           string    `json:"website"`
	ContactEmail      string    `json:"contactEmail"`
	ContactName       string    `json:"contactName,omitempty"`
	ContactJobTitle   string    `json:"contactJobTitle,omitempty"`
	ExcludedCountries []string  `json:"excludedCountries,omitempty"`
	IsDisabled        bool      `json:"isDisabled"`
	LogoURL           string    `json:"logoUrl,omitempty"`
	SavedAt           time.Time `json:"savedAt"`
}

// Clone returns a deep copy.
func (p DeferredCreatePayload) Clone() DeferredCreatePayload {
	out := p
	out.ProductType = cloneStrings(p.ProductType)
	out.ExcludedCountries = cloneStrings(p.ExcludedCountries)
	return out
}
