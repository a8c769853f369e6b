package entity

import (
	"encoding/json"
	"time"
)

// Catalog is a catalog entry attached to a brand record.
type Catalog struct {
	Name        string `json:"name"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

// EnrichmentContact is a person found by a third-party contact discovery service.
type EnrichmentContact struct {
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	JobTitle string `json:"jobTitle,omitempty"`
	Source   string `json:"source,omitempty"`
}

// BrandRecord is the resolved record proposed for persistence.
type BrandRecord struct {
	ID                string              `json:"id,omitempty"`
	SessionID         string              `json:"sessionId"`
	SourceURL         string              `json:"sourceUrl"`
	Name              string              `json:"name"`
	CompanyName       string              `json:"companyName"`
	Description       string              `json:"description,omitempty"`
	Phone             string              `json:"phone,omitempty"`
	Email             string              `json:"email,omitempty"`
	ContactEmail      string              `json:"contactEmail,omitempty"`
	ContactName       string              `json:"contactName,omitempty"`
	ContactJobTitle   string              `json:"contactJobTitle,omitempty"`
	Street            string              `json:"street,omitempty"`
	City              string              `json:"city,omitempty"`
	Zip               string              `json:"zip,omitempty"`
	Lat               string              `json:"lat,omitempty"`
	Lng               string              `json:"lng,omitempty"`
	Website           string              `json:"website,omitempty"`
	Facebook          string              `json:"facebook,omitempty"`
	Instagram         string              `json:"instagram,omitempty"`
	Pinterest         string              `json:"pinterest,omitempty"`
	LogoURL           string              `json:"logoUrl,omitempty"`
	HeaderImageURL    string              `json:"headerImageUrl,omitempty"`
	AboutImageURL     string              `json:"aboutImageUrl,omitempty"`
	Distributors      []ParsedDistributor `json:"distributors,omitempty"`
	Catalogs          []Catalog           `json:"catalogs,omitempty"`
	CountryCode       string              `json:"countryCode,omitempty"`
	CountryName       string              `json:"countryName,omitempty"`
	ProductCategories []string            `json:"productCategories,omitempty"`
	ExcludedCountries []string            `json:"excludedCountries,omitempty"`
	IsDisabled        bool                `json:"isDisabled"`
	Status            string              `json:"status,omitempty"`
	CatalogID         string              `json:"catalogId,omitempty"`
	CreatedAt         time.Time           `json:"createdAt,omitempty"`
}

// Brand record statuses as kept in the document store.
const (
	RecordStatusActive   = "active"
	RecordStatusCreated  = "created"
	RecordStatusArchived = "archived"
)

// ContentBlock is one ordered child block of a stored brand record.
type ContentBlock struct {
	Kind  string   `json:"kind" bson:"kind"`
	Title string   `json:"title,omitempty" bson:"title,omitempty"`
	Text  string   `json:"text,omitempty" bson:"text,omitempty"`
	Items []string `json:"items,omitempty" bson:"items,omitempty"`
}

// RecordFilter narrows a document store query. Empty fields do not filter.
type RecordFilter struct {
	SourceURL string
	Status    string
	Limit     int
}

// RecordFromProperties rebuilds a record from the JSON encoding of its
// stored property set.
func RecordFromProperties(id string, props []byte) (*BrandRecord, error) {
	var rec BrandRecord
	if err := json.Unmarshal(props, &rec); err != nil {
		return nil, err
	}
	rec.ID = id
	return &rec, nil
}
