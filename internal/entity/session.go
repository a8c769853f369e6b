package entity

import "time"

// ScrapeSession binds one brand scrape to the URL it was taken from.
type ScrapeSession struct {
	SessionID      string              `json:"sessionId"`
	SourceURL      string              `json:"sourceUrl"`
	CreatedAt      time.Time           `json:"createdAt"`
	ContactDetails ContactDetails      `json:"contactDetails"`
	Distributors   []ParsedDistributor `json:"distributors"`
	CatalogLinks   []ParsedCatalogLink `json:"catalogLinks"`
	ImageURLs      ExtractedImageURLs  `json:"imageUrls"`
	RawMarkdown    string              `json:"rawMarkdown,omitempty"`
	RawLinks       []string            `json:"rawLinks,omitempty"`
	RawMetadata    *PageMetadata       `json:"rawMetadata,omitempty"`
}

// Clone returns a deep copy.
func (s ScrapeSession) Clone() ScrapeSession {
	out := s
	out.Distributors = CloneDistributors(s.Distributors)
	out.CatalogLinks = CloneCatalogLinks(s.CatalogLinks)
	out.RawLinks = cloneStrings(s.RawLinks)
	if s.RawMetadata != nil {
		meta := *s.RawMetadata
		out.RawMetadata = &meta
	}
	return out
}

// ProductSession is the product-page counterpart of ScrapeSession.
type ProductSession struct {
	SessionID    string              `json:"sessionId"`
	SourceURL    string              `json:"sourceUrl"`
	CreatedAt    time.Time           `json:"createdAt"`
	Title        string              `json:"title,omitempty"`
	ImageURLs    ExtractedImageURLs  `json:"imageUrls"`
	CatalogLinks []ParsedCatalogLink `json:"catalogLinks"`
	RawMarkdown  string              `json:"rawMarkdown,omitempty"`
}

// Clone returns a deep copy.
func (p ProductSession) Clone() ProductSession {
	out := p
	out.CatalogLinks = CloneCatalogLinks(p.CatalogLinks)
	return out
}
