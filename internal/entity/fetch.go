package entity

import "time"

// PageMetadata is the subset of page metadata the extractor relies on.
type PageMetadata struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	OgImage     string `json:"ogImage,omitempty"`
	OgTitle     string `json:"ogTitle,omitempty"`
	SourceURL   string `json:"sourceURL,omitempty"`
	StatusCode  int    `json:"statusCode,omitempty"`
}

// FetchResult is the output of a single page fetch.
type FetchResult struct {
	URL            string
	Markdown       string
	HTML           string
	RawHTML        string
	Links          []string
	Metadata       PageMetadata
	FetchedAt      time.Time
	ResponseTimeMS int
}

// Raw returns the most complete serialization available for pattern matching.
func (f FetchResult) Raw() string {
	if f.RawHTML != "" {
		return f.RawHTML
	}
	return f.HTML
}
