package request

// SubmitIndexRequest queues a brand URL for scraping.
type SubmitIndexRequest struct {
	URL         string `json:"url"`
	ForceScrape bool   `json:"force_scrape"`
}

// ScrapeRequest asks for an immediate scrape of one page.
type ScrapeRequest struct {
	URL string `json:"url"`
}
