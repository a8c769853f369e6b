// Package extractor recovers structured brand facts from a scraped page.
//
// Brand pages ship their data inside an undocumented hydration payload that
// mixes JavaScript object literals, JSON fragments and escaped URLs. Nothing
// here parses that format. Each fact is found by a chain of heuristics, tried
// in a fixed order, and every fact is optional: a heuristic that finds
// nothing leaves the field empty instead of failing. Extraction is a pure
// function of its input.
package extractor

import "github.com/user/brand-ingest/internal/entity"

// Result holds the fragments recovered from one fetch.
type Result struct {
	ContactDetails  entity.ContactDetails
	Distributors    []entity.ParsedDistributor
	CatalogLinks    []entity.ParsedCatalogLink
	ImageURLs       entity.ExtractedImageURLs
	ContactStrategy string
}

// Extract runs every extractor over a fetch result.
func Extract(f entity.FetchResult) Result {
	raw := f.Raw()
	contact, strategy := extractContact(raw)
	return Result{
		ContactDetails:  contact,
		Distributors:    ExtractDistributors(raw),
		CatalogLinks:    ExtractCatalogLinks(f.Links),
		ImageURLs:       ExtractImageURLs(raw, f.Metadata),
		ContactStrategy: strategy,
	}
}
