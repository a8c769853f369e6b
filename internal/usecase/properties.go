package usecase

import (
	"fmt"
	"strings"

	"github.com/user/brand-ingest/internal/entity"
)

// Content block kinds written to the record store.
const (
	BlockParagraph = "paragraph"
	BlockList      = "list"
)

// BuildProperties flattens a resolved record into the property set stored
// with it. Keys match the record's JSON names so stores can decode them back.
func BuildProperties(rec entity.BrandRecord) map[string]any {
	props := map[string]any{
		"sourceUrl":  rec.SourceURL,
		"isDisabled": rec.IsDisabled,
	}
	strs := map[string]string{
		"sessionId":       rec.SessionID,
		"name":            rec.Name,
		"companyName":     rec.CompanyName,
		"phone":           rec.Phone,
		"email":           rec.Email,
		"contactEmail":    rec.ContactEmail,
		"contactName":     rec.ContactName,
		"contactJobTitle": rec.ContactJobTitle,
		"street":          rec.Street,
		"city":            rec.City,
		"zip":             rec.Zip,
		"lat":             rec.Lat,
		"lng":             rec.Lng,
		"website":         rec.Website,
		"facebook":        rec.Facebook,
		"instagram":       rec.Instagram,
		"pinterest":       rec.Pinterest,
		"logoUrl":         rec.LogoURL,
		"headerImageUrl":  rec.HeaderImageURL,
		"aboutImageUrl":   rec.AboutImageURL,
		"countryCode":     rec.CountryCode,
		"countryName":     rec.CountryName,
		"status":          rec.Status,
		"catalogId":       rec.CatalogID,
	}
	for k, v := range strs {
		if v != "" {
			props[k] = v
		}
	}
	if len(rec.ProductCategories) > 0 {
		props["productCategories"] = rec.ProductCategories
	}
	if len(rec.ExcludedCountries) > 0 {
		props["excludedCountries"] = rec.ExcludedCountries
	}
	if d := strings.TrimSpace(rec.Description); d != "" {
		props["description"] = d
	}
	// Blocks hold the rendered lists; the structured ones stay with the properties.
	if len(rec.Distributors) > 0 {
		props["distributors"] = entity.CloneDistributors(rec.Distributors)
	}
	if len(rec.Catalogs) > 0 {
		props["catalogs"] = append([]entity.Catalog(nil), rec.Catalogs...)
	}
	if !rec.CreatedAt.IsZero() {
		props["createdAt"] = rec.CreatedAt
	}
	return props
}

// BuildBlocks renders the long-form parts of a record as ordered blocks.
func BuildBlocks(rec entity.BrandRecord) []entity.ContentBlock {
	var blocks []entity.ContentBlock
	if d := strings.TrimSpace(rec.Description); d != "" {
		blocks = append(blocks, entity.ContentBlock{Kind: BlockParagraph, Title: "About", Text: d})
	}
	if len(rec.Distributors) > 0 {
		items := make([]string, 0, len(rec.Distributors))
		for _, d := range rec.Distributors {
			items = append(items, distributorLine(d))
		}
		blocks = append(blocks, entity.ContentBlock{Kind: BlockList, Title: "Distributors", Items: items})
	}
	if len(rec.Catalogs) > 0 {
		items := make([]string, 0, len(rec.Catalogs))
		for _, c := range rec.Catalogs {
			if c.DownloadURL == "" {
				items = append(items, c.Name)
				continue
			}
			items = append(items, fmt.Sprintf("%s: %s", c.Name, c.DownloadURL))
		}
		blocks = append(blocks, entity.ContentBlock{Kind: BlockList, Title: "Catalogs", Items: items})
	}
	return blocks
}

func distributorLine(d entity.ParsedDistributor) string {
	parts := []string{d.Name}
	if d.Type != "" {
		parts[0] = fmt.Sprintf("%s (%s)", d.Name, d.Type)
	}
	addr := strings.TrimSpace(strings.Join(nonEmpty([]string{d.Street, strings.TrimSpace(d.Zip + " " + d.City)}), ", "))
	for _, v := range []string{addr, d.Phone, d.Email, d.Website} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " | ")
}

// catalogsFromLinks turns scraped catalog links into record catalogs.
func catalogsFromLinks(links []entity.ParsedCatalogLink) []entity.Catalog {
	if len(links) == 0 {
		return nil
	}
	out := make([]entity.Catalog, 0, len(links))
	for _, l := range links {
		name := l.Filename
		if name == "" {
			name = l.URL
		}
		out = append(out, entity.Catalog{Name: name, DownloadURL: l.URL})
	}
	return out
}
