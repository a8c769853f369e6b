// Package validation diffs a proposed brand record against the facts scraped
// from its source page and classifies every discrepancy by severity.
package validation

import (
	"fmt"

	"github.com/user/brand-ingest/internal/entity"
)

// GroundTruth is what the scrape established about a brand. The cached lists
// come from the auxiliary cache and replace the live ones when they are longer.
type GroundTruth struct {
	Contact            entity.ContactDetails
	Distributors       []entity.ParsedDistributor
	CachedDistributors []entity.ParsedDistributor
	CatalogLinks       []entity.ParsedCatalogLink
	CachedCatalogLinks []entity.ParsedCatalogLink
	Images             entity.ExtractedImageURLs
	Markdown           string
	FallbackImage      string
}

// AuthoritativeDistributors returns the richer of the live and cached lists.
func (gt GroundTruth) AuthoritativeDistributors() []entity.ParsedDistributor {
	if len(gt.CachedDistributors) > len(gt.Distributors) {
		return gt.CachedDistributors
	}
	return gt.Distributors
}

// AuthoritativeCatalogLinks returns the richer of the live and cached lists.
func (gt GroundTruth) AuthoritativeCatalogLinks() []entity.ParsedCatalogLink {
	if len(gt.CachedCatalogLinks) > len(gt.CatalogLinks) {
		return gt.CachedCatalogLinks
	}
	return gt.CatalogLinks
}

// Check is one independent validation rule.
type Check func(gt GroundTruth, rec entity.BrandRecord) []entity.ValidationIssue

// DefaultChecks run in this order on every validation.
var DefaultChecks = []Check{
	CheckContactPresence,
	CheckHeaderFallback,
	CheckImages,
	CheckDistributors,
	CheckMarkdownContent,
}

// Validate runs DefaultChecks.
func Validate(gt GroundTruth, rec entity.BrandRecord) entity.ValidationResult {
	return Run(gt, rec, DefaultChecks...)
}

// Run concatenates the issues of the given checks and tallies them.
func Run(gt GroundTruth, rec entity.BrandRecord, checks ...Check) entity.ValidationResult {
	res := entity.ValidationResult{Issues: []entity.ValidationIssue{}}
	for _, check := range checks {
		res.Issues = append(res.Issues, check(gt, rec)...)
	}
	for _, issue := range res.Issues {
		switch issue.Severity {
		case entity.SeverityError:
			res.ErrorCount++
		case entity.SeverityWarning:
			res.WarningCount++
		}
	}
	res.Valid = res.ErrorCount == 0
	res.Summary = summarize(res.ErrorCount, res.WarningCount)
	return res
}

func summarize(errs, warns int) string {
	if errs == 0 && warns == 0 {
		return "All validation checks passed."
	}
	if errs == 0 {
		return fmt.Sprintf("Validation passed with %s.", plural(warns, "warning"))
	}
	return fmt.Sprintf("Validation failed with %s and %s.", plural(errs, "error"), plural(warns, "warning"))
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func issue(field string, sev entity.Severity, msg, expected, received string) entity.ValidationIssue {
	return entity.ValidationIssue{
		Field:    field,
		Severity: sev,
		Message:  msg,
		Expected: expected,
		Received: received,
	}
}
