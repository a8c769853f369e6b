package usecase

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// countryAliases maps codes people use that are not ISO 3166-1.
var countryAliases = map[string]string{
	"UK": "GB",
	"EL": "GR",
}

// NormalizeCountryCode upper-cases code and resolves common aliases.
func NormalizeCountryCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if alias, ok := countryAliases[code]; ok {
		return alias
	}
	return code
}

// CountryName returns the English name of an ISO 3166-1 alpha-2 code, or ""
// when the code does not name a country.
func CountryName(code string) string {
	code = NormalizeCountryCode(code)
	if len(code) != 2 {
		return ""
	}
	region, err := language.ParseRegion(code)
	if err != nil || !region.IsCountry() {
		return ""
	}
	return display.Regions(language.English).Name(region)
}
