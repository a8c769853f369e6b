package entity

// ContactDetails holds contact facts recovered from a brand page. An empty
// string means the extractor found no plausible value.
type ContactDetails struct {
	Street          string `json:"street,omitempty"`
	City            string `json:"city,omitempty"`
	Zip             string `json:"zip,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Email           string `json:"email,omitempty"`
	Website         string `json:"website,omitempty"`
	Facebook        string `json:"facebook,omitempty"`
	Instagram       string `json:"instagram,omitempty"`
	Pinterest       string `json:"pinterest,omitempty"`
	Lat             string `json:"lat,omitempty"`
	Lng             string `json:"lng,omitempty"`
	ContactName     string `json:"contactName,omitempty"`
	ContactJobTitle string `json:"contactJobTitle,omitempty"`
}

// IsEmpty reports whether no field was found.
func (c ContactDetails) IsEmpty() bool {
	return c == ContactDetails{}
}

// ParsedDistributor is one distributor entry of a brand.
type ParsedDistributor struct {
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Website string `json:"website,omitempty"`
}

// ParsedCatalogLink is a downloadable catalog found in the page links.
type ParsedCatalogLink struct {
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
}

// ExtractedImageURLs are the brand images found on a page.
type ExtractedImageURLs struct {
	LogoURL        string `json:"logoUrl,omitempty"`
	HeaderImageURL string `json:"headerImageUrl,omitempty"`
	AboutImageURL  string `json:"aboutImageUrl,omitempty"`
}

// CloneDistributors returns a copy of the slice.
func CloneDistributors(in []ParsedDistributor) []ParsedDistributor {
	if in == nil {
		return nil
	}
	out := make([]ParsedDistributor, len(in))
	copy(out, in)
	return out
}

// CloneCatalogLinks returns a copy of the slice.
func CloneCatalogLinks(in []ParsedCatalogLink) []ParsedCatalogLink {
	if in == nil {
		return nil
	}
	out := make([]ParsedCatalogLink, len(in))
	copy(out, in)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
