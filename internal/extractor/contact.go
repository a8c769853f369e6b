package extractor

import (
	"regexp"
	"strings"

	"github.com/user/brand-ingest/internal/entity"
)

const (
	// maxContactBlock bounds a boundary-delimited block; longer matches mean the
	// boundaries belong to unrelated parts of the document.
	maxContactBlock = 8000
	regionBefore    = 200
	regionAfter     = 2500
)

// blockStrategy finds the region of a document holding the contact fields.
type blockStrategy struct {
	name string
	find func(doc string) (string, bool)
}

var (
	rePhoneStreetDistributors = regexp.MustCompile(`(?s)` + keyPattern("phone") + `.{0,1000}?` + keyPattern("street") + `.*?` + keyPattern("distributors"))
	reStreetDistributors      = regexp.MustCompile(`(?s)` + keyPattern("street") + `.*?` + keyPattern("distributors"))
	rePhoneDistributors       = regexp.MustCompile(`(?s)` + keyPattern("phone") + `.*?` + keyPattern("distributors"))
	reEmailDistributors       = regexp.MustCompile(`(?s)` + keyPattern("e-?mail") + `.*?` + keyPattern("distributors"))
	rePhoneProducts           = regexp.MustCompile(`(?s)` + keyPattern("phone") + `.*?` + keyPattern("products", "brands"))

	reRegionAnchor = regexp.MustCompile(keyPattern("phone", "street", "e-?mail", "zip", "homepage"))
)

// contactBlockStrategies run in order; the first block found wins.
var contactBlockStrategies = []blockStrategy{
	{name: "phone-street-distributors", find: boundedBlock(rePhoneStreetDistributors)},
	{name: "street-distributors", find: boundedBlock(reStreetDistributors)},
	{name: "phone-distributors", find: boundedBlock(rePhoneDistributors)},
	{name: "email-distributors", find: boundedBlock(reEmailDistributors)},
	{name: "phone-products", find: boundedBlock(rePhoneProducts)},
	{name: "likely-region", find: likelyRegion},
}

func boundedBlock(re *regexp.Regexp) func(string) (string, bool) {
	return func(doc string) (string, bool) {
		loc := re.FindStringIndex(doc)
		if loc == nil || loc[1]-loc[0] > maxContactBlock {
			return "", false
		}
		return doc[loc[0]:loc[1]], true
	}
}

// likelyRegion takes a fixed window around the first contact anchor.
func likelyRegion(doc string) (string, bool) {
	loc := reRegionAnchor.FindStringIndex(doc)
	if loc == nil {
		return "", false
	}
	region := window(doc, loc[0]-regionBefore, loc[0]+regionAfter)
	return region, region != ""
}

// findContactBlock returns the contact block of a normalized document and the
// name of the strategy that found it.
func findContactBlock(doc string) (string, string) {
	for _, s := range contactBlockStrategies {
		if block, ok := s.find(doc); ok {
			return block, s.name
		}
	}
	return "", ""
}

// contactField describes one field of ContactDetails for the loose pass.
type contactField struct {
	name   string
	ref    func(*entity.ContactDetails) *string
	accept func(string) bool
	quoted *regexp.Regexp
	bare   *regexp.Regexp
}

func newContactField(name string, ref func(*entity.ContactDetails) *string, accept func(string) bool, keys ...string) contactField {
	return contactField{
		name:   name,
		ref:    ref,
		accept: accept,
		quoted: mustKeyQuoted(keys...),
		bare:   mustKeyBare(keys...),
	}
}

var contactFields = []contactField{
	newContactField("phone", func(c *entity.ContactDetails) *string { return &c.Phone }, isPlausiblePhone, "phone", "telephone", "tel"),
	newContactField("email", func(c *entity.ContactDetails) *string { return &c.Email }, IsPlausibleEmail, "e-?mail"),
	newContactField("street", func(c *entity.ContactDetails) *string { return &c.Street }, isPlausibleText, "street", "address"),
	newContactField("city", func(c *entity.ContactDetails) *string { return &c.City }, isPlausibleText, "city"),
	newContactField("zip", func(c *entity.ContactDetails) *string { return &c.Zip }, isPlausibleZip, "zip", "postalCode", "postcode"),
	newContactField("website", func(c *entity.ContactDetails) *string { return &c.Website }, isHTTPURL, "homepage", "website"),
	newContactField("facebook", func(c *entity.ContactDetails) *string { return &c.Facebook }, isSocialURL("facebook."), "facebook"),
	newContactField("instagram", func(c *entity.ContactDetails) *string { return &c.Instagram }, isSocialURL("instagram."), "instagram"),
	newContactField("pinterest", func(c *entity.ContactDetails) *string { return &c.Pinterest }, isSocialURL("pinterest."), "pinterest"),
	newContactField("lat", func(c *entity.ContactDetails) *string { return &c.Lat }, isCoordinate, "lat", "latitude"),
	newContactField("lng", func(c *entity.ContactDetails) *string { return &c.Lng }, isCoordinate, "lng", "lon", "longitude"),
	newContactField("contactName", func(c *entity.ContactDetails) *string { return &c.ContactName }, isPlausibleText, "contactName", "contactPerson"),
	newContactField("contactJobTitle", func(c *entity.ContactDetails) *string { return &c.ContactJobTitle }, isPlausibleText, "contactJobTitle", "jobTitle"),
}

func fieldByName(name string) contactField {
	for _, f := range contactFields {
		if f.name == name {
			return f
		}
	}
	panic("extractor: unknown contact field " + name)
}

// set stores v in the named field when the field is empty and v is plausible.
func set(c *entity.ContactDetails, name, v string) {
	f := fieldByName(name)
	dst := f.ref(c)
	if *dst != "" {
		return
	}
	v = decodeValue(v)
	if v != "" && f.accept(v) {
		*dst = v
	}
}

var (
	reAddressTriple = regexp.MustCompile(keyPattern("street") + quotedValue +
		`\s*,\s*"?city"?\s*:\s*` + quotedValue +
		`\s*,\s*"?(?:zip|postalCode|postcode)"?\s*:\s*"?([A-Za-z0-9][A-Za-z0-9 \-]{1,10})"?`)
	rePhone      = regexp.MustCompile(keyPattern("phone", "telephone", "tel") + `"(\+?[0-9(][0-9 ()\-./]{4,}[0-9])"`)
	reEmailKey   = regexp.MustCompile(keyPattern("e-?mail") + `"([^"\s]+)"`)
	reEmailShape = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	reGeo        = regexp.MustCompile(keyPattern("lat", "latitude") + `"?(-?\d{1,3}(?:\.\d+)?)"?\s*,\s*"?(?:lng|lon|longitude)"?\s*:\s*"?(-?\d{1,3}(?:\.\d+)?)`)
	reHomepage   = regexp.MustCompile(keyPattern("homepage", "website") + `"(https?://[^"\s]+)"`)
	reFacebook   = regexp.MustCompile(`https?://(?:[a-z]{2,3}\.)?facebook\.com/[^"'\s,}\]\\]+`)
	reInstagram  = regexp.MustCompile(`https?://(?:www\.)?instagram\.com/[^"'\s,}\]\\]+`)
	rePinterest  = regexp.MustCompile(`https?://(?:[a-z]{2,3}\.)?pinterest\.[a-z.]{2,6}/[^"'\s,}\]\\]+`)
	reContact    = regexp.MustCompile(keyPattern("contactName", "contactPerson") + quotedValue)
	reJobTitle   = regexp.MustCompile(keyPattern("contactJobTitle", "jobTitle") + quotedValue)
)

// matchBlock applies the structured sub-patterns to a contact block.
func matchBlock(block string, c *entity.ContactDetails) {
	if m := reAddressTriple.FindStringSubmatch(block); m != nil {
		set(c, "street", m[1])
		set(c, "city", m[2])
		set(c, "zip", m[3])
	}
	if v, ok := firstSubmatch(rePhone, block); ok {
		set(c, "phone", v)
	}
	if v, ok := firstSubmatch(reEmailKey, block); ok && IsPlausibleEmail(v) {
		set(c, "email", v)
	} else if v := reEmailShape.FindString(block); v != "" {
		set(c, "email", v)
	}
	if m := reGeo.FindStringSubmatch(block); m != nil {
		set(c, "lat", m[1])
		set(c, "lng", m[2])
	}
	if v, ok := firstSubmatch(reHomepage, block); ok {
		set(c, "website", v)
	}
	set(c, "facebook", reFacebook.FindString(block))
	set(c, "instagram", reInstagram.FindString(block))
	set(c, "pinterest", rePinterest.FindString(block))
	if v, ok := firstSubmatch(reContact, block); ok {
		set(c, "contactName", v)
	}
	if v, ok := firstSubmatch(reJobTitle, block); ok {
		set(c, "contactJobTitle", v)
	}
}

// looseScan fills still-empty fields key by key. Every match of both shapes is
// tried so that a label sitting where a value should be is skipped.
func looseScan(scope string, c *entity.ContactDetails) {
	for _, f := range contactFields {
		dst := f.ref(c)
		if *dst != "" {
			continue
		}
		for _, re := range []*regexp.Regexp{f.quoted, f.bare} {
			for _, m := range re.FindAllStringSubmatch(scope, -1) {
				set(c, f.name, m[1])
				if *dst != "" {
					break
				}
			}
			if *dst != "" {
				break
			}
		}
	}
}

// ExtractContactDetails recovers contact details from a raw document.
func ExtractContactDetails(raw string) entity.ContactDetails {
	details, _ := extractContact(raw)
	return details
}

func extractContact(raw string) (entity.ContactDetails, string) {
	var details entity.ContactDetails
	if strings.TrimSpace(raw) == "" {
		return details, ""
	}

	doc := normalize(raw)
	block, strategy := findContactBlock(doc)
	if block != "" {
		matchBlock(block, &details)
		looseScan(block, &details)
	}
	if details.IsEmpty() {
		looseScan(doc, &details)
		if !details.IsEmpty() {
			strategy = "document-scan"
		}
	}
	return details, strategy
}
