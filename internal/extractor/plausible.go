package extractor

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsPlausibleEmail reports whether s has at least one character before an @
// and a domain holding a dot that is not the domain's last character.
func IsPlausibleEmail(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.Index(s, "@")
	if at < 1 {
		return false
	}
	domain := s[at+1:]
	dot := strings.Index(domain, ".")
	return dot >= 0 && !strings.HasSuffix(domain, ".")
}

// IsPlausibleContactText reports whether s can be a person name or job title:
// two or more characters, no braces or brackets, not a URL, not an email and
// not purely numeric.
func IsPlausibleContactText(s string) bool {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < 2 {
		return false
	}
	if strings.ContainsAny(s, "{}[]") {
		return false
	}
	if looksLikeURL(s) || IsPlausibleEmail(s) {
		return false
	}
	return !isNumeric(s)
}

func looksLikeURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "www.")
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// fieldLabels are keys of the hydration format that show up as plain tokens.
var fieldLabels = map[string]struct{}{
	"phone": {}, "telephone": {}, "tel": {}, "fax": {}, "mobile": {},
	"email": {}, "e-mail": {}, "mail": {},
	"street": {}, "address": {}, "city": {}, "zip": {}, "postalcode": {}, "postcode": {},
	"country": {}, "website": {}, "homepage": {}, "url": {},
	"facebook": {}, "instagram": {}, "pinterest": {},
	"lat": {}, "lng": {}, "latitude": {}, "longitude": {},
	"contactname": {}, "contactjobtitle": {}, "jobtitle": {},
	"name": {}, "type": {}, "distributortype": {}, "distributors": {}, "logo": {}, "id": {},
}

// scriptLiterals are JavaScript literals a hydration payload writes in place of a value.
var scriptLiterals = map[string]struct{}{
	"null": {}, "undefined": {}, "true": {}, "false": {}, "nan": {},
}

func isFieldLabel(s string) bool {
	_, ok := fieldLabels[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

func isScriptLiteral(s string) bool {
	_, ok := scriptLiterals[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

var (
	rePhoneShape = regexp.MustCompile(`^\+?[0-9(][0-9 ()\-./]{4,}[0-9]$`)
	reZipShape   = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 \-]{1,10}$`)
	reCoordinate = regexp.MustCompile(`^-?\d{1,3}(?:\.\d+)?$`)
)

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func isPlausiblePhone(s string) bool {
	return rePhoneShape.MatchString(s) && countDigits(s) >= 6
}

func isPlausibleText(s string) bool {
	return IsPlausibleContactText(s) && !isFieldLabel(s) && !isScriptLiteral(s)
}

func isPlausibleZip(s string) bool {
	return reZipShape.MatchString(s) && !isFieldLabel(s) && !isScriptLiteral(s)
}

func isCoordinate(s string) bool {
	return reCoordinate.MatchString(s)
}

func isHTTPURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func isSocialURL(host string) func(string) bool {
	return func(s string) bool {
		return isHTTPURL(s) && strings.Contains(strings.ToLower(s), host)
	}
}
