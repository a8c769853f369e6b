package extractor

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// jsEscape renders a JavaScript unicode escape such as the one used for "/".
func jsEscape(hex string) string {
	return `\` + "u" + hex
}

// structuralEscapes are safe to collapse on a whole document: they never
// change where a quoted token starts or ends.
var structuralEscapes = strings.NewReplacer(
	jsEscape("002F"), "/", jsEscape("002f"), "/", `\/`, "/",
	jsEscape("003A"), ":", jsEscape("003a"), ":",
	jsEscape("0026"), "&", `&amp;`, "&",
)

var valueEscapes = strings.NewReplacer(
	jsEscape("002F"), "/", jsEscape("002f"), "/", `\/`, "/",
	jsEscape("003A"), ":", jsEscape("003a"), ":",
	jsEscape("0026"), "&", `&amp;`, "&",
	jsEscape("0022"), `"`, `\"`, `"`, `&quot;`, `"`,
	`\\`, `\`,
)

// normalize collapses structural escapes in a raw document.
func normalize(raw string) string {
	return structuralEscapes.Replace(raw)
}

// decodeValue collapses every supported escape in a captured value and trims it.
func decodeValue(v string) string {
	return strings.TrimSpace(valueEscapes.Replace(v))
}

// quotedValue matches a double-quoted token, honouring backslash escapes.
const quotedValue = `"((?:[^"\\]|\\.)*)"`

// keyPrefix anchors a key so that `phone` does not match inside `smartphone`.
const keyPrefix = `(?:^|[{,\s"(\[])`

func keyPattern(keys ...string) string {
	return keyPrefix + `(?:` + strings.Join(keys, "|") + `)"?\s*:\s*`
}

func mustKeyQuoted(keys ...string) *regexp.Regexp {
	return regexp.MustCompile(keyPattern(keys...) + quotedValue)
}

func mustKeyBare(keys ...string) *regexp.Regexp {
	return regexp.MustCompile(keyPattern(keys...) + `([^,}\]"\s][^,}\]"]*)`)
}

// firstSubmatch returns the decoded first capture group of re in s.
func firstSubmatch(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return "", false
	}
	v := decodeValue(m[1])
	return v, v != ""
}

// window returns s[from:to] clamped to s and widened to rune boundaries.
func window(s string, from, to int) string {
	if from < 0 {
		from = 0
	}
	if from > len(s) {
		from = len(s)
	}
	if to > len(s) {
		to = len(s)
	}
	for from > 0 && from < len(s) && !utf8.RuneStart(s[from]) {
		from--
	}
	for to < len(s) && !utf8.RuneStart(s[to]) {
		to++
	}
	if from >= to {
		return ""
	}
	return s[from:to]
}

func stripQuery(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		return u[:i]
	}
	return u
}
