package aamva

import (
	"regexp"
	"strings"
)

var (
	lineEndings = strings.NewReplacer(
		"\r\n", "\n",
		"\r", "\n",
		"\u2028", "\n",
		"\u2029", "\n",
		"\u0085", "\n",
	)
	controlChars          = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	spaceBeforeDesignator = regexp.MustCompile(`[\t \x{00A0}\x{200B}]+([DZ][A-Z]{2})`)
	newlineRuns           = regexp.MustCompile(`\n+`)
)

// NormalizeInput canonicalizes a raw payload: every line-ending variant and stray
// control character becomes a newline, whitespace directly before a designator-looking
// token becomes a field boundary, and newline runs collapse to one.
func NormalizeInput(raw string) string {
	s := lineEndings.Replace(raw)
	s = controlChars.ReplaceAllString(s, "\n")
	s = spaceBeforeDesignator.ReplaceAllString(s, "\n${1}")
	return newlineRuns.ReplaceAllString(s, "\n")
}

// LooksLikePayload reports whether s contains any indicator of an AAMVA-style payload.
// Matching is case-insensitive.
func LooksLikePayload(s string) bool {
	upper := strings.ToUpper(s)
	for _, ind := range indicators {
		if strings.Contains(upper, ind) {
			return true
		}
	}
	return false
}
