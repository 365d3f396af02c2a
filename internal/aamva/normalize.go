package aamva

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var (
	// invisibleSpaces maps format/separator characters scanners emit to plain spaces.
	invisibleSpaces = runes.Map(func(r rune) rune {
		switch r {
		case '\u00a0', '\u200b', '\u2028', '\u2029', '\u0085':
			return ' '
		}
		return r
	})
	controlRunes = runes.Remove(runes.Predicate(func(r rune) bool {
		return r < 0x20 || r == 0x7f
	}))
)

// NormalizeText is the generic value cleanup: invisible spacing becomes a space,
// control characters are dropped, whitespace runs collapse, and surrounding
// whitespace and trailing periods are removed. It is idempotent.
func NormalizeText(value string) string {
	if value == "" {
		return ""
	}
	s, _, err := transform.String(invisibleSpaces, value)
	if err != nil {
		s = value
	}
	if stripped, _, err := transform.String(controlRunes, s); err == nil {
		s = stripped
	}
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimRight(s, ". ")
}

// NormalizeZip rewrites a bare nine-digit ZIP as ZIP+4. Anything else passes through.
func NormalizeZip(value string) string {
	zip := NormalizeText(value)
	if len(zip) != 9 {
		return zip
	}
	for i := 0; i < len(zip); i++ {
		if !isDigit(zip[i]) {
			return zip
		}
	}
	return zip[:5] + "-" + zip[5:]
}

// NormalizeState upper-cases a state/province code and drops a following field that
// bled into it (NYDAK... becomes NY).
func NormalizeState(value string) string {
	state := strings.ToUpper(NormalizeText(value))
	if len(state) <= 2 || !isUpper(state[0]) || !isUpper(state[1]) {
		return state
	}
	rest := state[2:]
	for _, prefix := range statePrefixes {
		if strings.HasPrefix(rest, prefix) {
			return state[:2]
		}
	}
	if len(rest) >= 2 && rest[0] == 'Z' && isUpper(rest[1]) {
		return state[:2]
	}
	return state
}

// NormalizeCountry upper-cases a country code and keeps only its leading two or three
// letters when a designator-looking token follows them directly.
func NormalizeCountry(value string) string {
	country := strings.ToUpper(NormalizeText(value))
	for _, n := range []int{3, 2} {
		if len(country) < n {
			continue
		}
		letters := true
		for i := 0; i < n; i++ {
			if !isUpper(country[i]) {
				letters = false
				break
			}
		}
		if letters && isDesignatorAt(country, n) {
			return country[:n]
		}
	}
	return country
}

// NormalizeLicenseNumber upper-cases a license number and truncates it before the first
// trailing designator whose suffix shows real field bleed: at least three characters
// containing a digit, an '@', or another designator-looking token.
func NormalizeLicenseNumber(value string) string {
	number := strings.ToUpper(NormalizeText(value))
	for _, code := range licenseTrailingCodes {
		pos := strings.Index(number, code)
		if pos < 0 {
			continue
		}
		suffix := number[pos+len(code):]
		if len(suffix) < 3 {
			continue
		}
		if !strings.ContainsAny(suffix, "0123456789@") && !containsDesignator(suffix) {
			continue
		}
		number = strings.TrimRight(number[:pos], " ")
		break
	}
	return number
}
