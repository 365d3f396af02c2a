package aamva

import "strings"

// matchMode is one strategy for locating a designator's raw value.
type matchMode int

const (
	// matchLine finds the code at the start of a line; the value is the rest of the line.
	matchLine matchMode = iota
	// matchInlineStrict finds the code anywhere and stops at a newline or at a
	// designator-looking token not preceded by an uppercase letter.
	matchInlineStrict
	// matchInlineLegacy is matchInlineStrict without the uppercase guard. It stops at
	// the first designator-looking token after at least one value byte.
	matchInlineLegacy
)

var matchModes = []matchMode{matchLine, matchInlineStrict, matchInlineLegacy}

// extractField returns the first non-empty value for codes. Earlier codes win; for
// each code the match modes are tried in order.
func extractField(buf string, codes []string) string {
	for _, code := range codes {
		for _, mode := range matchModes {
			raw, ok := findRaw(buf, code, mode)
			if !ok {
				continue
			}
			if v := NormalizeText(TrimConcatenated(raw)); v != "" {
				return v
			}
		}
	}
	return ""
}

func findRaw(buf, code string, mode matchMode) (string, bool) {
	switch mode {
	case matchLine:
		return findAtLineStart(buf, code)
	case matchInlineStrict:
		return findInline(buf, code, true)
	case matchInlineLegacy:
		return findInline(buf, code, false)
	}
	return "", false
}

func findAtLineStart(buf, code string) (string, bool) {
	for _, line := range strings.Split(buf, "\n") {
		rest := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(rest, code) {
			return rest[len(code):], true
		}
	}
	return "", false
}

func findInline(buf, code string, guarded bool) (string, bool) {
	idx := strings.Index(buf, code)
	if idx < 0 {
		return "", false
	}
	start := idx + len(code)
	end := start
	for ; end < len(buf); end++ {
		if buf[end] == '\n' {
			break
		}
		if !isDesignatorAt(buf, end) {
			continue
		}
		if guarded {
			if !isUpper(buf[end-1]) {
				break
			}
		} else if end > start {
			break
		}
	}
	return buf[start:end], true
}
