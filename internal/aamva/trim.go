package aamva

import (
	"strings"
	"unicode"
)

// TrimConcatenated cuts trailing text that belongs to the next field. It repeatedly
// looks for a known designator past index 0 and cuts at the earliest one that passes
// shouldTrimAt. An empty result means the field is absent.
func TrimConcatenated(value string) string {
	v := strings.TrimLeftFunc(value, unicode.IsSpace)
	for v != "" {
		pos := nextCut(v)
		if pos < 0 {
			break
		}
		v = strings.TrimRightFunc(v[:pos], unicode.IsSpace)
	}
	return v
}

func nextCut(v string) int {
	for pos := 1; pos+3 <= len(v); pos++ {
		code, ok := codeAt(v, pos)
		if !ok {
			continue
		}
		if shouldTrimAt(v, pos, code) {
			return pos
		}
	}
	return -1
}

// codeAt returns the highest-priority known code starting at pos.
func codeAt(v string, pos int) (string, bool) {
	rest := v[pos:]
	for _, code := range codesByPriority {
		if strings.HasPrefix(rest, code) {
			return code, true
		}
	}
	return "", false
}

func shouldTrimAt(v string, pos int, code string) bool {
	if forceTrimCodes[code] {
		return true
	}
	if code[:2] != reusedPrefix {
		return true
	}

	preceding := strings.TrimRightFunc(v[:pos], unicode.IsSpace)
	if preceding == "" {
		return false
	}
	// A code with nothing after it carries no field, so it ends a word (JORDAN, SUNDAY).
	if pos+len(code) >= len(v) {
		return false
	}
	for i := 0; i < len(preceding); i++ {
		if !isUpper(preceding[i]) && !isSpace(preceding[i]) {
			return true
		}
	}

	word := lastWord(preceding)
	if len(word) < minWordBeforeBleed {
		return false
	}
	for _, exc := range trimExceptions {
		if strings.HasSuffix(word, exc) {
			return false
		}
	}
	return true
}

// lastWord returns the text after the last whitespace in s.
func lastWord(s string) string {
	if i := strings.LastIndexFunc(s, unicode.IsSpace); i >= 0 {
		return s[i+1:]
	}
	return s
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f'
}
