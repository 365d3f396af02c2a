package aamva

import (
	"fmt"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

// Two-digit years up to twoDigitYearPivot belong to the 2000s, the rest to the 1900s.
const twoDigitYearPivot = 30

// TwoDigitYear expands a two-digit year: 00–30 map to 2000–2030, 31–99 to 1931–1999.
// Values outside 0–99 are returned unchanged.
func TwoDigitYear(yy int) int {
	switch {
	case yy >= 0 && yy <= twoDigitYearPivot:
		return 2000 + yy
	case yy > twoDigitYearPivot && yy <= 99:
		return 1900 + yy
	}
	return yy
}

// dateLayout is one digit grouping: offsets of year, month and day within the digits.
type dateLayout struct {
	year, month, day int
	yearLen          int
}

var (
	eightDigitLayouts = []dateLayout{
		{year: 0, month: 4, day: 6, yearLen: 4}, // YYYYMMDD
		{year: 4, month: 0, day: 2, yearLen: 4}, // MMDDYYYY
		{year: 4, month: 2, day: 0, yearLen: 4}, // DDMMYYYY
	}
	sixDigitLayouts = []dateLayout{
		{year: 0, month: 2, day: 4, yearLen: 2}, // YYMMDD
		{year: 4, month: 0, day: 2, yearLen: 2}, // MMDDYY
		{year: 2, month: 0, day: 4, yearLen: 2}, // MMYYDD
	}
)

// NormalizeDOB turns a raw date of birth into YYYY-MM-DD. Eight or six digits are
// reconstructed by trying each grouping in order. A value that fits no grouping goes
// through a natural-language date parser. Unparseable input yields "".
func NormalizeDOB(raw string) string {
	if raw == "" {
		return ""
	}
	if iso := dobFromDigits(raw); iso != "" {
		return iso
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func dobFromDigits(raw string) string {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if isDigit(raw[i]) {
			digits = append(digits, raw[i])
		}
	}

	var layouts []dateLayout
	switch len(digits) {
	case 8:
		layouts = eightDigitLayouts
	case 6:
		layouts = sixDigitLayouts
	default:
		return ""
	}

	s := string(digits)
	for _, l := range layouts {
		y, _ := strconv.Atoi(s[l.year : l.year+l.yearLen])
		m, _ := strconv.Atoi(s[l.month : l.month+2])
		d, _ := strconv.Atoi(s[l.day : l.day+2])
		if l.yearLen == 2 {
			y = TwoDigitYear(y)
		}
		if validDate(y, m, d) {
			return fmt.Sprintf("%04d-%02d-%02d", y, m, d)
		}
	}
	return ""
}

func validDate(y, m, d int) bool {
	if y <= 0 || m < 1 || m > 12 || d < 1 {
		return false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return t.Year() == y && int(t.Month()) == m && t.Day() == d
}
