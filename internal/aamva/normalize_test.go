package aamva

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"plain", "JOHN", "JOHN"},
		{"collapse whitespace", "  JOHN \t  PAUL  ", "JOHN PAUL"},
		{"trailing periods", "RIVERS..", "RIVERS"},
		{"trailing period and spaces", "RIVERS. . ", "RIVERS"},
		{"interior period kept", "ST. JOHN", "ST. JOHN"},
		{"nbsp and zero width", "JOHN\u00a0PAUL\u200bDOE", "JOHN PAUL DOE"},
		{"line separators", "A\u2028B\u2029C\u0085D", "A B C D"},
		{"control characters", "A\x01B\x7fC", "ABC"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeText(tt.value)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeText(got), "not idempotent")
		})
	}
}

func TestNormalizeZip(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"146092341", "14609-2341"},
		{"14609", "14609"},
		{"14609-2341", "14609-2341"},
		{"144500000. ", "14450-0000"},
		{"1460923410", "1460923410"},
		{"A46092341", "A46092341"},
		{"K1A 0B1", "K1A 0B1"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeZip(tt.value))
		})
	}
}

func TestNormalizeState(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"NY", "NY"},
		{"ny", "NY"},
		{"NYDAK146092341", "NY"},
		{"NYDCGUSA", "NY"},
		{"NYZNA", "NY"},
		{"NYD8", "NY"},
		{"ONT", "ONT"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeState(tt.value))
		})
	}
}

func TestNormalizeCountry(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"USA", "USA"},
		{"usa", "USA"},
		{"USADDEU", "USA"},
		{"CANDCF", "CAN"},
		{"USDAQ", "US"},
		{"US", "US"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCountry(tt.value))
		})
	}
}

func TestNormalizeLicenseNumber(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"plain", "S1234567", "S1234567"},
		{"lower case", "s1234567", "S1234567"},
		{"bleed with digits", "123456789DCF0001", "123456789"},
		{"bleed with at sign", "123456789ZNBA@B", "123456789"},
		{"bleed with designator", "123456789DAUDCGUSA", "123456789"},
		{"short suffix kept", "123DCFAB", "123DCFAB"},
		{"letters only suffix kept", "X1DAYABCD", "X1DAYABCD"},
		{"space before bleed", "A123 DDB03072022", "A123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLicenseNumber(tt.value))
		})
	}
}
