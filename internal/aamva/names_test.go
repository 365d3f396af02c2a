package aamva

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitFullName(t *testing.T) {
	tests := []struct {
		name string
		full string
		want NameParts
	}{
		{"comma", "DOE,JOHN PAUL", NameParts{First: "JOHN", Middle: "PAUL", Last: "DOE"}},
		{"comma with spaces", "DOE , JOHN", NameParts{First: "JOHN", Last: "DOE"}},
		{"comma only last", "DOE,", NameParts{Last: "DOE"}},
		{"spaces", "JOHN PAUL MARK DOE", NameParts{First: "JOHN", Middle: "PAUL MARK", Last: "DOE"}},
		{"two tokens", "JOHN DOE", NameParts{First: "JOHN", Last: "DOE"}},
		{"single token", "CHER", NameParts{First: "CHER"}},
		{"empty", "  ", NameParts{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitFullName(tt.full))
		})
	}
}

func TestResolveNames(t *testing.T) {
	tests := []struct {
		name string
		buf  string
		want NameParts
	}{
		{
			name: "separate fields",
			buf:  "DCSDOE\nDACJOHN\nDADPAUL\n",
			want: NameParts{First: "JOHN", Middle: "PAUL", Last: "DOE"},
		},
		{
			name: "first carries middle",
			buf:  "DCSDOE\nDACJOHN PAUL\n",
			want: NameParts{First: "JOHN", Middle: "PAUL", Last: "DOE"},
		},
		{
			name: "last from alternate code",
			buf:  "DABDOE\nDACJOHN\n",
			want: NameParts{First: "JOHN", Last: "DOE"},
		},
		{
			name: "full name fills gaps only",
			buf:  "DACJANE\nDAASMITH,JOHN PAUL\n",
			want: NameParts{First: "JANE", Middle: "PAUL", Last: "SMITH"},
		},
		{
			name: "given names fill middle",
			buf:  "DCSDOE\nDACJOHN\nDCTJOHN PAUL\n",
			want: NameParts{First: "JOHN", Middle: "PAUL", Last: "DOE"},
		},
		{
			name: "given names fill first",
			buf:  "DCSDOE\nDCTJOHN PAUL\n",
			want: NameParts{First: "JOHN", Middle: "PAUL", Last: "DOE"},
		},
		{
			name: "trailing periods",
			buf:  "DCSRIVERS.\nDACMORGAN.\nDADK.\n",
			want: NameParts{First: "MORGAN", Middle: "K", Last: "RIVERS"},
		},
		{
			name: "none",
			buf:  "DAQ123\n",
			want: NameParts{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveNames(tt.buf))
		})
	}
}
