package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/medflow/idscan-service/internal/aamva"
)

const payload = "ANSI 636026080102DLDAQS1234567\nDCSDOE\nDACJOHN\nDBB19900102\nDAJNY\n"

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "dlparse [file]", newRootCmd(nil).Use)
}

func TestRun_StdinJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(nil, strings.NewReader(payload), &stdout, &stderr)

	require.Equal(t, exitOK, code, stderr.String())
	var rec aamva.Record
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &rec))
	assert.Equal(t, "JOHN", rec.FirstName)
	assert.Equal(t, "DOE", rec.LastName)
	assert.Equal(t, "S1234567", rec.LicenseNumber)
	assert.Equal(t, "1990-01-02", rec.DateOfBirth)
	assert.NotContains(t, stdout.String(), "address_2", "absent fields are omitted")
}

func TestRun_FileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.txt")
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	var stdout, stderr bytes.Buffer
	code := run([]string{"--output", "yaml", path}, strings.NewReader(""), &stdout, &stderr)

	require.Equal(t, exitOK, code, stderr.String())
	var rec aamva.Record
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &rec))
	assert.Equal(t, "NY", rec.State)
	assert.Contains(t, stdout.String(), "last_name: DOE")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		stdin    string
		wantCode int
		wantErr  string
	}{
		{"not a license", nil, "hello world", exitNotLicense, "not a driver's license"},
		{"empty input", nil, "", exitNotLicense, "not a driver's license"},
		{"bad format", []string{"-o", "xml"}, payload, exitError, "unsupported output format"},
		{"missing file", []string{"/nonexistent/scan.txt"}, "", exitError, "failed to read"},
		{"too many args", []string{"a", "b"}, "", exitError, "accepts at most 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, strings.NewReader(tt.stdin), &stdout, &stderr)

			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, stderr.String(), tt.wantErr)
			assert.Empty(t, stdout.String())
		})
	}
}
