package repository_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medflow/idscan-service/internal/docprocessing/repository"
)

func TestFingerprinter_Sum(t *testing.T) {
	f, err := repository.NewFingerprinter("tenant-secret")
	require.NoError(t, err)

	a := f.Sum("S1234567")
	assert.Len(t, a, 64)
	assert.Equal(t, a, f.Sum("  s1234567 "), "case and whitespace must not matter")
	assert.NotEqual(t, a, f.Sum("S1234568"))
	assert.NotContains(t, a, "1234567")
	assert.Empty(t, f.Sum(""))
	assert.Empty(t, f.Sum("   "))

	other, err := repository.NewFingerprinter("another-secret")
	require.NoError(t, err)
	assert.NotEqual(t, a, other.Sum("S1234567"), "different keys must give different fingerprints")
}

func TestNewFingerprinter_KeyTooLong(t *testing.T) {
	_, err := repository.NewFingerprinter(strings.Repeat("k", 65))
	assert.Error(t, err)

	f, err := repository.NewFingerprinter("")
	require.NoError(t, err)
	assert.Len(t, f.Sum("X1"), 64)
}
