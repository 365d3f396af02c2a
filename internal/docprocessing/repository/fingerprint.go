package repository

import (
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Fingerprinter derives a stable, non-reversible identifier for a license number so
// repeated scans of one license can be correlated without storing the number.
type Fingerprinter struct {
	key []byte
}

// NewFingerprinter returns a keyed BLAKE2b-256 fingerprinter. The key must be at
// most 64 bytes; an empty key gives an unkeyed hash.
func NewFingerprinter(key string) (*Fingerprinter, error) {
	if len(key) > blake2b.Size {
		return nil, fmt.Errorf("fingerprint key must be at most %d bytes, got %d", blake2b.Size, len(key))
	}
	return &Fingerprinter{key: []byte(key)}, nil
}

// Sum returns the hex fingerprint of licenseNumber, or "" for an empty number.
// Case and surrounding whitespace do not change the result.
func (f *Fingerprinter) Sum(licenseNumber string) string {
	licenseNumber = strings.ToUpper(strings.TrimSpace(licenseNumber))
	if licenseNumber == "" {
		return ""
	}
	h, err := blake2b.New256(f.key)
	if err != nil {
		// Key length is checked in NewFingerprinter.
		panic(err)
	}
	h.Write([]byte(licenseNumber))
	return hex.EncodeToString(h.Sum(nil))
}
