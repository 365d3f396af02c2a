// Package aamva extracts identity fields from the decoded text of an AAMVA-style
// driver's license or ID card barcode / magnetic stripe.
//
// Field boundaries in scanned payloads are unreliable, so parsing is a fixed
// pipeline: normalize the input, check that it looks like a payload, locate each
// field by its designator, trim text that bled in from the next field, then
// normalize each value. Parse is a pure function and safe for concurrent use.
package aamva

import (
	"errors"
	"strings"
)

// ErrNotLicensePayload is returned when the input is not a license payload at all.
var ErrNotLicensePayload = errors.New("aamva: input is not a license payload")

// Record is the normalized result of a parse. Empty fields are absent.
type Record struct {
	FirstName     string `json:"first_name,omitempty" yaml:"first_name,omitempty"`
	MiddleName    string `json:"middle_name,omitempty" yaml:"middle_name,omitempty"`
	LastName      string `json:"last_name,omitempty" yaml:"last_name,omitempty"`
	Address1      string `json:"address_1,omitempty" yaml:"address_1,omitempty"`
	Address2      string `json:"address_2,omitempty" yaml:"address_2,omitempty"`
	City          string `json:"city,omitempty" yaml:"city,omitempty"`
	State         string `json:"state,omitempty" yaml:"state,omitempty"`
	Zip           string `json:"zip,omitempty" yaml:"zip,omitempty"`
	Country       string `json:"country,omitempty" yaml:"country,omitempty"`
	LicenseNumber string `json:"license_number,omitempty" yaml:"license_number,omitempty"`
	DateOfBirth   string `json:"date_of_birth,omitempty" yaml:"date_of_birth,omitempty"`
}

// Field is one named value of a Record.
type Field struct {
	Key   string
	Value string
}

// Field keys, in Record order.
const (
	KeyFirstName     = "first_name"
	KeyMiddleName    = "middle_name"
	KeyLastName      = "last_name"
	KeyAddress1      = "address_1"
	KeyAddress2      = "address_2"
	KeyCity          = "city"
	KeyState         = "state"
	KeyZip           = "zip"
	KeyCountry       = "country"
	KeyLicenseNumber = "license_number"
	KeyDateOfBirth   = "date_of_birth"
)

// Fields returns the present fields in a stable order.
func (r *Record) Fields() []Field {
	all := []Field{
		{KeyFirstName, r.FirstName},
		{KeyMiddleName, r.MiddleName},
		{KeyLastName, r.LastName},
		{KeyAddress1, r.Address1},
		{KeyAddress2, r.Address2},
		{KeyCity, r.City},
		{KeyState, r.State},
		{KeyZip, r.Zip},
		{KeyCountry, r.Country},
		{KeyLicenseNumber, r.LicenseNumber},
		{KeyDateOfBirth, r.DateOfBirth},
	}
	present := all[:0]
	for _, f := range all {
		if f.Value != "" {
			present = append(present, f)
		}
	}
	return present
}

// IsEmpty reports whether no field is present.
func (r *Record) IsEmpty() bool {
	return len(r.Fields()) == 0
}

// Parse extracts a Record from raw payload text. It returns ErrNotLicensePayload for
// blank input, for text without any payload indicator, and when no field at all can
// be recovered.
func Parse(input string) (*Record, error) {
	input = strings.TrimSpace(input)
	if input == "" || !LooksLikePayload(input) {
		return nil, ErrNotLicensePayload
	}

	buf := NormalizeInput(input)
	if !LooksLikePayload(buf) {
		return nil, ErrNotLicensePayload
	}

	rec := assemble(buf)
	if rec.IsEmpty() {
		return nil, ErrNotLicensePayload
	}
	return rec, nil
}

// ParseBytes is Parse for a byte payload. A nil slice is absent input.
func ParseBytes(payload []byte) (*Record, error) {
	if payload == nil {
		return nil, ErrNotLicensePayload
	}
	return Parse(string(payload))
}

func assemble(buf string) *Record {
	names := resolveNames(buf)
	return &Record{
		FirstName:     names.First,
		MiddleName:    names.Middle,
		LastName:      names.Last,
		Address1:      extractField(buf, roleCodes[RoleAddress1]),
		Address2:      extractField(buf, roleCodes[RoleAddress2]),
		City:          extractField(buf, roleCodes[RoleCity]),
		State:         NormalizeState(extractField(buf, roleCodes[RoleState])),
		Zip:           NormalizeZip(extractField(buf, roleCodes[RoleZip])),
		Country:       NormalizeCountry(extractField(buf, roleCodes[RoleCountry])),
		LicenseNumber: NormalizeLicenseNumber(extractField(buf, roleCodes[RoleLicenseNumber])),
		DateOfBirth:   NormalizeDOB(extractField(buf, roleCodes[RoleDateOfBirth])),
	}
}
