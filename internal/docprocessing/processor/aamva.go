package processor

import (
	"context"
	"errors"
	"time"

	"github.com/medflow/idscan-service/internal/aamva"
	"github.com/medflow/idscan-service/internal/docprocessing/domain"
)

// WarningNotLicensePayload is reported when the text is not an AAMVA payload.
const WarningNotLicensePayload = "Text is not a driver's license or ID card barcode payload."

// Per-field confidence. Values taken directly from a designator score higher than
// ones that needed reconstruction.
var aamvaConfidence = map[string]float64{
	aamva.KeyFirstName:     0.9,
	aamva.KeyMiddleName:    0.85,
	aamva.KeyLastName:      0.9,
	aamva.KeyAddress1:      0.9,
	aamva.KeyAddress2:      0.85,
	aamva.KeyCity:          0.9,
	aamva.KeyState:         0.95,
	aamva.KeyZip:           0.95,
	aamva.KeyCountry:       0.95,
	aamva.KeyLicenseNumber: 0.95,
	aamva.KeyDateOfBirth:   0.9,
}

// AAMVAProcessor extracts identity fields from the decoded PDF417 barcode or magnetic
// stripe text of North American driver's licenses and ID cards.
type AAMVAProcessor struct{}

func NewAAMVAProcessor() *AAMVAProcessor {
	return &AAMVAProcessor{}
}

func (p *AAMVAProcessor) Name() string {
	return "aamva"
}

func (p *AAMVAProcessor) CanProcess(docType domain.DocumentType) bool {
	return docType == domain.DocumentTypeDriversLicense || docType == domain.DocumentTypeIDCard
}

// Process parses payload. Text that is not a license payload yields a result with no
// fields and a warning, not an error.
func (p *AAMVAProcessor) Process(ctx context.Context, payload []byte, docType domain.DocumentType) (*domain.ExtractionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	result := &domain.ExtractionResult{
		DocumentType: docType,
		Processor:    p.Name(),
	}

	rec, err := aamva.ParseBytes(payload)
	switch {
	case errors.Is(err, aamva.ErrNotLicensePayload):
		result.Warnings = []string{WarningNotLicensePayload}
	case err != nil:
		return nil, err
	default:
		result.Fields = toFields(rec, docType)
		if rec.DateOfBirth == "" {
			result.Warnings = append(result.Warnings, "Date of birth missing or unreadable.")
		}
	}

	result.ProcessingTimeMs = time.Since(start).Milliseconds()
	return result, nil
}

func toFields(rec *aamva.Record, docType domain.DocumentType) []domain.ExtractionField {
	present := rec.Fields()
	fields := make([]domain.ExtractionField, 0, len(present))
	for _, f := range present {
		fields = append(fields, domain.ExtractionField{
			Key:        f.Key,
			Value:      f.Value,
			Confidence: aamvaConfidence[f.Key],
			Source:     docType,
		})
	}
	return fields
}
