package domain

import "time"

// DocumentType represents the type of document being processed
type DocumentType string

const (
	DocumentTypeDriversLicense DocumentType = "drivers_license"
	DocumentTypeIDCard         DocumentType = "id_card"
)

// Valid reports whether t is a supported document type.
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeDriversLicense, DocumentTypeIDCard:
		return true
	}
	return false
}

// ExtractionStatus represents the processing state of an extraction job
type ExtractionStatus string

const (
	StatusProcessing ExtractionStatus = "processing"
	StatusCompleted  ExtractionStatus = "completed"
	StatusFailed     ExtractionStatus = "failed"
)

// ExtractionField represents a single extracted field with confidence
type ExtractionField struct {
	Key        string       `json:"key" yaml:"key"`
	Value      string       `json:"value" yaml:"value"`
	Confidence float64      `json:"confidence" yaml:"confidence"`
	Source     DocumentType `json:"source" yaml:"source"`
}

// ExtractionResult represents the result from processing a single document
type ExtractionResult struct {
	DocumentType     DocumentType      `json:"document_type"`
	Processor        string            `json:"processor"`
	Fields           []ExtractionField `json:"fields"`
	Warnings         []string          `json:"warnings,omitempty"`
	ProcessingTimeMs int64             `json:"processing_time_ms"`
}

// FieldKeys returns the keys of the extracted fields in order.
func (r *ExtractionResult) FieldKeys() []string {
	keys := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		keys[i] = f.Key
	}
	return keys
}

// Field returns the value for key, or "" when it was not extracted.
func (r *ExtractionResult) Field(key string) string {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// ExtractionJob represents a complete extraction job
type ExtractionJob struct {
	JobID        string             `json:"job_id"`
	TenantID     string             `json:"-"`
	DocumentType DocumentType       `json:"document_type"`
	Status       ExtractionStatus   `json:"status"`
	Results      []ExtractionResult `json:"results,omitempty"`
	Error        string             `json:"error,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	CompletedAt  *time.Time         `json:"completed_at,omitempty"`
}

// AuditEntry records one processed document for data-protection audits.
// It holds which fields were found, never their values.
type AuditEntry struct {
	ID                   string    `db:"id"`
	JobID                string    `db:"job_id"`
	DocumentType         string    `db:"document_type"`
	Processor            string    `db:"processor"`
	Status               string    `db:"status"`
	ConsentTimestamp     time.Time `db:"consent_timestamp"`
	ConsentGivenBy       string    `db:"consent_given_by"`
	FieldsExtracted      []string  `db:"fields_extracted"`
	LicenseFingerprint   string    `db:"license_fingerprint"`
	ProcessingDurationMs int64     `db:"processing_duration_ms"`
	PayloadDeletedAt     time.Time `db:"payload_deleted_at"`
	CreatedAt            time.Time `db:"created_at"`
}
