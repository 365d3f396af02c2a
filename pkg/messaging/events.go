package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventExtractionCompleted = "document.extraction.completed"
	EventExtractionFailed    = "document.extraction.failed"
)

// ExchangeDocumentEvents is the default exchange for document events.
const ExchangeDocumentEvents = "idscan.events"

// Event is the envelope of every published message
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// ExtractionEvent is the payload of document extraction events. It identifies the
// job and what was found, never the values themselves.
type ExtractionEvent struct {
	JobID        string    `json:"job_id"`
	DocumentType string    `json:"document_type"`
	Processor    string    `json:"processor,omitempty"`
	FieldKeys    []string  `json:"field_keys,omitempty"`
	Fingerprint  string    `json:"fingerprint,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
	OccurredAt   time.Time `json:"occurred_at"`

	TenantID string `json:"tenant_id,omitempty"`
	UserID   string `json:"user_id,omitempty"`
}
