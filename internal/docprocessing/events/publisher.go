// Package events publishes document extraction outcomes to the message broker.
// Events identify the job and which fields were found, never their values.
package events

import (
	"context"
	"time"

	"github.com/medflow/idscan-service/internal/docprocessing/domain"
	"github.com/medflow/idscan-service/pkg/httputil"
	"github.com/medflow/idscan-service/pkg/messaging"
	"github.com/medflow/idscan-service/pkg/tenant"
)

// Publisher emits extraction events through a messaging.Publisher.
type Publisher struct {
	pub *messaging.Publisher
	now func() time.Time
}

// NewPublisher creates a new extraction event publisher
func NewPublisher(pub *messaging.Publisher) *Publisher {
	return &Publisher{pub: pub, now: time.Now}
}

// ExtractionCompleted publishes document.extraction.completed for a finished job.
func (p *Publisher) ExtractionCompleted(ctx context.Context, jobID string, result *domain.ExtractionResult, fingerprint string) error {
	return p.pub.Publish(ctx, messaging.EventExtractionCompleted, messaging.ExtractionEvent{
		JobID:        jobID,
		DocumentType: string(result.DocumentType),
		Processor:    result.Processor,
		FieldKeys:    result.FieldKeys(),
		Fingerprint:  fingerprint,
		DurationMs:   result.ProcessingTimeMs,
		OccurredAt:   p.now().UTC(),
		TenantID:     tenantID(ctx),
		UserID:       httputil.GetUserID(ctx),
	})
}

// ExtractionFailed publishes document.extraction.failed with the failure reason.
func (p *Publisher) ExtractionFailed(ctx context.Context, jobID string, docType domain.DocumentType, reason string) error {
	return p.pub.Publish(ctx, messaging.EventExtractionFailed, messaging.ExtractionEvent{
		JobID:        jobID,
		DocumentType: string(docType),
		Reason:       reason,
		OccurredAt:   p.now().UTC(),
		TenantID:     tenantID(ctx),
		UserID:       httputil.GetUserID(ctx),
	})
}

func tenantID(ctx context.Context) string {
	id, _ := tenant.TenantID(ctx)
	return id
}
