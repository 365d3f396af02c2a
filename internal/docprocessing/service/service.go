package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/medflow/idscan-service/internal/aamva"
	"github.com/medflow/idscan-service/internal/docprocessing/domain"
	"github.com/medflow/idscan-service/internal/docprocessing/processor"
	"github.com/medflow/idscan-service/internal/docprocessing/storage"
	"github.com/medflow/idscan-service/pkg/errors"
	"github.com/medflow/idscan-service/pkg/logger"
	"github.com/medflow/idscan-service/pkg/tenant"
)

// AuditSink stores audit entries. *repository.AuditRepository implements it.
type AuditSink interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}

// EventSink publishes extraction outcomes. *events.Publisher implements it.
type EventSink interface {
	ExtractionCompleted(ctx context.Context, jobID string, result *domain.ExtractionResult, fingerprint string) error
	ExtractionFailed(ctx context.Context, jobID string, docType domain.DocumentType, reason string) error
}

// Fingerprinter derives a non-reversible identifier from a license number.
type Fingerprinter interface {
	Sum(licenseNumber string) string
}

// Option configures a Service.
type Option func(*Service)

// WithAudit writes an audit entry for every finished job.
func WithAudit(sink AuditSink) Option {
	return func(s *Service) { s.audit = sink }
}

// WithEvents publishes an event for every finished job.
func WithEvents(sink EventSink) Option {
	return func(s *Service) { s.events = sink }
}

// WithFingerprinter adds a license fingerprint to audit entries and events.
func WithFingerprinter(f Fingerprinter) Option {
	return func(s *Service) { s.fingerprinter = f }
}

// Service orchestrates document processing: dispatch to processors, zero the payload,
// then record the outcome.
type Service struct {
	registry      *processor.Registry
	storage       *storage.TempStorage
	audit         AuditSink
	events        EventSink
	fingerprinter Fingerprinter
	log           *logger.Logger

	wg sync.WaitGroup
}

// NewService creates a new document processing service
func NewService(registry *processor.Registry, store *storage.TempStorage, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		registry: registry,
		storage:  store,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartExtraction creates an extraction job and processes the payload in the
// background. The job is returned immediately so the caller can poll for it.
// The payload slice is zeroed once processing is done.
func (s *Service) StartExtraction(ctx context.Context, payload []byte, docType domain.DocumentType, consentTimestamp time.Time, userID string) (*domain.ExtractionJob, error) {
	if len(payload) == 0 {
		return nil, errors.BadRequest("payload is empty")
	}

	job := s.newJob(ctx, docType)

	processors := s.registry.FindProcessors(docType)
	if len(processors) == 0 {
		storage.ZeroBytes(payload)
		s.failNoProcessor(job.JobID, docType)
		return s.storage.GetJob(job.JobID), nil
	}

	// Request cancellation must not stop processing, but tenant and user values
	// on ctx are still needed for the audit entry.
	bgCtx := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.process(bgCtx, job.JobID, payload, docType, processors, consentTimestamp, userID)
	}()

	return s.storage.GetJob(job.JobID), nil
}

// ParseNow processes the payload synchronously and returns the finished job. Text
// that yields no fields is reported as unprocessable.
func (s *Service) ParseNow(ctx context.Context, payload []byte, docType domain.DocumentType, consentTimestamp time.Time, userID string) (*domain.ExtractionJob, error) {
	if len(payload) == 0 {
		return nil, errors.BadRequest("payload is empty")
	}

	job := s.newJob(ctx, docType)

	processors := s.registry.FindProcessors(docType)
	if len(processors) == 0 {
		storage.ZeroBytes(payload)
		s.failNoProcessor(job.JobID, docType)
		return nil, errors.BadRequest(fmt.Sprintf("unsupported document type: %s", docType))
	}

	s.process(ctx, job.JobID, payload, docType, processors, consentTimestamp, userID)

	done := s.storage.GetJob(job.JobID)
	if done == nil {
		return nil, errors.Internal("extraction job vanished")
	}
	if done.Status == domain.StatusFailed {
		return nil, errors.Unprocessable(done.Error)
	}
	if !hasFields(done.Results) {
		return nil, errors.Unprocessable("payload is not a driver's license or ID card").
			WithDetails(map[string]string{"job_id": done.JobID})
	}
	return done, nil
}

// GetJob retrieves an extraction job by ID. Jobs of another tenant are reported as
// not found.
func (s *Service) GetJob(ctx context.Context, jobID string) (*domain.ExtractionJob, error) {
	job := s.storage.GetJob(jobID)
	if job == nil {
		return nil, errors.NotFound("extraction job")
	}
	tenantID, _ := tenant.TenantID(ctx)
	if job.TenantID != tenantID {
		return nil, errors.NotFound("extraction job")
	}
	return job, nil
}

// Wait blocks until all background extractions have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) newJob(ctx context.Context, docType domain.DocumentType) *domain.ExtractionJob {
	tenantID, _ := tenant.TenantID(ctx)
	job := &domain.ExtractionJob{
		JobID:        storage.GenerateJobID(),
		TenantID:     tenantID,
		DocumentType: docType,
		Status:       domain.StatusProcessing,
		CreatedAt:    time.Now(),
	}
	s.storage.StoreJob(job)
	return job
}

func (s *Service) failNoProcessor(jobID string, docType domain.DocumentType) {
	now := time.Now()
	s.storage.UpdateJob(jobID, func(j *domain.ExtractionJob) {
		j.Status = domain.StatusFailed
		j.Error = fmt.Sprintf("no processor available for document type: %s", docType)
		j.CompletedAt = &now
	})
}

// process runs the processors in order until one yields fields. A processor error or
// an empty result passes the payload on to the next one.
func (s *Service) process(ctx context.Context, jobID string, payload []byte, docType domain.DocumentType, processors []processor.Processor, consentTimestamp time.Time, userID string) {
	log := s.log.WithJobID(jobID)
	start := time.Now()

	var (
		results []domain.ExtractionResult
		lastErr error
	)
	for _, proc := range processors {
		log.Debug().
			Str("processor", proc.Name()).
			Str("doc_type", string(docType)).
			Msg("trying document extraction")

		result, err := proc.Process(ctx, payload, docType)
		if err != nil {
			lastErr = err
			log.Warn().Err(err).Str("processor", proc.Name()).Msg("processor failed, trying next")
			continue
		}
		results = append(results, *result)
		if len(result.Fields) > 0 {
			break
		}
	}

	// The payload holds personal data and must not outlive processing.
	storage.ZeroBytes(payload)
	payloadDeletedAt := time.Now()
	completedAt := payloadDeletedAt

	if len(results) == 0 {
		reason := "all processors failed"
		if lastErr != nil {
			reason = lastErr.Error()
		}
		s.storage.UpdateJob(jobID, func(j *domain.ExtractionJob) {
			j.Status = domain.StatusFailed
			j.Error = reason
			j.CompletedAt = &completedAt
		})
		log.Error().Err(lastErr).Msg("all processors failed")

		s.recordAudit(ctx, log, &domain.AuditEntry{
			JobID:                jobID,
			DocumentType:         string(docType),
			Processor:            processors[len(processors)-1].Name(),
			Status:               string(domain.StatusFailed),
			ConsentTimestamp:     consentTimestamp,
			ConsentGivenBy:       userID,
			ProcessingDurationMs: time.Since(start).Milliseconds(),
			PayloadDeletedAt:     payloadDeletedAt,
		})
		if s.events != nil {
			if err := s.events.ExtractionFailed(ctx, jobID, docType, reason); err != nil {
				log.Error().Err(err).Msg("failed to publish extraction failed event")
			}
		}
		return
	}

	final := &results[len(results)-1]
	fingerprint := ""
	if s.fingerprinter != nil {
		fingerprint = s.fingerprinter.Sum(final.Field(aamva.KeyLicenseNumber))
	}

	s.storage.UpdateJob(jobID, func(j *domain.ExtractionJob) {
		j.Status = domain.StatusCompleted
		j.Results = results
		j.CompletedAt = &completedAt
	})

	s.recordAudit(ctx, log, &domain.AuditEntry{
		JobID:                jobID,
		DocumentType:         string(docType),
		Processor:            final.Processor,
		Status:               string(domain.StatusCompleted),
		ConsentTimestamp:     consentTimestamp,
		ConsentGivenBy:       userID,
		FieldsExtracted:      final.FieldKeys(),
		LicenseFingerprint:   fingerprint,
		ProcessingDurationMs: time.Since(start).Milliseconds(),
		PayloadDeletedAt:     payloadDeletedAt,
	})
	if s.events != nil {
		if err := s.events.ExtractionCompleted(ctx, jobID, final, fingerprint); err != nil {
			log.Error().Err(err).Msg("failed to publish extraction completed event")
		}
	}

	log.Info().
		Str("processor", final.Processor).
		Int("fields_extracted", len(final.Fields)).
		Int("warnings", len(final.Warnings)).
		Dur("duration", time.Since(start)).
		Msg("document extraction completed")
}

func (s *Service) recordAudit(ctx context.Context, log *logger.Logger, entry *domain.AuditEntry) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Insert(ctx, entry); err != nil {
		log.Error().Err(err).Msg("failed to write document processing audit entry")
	}
}

func hasFields(results []domain.ExtractionResult) bool {
	for _, r := range results {
		if len(r.Fields) > 0 {
			return true
		}
	}
	return false
}
