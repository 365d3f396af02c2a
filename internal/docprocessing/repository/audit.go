package repository

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/medflow/idscan-service/internal/docprocessing/domain"
	"github.com/medflow/idscan-service/pkg/database"
	"github.com/medflow/idscan-service/pkg/errors"
)

// AuditTableDDL creates the per-tenant audit table. It is applied by tenant
// provisioning and by the integration tests.
const AuditTableDDL = `
CREATE TABLE IF NOT EXISTS document_processing_audit (
	id                     UUID PRIMARY KEY,
	job_id                 VARCHAR(64) NOT NULL,
	document_type          VARCHAR(32) NOT NULL,
	processor              VARCHAR(32) NOT NULL,
	status                 VARCHAR(16) NOT NULL CHECK (status IN ('completed', 'failed')),
	consent_timestamp      TIMESTAMPTZ NOT NULL,
	consent_given_by       VARCHAR(64) NOT NULL,
	fields_extracted       TEXT[] NOT NULL DEFAULT '{}',
	license_fingerprint    VARCHAR(64),
	processing_duration_ms BIGINT NOT NULL DEFAULT 0,
	payload_deleted_at     TIMESTAMPTZ NOT NULL,
	created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_document_processing_audit_job ON document_processing_audit (job_id);
`

const insertAudit = `
	INSERT INTO document_processing_audit (id, job_id, document_type, processor, status,
	                                       consent_timestamp, consent_given_by, fields_extracted,
	                                       license_fingerprint, processing_duration_ms,
	                                       payload_deleted_at, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
`

const selectAuditByJob = `
	SELECT id, job_id, document_type, processor, status, consent_timestamp, consent_given_by,
	       fields_extracted, COALESCE(license_fingerprint, ''), processing_duration_ms,
	       payload_deleted_at, created_at
	FROM document_processing_audit
	WHERE job_id = $1
	ORDER BY created_at
`

// AuditRepository persists document processing audit entries in the tenant schema.
type AuditRepository struct {
	db *database.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *database.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert writes entry into the audit table of the tenant in ctx. ID and CreatedAt are
// filled in when empty.
func (r *AuditRepository) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	fields := entry.FieldsExtracted
	if fields == nil {
		fields = []string{}
	}

	err := r.db.WithTenantSchema(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, insertAudit,
			entry.ID,
			entry.JobID,
			entry.DocumentType,
			entry.Processor,
			entry.Status,
			entry.ConsentTimestamp,
			entry.ConsentGivenBy,
			pq.Array(fields),
			nullString(entry.LicenseFingerprint),
			entry.ProcessingDurationMs,
			entry.PayloadDeletedAt,
			entry.CreatedAt,
		)
		return err
	})
	if appErr := database.MapPQError(err); appErr != nil {
		return appErr
	}
	if err != nil {
		return errors.Wrap(err, "DB_ERROR", "failed to write audit entry", http.StatusInternalServerError)
	}
	return nil
}

// ListByJob returns the audit entries recorded for a job, oldest first.
func (r *AuditRepository) ListByJob(ctx context.Context, jobID string) ([]*domain.AuditEntry, error) {
	var entries []*domain.AuditEntry
	err := r.db.WithTenantSchema(ctx, func(tx *sqlx.Tx) error {
		rows, err := tx.QueryxContext(ctx, selectAuditByJob, jobID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var e domain.AuditEntry
			if err := rows.Scan(
				&e.ID, &e.JobID, &e.DocumentType, &e.Processor, &e.Status,
				&e.ConsentTimestamp, &e.ConsentGivenBy, pq.Array(&e.FieldsExtracted),
				&e.LicenseFingerprint, &e.ProcessingDurationMs, &e.PayloadDeletedAt, &e.CreatedAt,
			); err != nil {
				return err
			}
			entries = append(entries, &e)
		}
		return rows.Err()
	})
	if appErr := database.MapPQError(err); appErr != nil {
		return nil, appErr
	}
	if err != nil {
		return nil, errors.Wrap(err, "DB_ERROR", "failed to list audit entries", http.StatusInternalServerError)
	}
	return entries, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
