package repository_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medflow/idscan-service/internal/docprocessing/domain"
	"github.com/medflow/idscan-service/internal/docprocessing/repository"
	"github.com/medflow/idscan-service/pkg/errors"
	"github.com/medflow/idscan-service/pkg/tenant"
	"github.com/medflow/idscan-service/pkg/testutil"
)

func newEntry() *domain.AuditEntry {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &domain.AuditEntry{
		JobID:                "job-1",
		DocumentType:         string(domain.DocumentTypeDriversLicense),
		Processor:            "aamva",
		Status:               string(domain.StatusCompleted),
		ConsentTimestamp:     now,
		ConsentGivenBy:       testutil.TestUserID,
		FieldsExtracted:      []string{"first_name", "last_name"},
		LicenseFingerprint:   "abc123",
		ProcessingDurationMs: 3,
		PayloadDeletedAt:     now,
	}
}

func TestAuditRepository_Insert(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	repo := repository.NewAuditRepository(mockDB.DB)

	mockDB.ExpectTenantExec(testutil.TestTenantSchema, "INSERT INTO document_processing_audit", sqlmock.NewResult(1, 1)).
		WithArgs(
			testutil.AnyUUID{}, "job-1", "drivers_license", "aamva", "completed",
			testutil.AnyTime{}, testutil.TestUserID, sqlmock.AnyArg(), "abc123", int64(3),
			testutil.AnyTime{}, testutil.AnyTime{},
		)

	entry := newEntry()
	err := repo.Insert(testutil.TestTenantContext(), entry)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.CreatedAt.IsZero())
	mockDB.ExpectationsWereMet(t)
}

func TestAuditRepository_InsertWithoutFingerprint(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	repo := repository.NewAuditRepository(mockDB.DB)

	mockDB.ExpectTenantExec(testutil.TestTenantSchema, "INSERT INTO document_processing_audit", sqlmock.NewResult(1, 1)).
		WithArgs(
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "failed",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), nil, sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(),
		)

	entry := newEntry()
	entry.Status = string(domain.StatusFailed)
	entry.LicenseFingerprint = ""
	entry.FieldsExtracted = nil
	require.NoError(t, repo.Insert(testutil.TestTenantContext(), entry))
	mockDB.ExpectationsWereMet(t)
}

func TestAuditRepository_InsertMissingTable(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	repo := repository.NewAuditRepository(mockDB.DB)

	mockDB.Mock.ExpectBegin()
	mockDB.Mock.ExpectExec("SET LOCAL search_path").WillReturnResult(sqlmock.NewResult(0, 0))
	mockDB.Mock.ExpectExec("INSERT INTO document_processing_audit").
		WillReturnError(&pq.Error{Code: "42P01"})
	mockDB.Mock.ExpectRollback()

	err := repo.Insert(testutil.TestTenantContext(), newEntry())
	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusServiceUnavailable, appErr.StatusCode)
	mockDB.ExpectationsWereMet(t)
}

func TestAuditRepository_InsertRequiresTenant(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	repo := repository.NewAuditRepository(mockDB.DB)

	err := repo.Insert(context.Background(), newEntry())
	assert.ErrorIs(t, err, tenant.ErrNoTenantInContext)
	mockDB.ExpectationsWereMet(t)
}

func TestAuditRepository_ListByJob(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	repo := repository.NewAuditRepository(mockDB.DB)
	now := time.Now().UTC()

	mockDB.Mock.ExpectBegin()
	mockDB.Mock.ExpectExec("SET LOCAL search_path").WillReturnResult(sqlmock.NewResult(0, 0))
	mockDB.Mock.ExpectQuery("SELECT (.+) FROM document_processing_audit WHERE job_id").
		WithArgs("job-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "job_id", "document_type", "processor", "status", "consent_timestamp",
			"consent_given_by", "fields_extracted", "license_fingerprint",
			"processing_duration_ms", "payload_deleted_at", "created_at",
		}).AddRow(
			"8e0b1c52-7d0c-4b7a-9f5e-2a1d3c4b5e6f", "job-1", "id_card", "aamva", "completed", now,
			testutil.TestUserID, []byte(`{first_name,date_of_birth}`), "", int64(2), now, now,
		))
	mockDB.Mock.ExpectCommit()

	entries, err := repo.ListByJob(testutil.TestTenantContext(), "job-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"first_name", "date_of_birth"}, entries[0].FieldsExtracted)
	assert.Equal(t, "id_card", entries[0].DocumentType)
	mockDB.ExpectationsWereMet(t)
}
