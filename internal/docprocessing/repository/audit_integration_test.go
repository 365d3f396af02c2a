//go:build integration

package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medflow/idscan-service/internal/docprocessing/repository"
	"github.com/medflow/idscan-service/pkg/database"
	"github.com/medflow/idscan-service/pkg/logger"
	"github.com/medflow/idscan-service/pkg/testutil"
)

func TestAuditRepository_Postgres(t *testing.T) {
	testutil.SkipIfShort(t)
	ctx := testutil.DefaultTestContext(t)

	container, err := testutil.NewPostgresContainer(ctx, testutil.DefaultPostgresConfig())
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() { container.Terminate(ctx) })

	conn, err := container.Connect(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, testutil.CreateTenantSchema(ctx, conn, testutil.TestTenantSchema, repository.AuditTableDDL))

	repo := repository.NewAuditRepository(database.Wrap(conn, logger.Nop()))
	tenantCtx := testutil.TestTenantContext()

	entry := newEntry()
	require.NoError(t, repo.Insert(tenantCtx, entry))

	entries, err := repo.ListByJob(tenantCtx, entry.JobID)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, entry.ID, got.ID)
	assert.Equal(t, []string{"first_name", "last_name"}, got.FieldsExtracted)
	assert.Equal(t, "abc123", got.LicenseFingerprint)
	assert.WithinDuration(t, entry.ConsentTimestamp, got.ConsentTimestamp, time.Second)

	var inPublic int
	require.NoError(t, conn.GetContext(ctx, &inPublic,
		`SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = 'public' AND table_name = 'document_processing_audit'`))
	assert.Zero(t, inPublic, "audit table must live in the tenant schema only")
}
