package storage

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medflow/idscan-service/internal/docprocessing/domain"
)

func newJob(id string, created time.Time) *domain.ExtractionJob {
	return &domain.ExtractionJob{
		JobID:        id,
		DocumentType: domain.DocumentTypeDriversLicense,
		Status:       domain.StatusProcessing,
		CreatedAt:    created,
	}
}

func TestGenerateJobID(t *testing.T) {
	a, b := GenerateJobID(), GenerateJobID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
}

func TestTempStorage_StoreGetUpdateDelete(t *testing.T) {
	s := NewTempStorage(time.Minute, time.Hour)
	defer s.Close()

	s.StoreJob(newJob("job-1", time.Now()))

	got := s.GetJob("job-1")
	require.NotNil(t, got)
	assert.Equal(t, domain.StatusProcessing, got.Status)

	ok := s.UpdateJob("job-1", func(j *domain.ExtractionJob) {
		j.Status = domain.StatusCompleted
		j.Results = append(j.Results, domain.ExtractionResult{Processor: "aamva"})
	})
	assert.True(t, ok)
	assert.False(t, s.UpdateJob("missing", func(*domain.ExtractionJob) {}))

	got = s.GetJob("job-1")
	require.NotNil(t, got)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	require.Len(t, got.Results, 1)

	s.DeleteJob("job-1")
	assert.Nil(t, s.GetJob("job-1"))
}

func TestTempStorage_GetJobReturnsCopy(t *testing.T) {
	s := NewTempStorage(time.Minute, time.Hour)
	defer s.Close()

	s.StoreJob(newJob("job-1", time.Now()))
	got := s.GetJob("job-1")
	got.Status = domain.StatusFailed

	assert.Equal(t, domain.StatusProcessing, s.GetJob("job-1").Status)
}

func TestTempStorage_Expiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := NewTempStorage(5*time.Minute, time.Hour)
	defer s.Close()
	s.now = func() time.Time { return now }

	s.StoreJob(newJob("old", now.Add(-10*time.Minute)))
	s.StoreJob(newJob("fresh", now.Add(-time.Minute)))

	assert.Nil(t, s.GetJob("old"), "expired job must not be returned")
	assert.NotNil(t, s.GetJob("fresh"))
	assert.Equal(t, 2, s.Len())

	s.cleanup()
	assert.Equal(t, 1, s.Len())
}

func TestTempStorage_CloseIsIdempotent(t *testing.T) {
	s := NewTempStorage(time.Minute, 0)
	s.Close()
	assert.NotPanics(t, s.Close)
}

func TestTempStorage_Concurrent(t *testing.T) {
	s := NewTempStorage(time.Minute, time.Hour)
	defer s.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := GenerateJobID()
			s.StoreJob(newJob(id, time.Now()))
			s.UpdateJob(id, func(j *domain.ExtractionJob) { j.Status = domain.StatusCompleted })
			_ = s.GetJob(id)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
}

func TestZeroBytes(t *testing.T) {
	b := []byte("DAQS1234567")
	ZeroBytes(b)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d = %d, want 0", i, v)
		}
	}
	ZeroBytes(nil)
}
