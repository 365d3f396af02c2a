package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medflow/idscan-service/internal/docprocessing/domain"
)

// TempStorage keeps extraction jobs in memory only. Payloads are never stored here,
// only parse results, and jobs expire after a TTL.
type TempStorage struct {
	mu   sync.RWMutex
	jobs map[string]*domain.ExtractionJob
	ttl  time.Duration
	now  func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewTempStorage creates a store whose jobs expire after ttl. Expired jobs are swept
// every interval; an interval <= 0 defaults to ttl/2.
func NewTempStorage(ttl, interval time.Duration) *TempStorage {
	if interval <= 0 {
		interval = ttl / 2
	}
	s := &TempStorage{
		jobs: make(map[string]*domain.ExtractionJob),
		ttl:  ttl,
		now:  time.Now,
		stop: make(chan struct{}),
	}
	if interval > 0 {
		go s.cleanupLoop(interval)
	}
	return s
}

// GenerateJobID returns a random job ID.
func GenerateJobID() string {
	return uuid.NewString()
}

// StoreJob stores an extraction job
func (s *TempStorage) StoreJob(job *domain.ExtractionJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.JobID] = job
}

// GetJob returns a copy of the job, or nil when it does not exist or has expired.
func (s *TempStorage) GetJob(jobID string) *domain.ExtractionJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok || s.expired(job) {
		return nil
	}
	cp := *job
	cp.Results = append([]domain.ExtractionResult(nil), job.Results...)
	return &cp
}

// UpdateJob applies update to a stored job. It reports whether the job existed.
func (s *TempStorage) UpdateJob(jobID string, update func(*domain.ExtractionJob)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if ok {
		update(job)
	}
	return ok
}

// DeleteJob removes a job from storage
func (s *TempStorage) DeleteJob(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, jobID)
}

// Len returns the number of stored jobs, expired ones included until the next sweep.
func (s *TempStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// Close stops the cleanup loop. It is safe to call more than once.
func (s *TempStorage) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// ZeroBytes overwrites b with zeros so scanned payloads do not linger in memory.
func ZeroBytes(b []byte) {
	clear(b)
}

func (s *TempStorage) expired(job *domain.ExtractionJob) bool {
	return s.ttl > 0 && job.CreatedAt.Before(s.now().Add(-s.ttl))
}

func (s *TempStorage) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stop:
			return
		}
	}
}

func (s *TempStorage) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, job := range s.jobs {
		if s.expired(job) {
			delete(s.jobs, id)
		}
	}
}
