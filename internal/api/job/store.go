// Package job tracks async backtest runs for the API.
package job

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quantkit/crossbt/internal/core"
)

// Status represents job status.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// Job represents one async backtest run.
type Job struct {
	ID        string      `json:"id"`
	Status    Status      `json:"status"`
	Result    any         `json:"result,omitempty"`
	Error     *core.Error `json:"error,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Store manages async jobs in memory with bounded size and a TTL.
type Store struct {
	mu      sync.RWMutex
	jobs    map[string]*Job
	order   []string // insertion order for eviction
	maxSize int
	ttl     time.Duration
}

// NewStore creates a job store holding at most maxSize jobs, each kept
// for at most ttl after its last update.
func NewStore(maxSize int, ttl time.Duration) *Store {
	return &Store{
		jobs:    make(map[string]*Job),
		order:   make([]string, 0, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// Create registers a new pending job.
func (s *Store) Create() *Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	job := &Job{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Evict oldest if at capacity
	if len(s.jobs) >= s.maxSize && len(s.order) > 0 {
		delete(s.jobs, s.order[0])
		s.order = s.order[1:]
	}

	s.jobs[job.ID] = job
	s.order = append(s.order, job.ID)

	return job
}

// Get returns a copy of the job, or nil if unknown or expired.
func (s *Store) Get(id string) *Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[id]
	if !ok || time.Since(job.UpdatedAt) > s.ttl {
		return nil
	}

	copied := *job
	return &copied
}

// SetRunning marks the job as running.
func (s *Store) SetRunning(id string) {
	s.update(id, func(j *Job) {
		j.Status = StatusRunning
	})
}

// Complete marks the job as complete with its result.
func (s *Store) Complete(id string, result any) {
	s.update(id, func(j *Job) {
		j.Status = StatusComplete
		j.Result = result
	})
}

// Fail marks the job as failed.
func (s *Store) Fail(id string, err *core.Error) {
	s.update(id, func(j *Job) {
		j.Status = StatusFailed
		j.Error = err
	})
}

func (s *Store) update(id string, fn func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		fn(job)
		job.UpdatedAt = time.Now()
	}
}
