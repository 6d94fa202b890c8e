// Package downloader runs resolved tracks through match, extraction,
// tagging, and placement with bounded concurrency.
package downloader

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/khanCurtis/rustwav/internal/domain"
)

// Registry is the mutex-guarded table of this run's jobs. Every state
// change goes through Transition so the lifecycle stays monotonic.
type Registry struct {
	mu   sync.Mutex
	jobs map[string]*domain.TrackJob
}

func NewRegistry() *Registry {
	return &Registry{
		jobs: make(map[string]*domain.TrackJob),
	}
}

// Add registers a new job. The job must start in Pending.
func (r *Registry) Add(job *domain.TrackJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if job.State != domain.JobStatePending {
		return fmt.Errorf("job %s added in state %s, want %s", job.ID, job.State, domain.JobStatePending)
	}
	if _, exists := r.jobs[job.ID]; exists {
		return fmt.Errorf("job %s already registered", job.ID)
	}

	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	r.jobs[job.ID] = job
	return nil
}

// Transition moves a job to the next state, rejecting edges missing from
// the lifecycle table. Entering Extracting counts an attempt.
func (r *Registry) Transition(jobID string, to domain.JobState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return fmt.Errorf("unknown job %s", jobID)
	}
	if !domain.CanTransition(job.State, to) {
		return fmt.Errorf("job %s: illegal transition %s -> %s", jobID, job.State, to)
	}

	job.State = to
	job.UpdatedAt = time.Now().UTC()
	if to == domain.JobStateExtracting {
		job.Attempts++
	}
	return nil
}

// SetCandidate records the accepted source candidate for a job.
func (r *Registry) SetCandidate(jobID string, m *domain.CandidateMatch) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if job, ok := r.jobs[jobID]; ok {
		job.Candidate = m
	}
}

// SetError records a job's terminal error.
func (r *Registry) SetError(jobID string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if job, ok := r.jobs[jobID]; ok {
		job.Error = err
	}
}

// Get returns a copy of a job.
func (r *Registry) Get(jobID string) (domain.TrackJob, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[jobID]
	if !ok {
		return domain.TrackJob{}, false
	}
	return *job, true
}

// Attempts returns the number of extraction attempts a job has used.
func (r *Registry) Attempts(jobID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if job, ok := r.jobs[jobID]; ok {
		return job.Attempts
	}
	return 0
}

// Snapshot returns copies of all jobs in catalog order.
func (r *Registry) Snapshot() []domain.TrackJob {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.TrackJob, 0, len(r.jobs))
	for _, job := range r.jobs {
		out = append(out, *job)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}
