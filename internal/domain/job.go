package domain

import "time"

// JobState is the lifecycle stage of a per-track job.
type JobState string

const (
	JobStatePending     JobState = "pending"
	JobStateMatching    JobState = "matching"
	JobStateDownloading JobState = "downloading"
	JobStateExtracting  JobState = "extracting"
	JobStateTagging     JobState = "tagging"
	JobStatePlacing     JobState = "placing"
	JobStateDone        JobState = "done"
	JobStateFailed      JobState = "failed"
	JobStateRetry       JobState = "retry"
)

// jobTransitions lists the allowed forward edges. Failed is reachable from
// every non-terminal state; the only forward edge out of Retry is Pending.
var jobTransitions = map[JobState][]JobState{
	JobStatePending:     {JobStateMatching, JobStateFailed},
	JobStateMatching:    {JobStateDownloading, JobStateFailed},
	JobStateDownloading: {JobStateExtracting, JobStateRetry, JobStateFailed},
	JobStateExtracting:  {JobStateTagging, JobStateRetry, JobStateFailed},
	JobStateTagging:     {JobStatePlacing, JobStateFailed},
	JobStatePlacing:     {JobStateDone, JobStateFailed},
	JobStateRetry:       {JobStatePending, JobStateFailed},
	JobStateDone:        {},
	JobStateFailed:      {},
}

// CanTransition reports whether moving from one state to the next is legal.
func CanTransition(from, to JobState) bool {
	for _, next := range jobTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether the state admits no further transitions.
func (s JobState) Terminal() bool {
	return len(jobTransitions[s]) == 0
}

// TrackJob carries one track through the pipeline.
type TrackJob struct {
	ID         string
	Seq        int // position in the resolved collection
	Descriptor TrackDescriptor
	Candidate  *CandidateMatch
	State      JobState
	Attempts   int
	Error      error
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
