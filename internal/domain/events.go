package domain

// EventKind identifies a pipeline event.
type EventKind string

const (
	EventRunStarted   EventKind = "run_started"
	EventJobStarted   EventKind = "job_started"
	EventJobProgress  EventKind = "job_progress"
	EventJobCompleted EventKind = "job_completed"
	EventJobSkipped   EventKind = "job_skipped"
	EventJobFailed    EventKind = "job_failed"
	EventRunFinished  EventKind = "run_finished"
	EventLogLine      EventKind = "log_line"
)

// Event is a progress notification emitted by pipeline workers. Workers only
// send; a single aggregator goroutine owns all counter updates.
type Event struct {
	Kind   EventKind
	JobID  string
	Seq    int
	Track  string
	State  JobState
	Line   string
	Path   string // placed (or cached) library file, on completed/skipped
	Err    error
	Report *RunReport
}

// RunReport summarizes a finished run.
type RunReport struct {
	Succeeded int
	Failed    int
	Skipped   int
	Errors    map[string]error // track ID -> terminal error
}
