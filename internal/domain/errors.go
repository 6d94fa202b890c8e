package domain

import (
	"errors"
	"fmt"
)

// ResolutionKind classifies catalog resolution failures.
type ResolutionKind string

const (
	ResolutionNotFound      ResolutionKind = "not_found"
	ResolutionRateLimited   ResolutionKind = "rate_limited"
	ResolutionMalformedLink ResolutionKind = "malformed_link"
)

// ResolutionError reports that a catalog link could not be resolved.
type ResolutionError struct {
	Kind ResolutionKind
	Link string
	Err  error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolve %q: %s: %v", e.Link, e.Kind, e.Err)
	}
	return fmt.Sprintf("resolve %q: %s", e.Link, e.Kind)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// MatchError reports that no candidate cleared the acceptance threshold.
type MatchError struct {
	TrackID string
	Query   string
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("no acceptable candidate for track %s (query %q)", e.TrackID, e.Query)
}

// DownloadError reports a failed extraction. Transient failures are eligible
// for retry; tool failures carry the external tool's exit code.
type DownloadError struct {
	ExitCode  int
	Stderr    string
	Transient bool
	Err       error
}

func (e *DownloadError) Error() string {
	if e.ExitCode != 0 {
		return fmt.Sprintf("external tool failed with exit code %d: %s", e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("download failed: %v", e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// TagKind classifies tagging failures.
type TagKind string

const (
	TagUnsupportedContainer TagKind = "unsupported_container"
	TagIOFailure            TagKind = "io_failure"
)

// TagError reports a failed tag write.
type TagError struct {
	Kind TagKind
	Path string
	Err  error
}

func (e *TagError) Error() string {
	return fmt.Sprintf("tag %s: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *TagError) Unwrap() error { return e.Err }

// PlacementError reports a failed move into the library.
type PlacementError struct {
	Path string
	Err  error
}

func (e *PlacementError) Error() string {
	return fmt.Sprintf("place %s: %v", e.Path, e.Err)
}

func (e *PlacementError) Unwrap() error { return e.Err }

// Retryable reports whether the error is a transient download failure. Only
// those are retried; match, tag, and placement failures are final.
func Retryable(err error) bool {
	var de *DownloadError
	if errors.As(err, &de) {
		return de.Transient
	}
	return false
}
