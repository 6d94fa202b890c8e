// Package source finds downloadable candidates for a track on an external
// audio source.
package source

import (
	"context"

	"github.com/khanCurtis/rustwav/internal/domain"
)

// AudioSource searches an external service for candidates matching a query.
// Implementations are selected by configuration, never by inspecting the
// descriptor.
type AudioSource interface {
	Search(ctx context.Context, query string, limit int) ([]domain.CandidateSummary, error)
}

// Query builds the "artist - title" search string for a descriptor. The
// separator is dropped when either side is empty.
func Query(desc domain.TrackDescriptor) string {
	artist := desc.Artist()
	if artist == "" {
		return desc.Title
	}
	if desc.Title == "" {
		return artist
	}
	return artist + " - " + desc.Title
}
