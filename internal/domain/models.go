package domain

import (
	"time"
)

// TrackDescriptor is the catalog's authoritative metadata for one track.
// Descriptors are immutable once resolved; every later stage reads from the
// same descriptor the resolver produced.
type TrackDescriptor struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Artists     []string `json:"artists"`
	Album       string   `json:"album"`
	AlbumArtist string   `json:"album_artist,omitempty"`
	TrackNumber int      `json:"track_number"`
	DiscNumber  int      `json:"disc_number,omitempty"`
	TotalTracks int      `json:"total_tracks,omitempty"`
	Year        int      `json:"year,omitempty"`
	DurationMS  int      `json:"duration_ms"`
	CoverArtURL string   `json:"cover_art_url,omitempty"`
	ISRC        string   `json:"isrc,omitempty"`
}

// Artist returns the primary artist name.
func (d TrackDescriptor) Artist() string {
	if len(d.Artists) > 0 {
		return d.Artists[0]
	}
	return ""
}

// CandidateSummary is one search result from the audio source.
type CandidateSummary struct {
	SourceID   string `json:"id"`
	URL        string `json:"url"`
	Title      string `json:"title"`
	Uploader   string `json:"uploader"`
	DurationMS int    `json:"duration_ms"`
}

// CandidateMatch is a scored candidate the match engine accepted.
type CandidateMatch struct {
	Candidate CandidateSummary
	Score     float64
}

// LinkKind distinguishes the supported catalog link types.
type LinkKind string

const (
	LinkKindAlbum    LinkKind = "album"
	LinkKindPlaylist LinkKind = "playlist"
)

// Link is a parsed catalog reference.
type Link struct {
	Kind LinkKind
	ID   string
}

// Collection is the resolved contents of a catalog link. Track order is the
// catalog's order and is preserved through the whole pipeline.
type Collection struct {
	Title  string
	Kind   LinkKind
	Tracks []TrackDescriptor
}

// CompletionRecord is a finished acquisition as remembered by the dedup
// cache.
type CompletionRecord struct {
	Fingerprint string    `db:"fingerprint"`
	FilePath    string    `db:"file_path"`
	Format      string    `db:"format"`
	Checksum    string    `db:"checksum"`
	TaggedAt    time.Time `db:"tagged_at"`
}

// ProfileKind selects the library layout.
type ProfileKind string

const (
	ProfileStandard ProfileKind = "standard"
	ProfilePortable ProfileKind = "portable"
)

// OutputProfile fixes the output conventions for a whole run. It is chosen
// once before any job starts and never varies per track.
type OutputProfile struct {
	Kind           ProfileKind
	Format         string // mp3, flac, m4a, wav
	Quality        string // high, medium, low
	MaxFilenameLen int    // base name budget including extension
	ArtMaxPx       int    // longer edge cap for embedded art
	ArtMaxBytes    int    // encoded size cap for embedded art
}
