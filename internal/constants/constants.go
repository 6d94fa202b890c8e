// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultDBPath       = "rustwav.db"
	DefaultLibraryDir   = "Music"
	DefaultCatalogURL   = "http://127.0.0.1:8000"
	DefaultFormat       = "mp3"
	DefaultQuality      = "high"
	DefaultConcurrency  = 4
	DefaultMaxAttempts  = 3
	DefaultRetryBase    = 2 * time.Second
	DefaultHTTPTimeout  = 30 * time.Second
	ImageHTTPTimeout    = 30 * time.Second
	DefaultSearchLimit  = 5
	ExtractTimeout      = 10 * time.Minute
	MinRequestInterval  = 250 * time.Millisecond
	DefaultRetryCount   = 3
)

// Audio formats
const (
	FormatMP3  = "mp3"
	FormatFLAC = "flac"
	FormatM4A  = "m4a"
	FormatWAV  = "wav"
)

// Quality levels, mapped to yt-dlp --audio-quality values.
const (
	QualityHigh   = "high"
	QualityMedium = "medium"
	QualityLow    = "low"
)

// Match scoring
const (
	DurationToleranceMS = 10_000
	AcceptThreshold     = 0.50
	DurationWeight      = 0.45
	TitleWeight         = 0.35
	ArtistWeight        = 0.20
	KeywordPenalty      = 0.25
)

// Cover art caps per output profile
const (
	PortableArtMaxPx    = 128
	PortableArtMaxBytes = 64 * 1024
	PortableMaxFilename = 64
	StandardArtMaxPx    = 500
	StandardArtMaxBytes = 300 * 1024
	StandardMaxFilename = 100
	ArtJPEGQualityStart = 85
	ArtJPEGQualityFloor = 30
	ArtJPEGQualityStep  = 10
)

// Database
const (
	CompletionsTable = "completions"
)

// File Extensions
const (
	ExtFLAC = ".flac"
	ExtMP3  = ".mp3"
	ExtM4A  = ".m4a"
	ExtWAV  = ".wav"
	ExtM3U  = ".m3u"
	ExtJPG  = ".jpg"
)

// File Names
const (
	CoverFileName = "cover.jpg"
)

// File Permissions
const (
	DirPermissions  = 0755
	FilePermissions = 0644
)

// Characters to sanitize from filesystem paths
const InvalidPathChars = "<>:\"/\\|?*"
