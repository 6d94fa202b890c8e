package library

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/khanCurtis/rustwav/internal/constants"
	"github.com/khanCurtis/rustwav/internal/domain"
)

// Placer computes library destinations under one root for one run. Paths are
// reserved up front so two jobs can never target the same file, and the
// numeric disambiguation suffix is deterministic: reservation order is
// catalog order.
type Placer struct {
	Root    string
	Profile domain.OutputProfile

	mu       sync.Mutex
	reserved map[string]bool
}

func NewPlacer(root string, profile domain.OutputProfile) *Placer {
	return &Placer{
		Root:     root,
		Profile:  profile,
		reserved: make(map[string]bool),
	}
}

// Reserve returns the absolute destination path for a descriptor and marks
// it taken for the rest of the run. Collisions, within the run or with files
// already on disk, get "-2", "-3", ... suffixes.
func (p *Placer) Reserve(desc domain.TrackDescriptor) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	dir, base := p.destination(desc)
	ext := "." + p.Profile.Format

	for attempt := 1; ; attempt++ {
		suffix := ""
		if attempt > 1 {
			suffix = fmt.Sprintf("-%d", attempt)
		}
		name := fitName(base, suffix, ext, p.Profile.MaxFilenameLen)
		candidate := filepath.Join(dir, name)
		if p.reserved[candidate] {
			continue
		}
		if _, err := os.Stat(candidate); err == nil {
			continue
		}
		p.reserved[candidate] = true
		return candidate
	}
}

// destination computes the directory and extension-less base name for a
// descriptor under the run's profile.
func (p *Placer) destination(desc domain.TrackDescriptor) (dir, base string) {
	artist := desc.AlbumArtist
	if artist == "" {
		artist = desc.Artist()
	}
	if artist == "" {
		artist = "Unknown Artist"
	}
	album := desc.Album
	if album == "" {
		album = "Unknown Album"
	}
	title := desc.Title
	if title == "" {
		title = desc.ID
	}

	if p.Profile.Kind == domain.ProfilePortable {
		// Portable players want a flat tree and strict ASCII names.
		base = portableSegment(artist) + "_-_" + portableSegment(title)
		if base == "_-_" {
			base = "track"
		}
		return p.Root, base
	}

	dir = filepath.Join(p.Root, Sanitize(artist), Sanitize(album))
	base = Sanitize(artist + " - " + title)
	if base == "" {
		base = "track"
	}
	return dir, base
}

// fitName trims the base so base+suffix+ext stays within maxLen. The suffix
// and extension always survive whole, and the cut never splits a rune.
func fitName(base, suffix, ext string, maxLen int) string {
	if maxLen <= 0 {
		return base + suffix + ext
	}

	budget := maxLen - len(suffix) - len(ext)
	if budget < 1 {
		budget = 1
	}
	if len(base) > budget {
		cut := base[:budget]
		for len(cut) > 0 && !utf8.ValidString(cut) {
			cut = cut[:len(cut)-1]
		}
		base = strings.TrimRight(cut, "_- .")
		if base == "" {
			base = "t"
		}
	}
	return base + suffix + ext
}

// CoverPath returns where the shared album cover lives for a descriptor, or
// "" when the profile keeps no cover files.
func (p *Placer) CoverPath(desc domain.TrackDescriptor) string {
	if p.Profile.Kind == domain.ProfilePortable {
		return ""
	}
	dir, _ := p.destination(desc)
	return filepath.Join(dir, constants.CoverFileName)
}
