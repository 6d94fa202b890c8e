package library

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/khanCurtis/rustwav/internal/constants"
)

// PlaylistEntry is one completed track in catalog order.
type PlaylistEntry struct {
	Path       string // absolute path of the placed file
	Artist     string
	Title      string
	DurationMS int
}

// WritePlaylist regenerates <name>.m3u in dir, listing entries in the order
// given with paths relative to the playlist file. The write is atomic; an
// existing playlist is replaced whole.
func WritePlaylist(dir, name string, entries []PlaylistEntry) (string, error) {
	filename := Sanitize(name)
	if filename == "" {
		filename = "playlist"
	}
	playlistPath := filepath.Join(dir, filename+constants.ExtM3U)

	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	for _, e := range entries {
		rel, err := filepath.Rel(dir, e.Path)
		if err != nil {
			// Paths outside the root fall back to the absolute form.
			rel = e.Path
		}
		seconds := e.DurationMS / 1000
		fmt.Fprintf(&b, "#EXTINF:%d,%s - %s\n%s\n", seconds, e.Artist, e.Title, rel)
	}

	if err := WriteFileAtomic(playlistPath, []byte(b.String())); err != nil {
		return "", fmt.Errorf("write playlist: %w", err)
	}
	return playlistPath, nil
}
