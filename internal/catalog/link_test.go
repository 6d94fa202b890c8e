package catalog

import (
	"errors"
	"testing"

	"github.com/khanCurtis/rustwav/internal/domain"
)

func TestParseLink(t *testing.T) {
	tests := []struct {
		raw      string
		kind     domain.LinkKind
		id       string
	}{
		{"https://open.spotify.com/album/4aawyAB9vmqN3uQ7FjRGTy", domain.LinkKindAlbum, "4aawyAB9vmqN3uQ7FjRGTy"},
		{"https://open.spotify.com/album/4aawyAB9vmqN3uQ7FjRGTy?si=xyz", domain.LinkKindAlbum, "4aawyAB9vmqN3uQ7FjRGTy"},
		{"https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M", domain.LinkKindPlaylist, "37i9dQZF1DXcBWIGoYBM5M"},
		{"https://example.com/playlist/abc/extra", domain.LinkKindPlaylist, "abc"},
	}

	for _, tt := range tests {
		link, err := ParseLink(tt.raw)
		if err != nil {
			t.Errorf("ParseLink(%q) failed: %v", tt.raw, err)
			continue
		}
		if link.Kind != tt.kind || link.ID != tt.id {
			t.Errorf("ParseLink(%q) = %+v, want kind=%s id=%s", tt.raw, link, tt.kind, tt.id)
		}
	}
}

func TestParseLink_Malformed(t *testing.T) {
	for _, raw := range []string{
		"",
		"https://open.spotify.com/track/abc",
		"https://open.spotify.com/album/",
		"https://open.spotify.com/album/?si=x",
		"not a link",
	} {
		_, err := ParseLink(raw)
		if err == nil {
			t.Errorf("ParseLink(%q) should fail", raw)
			continue
		}
		var re *domain.ResolutionError
		if !errors.As(err, &re) || re.Kind != domain.ResolutionMalformedLink {
			t.Errorf("ParseLink(%q) error = %v, want malformed link", raw, err)
		}
	}
}
