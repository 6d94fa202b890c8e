package catalog

import (
	"strings"

	"github.com/khanCurtis/rustwav/internal/domain"
)

// ParseLink extracts the link kind and ID from a catalog URL. Anything that
// does not carry an album or playlist segment with a non-empty ID is
// malformed.
func ParseLink(raw string) (domain.Link, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.Link{}, &domain.ResolutionError{Kind: domain.ResolutionMalformedLink, Link: raw}
	}

	for _, probe := range []struct {
		segment string
		kind    domain.LinkKind
	}{
		{"/album/", domain.LinkKindAlbum},
		{"/playlist/", domain.LinkKindPlaylist},
	} {
		idx := strings.Index(trimmed, probe.segment)
		if idx < 0 {
			continue
		}
		id := trimmed[idx+len(probe.segment):]
		// Drop query string and trailing path segments.
		if q := strings.IndexByte(id, '?'); q >= 0 {
			id = id[:q]
		}
		if s := strings.IndexByte(id, '/'); s >= 0 {
			id = id[:s]
		}
		if id == "" {
			return domain.Link{}, &domain.ResolutionError{Kind: domain.ResolutionMalformedLink, Link: raw}
		}
		return domain.Link{Kind: probe.kind, ID: id}, nil
	}

	return domain.Link{}, &domain.ResolutionError{Kind: domain.ResolutionMalformedLink, Link: raw}
}
