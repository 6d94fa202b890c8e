package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips diacritics: decompose, drop combining marks,
// recompose.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold normalizes a metadata field for identity comparison: diacritics
// stripped, lowercased, punctuation removed, whitespace collapsed.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	lastSpace := true
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsSymbol(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// Fingerprint derives the dedup identity for a track. The ISRC wins when the
// catalog provides one; otherwise the identity is the folded
// artist/title/album triple. Two descriptors that fold to the same values are
// the same acquisition.
func (d TrackDescriptor) Fingerprint() string {
	if d.ISRC != "" {
		return "isrc:" + strings.ToUpper(strings.TrimSpace(d.ISRC))
	}
	return Fold(d.Artist()) + "|" + Fold(d.Title) + "|" + Fold(d.Album)
}
