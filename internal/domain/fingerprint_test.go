package domain

import "testing"

func TestFold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Normal Title", "normal title"},
		{"  Padded   Out  ", "padded out"},
		{"Beyoncé", "beyonce"},
		{"Sigur Rós", "sigur ros"},
		{"Don't Stop Me Now!", "don t stop me now"},
		{"AC/DC", "ac dc"},
		{"", ""},
	}

	for _, tt := range tests {
		got := Fold(tt.input)
		if got != tt.expected {
			t.Errorf("Fold(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFingerprint_CaseAndDiacriticsCollapse(t *testing.T) {
	a := TrackDescriptor{Title: "Héroes", Artists: []string{"DAVID BOWIE"}, Album: "Heroes"}
	b := TrackDescriptor{Title: "heroes", Artists: []string{"david bowie"}, Album: "HEROES"}

	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("expected equal fingerprints, got %q vs %q", a.Fingerprint(), b.Fingerprint())
	}
}

func TestFingerprint_AlbumDistinguishes(t *testing.T) {
	studio := TrackDescriptor{Title: "Song", Artists: []string{"Artist"}, Album: "Studio"}
	live := TrackDescriptor{Title: "Song", Artists: []string{"Artist"}, Album: "Live at Budokan"}

	if studio.Fingerprint() == live.Fingerprint() {
		t.Error("different albums must not collide")
	}
}

func TestFingerprint_ISRCWins(t *testing.T) {
	a := TrackDescriptor{Title: "One Name", Artists: []string{"X"}, Album: "A", ISRC: "usrc17607839"}
	b := TrackDescriptor{Title: "Other Name", Artists: []string{"Y"}, Album: "B", ISRC: "USRC17607839"}

	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("ISRC fingerprints should match, got %q vs %q", a.Fingerprint(), b.Fingerprint())
	}
	if a.Fingerprint() != "isrc:USRC17607839" {
		t.Errorf("unexpected ISRC fingerprint %q", a.Fingerprint())
	}
}
