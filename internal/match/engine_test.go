package match

import (
	"errors"
	"testing"

	"github.com/khanCurtis/rustwav/internal/domain"
)

func desc() domain.TrackDescriptor {
	return domain.TrackDescriptor{
		ID:         "t1",
		Title:      "Golden Hour",
		Artists:    []string{"Kacey Musgraves"},
		Album:      "Golden Hour",
		DurationMS: 200_000,
	}
}

func TestSelect_DurationWindowExcludes(t *testing.T) {
	e := NewEngine()

	// Perfect textual match but a minute too long: must never be selected.
	only := []domain.CandidateSummary{
		{SourceID: "a", Title: "Kacey Musgraves - Golden Hour", Uploader: "Kacey Musgraves", DurationMS: 260_000},
	}
	_, err := e.Select(desc(), only)
	var me *domain.MatchError
	if !errors.As(err, &me) {
		t.Fatalf("expected match error, got %v", err)
	}
}

func TestSelect_PrefersCloseDuration(t *testing.T) {
	e := NewEngine()

	candidates := []domain.CandidateSummary{
		{SourceID: "far", Title: "Kacey Musgraves - Golden Hour", Uploader: "Kacey Musgraves", DurationMS: 209_000},
		{SourceID: "near", Title: "Kacey Musgraves - Golden Hour", Uploader: "Kacey Musgraves", DurationMS: 200_500},
	}
	got, err := e.Select(desc(), candidates)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if got.Candidate.SourceID != "near" {
		t.Errorf("expected the closer duration to win, got %s", got.Candidate.SourceID)
	}
}

func TestSelect_NegativeKeywordPenalty(t *testing.T) {
	e := NewEngine()

	candidates := []domain.CandidateSummary{
		{SourceID: "live", Title: "Kacey Musgraves - Golden Hour (Live)", Uploader: "Kacey Musgraves", DurationMS: 200_000},
		{SourceID: "studio", Title: "Kacey Musgraves - Golden Hour", Uploader: "Kacey Musgraves", DurationMS: 201_000},
	}
	got, err := e.Select(desc(), candidates)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if got.Candidate.SourceID != "studio" {
		t.Errorf("expected the studio upload to win over the live one, got %s", got.Candidate.SourceID)
	}
}

func TestSelect_KeywordInDescriptorNotPenalized(t *testing.T) {
	e := NewEngine()
	d := domain.TrackDescriptor{
		ID:         "t2",
		Title:      "Live Forever",
		Artists:    []string{"Oasis"},
		DurationMS: 276_000,
	}

	candidates := []domain.CandidateSummary{
		{SourceID: "a", Title: "Oasis - Live Forever", Uploader: "Oasis", DurationMS: 276_000},
	}
	got, err := e.Select(d, candidates)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if got.Candidate.SourceID != "a" {
		t.Errorf("unexpected selection %s", got.Candidate.SourceID)
	}
}

func TestSelect_TieKeepsFirstListed(t *testing.T) {
	e := NewEngine()

	candidates := []domain.CandidateSummary{
		{SourceID: "first", Title: "Kacey Musgraves - Golden Hour", Uploader: "Kacey Musgraves", DurationMS: 200_000},
		{SourceID: "second", Title: "Kacey Musgraves - Golden Hour", Uploader: "Kacey Musgraves", DurationMS: 200_000},
	}
	got, err := e.Select(desc(), candidates)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if got.Candidate.SourceID != "first" {
		t.Errorf("expected the first-listed candidate on a tie, got %s", got.Candidate.SourceID)
	}
}

func TestSelect_Deterministic(t *testing.T) {
	e := NewEngine()
	candidates := []domain.CandidateSummary{
		{SourceID: "a", Title: "Golden Hour cover", DurationMS: 199_000},
		{SourceID: "b", Title: "Kacey Musgraves - Golden Hour", Uploader: "Kacey Musgraves", DurationMS: 202_000},
		{SourceID: "c", Title: "Golden Hour sped up", DurationMS: 180_000},
	}

	first, err := e.Select(desc(), candidates)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := e.Select(desc(), candidates)
		if err != nil {
			t.Fatalf("Select failed on repeat: %v", err)
		}
		if again.Candidate.SourceID != first.Candidate.SourceID || again.Score != first.Score {
			t.Fatalf("selection not deterministic: %+v vs %+v", first, again)
		}
	}
}

func TestSelect_NothingAcceptable(t *testing.T) {
	e := NewEngine()
	candidates := []domain.CandidateSummary{
		{SourceID: "junk", Title: "unrelated video"},
	}
	_, err := e.Select(desc(), candidates)
	var me *domain.MatchError
	if !errors.As(err, &me) {
		t.Fatalf("expected match error, got %v", err)
	}
	if me.TrackID != "t1" {
		t.Errorf("match error should carry the track ID, got %q", me.TrackID)
	}
}

func TestTokenSetSimilarity(t *testing.T) {
	if got := tokenSetSimilarity("Golden Hour", "golden hour"); got != 1 {
		t.Errorf("identical token sets should score 1, got %f", got)
	}
	if got := tokenSetSimilarity("Golden Hour", "totally different"); got != 0 {
		t.Errorf("disjoint token sets should score 0, got %f", got)
	}
	if got := tokenSetSimilarity("", "anything"); got != 0 {
		t.Errorf("empty input should score 0, got %f", got)
	}
}
