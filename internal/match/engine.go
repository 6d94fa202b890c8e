// Package match scores source candidates against a track descriptor.
package match

import (
	"strings"

	"github.com/khanCurtis/rustwav/internal/constants"
	"github.com/khanCurtis/rustwav/internal/domain"
)

// negativeKeywords mark candidates that are almost never the studio
// recording the catalog describes. A keyword only penalizes when the
// descriptor's own title does not carry it.
var negativeKeywords = []string{
	"live",
	"cover",
	"remix",
	"karaoke",
	"instrumental",
	"reaction",
	"sped up",
	"slowed",
	"nightcore",
	"8d audio",
}

// Engine selects the best candidate for a descriptor. Scoring is pure: the
// same inputs always produce the same choice.
type Engine struct {
	ToleranceMS int
	Threshold   float64
}

func NewEngine() *Engine {
	return &Engine{
		ToleranceMS: constants.DurationToleranceMS,
		Threshold:   constants.AcceptThreshold,
	}
}

// Select scores the candidates in their listed order and returns the best
// acceptable one. Ties keep the earlier candidate. When nothing clears the
// threshold a MatchError is returned.
func (e *Engine) Select(desc domain.TrackDescriptor, candidates []domain.CandidateSummary) (*domain.CandidateMatch, error) {
	var best *domain.CandidateMatch

	for _, cand := range candidates {
		score, ok := e.score(desc, cand)
		if !ok {
			continue
		}
		if best == nil || score > best.Score {
			best = &domain.CandidateMatch{Candidate: cand, Score: score}
		}
	}

	if best == nil || best.Score < e.Threshold {
		return nil, &domain.MatchError{TrackID: desc.ID, Query: desc.Artist() + " - " + desc.Title}
	}
	return best, nil
}

// score computes a candidate's score; ok is false when the candidate falls
// outside the duration window.
func (e *Engine) score(desc domain.TrackDescriptor, cand domain.CandidateSummary) (float64, bool) {
	durationScore := 0.0
	if desc.DurationMS > 0 && cand.DurationMS > 0 {
		delta := desc.DurationMS - cand.DurationMS
		if delta < 0 {
			delta = -delta
		}
		if delta > e.ToleranceMS {
			return 0, false
		}
		durationScore = 1 - float64(delta)/float64(e.ToleranceMS)
	}

	titleScore := tokenSetSimilarity(desc.Title, cand.Title)
	artistScore := tokenSetSimilarity(desc.Artist(), cand.Title+" "+cand.Uploader)

	score := constants.DurationWeight*durationScore +
		constants.TitleWeight*titleScore +
		constants.ArtistWeight*artistScore

	descTitle := domain.Fold(desc.Title)
	candText := domain.Fold(cand.Title)
	for _, kw := range negativeKeywords {
		if containsPhrase(candText, kw) && !containsPhrase(descTitle, kw) {
			score -= constants.KeywordPenalty
		}
	}

	return score, true
}

// tokenSetSimilarity is the Jaccard similarity of the folded token sets.
func tokenSetSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(domain.Fold(s)) {
		set[tok] = true
	}
	return set
}

// containsPhrase matches a folded keyword on token boundaries.
func containsPhrase(folded, phrase string) bool {
	if folded == phrase {
		return true
	}
	return strings.Contains(" "+folded+" ", " "+phrase+" ")
}
