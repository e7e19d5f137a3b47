// Package highlights scores transcript entries and selects clip windows.
package highlights

import (
	"strings"

	"github.com/openshorts/openshorts/internal/types"
)

// DefaultKeywords biases selection toward punchy, keyword-dense speech.
// Swappable through configuration for localization and tests.
var DefaultKeywords = []string{
	"tip", "secret", "mistake", "common", "best", "worst", "always", "never",
	"how to", "here's", "watch this", "listen", "idea", "hack", "strategy",
	"story", "example", "because", "why", "myth", "truth",
}

// Scorer assigns a score to each entry from lexical and pacing signals.
// The zero value is unusable; construct via NewScorer or from config.
type Scorer struct {
	// Keywords are matched as case-insensitive substrings; every
	// occurrence is worth one point, uncapped.
	Keywords []string
	// PaceFloor is the minimum duration used for the words-per-second
	// calculation, guarding against near-zero entry durations.
	PaceFloor float64
	// PaceDivisor normalizes words-per-second before capping.
	PaceDivisor float64
	// PaceCap limits the pacing term so very short bursts cannot
	// dominate purely on density.
	PaceCap float64
}

// NewScorer returns a Scorer with the stock keyword list and constants.
func NewScorer() Scorer {
	return Scorer{
		Keywords:    DefaultKeywords,
		PaceFloor:   0.5,
		PaceDivisor: 3.0,
		PaceCap:     1.0,
	}
}

// Score returns a new scored slice; the input entries are never mutated.
func (s Scorer) Score(entries []types.Entry) []types.ScoredEntry {
	out := make([]types.ScoredEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, types.ScoredEntry{Entry: e, Score: s.scoreOne(e)})
	}
	return out
}

func (s Scorer) scoreOne(e types.Entry) float64 {
	lower := strings.ToLower(e.Text)

	score := 0.0
	for _, kw := range s.Keywords {
		if kw == "" {
			continue
		}
		score += float64(strings.Count(lower, strings.ToLower(kw)))
	}

	words := float64(len(strings.Fields(e.Text)))
	dur := e.End - e.Start
	if dur < s.PaceFloor {
		dur = s.PaceFloor
	}
	pace := words / dur / s.PaceDivisor
	if pace > s.PaceCap {
		pace = s.PaceCap
	}
	return score + pace
}
