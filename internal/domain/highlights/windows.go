package highlights

import (
	"errors"
	"sort"

	"github.com/openshorts/openshorts/internal/types"
)

// ErrUnknownDuration is returned when the source duration is unknown
// (probe failed or reported zero). Selecting windows against an unknown
// timeline would only produce zero-length clips, so it is an explicit
// error rather than a silent degenerate result.
var ErrUnknownDuration = errors.New("highlights: source duration unknown")

const (
	// fallbackScore marks sequential-chop windows, which carry no signal.
	fallbackScore = 0.1
	// overlapFrac is the greedy dedupe threshold: a candidate is dropped
	// when it overlaps an accepted window by at least this fraction of
	// the shorter of the two.
	overlapFrac = 0.5
)

// Selector turns scored entries into a bounded set of clip windows.
type Selector struct {
	// TargetLen is the desired window length in seconds.
	TargetLen float64
	// MaxClips bounds the number of returned windows.
	MaxClips int
	// SeedThreshold is the minimum entry score that seeds a candidate
	// window. Entries below it still contribute to aggregate scores.
	SeedThreshold float64
}

// Select returns at most MaxClips non-redundant windows, ordered by
// descending aggregate score. With no entries, or none reaching the seed
// threshold, it falls back to chopping the timeline sequentially.
func (s Selector) Select(entries []types.ScoredEntry, duration float64) ([]types.ClipWindow, error) {
	if duration <= 0 {
		return nil, ErrUnknownDuration
	}

	var cands []types.ClipWindow
	for _, e := range entries {
		if e.Score < s.SeedThreshold {
			continue
		}
		cands = append(cands, s.seed(e, duration, entries))
	}
	if len(cands) == 0 {
		return s.chop(duration), nil
	}

	// Descending by aggregate score; stable keeps insertion order on ties
	// so results are deterministic.
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].Score > cands[j].Score })

	var picked []types.ClipWindow
	for _, c := range cands {
		if len(picked) >= s.MaxClips {
			break
		}
		redundant := false
		for _, p := range picked {
			if overlaps(c, p, overlapFrac) {
				redundant = true
				break
			}
		}
		if !redundant {
			picked = append(picked, c)
		}
	}
	return picked, nil
}

// seed centers a TargetLen window on the entry midpoint, shifting left when
// the right edge would pass the source end and clamping to
// [0, min(TargetLen, duration)].
func (s Selector) seed(e types.ScoredEntry, duration float64, all []types.ScoredEntry) types.ClipWindow {
	center := (e.Start + e.End) / 2
	start := center - s.TargetLen/2
	if start < 0 {
		start = 0
	}
	end := start + s.TargetLen
	if end > duration {
		end = duration
		start = end - s.TargetLen
		if start < 0 {
			start = 0
		}
	}

	// Aggregate score sums every entry touching the window; sharing a
	// boundary counts as touching.
	score := 0.0
	for _, o := range all {
		if o.End < start || o.Start > end {
			continue
		}
		score += o.Score
	}
	return types.ClipWindow{Start: start, End: end, Score: score}
}

// chop produces evenly spaced fallback windows [0,L), [L,2L), ... clamped
// to the source duration.
func (s Selector) chop(duration float64) []types.ClipWindow {
	var out []types.ClipWindow
	for t := 0.0; t < duration && len(out) < s.MaxClips; t += s.TargetLen {
		end := t + s.TargetLen
		if end > duration {
			end = duration
		}
		out = append(out, types.ClipWindow{Start: t, End: end, Score: fallbackScore})
	}
	return out
}

func overlaps(a, b types.ClipWindow, frac float64) bool {
	lo := a.Start
	if b.Start > lo {
		lo = b.Start
	}
	hi := a.End
	if b.End < hi {
		hi = b.End
	}
	inter := hi - lo
	if inter < 0 {
		inter = 0
	}
	shorter := a.Duration()
	if b.Duration() < shorter {
		shorter = b.Duration()
	}
	return inter >= frac*shorter
}
