// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank orders candidate papers by quality score and selects the
// top N.
package rank

import (
	"sort"

	"github.com/pdiddy/daily-scholar/pkg/types"
)

// Scorer maps a paper to a real-valued quality score. Implementations must
// be deterministic and side-effect-free; the ranker never caches scores.
type Scorer interface {
	Score(p types.PaperRecord) float64
}

// Rank scores the papers, sorts them into a stable descending order, and
// returns the top n as ScoredCandidates with dense 1-based ranks.
//
// n below 1 is treated as 1. Ties in score preserve the papers' relative
// input order. The input slice is not modified.
func Rank(papers []types.PaperRecord, scorer Scorer, n int) []types.ScoredCandidate {
	if n < 1 {
		n = 1
	}

	candidates := make([]types.ScoredCandidate, 0, len(papers))
	for _, p := range papers {
		candidates = append(candidates, types.ScoredCandidate{
			PaperRecord: p,
			Score:       scorer.Score(p),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}

	// Ranks only exist after the sort.
	for i := range candidates {
		candidates[i].Rank = i + 1
	}
	return candidates
}
