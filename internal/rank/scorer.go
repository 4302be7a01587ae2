// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"strings"
	"time"
	"unicode"

	"github.com/pdiddy/daily-scholar/pkg/types"
)

// GateScorer is the simple completeness gate: a paper earns fixed
// increments for having a title, at least two authors, at least one
// category, and a substantive abstract. Scores land in [0, 1].
type GateScorer struct{}

// Score implements Scorer.
func (GateScorer) Score(p types.PaperRecord) float64 {
	score := 0.0
	if len(p.Title) > 0 {
		score += 0.2
	}
	if len(p.Authors) >= 2 {
		score += 0.2
	}
	if len(p.Categories) >= 1 {
		score += 0.2
	}
	if len(p.Abstract) > 100 {
		score += 0.4
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// Component weights for the composite score.
const (
	weightAuthor  = 0.3
	weightPaper   = 0.3
	weightTime    = 0.2
	weightContent = 0.2
)

// methodKeywords and evalKeywords are abstract-content signals for the
// composite scorer.
var (
	methodKeywords = []string{"method", "approach", "algorithm", "technique", "framework", "model", "architecture"}
	evalKeywords   = []string{"experiment", "evaluation", "result", "performance", "benchmark", "comparison"}
)

// CompositeScorer weighs author, paper, recency, and content quality
// indicators. The recency component measures against Clock, which tests
// pin to a fixed instant; a nil Clock uses time.Now.
type CompositeScorer struct {
	Clock func() time.Time
}

// Score implements Scorer.
func (c CompositeScorer) Score(p types.PaperRecord) float64 {
	now := time.Now
	if c.Clock != nil {
		now = c.Clock
	}
	return weightAuthor*authorScore(p) +
		weightPaper*paperScore(p) +
		weightTime*timeScore(p, now().UTC()) +
		weightContent*contentScore(p)
}

// authorScore favors small author groups and complete author metadata.
func authorScore(p types.PaperRecord) float64 {
	score := 0.0
	switch n := len(p.Authors); {
	case n >= 1 && n <= 3:
		score += 1.0
	case n >= 4 && n <= 5:
		score += 0.8
	case n >= 6 && n <= 8:
		score += 0.5
	default:
		score += 0.3
	}

	named := 0
	for _, a := range p.Authors {
		if strings.TrimSpace(a) != "" {
			named++
		}
	}
	switch {
	case len(p.Authors) > 0 && named == len(p.Authors):
		score += 0.5
	case named > 0:
		score += 0.3
	}
	return score
}

// paperScore rates title shape, abstract length, and category breadth.
func paperScore(p types.PaperRecord) float64 {
	score := 0.0

	titleWords := strings.Fields(p.Title)
	switch n := len(titleWords); {
	case n >= 5 && n <= 10:
		score += 0.8
	case n >= 11 && n <= 15:
		score += 0.6
	default:
		score += 0.4
	}
	for _, w := range titleWords {
		r := []rune(w)
		if len(r) > 0 && unicode.IsUpper(r[0]) {
			score += 0.2
			break
		}
	}

	switch n := len(strings.Fields(p.Abstract)); {
	case n >= 200:
		score += 0.8
	case n >= 100:
		score += 0.6
	default:
		score += 0.4
	}

	switch n := len(p.Categories); {
	case n >= 3:
		score += 0.5
	case n == 2:
		score += 0.3
	default:
		score += 0.1
	}
	return score
}

// timeScore favors recently updated papers and prompt revisions.
func timeScore(p types.PaperRecord, now time.Time) float64 {
	score := 0.0

	age := now.Sub(p.Updated)
	switch days := int(age.Hours() / 24); {
	case days <= 1:
		score += 0.5
	case days <= 3:
		score += 0.4
	case days <= 5:
		score += 0.3
	default:
		score += 0.2
	}

	if !p.Updated.Equal(p.Submitted) {
		revisionLag := p.Updated.Sub(p.Submitted)
		if int(revisionLag.Hours()/24) <= 3 {
			score += 0.5
		} else {
			score += 0.3
		}
	}
	return score
}

// contentScore counts methodology and evaluation vocabulary in the abstract.
func contentScore(p types.PaperRecord) float64 {
	abstract := strings.ToLower(p.Abstract)

	methods := 0.0
	for _, kw := range methodKeywords {
		if strings.Contains(abstract, kw) {
			methods += 0.2
		}
	}
	if methods > 0.6 {
		methods = 0.6
	}

	evals := 0.0
	for _, kw := range evalKeywords {
		if strings.Contains(abstract, kw) {
			evals += 0.2
		}
	}
	if evals > 0.4 {
		evals = 0.4
	}

	return methods + evals
}

// NewScorer returns the scorer selected by kind, defaulting to the
// composite scorer.
func NewScorer(kind types.ScorerKind) Scorer {
	if kind == types.ScorerGate {
		return GateScorer{}
	}
	return CompositeScorer{}
}
