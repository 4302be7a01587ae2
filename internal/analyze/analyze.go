// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze produces the narrative analysis of a paper: field
// classification, topic tags, a structured summary, and a Korean
// translation of the abstract.
package analyze

import (
	"context"

	"github.com/pdiddy/daily-scholar/pkg/types"
)

// Analyzer turns a paper into an AnalysisResult. Calls may be slow and
// expensive; the pipeline gates them behind the cache store, so an
// implementation never needs to deduplicate on its own. Implementations
// fill the analysis fields only — the pipeline attaches SubmittedAt,
// SourceURL, and Score afterwards.
type Analyzer interface {
	Analyze(ctx context.Context, p types.PaperRecord) (types.AnalysisResult, error)
}
