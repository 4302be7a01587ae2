// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data model and stage configurations for
// the daily-scholar pipeline.
package types

import "time"

// PaperRecord holds the metadata of one listed paper. Records are
// immutable once fetched from the listing source.
type PaperRecord struct {
	// URL is the paper's abstract page URL and serves as its stable identity.
	URL string `json:"url" yaml:"url"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Categories lists the subject categories (e.g. "cs.AI", "cs.LG").
	Categories []string `json:"categories" yaml:"categories"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Submitted is the original submission timestamp (UTC).
	Submitted time.Time `json:"submitted" yaml:"submitted"`

	// Updated is the last revision timestamp (UTC).
	Updated time.Time `json:"updated" yaml:"updated"`
}

// ScoredCandidate is a PaperRecord with its quality score and final rank.
// Rank is 1-based and dense, assigned only after the stable descending
// sort; candidates with equal scores keep their input order.
type ScoredCandidate struct {
	PaperRecord `yaml:",inline"`

	Score float64 `json:"score" yaml:"score"`
	Rank  int     `json:"rank" yaml:"rank"`
}

// AnalysisResult is the externally produced analysis of one paper. A
// result is created once per fingerprint, cached, and never mutated.
type AnalysisResult struct {
	// PaperID is the paper's identity URL.
	PaperID string `json:"paper_id" yaml:"paper_id"`

	// Title is the paper title.
	Title string `json:"title" yaml:"title"`

	// Classification is the main research field assigned by the analyzer.
	Classification string `json:"classification" yaml:"classification"`

	// Tags are topic labels assigned by the analyzer.
	Tags []string `json:"tags" yaml:"tags"`

	// Summary is the structured summary, in HTML.
	Summary string `json:"summary" yaml:"summary"`

	// Translation is the Korean translation of the abstract, in HTML.
	Translation string `json:"translation" yaml:"translation"`

	// OriginalAbstract is the untranslated abstract.
	OriginalAbstract string `json:"original_abstract" yaml:"original_abstract"`

	// Score is the quality score the paper ranked with.
	Score float64 `json:"score" yaml:"score"`

	// SubmittedAt is the original submission timestamp, attached by the
	// pipeline (the analyzer does not know it).
	SubmittedAt time.Time `json:"submitted_at" yaml:"submitted_at"`

	// SourceURL is the paper's source URL, attached by the pipeline.
	SourceURL string `json:"source_url" yaml:"source_url"`
}
