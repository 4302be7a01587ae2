// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes the daily artifacts: the ranking CSV, the
// analysis JSON, and the HTML report body.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/daily-scholar/pkg/types"
)

// Assembler writes artifacts under the configured data directory:
// rankings/ for CSVs, analysis/ for JSON, reports/ for rendered HTML.
type Assembler struct {
	dataDir string
}

// NewAssembler creates the artifact directories if needed.
func NewAssembler(cfg types.ReportConfig) (*Assembler, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	for _, sub := range []string{"rankings", "analysis", "reports"} {
		if err := os.MkdirAll(filepath.Join(dataDir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("creating artifact directory: %w", err)
		}
	}
	return &Assembler{dataDir: dataDir}, nil
}

// csvHeader is the fixed column set of the ranking CSV.
var csvHeader = []string{"rank", "title", "url", "score", "author_count", "categories", "published", "updated", "abstract"}

// WriteRankingCSV writes the ranked papers for the target day. The file
// is named after the day, so a rerun for the same day overwrites it.
// Returns the path written.
func (a *Assembler) WriteRankingCSV(target time.Time, ranked []types.ScoredCandidate) (string, error) {
	path := filepath.Join(a.dataDir, "rankings", fmt.Sprintf("top%d_%s.csv", len(ranked), target.UTC().Format("20060102")))

	tmp, err := os.CreateTemp(filepath.Dir(path), ".ranking-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing CSV header: %w", err)
	}
	for _, c := range ranked {
		row := []string{
			strconv.Itoa(c.Rank),
			flatten(c.Title),
			c.URL,
			fmt.Sprintf("%.2f", c.Score),
			strconv.Itoa(len(c.Authors)),
			strings.Join(c.Categories, "; "),
			c.Submitted.UTC().Format("2006-01-02"),
			c.Updated.UTC().Format("2006-01-02"),
			flatten(c.Abstract),
		}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return "", fmt.Errorf("writing CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("flushing CSV: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("renaming CSV into place: %w", err)
	}
	return path, nil
}

// WriteAnalysisJSON writes the analysis results as a timestamped JSON
// file, so successive runs for the same day accumulate instead of
// overwriting. Returns the path written.
func (a *Assembler) WriteAnalysisJSON(now time.Time, results []types.AnalysisResult) (string, error) {
	path := filepath.Join(a.dataDir, "analysis", fmt.Sprintf("analysis_results_%s.json", now.UTC().Format("20060102_150405")))

	tmp, err := os.CreateTemp(filepath.Dir(path), ".analysis-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encoding analysis results: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("renaming JSON into place: %w", err)
	}
	return path, nil
}

// flatten collapses newlines and runs of whitespace into single spaces,
// keeping CSV rows one line each.
func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
