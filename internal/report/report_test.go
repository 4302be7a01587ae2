// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/daily-scholar/pkg/types"
)

var testDay = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func newTestAssembler(t *testing.T) *Assembler {
	t.Helper()
	a, err := NewAssembler(types.ReportConfig{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewAssembler: %v", err)
	}
	return a
}

func TestWriteRankingCSV(t *testing.T) {
	a := newTestAssembler(t)

	ranked := []types.ScoredCandidate{
		{
			PaperRecord: types.PaperRecord{
				URL:        "http://arxiv.org/abs/2403.01001",
				Title:      "First\nPaper",
				Authors:    []string{"Alice", "Bob"},
				Categories: []string{"cs.AI", "cs.LG"},
				Abstract:   "Line one.\nLine two.",
				Submitted:  time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC),
				Updated:    time.Date(2026, 3, 16, 1, 0, 0, 0, time.UTC),
			},
			Score: 0.875,
			Rank:  1,
		},
		{
			PaperRecord: types.PaperRecord{URL: "http://arxiv.org/abs/2403.01002", Title: "Second"},
			Score:       0.5,
			Rank:        2,
		},
	}

	path, err := a.WriteRankingCSV(testDay, ranked)
	if err != nil {
		t.Fatalf("WriteRankingCSV: %v", err)
	}
	if got, want := filepath.Base(path), "top2_20260315.csv"; got != want {
		t.Errorf("file name = %q, want %q", got, want)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading CSV back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "rank" || rows[0][8] != "abstract" {
		t.Errorf("unexpected header: %v", rows[0])
	}

	first := rows[1]
	if first[0] != "1" {
		t.Errorf("rank = %q", first[0])
	}
	if first[1] != "First Paper" {
		t.Errorf("title newline not flattened: %q", first[1])
	}
	if first[3] != "0.88" {
		t.Errorf("score = %q, want %q", first[3], "0.88")
	}
	if first[4] != "2" {
		t.Errorf("author count = %q, want %q", first[4], "2")
	}
	if first[6] != "2026-03-15" || first[7] != "2026-03-16" {
		t.Errorf("dates = %q / %q", first[6], first[7])
	}
	if first[8] != "Line one. Line two." {
		t.Errorf("abstract = %q", first[8])
	}
}

func TestWriteRankingCSVOverwritesSameDay(t *testing.T) {
	a := newTestAssembler(t)

	ranked := []types.ScoredCandidate{{PaperRecord: types.PaperRecord{Title: "One"}, Rank: 1}}
	if _, err := a.WriteRankingCSV(testDay, ranked); err != nil {
		t.Fatal(err)
	}
	ranked[0].Title = "Two"
	path, err := a.WriteRankingCSV(testDay, ranked)
	if err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Two") || strings.Contains(string(data), "One") {
		t.Errorf("rerun should overwrite the day's file, got:\n%s", data)
	}
}

func TestWriteAnalysisJSON(t *testing.T) {
	a := newTestAssembler(t)

	results := []types.AnalysisResult{{
		PaperID:     "http://arxiv.org/abs/2403.01001",
		Title:       "A Paper",
		Summary:     "<h2>Problem</h2>",
		Translation: "<strong>모델</strong> 제안",
		SubmittedAt: time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC),
	}}

	now := time.Date(2026, 3, 16, 8, 5, 9, 0, time.UTC)
	path, err := a.WriteAnalysisJSON(now, results)
	if err != nil {
		t.Fatalf("WriteAnalysisJSON: %v", err)
	}
	if got, want := filepath.Base(path), "analysis_results_20260316_080509.json"; got != want {
		t.Errorf("file name = %q, want %q", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	// HTML fragments must survive unescaped.
	if !strings.Contains(string(data), "<h2>Problem</h2>") {
		t.Errorf("summary HTML was escaped:\n%s", data)
	}

	var back []types.AnalysisResult
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshaling back: %v", err)
	}
	if len(back) != 1 || back[0].Title != "A Paper" {
		t.Errorf("round trip mismatch: %+v", back)
	}
}

func TestRenderHTML(t *testing.T) {
	results := []types.AnalysisResult{{
		Title:          "Spiking Networks Underwater",
		SourceURL:      "http://arxiv.org/abs/2403.01001",
		Classification: "Computer Vision",
		Tags:           []string{"Object Detection", "Energy Efficiency"},
		Summary:        "<h2>Problem</h2>\n<p>Murky water.</p>",
		Translation:    "<strong>스파이킹 네트워크</strong> 기반 탐지",
		Score:          0.91,
		SubmittedAt:    time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC),
	}}

	now := time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC)
	body, err := RenderHTML(testDay, now, results)
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}

	for _, want := range []string{
		"2026-03-15",
		`<a href="http://arxiv.org/abs/2403.01001">Spiking Networks Underwater</a>`,
		`<span class="tag">Object Detection</span>`,
		"<h2>Problem</h2>",
		"<strong>스파이킹 네트워크</strong>",
		"score 0.91",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}
}

func TestWriteHTMLReport(t *testing.T) {
	a := newTestAssembler(t)

	now := time.Date(2026, 3, 16, 8, 5, 9, 0, time.UTC)
	body, path, err := a.WriteHTMLReport(testDay, now, nil)
	if err != nil {
		t.Fatalf("WriteHTMLReport: %v", err)
	}
	if got, want := filepath.Base(path), "report_20260316_080509.html"; got != want {
		t.Errorf("file name = %q, want %q", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != body {
		t.Error("stored report differs from returned body")
	}
	if !strings.Contains(body, "0 papers") {
		t.Errorf("empty digest should still render, got:\n%s", body)
	}
}
