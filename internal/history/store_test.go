// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"testing"
	"time"

	"github.com/pdiddy/daily-scholar/pkg/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.HistoryConfig{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndQueryRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := RunRecord{
		TargetDay:  time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		StartedAt:  time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2026, 3, 16, 8, 4, 30, 0, time.UTC),
		Pulled:     140,
		InWindow:   32,
		Ranked:     10,
		Analyzed:   7,
		CacheHits:  3,
		Dispatched: true,
	}
	papers := []RunPaper{
		{Rank: 1, Fingerprint: "aaa", Title: "First", URL: "u1", Score: 0.9},
		{Rank: 2, Fingerprint: "bbb", Title: "Second", URL: "u2", Score: 0.7},
	}

	runID, err := s.RecordRun(ctx, run, papers)
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if runID == 0 {
		t.Fatal("run id should be non-zero")
	}

	runs, err := s.RecentRuns(ctx, 5)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	got := runs[0]
	if !got.TargetDay.Equal(run.TargetDay) {
		t.Errorf("target day = %v, want %v", got.TargetDay, run.TargetDay)
	}
	if got.Pulled != 140 || got.Ranked != 10 || got.CacheHits != 3 {
		t.Errorf("counts mismatch: %+v", got)
	}
	if !got.Dispatched || got.Fallback {
		t.Errorf("flags mismatch: %+v", got)
	}

	back, err := s.RunPapers(ctx, runID)
	if err != nil {
		t.Fatalf("RunPapers: %v", err)
	}
	if len(back) != 2 {
		t.Fatalf("got %d papers, want 2", len(back))
	}
	if back[0].Rank != 1 || back[0].Fingerprint != "aaa" || back[0].Score != 0.9 {
		t.Errorf("first paper mismatch: %+v", back[0])
	}
}

func TestRecentRunsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for day := 10; day <= 12; day++ {
		run := RunRecord{
			TargetDay:  time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC),
			StartedAt:  time.Date(2026, 3, day+1, 8, 0, 0, 0, time.UTC),
			FinishedAt: time.Date(2026, 3, day+1, 8, 5, 0, 0, time.UTC),
		}
		if _, err := s.RecordRun(ctx, run, nil); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].TargetDay.Day() != 12 || runs[1].TargetDay.Day() != 11 {
		t.Errorf("order wrong: %v then %v", runs[0].TargetDay, runs[1].TargetDay)
	}
}

func TestStoreReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewStore(types.HistoryConfig{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	run := RunRecord{
		TargetDay:  time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		StartedAt:  time.Now().UTC(),
		FinishedAt: time.Now().UTC(),
	}
	if _, err := s.RecordRun(context.Background(), run, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := NewStore(types.HistoryConfig{Dir: dir})
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer s2.Close()

	runs, err := s2.RecentRuns(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Errorf("got %d runs after reopen, want 1", len(runs))
	}
}
