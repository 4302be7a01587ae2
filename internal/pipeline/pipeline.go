// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the daily cycle end to end: resolve the day's
// papers, rank them, analyze through the cache, write artifacts, and
// dispatch the digest.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/daily-scholar/internal/analyze"
	"github.com/pdiddy/daily-scholar/internal/cache"
	"github.com/pdiddy/daily-scholar/internal/history"
	"github.com/pdiddy/daily-scholar/internal/listing"
	"github.com/pdiddy/daily-scholar/internal/rank"
	"github.com/pdiddy/daily-scholar/internal/report"
	"github.com/pdiddy/daily-scholar/internal/window"
	"github.com/pdiddy/daily-scholar/pkg/types"
)

// Dispatcher delivers the rendered digest. Delivery failure never fails
// the run; artifacts on disk are the primary output.
type Dispatcher interface {
	Send(subject, htmlBody string) error
}

// Pipeline wires the stages of one daily cycle. History and Dispatcher
// are optional; a nil field disables that stage.
type Pipeline struct {
	// NewSource returns a fresh listing cursor per run.
	NewSource func() listing.Source

	Scorer     rank.Scorer
	Cache      *cache.Store
	Analyzer   analyze.Analyzer
	Assembler  *report.Assembler
	Dispatcher Dispatcher
	History    *history.Store
	Log        zerolog.Logger

	TopN   int
	Window window.Options

	// Now stamps artifacts; defaults to time.Now.
	Now func() time.Time
}

// Summary reports what one run produced.
type Summary struct {
	TargetDay   time.Time
	Pulled      int
	InWindow    int
	Fallback    bool
	Ranked      int
	Analyzed    int
	CacheHits   int
	FailedItems int
	Dispatched  bool

	CSVPath    string
	JSONPath   string
	ReportPath string
}

// Run executes the cycle for the target day. A failure before any paper
// is resolved aborts the run; everything downstream degrades per stage
// instead, and the returned Summary reflects what actually happened.
func (p *Pipeline) Run(ctx context.Context, target time.Time) (summary Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline panicked: %v", r)
			p.Log.Error().Interface("panic", r).Msg("run aborted by panic")
		}
	}()

	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	startedAt := now().UTC()

	res, err := window.Resolve(ctx, p.NewSource(), target, p.Window, p.Log)
	if err != nil {
		return Summary{}, fmt.Errorf("resolving day %s: %w", target.UTC().Format("2006-01-02"), err)
	}

	summary = Summary{
		TargetDay: target,
		Pulled:    res.Pulled,
		InWindow:  len(res.Papers),
		Fallback:  res.Fallback,
	}
	if len(res.Papers) == 0 {
		p.Log.Warn().Time("target", target).Msg("no papers resolved, nothing to report")
		return summary, nil
	}

	ranked := rank.Rank(res.Papers, p.Scorer, p.TopN)
	summary.Ranked = len(ranked)

	results := p.analyzeAll(ctx, ranked, &summary)

	if path, err := p.Assembler.WriteRankingCSV(target, ranked); err != nil {
		p.Log.Error().Err(err).Msg("writing ranking CSV failed")
	} else {
		summary.CSVPath = path
	}

	if len(results) > 0 {
		if path, err := p.Assembler.WriteAnalysisJSON(now(), results); err != nil {
			p.Log.Error().Err(err).Msg("writing analysis JSON failed")
		} else {
			summary.JSONPath = path
		}

		body, path, err := p.Assembler.WriteHTMLReport(target, now(), results)
		if err != nil {
			p.Log.Error().Err(err).Msg("rendering report failed")
		} else {
			summary.ReportPath = path
			summary.Dispatched = p.dispatch(target, body)
		}
	} else {
		p.Log.Warn().Msg("no analysis results, skipping report and dispatch")
	}

	p.recordRun(ctx, startedAt, now().UTC(), ranked, summary)
	return summary, nil
}

// analyzeAll produces analysis results for the ranked papers, consulting
// the cache before each analyzer call. A failure on one paper skips that
// paper only.
func (p *Pipeline) analyzeAll(ctx context.Context, ranked []types.ScoredCandidate, summary *Summary) []types.AnalysisResult {
	var results []types.AnalysisResult
	for _, c := range ranked {
		fp := cache.FingerprintRecord(c.PaperRecord)
		log := p.Log.With().Str("fingerprint", fp[:12]).Str("title", c.Title).Logger()

		cached, ok, err := p.Cache.Get(fp)
		if err != nil {
			// Treat an unreadable entry as a miss; a spurious re-analysis
			// beats a lost paper.
			log.Warn().Err(err).Msg("cache read failed, re-analyzing")
		}
		if ok && err == nil {
			summary.CacheHits++
			results = append(results, p.finishResult(cached, c))
			continue
		}

		result, err := p.Analyzer.Analyze(ctx, c.PaperRecord)
		if err != nil {
			summary.FailedItems++
			log.Error().Err(err).Msg("analysis failed, skipping paper")
			continue
		}
		summary.Analyzed++

		result = p.finishResult(result, c)
		if err := p.Cache.Put(fp, result); err != nil {
			log.Warn().Err(err).Msg("cache write failed")
		}
		results = append(results, result)
	}
	return results
}

// finishResult attaches the ranking context the analyzer does not know.
func (p *Pipeline) finishResult(r types.AnalysisResult, c types.ScoredCandidate) types.AnalysisResult {
	r.Score = c.Score
	r.SubmittedAt = c.Submitted
	r.SourceURL = c.URL
	return r
}

// dispatch sends the digest; failure is logged and reported, not fatal.
func (p *Pipeline) dispatch(target time.Time, body string) bool {
	if p.Dispatcher == nil {
		return false
	}
	subject := fmt.Sprintf("Top AI Papers %s", target.UTC().Format("2006-01-02"))
	if err := p.Dispatcher.Send(subject, body); err != nil {
		p.Log.Error().Err(err).Msg("digest dispatch failed")
		return false
	}
	return true
}

// recordRun writes the run to the history ledger; failure is non-fatal.
func (p *Pipeline) recordRun(ctx context.Context, startedAt, finishedAt time.Time, ranked []types.ScoredCandidate, summary Summary) {
	if p.History == nil {
		return
	}

	run := history.RunRecord{
		TargetDay:   summary.TargetDay,
		StartedAt:   startedAt,
		FinishedAt:  finishedAt,
		Pulled:      summary.Pulled,
		InWindow:    summary.InWindow,
		Ranked:      summary.Ranked,
		Analyzed:    summary.Analyzed,
		CacheHits:   summary.CacheHits,
		Fallback:    summary.Fallback,
		Dispatched:  summary.Dispatched,
		FailedItems: summary.FailedItems,
	}
	papers := make([]history.RunPaper, 0, len(ranked))
	for _, c := range ranked {
		papers = append(papers, history.RunPaper{
			Rank:        c.Rank,
			Fingerprint: cache.FingerprintRecord(c.PaperRecord),
			Title:       c.Title,
			URL:         c.URL,
			Score:       c.Score,
		})
	}
	if _, err := p.History.RecordRun(ctx, run, papers); err != nil {
		p.Log.Warn().Err(err).Msg("recording run history failed")
	}
}
