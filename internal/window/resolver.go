// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package window resolves a target calendar day against the remote
// listing and produces the papers submitted on that day.
package window

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/daily-scholar/internal/listing"
	"github.com/pdiddy/daily-scholar/pkg/types"
)

// Options bounds the pull. Zero values fall back to the defaults.
type Options struct {
	// MaxPull caps the number of records inspected (default 200). Protects
	// against runaway pagination when the exact day is far down the listing.
	MaxPull int

	// FallbackCount is the number of most-recent records returned when the
	// exact window is empty (default 20).
	FallbackCount int

	// Margin widens the fetch interval on the early side to tolerate
	// indexing skew (default 24h). Never used for final inclusion.
	Margin time.Duration
}

const (
	defaultMaxPull       = 200
	defaultFallbackCount = 20
	defaultMargin        = 24 * time.Hour
)

// Result is the outcome of one window resolution.
type Result struct {
	// Papers are the accepted records, newest first.
	Papers []types.PaperRecord

	// Pulled counts every record inspected, including rejected ones.
	Pulled int

	// Fallback reports that the exact window was empty and Papers holds
	// the bounded most-recent substitute instead.
	Fallback bool
}

// Resolve pulls records from src until they fall outside the widened
// search interval, then filters to the exact acceptance window
// [target, target+24h) in UTC.
//
// Early termination relies on the source's descending sort order, but only
// as an optimization: the moment an out-of-order timestamp is observed the
// resolver stops trusting the order and scans on to the pull cap.
//
// ErrEndOfResults from the source is normal completion. Any other source
// error ends the pull and the accumulated records are still processed;
// the error is returned to the caller only when nothing was accumulated.
func Resolve(ctx context.Context, src listing.Source, target time.Time, opts Options, log zerolog.Logger) (Result, error) {
	if opts.MaxPull <= 0 {
		opts.MaxPull = defaultMaxPull
	}
	if opts.FallbackCount <= 0 {
		opts.FallbackCount = defaultFallbackCount
	}
	if opts.Margin <= 0 {
		opts.Margin = defaultMargin
	}

	windowStart := truncateToDay(target)
	windowEnd := windowStart.Add(24 * time.Hour)
	searchStart := windowStart.Add(-opts.Margin)

	pulled, pullErr := pull(ctx, src, searchStart, opts.MaxPull, log)
	if pullErr != nil && len(pulled) == 0 {
		return Result{}, pullErr
	}

	res := Result{Pulled: len(pulled)}
	for _, p := range pulled {
		if inWindow(p.Submitted, windowStart, windowEnd) {
			res.Papers = append(res.Papers, p)
		}
	}

	if len(res.Papers) == 0 && len(pulled) > 0 {
		// Degrade gracefully: a bounded best-effort result beats an empty
		// report when the listing lags behind the calendar.
		res.Papers = mostRecent(pulled, opts.FallbackCount)
		res.Fallback = true
		log.Warn().
			Time("window_start", windowStart).
			Int("pulled", len(pulled)).
			Int("returned", len(res.Papers)).
			Msg("acceptance window empty, falling back to most recent records")
	}

	log.Info().
		Time("window_start", windowStart).
		Int("pulled", res.Pulled).
		Int("accepted", len(res.Papers)).
		Bool("fallback", res.Fallback).
		Msg("window resolved")

	return res, nil
}

// pull drains src until a record predates searchStart (early stop, only
// while the stream has stayed sorted), the cap is reached, or the source
// ends. On a remote error it returns what was accumulated plus the error.
func pull(ctx context.Context, src listing.Source, searchStart time.Time, maxPull int, log zerolog.Logger) ([]types.PaperRecord, error) {
	var (
		records []types.PaperRecord
		prev    time.Time
		sorted  = true
	)

	for len(records) < maxPull {
		page, err := src.Next(ctx)
		if err != nil {
			if errors.Is(err, listing.ErrEndOfResults) {
				return records, nil
			}
			log.Warn().Err(err).Int("pulled", len(records)).
				Msg("listing pull aborted, keeping partial results")
			return records, err
		}

		for _, r := range page {
			if !prev.IsZero() && r.Submitted.After(prev) {
				// Sort guarantee broken; early stop is no longer safe.
				sorted = false
			}
			prev = r.Submitted

			if sorted && r.Submitted.Before(searchStart) {
				return records, nil
			}

			records = append(records, r)
			if len(records) >= maxPull {
				return records, nil
			}
		}
	}
	return records, nil
}

// mostRecent returns the k newest records by submission time. The sort is
// stable so records the source listed adjacently stay in source order.
func mostRecent(records []types.PaperRecord, k int) []types.PaperRecord {
	out := make([]types.PaperRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Submitted.After(out[j].Submitted)
	})
	if len(out) > k {
		out = out[:k]
	}
	return out
}

func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// truncateToDay normalizes t to UTC midnight of its calendar day.
func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
