// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package listing pulls candidate papers from the remote bibliographic
// source, newest submissions first.
package listing

import (
	"context"
	"errors"

	"github.com/pdiddy/daily-scholar/pkg/types"
)

// ErrEndOfResults signals normal pagination termination: the source has no
// further records. It is not a failure and callers must treat it as
// expected completion.
var ErrEndOfResults = errors.New("listing: end of results")

// Source is a page iterator over a remote listing sorted by submission
// time, descending. Next returns the next page of records, ErrEndOfResults
// when the listing is exhausted, or any other error on a remote failure.
// The window resolver and tests substitute fakes for the live client.
type Source interface {
	Next(ctx context.Context) ([]types.PaperRecord, error)
}
