package source

import (
	"context"
	"errors"

	"jobscout-engine/internal/domain"
)

// ErrPatternNotFound reports that an HTML board loaded fine but none of
// the configured selectors matched. It is a diagnosable condition distinct
// from a network failure: the site probably changed its markup.
var ErrPatternNotFound = errors.New("pattern not found")

// Result is what one source produced in one run. PartialFailure marks a
// reduced or empty batch that should be reported but never aborts the
// pipeline; Err carries the diagnostic behind it.
type Result struct {
	Source         string
	Listings       []domain.Listing
	PartialFailure bool
	Err            error
}

// Source is the capability every adapter implements. Fetch is
// best-effort: per-entry parse problems are skipped and source-level
// failures come back inside the Result, so one broken board can never
// cancel its siblings.
type Source interface {
	Name() string
	Fetch(ctx context.Context) Result
}
