package domain

import "time"

// Listing is the adapter-level shape: whatever a source returned for one
// posting, before normalization. Lifetime is one fetch call.
type Listing struct {
	Title       string
	Company     string
	LocationRaw string
	URL         string
	Description string
	PostedAt    *time.Time
	Source      string
}

// Job is the canonical record. ID is the stable identity key; it is the
// sole primary key in the seen-jobs store and must not change across runs
// for the same posting.
type Job struct {
	ID          string
	Source      string
	Title       string
	Company     string
	Location    string
	URL         string
	Description string
	PostedAt    *time.Time
}

// Breakdown carries the per-factor contributions behind a score, for
// diagnostics and the verbose report.
type Breakdown struct {
	Title    float64
	Keyword  float64
	Location float64
	Recency  float64
}

type ScoredJob struct {
	Job
	Score     int
	Breakdown Breakdown
}

// SeenRecord is one row of the persisted identity store. Rows are never
// deleted by the engine; pruning is an external concern.
type SeenRecord struct {
	ID             string
	FirstSeenAt    time.Time
	LastNotifiedAt time.Time
}
