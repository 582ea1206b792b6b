package pipeline

import (
	"context"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"jobscout-engine/internal/config"
	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/normalize"
	"jobscout-engine/internal/rank"
	"jobscout-engine/internal/source"
	"jobscout-engine/internal/store"
)

// maxSourceWorkers bounds how many adapters fetch at once. All their
// requests still funnel through the one shared throttle.
const maxSourceWorkers = 4

type SourceStatus struct {
	Source         string
	Listings       int
	PartialFailure bool
	Err            string
}

type Summary struct {
	Sources      []SourceStatus
	TotalScraped int
	Qualified    int
	New          int
	Seen         int
	DryRun       bool
	Duration     time.Duration
	CommitErr    error
}

// Outcome is what the delivery layer consumes: the ranked NEW jobs and
// the run summary. A run with zero results is still a completed run.
type Outcome struct {
	Jobs    []domain.ScoredJob
	Summary Summary
}

type Pipeline struct {
	Cfg     config.Config
	Sources []source.Source
	Store   *store.SeenStore
	Scorer  rank.Scorer
	DryRun  bool
	Verbose bool
}

// Run drives the whole ingestion-normalization-scoring-dedup pass. No
// individual source can fail the run; the only error returned is a
// classify read failure, without which NEW/SEEN cannot be told apart.
func (p *Pipeline) Run(ctx context.Context) (Outcome, error) {
	start := time.Now()

	results := p.fetchAll(ctx)

	var out Outcome
	var merged []domain.Listing
	for _, res := range results {
		status := SourceStatus{
			Source:         res.Source,
			Listings:       len(res.Listings),
			PartialFailure: res.PartialFailure,
		}
		if res.Err != nil {
			status.Err = res.Err.Error()
		}
		out.Summary.Sources = append(out.Summary.Sources, status)
		merged = append(merged, res.Listings...)
	}
	out.Summary.TotalScraped = len(merged)
	out.Summary.DryRun = p.DryRun

	// within-run dedup before normalization: two adapters can return the
	// same posting (a company on a generic board and its own ATS)
	merged = dedupListings(merged)

	var jobs []domain.Job
	seenIDs := map[string]bool{}
	for _, l := range merged {
		j, ok := normalize.Normalize(l)
		if !ok {
			if p.Verbose {
				log.Printf("[pipeline] dropped unusable listing url=%q", l.URL)
			}
			continue
		}
		if seenIDs[j.ID] {
			continue
		}
		seenIDs[j.ID] = true
		jobs = append(jobs, j)
	}

	// hard exclusion comes before scoring and before any cutoff
	var scored []domain.ScoredJob
	for _, j := range jobs {
		if drop, why := p.Scorer.ShouldExclude(j); drop {
			if p.Verbose {
				log.Printf("[pipeline] excluded (%s) title=%q", why, j.Title)
			}
			continue
		}
		sj := p.Scorer.Score(j)
		if sj.Score < p.Cfg.Scoring.MinScore {
			continue
		}
		scored = append(scored, sj)
	}
	out.Summary.Qualified = len(scored)

	ids := make([]string, 0, len(scored))
	for _, sj := range scored {
		ids = append(ids, sj.ID)
	}
	newIDs, seen, err := p.Store.Classify(ctx, ids)
	if err != nil {
		return out, err
	}
	out.Summary.Seen = len(seen)

	isNew := map[string]bool{}
	for _, id := range newIDs {
		isNew[id] = true
	}

	var fresh []domain.ScoredJob
	for _, sj := range scored {
		if isNew[sj.ID] {
			fresh = append(fresh, sj)
		}
	}
	out.Summary.New = len(fresh)

	rank.Sort(fresh)
	if max := p.Cfg.Scoring.MaxResults; max > 0 && len(fresh) > max {
		fresh = fresh[:max]
	}
	out.Jobs = fresh

	// promote only what was actually surfaced; jobs cut by the cap were
	// never notified and stay NEW for the next run
	notified := make([]string, 0, len(fresh))
	for _, sj := range fresh {
		notified = append(notified, sj.ID)
	}
	if err := p.Store.Commit(ctx, notified); err != nil {
		// classification results are still reportable; the failure is
		// surfaced so the next run does not silently re-suppress
		log.Printf("[pipeline] commit failed: %v", err)
		out.Summary.CommitErr = err
	}

	out.Summary.Duration = time.Since(start)
	return out, nil
}

// fetchAll runs the adapters with bounded parallelism. Ordering has no
// semantic effect; results merge into one set before scoring.
func (p *Pipeline) fetchAll(ctx context.Context) []source.Result {
	resCh := make(chan source.Result, len(p.Sources))

	var g errgroup.Group
	g.SetLimit(maxSourceWorkers)

	for _, src := range p.Sources {
		src := src
		g.Go(func() error {
			if p.Verbose {
				log.Printf("[%s] running...", src.Name())
			}
			res := src.Fetch(ctx)
			if res.PartialFailure {
				log.Printf("[%s] partial failure: listings=%d err=%v", src.Name(), len(res.Listings), res.Err)
			}
			resCh <- res
			return nil
		})
	}

	_ = g.Wait()
	close(resCh)

	var out []source.Result
	for res := range resCh {
		out = append(out, res)
	}
	return out
}

func dedupListings(in []domain.Listing) []domain.Listing {
	seen := map[string]bool{}
	out := make([]domain.Listing, 0, len(in))
	for _, l := range in {
		key := l.Source + "|" + normalize.CanonicalURL(l.URL)
		if l.URL == "" {
			key = l.Source + "|" + strings.ToLower(l.Title) + "|" + strings.ToLower(l.Company)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}
