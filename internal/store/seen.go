package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"jobscout-engine/internal/domain"
)

// ErrCommitFailed marks a failed persistence step. The run's results are
// still reportable when this happens, but the caller must surface it:
// jobs reported now would be re-reported next run if the commit is lost
// silently.
var ErrCommitFailed = errors.New("seen store commit failed")

// SeenStore owns the persisted identity history. Nothing else reads or
// writes the seen_jobs table. Dry-run is a construction-time capability:
// Commit becomes a no-op, Classify stays a pure read either way.
type SeenStore struct {
	db     *sql.DB
	dryRun bool
	now    func() time.Time
}

func NewSeenStore(db *DB, dryRun bool) *SeenStore {
	return &SeenStore{db: db.Pool, dryRun: dryRun, now: time.Now}
}

// Classify partitions ids into never-seen and already-seen. It does not
// mutate anything: calling it twice without a commit in between returns
// identical answers.
func (s *SeenStore) Classify(ctx context.Context, ids []string) (newIDs, seenIDs []string, err error) {
	for _, id := range ids {
		var one int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM seen_jobs WHERE id = ?;`, id).Scan(&one)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			newIDs = append(newIDs, id)
		case err != nil:
			return nil, nil, fmt.Errorf("classify %s: %w", id, err)
		default:
			seenIDs = append(seenIDs, id)
		}
	}
	return newIDs, seenIDs, nil
}

// Commit records the batch in one transaction: new ids get a fresh
// SeenRecord, reappearing ids get last_notified_at refreshed. All-or-
// nothing, so a crash mid-commit cannot leave half the batch suppressed.
func (s *SeenStore) Commit(ctx context.Context, ids []string) error {
	if s.dryRun || len(ids) == 0 {
		return nil
	}

	now := s.now().UTC().Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO seen_jobs(id, first_seen_at, last_notified_at)
VALUES(?,?,?)
ON CONFLICT(id) DO UPDATE SET last_notified_at = excluded.last_notified_at;`,
			id, now, now,
		); err != nil {
			return fmt.Errorf("%w: %v", ErrCommitFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrCommitFailed, err)
	}
	return nil
}

// Record returns the persisted row for one id, mostly for diagnostics.
func (s *SeenStore) Record(ctx context.Context, id string) (domain.SeenRecord, error) {
	var rec domain.SeenRecord
	var first, last string

	err := s.db.QueryRowContext(ctx, `
SELECT id, first_seen_at, last_notified_at FROM seen_jobs WHERE id = ?;`, id).
		Scan(&rec.ID, &first, &last)
	if err != nil {
		return domain.SeenRecord{}, err
	}

	rec.FirstSeenAt, _ = time.Parse(time.RFC3339, first)
	rec.LastNotifiedAt, _ = time.Parse(time.RFC3339, last)
	return rec, nil
}
