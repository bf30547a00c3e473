// Package prune removes blacklist entries that can no longer matter.
//
// A refresh token is useless once it expires, so a blacklist row older than
// the refresh lifetime guards nothing. The queries are plain database/sql
// with Postgres placeholders; the CLI talks to Postgres through lib/pq.
package prune

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Cutoff is the blacklisted_at bound below which rows are stale.
func Cutoff(now time.Time, refreshTTL time.Duration) (time.Time, error) {
	if refreshTTL <= 0 {
		return time.Time{}, errors.New("refresh TTL must be positive")
	}
	return now.Add(-refreshTTL), nil
}

// CountStale reports how many rows Blacklist would delete.
func CountStale(ctx context.Context, db *sql.DB, cutoff time.Time) (int64, error) {
	var n int64
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM token_blacklist WHERE blacklisted_at < $1`, cutoff).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stale blacklist rows: %w", err)
	}
	return n, nil
}

// Blacklist deletes rows blacklisted before cutoff and returns how many went.
func Blacklist(ctx context.Context, db *sql.DB, cutoff time.Time) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM token_blacklist WHERE blacklisted_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete stale blacklist rows: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
