package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/warroomhq/warroom/internal/db"
	"github.com/warroomhq/warroom/internal/domain"
)

// SQLiteUsageRepo stores the single usage-counters row seeded by the
// migrations.
type SQLiteUsageRepo struct {
	db db.DBTX
}

func NewSQLiteUsageRepo(conn db.DBTX) *SQLiteUsageRepo {
	return &SQLiteUsageRepo{db: conn}
}

func (r *SQLiteUsageRepo) Get(ctx context.Context) (domain.UsageCounters, error) {
	var u domain.UsageCounters
	var lastReset string
	err := r.db.QueryRowContext(ctx,
		`SELECT radar_scans_today, duels_this_month, generations_this_month, last_reset
		 FROM usage_counters WHERE id = 1`).
		Scan(&u.RadarScansToday, &u.DuelsThisMonth, &u.GenerationsThisMonth, &lastReset)
	if err != nil {
		return domain.UsageCounters{}, fmt.Errorf("reading usage counters: %w", err)
	}
	if lastReset != "" {
		if t, parseErr := time.Parse(time.RFC3339, lastReset); parseErr == nil {
			u.LastReset = t
		}
	}
	return u, nil
}

func (r *SQLiteUsageRepo) Put(ctx context.Context, u domain.UsageCounters) error {
	var lastReset string
	if !u.LastReset.IsZero() {
		lastReset = u.LastReset.Format(time.RFC3339)
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE usage_counters SET radar_scans_today = ?, duels_this_month = ?, generations_this_month = ?, last_reset = ?
		 WHERE id = 1`,
		u.RadarScansToday, u.DuelsThisMonth, u.GenerationsThisMonth, lastReset)
	if err != nil {
		return fmt.Errorf("writing usage counters: %w", err)
	}
	return nil
}
