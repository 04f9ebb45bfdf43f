package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/warroomhq/warroom/internal/db"
	"github.com/warroomhq/warroom/internal/domain"
)

// SQLiteDuelRepo implements DuelRepo. Variants and signal back-references
// are JSON text columns.
type SQLiteDuelRepo struct {
	db db.DBTX
}

func NewSQLiteDuelRepo(conn db.DBTX) *SQLiteDuelRepo {
	return &SQLiteDuelRepo{db: conn}
}

const duelColumns = `id, name, goal, variable, cohort, channel, status, variants, winner_id, crowned_at, promoted_at, signal_ids, created_at, updated_at`

func (r *SQLiteDuelRepo) Create(ctx context.Context, d *domain.Duel) error {
	variants, err := toJSON(d.Variants)
	if err != nil {
		return fmt.Errorf("encoding duel variants: %w", err)
	}
	signalIDs, err := toJSON(d.SignalIDs)
	if err != nil {
		return fmt.Errorf("encoding duel signal ids: %w", err)
	}
	query := `INSERT INTO duels (` + duelColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		d.ID, d.Name, string(d.Goal), d.Variable, d.Cohort, d.Channel, string(d.Status),
		variants, d.WinnerID,
		nullableTimeToString(d.CrownedAt, time.RFC3339),
		nullableTimeToString(d.PromotedAt, time.RFC3339),
		signalIDs,
		d.CreatedAt.Format(time.RFC3339),
		d.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting duel: %w", err)
	}
	return nil
}

func (r *SQLiteDuelRepo) GetByID(ctx context.Context, id string) (*domain.Duel, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+duelColumns+` FROM duels WHERE id = ?`, id)
	d, err := scanDuel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("duel %s: %w", id, ErrNotFound)
	}
	return d, err
}

func (r *SQLiteDuelRepo) List(ctx context.Context) ([]*domain.Duel, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+duelColumns+` FROM duels ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing duels: %w", err)
	}
	defer rows.Close()

	var duels []*domain.Duel
	for rows.Next() {
		d, err := scanDuel(rows)
		if err != nil {
			return nil, err
		}
		duels = append(duels, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating duels: %w", err)
	}
	return duels, nil
}

func (r *SQLiteDuelRepo) Update(ctx context.Context, d *domain.Duel) error {
	variants, err := toJSON(d.Variants)
	if err != nil {
		return fmt.Errorf("encoding duel variants: %w", err)
	}
	signalIDs, err := toJSON(d.SignalIDs)
	if err != nil {
		return fmt.Errorf("encoding duel signal ids: %w", err)
	}
	query := `UPDATE duels SET name = ?, goal = ?, variable = ?, cohort = ?, channel = ?, status = ?,
		variants = ?, winner_id = ?, crowned_at = ?, promoted_at = ?, signal_ids = ?, updated_at = ?
		WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query,
		d.Name, string(d.Goal), d.Variable, d.Cohort, d.Channel, string(d.Status),
		variants, d.WinnerID,
		nullableTimeToString(d.CrownedAt, time.RFC3339),
		nullableTimeToString(d.PromotedAt, time.RFC3339),
		signalIDs,
		d.UpdatedAt.Format(time.RFC3339),
		d.ID,
	)
	if err != nil {
		return fmt.Errorf("updating duel: %w", err)
	}
	return nil
}

func scanDuel(row rowScanner) (*domain.Duel, error) {
	var d domain.Duel
	var goalStr, statusStr, variants, signalIDs, createdAtStr, updatedAtStr string
	var crownedAtStr, promotedAtStr sql.NullString

	err := row.Scan(
		&d.ID, &d.Name, &goalStr, &d.Variable, &d.Cohort, &d.Channel, &statusStr,
		&variants, &d.WinnerID, &crownedAtStr, &promotedAtStr, &signalIDs,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning duel: %w", err)
	}

	d.Goal = domain.DuelGoal(goalStr)
	d.Status = domain.DuelStatus(statusStr)
	if err := fromJSON(variants, &d.Variants); err != nil {
		return nil, fmt.Errorf("decoding duel variants: %w", err)
	}
	if err := fromJSON(signalIDs, &d.SignalIDs); err != nil {
		return nil, fmt.Errorf("decoding duel signal ids: %w", err)
	}
	d.CrownedAt = parseNullableTime(crownedAtStr, time.RFC3339)
	d.PromotedAt = parseNullableTime(promotedAtStr, time.RFC3339)

	var parseErr error
	d.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	d.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &d, nil
}
