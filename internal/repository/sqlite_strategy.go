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

// SQLiteStrategyRepo implements StrategyRepo over the strategy_versions
// table plus the single-row strategy_pointer.
type SQLiteStrategyRepo struct {
	db db.DBTX
}

func NewSQLiteStrategyRepo(conn db.DBTX) *SQLiteStrategyRepo {
	return &SQLiteStrategyRepo{db: conn}
}

const strategyColumns = `id, version_number, status, payload, locked_at, created_at, updated_at`

func (r *SQLiteStrategyRepo) Create(ctx context.Context, v *domain.StrategyVersion) error {
	payload, err := toJSON(v.Payload)
	if err != nil {
		return fmt.Errorf("encoding strategy payload: %w", err)
	}
	query := `INSERT INTO strategy_versions (` + strategyColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		v.ID,
		v.VersionNumber,
		string(v.Status),
		payload,
		nullableTimeToString(v.LockedAt, time.RFC3339),
		v.CreatedAt.Format(time.RFC3339),
		v.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting strategy version: %w", err)
	}
	return nil
}

func (r *SQLiteStrategyRepo) GetByID(ctx context.Context, id string) (*domain.StrategyVersion, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+strategyColumns+` FROM strategy_versions WHERE id = ?`, id)
	v, err := scanStrategy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("strategy version %s: %w", id, ErrNotFound)
	}
	return v, err
}

func (r *SQLiteStrategyRepo) List(ctx context.Context) ([]*domain.StrategyVersion, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+strategyColumns+` FROM strategy_versions ORDER BY version_number`)
	if err != nil {
		return nil, fmt.Errorf("listing strategy versions: %w", err)
	}
	defer rows.Close()

	var versions []*domain.StrategyVersion
	for rows.Next() {
		v, err := scanStrategy(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating strategy versions: %w", err)
	}
	return versions, nil
}

func (r *SQLiteStrategyRepo) Update(ctx context.Context, v *domain.StrategyVersion) error {
	payload, err := toJSON(v.Payload)
	if err != nil {
		return fmt.Errorf("encoding strategy payload: %w", err)
	}
	query := `UPDATE strategy_versions SET status = ?, payload = ?, locked_at = ?, updated_at = ? WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query,
		string(v.Status),
		payload,
		nullableTimeToString(v.LockedAt, time.RFC3339),
		v.UpdatedAt.Format(time.RFC3339),
		v.ID,
	)
	if err != nil {
		return fmt.Errorf("updating strategy version: %w", err)
	}
	return nil
}

func (r *SQLiteStrategyRepo) Current(ctx context.Context) (*domain.StrategyVersion, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT v.id, v.version_number, v.status, v.payload, v.locked_at, v.created_at, v.updated_at
		 FROM strategy_pointer p
		 JOIN strategy_versions v ON v.id = p.current_version_id
		 WHERE p.id = 1`)
	v, err := scanStrategy(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return v, err
}

func (r *SQLiteStrategyRepo) SetCurrent(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE strategy_pointer SET current_version_id = ? WHERE id = 1`, id)
	if err != nil {
		return fmt.Errorf("setting current strategy version: %w", err)
	}
	return nil
}

func (r *SQLiteStrategyRepo) MaxVersionNumber(ctx context.Context) (int, error) {
	var n sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(version_number) FROM strategy_versions`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("reading max strategy version: %w", err)
	}
	return int(n.Int64), nil
}

func scanStrategy(row rowScanner) (*domain.StrategyVersion, error) {
	var v domain.StrategyVersion
	var statusStr, payloadStr, createdAtStr, updatedAtStr string
	var lockedAtStr sql.NullString

	err := row.Scan(&v.ID, &v.VersionNumber, &statusStr, &payloadStr, &lockedAtStr, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning strategy version: %w", err)
	}

	v.Status = domain.StrategyStatus(statusStr)
	if err := fromJSON(payloadStr, &v.Payload); err != nil {
		return nil, fmt.Errorf("decoding strategy payload: %w", err)
	}
	v.LockedAt = parseNullableTime(lockedAtStr, time.RFC3339)

	var parseErr error
	v.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	v.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &v, nil
}
