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

// SQLiteMoveRepo implements MoveRepo. Plan, tasks, generation, tracking and
// result are JSON text columns.
type SQLiteMoveRepo struct {
	db db.DBTX
}

func NewSQLiteMoveRepo(conn db.DBTX) *SQLiteMoveRepo {
	return &SQLiteMoveRepo{db: conn}
}

const moveColumns = `id, campaign_id, objective, cohort, channel, cta, status, plan, tasks, generation, tracking, result, created_at, updated_at`

func (r *SQLiteMoveRepo) Create(ctx context.Context, m *domain.Move) error {
	vals, err := moveJSON(m)
	if err != nil {
		return err
	}
	query := `INSERT INTO moves (` + moveColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		m.ID, m.CampaignID, m.Objective, m.Cohort, m.Channel, m.CTA, string(m.Status),
		vals.plan, vals.tasks, vals.generation, vals.tracking, vals.result,
		m.CreatedAt.Format(time.RFC3339),
		m.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting move: %w", err)
	}
	return nil
}

func (r *SQLiteMoveRepo) GetByID(ctx context.Context, id string) (*domain.Move, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+moveColumns+` FROM moves WHERE id = ?`, id)
	m, err := scanMove(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("move %s: %w", id, ErrNotFound)
	}
	return m, err
}

func (r *SQLiteMoveRepo) List(ctx context.Context) ([]*domain.Move, error) {
	return r.list(ctx, `SELECT `+moveColumns+` FROM moves ORDER BY created_at`)
}

func (r *SQLiteMoveRepo) ListByCampaign(ctx context.Context, campaignID string) ([]*domain.Move, error) {
	return r.list(ctx, `SELECT `+moveColumns+` FROM moves WHERE campaign_id = ? ORDER BY created_at`, campaignID)
}

func (r *SQLiteMoveRepo) list(ctx context.Context, query string, args ...any) ([]*domain.Move, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing moves: %w", err)
	}
	defer rows.Close()

	var moves []*domain.Move
	for rows.Next() {
		m, err := scanMove(rows)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating moves: %w", err)
	}
	return moves, nil
}

func (r *SQLiteMoveRepo) Update(ctx context.Context, m *domain.Move) error {
	vals, err := moveJSON(m)
	if err != nil {
		return err
	}
	query := `UPDATE moves SET campaign_id = ?, objective = ?, cohort = ?, channel = ?, cta = ?, status = ?,
		plan = ?, tasks = ?, generation = ?, tracking = ?, result = ?, updated_at = ?
		WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query,
		m.CampaignID, m.Objective, m.Cohort, m.Channel, m.CTA, string(m.Status),
		vals.plan, vals.tasks, vals.generation, vals.tracking, vals.result,
		m.UpdatedAt.Format(time.RFC3339),
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("updating move: %w", err)
	}
	return nil
}

func (r *SQLiteMoveRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM moves WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting move: %w", err)
	}
	return nil
}

type moveJSONValues struct {
	plan, tasks, generation, tracking, result string
}

func moveJSON(m *domain.Move) (moveJSONValues, error) {
	var v moveJSONValues
	var err error
	if v.plan, err = toJSON(m.Plan); err != nil {
		return v, fmt.Errorf("encoding move plan: %w", err)
	}
	if v.tasks, err = toJSON(m.Tasks); err != nil {
		return v, fmt.Errorf("encoding move tasks: %w", err)
	}
	if v.generation, err = toJSON(m.Generation); err != nil {
		return v, fmt.Errorf("encoding move generation: %w", err)
	}
	if v.tracking, err = toJSON(m.Tracking); err != nil {
		return v, fmt.Errorf("encoding move tracking: %w", err)
	}
	if v.result, err = toJSON(m.Result); err != nil {
		return v, fmt.Errorf("encoding move result: %w", err)
	}
	return v, nil
}

func scanMove(row rowScanner) (*domain.Move, error) {
	var m domain.Move
	var statusStr, plan, tasks, generation, tracking, result, createdAtStr, updatedAtStr string

	err := row.Scan(
		&m.ID, &m.CampaignID, &m.Objective, &m.Cohort, &m.Channel, &m.CTA, &statusStr,
		&plan, &tasks, &generation, &tracking, &result,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning move: %w", err)
	}

	m.Status = domain.MoveStatus(statusStr)
	if err := fromJSON(plan, &m.Plan); err != nil {
		return nil, fmt.Errorf("decoding move plan: %w", err)
	}
	if err := fromJSON(tasks, &m.Tasks); err != nil {
		return nil, fmt.Errorf("decoding move tasks: %w", err)
	}
	if err := fromJSON(generation, &m.Generation); err != nil {
		return nil, fmt.Errorf("decoding move generation: %w", err)
	}
	if err := fromJSON(tracking, &m.Tracking); err != nil {
		return nil, fmt.Errorf("decoding move tracking: %w", err)
	}
	if err := fromJSON(result, &m.Result); err != nil {
		return nil, fmt.Errorf("decoding move result: %w", err)
	}

	var parseErr error
	m.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	m.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &m, nil
}
