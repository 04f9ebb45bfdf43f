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

// SQLiteCohortRepo implements CohortRepo.
type SQLiteCohortRepo struct {
	db db.DBTX
}

func NewSQLiteCohortRepo(conn db.DBTX) *SQLiteCohortRepo {
	return &SQLiteCohortRepo{db: conn}
}

const cohortColumns = `id, name, description, tags, channel_fit, created_at, updated_at`

func (r *SQLiteCohortRepo) Create(ctx context.Context, c *domain.Cohort) error {
	tags, err := toJSON(c.Tags)
	if err != nil {
		return fmt.Errorf("encoding cohort tags: %w", err)
	}
	fit, err := toJSON(c.ChannelFit)
	if err != nil {
		return fmt.Errorf("encoding cohort channel fit: %w", err)
	}
	query := `INSERT INTO cohorts (` + cohortColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Description, tags, fit,
		c.CreatedAt.Format(time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting cohort: %w", err)
	}
	return nil
}

func (r *SQLiteCohortRepo) GetByID(ctx context.Context, id string) (*domain.Cohort, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+cohortColumns+` FROM cohorts WHERE id = ?`, id)
	c, err := scanCohort(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("cohort %s: %w", id, ErrNotFound)
	}
	return c, err
}

func (r *SQLiteCohortRepo) List(ctx context.Context) ([]*domain.Cohort, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+cohortColumns+` FROM cohorts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing cohorts: %w", err)
	}
	defer rows.Close()

	var cohorts []*domain.Cohort
	for rows.Next() {
		c, err := scanCohort(rows)
		if err != nil {
			return nil, err
		}
		cohorts = append(cohorts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cohorts: %w", err)
	}
	return cohorts, nil
}

func (r *SQLiteCohortRepo) Update(ctx context.Context, c *domain.Cohort) error {
	tags, err := toJSON(c.Tags)
	if err != nil {
		return fmt.Errorf("encoding cohort tags: %w", err)
	}
	fit, err := toJSON(c.ChannelFit)
	if err != nil {
		return fmt.Errorf("encoding cohort channel fit: %w", err)
	}
	query := `UPDATE cohorts SET name = ?, description = ?, tags = ?, channel_fit = ?, updated_at = ? WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query,
		c.Name, c.Description, tags, fit,
		c.UpdatedAt.Format(time.RFC3339),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating cohort: %w", err)
	}
	return nil
}

func scanCohort(row rowScanner) (*domain.Cohort, error) {
	var c domain.Cohort
	var tags, fit, createdAtStr, updatedAtStr string

	err := row.Scan(&c.ID, &c.Name, &c.Description, &tags, &fit, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning cohort: %w", err)
	}

	if err := fromJSON(tags, &c.Tags); err != nil {
		return nil, fmt.Errorf("decoding cohort tags: %w", err)
	}
	if err := fromJSON(fit, &c.ChannelFit); err != nil {
		return nil, fmt.Errorf("decoding cohort channel fit: %w", err)
	}

	var parseErr error
	c.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	c.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &c, nil
}
