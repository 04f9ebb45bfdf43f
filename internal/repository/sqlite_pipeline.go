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

// SQLitePipelineRepo implements PipelineRepo. The scalar status column is
// written from Execution.Status on every insert/update so list-by-status
// queries never parse JSON.
type SQLitePipelineRepo struct {
	db db.DBTX
}

func NewSQLitePipelineRepo(conn db.DBTX) *SQLitePipelineRepo {
	return &SQLitePipelineRepo{db: conn}
}

const pipelineColumns = `id, title, work_type, channel_id, status, linked, inputs, execution, approvals, receipt, metrics_hook, created_at, updated_at`

func (r *SQLitePipelineRepo) Create(ctx context.Context, p *domain.PipelineItem) error {
	vals, err := pipelineJSON(p)
	if err != nil {
		return err
	}
	query := `INSERT INTO pipeline_items (` + pipelineColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.Title, p.WorkType, p.ChannelID, string(p.Execution.Status),
		vals.linked, vals.inputs, vals.execution, vals.approvals, vals.receipt, vals.metricsHook,
		p.CreatedAt.Format(time.RFC3339),
		p.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting pipeline item: %w", err)
	}
	return nil
}

func (r *SQLitePipelineRepo) GetByID(ctx context.Context, id string) (*domain.PipelineItem, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+pipelineColumns+` FROM pipeline_items WHERE id = ?`, id)
	p, err := scanPipelineItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pipeline item %s: %w", id, ErrNotFound)
	}
	return p, err
}

func (r *SQLitePipelineRepo) List(ctx context.Context) ([]*domain.PipelineItem, error) {
	return r.list(ctx, `SELECT `+pipelineColumns+` FROM pipeline_items ORDER BY created_at`)
}

func (r *SQLitePipelineRepo) ListByStatus(ctx context.Context, status domain.PipelineStatus) ([]*domain.PipelineItem, error) {
	return r.list(ctx,
		`SELECT `+pipelineColumns+` FROM pipeline_items WHERE status = ? ORDER BY created_at`,
		string(status))
}

func (r *SQLitePipelineRepo) list(ctx context.Context, query string, args ...any) ([]*domain.PipelineItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing pipeline items: %w", err)
	}
	defer rows.Close()

	var items []*domain.PipelineItem
	for rows.Next() {
		p, err := scanPipelineItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pipeline items: %w", err)
	}
	return items, nil
}

func (r *SQLitePipelineRepo) Update(ctx context.Context, p *domain.PipelineItem) error {
	vals, err := pipelineJSON(p)
	if err != nil {
		return err
	}
	query := `UPDATE pipeline_items SET title = ?, work_type = ?, channel_id = ?, status = ?,
		linked = ?, inputs = ?, execution = ?, approvals = ?, receipt = ?, metrics_hook = ?, updated_at = ?
		WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query,
		p.Title, p.WorkType, p.ChannelID, string(p.Execution.Status),
		vals.linked, vals.inputs, vals.execution, vals.approvals, vals.receipt, vals.metricsHook,
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating pipeline item: %w", err)
	}
	return nil
}

func (r *SQLitePipelineRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM pipeline_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting pipeline item: %w", err)
	}
	return nil
}

type pipelineJSONValues struct {
	linked, inputs, execution, approvals, metricsHook string
	receipt                                           any
}

func pipelineJSON(p *domain.PipelineItem) (pipelineJSONValues, error) {
	var v pipelineJSONValues
	var err error
	if v.linked, err = toJSON(p.Linked); err != nil {
		return v, fmt.Errorf("encoding pipeline links: %w", err)
	}
	if v.inputs, err = toJSON(p.Inputs); err != nil {
		return v, fmt.Errorf("encoding pipeline inputs: %w", err)
	}
	if v.execution, err = toJSON(p.Execution); err != nil {
		return v, fmt.Errorf("encoding pipeline execution: %w", err)
	}
	if v.approvals, err = toJSON(p.Approvals); err != nil {
		return v, fmt.Errorf("encoding pipeline approvals: %w", err)
	}
	if v.metricsHook, err = toJSON(p.MetricsHook); err != nil {
		return v, fmt.Errorf("encoding pipeline metrics hook: %w", err)
	}
	// A missing receipt stores as SQL NULL, preserving the shipped=>receipt
	// invariant at the persistence layer too.
	if p.Receipt != nil {
		receipt, err := toJSON(p.Receipt)
		if err != nil {
			return v, fmt.Errorf("encoding pipeline receipt: %w", err)
		}
		v.receipt = receipt
	}
	return v, nil
}

func scanPipelineItem(row rowScanner) (*domain.PipelineItem, error) {
	var p domain.PipelineItem
	var statusStr, linked, inputs, execution, approvals, metricsHook, createdAtStr, updatedAtStr string
	var receipt sql.NullString

	err := row.Scan(
		&p.ID, &p.Title, &p.WorkType, &p.ChannelID, &statusStr,
		&linked, &inputs, &execution, &approvals, &receipt, &metricsHook,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning pipeline item: %w", err)
	}

	if err := fromJSON(linked, &p.Linked); err != nil {
		return nil, fmt.Errorf("decoding pipeline links: %w", err)
	}
	if err := fromJSON(inputs, &p.Inputs); err != nil {
		return nil, fmt.Errorf("decoding pipeline inputs: %w", err)
	}
	if err := fromJSON(execution, &p.Execution); err != nil {
		return nil, fmt.Errorf("decoding pipeline execution: %w", err)
	}
	if err := fromJSON(approvals, &p.Approvals); err != nil {
		return nil, fmt.Errorf("decoding pipeline approvals: %w", err)
	}
	if err := fromJSON(metricsHook, &p.MetricsHook); err != nil {
		return nil, fmt.Errorf("decoding pipeline metrics hook: %w", err)
	}
	if receipt.Valid && receipt.String != "" {
		var rec domain.Receipt
		if err := fromJSON(receipt.String, &rec); err != nil {
			return nil, fmt.Errorf("decoding pipeline receipt: %w", err)
		}
		p.Receipt = &rec
	}
	// The scalar column wins if an old row's execution JSON disagrees.
	p.Execution.Status = domain.PipelineStatus(statusStr)

	var parseErr error
	p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &p, nil
}
