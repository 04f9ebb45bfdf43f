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

// SQLiteSignalRepo implements SignalRepo.
type SQLiteSignalRepo struct {
	db db.DBTX
}

func NewSQLiteSignalRepo(conn db.DBTX) *SQLiteSignalRepo {
	return &SQLiteSignalRepo{db: conn}
}

const signalColumns = `id, title, statement, zone, status, effort, ice, linked, evidence_refs, created_at, updated_at`

func (r *SQLiteSignalRepo) Create(ctx context.Context, s *domain.Signal) error {
	vals, err := signalJSON(s)
	if err != nil {
		return err
	}
	query := `INSERT INTO signals (` + signalColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		s.ID, s.Title, s.Statement, s.Zone, string(s.Status), s.Effort,
		vals.ice, vals.linked, vals.evidenceRefs,
		s.CreatedAt.Format(time.RFC3339),
		s.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting signal: %w", err)
	}
	return nil
}

func (r *SQLiteSignalRepo) GetByID(ctx context.Context, id string) (*domain.Signal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+signalColumns+` FROM signals WHERE id = ?`, id)
	s, err := scanSignal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("signal %s: %w", id, ErrNotFound)
	}
	return s, err
}

func (r *SQLiteSignalRepo) List(ctx context.Context) ([]*domain.Signal, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+signalColumns+` FROM signals ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing signals: %w", err)
	}
	defer rows.Close()

	var signals []*domain.Signal
	for rows.Next() {
		s, err := scanSignal(rows)
		if err != nil {
			return nil, err
		}
		signals = append(signals, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating signals: %w", err)
	}
	return signals, nil
}

func (r *SQLiteSignalRepo) Update(ctx context.Context, s *domain.Signal) error {
	vals, err := signalJSON(s)
	if err != nil {
		return err
	}
	query := `UPDATE signals SET title = ?, statement = ?, zone = ?, status = ?, effort = ?,
		ice = ?, linked = ?, evidence_refs = ?, updated_at = ?
		WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query,
		s.Title, s.Statement, s.Zone, string(s.Status), s.Effort,
		vals.ice, vals.linked, vals.evidenceRefs,
		s.UpdatedAt.Format(time.RFC3339),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating signal: %w", err)
	}
	return nil
}

type signalJSONValues struct {
	ice, linked, evidenceRefs string
}

func signalJSON(s *domain.Signal) (signalJSONValues, error) {
	var v signalJSONValues
	var err error
	if v.ice, err = toJSON(s.ICE); err != nil {
		return v, fmt.Errorf("encoding signal ice score: %w", err)
	}
	if v.linked, err = toJSON(s.Linked); err != nil {
		return v, fmt.Errorf("encoding signal links: %w", err)
	}
	if v.evidenceRefs, err = toJSON(s.EvidenceRefs); err != nil {
		return v, fmt.Errorf("encoding signal evidence refs: %w", err)
	}
	return v, nil
}

func scanSignal(row rowScanner) (*domain.Signal, error) {
	var s domain.Signal
	var statusStr, ice, linked, evidenceRefs, createdAtStr, updatedAtStr string

	err := row.Scan(
		&s.ID, &s.Title, &s.Statement, &s.Zone, &statusStr, &s.Effort,
		&ice, &linked, &evidenceRefs,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning signal: %w", err)
	}

	s.Status = domain.SignalStatus(statusStr)
	if err := fromJSON(ice, &s.ICE); err != nil {
		return nil, fmt.Errorf("decoding signal ice score: %w", err)
	}
	if err := fromJSON(linked, &s.Linked); err != nil {
		return nil, fmt.Errorf("decoding signal links: %w", err)
	}
	if err := fromJSON(evidenceRefs, &s.EvidenceRefs); err != nil {
		return nil, fmt.Errorf("decoding signal evidence refs: %w", err)
	}

	var parseErr error
	s.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	s.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return &s, nil
}
