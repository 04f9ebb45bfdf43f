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

// SQLiteCampaignRepo implements CampaignRepo. Nested payloads (kpis,
// blueprint, timeline) are stored as JSON text columns.
type SQLiteCampaignRepo struct {
	db db.DBTX
}

func NewSQLiteCampaignRepo(conn db.DBTX) *SQLiteCampaignRepo {
	return &SQLiteCampaignRepo{db: conn}
}

const campaignColumns = `id, name, objective, status, strategy_version_id, cohort_ids, channel_ids, kpis, blueprint, timeline, archived_at, created_at, updated_at`

func (r *SQLiteCampaignRepo) Create(ctx context.Context, c *domain.Campaign) error {
	vals, err := campaignJSON(c)
	if err != nil {
		return err
	}
	query := `INSERT INTO campaigns (` + campaignColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		c.ID, c.Name, c.Objective, string(c.Status), c.StrategyVersionID,
		vals.cohortIDs, vals.channelIDs, vals.kpis, vals.blueprint, vals.timeline,
		nullableTimeToString(c.ArchivedAt, time.RFC3339),
		c.CreatedAt.Format(time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting campaign: %w", err)
	}
	return nil
}

func (r *SQLiteCampaignRepo) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = ?`, id)
	c, err := scanCampaign(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("campaign %s: %w", id, ErrNotFound)
	}
	return c, err
}

func (r *SQLiteCampaignRepo) List(ctx context.Context, includeArchived bool) ([]*domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	if !includeArchived {
		query += ` WHERE archived_at IS NULL`
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []*domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating campaigns: %w", err)
	}
	return campaigns, nil
}

func (r *SQLiteCampaignRepo) Update(ctx context.Context, c *domain.Campaign) error {
	vals, err := campaignJSON(c)
	if err != nil {
		return err
	}
	query := `UPDATE campaigns SET name = ?, objective = ?, status = ?, strategy_version_id = ?,
		cohort_ids = ?, channel_ids = ?, kpis = ?, blueprint = ?, timeline = ?, updated_at = ?
		WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query,
		c.Name, c.Objective, string(c.Status), c.StrategyVersionID,
		vals.cohortIDs, vals.channelIDs, vals.kpis, vals.blueprint, vals.timeline,
		c.UpdatedAt.Format(time.RFC3339),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating campaign: %w", err)
	}
	return nil
}

func (r *SQLiteCampaignRepo) Archive(ctx context.Context, id string) error {
	now := nowUTC()
	query := `UPDATE campaigns SET status = 'archived', archived_at = ?, updated_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, now, now, id); err != nil {
		return fmt.Errorf("archiving campaign: %w", err)
	}
	return nil
}

func (r *SQLiteCampaignRepo) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM campaigns WHERE status = 'active'`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting active campaigns: %w", err)
	}
	return n, nil
}

type campaignJSONValues struct {
	cohortIDs, channelIDs, kpis, blueprint, timeline string
}

func campaignJSON(c *domain.Campaign) (campaignJSONValues, error) {
	var v campaignJSONValues
	var err error
	if v.cohortIDs, err = toJSON(c.CohortIDs); err != nil {
		return v, fmt.Errorf("encoding cohort ids: %w", err)
	}
	if v.channelIDs, err = toJSON(c.ChannelIDs); err != nil {
		return v, fmt.Errorf("encoding channel ids: %w", err)
	}
	if v.kpis, err = toJSON(c.KPIs); err != nil {
		return v, fmt.Errorf("encoding kpis: %w", err)
	}
	if v.blueprint, err = toJSON(c.Blueprint); err != nil {
		return v, fmt.Errorf("encoding blueprint: %w", err)
	}
	if v.timeline, err = toJSON(c.Timeline); err != nil {
		return v, fmt.Errorf("encoding timeline: %w", err)
	}
	return v, nil
}

func scanCampaign(row rowScanner) (*domain.Campaign, error) {
	var c domain.Campaign
	var statusStr, cohortIDs, channelIDs, kpis, blueprint, timeline, createdAtStr, updatedAtStr string
	var archivedAtStr sql.NullString

	err := row.Scan(
		&c.ID, &c.Name, &c.Objective, &statusStr, &c.StrategyVersionID,
		&cohortIDs, &channelIDs, &kpis, &blueprint, &timeline,
		&archivedAtStr, &createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning campaign: %w", err)
	}

	c.Status = domain.CampaignStatus(statusStr)
	if err := fromJSON(cohortIDs, &c.CohortIDs); err != nil {
		return nil, fmt.Errorf("decoding cohort ids: %w", err)
	}
	if err := fromJSON(channelIDs, &c.ChannelIDs); err != nil {
		return nil, fmt.Errorf("decoding channel ids: %w", err)
	}
	if err := fromJSON(kpis, &c.KPIs); err != nil {
		return nil, fmt.Errorf("decoding kpis: %w", err)
	}
	if err := fromJSON(blueprint, &c.Blueprint); err != nil {
		return nil, fmt.Errorf("decoding blueprint: %w", err)
	}
	if err := fromJSON(timeline, &c.Timeline); err != nil {
		return nil, fmt.Errorf("decoding timeline: %w", err)
	}
	c.ArchivedAt = parseNullableTime(archivedAtStr, time.RFC3339)

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
