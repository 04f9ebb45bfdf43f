package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// SchemaVersion is the current snapshot schema version. Rows written by an
// older version still load: nested payloads are JSON columns and missing
// fields are absorbed by the normalizers on read.
const SchemaVersion = 1

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS schema_version (
		id      INTEGER PRIMARY KEY CHECK (id = 1),
		version INTEGER NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS strategy_versions (
		id             TEXT PRIMARY KEY,
		version_number INTEGER NOT NULL UNIQUE,
		status         TEXT NOT NULL CHECK (status IN ('draft','locked')),
		payload        TEXT NOT NULL DEFAULT '{}',
		locked_at      TEXT,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS strategy_pointer (
		id                 INTEGER PRIMARY KEY CHECK (id = 1),
		current_version_id TEXT REFERENCES strategy_versions(id)
	)`,

	`CREATE TABLE IF NOT EXISTS campaigns (
		id                  TEXT PRIMARY KEY,
		name                TEXT NOT NULL,
		objective           TEXT NOT NULL DEFAULT '',
		status              TEXT NOT NULL,
		strategy_version_id TEXT NOT NULL DEFAULT '',
		cohort_ids          TEXT NOT NULL DEFAULT '[]',
		channel_ids         TEXT NOT NULL DEFAULT '[]',
		kpis                TEXT NOT NULL DEFAULT '{}',
		blueprint           TEXT NOT NULL DEFAULT '{}',
		timeline            TEXT NOT NULL DEFAULT '{}',
		archived_at         TEXT,
		created_at          TEXT NOT NULL,
		updated_at          TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS moves (
		id          TEXT PRIMARY KEY,
		campaign_id TEXT NOT NULL DEFAULT '',
		objective   TEXT NOT NULL DEFAULT '',
		cohort      TEXT NOT NULL DEFAULT '',
		channel     TEXT NOT NULL DEFAULT '',
		cta         TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL
		            CHECK (status IN ('pending','generating','active','completed')),
		plan        TEXT NOT NULL DEFAULT '{}',
		tasks       TEXT NOT NULL DEFAULT '[]',
		generation  TEXT NOT NULL DEFAULT '{}',
		tracking    TEXT NOT NULL DEFAULT '{}',
		result      TEXT NOT NULL DEFAULT '{}',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_moves_campaign ON moves(campaign_id)`,

	`CREATE TABLE IF NOT EXISTS pipeline_items (
		id           TEXT PRIMARY KEY,
		title        TEXT NOT NULL,
		work_type    TEXT NOT NULL DEFAULT '',
		channel_id   TEXT NOT NULL DEFAULT '',
		status       TEXT NOT NULL
		             CHECK (status IN ('backlog','in_production','review','approval','scheduled','shipped','blocked')),
		linked       TEXT NOT NULL DEFAULT '{}',
		inputs       TEXT NOT NULL DEFAULT '{}',
		execution    TEXT NOT NULL DEFAULT '{}',
		approvals    TEXT NOT NULL DEFAULT '{}',
		receipt      TEXT,
		metrics_hook TEXT NOT NULL DEFAULT '{}',
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS duels (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		goal        TEXT NOT NULL CHECK (goal IN ('clicks','leads')),
		variable    TEXT NOT NULL DEFAULT '',
		cohort      TEXT NOT NULL DEFAULT '',
		channel     TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL CHECK (status IN ('running','paused','winner','archived')),
		variants    TEXT NOT NULL DEFAULT '[]',
		winner_id   TEXT NOT NULL DEFAULT '',
		crowned_at  TEXT,
		promoted_at TEXT,
		signal_ids  TEXT NOT NULL DEFAULT '[]',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS signals (
		id            TEXT PRIMARY KEY,
		title         TEXT NOT NULL,
		statement     TEXT NOT NULL DEFAULT '',
		zone          TEXT NOT NULL DEFAULT '',
		status        TEXT NOT NULL CHECK (status IN ('triage','in_test','resolved','archived')),
		effort        TEXT NOT NULL DEFAULT '',
		ice           TEXT NOT NULL DEFAULT '{}',
		linked        TEXT NOT NULL DEFAULT '{}',
		evidence_refs TEXT NOT NULL DEFAULT '[]',
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS cohorts (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		tags        TEXT NOT NULL DEFAULT '[]',
		channel_fit TEXT NOT NULL DEFAULT '{}',
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS usage_counters (
		id                     INTEGER PRIMARY KEY CHECK (id = 1),
		radar_scans_today      INTEGER NOT NULL DEFAULT 0,
		duels_this_month       INTEGER NOT NULL DEFAULT 0,
		generations_this_month INTEGER NOT NULL DEFAULT 0,
		last_reset             TEXT NOT NULL DEFAULT ''
	)`,

	`INSERT OR IGNORE INTO usage_counters (id) VALUES (1)`,

	`INSERT OR IGNORE INTO strategy_pointer (id, current_version_id) VALUES (1, NULL)`,
}

// Migrate runs all schema migrations and records the schema version.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if _, err := db.Exec(
		`INSERT INTO schema_version (id, version) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET version = excluded.version`,
		SchemaVersion,
	); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}
	return nil
}

// CurrentSchemaVersion reads the stored schema version.
func CurrentSchemaVersion(db *sql.DB) (int, error) {
	var v int
	if err := db.QueryRow(`SELECT version FROM schema_version WHERE id = 1`).Scan(&v); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}
