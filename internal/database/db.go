// Package database persists one observational history row per sync run.
// Nothing is ever read back to influence a run; re-running the sync is the
// recovery mechanism.
package database

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps the SQLite database
type DB struct {
	*sql.DB
}

// SyncRun records one bulk-sync invocation.
type SyncRun struct {
	ID          string     `json:"id"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	DryRun         bool `json:"dryRun"`
	OffersEnabled  bool `json:"offersEnabled"`
	PublishEnabled bool `json:"publishEnabled"`

	ProductsTotal   int `json:"productsTotal"`
	ItemsUpserted   int `json:"itemsUpserted"`
	ItemsSkipped    int `json:"itemsSkipped"`
	OffersProcessed int `json:"offersProcessed"`
	OffersPublished int `json:"offersPublished"`
	ItemsFailed     int `json:"itemsFailed"`

	Status       string `json:"status"` // "running", "success", "partial", "failed"
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// Open opens or creates the database
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &DB{db}, nil
}

// CreateRun inserts the run row in "running" state.
func (db *DB) CreateRun(run *SyncRun) error {
	_, err := db.Exec(`
		INSERT INTO sync_runs (id, started_at, dry_run, offers_enabled, publish_enabled, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt, run.DryRun, run.OffersEnabled, run.PublishEnabled, run.Status)
	if err != nil {
		return fmt.Errorf("failed to create sync run: %w", err)
	}
	return nil
}

// CompleteRun writes the final counters and status for a run.
func (db *DB) CompleteRun(run *SyncRun) error {
	_, err := db.Exec(`
		UPDATE sync_runs
		SET completed_at = ?, products_total = ?, items_upserted = ?, items_skipped = ?,
		    offers_processed = ?, offers_published = ?, items_failed = ?, status = ?, error_message = ?
		WHERE id = ?
	`, run.CompletedAt, run.ProductsTotal, run.ItemsUpserted, run.ItemsSkipped,
		run.OffersProcessed, run.OffersPublished, run.ItemsFailed, run.Status, run.ErrorMessage, run.ID)
	if err != nil {
		return fmt.Errorf("failed to complete sync run: %w", err)
	}
	return nil
}

// GetRun returns a run by id.
func (db *DB) GetRun(id string) (*SyncRun, error) {
	var run SyncRun
	err := db.QueryRow(`
		SELECT id, started_at, completed_at, dry_run, offers_enabled, publish_enabled,
		       products_total, items_upserted, items_skipped, offers_processed,
		       offers_published, items_failed, status, error_message
		FROM sync_runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.StartedAt, &run.CompletedAt, &run.DryRun, &run.OffersEnabled,
		&run.PublishEnabled, &run.ProductsTotal, &run.ItemsUpserted, &run.ItemsSkipped,
		&run.OffersProcessed, &run.OffersPublished, &run.ItemsFailed, &run.Status, &run.ErrorMessage)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
