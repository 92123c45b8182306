package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bierdata/internal/models"
)

// EnsureStagingSchema creates the staging table the directory crawl
// upserts into. Unlike the warehouse tables this one survives reloads;
// it tracks when each beer was first and last seen.
func EnsureStagingSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS directory_beers (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  beer_name TEXT NOT NULL,
	  brewery TEXT NOT NULL,
	  production_status TEXT,
	  notes TEXT,
	  source_page INTEGER,
	  first_seen_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	  last_seen_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	  UNIQUE(beer_name COLLATE NOCASE, brewery COLLATE NOCASE)
	);
	CREATE INDEX IF NOT EXISTS idx_directory_brewery ON directory_beers(brewery);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to ensure staging schema: %w", err)
	}
	return nil
}

// UpsertDirectoryBeers performs a batch UPSERT of crawled beers. An
// already-known beer keeps its first_seen_at and gets its status,
// notes, and last_seen_at refreshed.
func UpsertDirectoryBeers(db *sql.DB, beers []models.BelgianBeer) (int64, error) {
	upsertSQL := `
	INSERT INTO directory_beers (
	  beer_name, brewery, production_status, notes, source_page, last_seen_at
	) VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(beer_name COLLATE NOCASE, brewery COLLATE NOCASE) DO UPDATE SET
	  production_status = excluded.production_status,
	  notes = excluded.notes,
	  source_page = excluded.source_page,
	  last_seen_at = CURRENT_TIMESTAMP;
	`

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	var totalAffected int64
	for _, beer := range beers {
		res, err := stmt.ExecContext(ctx,
			beer.BeerName,
			beer.Brewery,
			beer.ProductionStatus,
			sql.NullString{String: beer.Notes, Valid: beer.Notes != ""},
			beer.SourcePage,
		)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to upsert %s (%s): %w", beer.BeerName, beer.Brewery, err)
		}
		rows, _ := res.RowsAffected()
		totalAffected += rows
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return totalAffected, nil
}
