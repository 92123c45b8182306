// Package db loads the cleaned CSV files into a local SQLite warehouse.
// Each file becomes one table, overwritten on every load so the
// warehouse always mirrors the latest pipeline output.
package db

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // Import for side-effects only
)

var logger = log.New(os.Stdout, "db: ", log.LstdFlags|log.Lshortfile)

// Connect opens the SQLite database with settings that prevent
// "database locked" errors under concurrent access.
func Connect(dbPath string) (*sql.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

var reIdent = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

// columnName turns a CSV header cell into a usable SQL identifier.
func columnName(header string, i int) string {
	name := reIdent.ReplaceAllString(strings.TrimSpace(header), "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return fmt.Sprintf("col_%d", i)
	}
	return strings.ToLower(name)
}

// LoadCSV replaces the named table with the contents of one CSV file.
// The schema is derived from the header; every column is TEXT, typing
// is left to downstream queries.
func LoadCSV(db *sql.DB, table, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = columnName(h, i)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS "%s"`, table)); err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to drop %s: %w", table, err)
	}
	createSQL := fmt.Sprintf(`CREATE TABLE "%s" ("%s" TEXT)`, table, strings.Join(cols, `" TEXT, "`))
	if _, err := tx.ExecContext(ctx, createSQL); err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to create %s: %w", table, err)
	}

	placeholders := strings.TrimRight(strings.Repeat("?, ", len(cols)), ", ")
	insertSQL := fmt.Sprintf(`INSERT INTO "%s" ("%s") VALUES (%s)`,
		table, strings.Join(cols, `", "`), placeholders)

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	var loaded int64
	for {
		rec, err := r.Read()
		if err != nil {
			break
		}
		args := make([]any, len(cols))
		for i := range cols {
			if i < len(rec) {
				args[i] = sql.NullString{String: rec[i], Valid: rec[i] != ""}
			} else {
				args[i] = sql.NullString{}
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to insert into %s: %w", table, err)
		}
		loaded++
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return loaded, nil
}

// LoadDir loads every CSV in a directory, one table per file named
// after the file stem. A failing file is logged and skipped so the rest
// of the batch still loads.
func LoadDir(db *sql.DB, dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}
	if len(paths) == 0 {
		logger.Printf("No CSV files found in %s", dir)
		return nil
	}
	logger.Printf("Found %d CSV files to process", len(paths))

	for _, path := range paths {
		table := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		rows, err := LoadCSV(db, table, path)
		if err != nil {
			logger.Printf("Failed to process %s, moving to the next file: %v", filepath.Base(path), err)
			continue
		}
		logger.Printf("Successfully loaded %d rows from %s into table %s", rows, filepath.Base(path), table)
	}
	return nil
}

// TableCount returns the row count of one warehouse table.
func TableCount(db *sql.DB, table string) (int, error) {
	var n int
	err := db.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM "%s"`, table)).Scan(&n)
	return n, err
}
