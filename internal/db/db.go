package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// ":memory:" databases are per connection.
	db.SetMaxOpenConns(1)

	if err := applySchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func applySchema(ctx context.Context, db *sql.DB) error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}

	if _, err := db.ExecContext(ctx, string(schemaSQL)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	if err := ensureUpdatedAtColumn(ctx, db); err != nil {
		return err
	}

	return nil
}

// ensureUpdatedAtColumn upgrades databases created before blobs tracked write times.
func ensureUpdatedAtColumn(ctx context.Context, db *sql.DB) error {
	var exists int
	err := db.QueryRowContext(ctx, "SELECT 1 FROM pragma_table_info('blobs') WHERE name = 'updated_at' LIMIT 1").Scan(&exists)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("check blobs.updated_at column: %w", err)
	}

	if _, err := db.ExecContext(ctx, "ALTER TABLE blobs ADD COLUMN updated_at TIMESTAMP"); err != nil {
		return fmt.Errorf("add blobs.updated_at column: %w", err)
	}
	if _, err := db.ExecContext(ctx, "UPDATE blobs SET updated_at = created_at WHERE updated_at IS NULL"); err != nil {
		return fmt.Errorf("backfill blobs.updated_at: %w", err)
	}

	return nil
}
