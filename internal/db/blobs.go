package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Blobs is a string-keyed value store backed by the blobs table.
type Blobs struct {
	DB  *sql.DB
	now func() time.Time
}

func NewBlobs(db *sql.DB) *Blobs {
	return &Blobs{DB: db, now: time.Now}
}

func (b *Blobs) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := b.DB.QueryRowContext(ctx, "SELECT value FROM blobs WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get blob %q: %w", key, err)
	}
	return value, true, nil
}

func (b *Blobs) Set(ctx context.Context, key, value string) error {
	now := b.now().UTC()
	_, err := b.DB.ExecContext(ctx, `
		INSERT INTO blobs (key, value, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now, now)
	if err != nil {
		return fmt.Errorf("set blob %q: %w", key, err)
	}
	return nil
}

func (b *Blobs) Delete(ctx context.Context, key string) error {
	if _, err := b.DB.ExecContext(ctx, "DELETE FROM blobs WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete blob %q: %w", key, err)
	}
	return nil
}

// Keys lists the stored keys in lexical order.
func (b *Blobs) Keys(ctx context.Context) ([]string, error) {
	rows, err := b.DB.QueryContext(ctx, "SELECT key FROM blobs ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("list blob keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
