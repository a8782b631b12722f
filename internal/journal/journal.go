// Package journal keeps a SQLite history of committed identity changes.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"hostnamed"

	_ "modernc.org/sqlite"
)

// Entry is one recorded change.
type Entry struct {
	ID int64
	hostnamed.Change
}

type Journal struct {
	db *sql.DB
}

func Open(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal db journal mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set journal db busy timeout: %w", err)
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS changes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	attribute TEXT NOT NULL,
	value TEXT NOT NULL,
	sender TEXT NOT NULL DEFAULT '',
	changed_at TEXT NOT NULL
)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize changes schema: %w", err)
	}

	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record appends change.
func (j *Journal) Record(ctx context.Context, change hostnamed.Change) error {
	at := change.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO changes (attribute, value, sender, changed_at) VALUES (?, ?, ?, ?)`,
		change.Attribute.String(), change.Value, change.Sender, at.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record %s change: %w", change.Attribute, err)
	}
	return nil
}

// List returns up to limit entries, newest first. A limit of zero or
// less returns everything.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT id, attribute, value, sender, changed_at FROM changes ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list changes: %w", err)
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		var (
			e         Entry
			attr      string
			changedAt string
		)
		if err := rows.Scan(&e.ID, &attr, &e.Value, &e.Sender, &changedAt); err != nil {
			return nil, fmt.Errorf("scan change row: %w", err)
		}
		if e.Attribute, err = hostnamed.ParseAttribute(attr); err != nil {
			return nil, fmt.Errorf("change %d: %w", e.ID, err)
		}
		if e.At, err = time.Parse(time.RFC3339Nano, changedAt); err != nil {
			return nil, fmt.Errorf("change %d: parse time: %w", e.ID, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate change rows: %w", err)
	}
	return out, nil
}

// Subscriber is a source of committed changes.
type Subscriber interface {
	Subscribe(ctx context.Context) <-chan hostnamed.Change
}

// Run records every change from src until ctx ends or the subscription
// closes. Write failures are logged and do not stop recording.
func (j *Journal) Run(ctx context.Context, src Subscriber) error {
	changes := src.Subscribe(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			if err := j.Record(context.WithoutCancel(ctx), change); err != nil {
				slog.Error("Failed to record identity change.", "attr", change.Attribute.String(), "err", err)
			}
		}
	}
}
