// Package history keeps a local log of observed events in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/cyberstack/hemu/internal/notify"
)

const schema = `
CREATE TABLE IF NOT EXISTS record (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	event     TEXT    NOT NULL,
	tag       INTEGER NOT NULL,
	is_notify BOOLEAN NOT NULL,
	time      INTEGER NOT NULL
)`

// Record is one stored event.
type Record struct {
	ID       int64
	Event    notify.Event
	Tag      int
	Notified bool
	Time     time.Time
}

// Store is an open history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path, creating its directory.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// SQLite serializes writers anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Add stores an event observed at at.
func (s *Store) Add(ctx context.Context, event notify.Event, notified bool, at time.Time) (Record, error) {
	rec := Record{Event: event, Tag: event.Tag(), Notified: notified, Time: at}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO record (event, tag, is_notify, time) VALUES (?, ?, ?, ?)`,
		string(event), rec.Tag, notified, at.UnixNano())
	if err != nil {
		return Record{}, fmt.Errorf("insert record: %w", err)
	}
	if rec.ID, err = res.LastInsertId(); err != nil {
		return Record{}, fmt.Errorf("insert record: %w", err)
	}
	return rec, nil
}

// List returns records newest first. limit <= 0 means all.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT id, event, tag, is_notify, time FROM record ORDER BY time DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec   Record
			event string
			nanos int64
		)
		if err := rows.Scan(&rec.ID, &event, &rec.Tag, &rec.Notified, &nanos); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		rec.Event = notify.Event(event)
		rec.Time = time.Unix(0, nanos)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM record`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// Clear deletes every record and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM record`)
	if err != nil {
		return 0, fmt.Errorf("clear records: %w", err)
	}
	return res.RowsAffected()
}
