// Package history persists executed command lines and their exit codes in
// a sqlite database.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	line       TEXT NOT NULL,
	exit_code  INTEGER NOT NULL,
	started_at TIMESTAMP NOT NULL
);`

// Entry is one executed command line.
type Entry struct {
	ID        int64
	Line      string
	ExitCode  int
	StartedAt time.Time
}

// Store is a sqlite backed history log.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history db: %w", err)
	}
	return &Store{db: db}, nil
}

// Append records one executed line and its exit code.
func (s *Store) Append(line string, exitCode int) error {
	_, err := s.db.Exec(
		`INSERT INTO history (line, exit_code, started_at) VALUES (?, ?, ?)`,
		line, exitCode, time.Now().UTC())
	return err
}

// Tail returns the most recent n entries in chronological order. n <= 0
// returns everything.
func (s *Store) Tail(n int) ([]Entry, error) {
	if n <= 0 {
		n = -1 // no limit
	}
	rows, err := s.db.Query(
		`SELECT id, line, exit_code, started_at
		 FROM history ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Line, &e.ExitCode, &e.StartedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Clear deletes every entry.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM history`)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
