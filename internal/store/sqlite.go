package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SQLite keeps highlights in a single table ordered by insertion.
type SQLite struct {
	path string
	db   *sql.DB
}

// NewSQLite opens (or creates) the database at path, enables WAL mode and
// initializes the schema.
func NewSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set PRAGMA: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLite{path: path, db: db}, nil
}

func (s *SQLite) Path() string {
	return s.path
}

// withTx runs fn inside a transaction.
func (s *SQLite) withTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *SQLite) Load() ([]Highlight, error) {
	rows, err := s.db.Query(`
        SELECT start_line, start_character, end_line, end_character, color
        FROM highlights ORDER BY ordinal
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query highlights: %w", err)
	}
	defer rows.Close()

	var highlights []Highlight
	for rows.Next() {
		var h Highlight
		if err := rows.Scan(&h.Start.Line, &h.Start.Character, &h.End.Line, &h.End.Character, &h.Color); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		highlights = append(highlights, h)
	}
	return highlights, rows.Err()
}

// Save replaces every stored highlight in one transaction.
func (s *SQLite) Save(highlights []Highlight) error {
	return s.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM highlights`); err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
            INSERT INTO highlights (ordinal, start_line, start_character, end_line, end_character, color)
            VALUES (?, ?, ?, ?, ?, ?)
        `)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, h := range highlights {
			if _, err := stmt.Exec(i, h.Start.Line, h.Start.Character, h.End.Line, h.End.Character, h.Color); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
