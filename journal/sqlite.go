package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// OpenSQLiteReadOnly opens an existing journal for queries. Unlike
// NewSQLite it never creates the file or the schema.
func OpenSQLiteReadOnly(path string) (*SQLite, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", path, ErrNoDatabase)
		}
		return nil, err
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLite{db: db}, nil
}

// RecordEntry stores r. Amounts are stored as decimal text so they read
// back exactly. A (run, seq) pair is written once.
func (j *SQLite) RecordEntry(r Record) error {
	_, err := j.db.Exec(`
		INSERT INTO entries
		(run_id, account_id, seq, time, kind, detail, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.Run, r.AccountID, r.Seq, r.Time.UTC(), string(r.Kind), r.Detail, r.Amount.String(),
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
