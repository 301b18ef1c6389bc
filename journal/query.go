package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/papertrade/account"
)

const selectEntries = `
	SELECT run_id, account_id, seq, time, kind, detail, amount
	FROM entries`

// GetEntry returns a single record by run and sequence number.
func (j *SQLite) GetEntry(run string, seq int) (Record, error) {
	row := j.db.QueryRow(selectEntries+`
		WHERE run_id = ? AND seq = ?`, run, seq)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, fmt.Errorf("get entry %s#%d: %w", run, seq, ErrNotFound)
		}
		return Record{}, err
	}
	return rec, nil
}

// ListEntries returns every record of an account, run by run in the order
// the runs were started, each in ledger order.
func (j *SQLite) ListEntries(accountID string) ([]Record, error) {
	rows, err := j.db.Query(selectEntries+`
		WHERE account_id = ?
		ORDER BY run_id ASC, seq ASC`, accountID)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// ListRun returns the records of a single run in ledger order.
func (j *SQLite) ListRun(run string) ([]Record, error) {
	rows, err := j.db.Query(selectEntries+`
		WHERE run_id = ?
		ORDER BY seq ASC`, run)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// ListEntriesBetween returns records whose time is within [start, end).
func (j *SQLite) ListEntriesBetween(start, end time.Time) ([]Record, error) {
	rows, err := j.db.Query(selectEntries+`
		WHERE time >= ? AND time < ?
		ORDER BY time ASC, run_id ASC, seq ASC`, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// AccountIDs lists the accounts that have journaled entries.
func (j *SQLite) AccountIDs() ([]string, error) {
	rows, err := j.db.Query(`SELECT DISTINCT account_id FROM entries ORDER BY account_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (Record, error) {
	var (
		rec  Record
		kind string
	)
	if err := s.Scan(&rec.Run, &rec.AccountID, &rec.Seq, &rec.Time, &kind, &rec.Detail, &rec.Amount); err != nil {
		return Record{}, err
	}
	rec.Kind = account.Kind(kind)
	return rec, nil
}

func collect(rows *sql.Rows) ([]Record, error) {
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
