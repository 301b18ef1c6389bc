package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

var csvHeader = []string{"run_id", "account_id", "seq", "time", "kind", "detail", "amount"}

type CSVJournal struct {
	w *csv.Writer
	f *os.File
}

// NewCSV opens path for appending. The header is written only when the
// file is new or empty, so restarts extend the existing audit trail.
func NewCSV(path string) (*CSVJournal, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			_ = f.Close()
			return nil, err
		}
		w.Flush()
		if err := w.Error(); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	return &CSVJournal{w: w, f: f}, nil
}

func (j *CSVJournal) RecordEntry(r Record) error {
	err := j.w.Write([]string{
		r.Run,
		r.AccountID,
		strconv.Itoa(r.Seq),
		r.Time.UTC().Format(time.RFC3339),
		string(r.Kind),
		r.Detail,
		r.Amount.String(),
	})
	if err != nil {
		return err
	}

	j.w.Flush()
	return j.w.Error()
}

func (j *CSVJournal) Close() error {
	j.w.Flush()
	if err := j.w.Error(); err != nil {
		_ = j.f.Close()
		return err
	}
	return j.f.Close()
}
