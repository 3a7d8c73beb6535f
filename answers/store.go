// Package answers keeps the history of puzzle answers in SQLite.
//
// Every run of a part is recorded with its run id, so a later run can tell
// whether an answer changed. Only successful entries count as answers.
package answers

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/wippyai/intcode/errors"
)

// Memory opens a private in-memory database.
const Memory = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS answers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	year INTEGER NOT NULL,
	day INTEGER NOT NULL,
	part INTEGER NOT NULL,
	answer TEXT NOT NULL DEFAULT '',
	error TEXT NOT NULL DEFAULT '',
	duration_ns INTEGER NOT NULL DEFAULT 0,
	recorded_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_answers_day ON answers(year, day, part);
CREATE INDEX IF NOT EXISTS idx_answers_run ON answers(run_id);
`

// Entry is one recorded run of a puzzle part.
type Entry struct {
	RecordedAt time.Time
	RunID      string
	Answer     string
	Error      string
	Year       int
	Day        int
	Part       int
	Duration   time.Duration
}

// OK reports whether the entry holds an answer rather than a failure.
func (e Entry) OK() bool {
	return e.Error == ""
}

// Store is the answer history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path and ensures the schema.
// Pass Memory for a throwaway store.
func Open(ctx context.Context, path string) (*Store, error) {
	if path != Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Storage("create database directory", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Storage("open database", err)
	}
	if path == Memory {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Storage("create schema", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends e. A zero RecordedAt is set to the current time.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.RecordedAt.IsZero() {
		e.RecordedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO answers (run_id, year, day, part, answer, error, duration_ns, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Year, e.Day, e.Part, e.Answer, e.Error,
		int64(e.Duration), e.RecordedAt.UnixNano(),
	)
	if err != nil {
		return errors.Storage("record answer", err)
	}
	return nil
}

// Latest returns the most recent successful entry for a part.
func (s *Store) Latest(ctx context.Context, year, day, part int) (Entry, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT run_id, year, day, part, answer, error, duration_ns, recorded_at
		 FROM answers
		 WHERE year = ? AND day = ? AND part = ? AND error = ''
		 ORDER BY recorded_at DESC, id DESC
		 LIMIT 1`,
		year, day, part,
	)
	e, err := scan(row)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, errors.Storage("query latest answer", err)
	}
	return e, true, nil
}

// History returns every entry for a day, oldest first.
func (s *Store) History(ctx context.Context, year, day int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, year, day, part, answer, error, duration_ns, recorded_at
		 FROM answers
		 WHERE year = ? AND day = ?
		 ORDER BY recorded_at, id`,
		year, day,
	)
	if err != nil {
		return nil, errors.Storage("query history", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, errors.Storage("scan history", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage("query history", err)
	}
	return out, nil
}

// Run returns every entry recorded under runID.
func (s *Store) Run(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, year, day, part, answer, error, duration_ns, recorded_at
		 FROM answers
		 WHERE run_id = ?
		 ORDER BY year, day, part`,
		runID,
	)
	if err != nil {
		return nil, errors.Storage("query run", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, errors.Storage("scan run", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage("query run", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(r scanner) (Entry, error) {
	var (
		e        Entry
		duration int64
		at       int64
	)
	err := r.Scan(&e.RunID, &e.Year, &e.Day, &e.Part, &e.Answer, &e.Error, &duration, &at)
	if err != nil {
		return Entry{}, err
	}
	e.Duration = time.Duration(duration)
	e.RecordedAt = time.Unix(0, at)
	return e, nil
}
