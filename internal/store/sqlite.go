package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/leadrank-cli/internal/model"
	"github.com/sells-group/leadrank-cli/internal/velocity"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS accum_people (
	conference TEXT NOT NULL,
	position   INTEGER NOT NULL,
	person     TEXT NOT NULL,
	PRIMARY KEY (conference, position)
);

CREATE TABLE IF NOT EXISTS source_batches (
	id          TEXT PRIMARY KEY,
	conference  TEXT NOT NULL,
	label       TEXT NOT NULL,
	row_count   INTEGER NOT NULL,
	ingested_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS companies (
	position INTEGER PRIMARY KEY,
	company  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS velocity_log (
	id          TEXT PRIMARY KEY,
	conference  TEXT NOT NULL,
	entry       TEXT NOT NULL,
	recorded_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS run_locks (
	conference  TEXT PRIMARY KEY,
	token       TEXT NOT NULL,
	acquired_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_source_batches_conference ON source_batches(conference);
CREATE INDEX IF NOT EXISTS idx_velocity_log_conference ON velocity_log(conference);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ReplaceAccum swaps a conference's accumulated set in one transaction, so an
// aborted run never leaves a half-merged population behind.
func (s *SQLiteStore) ReplaceAccum(ctx context.Context, conference string, people []model.Person) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin replace accum")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM accum_people WHERE conference = ?`, conference); err != nil {
		return eris.Wrap(err, "sqlite: clear accum")
	}
	for i, p := range people {
		data, err := json.Marshal(p)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal person")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO accum_people (conference, position, person) VALUES (?, ?, ?)`,
			conference, i, string(data),
		); err != nil {
			return eris.Wrap(err, "sqlite: insert person")
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit replace accum")
}

func (s *SQLiteStore) LoadAccum(ctx context.Context, conference string) ([]model.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT person FROM accum_people WHERE conference = ? ORDER BY position`,
		conference,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load accum")
	}
	defer rows.Close()

	var people []model.Person
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan person")
		}
		var p model.Person
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal person")
		}
		people = append(people, p)
	}
	return people, eris.Wrap(rows.Err(), "sqlite: load accum iterate")
}

func (s *SQLiteStore) RecordBatch(ctx context.Context, batch model.SourceBatch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO source_batches (id, conference, label, row_count, ingested_at) VALUES (?, ?, ?, ?, ?)`,
		batch.ID, batch.Conference, batch.Label, batch.RowCount, batch.IngestedAt.UTC(),
	)
	return eris.Wrap(err, "sqlite: record batch")
}

func (s *SQLiteStore) ListBatches(ctx context.Context, conference string) ([]model.SourceBatch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conference, label, row_count, ingested_at FROM source_batches
		 WHERE conference = ? ORDER BY ingested_at`,
		conference,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list batches")
	}
	defer rows.Close()

	var batches []model.SourceBatch
	for rows.Next() {
		var b model.SourceBatch
		if err := rows.Scan(&b.ID, &b.Conference, &b.Label, &b.RowCount, &b.IngestedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan batch")
		}
		batches = append(batches, b)
	}
	return batches, eris.Wrap(rows.Err(), "sqlite: list batches iterate")
}

// ReplaceCompanies swaps the whole company store in one transaction.
func (s *SQLiteStore) ReplaceCompanies(ctx context.Context, companies []model.Company) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin replace companies")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM companies`); err != nil {
		return eris.Wrap(err, "sqlite: clear companies")
	}
	for i, c := range companies {
		data, err := json.Marshal(c)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal company")
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO companies (position, company) VALUES (?, ?)`,
			i, string(data),
		); err != nil {
			return eris.Wrap(err, "sqlite: insert company")
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit replace companies")
}

func (s *SQLiteStore) LoadCompanies(ctx context.Context) ([]model.Company, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT company FROM companies ORDER BY position`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: load companies")
	}
	defer rows.Close()

	var companies []model.Company
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan company")
		}
		var c model.Company
		if err := json.Unmarshal([]byte(data), &c); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal company")
		}
		companies = append(companies, c)
	}
	return companies, eris.Wrap(rows.Err(), "sqlite: load companies iterate")
}

func (s *SQLiteStore) AppendVelocity(ctx context.Context, entry velocity.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal velocity entry")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO velocity_log (id, conference, entry, recorded_at) VALUES (?, ?, ?, ?)`,
		uuid.New().String(), entry.Conference, string(data), entry.RecordedAt.UTC(),
	)
	return eris.Wrap(err, "sqlite: append velocity")
}

func (s *SQLiteStore) ListVelocity(ctx context.Context, conference string) ([]velocity.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT entry FROM velocity_log WHERE conference = ? ORDER BY recorded_at`,
		conference,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list velocity")
	}
	defer rows.Close()

	var entries []velocity.Entry
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan velocity entry")
		}
		var e velocity.Entry
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal velocity entry")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "sqlite: list velocity iterate")
}

// AcquireRunLock takes the advisory per-conference lock. The primary key on
// conference makes a second acquire fail until the holder releases.
func (s *SQLiteStore) AcquireRunLock(ctx context.Context, conference string) (string, error) {
	token := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_locks (conference, token, acquired_at) VALUES (?, ?, ?)`,
		conference, token, time.Now().UTC(),
	)
	if err != nil {
		return "", ErrRunLocked
	}
	return token, nil
}

func (s *SQLiteStore) ReleaseRunLock(ctx context.Context, conference, token string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM run_locks WHERE conference = ? AND token = ?`,
		conference, token,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: release run lock")
	}
	return checkRowsAffected(res, "run lock", conference)
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}
