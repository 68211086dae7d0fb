package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadrank-cli/internal/model"
	"github.com/sells-group/leadrank-cli/internal/velocity"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it in
// tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS accum_people (
	conference TEXT NOT NULL,
	position   INTEGER NOT NULL,
	person     JSONB NOT NULL,
	PRIMARY KEY (conference, position)
);

CREATE TABLE IF NOT EXISTS source_batches (
	id          TEXT PRIMARY KEY,
	conference  TEXT NOT NULL,
	label       TEXT NOT NULL,
	row_count   INTEGER NOT NULL,
	ingested_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS companies (
	position INTEGER PRIMARY KEY,
	company  JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS velocity_log (
	id          TEXT PRIMARY KEY,
	conference  TEXT NOT NULL,
	entry       JSONB NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS run_locks (
	conference  TEXT PRIMARY KEY,
	token       TEXT NOT NULL,
	acquired_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_source_batches_conference ON source_batches(conference);
CREATE INDEX IF NOT EXISTS idx_velocity_log_conference ON velocity_log(conference);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) ReplaceAccum(ctx context.Context, conference string, people []model.Person) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin replace accum")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM accum_people WHERE conference = $1`, conference); err != nil {
		return eris.Wrap(err, "postgres: clear accum")
	}
	for i, p := range people {
		data, err := json.Marshal(p)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal person")
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO accum_people (conference, position, person) VALUES ($1, $2, $3)`,
			conference, i, data,
		); err != nil {
			return eris.Wrap(err, "postgres: insert person")
		}
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit replace accum")
}

func (s *PostgresStore) LoadAccum(ctx context.Context, conference string) ([]model.Person, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT person FROM accum_people WHERE conference = $1 ORDER BY position`,
		conference,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load accum")
	}
	defer rows.Close()

	var people []model.Person
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan person")
		}
		var p model.Person
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal person")
		}
		people = append(people, p)
	}
	return people, eris.Wrap(rows.Err(), "postgres: load accum iterate")
}

func (s *PostgresStore) RecordBatch(ctx context.Context, batch model.SourceBatch) error {
	if batch.ID == "" {
		batch.ID = uuid.New().String()
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO source_batches (id, conference, label, row_count, ingested_at) VALUES ($1, $2, $3, $4, $5)`,
		batch.ID, batch.Conference, batch.Label, batch.RowCount, batch.IngestedAt.UTC(),
	)
	return eris.Wrap(err, "postgres: record batch")
}

func (s *PostgresStore) ListBatches(ctx context.Context, conference string) ([]model.SourceBatch, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, conference, label, row_count, ingested_at FROM source_batches
		 WHERE conference = $1 ORDER BY ingested_at`,
		conference,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list batches")
	}
	defer rows.Close()

	var batches []model.SourceBatch
	for rows.Next() {
		var b model.SourceBatch
		if err := rows.Scan(&b.ID, &b.Conference, &b.Label, &b.RowCount, &b.IngestedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan batch")
		}
		batches = append(batches, b)
	}
	return batches, eris.Wrap(rows.Err(), "postgres: list batches iterate")
}

func (s *PostgresStore) ReplaceCompanies(ctx context.Context, companies []model.Company) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "postgres: begin replace companies")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM companies`); err != nil {
		return eris.Wrap(err, "postgres: clear companies")
	}
	for i, c := range companies {
		data, err := json.Marshal(c)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal company")
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO companies (position, company) VALUES ($1, $2)`,
			i, data,
		); err != nil {
			return eris.Wrap(err, "postgres: insert company")
		}
	}
	return eris.Wrap(tx.Commit(ctx), "postgres: commit replace companies")
}

func (s *PostgresStore) LoadCompanies(ctx context.Context) ([]model.Company, error) {
	rows, err := s.pool.Query(ctx, `SELECT company FROM companies ORDER BY position`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: load companies")
	}
	defer rows.Close()

	var companies []model.Company
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan company")
		}
		var c model.Company
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal company")
		}
		companies = append(companies, c)
	}
	return companies, eris.Wrap(rows.Err(), "postgres: load companies iterate")
}

func (s *PostgresStore) AppendVelocity(ctx context.Context, entry velocity.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal velocity entry")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO velocity_log (id, conference, entry, recorded_at) VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), entry.Conference, data, entry.RecordedAt.UTC(),
	)
	return eris.Wrap(err, "postgres: append velocity")
}

func (s *PostgresStore) ListVelocity(ctx context.Context, conference string) ([]velocity.Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT entry FROM velocity_log WHERE conference = $1 ORDER BY recorded_at`,
		conference,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list velocity")
	}
	defer rows.Close()

	var entries []velocity.Entry
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan velocity entry")
		}
		var e velocity.Entry
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal velocity entry")
		}
		entries = append(entries, e)
	}
	return entries, eris.Wrap(rows.Err(), "postgres: list velocity iterate")
}

func (s *PostgresStore) AcquireRunLock(ctx context.Context, conference string) (string, error) {
	token := uuid.New().String()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO run_locks (conference, token, acquired_at) VALUES ($1, $2, $3)`,
		conference, token, time.Now().UTC(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", ErrRunLocked
		}
		return "", eris.Wrap(err, "postgres: acquire run lock")
	}
	return token, nil
}

func (s *PostgresStore) ReleaseRunLock(ctx context.Context, conference, token string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM run_locks WHERE conference = $1 AND token = $2`,
		conference, token,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: release run lock")
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run lock not found: %s", conference)
	}
	return nil
}
