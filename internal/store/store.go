// Package store persists the accumulated sets, the company store, batch
// history, velocity log, and run locks, behind one interface with SQLite and
// Postgres backends.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadrank-cli/internal/model"
	"github.com/sells-group/leadrank-cli/internal/velocity"
)

// ErrRunLocked is returned when a conference's accumulated set is already
// held by another run.
var ErrRunLocked = eris.New("store: run already in progress for conference")

// Store defines the persistence interface for the scoring pipeline.
// Accumulated sets and the company store are replaced as a whole inside one
// transaction: a population must never be persisted half-merged.
type Store interface {
	// Accumulated sets
	ReplaceAccum(ctx context.Context, conference string, people []model.Person) error
	LoadAccum(ctx context.Context, conference string) ([]model.Person, error)

	// Source batch history
	RecordBatch(ctx context.Context, batch model.SourceBatch) error
	ListBatches(ctx context.Context, conference string) ([]model.SourceBatch, error)

	// Company store
	ReplaceCompanies(ctx context.Context, companies []model.Company) error
	LoadCompanies(ctx context.Context) ([]model.Company, error)

	// Velocity log
	AppendVelocity(ctx context.Context, entry velocity.Entry) error
	ListVelocity(ctx context.Context, conference string) ([]velocity.Entry, error)

	// Run locks. Acquire returns a token that must be passed back to
	// Release; a held lock makes Acquire fail with ErrRunLocked.
	AcquireRunLock(ctx context.Context, conference string) (string, error)
	ReleaseRunLock(ctx context.Context, conference, token string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
