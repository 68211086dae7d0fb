package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadrank-cli/internal/store"
	"github.com/sells-group/leadrank-cli/internal/tuning"
)

// initStore opens the configured store backend and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		st, err = store.NewSQLite(cfg.Store.Path)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, cfg.Store.Pool)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// loadTuning reads the tuning document named in config, falling back to the
// built-in production defaults when none is configured.
func loadTuning() (*tuning.Config, error) {
	if cfg.Data.TuningPath == "" {
		return tuning.Default(), nil
	}
	return tuning.Load(cfg.Data.TuningPath)
}

// withRunLock runs fn while holding the conference's advisory run lock.
func withRunLock(ctx context.Context, st store.Store, conference string, fn func() error) error {
	token, err := st.AcquireRunLock(ctx, conference)
	if err != nil {
		if eris.Is(err, store.ErrRunLocked) {
			return eris.Wrapf(err, "another run holds %s", conference)
		}
		return err
	}
	defer st.ReleaseRunLock(ctx, conference, token) //nolint:errcheck

	return fn()
}

var timeNow = time.Now
