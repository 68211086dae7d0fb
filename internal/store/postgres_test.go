package store

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadrank-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit
// testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return &PostgresStore{pool: mock}, mock
}

func TestPostgresReplaceAccum_Transactional(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM accum_people WHERE conference = \$1`).
		WithArgs("gdc_sf_26").
		WillReturnResult(pgxmock.NewResult("DELETE", 2))
	mock.ExpectExec(`INSERT INTO accum_people`).
		WithArgs("gdc_sf_26", 0, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO accum_people`).
		WithArgs("gdc_sf_26", 1, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err := s.ReplaceAccum(context.Background(), "gdc_sf_26", []model.Person{
		{FirstName: "Ann", LastName: "Lee"},
		{FirstName: "Bob", LastName: "Roy"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReplaceAccum_RollsBackOnInsertFailure(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM accum_people`).
		WithArgs("gdc_sf_26").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectExec(`INSERT INTO accum_people`).
		WithArgs("gdc_sf_26", 0, pgxmock.AnyArg()).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := s.ReplaceAccum(context.Background(), "gdc_sf_26", []model.Person{
		{FirstName: "Ann", LastName: "Lee"},
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLoadCompanies(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	rows := pgxmock.NewRows([]string{"company"}).
		AddRow([]byte(`{"name":"Acme Studios","normal_name":"acme","score":92}`)).
		AddRow([]byte(`{"name":"Supercell","normal_name":"supercell"}`))
	mock.ExpectQuery(`SELECT company FROM companies ORDER BY position`).
		WillReturnRows(rows)

	got, err := s.LoadCompanies(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Acme Studios", got[0].Name)
	assert.Equal(t, 92.0, got[0].Score)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresAcquireRunLock_Held(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO run_locks`).
		WithArgs("gdc_sf_26", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := s.AcquireRunLock(context.Background(), "gdc_sf_26")
	assert.ErrorIs(t, err, ErrRunLocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresReleaseRunLock_NotHeld(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`DELETE FROM run_locks`).
		WithArgs("gdc_sf_26", "token").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := s.ReleaseRunLock(context.Background(), "gdc_sf_26", "token")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRecordBatch(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO source_batches`).
		WithArgs(pgxmock.AnyArg(), "gdc_sf_26", "lisn", 120, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.RecordBatch(context.Background(), model.SourceBatch{
		Conference: "gdc_sf_26", Label: "lisn", RowCount: 120,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
