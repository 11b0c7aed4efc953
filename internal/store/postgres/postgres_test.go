package postgres

import (
	"context"
	"errors"
	"io/fs"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bansalKrishna311/tryo/pkg/database"
	"github.com/bansalKrishna311/tryo/pkg/logger"
)

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Store) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, New(mock)
}

func TestStore_Get(t *testing.T) {
	mock, s := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectValue)).
		WithArgs("cart").
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(`{"version":1,"items":[]}`))

	v, ok, err := s.Get(context.Background(), "cart")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"version":1,"items":[]}`, v)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetMissing(t *testing.T) {
	mock, s := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectValue)).
		WithArgs("wishlist").
		WillReturnError(pgx.ErrNoRows)

	_, ok, err := s.Get(context.Background(), "wishlist")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetError(t *testing.T) {
	mock, s := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(selectValue)).
		WithArgs("cart").
		WillReturnError(errors.New("connection refused"))

	_, _, err := s.Get(context.Background(), "cart")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "select kv cart")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Set(t *testing.T) {
	mock, s := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(upsertValue)).
		WithArgs("tryHistory", "[]").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.Set(context.Background(), "tryHistory", "[]"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SetError(t *testing.T) {
	mock, s := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(upsertValue)).
		WithArgs("cart", "x").
		WillReturnError(errors.New("disk full"))

	err := s.Set(context.Background(), "cart", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_RemoveAbsentKey(t *testing.T) {
	mock, s := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(deleteValue)).
		WithArgs("cart").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, s.Remove(context.Background(), "cart"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrations_ContainsKVStore(t *testing.T) {
	names, err := fs.Glob(Migrations(), "*.up.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"001_kv_store.up.sql"}, names)

	body, err := fs.ReadFile(Migrations(), names[0])
	require.NoError(t, err)
	assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS kv_store")
}

func TestStore_Migrate(t *testing.T) {
	mock, s := newMock(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)")).
		WithArgs("001_kv_store.up.sql").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS kv_store").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations (version) VALUES ($1)")).
		WithArgs("001_kv_store.up.sql").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, s.Migrate(context.Background(), logger.Nop()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
