package kv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/flood-response-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "floodAlerts"

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	_, ok, err := s.Get(ctx, testKey)
	require.NoError(t, err)
	assert.False(t, ok, "missing key reports not found")

	require.NoError(t, s.Set(ctx, testKey, []byte(`[{"id":1}]`)))
	got, ok, err := s.Get(ctx, testKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":1}]`, string(got))

	require.NoError(t, s.Set(ctx, testKey, []byte(`[]`)))
	got, ok, err = s.Get(ctx, testKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", string(got), "set overwrites")

	_, ok, err = s.Get(ctx, "otherKey")
	require.NoError(t, err)
	assert.False(t, ok, "keys are independent")
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	exerciseStore(t, m)
	require.NoError(t, m.Close())
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	value := []byte("abc")
	require.NoError(t, m.Set(ctx, testKey, value))
	value[0] = 'x'

	got, _, err := m.Get(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, _, err := m.Get(ctx, testKey)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func openTempSQLite(t *testing.T) (*SQL, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "alerts.db")
	s, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestSQLite(t *testing.T) {
	s, _ := openTempSQLite(t)
	exerciseStore(t, s)
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	s, path := openTempSQLite(t)
	require.NoError(t, s.Set(ctx, testKey, []byte(`[{"id":7}]`)))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.Get(ctx, testKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":7}]`, string(got))
}

func TestOpenSQLite_RequiresPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), "  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SQLITE_PATH")
}

func TestOpenPostgres_RequiresDSN(t *testing.T) {
	_, err := OpenPostgres(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_DSN")
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		s, err := New(ctx, &config.Config{StorageType: config.StorageMemory})
		require.NoError(t, err)
		assert.IsType(t, &Memory{}, s)
	})

	t.Run("sqlite", func(t *testing.T) {
		s, err := New(ctx, &config.Config{
			StorageType: config.StorageSQLite,
			SQLitePath:  filepath.Join(t.TempDir(), "alerts.db"),
		})
		require.NoError(t, err)
		defer s.Close()
		assert.IsType(t, &SQL{}, s)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := New(ctx, &config.Config{StorageType: "localStorage"})
		require.ErrorIs(t, err, ErrUnsupported)
	})
}
