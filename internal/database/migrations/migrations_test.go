package migrations

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/GoArmGo/DailyTrack/internal/database/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrator_UpDownVersion(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "migrate.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	m, err := Open(client.DriverSQLite, dsn, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	version, _, err := m.Version()
	require.NoError(t, err)
	assert.Zero(t, version)

	require.NoError(t, m.Up())
	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// повторный Up ничего не меняет
	require.NoError(t, m.Up())

	require.NoError(t, m.Down())
	version, _, err = m.Version()
	require.NoError(t, err)
	assert.Zero(t, version)
}

func TestNew_UnknownDialect(t *testing.T) {
	_, err := New(nil, "mysql", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
}
