// Package dbtest поднимает временную sqlite-базу со всеми миграциями для тестов.
package dbtest

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/GoArmGo/DailyTrack/internal/database/client"
	"github.com/GoArmGo/DailyTrack/internal/database/migrations"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// Logger возвращает логгер, который ничего не пишет.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// New создаёт файл базы в t.TempDir(), применяет миграции и возвращает открытый пул.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "dailytrack.db")

	m, err := migrations.Open(client.DriverSQLite, dsn, Logger())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	db, err := client.Open(client.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}
