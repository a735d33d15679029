package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/DailyTrack/internal/database/client"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Migrator применяет версионные миграции схемы.
// Закрытие мигратора закрывает и переданное ему соединение, поэтому ему нужен отдельный *sql.DB.
type Migrator struct {
	m      *migrate.Migrate
	logger *slog.Logger
}

// New создаёт мигратор для диалекта "postgres" или "sqlite".
func New(db *sql.DB, dialect string, logger *slog.Logger) (*Migrator, error) {
	src, err := iofs.New(files, dialect)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть миграции для диалекта %s: %w", dialect, err)
	}

	var drv database.Driver
	switch dialect {
	case "postgres":
		drv, err = postgres.WithInstance(db, &postgres.Config{})
	case "sqlite":
		drv, err = sqlite.WithInstance(db, &sqlite.Config{})
	default:
		return nil, fmt.Errorf("неизвестный диалект миграций: %s", dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("не удалось создать драйвер миграций: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dialect, drv)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать экземпляр мигратора: %w", err)
	}

	return &Migrator{m: m, logger: logger}, nil
}

// Open открывает отдельное соединение по драйверу и DSN и создаёт мигратор для него.
func Open(driver, dsn string, logger *slog.Logger) (*Migrator, error) {
	db, err := client.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	m, err := New(db.DB, client.Dialect(driver), logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}

// Up применяет все доступные миграции к бд
func (m *Migrator) Up() error {
	start := time.Now()
	err := m.m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("migrations not required, database is up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("ошибка выполнения миграций: %w", err)
	}
	m.logger.Info("migrations applied", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// Down откатывает одну последнюю миграцию.
func (m *Migrator) Down() error {
	err := m.m.Steps(-1)
	if errors.Is(err, migrate.ErrNoChange) || errors.Is(err, migrate.ErrNilVersion) {
		m.logger.Info("nothing to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("ошибка отката миграции: %w", err)
	}
	m.logger.Info("migration rolled back")
	return nil
}

// Version возвращает текущую версию схемы; version=0, если миграции не применялись.
func (m *Migrator) Version() (version uint, dirty bool, err error) {
	version, dirty, err = m.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("ошибка получения версии схемы: %w", err)
	}
	return version, dirty, nil
}

func (m *Migrator) Close() error {
	srcErr, dbErr := m.m.Close()
	return errors.Join(srcErr, dbErr)
}
