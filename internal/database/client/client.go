package client

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/GoArmGo/DailyTrack/internal/config"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Поддерживаемые значения DB_DRIVER
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverSQLite   = "sqlite"
)

func init() {
	// modernc.org/sqlite регистрируется как "sqlite", sqlx знает только "sqlite3"
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Client представляет клиент для взаимодействия с базой данных
type Client struct {
	DB     *sqlx.DB
	Driver string
	logger *slog.Logger
}

// Dialect возвращает диалект SQL для драйвера: postgres или sqlite.
func Dialect(driver string) string {
	if driver == DriverSQLite {
		return DriverSQLite
	}
	return DriverPostgres
}

// Open открывает пул соединений без проверки доступности базы.
func Open(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverPostgres, DriverPgx:
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	default:
		return nil, fmt.Errorf("неподдерживаемый драйвер БД: %s", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия соединения с БД: %w", err)
	}
	if driver == DriverSQLite {
		// sqlite допускает одного писателя
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

// sqliteDSN включает внешние ключи и формат времени, который драйвер читает обратно в time.Time.
func sqliteDSN(dsn string) string {
	params := []string{"_pragma=foreign_keys(1)", "_pragma=busy_timeout(5000)", "_time_format=sqlite"}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// NewClient инициализирует новое подключение к базе данных
func NewClient(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	start := time.Now()

	db, err := Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database connection", "driver", cfg.DBDriver, "error", err)
		return nil, err
	}

	if cfg.DBDriver != DriverSQLite {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
		db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	}

	if err = db.Ping(); err != nil {
		logger.Error("failed to ping database", "driver", cfg.DBDriver, "error", err)
		_ = db.Close()
		return nil, fmt.Errorf("не удалось подключиться к базе данных: %w", err)
	}

	logger.Info("database connection established successfully",
		"driver", cfg.DBDriver,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &Client{DB: db, Driver: cfg.DBDriver, logger: logger}, nil
}

func (c *Client) Close() error {
	start := time.Now()
	err := c.DB.Close()
	if err != nil {
		c.logger.Error("failed to close database connection", "error", err)
		return err
	}
	c.logger.Info("database connection closed", "duration_ms", time.Since(start).Milliseconds())
	return nil
}
