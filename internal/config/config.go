package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	// DBDriver: postgres (lib/pq), pgx (pgx/v5/stdlib) или sqlite (modernc.org/sqlite)
	DBDriver          string        `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseURL       string        `env:"DATABASE_URL,required"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	MigrateOnStart    bool          `env:"MIGRATE_ON_START" envDefault:"true"`

	ServerPort     string        `env:"SERVER_PORT"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`

	// Таймзона, в которой считается «сегодня»
	AppTimezone string `env:"APP_TIMEZONE" envDefault:"UTC"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	LogFile   string `env:"LOG_FILE"`

	// Настройки для MinIO; выгрузки отключены, если endpoint не задан
	MinioEndpoint        string `env:"MINIO_ENDPOINT"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME" envDefault:"dailytrack-exports"`
	MinioRegion          string `env:"MINIO_REGION" envDefault:"us-east-1"`
	MinioPublicURL       string `env:"MINIO_PUBLIC_URL"`

	// RabbitMQ; события активности не публикуются, если URL не задан
	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL"`
		RabbitMQExchange  string `env:"RABBITMQ_EXCHANGE"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"dailytrack_activity"`
	}
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate проверяет значения, которые env не умеет проверить сам.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "postgres", "pgx", "sqlite":
	default:
		return fmt.Errorf("неизвестный DB_DRIVER %q: ожидается postgres, pgx или sqlite", c.DBDriver)
	}
	// миграции и сервер открывают разные соединения, у каждого была бы своя in-memory база
	if c.DBDriver == "sqlite" && isInMemorySQLite(c.DatabaseURL) {
		return fmt.Errorf("DATABASE_URL %q: in-memory sqlite не поддерживается, укажите файл базы", c.DatabaseURL)
	}
	if _, err := time.LoadLocation(c.AppTimezone); err != nil {
		return fmt.Errorf("некорректная APP_TIMEZONE %q: %w", c.AppTimezone, err)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT должен быть положительным, получено %s", c.RequestTimeout)
	}
	return nil
}

func isInMemorySQLite(dsn string) bool {
	return dsn == "" || strings.HasPrefix(dsn, ":memory:") || strings.HasPrefix(dsn, "file::memory:") ||
		strings.Contains(dsn, "mode=memory")
}

// Location возвращает таймзону приложения. Значение уже проверено в Validate.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.AppTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ExportsEnabled сообщает, настроено ли объектное хранилище для выгрузок.
func (c *Config) ExportsEnabled() bool {
	return c.MinioEndpoint != ""
}
