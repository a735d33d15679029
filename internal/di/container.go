package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/DailyTrack/internal/adapter/storage/minio"
	"github.com/GoArmGo/DailyTrack/internal/app"
	"github.com/GoArmGo/DailyTrack/internal/config"
	"github.com/GoArmGo/DailyTrack/internal/core/ports"
	"github.com/GoArmGo/DailyTrack/internal/database/client"
	"github.com/GoArmGo/DailyTrack/internal/database/migrations"
	"github.com/GoArmGo/DailyTrack/internal/database/storage"
	"github.com/GoArmGo/DailyTrack/internal/handler"
	"github.com/GoArmGo/DailyTrack/internal/logger"
	"github.com/GoArmGo/DailyTrack/internal/rabbitmq"
	"github.com/GoArmGo/DailyTrack/internal/usecase"
)

// Bootstrap загружает конфигурацию и создаёт основной логгер.
func Bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	slogger.Info("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat, "file", cfg.LogFile)

	return cfg, slogger, nil
}

// BuildMigrator создаёт мигратор с отдельным соединением к бд из конфигурации.
func BuildMigrator(cfg *config.Config, slogger *slog.Logger) (*migrations.Migrator, error) {
	return migrations.Open(cfg.DBDriver, cfg.DatabaseURL, slogger)
}

// BuildApp инициализирует все зависимости и возвращает готовый объект App.
func BuildApp(ctx context.Context, cfg *config.Config, slogger *slog.Logger) (*app.App, error) {
	// 1. Миграции
	if cfg.MigrateOnStart {
		if err := migrateUp(cfg, slogger); err != nil {
			return nil, err
		}
	}

	// 2. Инициализация клиента бд
	dbClient, err := client.NewClient(cfg, slogger)
	if err != nil {
		return nil, err
	}

	// 3. Инициализация хранилищ
	deps := usecase.Deps{
		Users:       storage.NewUserStorage(dbClient.DB, slogger),
		Tasks:       storage.NewTaskStorage(dbClient.DB, slogger),
		Reflections: storage.NewReflectionStorage(dbClient.DB, slogger),
		Energy:      storage.NewEnergyStorage(dbClient.DB, slogger),
		Tx:          storage.NewTransactor(dbClient.DB, slogger),
		Location:    cfg.Location(),
		Logger:      slogger,
	}

	// 4. RabbitMQ publisher, если брокер настроен
	var publisher ports.ActivityPublisher = ports.NopPublisher{}
	if cfg.RabbitMQ.RabbitMQURL != "" {
		rabbitMQClient, err := rabbitmq.NewClient(cfg, slogger)
		if err != nil {
			_ = dbClient.Close()
			return nil, err
		}
		publisher = rabbitMQClient
	} else {
		slogger.Info("RABBITMQ_URL is not set, activity events are disabled")
	}
	deps.Publisher = publisher

	// 5. Хранилище выгрузок (S3 / MinIO адаптер)
	if cfg.ExportsEnabled() {
		archive, err := minio.NewMinioClient(ctx, cfg, slogger)
		if err != nil {
			_ = dbClient.Close()
			return nil, err
		}
		deps.Archive = archive
	} else {
		slogger.Info("MINIO_ENDPOINT is not set, exports are disabled")
	}

	// 6. Инициализация бизнес-логики (usecases)
	daily := usecase.NewDailyUseCase(deps)
	services := handler.Services{
		Users:       usecase.NewUserUseCase(deps),
		Tasks:       usecase.NewTaskUseCase(deps),
		Reflections: usecase.NewReflectionUseCase(deps),
		Energy:      usecase.NewEnergyUseCase(deps),
		Daily:       daily,
		Export:      usecase.NewExportUseCase(deps, daily),
	}

	// 7. HTTP роутер
	router := handler.NewRouter(services, dbClient.DB, slogger, cfg.RequestTimeout)

	slogger.Info("all dependencies initialized")
	return app.NewApp(cfg, slogger, dbClient, router, publisher), nil
}

func migrateUp(cfg *config.Config, slogger *slog.Logger) error {
	m, err := BuildMigrator(cfg, slogger)
	if err != nil {
		return err
	}
	upErr := m.Up()
	closeErr := m.Close()
	if upErr != nil {
		return fmt.Errorf("ошибка применения миграций: %w", upErr)
	}
	return closeErr
}
