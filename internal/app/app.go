package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/DailyTrack/internal/config"
	"github.com/GoArmGo/DailyTrack/internal/core/ports"
	"github.com/GoArmGo/DailyTrack/internal/database/client"
)

type App struct {
	Config    *config.Config
	logger    *slog.Logger
	db        *client.Client
	router    http.Handler
	publisher ports.ActivityPublisher
}

func NewApp(cfg *config.Config,
	logger *slog.Logger,
	db *client.Client,
	router http.Handler,
	publisher ports.ActivityPublisher) *App {
	return &App{
		Config:    cfg,
		logger:    logger,
		db:        db,
		router:    router,
		publisher: publisher,
	}
}

// Logger возвращает основной логгер приложения.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Run запускает HTTP-сервер и блокируется до сигнала завершения или ошибки сервера.
func (a *App) Run(ctx context.Context) error {
	// канал для graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting http server", "port", a.Config.ServerPort, "driver", a.db.Driver)

	err := runServer(ctx, a.Config, a.router, a.logger)

	// аккуратно закрываем ресурсы
	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("failed to release resources", "error", closeErr)
	}

	return err
}

// Shutdown закрывает все ресурсы приложения
func (a *App) Shutdown() error {
	var errs []error

	// publisher закрываем первым: он может ещё держать соединение с брокером
	if closer, ok := a.publisher.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("ошибка закрытия publisher: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("ошибка закрытия БД: %w", err))
		}
	}

	return errors.Join(errs...)
}
