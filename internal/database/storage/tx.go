package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

type txKey struct{}

// querier — общее подмножество *sqlx.DB и *sqlx.Tx, которым пользуются хранилища.
type querier interface {
	Rebind(query string) string
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

// base содержит общее для всех хранилищ: пул и логгер.
type base struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// q возвращает транзакцию из контекста, если она есть, иначе пул.
func (b base) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return b.db
}

// Transactor реализует ports.Transactor поверх sqlx.
type Transactor struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewTransactor(db *sqlx.DB, logger *slog.Logger) *Transactor {
	return &Transactor{db: db, logger: logger}
}

// WithinTx выполняет fn в транзакции. Вложенный вызов переиспользует уже открытую транзакцию.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		t.logger.Error("failed to begin transaction", "error", err)
		return fmt.Errorf("ошибка открытия транзакции: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			t.logger.Error("failed to rollback transaction", "error", rbErr)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		t.logger.Error("failed to commit transaction", "error", err)
		return fmt.Errorf("ошибка фиксации транзакции: %w", classify(err))
	}
	return nil
}
