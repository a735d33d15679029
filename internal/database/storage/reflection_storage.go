package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/DailyTrack/internal/domain"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const reflectionColumns = `id, user_id, date, energy_rating, reflection_text, created_at, updated_at`

// ReflectionStorage реализует интерфейс ports.ReflectionStorage
type ReflectionStorage struct {
	base
}

func NewReflectionStorage(db *sqlx.DB, logger *slog.Logger) *ReflectionStorage {
	return &ReflectionStorage{base{db: db, logger: logger}}
}

// CreateReflection сохраняет рефлексию. Вторая запись на ту же дату нарушает уникальный индекс
// и возвращается как domain.ErrDuplicateResource.
func (s *ReflectionStorage) CreateReflection(ctx context.Context, r *domain.Reflection) error {
	start := time.Now()

	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = nowUTC()
	}
	r.UpdatedAt = r.CreatedAt

	_, err := s.q(ctx).NamedExecContext(ctx, `
		INSERT INTO reflections (id, user_id, date, energy_rating, reflection_text, created_at, updated_at)
		VALUES (:id, :user_id, :date, :energy_rating, :reflection_text, :created_at, :updated_at)
	`, r)
	if err != nil {
		err = classify(err)
		if errors.Is(err, domain.ErrDuplicateResource) {
			s.logger.Warn("reflection already exists for date", "user_id", r.UserID, "date", r.Date)
			return domain.Duplicate("Reflection", "date", r.Date, err)
		}
		s.logger.Error("failed to save reflection", "user_id", r.UserID, "date", r.Date, "error", err)
		return fmt.Errorf("ошибка при сохранении рефлексии: %w", err)
	}

	s.logger.Info("reflection saved successfully",
		"id", r.ID,
		"date", r.Date,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// UpdateReflection перезаписывает оценку и текст. Дата не меняется.
func (s *ReflectionStorage) UpdateReflection(ctx context.Context, r *domain.Reflection) error {
	r.UpdatedAt = nowUTC()

	res, err := s.q(ctx).NamedExecContext(ctx, `
		UPDATE reflections
		SET energy_rating = :energy_rating, reflection_text = :reflection_text, updated_at = :updated_at
		WHERE id = :id
	`, r)
	if err != nil {
		s.logger.Error("failed to update reflection", "id", r.ID, "error", err)
		return fmt.Errorf("ошибка при обновлении рефлексии: %w", classify(err))
	}
	return requireAffected(res, domain.NotFound("Reflection", "id", r.ID))
}

func (s *ReflectionStorage) GetReflectionByID(ctx context.Context, id uuid.UUID) (*domain.Reflection, error) {
	return s.getOne(ctx, domain.NotFound("Reflection", "id", id), `id = ?`, id)
}

// GetReflectionByDate получает рефлексию пользователя за день
func (s *ReflectionStorage) GetReflectionByDate(ctx context.Context, userID uuid.UUID, date domain.Date) (*domain.Reflection, error) {
	return s.getOne(ctx, domain.NotFound("Reflection", "date", date), `user_id = ? AND date = ?`, userID, date)
}

func (s *ReflectionStorage) getOne(ctx context.Context, notFound error, where string, args ...any) (*domain.Reflection, error) {
	var r domain.Reflection
	q := s.q(ctx)
	err := q.GetContext(ctx, &r, q.Rebind(`SELECT `+reflectionColumns+` FROM reflections WHERE `+where), args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound
		}
		s.logger.Error("failed to get reflection", "error", err)
		return nil, fmt.Errorf("ошибка при получении рефлексии: %w", err)
	}
	return &r, nil
}

func (s *ReflectionStorage) ExistsReflectionByDate(ctx context.Context, userID uuid.UUID, date domain.Date) (bool, error) {
	n, err := s.count(ctx, `user_id = ? AND date = ?`, userID, date)
	return n > 0, err
}

func (s *ReflectionStorage) DeleteReflection(ctx context.Context, id uuid.UUID) error {
	q := s.q(ctx)
	res, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM reflections WHERE id = ?`), id)
	if err != nil {
		s.logger.Error("failed to delete reflection", "id", id, "error", err)
		return fmt.Errorf("ошибка при удалении рефлексии: %w", err)
	}
	return requireAffected(res, domain.NotFound("Reflection", "id", id))
}

func (s *ReflectionStorage) DeleteReflectionsByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return deleteByUser(ctx, s.q(ctx), "reflections", userID)
}

func (s *ReflectionStorage) ListReflections(ctx context.Context, userID uuid.UUID) ([]domain.Reflection, error) {
	return s.list(ctx, `user_id = ?`, userID)
}

func (s *ReflectionStorage) ListReflectionsByDateRange(ctx context.Context, userID uuid.UUID, startDate, endDate domain.Date) ([]domain.Reflection, error) {
	return s.list(ctx, `user_id = ? AND date BETWEEN ? AND ?`, userID, startDate, endDate)
}

// ListReflectionsByRating возвращает рефлексии с оценкой в [min, max] включительно
func (s *ReflectionStorage) ListReflectionsByRating(ctx context.Context, userID uuid.UUID, minRating, maxRating int) ([]domain.Reflection, error) {
	return s.list(ctx, `user_id = ? AND energy_rating BETWEEN ? AND ?`, userID, minRating, maxRating)
}

// ListReflectionsWithText возвращает рефлексии с непустым текстом
func (s *ReflectionStorage) ListReflectionsWithText(ctx context.Context, userID uuid.UUID) ([]domain.Reflection, error) {
	return s.list(ctx, `user_id = ? AND reflection_text IS NOT NULL AND TRIM(reflection_text) <> ''`, userID)
}

func (s *ReflectionStorage) list(ctx context.Context, where string, args ...any) ([]domain.Reflection, error) {
	out := []domain.Reflection{}
	q := s.q(ctx)
	query := q.Rebind(`SELECT ` + reflectionColumns + ` FROM reflections WHERE ` + where + ` ORDER BY date DESC`)
	if err := q.SelectContext(ctx, &out, query, args...); err != nil {
		s.logger.Error("failed to list reflections", "error", err)
		return nil, fmt.Errorf("ошибка при получении списка рефлексий: %w", err)
	}
	return out, nil
}

func (s *ReflectionStorage) CountReflections(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.count(ctx, `user_id = ?`, userID)
}

func (s *ReflectionStorage) CountReflectionsByDateRange(ctx context.Context, userID uuid.UUID, startDate, endDate domain.Date) (int64, error) {
	return s.count(ctx, `user_id = ? AND date BETWEEN ? AND ?`, userID, startDate, endDate)
}

func (s *ReflectionStorage) count(ctx context.Context, where string, args ...any) (int64, error) {
	var n int64
	q := s.q(ctx)
	if err := q.GetContext(ctx, &n, q.Rebind(`SELECT COUNT(*) FROM reflections WHERE `+where), args...); err != nil {
		s.logger.Error("failed to count reflections", "error", err)
		return 0, fmt.Errorf("ошибка при подсчёте рефлексий: %w", err)
	}
	return n, nil
}

// AverageRating возвращает среднюю оценку энергии; ok=false, если рефлексий нет
func (s *ReflectionStorage) AverageRating(ctx context.Context, userID uuid.UUID) (float64, bool, error) {
	return average(ctx, s.q(ctx), "energy_rating", "reflections", `user_id = ?`, userID)
}

func (s *ReflectionStorage) AverageRatingByDateRange(ctx context.Context, userID uuid.UUID, startDate, endDate domain.Date) (float64, bool, error) {
	return average(ctx, s.q(ctx), "energy_rating", "reflections", `user_id = ? AND date BETWEEN ? AND ?`, userID, startDate, endDate)
}

func (s *ReflectionStorage) ListReflectionDates(ctx context.Context, userID uuid.UUID) ([]domain.Date, error) {
	return distinctDates(ctx, s.q(ctx), "reflections", userID)
}

// average считает AVG по колонке; NULL (нет строк) превращается в ok=false.
func average(ctx context.Context, q querier, column, table, where string, args ...any) (float64, bool, error) {
	var avg sql.NullFloat64
	query := q.Rebind(`SELECT AVG(` + column + `) FROM ` + table + ` WHERE ` + where)
	if err := q.GetContext(ctx, &avg, query, args...); err != nil {
		return 0, false, fmt.Errorf("ошибка при вычислении среднего %s: %w", column, err)
	}
	return avg.Float64, avg.Valid, nil
}
