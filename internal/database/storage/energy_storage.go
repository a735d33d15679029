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

const energyColumns = `id, user_id, date, energy_level, created_at, updated_at`

// EnergyStorage реализует интерфейс ports.EnergyStorage
type EnergyStorage struct {
	base
}

func NewEnergyStorage(db *sqlx.DB, logger *slog.Logger) *EnergyStorage {
	return &EnergyStorage{base{db: db, logger: logger}}
}

// CreateAssessment сохраняет оценку энергии; одна запись на пользователя и дату
func (s *EnergyStorage) CreateAssessment(ctx context.Context, a *domain.EnergyAssessment) error {
	start := time.Now()

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = nowUTC()
	}
	a.UpdatedAt = a.CreatedAt

	_, err := s.q(ctx).NamedExecContext(ctx, `
		INSERT INTO energy_assessments (id, user_id, date, energy_level, created_at, updated_at)
		VALUES (:id, :user_id, :date, :energy_level, :created_at, :updated_at)
	`, a)
	if err != nil {
		err = classify(err)
		if errors.Is(err, domain.ErrDuplicateResource) {
			s.logger.Warn("energy assessment already exists for date", "user_id", a.UserID, "date", a.Date)
			return domain.Duplicate("EnergyAssessment", "date", a.Date, err)
		}
		s.logger.Error("failed to save energy assessment", "user_id", a.UserID, "date", a.Date, "error", err)
		return fmt.Errorf("ошибка при сохранении оценки энергии: %w", err)
	}

	s.logger.Info("energy assessment saved successfully",
		"id", a.ID,
		"date", a.Date,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (s *EnergyStorage) UpdateAssessment(ctx context.Context, a *domain.EnergyAssessment) error {
	a.UpdatedAt = nowUTC()

	res, err := s.q(ctx).NamedExecContext(ctx, `
		UPDATE energy_assessments
		SET energy_level = :energy_level, updated_at = :updated_at
		WHERE id = :id
	`, a)
	if err != nil {
		s.logger.Error("failed to update energy assessment", "id", a.ID, "error", err)
		return fmt.Errorf("ошибка при обновлении оценки энергии: %w", classify(err))
	}
	return requireAffected(res, domain.NotFound("EnergyAssessment", "id", a.ID))
}

func (s *EnergyStorage) GetAssessmentByID(ctx context.Context, id uuid.UUID) (*domain.EnergyAssessment, error) {
	return s.getOne(ctx, domain.NotFound("EnergyAssessment", "id", id), `id = ?`, id)
}

func (s *EnergyStorage) GetAssessmentByDate(ctx context.Context, userID uuid.UUID, date domain.Date) (*domain.EnergyAssessment, error) {
	return s.getOne(ctx, domain.NotFound("EnergyAssessment", "date", date), `user_id = ? AND date = ?`, userID, date)
}

func (s *EnergyStorage) getOne(ctx context.Context, notFound error, where string, args ...any) (*domain.EnergyAssessment, error) {
	var a domain.EnergyAssessment
	q := s.q(ctx)
	err := q.GetContext(ctx, &a, q.Rebind(`SELECT `+energyColumns+` FROM energy_assessments WHERE `+where), args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound
		}
		s.logger.Error("failed to get energy assessment", "error", err)
		return nil, fmt.Errorf("ошибка при получении оценки энергии: %w", err)
	}
	return &a, nil
}

func (s *EnergyStorage) ExistsAssessmentByDate(ctx context.Context, userID uuid.UUID, date domain.Date) (bool, error) {
	n, err := s.count(ctx, `user_id = ? AND date = ?`, userID, date)
	return n > 0, err
}

func (s *EnergyStorage) DeleteAssessment(ctx context.Context, id uuid.UUID) error {
	q := s.q(ctx)
	res, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM energy_assessments WHERE id = ?`), id)
	if err != nil {
		s.logger.Error("failed to delete energy assessment", "id", id, "error", err)
		return fmt.Errorf("ошибка при удалении оценки энергии: %w", err)
	}
	return requireAffected(res, domain.NotFound("EnergyAssessment", "id", id))
}

func (s *EnergyStorage) DeleteAssessmentsByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return deleteByUser(ctx, s.q(ctx), "energy_assessments", userID)
}

func (s *EnergyStorage) ListAssessments(ctx context.Context, userID uuid.UUID) ([]domain.EnergyAssessment, error) {
	return s.list(ctx, `user_id = ?`, userID)
}

func (s *EnergyStorage) ListAssessmentsByDateRange(ctx context.Context, userID uuid.UUID, startDate, endDate domain.Date) ([]domain.EnergyAssessment, error) {
	return s.list(ctx, `user_id = ? AND date BETWEEN ? AND ?`, userID, startDate, endDate)
}

// ListAssessmentsByLevel возвращает оценки с уровнем в [min, max] включительно
func (s *EnergyStorage) ListAssessmentsByLevel(ctx context.Context, userID uuid.UUID, minLevel, maxLevel int) ([]domain.EnergyAssessment, error) {
	return s.list(ctx, `user_id = ? AND energy_level BETWEEN ? AND ?`, userID, minLevel, maxLevel)
}

func (s *EnergyStorage) list(ctx context.Context, where string, args ...any) ([]domain.EnergyAssessment, error) {
	out := []domain.EnergyAssessment{}
	q := s.q(ctx)
	query := q.Rebind(`SELECT ` + energyColumns + ` FROM energy_assessments WHERE ` + where + ` ORDER BY date DESC`)
	if err := q.SelectContext(ctx, &out, query, args...); err != nil {
		s.logger.Error("failed to list energy assessments", "error", err)
		return nil, fmt.Errorf("ошибка при получении списка оценок энергии: %w", err)
	}
	return out, nil
}

func (s *EnergyStorage) CountAssessments(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.count(ctx, `user_id = ?`, userID)
}

func (s *EnergyStorage) CountAssessmentsByDateRange(ctx context.Context, userID uuid.UUID, startDate, endDate domain.Date) (int64, error) {
	return s.count(ctx, `user_id = ? AND date BETWEEN ? AND ?`, userID, startDate, endDate)
}

func (s *EnergyStorage) count(ctx context.Context, where string, args ...any) (int64, error) {
	var n int64
	q := s.q(ctx)
	if err := q.GetContext(ctx, &n, q.Rebind(`SELECT COUNT(*) FROM energy_assessments WHERE `+where), args...); err != nil {
		s.logger.Error("failed to count energy assessments", "error", err)
		return 0, fmt.Errorf("ошибка при подсчёте оценок энергии: %w", err)
	}
	return n, nil
}

func (s *EnergyStorage) AverageLevel(ctx context.Context, userID uuid.UUID) (float64, bool, error) {
	return average(ctx, s.q(ctx), "energy_level", "energy_assessments", `user_id = ?`, userID)
}

func (s *EnergyStorage) AverageLevelByDateRange(ctx context.Context, userID uuid.UUID, startDate, endDate domain.Date) (float64, bool, error) {
	return average(ctx, s.q(ctx), "energy_level", "energy_assessments", `user_id = ? AND date BETWEEN ? AND ?`, userID, startDate, endDate)
}

func (s *EnergyStorage) ListAssessmentDates(ctx context.Context, userID uuid.UUID) ([]domain.Date, error) {
	return distinctDates(ctx, s.q(ctx), "energy_assessments", userID)
}
