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

const taskColumns = `id, user_id, title, description, date, completed, starred, created_at, updated_at`

// TaskStorage реализует интерфейс ports.TaskStorage
type TaskStorage struct {
	base
}

func NewTaskStorage(db *sqlx.DB, logger *slog.Logger) *TaskStorage {
	return &TaskStorage{base{db: db, logger: logger}}
}

// CreateTask сохраняет задачу
func (s *TaskStorage) CreateTask(ctx context.Context, task *domain.Task) error {
	start := time.Now()

	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = nowUTC()
	}
	task.UpdatedAt = task.CreatedAt

	_, err := s.q(ctx).NamedExecContext(ctx, `
		INSERT INTO tasks (id, user_id, title, description, date, completed, starred, created_at, updated_at)
		VALUES (:id, :user_id, :title, :description, :date, :completed, :starred, :created_at, :updated_at)
	`, task)
	if err != nil {
		s.logger.Error("failed to save task", "user_id", task.UserID, "date", task.Date, "error", err)
		return fmt.Errorf("ошибка при сохранении задачи: %w", classify(err))
	}

	s.logger.Info("task saved successfully",
		"id", task.ID,
		"date", task.Date,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// UpdateTask перезаписывает изменяемые поля задачи. Дата и владелец не меняются.
func (s *TaskStorage) UpdateTask(ctx context.Context, task *domain.Task) error {
	task.UpdatedAt = nowUTC()

	res, err := s.q(ctx).NamedExecContext(ctx, `
		UPDATE tasks
		SET title = :title, description = :description, completed = :completed,
		    starred = :starred, updated_at = :updated_at
		WHERE id = :id
	`, task)
	if err != nil {
		s.logger.Error("failed to update task", "id", task.ID, "error", err)
		return fmt.Errorf("ошибка при обновлении задачи: %w", classify(err))
	}
	return requireAffected(res, domain.NotFound("Task", "id", task.ID))
}

// GetTaskByID получает задачу по ID
func (s *TaskStorage) GetTaskByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	q := s.q(ctx)
	err := q.GetContext(ctx, &task, q.Rebind(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFound("Task", "id", id)
		}
		s.logger.Error("failed to get task by id", "id", id, "error", err)
		return nil, fmt.Errorf("ошибка при получении задачи по ID: %w", err)
	}
	return &task, nil
}

func (s *TaskStorage) DeleteTask(ctx context.Context, id uuid.UUID) error {
	q := s.q(ctx)
	res, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM tasks WHERE id = ?`), id)
	if err != nil {
		s.logger.Error("failed to delete task", "id", id, "error", err)
		return fmt.Errorf("ошибка при удалении задачи: %w", err)
	}
	return requireAffected(res, domain.NotFound("Task", "id", id))
}

// DeleteTasksByUser удаляет все задачи пользователя
func (s *TaskStorage) DeleteTasksByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	return deleteByUser(ctx, s.q(ctx), "tasks", userID)
}

// ListTasksByDate возвращает задачи за день: сначала отмеченные, затем по времени создания
func (s *TaskStorage) ListTasksByDate(ctx context.Context, userID uuid.UUID, date domain.Date) ([]domain.Task, error) {
	return s.list(ctx, "by_date", `user_id = ? AND date = ?`,
		`starred DESC, created_at ASC, id ASC`, userID, date)
}

func (s *TaskStorage) ListTasksByDateRange(ctx context.Context, userID uuid.UUID, startDate, endDate domain.Date) ([]domain.Task, error) {
	return s.list(ctx, "by_range", `user_id = ? AND date BETWEEN ? AND ?`,
		`date DESC, starred DESC, created_at ASC, id ASC`, userID, startDate, endDate)
}

func (s *TaskStorage) ListStarredTasks(ctx context.Context, userID uuid.UUID) ([]domain.Task, error) {
	return s.list(ctx, "starred", `user_id = ? AND starred = ?`,
		`date DESC, created_at ASC, id ASC`, userID, true)
}

func (s *TaskStorage) ListIncompleteTasks(ctx context.Context, userID uuid.UUID) ([]domain.Task, error) {
	return s.list(ctx, "incomplete", `user_id = ? AND completed = ?`,
		`date ASC, starred DESC, created_at ASC, id ASC`, userID, false)
}

func (s *TaskStorage) ListTasks(ctx context.Context, userID uuid.UUID) ([]domain.Task, error) {
	return s.list(ctx, "all", `user_id = ?`,
		`date DESC, created_at DESC, id ASC`, userID)
}

func (s *TaskStorage) list(ctx context.Context, kind, where, orderBy string, args ...any) ([]domain.Task, error) {
	start := time.Now()

	tasks := []domain.Task{}
	q := s.q(ctx)
	query := q.Rebind(`SELECT ` + taskColumns + ` FROM tasks WHERE ` + where + ` ORDER BY ` + orderBy)
	if err := q.SelectContext(ctx, &tasks, query, args...); err != nil {
		s.logger.Error("failed to list tasks", "kind", kind, "error", err)
		return nil, fmt.Errorf("ошибка при получении списка задач: %w", err)
	}

	s.logger.Debug("tasks listed",
		"kind", kind,
		"found", len(tasks),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return tasks, nil
}

func (s *TaskStorage) CountTasksByDate(ctx context.Context, userID uuid.UUID, date domain.Date) (int64, error) {
	return s.count(ctx, `user_id = ? AND date = ?`, userID, date)
}

func (s *TaskStorage) CountTasksByDateRange(ctx context.Context, userID uuid.UUID, startDate, endDate domain.Date) (int64, error) {
	return s.count(ctx, `user_id = ? AND date BETWEEN ? AND ?`, userID, startDate, endDate)
}

func (s *TaskStorage) CountStarredTasks(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.count(ctx, `user_id = ? AND starred = ?`, userID, true)
}

func (s *TaskStorage) count(ctx context.Context, where string, args ...any) (int64, error) {
	var n int64
	q := s.q(ctx)
	if err := q.GetContext(ctx, &n, q.Rebind(`SELECT COUNT(*) FROM tasks WHERE `+where), args...); err != nil {
		s.logger.Error("failed to count tasks", "error", err)
		return 0, fmt.Errorf("ошибка при подсчёте задач: %w", err)
	}
	return n, nil
}

// ListTaskDates возвращает различные даты, на которые у пользователя есть задачи, от новых к старым
func (s *TaskStorage) ListTaskDates(ctx context.Context, userID uuid.UUID) ([]domain.Date, error) {
	return distinctDates(ctx, s.q(ctx), "tasks", userID)
}

// distinctDates выбирает различные даты записей пользователя из таблицы в порядке убывания.
func distinctDates(ctx context.Context, q querier, table string, userID uuid.UUID) ([]domain.Date, error) {
	dates := []domain.Date{}
	query := q.Rebind(`SELECT DISTINCT date FROM ` + table + ` WHERE user_id = ? ORDER BY date DESC`)
	if err := q.SelectContext(ctx, &dates, query, userID); err != nil {
		return nil, fmt.Errorf("ошибка при получении дат из %s: %w", table, err)
	}
	return dates, nil
}

func deleteByUser(ctx context.Context, q querier, table string, userID uuid.UUID) (int64, error) {
	res, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM `+table+` WHERE user_id = ?`), userID)
	if err != nil {
		return 0, fmt.Errorf("ошибка при удалении записей пользователя из %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("ошибка при получении числа удалённых строк: %w", err)
	}
	return n, nil
}
