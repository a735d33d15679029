package usecase

import (
	"context"
	"fmt"

	"github.com/GoArmGo/DailyTrack/internal/domain"
	"github.com/GoArmGo/DailyTrack/internal/messaging/payloads"
	"github.com/GoArmGo/DailyTrack/internal/summary"
	"github.com/GoArmGo/DailyTrack/internal/validation"
	"github.com/google/uuid"
)

// taskUseCase implements TaskUseCase
type taskUseCase struct {
	base
}

// NewTaskUseCase создает новый экземпляр TaskUseCase
func NewTaskUseCase(d Deps) TaskUseCase {
	return &taskUseCase{base: newBase(d)}
}

// CreateTask проверяет дату и лимит задач на день и сохраняет задачу в одной транзакции
func (uc *taskUseCase) CreateTask(ctx context.Context, username string, in CreateTaskInput) (*domain.Task, error) {
	if err := validation.DateBounds(in.Date, uc.today(), validation.TaskBounds); err != nil {
		return nil, err
	}

	task := &domain.Task{
		Title:       in.Title,
		Description: in.Description,
		Date:        in.Date,
		Username:    username,
	}

	err := uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := uc.user(ctx, username)
		if err != nil {
			return err
		}
		task.UserID = user.ID

		count, err := uc.Tasks.CountTasksByDate(ctx, user.ID, in.Date)
		if err != nil {
			return fmt.Errorf("usecase: ошибка при подсчёте задач за день: %w", err)
		}
		if err := validation.TaskCreation(count); err != nil {
			return err
		}

		if err := uc.Tasks.CreateTask(ctx, task); err != nil {
			return fmt.Errorf("usecase: ошибка при создании задачи: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, payloads.EventTaskCreated, username, task.ID, task.Date)
	return task, nil
}

func (uc *taskUseCase) GetTask(ctx context.Context, username string, id uuid.UUID) (*domain.Task, error) {
	user, err := uc.user(ctx, username)
	if err != nil {
		return nil, err
	}
	return uc.owned(ctx, user, id)
}

// owned возвращает задачу, только если она принадлежит пользователю; чужая задача — NotFound.
func (uc *taskUseCase) owned(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.Task, error) {
	task, err := uc.Tasks.GetTaskByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении задачи: %w", err)
	}
	if task.UserID != user.ID {
		return nil, domain.NotFound("Task", "id", id)
	}
	task.Username = user.Username
	return task, nil
}

func (uc *taskUseCase) ListTasks(ctx context.Context, username string, f TaskFilter) ([]domain.Task, error) {
	user, err := uc.user(ctx, username)
	if err != nil {
		return nil, err
	}

	var tasks []domain.Task
	switch {
	case f.Date != nil:
		tasks, err = uc.Tasks.ListTasksByDate(ctx, user.ID, *f.Date)
	case f.StartDate != nil || f.EndDate != nil:
		start, end, _, rangeErr := uc.optionalRange(f.StartDate, f.EndDate)
		if rangeErr != nil {
			return nil, rangeErr
		}
		tasks, err = uc.Tasks.ListTasksByDateRange(ctx, user.ID, start, end)
	case f.Starred:
		tasks, err = uc.Tasks.ListStarredTasks(ctx, user.ID)
	case f.Incomplete:
		tasks, err = uc.Tasks.ListIncompleteTasks(ctx, user.ID)
	default:
		tasks, err = uc.Tasks.ListTasks(ctx, user.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении задач: %w", err)
	}

	for i := range tasks {
		tasks[i].Username = user.Username
	}
	return tasks, nil
}

// UpdateTask частично обновляет задачу: меняются только заданные в patch поля
func (uc *taskUseCase) UpdateTask(ctx context.Context, username string, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error) {
	return uc.update(ctx, username, id, func(*domain.Task) domain.TaskPatch { return patch })
}

func (uc *taskUseCase) ToggleComplete(ctx context.Context, username string, id uuid.UUID) (*domain.Task, error) {
	return uc.update(ctx, username, id, func(t *domain.Task) domain.TaskPatch {
		completed := !t.Completed
		return domain.TaskPatch{Completed: &completed}
	})
}

func (uc *taskUseCase) ToggleStar(ctx context.Context, username string, id uuid.UUID) (*domain.Task, error) {
	return uc.update(ctx, username, id, func(t *domain.Task) domain.TaskPatch {
		starred := !t.Starred
		return domain.TaskPatch{Starred: &starred}
	})
}

// update читает задачу, строит по ней patch и записывает результат в одной транзакции.
func (uc *taskUseCase) update(ctx context.Context, username string, id uuid.UUID, build func(*domain.Task) domain.TaskPatch) (*domain.Task, error) {
	var task *domain.Task

	err := uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := uc.user(ctx, username)
		if err != nil {
			return err
		}
		task, err = uc.owned(ctx, user, id)
		if err != nil {
			return err
		}

		build(task).Apply(task)

		if err := uc.Tasks.UpdateTask(ctx, task); err != nil {
			return fmt.Errorf("usecase: ошибка при обновлении задачи: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, payloads.EventTaskUpdated, username, task.ID, task.Date)
	return task, nil
}

func (uc *taskUseCase) DeleteTask(ctx context.Context, username string, id uuid.UUID) error {
	var task *domain.Task

	err := uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := uc.user(ctx, username)
		if err != nil {
			return err
		}
		task, err = uc.owned(ctx, user, id)
		if err != nil {
			return err
		}
		if err := uc.Tasks.DeleteTask(ctx, id); err != nil {
			return fmt.Errorf("usecase: ошибка при удалении задачи: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.publish(ctx, payloads.EventTaskDeleted, username, id, task.Date)
	return nil
}

// Stats считает статистику по тем же задачам дня, что вернул бы список
func (uc *taskUseCase) Stats(ctx context.Context, username string, date *domain.Date) (summary.DayTaskStats, error) {
	user, err := uc.user(ctx, username)
	if err != nil {
		return summary.DayTaskStats{}, err
	}
	tasks, err := uc.Tasks.ListTasksByDate(ctx, user.ID, uc.dateOrToday(date))
	if err != nil {
		return summary.DayTaskStats{}, fmt.Errorf("usecase: ошибка при получении задач за день: %w", err)
	}
	starred, err := uc.Tasks.CountStarredTasks(ctx, user.ID)
	if err != nil {
		return summary.DayTaskStats{}, fmt.Errorf("usecase: ошибка при подсчёте отмеченных задач: %w", err)
	}
	return summary.DayTaskStats{TaskStats: summary.Stats(tasks), StarredTotal: starred}, nil
}
