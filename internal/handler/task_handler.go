package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/GoArmGo/DailyTrack/internal/domain"
	"github.com/GoArmGo/DailyTrack/internal/usecase"
	"github.com/GoArmGo/DailyTrack/internal/validation"
	"github.com/google/uuid"
)

// TaskHandler — обработчик HTTP-запросов для работы с задачами пользователя.
type TaskHandler struct {
	taskUseCase usecase.TaskUseCase
	validator   *validation.Validator
	logger      *slog.Logger
}

// NewTaskHandler создаёт новый экземпляр TaskHandler.
func NewTaskHandler(uc usecase.TaskUseCase, v *validation.Validator, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{taskUseCase: uc, validator: v, logger: logger}
}

// ListTasks — задачи пользователя. Фильтры: date, startDate+endDate, starred, incomplete.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	f, err := taskFilter(r)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}

	tasks, err := h.taskUseCase.ListTasks(r.Context(), pathUsername(r), f)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, tasks, h.logger)
}

func taskFilter(r *http.Request) (usecase.TaskFilter, error) {
	var (
		f   usecase.TaskFilter
		err error
	)
	if f.Date, err = queryDate(r, "date"); err != nil {
		return f, err
	}
	if f.StartDate, f.EndDate, err = optionalRange(r); err != nil {
		return f, err
	}
	if f.Starred, err = queryBool(r, "starred"); err != nil {
		return f, err
	}
	if f.Incomplete, err = queryBool(r, "incomplete"); err != nil {
		return f, err
	}
	return f, nil
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}

	username := pathUsername(r)
	task, err := h.taskUseCase.CreateTask(r.Context(), username, req.input())
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}

	h.logger.Info("task created", "username", username, "task_id", task.ID, "date", task.Date)
	respondWithJSON(w, http.StatusCreated, task, h.logger)
}

// TaskStats — счётчики задач за день (?date=, по умолчанию сегодня).
func (h *TaskHandler) TaskStats(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r, "date")
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	stats, err := h.taskUseCase.Stats(r.Context(), pathUsername(r), date)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, stats, h.logger)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	h.withTask(w, r, h.taskUseCase.GetTask)
}

// UpdateTask меняет только переданные поля задачи.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	h.withTask(w, r, func(ctx context.Context, username string, id uuid.UUID) (*domain.Task, error) {
		return h.taskUseCase.UpdateTask(ctx, username, id, req.patch())
	})
}

func (h *TaskHandler) ToggleComplete(w http.ResponseWriter, r *http.Request) {
	h.withTask(w, r, h.taskUseCase.ToggleComplete)
}

func (h *TaskHandler) ToggleStar(w http.ResponseWriter, r *http.Request) {
	h.withTask(w, r, h.taskUseCase.ToggleStar)
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	if err := h.taskUseCase.DeleteTask(r.Context(), pathUsername(r), id); err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// withTask разбирает id из пути, вызывает op и отдаёт задачу.
func (h *TaskHandler) withTask(w http.ResponseWriter, r *http.Request, op func(context.Context, string, uuid.UUID) (*domain.Task, error)) {
	id, err := pathID(r)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	task, err := op(r.Context(), pathUsername(r), id)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, task, h.logger)
}
