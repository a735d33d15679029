package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxTasksPerDay — сколько задач пользователь может завести на одну дату.
const MaxTasksPerDay = 50

// Task представляет задачу пользователя на конкретную дату,
// соответствует таблице tasks в бд
type Task struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"-" db:"user_id"`
	Username    string    `json:"username" db:"-"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	Date        Date      `json:"date" db:"date"`
	Completed   bool      `json:"completed" db:"completed"`
	Starred     bool      `json:"starred" db:"starred"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// TaskPatch — частичное обновление задачи: nil означает «не менять».
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
	Starred     *bool
}

// Apply переносит в задачу только заданные поля. Дата задачи не меняется никогда.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Starred != nil {
		t.Starred = *p.Starred
	}
}
