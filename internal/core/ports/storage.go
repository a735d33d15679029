package ports

import (
	"context"

	"github.com/GoArmGo/DailyTrack/internal/domain"
	"github.com/google/uuid"
)

// Все методы поиска по ключу возвращают ошибку, оборачивающую domain.ErrNotFound, если записи нет.
// Нарушение уникальности оборачивает domain.ErrDuplicateResource,
// нарушение внешнего ключа — domain.ErrStillReferenced.

// Transactor выполняет fn в одной транзакции: хранилища, получившие ctx, работают внутри неё.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserStorage определяет методы для взаимодействия с хранилищем пользователей
type UserStorage interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	SearchUsers(ctx context.Context, term string) ([]domain.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// TaskStorage определяет методы для работы с задачами
type TaskStorage interface {
	CreateTask(ctx context.Context, task *domain.Task) error
	UpdateTask(ctx context.Context, task *domain.Task) error
	GetTaskByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	// DeleteTasksByUser удаляет все задачи пользователя и возвращает их число
	DeleteTasksByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// ListTasksByDate: starred DESC, created_at ASC
	ListTasksByDate(ctx context.Context, userID uuid.UUID, date domain.Date) ([]domain.Task, error)
	// ListTasksByDateRange: date DESC, starred DESC
	ListTasksByDateRange(ctx context.Context, userID uuid.UUID, start, end domain.Date) ([]domain.Task, error)
	// ListStarredTasks: date DESC
	ListStarredTasks(ctx context.Context, userID uuid.UUID) ([]domain.Task, error)
	// ListIncompleteTasks: date ASC, starred DESC
	ListIncompleteTasks(ctx context.Context, userID uuid.UUID) ([]domain.Task, error)
	// ListTasks: date DESC, created_at DESC
	ListTasks(ctx context.Context, userID uuid.UUID) ([]domain.Task, error)

	CountTasksByDate(ctx context.Context, userID uuid.UUID, date domain.Date) (int64, error)
	CountTasksByDateRange(ctx context.Context, userID uuid.UUID, start, end domain.Date) (int64, error)
	CountStarredTasks(ctx context.Context, userID uuid.UUID) (int64, error)
	ListTaskDates(ctx context.Context, userID uuid.UUID) ([]domain.Date, error)
}

// ReflectionStorage определяет методы для работы с рефлексиями
type ReflectionStorage interface {
	CreateReflection(ctx context.Context, r *domain.Reflection) error
	UpdateReflection(ctx context.Context, r *domain.Reflection) error
	GetReflectionByID(ctx context.Context, id uuid.UUID) (*domain.Reflection, error)
	GetReflectionByDate(ctx context.Context, userID uuid.UUID, date domain.Date) (*domain.Reflection, error)
	ExistsReflectionByDate(ctx context.Context, userID uuid.UUID, date domain.Date) (bool, error)
	DeleteReflection(ctx context.Context, id uuid.UUID) error
	DeleteReflectionsByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	ListReflections(ctx context.Context, userID uuid.UUID) ([]domain.Reflection, error)
	ListReflectionsByDateRange(ctx context.Context, userID uuid.UUID, start, end domain.Date) ([]domain.Reflection, error)
	ListReflectionsByRating(ctx context.Context, userID uuid.UUID, minRating, maxRating int) ([]domain.Reflection, error)
	ListReflectionsWithText(ctx context.Context, userID uuid.UUID) ([]domain.Reflection, error)

	CountReflections(ctx context.Context, userID uuid.UUID) (int64, error)
	CountReflectionsByDateRange(ctx context.Context, userID uuid.UUID, start, end domain.Date) (int64, error)
	// AverageRating возвращает ok=false, если записей нет.
	AverageRating(ctx context.Context, userID uuid.UUID) (avg float64, ok bool, err error)
	AverageRatingByDateRange(ctx context.Context, userID uuid.UUID, start, end domain.Date) (avg float64, ok bool, err error)
	ListReflectionDates(ctx context.Context, userID uuid.UUID) ([]domain.Date, error)
}

// EnergyStorage определяет методы для работы с оценками энергии
type EnergyStorage interface {
	CreateAssessment(ctx context.Context, a *domain.EnergyAssessment) error
	UpdateAssessment(ctx context.Context, a *domain.EnergyAssessment) error
	GetAssessmentByID(ctx context.Context, id uuid.UUID) (*domain.EnergyAssessment, error)
	GetAssessmentByDate(ctx context.Context, userID uuid.UUID, date domain.Date) (*domain.EnergyAssessment, error)
	ExistsAssessmentByDate(ctx context.Context, userID uuid.UUID, date domain.Date) (bool, error)
	DeleteAssessment(ctx context.Context, id uuid.UUID) error
	DeleteAssessmentsByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	ListAssessments(ctx context.Context, userID uuid.UUID) ([]domain.EnergyAssessment, error)
	ListAssessmentsByDateRange(ctx context.Context, userID uuid.UUID, start, end domain.Date) ([]domain.EnergyAssessment, error)
	ListAssessmentsByLevel(ctx context.Context, userID uuid.UUID, minLevel, maxLevel int) ([]domain.EnergyAssessment, error)

	CountAssessments(ctx context.Context, userID uuid.UUID) (int64, error)
	CountAssessmentsByDateRange(ctx context.Context, userID uuid.UUID, start, end domain.Date) (int64, error)
	AverageLevel(ctx context.Context, userID uuid.UUID) (avg float64, ok bool, err error)
	AverageLevelByDateRange(ctx context.Context, userID uuid.UUID, start, end domain.Date) (avg float64, ok bool, err error)
	ListAssessmentDates(ctx context.Context, userID uuid.UUID) ([]domain.Date, error)
}

// ArchiveStorage — объектное хранилище (S3, MinIO) для выгрузок данных пользователя.
type ArchiveStorage interface {
	UploadFile(ctx context.Context, objectKey string, content []byte, contentType string) (string, error)
}
