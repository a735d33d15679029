package usecase

import (
	"context"
	"errors"

	"github.com/GoArmGo/DailyTrack/internal/domain"
	"github.com/GoArmGo/DailyTrack/internal/summary"
	"github.com/google/uuid"
)

// ErrExportsDisabled возвращается, когда объектное хранилище для выгрузок не настроено.
var ErrExportsDisabled = errors.New("exports are not configured")

// CreateTaskInput — данные новой задачи. Задача создаётся невыполненной и неотмеченной.
type CreateTaskInput struct {
	Title       string
	Description *string
	Date        domain.Date
}

// TaskFilter выбирает задачи. Приоритет: Date, затем диапазон, затем Starred, затем Incomplete, иначе все.
type TaskFilter struct {
	Date       *domain.Date
	StartDate  *domain.Date
	EndDate    *domain.Date
	Starred    bool
	Incomplete bool
}

// ReflectionInput — данные для сохранения рефлексии за дату.
type ReflectionInput struct {
	Date           domain.Date
	EnergyRating   *int
	ReflectionText *string
}

// ReflectionFilter: Date, затем диапазон, затем порог оценки, затем WithText, иначе все.
type ReflectionFilter struct {
	Date      *domain.Date
	StartDate *domain.Date
	EndDate   *domain.Date
	MinRating *int
	MaxRating *int
	WithText  bool
}

// EnergyInput — данные для сохранения оценки энергии за дату.
type EnergyInput struct {
	Date        domain.Date
	EnergyLevel *int
}

// EnergyFilter: Date, затем диапазон, затем порог уровня, иначе все.
type EnergyFilter struct {
	Date      *domain.Date
	StartDate *domain.Date
	EndDate   *domain.Date
	MinLevel  *int
	MaxLevel  *int
}

// ExportResult описывает загруженную выгрузку.
type ExportResult struct {
	Key       string      `json:"key"`
	URL       string      `json:"url"`
	StartDate domain.Date `json:"startDate"`
	EndDate   domain.Date `json:"endDate"`
	Days      int         `json:"days"`
}

// UserUseCase определяет бизнес-логику работы с пользователями
type UserUseCase interface {
	CreateUser(ctx context.Context, username string) (*domain.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	// ListUsers возвращает всех пользователей или, если search не пуст, совпадения по подстроке
	ListUsers(ctx context.Context, search string) ([]domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// DeleteUser удаляет пользователя, если у него нет задач за последние 7 дней
	DeleteUser(ctx context.Context, username string) error
}

// TaskUseCase определяет бизнес-логику работы с задачами.
// Все операции по id проверяют, что задача принадлежит пользователю.
type TaskUseCase interface {
	CreateTask(ctx context.Context, username string, in CreateTaskInput) (*domain.Task, error)
	GetTask(ctx context.Context, username string, id uuid.UUID) (*domain.Task, error)
	ListTasks(ctx context.Context, username string, f TaskFilter) ([]domain.Task, error)
	UpdateTask(ctx context.Context, username string, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)
	ToggleComplete(ctx context.Context, username string, id uuid.UUID) (*domain.Task, error)
	ToggleStar(ctx context.Context, username string, id uuid.UUID) (*domain.Task, error)
	DeleteTask(ctx context.Context, username string, id uuid.UUID) error
	// Stats считает статистику задач за день; nil — сегодня. StarredTotal считается по всем датам.
	Stats(ctx context.Context, username string, date *domain.Date) (summary.DayTaskStats, error)
}

// ReflectionUseCase определяет бизнес-логику работы с рефлексиями
type ReflectionUseCase interface {
	// SaveReflection создаёт рефлексию за дату или обновляет существующую (upsert)
	SaveReflection(ctx context.Context, username string, in ReflectionInput) (*domain.Reflection, error)
	// CreateReflection создаёт рефлексию и отказывает, если за дату она уже есть
	CreateReflection(ctx context.Context, username string, in ReflectionInput) (*domain.Reflection, error)
	UpdateReflection(ctx context.Context, username string, id uuid.UUID, patch domain.ReflectionPatch) (*domain.Reflection, error)
	GetReflection(ctx context.Context, username string, id uuid.UUID) (*domain.Reflection, error)
	GetReflectionByDate(ctx context.Context, username string, date domain.Date) (*domain.Reflection, error)
	TodayReflection(ctx context.Context, username string) (*domain.Reflection, error)
	ListReflections(ctx context.Context, username string, f ReflectionFilter) ([]domain.Reflection, error)
	// ExistsReflection проверяет наличие рефлексии за дату; nil — сегодня
	ExistsReflection(ctx context.Context, username string, date *domain.Date) (bool, error)
	// AverageRating возвращает 0, если рефлексий нет
	AverageRating(ctx context.Context, username string, start, end *domain.Date) (float64, error)
	CountReflections(ctx context.Context, username string, start, end *domain.Date) (int64, error)
	DeleteReflection(ctx context.Context, username string, id uuid.UUID) error
}

// EnergyUseCase определяет бизнес-логику работы с оценками энергии
type EnergyUseCase interface {
	SaveAssessment(ctx context.Context, username string, in EnergyInput) (*domain.EnergyAssessment, error)
	CreateAssessment(ctx context.Context, username string, in EnergyInput) (*domain.EnergyAssessment, error)
	UpdateAssessment(ctx context.Context, username string, id uuid.UUID, patch domain.EnergyPatch) (*domain.EnergyAssessment, error)
	GetAssessment(ctx context.Context, username string, id uuid.UUID) (*domain.EnergyAssessment, error)
	GetAssessmentByDate(ctx context.Context, username string, date domain.Date) (*domain.EnergyAssessment, error)
	TodayAssessment(ctx context.Context, username string) (*domain.EnergyAssessment, error)
	ListAssessments(ctx context.Context, username string, f EnergyFilter) ([]domain.EnergyAssessment, error)
	ExistsAssessment(ctx context.Context, username string, date *domain.Date) (bool, error)
	AverageLevel(ctx context.Context, username string, start, end *domain.Date) (float64, error)
	CountAssessments(ctx context.Context, username string, start, end *domain.Date) (int64, error)
	DeleteAssessment(ctx context.Context, username string, id uuid.UUID) error
}

// DailyUseCase собирает данные по дням
type DailyUseCase interface {
	// GetDailyData возвращает данные за день; nil — сегодня
	GetDailyData(ctx context.Context, username string, date *domain.Date) (summary.DailyData, error)
	GetDailyRange(ctx context.Context, username string, start, end domain.Date) ([]summary.DailyData, error)
	// ActiveDates возвращает даты, на которые есть хоть одна запись, от новых к старым
	ActiveDates(ctx context.Context, username string) ([]domain.Date, error)
}

// ExportUseCase выгружает данные за диапазон в объектное хранилище
type ExportUseCase interface {
	ExportRange(ctx context.Context, username string, start, end domain.Date) (*ExportResult, error)
}
