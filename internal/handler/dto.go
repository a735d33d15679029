package handler

import (
	"github.com/GoArmGo/DailyTrack/internal/domain"
	"github.com/GoArmGo/DailyTrack/internal/usecase"
)

type createUserRequest struct {
	Username string `json:"username" validate:"required,username"`
}

type createTaskRequest struct {
	Title       string       `json:"title" validate:"notblank,max=200"`
	Description *string      `json:"description" validate:"omitempty,max=1000"`
	Date        *domain.Date `json:"date" validate:"required"`
}

func (req createTaskRequest) input() usecase.CreateTaskInput {
	return usecase.CreateTaskInput{Title: req.Title, Description: req.Description, Date: *req.Date}
}

// updateTaskRequest — частичное обновление: отсутствующие поля не меняются.
type updateTaskRequest struct {
	Title       *string `json:"title" validate:"omitempty,notblank,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	Completed   *bool   `json:"completed"`
	Starred     *bool   `json:"starred"`
}

func (req updateTaskRequest) patch() domain.TaskPatch {
	return domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Starred:     req.Starred,
	}
}

type reflectionRequest struct {
	Date           *domain.Date `json:"date" validate:"required"`
	EnergyRating   *int         `json:"energyRating" validate:"omitempty,min=1,max=10"`
	ReflectionText *string      `json:"reflectionText" validate:"omitempty,max=2000"`
}

func (req reflectionRequest) input() usecase.ReflectionInput {
	return usecase.ReflectionInput{Date: *req.Date, EnergyRating: req.EnergyRating, ReflectionText: req.ReflectionText}
}

type updateReflectionRequest struct {
	EnergyRating   *int    `json:"energyRating" validate:"omitempty,min=1,max=10"`
	ReflectionText *string `json:"reflectionText" validate:"omitempty,max=2000"`
}

type energyRequest struct {
	Date        *domain.Date `json:"date" validate:"required"`
	EnergyLevel *int         `json:"energyLevel" validate:"required,min=1,max=5"`
}

type updateEnergyRequest struct {
	EnergyLevel *int `json:"energyLevel" validate:"required,min=1,max=5"`
}
