package domain

import (
	"time"

	"github.com/google/uuid"
)

// EnergyAssessment — оценка уровня энергии 1..5 за день.
// Как и Reflection, уникальна по (пользователь, дата).
type EnergyAssessment struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      uuid.UUID `json:"-" db:"user_id"`
	Username    string    `json:"username" db:"-"`
	Date        Date      `json:"date" db:"date"`
	EnergyLevel int       `json:"energyLevel" db:"energy_level"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type EnergyPatch struct {
	EnergyLevel *int
}

func (p EnergyPatch) Apply(a *EnergyAssessment) {
	if p.EnergyLevel != nil {
		a.EnergyLevel = *p.EnergyLevel
	}
}
