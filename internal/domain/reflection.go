package domain

import (
	"time"

	"github.com/google/uuid"
)

// Reflection — итог дня: оценка энергии 1..10 и необязательный текст.
// Не больше одной записи на (пользователь, дата).
type Reflection struct {
	ID             uuid.UUID `json:"id" db:"id"`
	UserID         uuid.UUID `json:"-" db:"user_id"`
	Username       string    `json:"username" db:"-"`
	Date           Date      `json:"date" db:"date"`
	EnergyRating   int       `json:"energyRating" db:"energy_rating"`
	ReflectionText *string   `json:"reflectionText" db:"reflection_text"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// ReflectionPatch — поля, которые upsert и update-by-id переносят в существующую запись.
type ReflectionPatch struct {
	EnergyRating   *int
	ReflectionText *string
}

func (p ReflectionPatch) Apply(r *Reflection) {
	if p.EnergyRating != nil {
		r.EnergyRating = *p.EnergyRating
	}
	if p.ReflectionText != nil {
		r.ReflectionText = p.ReflectionText
	}
}
