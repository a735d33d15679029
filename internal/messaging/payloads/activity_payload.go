package payloads

import (
	"time"

	"github.com/google/uuid"
)

// Типы событий активности.
const (
	EventUserCreated      = "user.created"
	EventUserDeleted      = "user.deleted"
	EventTaskCreated      = "task.created"
	EventTaskUpdated      = "task.updated"
	EventTaskDeleted      = "task.deleted"
	EventReflectionSaved  = "reflection.saved"
	EventReflectionDelete = "reflection.deleted"
	EventEnergySaved      = "energy.saved"
	EventEnergyDeleted    = "energy.deleted"
)

// ActivityEvent представляет событие об изменении данных пользователя,
// которое публикуется в RabbitMQ.
type ActivityEvent struct {
	Type       string    `json:"type"`
	Username   string    `json:"username"`
	EntityID   uuid.UUID `json:"entity_id"`
	Date       string    `json:"date,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
