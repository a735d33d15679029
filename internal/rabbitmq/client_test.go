package rabbitmq

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/GoArmGo/DailyTrack/internal/messaging/payloads"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoute(t *testing.T) {
	ex, key := route("", "dailytrack_activity", payloads.EventTaskCreated)
	assert.Equal(t, "", ex)
	assert.Equal(t, "dailytrack_activity", key)

	ex, key = route("dailytrack", "dailytrack_activity", payloads.EventTaskCreated)
	assert.Equal(t, "dailytrack", ex)
	assert.Equal(t, "task.created", key)
}

func TestNewPublishing(t *testing.T) {
	at := time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)
	event := payloads.ActivityEvent{
		Type:       payloads.EventEnergySaved,
		Username:   "bob",
		EntityID:   uuid.New(),
		Date:       "2024-06-15",
		OccurredAt: at,
	}

	msg, err := newPublishing(event)
	require.NoError(t, err)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, payloads.EventEnergySaved, msg.Type)
	assert.Equal(t, at, msg.Timestamp)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, "bob", decoded["username"])
	assert.Equal(t, "2024-06-15", decoded["date"])
	assert.Equal(t, event.EntityID.String(), decoded["entity_id"])
}
