package ports

import (
	"context"

	"github.com/GoArmGo/DailyTrack/internal/messaging/payloads"
)

// ActivityPublisher публикует события об изменениях данных пользователя.
// Используется usecase-слоем после успешной записи; ошибки публикации не отменяют запись.
type ActivityPublisher interface {
	PublishActivity(ctx context.Context, event payloads.ActivityEvent) error
}

// NopPublisher — реализация по умолчанию, когда брокер не настроен.
type NopPublisher struct{}

func (NopPublisher) PublishActivity(context.Context, payloads.ActivityEvent) error { return nil }
