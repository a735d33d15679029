package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/GoArmGo/DailyTrack/internal/core/ports"
	"github.com/GoArmGo/DailyTrack/internal/domain"
	"github.com/GoArmGo/DailyTrack/internal/messaging/payloads"
	"github.com/GoArmGo/DailyTrack/internal/validation"
	"github.com/google/uuid"
)

// Deps — зависимости интеракторов. Publisher, Archive, Now и Location необязательны.
type Deps struct {
	Users       ports.UserStorage
	Tasks       ports.TaskStorage
	Reflections ports.ReflectionStorage
	Energy      ports.EnergyStorage
	Tx          ports.Transactor
	Publisher   ports.ActivityPublisher
	Archive     ports.ArchiveStorage
	Now         func() time.Time
	Location    *time.Location
	Logger      *slog.Logger
}

// base содержит общее для всех интеракторов: часы, поиск пользователя и публикацию событий.
type base struct {
	Deps
}

func newBase(d Deps) base {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Publisher == nil {
		d.Publisher = ports.NopPublisher{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return base{Deps: d}
}

// today — сегодняшняя дата в таймзоне приложения.
func (b base) today() domain.Date {
	return domain.DateOf(b.Now().In(b.Location))
}

func (b base) dateOrToday(date *domain.Date) domain.Date {
	if date != nil && !date.IsZero() {
		return *date
	}
	return b.today()
}

func (b base) user(ctx context.Context, username string) (*domain.User, error) {
	u, err := b.Users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при поиске пользователя %s: %w", username, err)
	}
	return u, nil
}

// optionalRange проверяет диапазон, если задана хотя бы одна граница. ok=false — границ нет.
func (b base) optionalRange(start, end *domain.Date) (s, e domain.Date, ok bool, err error) {
	if start == nil && end == nil {
		return s, e, false, nil
	}
	if start != nil {
		s = *start
	}
	if end != nil {
		e = *end
	}
	if err := validation.DateRange(s, e, b.today()); err != nil {
		return s, e, false, err
	}
	return s, e, true, nil
}

// publish отправляет событие активности. Ошибка только логируется: запись уже зафиксирована.
func (b base) publish(ctx context.Context, eventType, username string, entityID uuid.UUID, date domain.Date) {
	event := payloads.ActivityEvent{
		Type:       eventType,
		Username:   username,
		EntityID:   entityID,
		Date:       date.String(),
		OccurredAt: b.Now().UTC(),
	}
	if err := b.Publisher.PublishActivity(ctx, event); err != nil {
		b.Logger.Warn("failed to publish activity event",
			"type", eventType,
			"username", username,
			"error", err,
		)
	}
}
