package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/GoArmGo/DailyTrack/internal/domain"
	"github.com/GoArmGo/DailyTrack/internal/messaging/payloads"
	"github.com/GoArmGo/DailyTrack/internal/summary"
	"github.com/GoArmGo/DailyTrack/internal/validation"
	"github.com/google/uuid"
)

const (
	minEnergyRating = 1
	maxEnergyRating = 10
)

// reflectionUseCase implements ReflectionUseCase
type reflectionUseCase struct {
	base
}

// NewReflectionUseCase создает новый экземпляр ReflectionUseCase
func NewReflectionUseCase(d Deps) ReflectionUseCase {
	return &reflectionUseCase{base: newBase(d)}
}

// SaveReflection — upsert по (пользователь, дата) в одной транзакции.
// Если запись есть, в неё переносятся заданные поля, дата не меняется; иначе создаётся новая.
// Параллельная вставка на ту же дату упирается в уникальный индекс и возвращает DuplicateResource.
func (uc *reflectionUseCase) SaveReflection(ctx context.Context, username string, in ReflectionInput) (*domain.Reflection, error) {
	if err := validation.DateBounds(in.Date, uc.today(), validation.DailyRecordBounds); err != nil {
		return nil, err
	}

	var saved *domain.Reflection
	err := uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := uc.user(ctx, username)
		if err != nil {
			return err
		}

		existing, err := uc.Reflections.GetReflectionByDate(ctx, user.ID, in.Date)
		switch {
		case err == nil:
			domain.ReflectionPatch{EnergyRating: in.EnergyRating, ReflectionText: in.ReflectionText}.Apply(existing)
			if err := uc.Reflections.UpdateReflection(ctx, existing); err != nil {
				return fmt.Errorf("usecase: ошибка при обновлении рефлексии: %w", err)
			}
			saved = existing
		case errors.Is(err, domain.ErrNotFound):
			saved, err = uc.insert(ctx, user, in)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("usecase: ошибка при поиске рефлексии за дату: %w", err)
		}
		saved.Username = user.Username
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, payloads.EventReflectionSaved, username, saved.ID, saved.Date)
	return saved, nil
}

// CreateReflection создаёт рефлексию только если за дату её ещё нет
func (uc *reflectionUseCase) CreateReflection(ctx context.Context, username string, in ReflectionInput) (*domain.Reflection, error) {
	today := uc.today()
	// будущие даты проверяет правило строгого создания (future_date)
	if err := validation.DateBounds(in.Date, today, validation.Bounds{MaxPast: validation.DailyRecordBounds.MaxPast}); err != nil {
		return nil, err
	}

	var created *domain.Reflection
	err := uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := uc.user(ctx, username)
		if err != nil {
			return err
		}
		exists, err := uc.Reflections.ExistsReflectionByDate(ctx, user.ID, in.Date)
		if err != nil {
			return fmt.Errorf("usecase: ошибка при проверке рефлексии за дату: %w", err)
		}
		if err := validation.ReflectionCreation(exists, in.Date, today); err != nil {
			return err
		}
		created, err = uc.insert(ctx, user, in)
		if err != nil {
			return err
		}
		created.Username = user.Username
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, payloads.EventReflectionSaved, username, created.ID, created.Date)
	return created, nil
}

func (uc *reflectionUseCase) insert(ctx context.Context, user *domain.User, in ReflectionInput) (*domain.Reflection, error) {
	if in.EnergyRating == nil {
		return nil, domain.InvalidArgument(domain.RuleMissingField, "Energy rating is required")
	}
	r := &domain.Reflection{
		UserID:         user.ID,
		Date:           in.Date,
		EnergyRating:   *in.EnergyRating,
		ReflectionText: in.ReflectionText,
	}
	if err := uc.Reflections.CreateReflection(ctx, r); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при создании рефлексии: %w", err)
	}
	return r, nil
}

// UpdateReflection обновляет именно запись id, если она принадлежит пользователю
func (uc *reflectionUseCase) UpdateReflection(ctx context.Context, username string, id uuid.UUID, patch domain.ReflectionPatch) (*domain.Reflection, error) {
	var r *domain.Reflection
	err := uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := uc.user(ctx, username)
		if err != nil {
			return err
		}
		r, err = uc.owned(ctx, user, id)
		if err != nil {
			return err
		}
		patch.Apply(r)
		if err := uc.Reflections.UpdateReflection(ctx, r); err != nil {
			return fmt.Errorf("usecase: ошибка при обновлении рефлексии: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, payloads.EventReflectionSaved, username, r.ID, r.Date)
	return r, nil
}

func (uc *reflectionUseCase) owned(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.Reflection, error) {
	r, err := uc.Reflections.GetReflectionByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении рефлексии: %w", err)
	}
	if r.UserID != user.ID {
		return nil, domain.NotFound("Reflection", "id", id)
	}
	r.Username = user.Username
	return r, nil
}

func (uc *reflectionUseCase) GetReflection(ctx context.Context, username string, id uuid.UUID) (*domain.Reflection, error) {
	user, err := uc.user(ctx, username)
	if err != nil {
		return nil, err
	}
	return uc.owned(ctx, user, id)
}

func (uc *reflectionUseCase) GetReflectionByDate(ctx context.Context, username string, date domain.Date) (*domain.Reflection, error) {
	user, err := uc.user(ctx, username)
	if err != nil {
		return nil, err
	}
	r, err := uc.Reflections.GetReflectionByDate(ctx, user.ID, date)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении рефлексии за дату: %w", err)
	}
	r.Username = user.Username
	return r, nil
}

func (uc *reflectionUseCase) TodayReflection(ctx context.Context, username string) (*domain.Reflection, error) {
	return uc.GetReflectionByDate(ctx, username, uc.today())
}

func (uc *reflectionUseCase) ListReflections(ctx context.Context, username string, f ReflectionFilter) ([]domain.Reflection, error) {
	user, err := uc.user(ctx, username)
	if err != nil {
		return nil, err
	}

	var out []domain.Reflection
	switch {
	case f.Date != nil:
		r, getErr := uc.Reflections.GetReflectionByDate(ctx, user.ID, *f.Date)
		switch {
		case getErr == nil:
			out = []domain.Reflection{*r}
		case errors.Is(getErr, domain.ErrNotFound):
			out = []domain.Reflection{}
		default:
			err = getErr
		}
	case f.StartDate != nil || f.EndDate != nil:
		start, end, _, rangeErr := uc.optionalRange(f.StartDate, f.EndDate)
		if rangeErr != nil {
			return nil, rangeErr
		}
		out, err = uc.Reflections.ListReflectionsByDateRange(ctx, user.ID, start, end)
	case f.MinRating != nil || f.MaxRating != nil:
		lo, hi := thresholds(f.MinRating, f.MaxRating, minEnergyRating, maxEnergyRating)
		out, err = uc.Reflections.ListReflectionsByRating(ctx, user.ID, lo, hi)
	case f.WithText:
		out, err = uc.Reflections.ListReflectionsWithText(ctx, user.ID)
	default:
		out, err = uc.Reflections.ListReflections(ctx, user.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении рефлексий: %w", err)
	}

	for i := range out {
		out[i].Username = user.Username
	}
	return out, nil
}

func (uc *reflectionUseCase) ExistsReflection(ctx context.Context, username string, date *domain.Date) (bool, error) {
	user, err := uc.user(ctx, username)
	if err != nil {
		return false, err
	}
	return uc.Reflections.ExistsReflectionByDate(ctx, user.ID, uc.dateOrToday(date))
}

// AverageRating считает среднюю оценку за всё время или за диапазон; без записей — 0
func (uc *reflectionUseCase) AverageRating(ctx context.Context, username string, start, end *domain.Date) (float64, error) {
	user, err := uc.user(ctx, username)
	if err != nil {
		return 0, err
	}
	s, e, ranged, err := uc.optionalRange(start, end)
	if err != nil {
		return 0, err
	}

	var (
		avg float64
		ok  bool
	)
	if ranged {
		avg, ok, err = uc.Reflections.AverageRatingByDateRange(ctx, user.ID, s, e)
	} else {
		avg, ok, err = uc.Reflections.AverageRating(ctx, user.ID)
	}
	if err != nil {
		return 0, fmt.Errorf("usecase: ошибка при вычислении средней оценки: %w", err)
	}
	return summary.OrZero(avg, ok), nil
}

func (uc *reflectionUseCase) CountReflections(ctx context.Context, username string, start, end *domain.Date) (int64, error) {
	user, err := uc.user(ctx, username)
	if err != nil {
		return 0, err
	}
	s, e, ranged, err := uc.optionalRange(start, end)
	if err != nil {
		return 0, err
	}
	if ranged {
		return uc.Reflections.CountReflectionsByDateRange(ctx, user.ID, s, e)
	}
	return uc.Reflections.CountReflections(ctx, user.ID)
}

func (uc *reflectionUseCase) DeleteReflection(ctx context.Context, username string, id uuid.UUID) error {
	var r *domain.Reflection
	err := uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := uc.user(ctx, username)
		if err != nil {
			return err
		}
		r, err = uc.owned(ctx, user, id)
		if err != nil {
			return err
		}
		if err := uc.Reflections.DeleteReflection(ctx, id); err != nil {
			return fmt.Errorf("usecase: ошибка при удалении рефлексии: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.publish(ctx, payloads.EventReflectionDelete, username, id, r.Date)
	return nil
}

// thresholds подставляет недостающую границу порога.
func thresholds(from, to *int, lo, hi int) (int, int) {
	if from != nil {
		lo = *from
	}
	if to != nil {
		hi = *to
	}
	return lo, hi
}
