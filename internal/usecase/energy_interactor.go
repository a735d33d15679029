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
	minEnergyLevel = 1
	maxEnergyLevel = 5
)

// energyUseCase implements EnergyUseCase
type energyUseCase struct {
	base
}

// NewEnergyUseCase создает новый экземпляр EnergyUseCase
func NewEnergyUseCase(d Deps) EnergyUseCase {
	return &energyUseCase{base: newBase(d)}
}

// SaveAssessment — upsert оценки энергии по (пользователь, дата), как SaveReflection
func (uc *energyUseCase) SaveAssessment(ctx context.Context, username string, in EnergyInput) (*domain.EnergyAssessment, error) {
	if err := validation.DateBounds(in.Date, uc.today(), validation.DailyRecordBounds); err != nil {
		return nil, err
	}

	var saved *domain.EnergyAssessment
	err := uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := uc.user(ctx, username)
		if err != nil {
			return err
		}

		existing, err := uc.Energy.GetAssessmentByDate(ctx, user.ID, in.Date)
		switch {
		case err == nil:
			domain.EnergyPatch{EnergyLevel: in.EnergyLevel}.Apply(existing)
			if err := uc.Energy.UpdateAssessment(ctx, existing); err != nil {
				return fmt.Errorf("usecase: ошибка при обновлении оценки энергии: %w", err)
			}
			saved = existing
		case errors.Is(err, domain.ErrNotFound):
			saved, err = uc.insert(ctx, user, in)
			if err != nil {
				return err
			}
		default:
			return fmt.Errorf("usecase: ошибка при поиске оценки энергии за дату: %w", err)
		}
		saved.Username = user.Username
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, payloads.EventEnergySaved, username, saved.ID, saved.Date)
	return saved, nil
}

func (uc *energyUseCase) CreateAssessment(ctx context.Context, username string, in EnergyInput) (*domain.EnergyAssessment, error) {
	today := uc.today()
	// будущие даты проверяет правило строгого создания (future_date)
	if err := validation.DateBounds(in.Date, today, validation.Bounds{MaxPast: validation.DailyRecordBounds.MaxPast}); err != nil {
		return nil, err
	}

	var created *domain.EnergyAssessment
	err := uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := uc.user(ctx, username)
		if err != nil {
			return err
		}
		exists, err := uc.Energy.ExistsAssessmentByDate(ctx, user.ID, in.Date)
		if err != nil {
			return fmt.Errorf("usecase: ошибка при проверке оценки энергии за дату: %w", err)
		}
		if err := validation.EnergyAssessmentCreation(exists, in.Date, today); err != nil {
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

	uc.publish(ctx, payloads.EventEnergySaved, username, created.ID, created.Date)
	return created, nil
}

func (uc *energyUseCase) insert(ctx context.Context, user *domain.User, in EnergyInput) (*domain.EnergyAssessment, error) {
	if in.EnergyLevel == nil {
		return nil, domain.InvalidArgument(domain.RuleMissingField, "Energy level is required")
	}
	a := &domain.EnergyAssessment{
		UserID:      user.ID,
		Date:        in.Date,
		EnergyLevel: *in.EnergyLevel,
	}
	if err := uc.Energy.CreateAssessment(ctx, a); err != nil {
		return nil, fmt.Errorf("usecase: ошибка при создании оценки энергии: %w", err)
	}
	return a, nil
}

func (uc *energyUseCase) UpdateAssessment(ctx context.Context, username string, id uuid.UUID, patch domain.EnergyPatch) (*domain.EnergyAssessment, error) {
	var a *domain.EnergyAssessment
	err := uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := uc.user(ctx, username)
		if err != nil {
			return err
		}
		a, err = uc.owned(ctx, user, id)
		if err != nil {
			return err
		}
		patch.Apply(a)
		if err := uc.Energy.UpdateAssessment(ctx, a); err != nil {
			return fmt.Errorf("usecase: ошибка при обновлении оценки энергии: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, payloads.EventEnergySaved, username, a.ID, a.Date)
	return a, nil
}

func (uc *energyUseCase) owned(ctx context.Context, user *domain.User, id uuid.UUID) (*domain.EnergyAssessment, error) {
	a, err := uc.Energy.GetAssessmentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении оценки энергии: %w", err)
	}
	if a.UserID != user.ID {
		return nil, domain.NotFound("EnergyAssessment", "id", id)
	}
	a.Username = user.Username
	return a, nil
}

func (uc *energyUseCase) GetAssessment(ctx context.Context, username string, id uuid.UUID) (*domain.EnergyAssessment, error) {
	user, err := uc.user(ctx, username)
	if err != nil {
		return nil, err
	}
	return uc.owned(ctx, user, id)
}

func (uc *energyUseCase) GetAssessmentByDate(ctx context.Context, username string, date domain.Date) (*domain.EnergyAssessment, error) {
	user, err := uc.user(ctx, username)
	if err != nil {
		return nil, err
	}
	a, err := uc.Energy.GetAssessmentByDate(ctx, user.ID, date)
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении оценки энергии за дату: %w", err)
	}
	a.Username = user.Username
	return a, nil
}

func (uc *energyUseCase) TodayAssessment(ctx context.Context, username string) (*domain.EnergyAssessment, error) {
	return uc.GetAssessmentByDate(ctx, username, uc.today())
}

func (uc *energyUseCase) ListAssessments(ctx context.Context, username string, f EnergyFilter) ([]domain.EnergyAssessment, error) {
	user, err := uc.user(ctx, username)
	if err != nil {
		return nil, err
	}

	var out []domain.EnergyAssessment
	switch {
	case f.Date != nil:
		a, getErr := uc.Energy.GetAssessmentByDate(ctx, user.ID, *f.Date)
		switch {
		case getErr == nil:
			out = []domain.EnergyAssessment{*a}
		case errors.Is(getErr, domain.ErrNotFound):
			out = []domain.EnergyAssessment{}
		default:
			err = getErr
		}
	case f.StartDate != nil || f.EndDate != nil:
		start, end, _, rangeErr := uc.optionalRange(f.StartDate, f.EndDate)
		if rangeErr != nil {
			return nil, rangeErr
		}
		out, err = uc.Energy.ListAssessmentsByDateRange(ctx, user.ID, start, end)
	case f.MinLevel != nil || f.MaxLevel != nil:
		lo, hi := thresholds(f.MinLevel, f.MaxLevel, minEnergyLevel, maxEnergyLevel)
		out, err = uc.Energy.ListAssessmentsByLevel(ctx, user.ID, lo, hi)
	default:
		out, err = uc.Energy.ListAssessments(ctx, user.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("usecase: ошибка при получении оценок энергии: %w", err)
	}

	for i := range out {
		out[i].Username = user.Username
	}
	return out, nil
}

func (uc *energyUseCase) ExistsAssessment(ctx context.Context, username string, date *domain.Date) (bool, error) {
	user, err := uc.user(ctx, username)
	if err != nil {
		return false, err
	}
	return uc.Energy.ExistsAssessmentByDate(ctx, user.ID, uc.dateOrToday(date))
}

func (uc *energyUseCase) AverageLevel(ctx context.Context, username string, start, end *domain.Date) (float64, error) {
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
		avg, ok, err = uc.Energy.AverageLevelByDateRange(ctx, user.ID, s, e)
	} else {
		avg, ok, err = uc.Energy.AverageLevel(ctx, user.ID)
	}
	if err != nil {
		return 0, fmt.Errorf("usecase: ошибка при вычислении среднего уровня энергии: %w", err)
	}
	return summary.OrZero(avg, ok), nil
}

func (uc *energyUseCase) CountAssessments(ctx context.Context, username string, start, end *domain.Date) (int64, error) {
	user, err := uc.user(ctx, username)
	if err != nil {
		return 0, err
	}
	s, e, ranged, err := uc.optionalRange(start, end)
	if err != nil {
		return 0, err
	}
	if ranged {
		return uc.Energy.CountAssessmentsByDateRange(ctx, user.ID, s, e)
	}
	return uc.Energy.CountAssessments(ctx, user.ID)
}

func (uc *energyUseCase) DeleteAssessment(ctx context.Context, username string, id uuid.UUID) error {
	var a *domain.EnergyAssessment
	err := uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		user, err := uc.user(ctx, username)
		if err != nil {
			return err
		}
		a, err = uc.owned(ctx, user, id)
		if err != nil {
			return err
		}
		if err := uc.Energy.DeleteAssessment(ctx, id); err != nil {
			return fmt.Errorf("usecase: ошибка при удалении оценки энергии: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.publish(ctx, payloads.EventEnergyDeleted, username, id, a.Date)
	return nil
}
