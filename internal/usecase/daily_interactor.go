package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/GoArmGo/DailyTrack/internal/domain"
	"github.com/GoArmGo/DailyTrack/internal/summary"
	"github.com/GoArmGo/DailyTrack/internal/validation"
)

// dailyUseCase implements DailyUseCase
type dailyUseCase struct {
	base
}

// NewDailyUseCase создает новый экземпляр DailyUseCase
func NewDailyUseCase(d Deps) DailyUseCase {
	return &dailyUseCase{base: newBase(d)}
}

func (uc *dailyUseCase) GetDailyData(ctx context.Context, username string, date *domain.Date) (summary.DailyData, error) {
	user, err := uc.user(ctx, username)
	if err != nil {
		return summary.DailyData{}, err
	}
	return uc.day(ctx, user, uc.dateOrToday(date))
}

// GetDailyRange проверяет диапазон и собирает данные за каждый день, включая пустые
func (uc *dailyUseCase) GetDailyRange(ctx context.Context, username string, start, end domain.Date) ([]summary.DailyData, error) {
	if err := validation.DateRange(start, end, uc.today()); err != nil {
		return nil, err
	}
	user, err := uc.user(ctx, username)
	if err != nil {
		return nil, err
	}
	return summary.Range(ctx, start, end, func(ctx context.Context, d domain.Date) (summary.DailyData, error) {
		return uc.day(ctx, user, d)
	})
}

// day выбирает задачи, рефлексию и оценку за день один раз; статистика считается по этим же строкам.
func (uc *dailyUseCase) day(ctx context.Context, user *domain.User, date domain.Date) (summary.DailyData, error) {
	tasks, err := uc.Tasks.ListTasksByDate(ctx, user.ID, date)
	if err != nil {
		return summary.DailyData{}, fmt.Errorf("usecase: ошибка при получении задач за %s: %w", date, err)
	}
	for i := range tasks {
		tasks[i].Username = user.Username
	}

	reflection, err := uc.Reflections.GetReflectionByDate(ctx, user.ID, date)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return summary.DailyData{}, fmt.Errorf("usecase: ошибка при получении рефлексии за %s: %w", date, err)
		}
		reflection = nil
	} else {
		reflection.Username = user.Username
	}

	assessment, err := uc.Energy.GetAssessmentByDate(ctx, user.ID, date)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return summary.DailyData{}, fmt.Errorf("usecase: ошибка при получении оценки энергии за %s: %w", date, err)
		}
		assessment = nil
	} else {
		assessment.Username = user.Username
	}

	return summary.Daily(user.Username, date, tasks, reflection, assessment), nil
}

func (uc *dailyUseCase) ActiveDates(ctx context.Context, username string) ([]domain.Date, error) {
	user, err := uc.user(ctx, username)
	if err != nil {
		return nil, err
	}

	sources := []func() ([]domain.Date, error){
		func() ([]domain.Date, error) { return uc.Tasks.ListTaskDates(ctx, user.ID) },
		func() ([]domain.Date, error) { return uc.Reflections.ListReflectionDates(ctx, user.ID) },
		func() ([]domain.Date, error) { return uc.Energy.ListAssessmentDates(ctx, user.ID) },
	}

	seen := make(map[string]struct{})
	dates := []domain.Date{}
	for _, src := range sources {
		list, err := src()
		if err != nil {
			return nil, fmt.Errorf("usecase: ошибка при получении дат активности: %w", err)
		}
		for _, d := range list {
			if _, ok := seen[d.String()]; ok {
				continue
			}
			seen[d.String()] = struct{}{}
			dates = append(dates, d)
		}
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates, nil
}
