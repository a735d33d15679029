// Package summary собирает агрегаты по дням из уже выбранных записей.
// Ничего не хранится: статистика пересчитывается на каждый запрос.
package summary

import (
	"context"

	"github.com/GoArmGo/DailyTrack/internal/domain"
)

// TaskStats — счётчики задач
type TaskStats struct {
	TotalTasks      int64 `json:"totalTasks"`
	CompletedTasks  int64 `json:"completedTasks"`
	IncompleteTasks int64 `json:"incompleteTasks"`
	StarredTasks    int64 `json:"starredTasks"`
}

// DayTaskStats — счётчики задач за день и число отмеченных задач пользователя за всё время.
type DayTaskStats struct {
	TaskStats
	StarredTotal int64 `json:"starredTotal"`
}

// DailyStats — статистика дня. Средние равны значению записи за день или null, если её нет.
type DailyStats struct {
	TaskStats
	AverageEnergyRating *float64 `json:"averageEnergyRating"`
	AverageEnergyLevel  *float64 `json:"averageEnergyLevel"`
}

// DailyData — всё, что пользователь записал за один день.
type DailyData struct {
	Username         string                   `json:"username"`
	Date             domain.Date              `json:"date"`
	Tasks            []domain.Task            `json:"tasks"`
	Reflection       *domain.Reflection       `json:"reflection"`
	EnergyAssessment *domain.EnergyAssessment `json:"energyAssessment"`
	Stats            DailyStats               `json:"stats"`
}

// Stats считает счётчики по переданному срезу задач.
func Stats(tasks []domain.Task) TaskStats {
	var s TaskStats
	for _, t := range tasks {
		s.TotalTasks++
		if t.Completed {
			s.CompletedTasks++
		}
		if t.Starred {
			s.StarredTasks++
		}
	}
	s.IncompleteTasks = s.TotalTasks - s.CompletedTasks
	return s
}

// Daily собирает данные дня. Статистика считается по тем же задачам, что попадут в ответ.
func Daily(username string, date domain.Date, tasks []domain.Task, r *domain.Reflection, a *domain.EnergyAssessment) DailyData {
	if tasks == nil {
		tasks = []domain.Task{}
	}

	stats := DailyStats{TaskStats: Stats(tasks)}
	if r != nil {
		v := float64(r.EnergyRating)
		stats.AverageEnergyRating = &v
	}
	if a != nil {
		v := float64(a.EnergyLevel)
		stats.AverageEnergyLevel = &v
	}

	return DailyData{
		Username:         username,
		Date:             date,
		Tasks:            tasks,
		Reflection:       r,
		EnergyAssessment: a,
		Stats:            stats,
	}
}

// DayFetcher загружает данные одного дня.
type DayFetcher func(ctx context.Context, date domain.Date) (DailyData, error)

// Range вызывает fetch для каждого дня от start до end включительно, по возрастанию.
// Дни без записей тоже попадают в результат.
func Range(ctx context.Context, start, end domain.Date, fetch DayFetcher) ([]DailyData, error) {
	days := start.DaysUntil(end) + 1
	if days < 0 {
		days = 0
	}
	out := make([]DailyData, 0, days)
	for d := start; !d.After(end); d = d.AddDays(1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := fetch(ctx, d)
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}

// OrZero подставляет 0 вместо отсутствующего среднего.
func OrZero(value float64, ok bool) float64 {
	if !ok {
		return 0
	}
	return value
}
