// Package validation содержит бизнес-правила, проверяемые перед записью,
// и проверку полей входящих запросов.
//
// Правила — чистые функции: всё, что нужно из хранилища (количество, наличие записи),
// передаётся аргументами, поэтому их можно вызывать внутри транзакции.
package validation

import (
	"github.com/GoArmGo/DailyTrack/internal/domain"
)

// Bounds ограничивает дату записи относительно сегодняшнего дня. Ноль — без ограничения.
type Bounds struct {
	MaxPast   int
	MaxFuture int
}

var (
	// TaskBounds: задачи можно планировать на год вперёд, прошлое не ограничено.
	TaskBounds = Bounds{MaxFuture: 365}
	// DailyRecordBounds: рефлексии и оценки энергии — не старше 30 дней и не дальше завтрашнего.
	DailyRecordBounds = Bounds{MaxPast: 30, MaxFuture: FutureGraceDays}
)

const (
	// FutureGraceDays — на сколько дней вперёд можно заполнять рефлексию и оценку энергии.
	FutureGraceDays = 1
	// RecentActivityDays — окно активности, при которой нельзя удалить пользователя.
	RecentActivityDays = 7
	MaxRangeDays       = 365
	MaxRangeAgeYears   = 2
)

// TaskCreation запрещает создавать больше domain.MaxTasksPerDay задач на дату.
func TaskCreation(countForDate int64) error {
	if countForDate >= domain.MaxTasksPerDay {
		return domain.RuleViolation(domain.RuleTooManyTasks,
			"Cannot create more than %d tasks per day. Current count: %d", domain.MaxTasksPerDay, countForDate)
	}
	return nil
}

// ReflectionCreation — правила строгого создания рефлексии (без upsert).
func ReflectionCreation(exists bool, date, today domain.Date) error {
	return dailyRecordCreation("reflections", "Reflection", exists, date, today)
}

// EnergyAssessmentCreation — правила строгого создания оценки энергии.
func EnergyAssessmentCreation(exists bool, date, today domain.Date) error {
	return dailyRecordCreation("energy assessments", "Energy assessment", exists, date, today)
}

func dailyRecordCreation(plural, singular string, exists bool, date, today domain.Date) error {
	if exists {
		return domain.RuleViolation(domain.RuleAlreadyExists,
			"%s already exists for date: %s. Use update operation instead.", singular, date)
	}
	if date.After(today.AddDays(FutureGraceDays)) {
		return domain.RuleViolation(domain.RuleFutureDate,
			"Cannot create %s more than %d day in the future", plural, FutureGraceDays)
	}
	return nil
}

func days(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}

// DateBounds проверяет, что дата задана и попадает в окно b вокруг today.
func DateBounds(date, today domain.Date, b Bounds) error {
	if date.IsZero() {
		return domain.InvalidArgument(domain.RuleMissingField, "Date is required")
	}
	if b.MaxFuture > 0 && today.DaysUntil(date) > b.MaxFuture {
		return domain.RuleViolation(domain.RuleFutureDate,
			"Date cannot be more than %d %s in the future", b.MaxFuture, days(b.MaxFuture))
	}
	if b.MaxPast > 0 && date.DaysUntil(today) > b.MaxPast {
		return domain.RuleViolation(domain.RuleDateTooOld,
			"Date cannot be more than %d %s in the past", b.MaxPast, days(b.MaxPast))
	}
	return nil
}

// DateRange проверяет диапазон запроса [start, end].
func DateRange(start, end, today domain.Date) error {
	if start.IsZero() || end.IsZero() {
		return domain.InvalidArgument(domain.RuleInvalidRange, "Start date and end date cannot be null")
	}
	if start.After(end) {
		return domain.InvalidArgument(domain.RuleInvalidRange, "Start date cannot be after end date")
	}
	if start.Before(today.AddYears(-MaxRangeAgeYears)) {
		return domain.RuleViolation(domain.RuleRangeTooOld, "Cannot query data older than %d years", MaxRangeAgeYears)
	}
	if days := start.DaysUntil(end); days > MaxRangeDays {
		return domain.RuleViolation(domain.RuleRangeTooWide,
			"Date range cannot exceed %d days. Current range: %d days", MaxRangeDays, days)
	}
	return nil
}

// UserDeletion запрещает удалять пользователя с задачами за последние RecentActivityDays дней.
func UserDeletion(recentTaskCount int64) error {
	if recentTaskCount > 0 {
		return domain.RuleViolation(domain.RuleRecentActivity,
			"Cannot delete user with recent activity. Found %d tasks in the last %d days.", recentTaskCount, RecentActivityDays)
	}
	return nil
}
