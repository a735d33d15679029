package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/GoArmGo/DailyTrack/internal/domain"
	"github.com/stretchr/testify/assert"
)

var today = domain.NewDate(2024, time.June, 15)

func TestTaskCreation(t *testing.T) {
	assert.NoError(t, TaskCreation(0))
	assert.NoError(t, TaskCreation(49))

	err := TaskCreation(50)
	assert.ErrorIs(t, err, domain.ErrBusinessRule)
	assert.Equal(t, domain.RuleTooManyTasks, domain.RuleOf(err))
	assert.Equal(t, "Cannot create more than 50 tasks per day. Current count: 50", domain.MessageOf(err))
}

func TestReflectionCreation(t *testing.T) {
	assert.NoError(t, ReflectionCreation(false, today.AddDays(1), today))

	err := ReflectionCreation(true, today, today)
	assert.Equal(t, domain.RuleAlreadyExists, domain.RuleOf(err))
	assert.Equal(t, "Reflection already exists for date: 2024-06-15. Use update operation instead.", domain.MessageOf(err))

	err = ReflectionCreation(false, today.AddDays(2), today)
	assert.Equal(t, domain.RuleFutureDate, domain.RuleOf(err))
	assert.Equal(t, "Cannot create reflections more than 1 day in the future", domain.MessageOf(err))

	err = EnergyAssessmentCreation(false, today.AddDays(2), today)
	assert.Equal(t, "Cannot create energy assessments more than 1 day in the future", domain.MessageOf(err))
}

func TestDateBounds(t *testing.T) {
	tests := []struct {
		name   string
		date   domain.Date
		bounds Bounds
		rule   string
	}{
		{"task far past is fine", today.AddDays(-1000), TaskBounds, ""},
		{"task one year ahead", today.AddDays(365), TaskBounds, ""},
		{"task beyond one year", today.AddDays(366), TaskBounds, domain.RuleFutureDate},
		{"daily record tomorrow", today.AddDays(1), DailyRecordBounds, ""},
		{"daily record day after tomorrow", today.AddDays(2), DailyRecordBounds, domain.RuleFutureDate},
		{"daily record 30 days ago", today.AddDays(-30), DailyRecordBounds, ""},
		{"daily record 31 days ago", today.AddDays(-31), DailyRecordBounds, domain.RuleDateTooOld},
		{"missing date", domain.Date{}, TaskBounds, domain.RuleMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DateBounds(tt.date, today, tt.bounds)
			if tt.rule == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.rule, domain.RuleOf(err))
		})
	}

	assert.ErrorIs(t, DateBounds(domain.Date{}, today, TaskBounds), domain.ErrInvalidArgument)

	err := DateBounds(today.AddDays(2), today, DailyRecordBounds)
	assert.Equal(t, "Date cannot be more than 1 day in the future", domain.MessageOf(err))
	err = DateBounds(today.AddDays(366), today, TaskBounds)
	assert.Equal(t, "Date cannot be more than 365 days in the future", domain.MessageOf(err))
	err = DateBounds(today.AddDays(-31), today, DailyRecordBounds)
	assert.Equal(t, "Date cannot be more than 30 days in the past", domain.MessageOf(err))
}

func TestDateRange(t *testing.T) {
	assert.NoError(t, DateRange(today.AddDays(-7), today, today))
	assert.NoError(t, DateRange(today, today, today))
	assert.NoError(t, DateRange(today.AddDays(-365), today, today))

	err := DateRange(today, today.AddDays(-1), today)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Equal(t, "Start date cannot be after end date", domain.MessageOf(err))

	err = DateRange(domain.Date{}, today, today)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Equal(t, "Start date and end date cannot be null", domain.MessageOf(err))

	err = DateRange(today.AddYears(-2).AddDays(-1), today.AddYears(-2), today)
	assert.ErrorIs(t, err, domain.ErrBusinessRule)
	assert.Equal(t, domain.RuleRangeTooOld, domain.RuleOf(err))

	err = DateRange(today.AddDays(-400), today, today)
	assert.ErrorIs(t, err, domain.ErrBusinessRule)
	assert.Equal(t, domain.RuleRangeTooWide, domain.RuleOf(err))
	assert.Equal(t, "Date range cannot exceed 365 days. Current range: 400 days", domain.MessageOf(err))
}

func TestUserDeletion(t *testing.T) {
	assert.NoError(t, UserDeletion(0))

	err := UserDeletion(3)
	assert.True(t, errors.Is(err, domain.ErrBusinessRule))
	assert.Equal(t, "Cannot delete user with recent activity. Found 3 tasks in the last 7 days.", domain.MessageOf(err))
}
