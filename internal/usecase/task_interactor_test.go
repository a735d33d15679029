package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/GoArmGo/DailyTrack/internal/domain"
	"github.com/GoArmGo/DailyTrack/internal/messaging/payloads"
	"github.com/GoArmGo/DailyTrack/internal/summary"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var june15 = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

func TestTaskScenario_Alice(t *testing.T) {
	e := newEnv(t, june15)
	ctx := context.Background()
	e.createUser(t, "alice")
	today := domain.DateOf(june15)

	report, err := e.tasks.CreateTask(ctx, "alice", CreateTaskInput{Title: "Write report", Date: today})
	require.NoError(t, err)
	assert.False(t, report.Completed)
	assert.False(t, report.Starred)
	report, err = e.tasks.ToggleStar(ctx, "alice", report.ID)
	require.NoError(t, err)
	assert.True(t, report.Starred)

	desk, err := e.tasks.CreateTask(ctx, "alice", CreateTaskInput{Title: "Clean desk", Date: today})
	require.NoError(t, err)
	_, err = e.tasks.UpdateTask(ctx, "alice", desk.ID, domain.TaskPatch{Completed: ptr(true)})
	require.NoError(t, err)

	list, err := e.tasks.ListTasks(ctx, "alice", TaskFilter{Date: &today})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Write report", list[0].Title)
	assert.Equal(t, "Clean desk", list[1].Title)
	assert.Equal(t, "alice", list[0].Username)

	stats, err := e.tasks.Stats(ctx, "alice", nil)
	require.NoError(t, err)
	assert.Equal(t, summary.TaskStats{TotalTasks: 2, CompletedTasks: 1, StarredTasks: 1, IncompleteTasks: 1}, stats.TaskStats)
	assert.EqualValues(t, 1, stats.StarredTotal)
	assert.Equal(t, stats.TotalTasks, stats.CompletedTasks+stats.IncompleteTasks)

	assert.Equal(t, []string{
		payloads.EventUserCreated,
		payloads.EventTaskCreated, payloads.EventTaskUpdated,
		payloads.EventTaskCreated, payloads.EventTaskUpdated,
	}, e.publisher.types())
}

func TestTaskStats_StarredTotalSpansDates(t *testing.T) {
	e := newEnv(t, june15)
	ctx := context.Background()
	e.createUser(t, "alice")
	today := domain.DateOf(june15)

	for _, d := range []domain.Date{today, today.AddDays(1), today.AddDays(-10)} {
		task, err := e.tasks.CreateTask(ctx, "alice", CreateTaskInput{Title: "starred " + d.String(), Date: d})
		require.NoError(t, err)
		_, err = e.tasks.ToggleStar(ctx, "alice", task.ID)
		require.NoError(t, err)
	}
	_, err := e.tasks.CreateTask(ctx, "alice", CreateTaskInput{Title: "plain", Date: today})
	require.NoError(t, err)

	stats, err := e.tasks.Stats(ctx, "alice", &today)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalTasks)
	assert.EqualValues(t, 1, stats.StarredTasks)
	assert.EqualValues(t, 3, stats.StarredTotal)

	empty := today.AddDays(5)
	stats, err = e.tasks.Stats(ctx, "alice", &empty)
	require.NoError(t, err)
	assert.Equal(t, summary.TaskStats{}, stats.TaskStats)
	assert.EqualValues(t, 3, stats.StarredTotal)
}

func TestCreateTask_TooManyPerDay(t *testing.T) {
	e := newEnv(t, june15)
	ctx := context.Background()
	e.createUser(t, "alice")
	day := domain.DateOf(june15).AddDays(3)

	for i := 0; i < domain.MaxTasksPerDay; i++ {
		_, err := e.tasks.CreateTask(ctx, "alice", CreateTaskInput{Title: fmt.Sprintf("task %d", i), Date: day})
		require.NoError(t, err)
	}

	_, err := e.tasks.CreateTask(ctx, "alice", CreateTaskInput{Title: "one too many", Date: day})
	assert.ErrorIs(t, err, domain.ErrBusinessRule)
	assert.Equal(t, domain.RuleTooManyTasks, domain.RuleOf(err))
	assert.Equal(t, "Cannot create more than 50 tasks per day. Current count: 50", domain.MessageOf(err))

	// другой день не затронут
	_, err = e.tasks.CreateTask(ctx, "alice", CreateTaskInput{Title: "next day", Date: day.AddDays(1)})
	assert.NoError(t, err)
}

func TestCreateTask_DateBounds(t *testing.T) {
	e := newEnv(t, june15)
	ctx := context.Background()
	e.createUser(t, "alice")
	today := domain.DateOf(june15)

	_, err := e.tasks.CreateTask(ctx, "alice", CreateTaskInput{Title: "far", Date: today.AddDays(366)})
	assert.Equal(t, domain.RuleFutureDate, domain.RuleOf(err))

	_, err = e.tasks.CreateTask(ctx, "alice", CreateTaskInput{Title: "old", Date: today.AddYears(-3)})
	assert.NoError(t, err)

	_, err = e.tasks.CreateTask(ctx, "alice", CreateTaskInput{Title: "no date"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = e.tasks.CreateTask(ctx, "ghost", CreateTaskInput{Title: "x", Date: today})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTask_OwnershipScoped(t *testing.T) {
	e := newEnv(t, june15)
	ctx := context.Background()
	e.createUser(t, "alice")
	e.createUser(t, "bob")

	task, err := e.tasks.CreateTask(ctx, "alice", CreateTaskInput{Title: "mine", Date: domain.DateOf(june15)})
	require.NoError(t, err)

	_, err = e.tasks.GetTask(ctx, "bob", task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = e.tasks.UpdateTask(ctx, "bob", task.ID, domain.TaskPatch{Title: ptr("stolen")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, e.tasks.DeleteTask(ctx, "bob", task.ID), domain.ErrNotFound)

	got, err := e.tasks.GetTask(ctx, "alice", task.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Title)

	_, err = e.tasks.GetTask(ctx, "alice", uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateTask_PartialKeepsOtherFields(t *testing.T) {
	e := newEnv(t, june15)
	ctx := context.Background()
	e.createUser(t, "alice")
	day := domain.DateOf(june15)

	task, err := e.tasks.CreateTask(ctx, "alice", CreateTaskInput{Title: "draft", Description: ptr("keep me"), Date: day})
	require.NoError(t, err)

	updated, err := e.tasks.UpdateTask(ctx, "alice", task.ID, domain.TaskPatch{Title: ptr("final")})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "keep me", *updated.Description)
	assert.Equal(t, day, updated.Date)

	toggled, err := e.tasks.ToggleComplete(ctx, "alice", task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	toggled, err = e.tasks.ToggleComplete(ctx, "alice", task.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Completed)

	require.NoError(t, e.tasks.DeleteTask(ctx, "alice", task.ID))
	_, err = e.tasks.GetTask(ctx, "alice", task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListTasks_FilterPriority(t *testing.T) {
	e := newEnv(t, june15)
	ctx := context.Background()
	e.createUser(t, "alice")
	today := domain.DateOf(june15)

	a, err := e.tasks.CreateTask(ctx, "alice", CreateTaskInput{Title: "today", Date: today})
	require.NoError(t, err)
	b, err := e.tasks.CreateTask(ctx, "alice", CreateTaskInput{Title: "yesterday", Date: today.AddDays(-1)})
	require.NoError(t, err)
	_, err = e.tasks.ToggleStar(ctx, "alice", b.ID)
	require.NoError(t, err)

	// date важнее starred
	list, err := e.tasks.ListTasks(ctx, "alice", TaskFilter{Date: &today, Starred: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	list, err = e.tasks.ListTasks(ctx, "alice", TaskFilter{Starred: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)

	list, err = e.tasks.ListTasks(ctx, "alice", TaskFilter{Incomplete: true})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	yesterday := today.AddDays(-1)
	list, err = e.tasks.ListTasks(ctx, "alice", TaskFilter{StartDate: &yesterday, EndDate: &today})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)

	_, err = e.tasks.ListTasks(ctx, "alice", TaskFilter{StartDate: &today, EndDate: &yesterday})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = e.tasks.ListTasks(ctx, "alice", TaskFilter{StartDate: &today})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	all, err := e.tasks.ListTasks(ctx, "alice", TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
