package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GoArmGo/DailyTrack/internal/database/dbtest"
	"github.com/GoArmGo/DailyTrack/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	tx          *Transactor
	users       *UserStorage
	tasks       *TaskStorage
	reflections *ReflectionStorage
	energy      *EnergyStorage
}

func newFixture(t *testing.T) fixture {
	db := dbtest.New(t)
	log := dbtest.Logger()
	return fixture{
		tx:          NewTransactor(db, log),
		users:       NewUserStorage(db, log),
		tasks:       NewTaskStorage(db, log),
		reflections: NewReflectionStorage(db, log),
		energy:      NewEnergyStorage(db, log),
	}
}

func (f fixture) user(t *testing.T, name string) *domain.User {
	u := &domain.User{Username: name}
	require.NoError(t, f.users.CreateUser(context.Background(), u))
	return u
}

func (f fixture) task(t *testing.T, userID uuid.UUID, date domain.Date, title string, starred, completed bool) *domain.Task {
	task := &domain.Task{UserID: userID, Title: title, Date: date, Starred: starred, Completed: completed}
	require.NoError(t, f.tasks.CreateTask(context.Background(), task))
	return task
}

var day = domain.NewDate(2024, time.May, 10)

func TestUserStorage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice := f.user(t, "alice")
	f.user(t, "Bob_smith")

	got, err := f.users.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.True(t, alice.CreatedAt.Equal(got.CreatedAt))

	_, err = f.users.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.users.CreateUser(ctx, &domain.User{Username: "alice"})
	assert.ErrorIs(t, err, domain.ErrDuplicateResource)

	exists, err := f.users.ExistsByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, exists)

	found, err := f.users.SearchUsers(ctx, "BOB")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Bob_smith", found[0].Username)

	// "_" ищется буквально, а не как шаблон LIKE
	found, err = f.users.SearchUsers(ctx, "b_s")
	require.NoError(t, err)
	assert.Len(t, found, 1)
	found, err = f.users.SearchUsers(ctx, "l_c")
	require.NoError(t, err)
	assert.Empty(t, found)

	all, err := f.users.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUserStorage_DeleteReferenced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.user(t, "alice")
	f.task(t, u.ID, day, "write", false, false)

	err := f.users.DeleteUser(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrStillReferenced)

	free := f.user(t, "bob")
	require.NoError(t, f.users.DeleteUser(ctx, free.ID))
	assert.ErrorIs(t, f.users.DeleteUser(ctx, free.ID), domain.ErrNotFound)
}

func TestTaskStorage_Orderings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "alice")

	first := f.task(t, u.ID, day, "first", false, true)
	second := f.task(t, u.ID, day, "second", false, false)
	starred := f.task(t, u.ID, day, "starred", true, false)
	older := f.task(t, u.ID, day.AddDays(-3), "older", true, false)

	byDate, err := f.tasks.ListTasksByDate(ctx, u.ID, day)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{starred.ID, first.ID, second.ID}, ids(byDate))

	byRange, err := f.tasks.ListTasksByDateRange(ctx, u.ID, day.AddDays(-3), day)
	require.NoError(t, err)
	require.Len(t, byRange, 4)
	assert.Equal(t, starred.ID, byRange[0].ID)
	assert.Equal(t, older.ID, byRange[3].ID)

	starredOnly, err := f.tasks.ListStarredTasks(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{starred.ID, older.ID}, ids(starredOnly))

	incomplete, err := f.tasks.ListIncompleteTasks(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{older.ID, starred.ID, second.ID}, ids(incomplete))

	all, err := f.tasks.ListTasks(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{starred.ID, second.ID, first.ID, older.ID}, ids(all))

	n, err := f.tasks.CountTasksByDate(ctx, u.ID, day)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	n, err = f.tasks.CountTasksByDateRange(ctx, u.ID, day.AddDays(-1), day)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	n, err = f.tasks.CountStarredTasks(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	dates, err := f.tasks.ListTaskDates(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Date{day, day.AddDays(-3)}, dates)
}

func TestTaskStorage_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "alice")
	task := f.task(t, u.ID, day, "draft", false, false)

	desc := "details"
	task.Title = "final"
	task.Description = &desc
	task.Completed = true
	require.NoError(t, f.tasks.UpdateTask(ctx, task))

	got, err := f.tasks.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, "details", *got.Description)
	assert.True(t, got.Completed)
	assert.Equal(t, day, got.Date)

	require.NoError(t, f.tasks.DeleteTask(ctx, task.ID))
	_, err = f.tasks.GetTaskByID(ctx, task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.tasks.DeleteTask(ctx, task.ID), domain.ErrNotFound)
}

func TestReflectionStorage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "alice")

	text := "good day"
	blank := "   "
	r1 := &domain.Reflection{UserID: u.ID, Date: day, EnergyRating: 8, ReflectionText: &text}
	r2 := &domain.Reflection{UserID: u.ID, Date: day.AddDays(-1), EnergyRating: 5, ReflectionText: &blank}
	require.NoError(t, f.reflections.CreateReflection(ctx, r1))
	require.NoError(t, f.reflections.CreateReflection(ctx, r2))

	err := f.reflections.CreateReflection(ctx, &domain.Reflection{UserID: u.ID, Date: day, EnergyRating: 3})
	assert.ErrorIs(t, err, domain.ErrDuplicateResource)

	got, err := f.reflections.GetReflectionByDate(ctx, u.ID, day)
	require.NoError(t, err)
	assert.Equal(t, r1.ID, got.ID)

	_, err = f.reflections.GetReflectionByDate(ctx, u.ID, day.AddDays(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	exists, err := f.reflections.ExistsReflectionByDate(ctx, u.ID, day)
	require.NoError(t, err)
	assert.True(t, exists)

	withText, err := f.reflections.ListReflectionsWithText(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{r1.ID}, reflectionIDs(withText))

	byRating, err := f.reflections.ListReflectionsByRating(ctx, u.ID, 5, 7)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{r2.ID}, reflectionIDs(byRating))

	all, err := f.reflections.ListReflections(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{r1.ID, r2.ID}, reflectionIDs(all))

	avg, ok, err := f.reflections.AverageRating(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 6.5, avg, 1e-9)

	avg, ok, err = f.reflections.AverageRatingByDateRange(ctx, u.ID, day.AddDays(10), day.AddDays(20))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, avg)

	r1.EnergyRating = 10
	require.NoError(t, f.reflections.UpdateReflection(ctx, r1))
	got, err = f.reflections.GetReflectionByID(ctx, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.EnergyRating)

	require.NoError(t, f.reflections.DeleteReflection(ctx, r2.ID))
	n, err := f.reflections.CountReflections(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestEnergyStorage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "alice")

	for i, level := range []int{2, 4, 5} {
		a := &domain.EnergyAssessment{UserID: u.ID, Date: day.AddDays(-i), EnergyLevel: level}
		require.NoError(t, f.energy.CreateAssessment(ctx, a))
	}

	err := f.energy.CreateAssessment(ctx, &domain.EnergyAssessment{UserID: u.ID, Date: day, EnergyLevel: 1})
	assert.ErrorIs(t, err, domain.ErrDuplicateResource)

	byLevel, err := f.energy.ListAssessmentsByLevel(ctx, u.ID, 4, 5)
	require.NoError(t, err)
	require.Len(t, byLevel, 2)
	assert.Equal(t, day.AddDays(-1), byLevel[0].Date)

	n, err := f.energy.CountAssessmentsByDateRange(ctx, u.ID, day.AddDays(-1), day)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	avg, ok, err := f.energy.AverageLevel(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 11.0/3.0, avg, 1e-9)

	dates, err := f.energy.ListAssessmentDates(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Date{day, day.AddDays(-1), day.AddDays(-2)}, dates)
}

func TestTransactor_RollbackOnError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "alice")

	boom := errors.New("boom")
	err := f.tx.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, f.tasks.CreateTask(ctx, &domain.Task{UserID: u.ID, Title: "in tx", Date: day}))
		n, err := f.tasks.CountTasksByDate(ctx, u.ID, day)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	n, err := f.tasks.CountTasksByDate(ctx, u.ID, day)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func ids(tasks []domain.Task) []uuid.UUID {
	out := make([]uuid.UUID, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func reflectionIDs(rs []domain.Reflection) []uuid.UUID {
	out := make([]uuid.UUID, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}
