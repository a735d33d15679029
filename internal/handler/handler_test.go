package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GoArmGo/DailyTrack/internal/database/dbtest"
	"github.com/GoArmGo/DailyTrack/internal/database/storage"
	"github.com/GoArmGo/DailyTrack/internal/domain"
	"github.com/GoArmGo/DailyTrack/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

type memArchive struct{ keys []string }

func (a *memArchive) UploadFile(_ context.Context, key string, _ []byte, _ string) (string, error) {
	a.keys = append(a.keys, key)
	return "http://archive.local/" + key, nil
}

type failingPinger struct{}

func (failingPinger) PingContext(context.Context) error { return errors.New("connection refused") }

// newServer поднимает API поверх временной sqlite-базы. archive может быть nil.
func newServer(t *testing.T, archive *memArchive) *httptest.Server {
	t.Helper()

	db := dbtest.New(t)
	log := dbtest.Logger()
	d := usecase.Deps{
		Users:       storage.NewUserStorage(db, log),
		Tasks:       storage.NewTaskStorage(db, log),
		Reflections: storage.NewReflectionStorage(db, log),
		Energy:      storage.NewEnergyStorage(db, log),
		Tx:          storage.NewTransactor(db, log),
		Now:         func() time.Time { return testNow },
		Logger:      log,
	}
	if archive != nil {
		d.Archive = archive
	}

	daily := usecase.NewDailyUseCase(d)
	svc := Services{
		Users:       usecase.NewUserUseCase(d),
		Tasks:       usecase.NewTaskUseCase(d),
		Reflections: usecase.NewReflectionUseCase(d),
		Energy:      usecase.NewEnergyUseCase(d),
		Daily:       daily,
		Export:      usecase.NewExportUseCase(d, daily),
	}

	srv := httptest.NewServer(NewRouter(svc, db, log, 5*time.Second))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, srv.URL+path, rdr)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func createUser(t *testing.T, srv *httptest.Server, name string) {
	t.Helper()
	resp, body := do(t, srv, http.MethodPost, "/api/users", map[string]string{"username": name})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
}

func TestHealth(t *testing.T) {
	srv := newServer(t, nil)

	resp, body := do(t, srv, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "UP", decode[healthResponse](t, body).Database)

	down := httptest.NewServer(NewRouter(Services{}, failingPinger{}, dbtest.Logger(), time.Second))
	defer down.Close()
	resp, _ = do(t, down, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestUsersAPI(t *testing.T) {
	srv := newServer(t, nil)
	createUser(t, srv, "alice")

	resp, body := do(t, srv, http.MethodPost, "/api/users", map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decode[errorResponse](t, body)
	assert.Equal(t, http.StatusConflict, errBody.Status)
	assert.Equal(t, "Conflict", errBody.Error)
	assert.Equal(t, "/api/users", errBody.Path)
	assert.Equal(t, "User already exists with username: 'alice'", errBody.Message)

	resp, body = do(t, srv, http.MethodPost, "/api/users", map[string]string{"username": "admin"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody = decode[errorResponse](t, body)
	assert.Equal(t, "This username is reserved and cannot be used", errBody.ValidationErrors["username"])

	// by-id занято маршрутом поиска по идентификатору
	resp, body = do(t, srv, http.MethodPost, "/api/users", map[string]string{"username": "by-id"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "This username is reserved and cannot be used", decode[errorResponse](t, body).ValidationErrors["username"])
	resp, _ = do(t, srv, http.MethodGet, "/api/users/by-id/tasks", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, srv, http.MethodGet, "/api/users/alice", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	alice := decode[domain.User](t, body)
	assert.Equal(t, "alice", alice.Username)

	resp, body = do(t, srv, http.MethodGet, "/api/users/by-id/"+alice.ID.String(), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, alice.ID, decode[domain.User](t, body).ID)

	resp, _ = do(t, srv, http.MethodGet, "/api/users/by-id/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, body = do(t, srv, http.MethodGet, "/api/users/alice/exists", nil)
	assert.Equal(t, "true", string(body))

	_, body = do(t, srv, http.MethodGet, "/api/users?search=LIC", nil)
	assert.Len(t, decode[[]domain.User](t, body), 1)

	resp, body = do(t, srv, http.MethodGet, "/api/users/ghost", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "User not found with username: 'ghost'", decode[errorResponse](t, body).Message)

	resp, _ = do(t, srv, http.MethodDelete, "/api/users/alice", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestTasksAPI(t *testing.T) {
	srv := newServer(t, nil)
	createUser(t, srv, "alice")

	resp, body := do(t, srv, http.MethodPost, "/api/users/alice/tasks",
		map[string]any{"title": "Write report", "date": "2024-06-15"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	report := decode[domain.Task](t, body)
	assert.Equal(t, "alice", report.Username)
	assert.False(t, report.Completed)

	resp, _ = do(t, srv, http.MethodPatch, "/api/users/alice/tasks/"+report.ID.String()+"/star", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, body = do(t, srv, http.MethodPost, "/api/users/alice/tasks",
		map[string]any{"title": "Clean desk", "date": "2024-06-15"})
	desk := decode[domain.Task](t, body)

	resp, body = do(t, srv, http.MethodPut, "/api/users/alice/tasks/"+desk.ID.String(),
		map[string]any{"completed": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Clean desk", decode[domain.Task](t, body).Title)

	_, body = do(t, srv, http.MethodGet, "/api/users/alice/tasks?date=2024-06-15", nil)
	list := decode[[]domain.Task](t, body)
	require.Len(t, list, 2)
	assert.Equal(t, report.ID, list[0].ID)

	_, body = do(t, srv, http.MethodGet, "/api/users/alice/tasks/stats", nil)
	assert.JSONEq(t, `{"totalTasks":2,"completedTasks":1,"incompleteTasks":1,"starredTasks":1,"starredTotal":1}`, string(body))

	resp, body = do(t, srv, http.MethodPost, "/api/users/alice/tasks", map[string]any{"title": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	fields := decode[errorResponse](t, body).ValidationErrors
	assert.Equal(t, "title is required", fields["title"])
	assert.Equal(t, "date is required", fields["date"])

	resp, _ = do(t, srv, http.MethodGet, "/api/users/alice/tasks?date=15-06-2024", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, srv, http.MethodGet, "/api/users/alice/tasks?startDate=2024-06-15&endDate=2024-06-01", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Start date cannot be after end date", decode[errorResponse](t, body).Message)

	createUser(t, srv, "bob")
	resp, _ = do(t, srv, http.MethodGet, "/api/users/bob/tasks/"+report.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodDelete, "/api/users/alice/tasks/"+desk.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, srv, http.MethodDelete, "/api/users/alice", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, domain.RuleRecentActivity, decode[errorResponse](t, body).Rule)
}

func TestReflectionsAPI(t *testing.T) {
	srv := newServer(t, nil)
	createUser(t, srv, "alice")

	_, body := do(t, srv, http.MethodGet, "/api/users/alice/reflections/average-rating", nil)
	assert.Equal(t, "0", string(body))

	resp, _ := do(t, srv, http.MethodGet, "/api/users/alice/reflections/today", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	for _, rating := range []int{5, 8} {
		resp, body = do(t, srv, http.MethodPost, "/api/users/alice/reflections",
			map[string]any{"date": "2024-06-15", "energyRating": rating, "reflectionText": "ok"})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	}
	_, body = do(t, srv, http.MethodGet, "/api/users/alice/reflections/count", nil)
	assert.Equal(t, "1", string(body))

	resp, body = do(t, srv, http.MethodPost, "/api/users/alice/reflections?strict=true",
		map[string]any{"date": "2024-06-15", "energyRating": 3})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, domain.RuleAlreadyExists, decode[errorResponse](t, body).Rule)

	resp, body = do(t, srv, http.MethodPost, "/api/users/alice/reflections",
		map[string]any{"date": "2024-06-14", "energyRating": 11})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "energyRating must not exceed 10", decode[errorResponse](t, body).ValidationErrors["energyRating"])

	_, body = do(t, srv, http.MethodGet, "/api/users/alice/reflections/today", nil)
	today := decode[domain.Reflection](t, body)
	assert.Equal(t, 8, today.EnergyRating)

	resp, body = do(t, srv, http.MethodPut, "/api/users/alice/reflections/"+today.ID.String(),
		map[string]any{"energyRating": 6})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 6, decode[domain.Reflection](t, body).EnergyRating)

	_, body = do(t, srv, http.MethodGet, "/api/users/alice/reflections/exists?date=2024-06-15", nil)
	assert.Equal(t, "true", string(body))

	_, body = do(t, srv, http.MethodGet, "/api/users/alice/reflections?minRating=7", nil)
	assert.Empty(t, decode[[]domain.Reflection](t, body))
}

func TestEnergyAPI(t *testing.T) {
	srv := newServer(t, nil)
	createUser(t, srv, "bob")

	for _, level := range []int{4, 2} {
		resp, body := do(t, srv, http.MethodPost, "/api/users/bob/energy",
			map[string]any{"date": "2024-06-15", "energyLevel": level})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	}

	_, body := do(t, srv, http.MethodGet, "/api/users/bob/energy?date=2024-06-15", nil)
	list := decode[[]domain.EnergyAssessment](t, body)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].EnergyLevel)

	_, body = do(t, srv, http.MethodGet, "/api/users/bob/energy/average-level?startDate=2024-06-01&endDate=2024-06-15", nil)
	assert.Equal(t, "2", string(body))

	resp, body := do(t, srv, http.MethodGet, "/api/users/bob/energy/average-level?startDate=2024-06-01", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Start date and end date cannot be null", decode[errorResponse](t, body).Message)

	resp, _ = do(t, srv, http.MethodPost, "/api/users/bob/energy", map[string]any{"date": "2024-06-15", "energyLevel": 6})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodDelete, "/api/users/bob/energy/"+list[0].ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, body = do(t, srv, http.MethodGet, "/api/users/bob/energy/exists", nil)
	assert.Equal(t, "false", string(body))
}

func TestDailyAPI(t *testing.T) {
	archive := &memArchive{}
	srv := newServer(t, archive)
	createUser(t, srv, "alice")

	do(t, srv, http.MethodPost, "/api/users/alice/tasks", map[string]any{"title": "a", "date": "2024-06-14"})
	do(t, srv, http.MethodPost, "/api/users/alice/energy", map[string]any{"date": "2024-06-15", "energyLevel": 3})

	resp, body := do(t, srv, http.MethodGet, "/api/users/alice/daily-data", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var day struct {
		Date  string          `json:"date"`
		Tasks []domain.Task   `json:"tasks"`
		Stats map[string]any  `json:"stats"`
		Raw   json.RawMessage `json:"reflection"`
	}
	require.NoError(t, json.Unmarshal(body, &day))
	assert.Equal(t, "2024-06-15", day.Date)
	assert.NotNil(t, day.Tasks)
	assert.Equal(t, "null", string(day.Raw))
	assert.Nil(t, day.Stats["averageEnergyRating"])
	assert.Equal(t, 3.0, day.Stats["averageEnergyLevel"])

	_, body = do(t, srv, http.MethodGet, "/api/users/alice/daily-data/range?startDate=2024-06-13&endDate=2024-06-15", nil)
	var days []map[string]any
	require.NoError(t, json.Unmarshal(body, &days))
	assert.Len(t, days, 3)

	resp, _ = do(t, srv, http.MethodGet, "/api/users/alice/daily-data/range?startDate=2023-01-01&endDate=2024-06-15", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	_, body = do(t, srv, http.MethodGet, "/api/users/alice/daily-data/dates", nil)
	assert.JSONEq(t, `["2024-06-15","2024-06-14"]`, string(body))

	resp, body = do(t, srv, http.MethodPost, "/api/users/alice/exports?startDate=2024-06-14&endDate=2024-06-15", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	res := decode[usecase.ExportResult](t, body)
	assert.Equal(t, 2, res.Days)
	assert.Equal(t, []string{res.Key}, archive.keys)
}

func TestExportDisabled(t *testing.T) {
	srv := newServer(t, nil)
	createUser(t, srv, "alice")

	resp, body := do(t, srv, http.MethodPost, "/api/users/alice/exports?startDate=2024-06-14&endDate=2024-06-15", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "Exports are not configured on this server", decode[errorResponse](t, body).Message)
}
