package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/DailyTrack/internal/usecase"
	"github.com/GoArmGo/DailyTrack/internal/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Services — интеракторы, которые обслуживает HTTP API.
type Services struct {
	Users       usecase.UserUseCase
	Tasks       usecase.TaskUseCase
	Reflections usecase.ReflectionUseCase
	Energy      usecase.EnergyUseCase
	Daily       usecase.DailyUseCase
	Export      usecase.ExportUseCase
}

// NewRouter собирает chi-роутер с middleware и всеми маршрутами /api.
func NewRouter(svc Services, db Pinger, logger *slog.Logger, timeout time.Duration) http.Handler {
	v := validation.NewValidator()

	users := NewUserHandler(svc.Users, v, logger)
	tasks := NewTaskHandler(svc.Tasks, v, logger)
	reflections := NewReflectionHandler(svc.Reflections, v, logger)
	energy := NewEnergyHandler(svc.Energy, v, logger)
	daily := NewDailyHandler(svc.Daily, svc.Export, logger)
	health := NewHealthHandler(db, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health.Health)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", users.CreateUser)
			r.Get("/", users.ListUsers)
			r.Get("/by-id/{id}", users.GetUserByID)

			r.Route("/{username}", func(r chi.Router) {
				r.Get("/", users.GetUserByUsername)
				r.Delete("/", users.DeleteUser)
				r.Get("/exists", users.UserExists)

				r.Route("/tasks", func(r chi.Router) {
					r.Get("/", tasks.ListTasks)
					r.Post("/", tasks.CreateTask)
					r.Get("/stats", tasks.TaskStats)
					r.Get("/{id}", tasks.GetTask)
					r.Put("/{id}", tasks.UpdateTask)
					r.Delete("/{id}", tasks.DeleteTask)
					r.Patch("/{id}/complete", tasks.ToggleComplete)
					r.Patch("/{id}/star", tasks.ToggleStar)
				})

				r.Route("/reflections", func(r chi.Router) {
					r.Get("/", reflections.ListReflections)
					r.Post("/", reflections.SaveReflection)
					r.Get("/today", reflections.TodayReflection)
					r.Get("/exists", reflections.ReflectionExists)
					r.Get("/average-rating", reflections.AverageRating)
					r.Get("/count", reflections.CountReflections)
					r.Get("/{id}", reflections.GetReflection)
					r.Put("/{id}", reflections.UpdateReflection)
					r.Delete("/{id}", reflections.DeleteReflection)
				})

				r.Route("/energy", func(r chi.Router) {
					r.Get("/", energy.ListAssessments)
					r.Post("/", energy.SaveAssessment)
					r.Get("/today", energy.TodayAssessment)
					r.Get("/exists", energy.AssessmentExists)
					r.Get("/average-level", energy.AverageLevel)
					r.Get("/count", energy.CountAssessments)
					r.Get("/{id}", energy.GetAssessment)
					r.Put("/{id}", energy.UpdateAssessment)
					r.Delete("/{id}", energy.DeleteAssessment)
				})

				r.Get("/daily-data", daily.GetDailyData)
				r.Get("/daily-data/range", daily.GetDailyRange)
				r.Get("/daily-data/dates", daily.ActiveDates)
				r.Post("/exports", daily.ExportRange)
			})
		})
	})

	return r
}
