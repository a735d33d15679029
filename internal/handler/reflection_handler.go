package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/DailyTrack/internal/domain"
	"github.com/GoArmGo/DailyTrack/internal/usecase"
	"github.com/GoArmGo/DailyTrack/internal/validation"
)

// ReflectionHandler — обработчик HTTP-запросов для работы с рефлексиями.
type ReflectionHandler struct {
	reflectionUseCase usecase.ReflectionUseCase
	validator         *validation.Validator
	logger            *slog.Logger
}

// NewReflectionHandler создаёт новый экземпляр ReflectionHandler.
func NewReflectionHandler(uc usecase.ReflectionUseCase, v *validation.Validator, logger *slog.Logger) *ReflectionHandler {
	return &ReflectionHandler{reflectionUseCase: uc, validator: v, logger: logger}
}

func reflectionFilter(r *http.Request) (usecase.ReflectionFilter, error) {
	var (
		f   usecase.ReflectionFilter
		err error
	)
	if f.Date, err = queryDate(r, "date"); err != nil {
		return f, err
	}
	if f.StartDate, f.EndDate, err = optionalRange(r); err != nil {
		return f, err
	}
	if f.MinRating, err = queryInt(r, "minRating"); err != nil {
		return f, err
	}
	if f.MaxRating, err = queryInt(r, "maxRating"); err != nil {
		return f, err
	}
	f.WithText, err = queryBool(r, "withText")
	return f, err
}

// ListReflections — фильтры: date, startDate+endDate, minRating/maxRating, withText.
func (h *ReflectionHandler) ListReflections(w http.ResponseWriter, r *http.Request) {
	f, err := reflectionFilter(r)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}

	list, err := h.reflectionUseCase.ListReflections(r.Context(), pathUsername(r), f)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, list, h.logger)
}

// SaveReflection — upsert за дату; с ?strict=true только создание.
func (h *ReflectionHandler) SaveReflection(w http.ResponseWriter, r *http.Request) {
	strict, err := queryBool(r, "strict")
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}

	var req reflectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}

	username := pathUsername(r)
	save := h.reflectionUseCase.SaveReflection
	if strict {
		save = h.reflectionUseCase.CreateReflection
	}
	reflection, err := save(r.Context(), username, req.input())
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}

	h.logger.Info("reflection saved", "username", username, "date", reflection.Date, "strict", strict)
	respondWithJSON(w, http.StatusOK, reflection, h.logger)
}

func (h *ReflectionHandler) TodayReflection(w http.ResponseWriter, r *http.Request) {
	reflection, err := h.reflectionUseCase.TodayReflection(r.Context(), pathUsername(r))
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, reflection, h.logger)
}

// ReflectionExists — есть ли рефлексия за дату (?date=, по умолчанию сегодня).
func (h *ReflectionHandler) ReflectionExists(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r, "date")
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	exists, err := h.reflectionUseCase.ExistsReflection(r.Context(), pathUsername(r), date)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, exists, h.logger)
}

// AverageRating — средняя оценка за всё время или за startDate..endDate; без записей 0.
func (h *ReflectionHandler) AverageRating(w http.ResponseWriter, r *http.Request) {
	start, end, err := optionalRange(r)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	avg, err := h.reflectionUseCase.AverageRating(r.Context(), pathUsername(r), start, end)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, avg, h.logger)
}

func (h *ReflectionHandler) CountReflections(w http.ResponseWriter, r *http.Request) {
	start, end, err := optionalRange(r)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	count, err := h.reflectionUseCase.CountReflections(r.Context(), pathUsername(r), start, end)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, count, h.logger)
}

func (h *ReflectionHandler) GetReflection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	reflection, err := h.reflectionUseCase.GetReflection(r.Context(), pathUsername(r), id)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, reflection, h.logger)
}

// UpdateReflection обновляет рефлексию с указанным id; дата не меняется.
func (h *ReflectionHandler) UpdateReflection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	var req updateReflectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}

	patch := domain.ReflectionPatch{EnergyRating: req.EnergyRating, ReflectionText: req.ReflectionText}
	reflection, err := h.reflectionUseCase.UpdateReflection(r.Context(), pathUsername(r), id, patch)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, reflection, h.logger)
}

func (h *ReflectionHandler) DeleteReflection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	if err := h.reflectionUseCase.DeleteReflection(r.Context(), pathUsername(r), id); err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
