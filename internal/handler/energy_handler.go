package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/DailyTrack/internal/domain"
	"github.com/GoArmGo/DailyTrack/internal/usecase"
	"github.com/GoArmGo/DailyTrack/internal/validation"
)

// EnergyHandler — обработчик HTTP-запросов для оценок энергии.
type EnergyHandler struct {
	energyUseCase usecase.EnergyUseCase
	validator     *validation.Validator
	logger        *slog.Logger
}

// NewEnergyHandler создаёт новый экземпляр EnergyHandler.
func NewEnergyHandler(uc usecase.EnergyUseCase, v *validation.Validator, logger *slog.Logger) *EnergyHandler {
	return &EnergyHandler{energyUseCase: uc, validator: v, logger: logger}
}

func energyFilter(r *http.Request) (usecase.EnergyFilter, error) {
	var (
		f   usecase.EnergyFilter
		err error
	)
	if f.Date, err = queryDate(r, "date"); err != nil {
		return f, err
	}
	if f.StartDate, f.EndDate, err = optionalRange(r); err != nil {
		return f, err
	}
	if f.MinLevel, err = queryInt(r, "minLevel"); err != nil {
		return f, err
	}
	f.MaxLevel, err = queryInt(r, "maxLevel")
	return f, err
}

// ListAssessments — фильтры: date, startDate+endDate, minLevel/maxLevel.
func (h *EnergyHandler) ListAssessments(w http.ResponseWriter, r *http.Request) {
	f, err := energyFilter(r)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	list, err := h.energyUseCase.ListAssessments(r.Context(), pathUsername(r), f)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, list, h.logger)
}

// SaveAssessment — upsert оценки за дату; с ?strict=true только создание.
func (h *EnergyHandler) SaveAssessment(w http.ResponseWriter, r *http.Request) {
	strict, err := queryBool(r, "strict")
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	var req energyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}

	username := pathUsername(r)
	in := usecase.EnergyInput{Date: *req.Date, EnergyLevel: req.EnergyLevel}

	var assessment *domain.EnergyAssessment
	if strict {
		assessment, err = h.energyUseCase.CreateAssessment(r.Context(), username, in)
	} else {
		assessment, err = h.energyUseCase.SaveAssessment(r.Context(), username, in)
	}
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}

	h.logger.Info("energy assessment saved",
		"username", username,
		"date", assessment.Date,
		"level", assessment.EnergyLevel,
	)
	respondWithJSON(w, http.StatusOK, assessment, h.logger)
}

func (h *EnergyHandler) TodayAssessment(w http.ResponseWriter, r *http.Request) {
	assessment, err := h.energyUseCase.TodayAssessment(r.Context(), pathUsername(r))
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, assessment, h.logger)
}

func (h *EnergyHandler) AssessmentExists(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r, "date")
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	exists, err := h.energyUseCase.ExistsAssessment(r.Context(), pathUsername(r), date)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, exists, h.logger)
}

func (h *EnergyHandler) AverageLevel(w http.ResponseWriter, r *http.Request) {
	start, end, err := optionalRange(r)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	avg, err := h.energyUseCase.AverageLevel(r.Context(), pathUsername(r), start, end)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, avg, h.logger)
}

func (h *EnergyHandler) CountAssessments(w http.ResponseWriter, r *http.Request) {
	start, end, err := optionalRange(r)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	count, err := h.energyUseCase.CountAssessments(r.Context(), pathUsername(r), start, end)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, count, h.logger)
}

func (h *EnergyHandler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	assessment, err := h.energyUseCase.GetAssessment(r.Context(), pathUsername(r), id)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, assessment, h.logger)
}

func (h *EnergyHandler) UpdateAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	var req updateEnergyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}

	assessment, err := h.energyUseCase.UpdateAssessment(r.Context(), pathUsername(r), id,
		domain.EnergyPatch{EnergyLevel: req.EnergyLevel})
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, assessment, h.logger)
}

func (h *EnergyHandler) DeleteAssessment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	if err := h.energyUseCase.DeleteAssessment(r.Context(), pathUsername(r), id); err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
