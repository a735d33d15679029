package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/DailyTrack/internal/usecase"
)

// DailyHandler отдаёт данные по дням и выгрузки.
type DailyHandler struct {
	dailyUseCase  usecase.DailyUseCase
	exportUseCase usecase.ExportUseCase
	logger        *slog.Logger
}

// NewDailyHandler создаёт новый экземпляр DailyHandler.
func NewDailyHandler(daily usecase.DailyUseCase, export usecase.ExportUseCase, logger *slog.Logger) *DailyHandler {
	return &DailyHandler{dailyUseCase: daily, exportUseCase: export, logger: logger}
}

// GetDailyData — задачи, рефлексия, оценка энергии и статистика за день (?date=, по умолчанию сегодня).
func (h *DailyHandler) GetDailyData(w http.ResponseWriter, r *http.Request) {
	date, err := queryDate(r, "date")
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	data, err := h.dailyUseCase.GetDailyData(r.Context(), pathUsername(r), date)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, data, h.logger)
}

func (h *DailyHandler) GetDailyRange(w http.ResponseWriter, r *http.Request) {
	start, end, err := requiredRange(r)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	days, err := h.dailyUseCase.GetDailyRange(r.Context(), pathUsername(r), start, end)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, days, h.logger)
}

func (h *DailyHandler) ActiveDates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.dailyUseCase.ActiveDates(r.Context(), pathUsername(r))
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, dates, h.logger)
}

// ExportRange выгружает данные за startDate..endDate в объектное хранилище.
func (h *DailyHandler) ExportRange(w http.ResponseWriter, r *http.Request) {
	start, end, err := requiredRange(r)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}

	username := pathUsername(r)
	h.logger.Info("processing request", "endpoint", "ExportRange", "username", username,
		"start_date", start, "end_date", end)

	res, err := h.exportUseCase.ExportRange(r.Context(), username, start, end)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusCreated, res, h.logger)
}
