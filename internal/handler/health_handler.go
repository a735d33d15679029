package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger проверяет доступность базы данных.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler отвечает на проверки живости.
type HealthHandler struct {
	db     Pinger
	logger *slog.Logger
}

func NewHealthHandler(db Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

type healthResponse struct {
	Status   string    `json:"status"`
	Database string    `json:"database"`
	Time     time.Time `json:"time"`
}

// Health — 200, если база отвечает на ping, иначе 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "UP", Database: "UP", Time: time.Now().UTC()}
	code := http.StatusOK
	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error("database ping failed", "error", err)
		resp.Status, resp.Database = "DOWN", "DOWN"
		code = http.StatusServiceUnavailable
	}
	respondWithJSON(w, code, resp, h.logger)
}
