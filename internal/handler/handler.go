package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/DailyTrack/internal/domain"
	"github.com/GoArmGo/DailyTrack/internal/usecase"
	"github.com/GoArmGo/DailyTrack/internal/validation"
)

// errorResponse — тело ответа с ошибкой.
type errorResponse struct {
	Timestamp        time.Time         `json:"timestamp"`
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	Path             string            `json:"path"`
	Rule             string            `json:"rule,omitempty"`
	ValidationErrors map[string]string `json:"validationErrors,omitempty"`
}

// respondWithJSON — отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload any, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

// respondWithError — отправляет JSON-ответ с ошибкой.
func respondWithError(w http.ResponseWriter, r *http.Request, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, errorResponse{
		Timestamp: time.Now().UTC(),
		Status:    code,
		Error:     http.StatusText(code),
		Message:   message,
		Path:      r.URL.Path,
	}, logger)
}

// respondWithErr переводит ошибку слоя usecase в HTTP-ответ.
// Неизвестные ошибки логируются целиком, клиент получает общее сообщение.
func respondWithErr(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	code := statusOf(err)
	body := errorResponse{
		Timestamp: time.Now().UTC(),
		Status:    code,
		Error:     http.StatusText(code),
		Path:      r.URL.Path,
		Rule:      domain.RuleOf(err),
	}

	var fields validation.FieldErrors
	switch {
	case errors.As(err, &fields):
		body.Message = "Validation failed"
		body.ValidationErrors = fields
	case code == http.StatusInternalServerError:
		body.Message = "An unexpected error occurred"
	case errors.Is(err, usecase.ErrExportsDisabled):
		body.Message = "Exports are not configured on this server"
	default:
		body.Message = domain.MessageOf(err)
		if body.Message == "" {
			body.Message = err.Error()
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", code,
			"error", err,
		)
	} else {
		logger.Warn("request rejected",
			"method", r.Method,
			"path", r.URL.Path,
			"status", code,
			"rule", body.Rule,
			"error", err,
		)
	}

	respondWithJSON(w, code, body, logger)
}

func statusOf(err error) int {
	var fields validation.FieldErrors
	switch {
	case errors.As(err, &fields):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateResource):
		return http.StatusConflict
	case errors.Is(err, domain.ErrBusinessRule), errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrExportsDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
