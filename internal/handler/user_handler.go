package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/DailyTrack/internal/usecase"
	"github.com/GoArmGo/DailyTrack/internal/validation"
)

// UserHandler — обработчик HTTP-запросов для работы с пользователями.
type UserHandler struct {
	userUseCase usecase.UserUseCase
	validator   *validation.Validator
	logger      *slog.Logger
}

// NewUserHandler создаёт новый экземпляр UserHandler.
func NewUserHandler(uc usecase.UserUseCase, v *validation.Validator, logger *slog.Logger) *UserHandler {
	return &UserHandler{userUseCase: uc, validator: v, logger: logger}
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}

	user, err := h.userUseCase.CreateUser(r.Context(), req.Username)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}

	h.logger.Info("user created", "username", user.Username, "user_id", user.ID)
	respondWithJSON(w, http.StatusCreated, user, h.logger)
}

// ListUsers — все пользователи или поиск по подстроке (?search=).
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userUseCase.ListUsers(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, users, h.logger)
}

func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	user, err := h.userUseCase.GetUserByID(r.Context(), id)
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user, h.logger)
}

func (h *UserHandler) GetUserByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := h.userUseCase.GetUserByUsername(r.Context(), pathUsername(r))
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user, h.logger)
}

func (h *UserHandler) UserExists(w http.ResponseWriter, r *http.Request) {
	exists, err := h.userUseCase.ExistsByUsername(r.Context(), pathUsername(r))
	if err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, exists, h.logger)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	username := pathUsername(r)
	if err := h.userUseCase.DeleteUser(r.Context(), username); err != nil {
		respondWithErr(w, r, err, h.logger)
		return
	}
	h.logger.Info("user deleted", "username", username)
	w.WriteHeader(http.StatusNoContent)
}
