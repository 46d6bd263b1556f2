// internal/handlers/auth.go
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ammerola/pos-inventory/internal/core/ports"
)

// AuthHandler handles login and operator registration
type AuthHandler struct {
	service   ports.AuthService
	validator *Validator
	logger    *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(service ports.AuthService, v *Validator, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service:   service,
		validator: v,
		logger:    logger.With(slog.String("handler", "auth")),
	}
}

// LoginRequest is the body of POST /api/v1/auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest is the body of POST /api/v1/users
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=120"`
	Password string `json:"password" validate:"required,min=8"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(h.validator, r, w, &req); err != nil {
		respondServiceError(h.logger, w, r, "login", err)
		return
	}

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.WarnContext(r.Context(), "login failed",
			slog.String("email", req.Email),
			slog.String("error", err.Error()))
		respondServiceError(h.logger, w, r, "login", err)
		return
	}

	respondJSON(h.logger, w, http.StatusOK, session)
}

// Register handles POST /api/v1/users
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(h.validator, r, w, &req); err != nil {
		respondServiceError(h.logger, w, r, "register user", err)
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		respondServiceError(h.logger, w, r, "register user", err)
		return
	}

	h.logger.InfoContext(r.Context(), "user registered",
		slog.Int64("new_user_id", user.ID))

	respondJSON(h.logger, w, http.StatusCreated, user)
}
