package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"evdash/backend/libs/httpx"
	"evdash/backend/services/stations-api/internal/http/middleware"
	"evdash/backend/services/stations-api/internal/models"
	"evdash/backend/services/stations-api/internal/service"
)

// AuthService is the subset of service.AuthService used by the handlers.
type AuthService interface {
	Register(ctx context.Context, username, password, role string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, *models.User, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthHandler serves the /auth endpoints.
type AuthHandler struct {
	svc      AuthService
	maxBytes int64
	logger   *zap.Logger
}

// NewAuthHandler creates AuthHandler.
func NewAuthHandler(svc AuthService, maxBytes int64, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, maxBytes: maxBytes, logger: logger}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) decodeCredentials(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	var req credentials
	if err := httpx.DecodeJSON(r, h.maxBytes, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request", invalidJSONMessage)
		return req, false
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields", "Username and password are required")
		return req, false
	}
	return req, true
}

// Register handles POST /auth/register. New accounts always get the user role.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.svc.Register(r.Context(), req.Username, req.Password, models.RoleUser)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			writeError(w, http.StatusBadRequest, "Validation error", "Username already exists")
			return
		}
		if writeValidation(w, err) {
			return
		}
		h.logger.Error("registration failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Registration failed", "An unexpected error occurred during registration")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User created successfully",
		"user":    user,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	token, user, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Authentication failed", "Invalid username or password")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Login failed", "An unexpected error occurred during login")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// tokenUser resolves the caller for the token inspection endpoints.
func (h *AuthHandler) tokenUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	token := middleware.BearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Missing token", "Authorization token is required")
		return nil, false
	}
	user, err := h.svc.Authenticate(r.Context(), token)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidToken) {
			h.logger.Error("token lookup failed", zap.Error(err))
		}
		writeError(w, http.StatusUnauthorized, "Invalid token", "The provided token is invalid or has expired")
		return nil, false
	}
	return user, true
}

// Verify handles GET /auth/verify.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	user, ok := h.tokenUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Token is valid",
		"user":    user,
	})
}

// Profile handles GET /auth/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.tokenUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// Permissions handles GET /auth/permissions.
func (h *AuthHandler) Permissions(w http.ResponseWriter, r *http.Request) {
	user, ok := h.tokenUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"permissions": models.PermissionsFor(user),
		"role":        user.Role,
	})
}
