package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"evdash/backend/libs/httpx"
	"evdash/backend/services/stations-api/internal/models"
	"evdash/backend/services/stations-api/internal/service"
)

type contextKey string

const userKey contextKey = "user"

// Authenticator resolves a bearer token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// BearerToken extracts the token from an Authorization header. A bare token without the
// "Bearer" scheme is accepted as well.
func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return header
}

// RequireUser rejects requests without a valid token and stores the user in the context.
func RequireUser(auth Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := authenticate(w, r, auth, logger)
			if !ok {
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}

// RequireAdmin is RequireUser plus an admin role check.
func RequireAdmin(auth Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := authenticate(w, r, auth, logger)
			if !ok {
				return
			}
			if !user.IsAdmin() {
				logger.Warn("non-admin attempted station mutation",
					zap.Int64("user_id", user.ID),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
				)
				httpx.WriteError(w, http.StatusForbidden, "Insufficient permissions", "Only administrators can perform this action")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}

func authenticate(w http.ResponseWriter, r *http.Request, auth Authenticator, logger *zap.Logger) (*models.User, bool) {
	token := BearerToken(r)
	if token == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "Authentication required", "Please provide a valid authentication token")
		return nil, false
	}
	user, err := auth.Authenticate(r.Context(), token)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidToken) {
			logger.Error("failed to authenticate request", zap.Error(err))
		}
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid authentication token", "The provided token is invalid or has expired")
		return nil, false
	}
	return user, true
}

// UserFromContext retrieves the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userKey).(*models.User)
	return user, ok && user != nil
}
