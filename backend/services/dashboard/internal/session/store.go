package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"evdash/backend/services/dashboard/internal/clients"
	"evdash/backend/services/dashboard/internal/models"
)

// Fallback messages when the API gives none.
const (
	LoginFailed        = "Login failed"
	RegistrationFailed = "Registration failed"
	PasswordsMismatch  = "Passwords do not match"
)

// Result is the outcome of Login and Register.
type Result struct {
	Success bool
	Message string
}

// Store holds the current user and token and keeps them in Storage.
type Store struct {
	api     *clients.Client
	storage Storage
	logger  *zap.Logger

	token    string
	username string
	role     string
}

// NewStore returns a signed-out Store. api must be unauthenticated.
func NewStore(api *clients.Client, storage Storage, logger *zap.Logger) *Store {
	return &Store{api: api, storage: storage, logger: logger}
}

// Restore rebuilds the session from storage. A missing token leaves it signed out.
func (s *Store) Restore(ctx context.Context) error {
	values, err := s.storage.Load(ctx)
	if err != nil {
		return err
	}
	s.token = values[KeyToken]
	if s.token == "" {
		s.username, s.role = "", ""
		return nil
	}
	s.username = values[KeyUsername]
	s.role = values[KeyRole]
	return nil
}

// Login authenticates against the API and persists the session on success.
func (s *Store) Login(ctx context.Context, username, password string) Result {
	resp, err := s.api.Login(ctx, username, password)
	if err != nil {
		s.logger.Warn("login failed", zap.String("username", username), zap.Error(err))
		return Result{Success: false, Message: clients.MessageOf(err, LoginFailed)}
	}

	values := map[string]string{
		KeyToken:    resp.Token,
		KeyUsername: resp.User.Username,
		KeyRole:     resp.User.Role,
	}
	if err := s.storage.Save(ctx, values); err != nil {
		s.logger.Error("failed to persist session", zap.Error(err))
		return Result{Success: false, Message: LoginFailed}
	}

	s.token = resp.Token
	s.username = resp.User.Username
	s.role = resp.User.Role
	s.logger.Info("user logged in", zap.String("username", s.username), zap.String("role", s.role))
	return Result{Success: true, Message: resp.Message}
}

// Register creates an account. It never signs the user in.
func (s *Store) Register(ctx context.Context, username, password string) Result {
	if _, err := s.api.Register(ctx, username, password); err != nil {
		s.logger.Warn("registration failed", zap.String("username", username), zap.Error(err))
		return Result{Success: false, Message: clients.MessageOf(err, RegistrationFailed)}
	}
	return Result{Success: true, Message: "Registration successful! You can now login."}
}

// CheckConfirmation compares the password with its confirmation field.
func CheckConfirmation(password, confirm string) Result {
	if password != confirm {
		return Result{Success: false, Message: PasswordsMismatch}
	}
	return Result{Success: true}
}

// Logout forgets the session in memory and in storage.
func (s *Store) Logout(ctx context.Context) error {
	if s.username != "" {
		s.logger.Info("user logged out", zap.String("username", s.username))
	}
	s.token, s.username, s.role = "", "", ""
	if err := s.storage.Clear(ctx); err != nil {
		return fmt.Errorf("session: clear storage: %w", err)
	}
	return nil
}

// Authenticated reports whether a token is held.
func (s *Store) Authenticated() bool {
	return s.token != ""
}

// Username returns the signed-in username.
func (s *Store) Username() string { return s.username }

// Role returns the signed-in user's role.
func (s *Store) Role() string { return s.role }

// IsAdmin reports whether the stored role is admin.
func (s *Store) IsAdmin() bool { return s.role == models.RoleAdmin }

// Client returns an API client carrying the current token, or none when signed out.
func (s *Store) Client() *clients.Client {
	return s.api.WithToken(s.token)
}
