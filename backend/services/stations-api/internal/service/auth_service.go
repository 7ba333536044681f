package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"evdash/backend/services/stations-api/internal/models"
	"evdash/backend/services/stations-api/internal/password"
	"evdash/backend/services/stations-api/internal/repository"
)

var (
	// ErrUsernameTaken is returned when attempting to register a duplicate username.
	ErrUsernameTaken = errors.New("auth: username already exists")
	// ErrInvalidCredentials represents login failure.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrInvalidToken is returned for missing, malformed or expired tokens.
	ErrInvalidToken = errors.New("auth: invalid or expired token")
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

const (
	minUsernameLen = 3
	maxUsernameLen = 80
	minPasswordLen = 6
	maxPasswordLen = 128
)

// UserRepository defines storage contract used by the service.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, hash, role string) error
}

// AuthService contains registration, login and token verification logic.
type AuthService struct {
	repo      UserRepository
	hasher    password.Hasher
	tokenizer *TokenService
	logger    *zap.Logger
}

// NewAuthService builds AuthService.
func NewAuthService(repo UserRepository, hasher password.Hasher, tokenizer *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokenizer: tokenizer,
		logger:    logger,
	}
}

// ValidateCredentials checks username and password shape for registration.
func ValidateCredentials(username, pass string) error {
	var errs ValidationErrors
	switch {
	case username == "":
		errs.Add("username", "username is required")
	case len(username) < minUsernameLen || len(username) > maxUsernameLen:
		errs.Add("username", fmt.Sprintf("username must be between %d and %d characters", minUsernameLen, maxUsernameLen))
	case !usernamePattern.MatchString(username):
		errs.Add("username", "username may contain only letters, digits and underscores")
	}
	switch {
	case pass == "":
		errs.Add("password", "password is required")
	case len(pass) < minPasswordLen || len(pass) > maxPasswordLen:
		errs.Add("password", fmt.Sprintf("password must be between %d and %d characters", minPasswordLen, maxPasswordLen))
	}
	return errs.Err()
}

// Register creates a user with the given role; an empty role means models.RoleUser.
func (s *AuthService) Register(ctx context.Context, username, pass, role string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if err := ValidateCredentials(username, pass); err != nil {
		return nil, err
	}
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, fmt.Errorf("auth: unknown role %q", role)
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username), zap.String("role", role))
	return user, nil
}

// EnsureUser creates the user or resets its password and role. Used by the seed command.
func (s *AuthService) EnsureUser(ctx context.Context, username, pass, role string) (*models.User, error) {
	existing, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return s.Register(ctx, username, pass, role)
	}
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(pass)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePassword(ctx, existing.ID, hash, role); err != nil {
		return nil, err
	}
	existing.PasswordHash = hash
	existing.Role = role
	return existing, nil
}

// Login authenticates a user and produces a JWT.
func (s *AuthService) Login(ctx context.Context, username, pass string) (string, *models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || pass == "" {
		return "", nil, ErrInvalidCredentials
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := s.hasher.Compare(user.PasswordHash, pass); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokenizer.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("user logged in", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return token, user, nil
}

// Authenticate validates a bearer token and loads the user it names.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims, err := s.tokenizer.ValidateToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}
