package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"evdash/backend/services/stations-api/internal/models"
)

func newAuthService() (*AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewAuthService(repo, plainHasher{}, NewTokenService("secret", time.Hour), zap.NewNop()), repo
}

func TestValidateCredentials(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"valid", "ana_01", "secret1", false},
		{"short username", "ab", "secret1", true},
		{"bad characters", "ana-01", "secret1", true},
		{"short password", "ana_01", "12345", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCredentials(tt.username, tt.password)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateCredentials() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "operador", "senha123", "")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if user.Role != models.RoleUser {
		t.Errorf("role = %q, want user", user.Role)
	}

	if _, err := svc.Register(ctx, "operador", "senha123", ""); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("duplicate Register() error = %v, want ErrUsernameTaken", err)
	}

	token, got, err := svc.Login(ctx, "operador", "senha123")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if got.ID != user.ID || token == "" {
		t.Errorf("Login() = %q, %+v", token, got)
	}

	if _, _, err := svc.Login(ctx, "operador", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() wrong password error = %v", err)
	}
	if _, _, err := svc.Login(ctx, "ghost", "senha123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() unknown user error = %v", err)
	}

	authed, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate() error: %v", err)
	}
	if authed.Username != "operador" {
		t.Errorf("Authenticate() username = %q", authed.Username)
	}
	if _, err := svc.Authenticate(ctx, "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Authenticate() garbage error = %v", err)
	}
}

func TestEnsureUserResetsPassword(t *testing.T) {
	svc, repo := newAuthService()
	ctx := context.Background()

	if _, err := svc.EnsureUser(ctx, "admin", "admin123", models.RoleAdmin); err != nil {
		t.Fatalf("EnsureUser() create error: %v", err)
	}
	if _, err := svc.EnsureUser(ctx, "admin", "novasenha", models.RoleAdmin); err != nil {
		t.Fatalf("EnsureUser() update error: %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("users = %d, want 1", len(repo.users))
	}
	if _, _, err := svc.Login(ctx, "admin", "novasenha"); err != nil {
		t.Errorf("Login() after reset: %v", err)
	}
}
