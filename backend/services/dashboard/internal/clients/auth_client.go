package clients

import (
	"context"
	"net/http"

	"evdash/backend/services/dashboard/internal/models"
)

// AuthClient calls the /auth endpoints.
type AuthClient struct {
	base *BaseClient
}

// NewAuthClient returns client.
func NewAuthClient(base *BaseClient) *AuthClient {
	return &AuthClient{base: base}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token.
func (c *AuthClient) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := c.base.Do(ctx, http.MethodPost, "/auth/login", nil, credentials{username, password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account with the user role.
func (c *AuthClient) Register(ctx context.Context, username, password string) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.base.Do(ctx, http.MethodPost, "/auth/register", nil, credentials{username, password}, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Permissions returns the capability flags of the token's user.
func (c *AuthClient) Permissions(ctx context.Context) (*models.PermissionsResponse, error) {
	var out models.PermissionsResponse
	if err := c.base.Do(ctx, http.MethodGet, "/auth/permissions", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
