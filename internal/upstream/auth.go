package upstream

import (
	"context"
)

// AdminUser is the authenticated operator as the core API describes them
type AdminUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginRequest carries operator credentials upstream
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the upstream token pair and the operator profile
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	User         AdminUser `json:"user"`
}

// RefreshResponse returns a rotated upstream token pair
type RefreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Login authenticates an operator against the core API. No token yet, so the
// bearer header is empty.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	req := LoginRequest{Email: email, Password: password}
	if err := c.post(ctx, "", "/api/v1/admin/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefreshToken exchanges a refresh token for a new upstream token pair
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	var resp RefreshResponse
	body := map[string]string{"refresh_token": refreshToken}
	if err := c.post(ctx, "", "/api/v1/auth/refresh", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me fetches the operator profile for the current token
func (c *Client) Me(ctx context.Context, token string) (*AdminUser, error) {
	var user AdminUser
	if err := c.get(ctx, token, "/api/v1/admin/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}
