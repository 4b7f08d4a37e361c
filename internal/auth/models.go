package auth

import "time"

// Session is the server-side operator session. The browser only ever sees the
// signed session JWT; the upstream token pair never leaves the BFF.
type Session struct {
	ID           string    `json:"id"`
	AdminID      string    `json:"admin_id"`
	AdminName    string    `json:"admin_name"`
	AdminEmail   string    `json:"admin_email"`
	Role         string    `json:"role"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	CreatedAt    time.Time `json:"created_at"`
}

// LoginRequest is the dashboard login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SessionUser is the operator profile the dashboard renders
type SessionUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResult is the login response: a session token for the browser plus the
// operator profile
type LoginResult struct {
	SessionToken string      `json:"session_token"`
	User         SessionUser `json:"user"`
}
