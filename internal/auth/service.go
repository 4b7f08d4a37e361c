package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rafaelmedeirospb83/guimaps-admin/internal/upstream"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/config"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/logger"
	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/middleware"
)

// Service owns the operator session lifecycle
type Service struct {
	upstream   *upstream.Client
	store      *Store
	jwtSecret  string
	sessionTTL time.Duration
}

// NewService builds the auth service
func NewService(upstreamClient *upstream.Client, store *Store, cfg *config.SessionConfig) *Service {
	return &Service{
		upstream:   upstreamClient,
		store:      store,
		jwtSecret:  cfg.JWTSecret,
		sessionTTL: cfg.SessionTTL(),
	}
}

// Login authenticates upstream, opens a session holding the upstream token
// pair, and signs the session JWT the browser will carry
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	resp, err := s.upstream.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:           uuid.New().String(),
		AdminID:      resp.User.ID,
		AdminName:    resp.User.Name,
		AdminEmail:   resp.User.Email,
		Role:         resp.User.Role,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, common.NewTransportError("não foi possível criar a sessão", err)
	}

	token, err := s.signSessionToken(session)
	if err != nil {
		return nil, common.NewTransportError("não foi possível criar a sessão", err)
	}

	logger.WithContext(ctx).Info("operator logged in",
		zap.String("admin_id", session.AdminID),
		zap.String("session_id", session.ID),
	)

	return &LoginResult{
		SessionToken: token,
		User: SessionUser{
			ID:    resp.User.ID,
			Name:  resp.User.Name,
			Email: resp.User.Email,
			Role:  resp.User.Role,
		},
	}, nil
}

// Me proxies the operator profile for the session's upstream token
func (s *Service) Me(ctx context.Context, token string) (*SessionUser, error) {
	user, err := s.upstream.Me(ctx, token)
	if err != nil {
		return nil, err
	}
	return &SessionUser{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}, nil
}

// Refresh rotates the upstream token pair inside the session. The session JWT
// the browser holds stays valid.
func (s *Service) Refresh(ctx context.Context, sessionID string) error {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	resp, err := s.upstream.RefreshToken(ctx, session.RefreshToken)
	if err != nil {
		return err
	}

	session.AccessToken = resp.AccessToken
	if resp.RefreshToken != "" {
		session.RefreshToken = resp.RefreshToken
	}
	return s.store.Save(ctx, session)
}

// Logout destroys the session
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.store.Destroy(ctx, sessionID)
}

// Store exposes the session store for middleware wiring
func (s *Service) Store() *Store {
	return s.store
}

func (s *Service) signSessionToken(session *Session) (string, error) {
	now := time.Now()
	claims := middleware.SessionClaims{
		SessionID: session.ID,
		AdminID:   session.AdminID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
