package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/core/ports"
	"github.com/99minutos/club-admin/internal/metrics"
)

// sessionStore is the slice of the Store that authentication needs.
type sessionStore interface {
	FindUserByUsername(username string) (*domain.User, bool)
	CurrentUser() (*domain.User, bool)
	StartSession(ctx context.Context, userID string) error
	EndSession(ctx context.Context) error
}

// AuthService implements login, logout and bearer tokens for the single
// process-wide session.
type AuthService struct {
	store     sessionStore
	throttle  ports.LoginThrottle
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(store sessionStore, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{store: store, jwtSecret: jwtSecret, tokenTTL: tokenTTL, log: log}
}

// WithThrottle enables per-username login throttling.
func (s *AuthService) WithThrottle(t ports.LoginThrottle) *AuthService {
	s.throttle = t
	return s
}

// Login checks the credentials against the live user list. A mismatch is
// reported as false without saying which field was wrong; the error is
// reserved for throttling and persistence failures.
func (s *AuthService) Login(ctx context.Context, username, secret string) (bool, error) {
	if s.throttle != nil {
		if err := s.throttle.Check(ctx, username); err != nil {
			if errors.Is(err, domain.ErrTooManyAttempts) {
				metrics.LoginsTotal.WithLabelValues("throttled").Inc()
				return false, err
			}
			// throttle backend is down, let the attempt through
			s.log.Warn().Err(err).Msg("login throttle unavailable")
		}
	}

	user, ok := s.store.FindUserByUsername(username)
	if !ok || domain.Digest(secret) != user.PasswordHash {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return false, nil
	}

	if err := s.store.StartSession(ctx, user.ID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return false, nil
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return false, err
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, username); err != nil {
			s.log.Warn().Err(err).Msg("login throttle reset failed")
		}
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("session started")
	return true, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.store.EndSession(ctx)
}

func (s *AuthService) CurrentUser() (*domain.User, bool) {
	return s.store.CurrentUser()
}

// IssueToken signs an HS256 token naming the user.
func (s *AuthService) IssueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

// ParseToken verifies a token issued by IssueToken and returns its claims.
func (s *AuthService) ParseToken(raw string) (*ports.Claims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	sub, _ := mc["sub"].(string)
	username, _ := mc["username"].(string)
	role, _ := mc["role"].(string)
	if sub == "" || !domain.Role(role).Valid() {
		return nil, domain.ErrInvalidCredentials
	}
	return &ports.Claims{UserID: sub, Username: username, Role: domain.Role(role)}, nil
}
