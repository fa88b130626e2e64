package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/charlesng35/sitecms/internal/auth"
	"github.com/charlesng35/sitecms/internal/models"
	"github.com/charlesng35/sitecms/pkg/logger"
	"github.com/charlesng35/sitecms/pkg/metrics"
	apperrors "github.com/charlesng35/sitecms/pkg/errors"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string       `json:"-"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// AuthService exchanges credentials for signed tokens.
type AuthService struct {
	authenticator *auth.LocalAuthenticator
	tokens        *auth.JWTService
	users         *UserService
	now           func() time.Time
	log           *zap.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(authenticator *auth.LocalAuthenticator, tokens *auth.JWTService, users *UserService, clock func() time.Time) (*AuthService, error) {
	if authenticator == nil {
		return nil, errors.New("auth service: authenticator is required")
	}
	if tokens == nil {
		return nil, errors.New("auth service: jwt service is required")
	}
	if users == nil {
		return nil, errors.New("auth service: user service is required")
	}
	if clock == nil {
		clock = time.Now
	}
	return &AuthService{
		authenticator: authenticator,
		tokens:        tokens,
		users:         users,
		now:           clock,
		log:           logger.WithModule("auth"),
	}, nil
}

// Login verifies credentials and issues a token. Every credential failure returns the same
// error so callers cannot tell an unknown email from a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	ctx = ensureContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.log.Info("login rejected", zap.String("email", email))
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.ErrInternalServer.WithInternal(err)
	}

	issuedAt := s.now()
	token, err := s.tokens.IssueToken(user)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("failure").Inc()
		return nil, apperrors.ErrInternalServer.WithInternal(err)
	}

	metrics.AuthAttempts.WithLabelValues("success").Inc()
	s.log.Info("login succeeded", zap.String("user_id", user.ID))
	return &LoginResult{
		Token:     token,
		ExpiresAt: issuedAt.Add(s.tokens.TTL()),
		User:      user,
	}, nil
}

// Me returns the account behind a verified token. A deleted account is unauthenticated.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.StatusCode == apperrors.ErrNotFound.StatusCode {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

// TokenTTL reports how long issued tokens stay valid.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokens.TTL()
}
