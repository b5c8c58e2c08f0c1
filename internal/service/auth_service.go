package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/myhome/myhome-service/internal/auth"
	"github.com/myhome/myhome-service/internal/config"
	"github.com/myhome/myhome-service/internal/domain"
	"github.com/myhome/myhome-service/internal/observability"
	"github.com/myhome/myhome-service/internal/repository"
)

// AuthService verifies login credentials and issues access tokens.
type AuthService struct {
	users   repository.UserRepository
	tokens  auth.TokenEncoder
	metrics *observability.Metrics
	logger  *zap.Logger
	ttl     time.Duration
	now     func() time.Time
}

// AuthDependencies encapsulates collaborators of the auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Tokens   auth.TokenEncoder
	Metrics  *observability.Metrics
	Logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:   deps.UserRepo,
		tokens:  deps.Tokens,
		metrics: deps.Metrics,
		logger:  logger,
		ttl:     cfg.TokenTTL,
		now:     time.Now,
	}
}

// Login checks secret against the credential stored for identifier and, on success, issues
// a token whose subject is identifier. An unknown identifier yields domain.ErrUserNotFound
// and a wrong secret domain.ErrCredentialsIncorrect.
func (s *AuthService) Login(ctx context.Context, identifier, secret string) (*domain.AuthenticationData, error) {
	user, err := s.users.GetByEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.metrics.RecordLogin(observability.LoginUnknownUser)
			return nil, domain.ErrUserNotFound
		}
		s.metrics.RecordLogin(observability.LoginError)
		return nil, fmt.Errorf("lookup credential: %w", err)
	}

	credential := user.Credential()
	if err := auth.ComparePassword(credential.PasswordHash, secret); err != nil {
		s.metrics.RecordLogin(observability.LoginWrongCredentials)
		s.logger.Debug("login rejected", zap.String("user_id", user.ID))
		return nil, domain.ErrCredentialsIncorrect
	}

	expiresAt := s.now().Add(s.ttl)
	token, err := s.tokens.Encode(identifier, expiresAt)
	if err != nil {
		s.metrics.RecordLogin(observability.LoginError)
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.metrics.RecordLogin(observability.LoginSucceeded)
	return &domain.AuthenticationData{
		Subject:   identifier,
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
