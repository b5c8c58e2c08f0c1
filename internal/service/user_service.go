package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/myhome/myhome-service/internal/auth"
	"github.com/myhome/myhome-service/internal/config"
	"github.com/myhome/myhome-service/internal/domain"
	"github.com/myhome/myhome-service/internal/events"
	"github.com/myhome/myhome-service/internal/repository"
)

// UserService manages accounts and password recovery.
type UserService struct {
	users      repository.UserRepository
	tokens     repository.SecurityTokenRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	resetTTL   time.Duration
	confirmTTL time.Duration
	now        func() time.Time
}

// UserDependencies encapsulates collaborators of the user service.
type UserDependencies struct {
	UserRepo          repository.UserRepository
	SecurityTokenRepo repository.SecurityTokenRepository
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(cfg config.AuthConfig, deps UserDependencies) *UserService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		users:      deps.UserRepo,
		tokens:     deps.SecurityTokenRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		bcryptCost: cfg.BcryptCost,
		resetTTL:   cfg.PasswordResetTTL,
		confirmTTL: cfg.EmailConfirmTTL,
		now:        time.Now,
	}
}

// Register creates a new account and mails it a confirmation token. A taken e-mail yields
// domain.ErrEmailTaken. Failing to issue the token does not fail the signup; the user can
// ask for it again.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewEvent(events.EventUserCreated, user.ID, s.now(), events.UserCreatedPayload{
		Name:  user.Name,
		Email: user.Email,
	}))
	if err := s.issueEmailConfirm(ctx, user); err != nil {
		s.logger.Warn("issue email confirmation", zap.String("user_id", user.ID), zap.Error(err))
	}
	return user, nil
}

// ConfirmEmail marks the account confirmed when confirmToken was issued to userID and has
// not been used or expired.
func (s *UserService) ConfirmEmail(ctx context.Context, userID, confirmToken string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrConfirmTokenInvalid
		}
		return err
	}
	if user.EmailConfirmed {
		return domain.ErrEmailConfirmed
	}

	token, err := s.tokens.Get(ctx, domain.SecurityTokenTypeEmailConfirm, confirmToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrConfirmTokenInvalid
		}
		return err
	}
	if token.IsExpired(s.now()) || token.OwnerID != user.ID {
		return domain.ErrConfirmTokenInvalid
	}

	consumed, err := s.tokens.Consume(ctx, domain.SecurityTokenTypeEmailConfirm, confirmToken)
	if err != nil {
		return err
	}
	if !consumed {
		return domain.ErrConfirmTokenInvalid
	}

	user.EmailConfirmed = true
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.publish(ctx, events.NewEvent(events.EventEmailConfirmed, user.ID, s.now(), events.EmailConfirmedPayload{
		Email: user.Email,
	}))
	return nil
}

// ResendEmailConfirm issues a fresh confirmation token for an unconfirmed account.
func (s *UserService) ResendEmailConfirm(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
		}
		return err
	}
	if user.EmailConfirmed {
		return domain.ErrEmailConfirmed
	}
	return s.issueEmailConfirm(ctx, user)
}

func (s *UserService) issueEmailConfirm(ctx context.Context, user *domain.User) error {
	now := s.now()
	token := &domain.SecurityToken{
		Type:      domain.SecurityTokenTypeEmailConfirm,
		Token:     uuid.NewString(),
		OwnerID:   user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.confirmTTL),
	}
	if err := s.tokens.Save(ctx, token); err != nil {
		return fmt.Errorf("save confirm token: %w", err)
	}

	s.publish(ctx, events.NewEvent(events.EventEmailConfirmRequested, user.ID, now, events.EmailConfirmRequestedPayload{
		Email:     user.Email,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	}))
	return nil
}

// List returns one page of users.
func (s *UserService) List(ctx context.Context, page domain.PageRequest) ([]domain.User, domain.PageInfo, error) {
	page = page.Normalize()
	users, total, err := s.users.List(ctx, page)
	if err != nil {
		return nil, domain.PageInfo{}, err
	}
	return users, domain.NewPageInfo(page, total), nil
}

// GetDetails returns the user identified by userID, provided it is the caller's own account.
func (s *UserService) GetDetails(ctx context.Context, principal *auth.Principal, userID string) (*domain.User, error) {
	if principal == nil {
		return nil, domain.ErrForbidden
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
		}
		return nil, err
	}
	if user.Email != principal.Subject {
		return nil, domain.ErrForbidden
	}
	return user, nil
}

// RequestPasswordReset issues a reset token for email. It succeeds whether or not the
// address belongs to an account.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.Debug("password reset for unknown e-mail ignored")
			return nil
		}
		return err
	}

	now := s.now()
	token := &domain.SecurityToken{
		Type:      domain.SecurityTokenTypeResetPassword,
		Token:     uuid.NewString(),
		OwnerID:   user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.resetTTL),
	}
	if err := s.tokens.Save(ctx, token); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}

	s.publish(ctx, events.NewEvent(events.EventPasswordResetRequested, user.ID, now, events.PasswordResetRequestedPayload{
		Email:     user.Email,
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	}))
	return nil
}

// ResetPassword replaces the password of email when resetToken was issued to that account
// and has not been used or expired.
func (s *UserService) ResetPassword(ctx context.Context, email, resetToken, newPassword string) error {
	token, err := s.tokens.Get(ctx, domain.SecurityTokenTypeResetPassword, resetToken)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrResetTokenInvalid
		}
		return err
	}
	if token.IsExpired(s.now()) {
		return domain.ErrResetTokenInvalid
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrResetTokenInvalid
		}
		return err
	}
	if token.OwnerID != user.ID {
		return domain.ErrResetTokenInvalid
	}

	consumed, err := s.tokens.Consume(ctx, domain.SecurityTokenTypeResetPassword, resetToken)
	if err != nil {
		return err
	}
	if !consumed {
		return domain.ErrResetTokenInvalid
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.publish(ctx, events.NewEvent(events.EventPasswordChanged, user.ID, s.now(), events.PasswordChangedPayload{
		Email: user.Email,
	}))
	return nil
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
