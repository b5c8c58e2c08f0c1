package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/myhome/myhome-service/internal/config"
	"github.com/myhome/myhome-service/internal/events"
)

// NotificationService turns account events into (stubbed) e-mail and webhook notifications.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserCreated, n.handleUserCreated)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	n.dispatcher.Subscribe(events.EventPasswordChanged, n.handlePasswordChanged)
	n.dispatcher.Subscribe(events.EventEmailConfirmRequested, n.handleEmailConfirmRequested)
	n.dispatcher.Subscribe(events.EventEmailConfirmed, n.handleEmailConfirmed)
}

func (n *NotificationService) handleUserCreated(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.UserCreatedPayload)
	n.logger.Info("UserCreated", zap.String("user_id", event.UserID))
	n.sendEmailNotificationStub(ctx, event, payload.Email)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.PasswordResetRequestedPayload)
	n.logger.Info("PasswordResetRequested",
		zap.String("user_id", event.UserID),
		zap.Time("expires_at", payload.ExpiresAt))
	n.sendEmailNotificationStub(ctx, event, payload.Email)
	return nil
}

func (n *NotificationService) handlePasswordChanged(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.PasswordChangedPayload)
	n.logger.Info("PasswordChanged", zap.String("user_id", event.UserID))
	n.sendEmailNotificationStub(ctx, event, payload.Email)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleEmailConfirmRequested(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.EmailConfirmRequestedPayload)
	n.logger.Info("EmailConfirmRequested",
		zap.String("user_id", event.UserID),
		zap.Time("expires_at", payload.ExpiresAt))
	n.sendEmailNotificationStub(ctx, event, payload.Email)
	return nil
}

func (n *NotificationService) handleEmailConfirmed(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.EmailConfirmedPayload)
	n.logger.Info("EmailConfirmed", zap.String("user_id", event.UserID))
	n.sendEmailNotificationStub(ctx, event, payload.Email)
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event, to string) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || to == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
}
