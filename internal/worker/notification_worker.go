package worker

import (
	"go.uber.org/zap"

	"github.com/myhome/myhome-service/internal/config"
	"github.com/myhome/myhome-service/internal/events"
	"github.com/myhome/myhome-service/internal/service"
)

// StartNotificationWorker subscribes the notification handlers to dispatcher and returns
// the service so callers can hold on to it.
func StartNotificationWorker(dispatcher events.Dispatcher, cfg config.NotificationConfig, logger *zap.Logger) *service.NotificationService {
	if dispatcher == nil {
		return nil
	}
	notifications := service.NewNotificationService(dispatcher, logger.Named("notifications"), cfg)
	notifications.RegisterHandlers()
	return notifications
}
