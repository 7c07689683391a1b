package worker

import (
	"go.uber.org/zap"

	"github.com/agencydesk/agency-tickets/internal/config"
	"github.com/agencydesk/agency-tickets/internal/events"
	"github.com/agencydesk/agency-tickets/internal/service"
)

// StartNotificationWorker builds the notification service and subscribes it
// to dispatcher. publisher may be nil, in which case events are only logged.
func StartNotificationWorker(dispatcher events.Dispatcher, publisher service.Publisher, logger *zap.Logger, cfg config.NotificationConfig) *service.NotificationService {
	if dispatcher == nil {
		return nil
	}
	notifications := service.NewNotificationService(dispatcher, publisher, logger.Named("notifications"), cfg)
	notifications.RegisterHandlers()
	logger.Info("notification worker started",
		zap.String("channel", cfg.Channel),
		zap.Bool("publisher_enabled", publisher != nil))
	return notifications
}
