package worker

import (
	"github.com/spec-kit/helpdesk-request/internal/events"
	"github.com/spec-kit/helpdesk-request/internal/service"
)

// StartEventSubscribers attaches the notification stubs and, when Redis is
// configured, the event fan-out publisher to the dispatcher.
func StartEventSubscribers(dispatcher events.Dispatcher, notifications *service.NotificationService, publisher *events.RedisPublisher) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	publisher.Register(dispatcher)
}
