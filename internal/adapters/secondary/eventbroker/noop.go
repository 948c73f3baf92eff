package eventbroker

import (
	"context"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
)

// NoopPublisher is wired when NATS_URL is empty.
type NoopPublisher struct{}

func (NoopPublisher) PublishNotificationCreated(context.Context, *domain.Notification) error {
	return nil
}

func (NoopPublisher) PublishFollowChanged(context.Context, string, string, bool) error {
	return nil
}
