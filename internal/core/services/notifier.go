package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/ports"
)

// Notifier records one notification per triggering action.
type Notifier struct {
	repo      ports.NotificationRepository
	counter   ports.UnreadCounter
	publisher ports.EventPublisher
}

func NewNotifier(repo ports.NotificationRepository, counter ports.UnreadCounter, pub ports.EventPublisher) *Notifier {
	return &Notifier{repo: repo, counter: counter, publisher: pub}
}

// Emit stores a notification from -> to. Self notifications are suppressed
// for every type. Only the store write can fail the call; the unread counter
// and the broker are best effort.
func (n *Notifier) Emit(ctx context.Context, from, to string, t domain.NotificationType) error {
	if from == to {
		return nil
	}

	notif := domain.NewNotification(from, to, t)
	if err := n.repo.Create(ctx, notif); err != nil {
		return fmt.Errorf("create %s notification: %w", t, err)
	}

	if err := n.counter.Increment(ctx, to); err != nil {
		slog.Warn("Unread counter not incremented", "user_id", to, "error", err)
	}
	if err := n.publisher.PublishNotificationCreated(ctx, notif); err != nil {
		slog.Warn("Notification event not published", "notification_id", notif.ID, "error", err)
	}
	return nil
}

// EmitBestEffort is used once the primary write is committed: a failure is
// logged and never reaches the caller.
func (n *Notifier) EmitBestEffort(ctx context.Context, from, to string, t domain.NotificationType) {
	if err := n.Emit(ctx, from, to, t); err != nil {
		slog.Warn("Notification dropped", "type", t, "from", from, "to", to, "error", err)
	}
}
