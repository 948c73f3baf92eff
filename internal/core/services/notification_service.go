package services

import (
	"context"
	"log/slog"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/ports"
)

type NotificationService struct {
	repo     ports.NotificationRepository
	counter  ports.UnreadCounter
	hydrator hydrator
}

func NewNotificationService(repo ports.NotificationRepository, counter ports.UnreadCounter, users ports.UserRepository) *NotificationService {
	return &NotificationService{repo: repo, counter: counter, hydrator: hydrator{users: users}}
}

// List returns the inbox as it was before reading it, then marks it read.
func (s *NotificationService) List(ctx context.Context, userID string) ([]*domain.NotificationView, error) {
	items, err := s.repo.ListFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		slog.Warn("Failed to mark notifications read", "user_id", userID, "error", err)
	}
	if err := s.counter.Reset(ctx, userID); err != nil {
		slog.Warn("Failed to reset unread counter", "user_id", userID, "error", err)
	}

	senders := make([]string, 0, len(items))
	for _, n := range items {
		senders = append(senders, n.From)
	}
	summaries, err := s.hydrator.summaries(ctx, senders)
	if err != nil {
		return nil, err
	}

	views := make([]*domain.NotificationView, 0, len(items))
	for _, n := range items {
		views = append(views, &domain.NotificationView{
			ID:        n.ID,
			From:      summaryOf(summaries, n.From),
			To:        n.To,
			Type:      n.Type,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return views, nil
}

func (s *NotificationService) DeleteAll(ctx context.Context, userID string) error {
	if err := s.repo.DeleteAllFor(ctx, userID); err != nil {
		return err
	}
	if err := s.counter.Reset(ctx, userID); err != nil {
		slog.Warn("Failed to reset unread counter", "user_id", userID, "error", err)
	}
	return nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.counter.Get(ctx, userID)
}
