package domain

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationFollow  NotificationType = "follow"
	NotificationLike    NotificationType = "like"
	NotificationMention NotificationType = "mention"
)

// Notification is a fact record: only Read ever changes after creation.
type Notification struct {
	ID        string
	From      string
	To        string
	Type      NotificationType
	Read      bool
	CreatedAt time.Time
}

type NotificationView struct {
	ID        string
	From      UserSummary
	To        string
	Type      NotificationType
	Read      bool
	CreatedAt time.Time
}

func NewNotification(from, to string, t NotificationType) *Notification {
	return &Notification{
		ID:        uuid.NewString(),
		From:      from,
		To:        to,
		Type:      t,
		CreatedAt: time.Now().UTC(),
	}
}
