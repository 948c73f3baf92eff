package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
)

type NotificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepo(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	q := `INSERT INTO notifications (id, from_id, to_id, type, read, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := conn(ctx, r.pool).Exec(ctx, q, n.ID, n.From, n.To, string(n.Type), n.Read, n.CreatedAt); err != nil {
		return fmt.Errorf("db: insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepo) ListFor(ctx context.Context, userID string) ([]*domain.Notification, error) {
	q := `
		SELECT id, from_id, to_id, type, read, created_at
		FROM notifications
		WHERE to_id = $1
		ORDER BY created_at DESC
	`
	rows, err := conn(ctx, r.pool).Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("db: list notifications: %w", err)
	}
	defer rows.Close()

	out := []*domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		var t string
		if err := rows.Scan(&n.ID, &n.From, &n.To, &t, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("db: scan notification: %w", err)
		}
		n.Type = domain.NotificationType(t)
		out = append(out, &n)
	}
	return out, rows.Err()
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	if _, err := conn(ctx, r.pool).Exec(ctx, `UPDATE notifications SET read = TRUE WHERE to_id = $1 AND NOT read`, userID); err != nil {
		return fmt.Errorf("db: mark read: %w", err)
	}
	return nil
}

func (r *NotificationRepo) DeleteAllFor(ctx context.Context, userID string) error {
	if _, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM notifications WHERE to_id = $1`, userID); err != nil {
		return fmt.Errorf("db: delete notifications: %w", err)
	}
	return nil
}
