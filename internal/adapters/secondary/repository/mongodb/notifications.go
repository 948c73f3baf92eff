package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
)

type NotificationRepo struct {
	coll *mongo.Collection
}

func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if _, err := r.coll.InsertOne(ctx, toNotificationDoc(n)); err != nil {
		return fmt.Errorf("mongo: insert notification: %w", err)
	}
	return nil
}

func (r *NotificationRepo) ListFor(ctx context.Context, userID string) ([]*domain.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"to": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: find notifications: %w", err)
	}

	var docs []notificationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode notifications: %w", err)
	}
	out := make([]*domain.Notification, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	_, err := r.coll.UpdateMany(ctx, bson.M{"to": userID, "read": false}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return fmt.Errorf("mongo: mark read: %w", err)
	}
	return nil
}

func (r *NotificationRepo) DeleteAllFor(ctx context.Context, userID string) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"to": userID}); err != nil {
		return fmt.Errorf("mongo: delete notifications: %w", err)
	}
	return nil
}
