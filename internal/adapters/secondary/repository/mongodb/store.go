// Package mongodb is the document Entity Store (default driver).
package mongodb

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	usersCollection         = "users"
	postsCollection         = "posts"
	notificationsCollection = "notifications"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Users() *UserRepo {
	return &UserRepo{coll: s.db.Collection(usersCollection)}
}

func (s *Store) Posts() *PostRepo {
	return &PostRepo{coll: s.db.Collection(postsCollection)}
}

func (s *Store) Notifications() *NotificationRepo {
	return &NotificationRepo{coll: s.db.Collection(notificationsCollection)}
}

// Transactor returns a session-backed transactor when transactions are
// enabled (replica set or sharded cluster), a pass-through one otherwise.
func (s *Store) Transactor(enabled bool) *Transactor {
	return &Transactor{client: s.client, enabled: enabled}
}

// EnsureIndexes crée les index uniques et ceux des requêtes de feed.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		postsCollection: {
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		},
		notificationsCollection: {
			{Keys: bson.D{{Key: "to", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}
	for coll, models := range specs {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", coll, err)
		}
	}
	return nil
}

type Transactor struct {
	client  *mongo.Client
	enabled bool
}

func (t *Transactor) Atomic() bool { return t.enabled }

func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if !t.enabled {
		return fn(ctx)
	}

	session, err := t.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongo session: %w", err)
	}
	defer session.EndSession(ctx)

	// Le ctx du callback porte la session : les repos y participent sans le savoir.
	_, err = session.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return nil, fn(ctx)
	})
	if err != nil {
		slog.Debug("Mongo transaction aborted", "error", err)
	}
	return err
}
