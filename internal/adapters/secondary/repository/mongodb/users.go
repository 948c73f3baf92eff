package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
)

type UserRepo struct {
	coll *mongo.Collection
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	if _, err := r.coll.InsertOne(ctx, toUserDoc(user)); err != nil {
		return duplicateOr(err, "insert user")
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepo) GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *UserRepo) Update(ctx context.Context, user *domain.User) error {
	update := bson.M{"$set": bson.M{
		"username":       user.Username,
		"fullName":       user.FullName,
		"email":          user.Email,
		"password":       user.PasswordHash,
		"profileImg":     user.ProfileImg,
		"coverImg":       user.CoverImg,
		"bio":            user.Bio,
		"link":           user.Link,
		"sessionVersion": user.SessionVersion,
		"updatedAt":      user.UpdatedAt,
	}}
	res, err := r.coll.UpdateByID(ctx, user.ID, update)
	if err != nil {
		return duplicateOr(err, "update user")
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) AddToSet(ctx context.Context, userID string, set domain.UserSet, member string) error {
	return r.updateSet(ctx, userID, bson.M{"$addToSet": bson.M{string(set): member}})
}

func (r *UserRepo) PullFromSet(ctx context.Context, userID string, set domain.UserSet, member string) error {
	return r.updateSet(ctx, userID, bson.M{"$pull": bson.M{string(set): member}})
}

func (r *UserRepo) Search(ctx context.Context, query string, includeFullName bool, limit int) ([]*domain.User, error) {
	pattern := bson.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}

	filter := bson.M{"username": pattern}
	if includeFullName {
		filter = bson.M{"$or": bson.A{
			bson.M{"username": pattern},
			bson.M{"fullName": pattern},
		}}
	}
	opts := options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "username", Value: 1}})
	return r.find(ctx, filter, opts)
}

func (r *UserRepo) Sample(ctx context.Context, excludeID string, size int) ([]*domain.User, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": bson.M{"$ne": excludeID}}}},
		{{Key: "$sample", Value: bson.M{"size": size}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("mongo: sample users: %w", err)
	}
	return decodeUsers(ctx, cur)
}

// --- HELPERS ---

func (r *UserRepo) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("mongo: find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepo) find(ctx context.Context, filter bson.M, opts ...options.Lister[options.FindOptions]) ([]*domain.User, error) {
	cur, err := r.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("mongo: find users: %w", err)
	}
	return decodeUsers(ctx, cur)
}

func (r *UserRepo) updateSet(ctx context.Context, userID string, update bson.M) error {
	res, err := r.coll.UpdateByID(ctx, userID, update)
	if err != nil {
		return fmt.Errorf("mongo: update user set: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func decodeUsers(ctx context.Context, cur *mongo.Cursor) ([]*domain.User, error) {
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode users: %w", err)
	}
	users := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toDomain())
	}
	return users, nil
}

// duplicateOr traduit une violation d'index unique vers l'erreur domaine.
func duplicateOr(err error, op string) error {
	if mongo.IsDuplicateKeyError(err) {
		if strings.Contains(err.Error(), "email") {
			return domain.ErrEmailTaken
		}
		return domain.ErrUsernameTaken
	}
	return fmt.Errorf("mongo: %s: %w", op, err)
}
