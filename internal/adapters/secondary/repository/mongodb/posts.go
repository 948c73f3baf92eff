package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
)

type PostRepo struct {
	coll *mongo.Collection
}

func (r *PostRepo) Create(ctx context.Context, post *domain.Post) error {
	if _, err := r.coll.InsertOne(ctx, toPostDoc(post)); err != nil {
		return fmt.Errorf("mongo: insert post: %w", err)
	}
	return nil
}

func (r *PostRepo) GetByID(ctx context.Context, id string) (*domain.Post, error) {
	var doc postDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("mongo: find post: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PostRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("mongo: delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

// List without NewestFirst keeps the natural order of the collection.
func (r *PostRepo) List(ctx context.Context, filter domain.PostFilter) ([]*domain.Post, error) {
	if filter.Empty() {
		return []*domain.Post{}, nil
	}

	query := bson.M{}
	if filter.AuthorIDs != nil {
		query["user"] = bson.M{"$in": filter.AuthorIDs}
	}
	if filter.IDs != nil {
		query["_id"] = bson.M{"$in": filter.IDs}
	}

	opts := options.Find()
	if filter.NewestFirst {
		opts.SetSort(bson.D{{Key: "createdAt", Value: -1}})
	}

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: find posts: %w", err)
	}
	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode posts: %w", err)
	}

	posts := make([]*domain.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, d.toDomain())
	}
	return posts, nil
}

func (r *PostRepo) AddLike(ctx context.Context, postID, userID string) error {
	return r.update(ctx, postID, bson.M{"$addToSet": bson.M{"likes": userID}})
}

func (r *PostRepo) RemoveLike(ctx context.Context, postID, userID string) error {
	return r.update(ctx, postID, bson.M{"$pull": bson.M{"likes": userID}})
}

func (r *PostRepo) AppendComment(ctx context.Context, postID string, c domain.Comment) error {
	return r.update(ctx, postID, bson.M{"$push": bson.M{"comments": toCommentDoc(c)}})
}

func (r *PostRepo) update(ctx context.Context, postID string, update bson.M) error {
	res, err := r.coll.UpdateByID(ctx, postID, update)
	if err != nil {
		return fmt.Errorf("mongo: update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}
