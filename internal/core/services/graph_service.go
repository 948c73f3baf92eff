package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/ports"
)

// GraphService toggles the two-sided relationships: user<->user follows and
// post<->user likes.
type GraphService struct {
	users     ports.UserRepository
	posts     ports.PostRepository
	tx        ports.Transactor
	notifier  *Notifier
	publisher ports.EventPublisher
}

func NewGraphService(
	users ports.UserRepository,
	posts ports.PostRepository,
	tx ports.Transactor,
	notifier *Notifier,
	pub ports.EventPublisher,
) *GraphService {
	return &GraphService{
		users:     users,
		posts:     posts,
		tx:        tx,
		notifier:  notifier,
		publisher: pub,
	}
}

// ToggleFollow follows target, or unfollows it when the actor already does.
func (s *GraphService) ToggleFollow(ctx context.Context, actorID, targetID string) (*ports.FollowResult, error) {
	if actorID == targetID {
		return nil, domain.ErrSelfFollow
	}

	if _, err := s.users.GetByID(ctx, targetID); err != nil {
		return nil, err
	}
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	// 1. Unfollow branch (no notification)
	if actor.IsFollowing(targetID) {
		err := s.applyPair(ctx, "unfollow", actorID, targetID,
			func(ctx context.Context) error {
				return s.users.PullFromSet(ctx, targetID, domain.SetFollowers, actorID)
			},
			func(ctx context.Context) error {
				return s.users.PullFromSet(ctx, actorID, domain.SetFollowing, targetID)
			},
		)
		if err != nil {
			return nil, err
		}
		s.publishFollow(ctx, actorID, targetID, false)
		return &ports.FollowResult{Following: false}, nil
	}

	// 2. Follow branch
	err = s.applyPair(ctx, "follow", actorID, targetID,
		func(ctx context.Context) error {
			return s.users.AddToSet(ctx, targetID, domain.SetFollowers, actorID)
		},
		func(ctx context.Context) error {
			return s.users.AddToSet(ctx, actorID, domain.SetFollowing, targetID)
		},
	)
	if err != nil {
		return nil, err
	}

	s.notifier.EmitBestEffort(ctx, actorID, targetID, domain.NotificationFollow)
	s.publishFollow(ctx, actorID, targetID, true)
	return &ports.FollowResult{Following: true}, nil
}

// ToggleLike likes the post, or unlikes it when already liked, and returns
// the resulting like set.
func (s *GraphService) ToggleLike(ctx context.Context, actorID, postID string) ([]string, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.LikedBy(actorID) {
		err := s.applyPair(ctx, "unlike", actorID, postID,
			func(ctx context.Context) error { return s.posts.RemoveLike(ctx, postID, actorID) },
			func(ctx context.Context) error {
				return s.users.PullFromSet(ctx, actorID, domain.SetLikedPosts, postID)
			},
		)
		if err != nil {
			return nil, err
		}
		return slices.DeleteFunc(slices.Clone(post.Likes), func(id string) bool { return id == actorID }), nil
	}

	err = s.applyPair(ctx, "like", actorID, postID,
		func(ctx context.Context) error { return s.posts.AddLike(ctx, postID, actorID) },
		func(ctx context.Context) error {
			return s.users.AddToSet(ctx, actorID, domain.SetLikedPosts, postID)
		},
	)
	if err != nil {
		return nil, err
	}

	// Self likes are recorded, the notifier drops the notification.
	s.notifier.EmitBestEffort(ctx, actorID, post.AuthorID, domain.NotificationLike)
	return append(slices.Clone(post.Likes), actorID), nil
}

// applyPair runs the target-side write then the actor-side write. Without an
// atomic transactor a failure of the second step leaves the first one applied:
// it is logged and reported as ErrInconsistentRelation.
func (s *GraphService) applyPair(ctx context.Context, op, actorID, subjectID string, first, second func(ctx context.Context) error) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := first(ctx); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if err := second(ctx); err != nil {
			if s.tx.Atomic() {
				return fmt.Errorf("%s: %w", op, err)
			}
			slog.Error("Relationship left half-applied",
				"op", op, "actor_id", actorID, "subject_id", subjectID, "error", err)
			return fmt.Errorf("%s: %w: %w", op, domain.ErrInconsistentRelation, err)
		}
		return nil
	})
}

func (s *GraphService) publishFollow(ctx context.Context, actorID, targetID string, following bool) {
	if err := s.publisher.PublishFollowChanged(ctx, actorID, targetID, following); err != nil {
		slog.Warn("Follow event not published", "actor_id", actorID, "target_id", targetID, "error", err)
	}
}
