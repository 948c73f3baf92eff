package services

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/ports"
)

// FeedService composes the post listings and owns the post write paths
// (create, comment, delete) with their mention fan-out.
type FeedService struct {
	posts    ports.PostRepository
	users    ports.UserRepository
	assets   ports.AssetHost
	mentions *MentionResolver
	notifier *Notifier
	hydrator hydrator
}

func NewFeedService(
	posts ports.PostRepository,
	users ports.UserRepository,
	assets ports.AssetHost,
	mentions *MentionResolver,
	notifier *Notifier,
) *FeedService {
	return &FeedService{
		posts:    posts,
		users:    users,
		assets:   assets,
		mentions: mentions,
		notifier: notifier,
		hydrator: hydrator{users: users},
	}
}

// --- QUERIES (Read) ---

func (s *FeedService) ListAll(ctx context.Context) ([]*domain.PostView, error) {
	return s.list(ctx, domain.PostFilter{NewestFirst: true})
}

func (s *FeedService) ListByAuthor(ctx context.Context, username string) ([]*domain.PostView, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, domain.PostFilter{AuthorIDs: []string{user.ID}, NewestFirst: true})
}

// ListLiked keeps the store's default order.
func (s *FeedService) ListLiked(ctx context.Context, userID string) ([]*domain.PostView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, domain.PostFilter{IDs: nonNil(user.LikedPosts)})
}

func (s *FeedService) ListFollowingFeed(ctx context.Context, userID string) ([]*domain.PostView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, domain.PostFilter{AuthorIDs: nonNil(user.Following), NewestFirst: true})
}

func (s *FeedService) list(ctx context.Context, filter domain.PostFilter) ([]*domain.PostView, error) {
	if filter.Empty() {
		return []*domain.PostView{}, nil
	}
	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.hydrator.posts(ctx, posts)
}

// --- COMMANDS (Write) ---

func (s *FeedService) CreatePost(ctx context.Context, cmd ports.CreatePostCmd) (*domain.Post, error) {
	// 1. Validation before any side effect
	if strings.TrimSpace(cmd.Text) == "" && strings.TrimSpace(cmd.Img) == "" {
		return nil, domain.ErrEmptyPost
	}
	if _, err := s.users.GetByID(ctx, cmd.AuthorID); err != nil {
		return nil, err
	}

	// 2. The image URL must be known before the post is saved
	var imgURL string
	if strings.TrimSpace(cmd.Img) != "" {
		url, err := s.assets.Upload(ctx, cmd.Img)
		if err != nil {
			return nil, err
		}
		imgURL = url
	}

	post, err := domain.NewPost(cmd.AuthorID, cmd.Text, imgURL)
	if err != nil {
		return nil, err
	}

	// 3. Source of truth
	if err := s.posts.Create(ctx, post); err != nil {
		s.discardAsset(ctx, imgURL)
		return nil, err
	}

	// 4. Fan-out, never fails the request once the post is saved
	s.notifyMentions(ctx, cmd.AuthorID, cmd.Text)

	slog.Debug("Post created", "post_id", post.ID, "author_id", post.AuthorID)
	return post, nil
}

func (s *FeedService) AddComment(ctx context.Context, postID, authorID, text string) ([]domain.CommentView, error) {
	comment, err := domain.NewComment(authorID, text)
	if err != nil {
		return nil, err
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	if err := s.posts.AppendComment(ctx, postID, comment); err != nil {
		return nil, err
	}

	s.notifyMentions(ctx, authorID, text)

	updated, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.hydrator.comments(ctx, updated.Comments)
}

func (s *FeedService) DeletePost(ctx context.Context, postID, requesterID string) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != requesterID {
		return domain.ErrNotPostAuthor
	}

	if post.Img != "" {
		if err := s.assets.Destroy(ctx, domain.AssetIDFromURL(post.Img)); err != nil {
			return err
		}
	}

	return s.posts.Delete(ctx, postID)
}

// --- HELPERS ---

func (s *FeedService) notifyMentions(ctx context.Context, actorID, text string) {
	ids, err := s.mentions.Resolve(ctx, actorID, text)
	if err != nil {
		slog.Warn("Mention resolution incomplete", "actor_id", actorID, "error", err)
	}
	for _, id := range ids {
		s.notifier.EmitBestEffort(ctx, actorID, id, domain.NotificationMention)
	}
}

// discardAsset removes an upload whose post could not be saved.
func (s *FeedService) discardAsset(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.assets.Destroy(ctx, domain.AssetIDFromURL(url)); err != nil {
		slog.Warn("Orphan asset left on host", "url", url, "error", err)
	}
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return slices.Clone(ids)
}
