package services

import (
	"context"
	"fmt"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/ports"
)

// hydrator resolves author ids into public summaries with one batch lookup
// per call.
type hydrator struct {
	users ports.UserRepository
}

func (h hydrator) summaries(ctx context.Context, ids []string) (map[string]domain.UserSummary, error) {
	out := make(map[string]domain.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	users, err := h.users.GetByIDs(ctx, uniq(ids))
	if err != nil {
		return nil, fmt.Errorf("load authors: %w", err)
	}
	for _, u := range users {
		out[u.ID] = u.Summary()
	}
	return out, nil
}

func (h hydrator) posts(ctx context.Context, posts []*domain.Post) ([]*domain.PostView, error) {
	var ids []string
	for _, p := range posts {
		ids = append(ids, p.AuthorID)
		for _, c := range p.Comments {
			ids = append(ids, c.AuthorID)
		}
	}

	summaries, err := h.summaries(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]*domain.PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, &domain.PostView{
			ID:        p.ID,
			Author:    summaryOf(summaries, p.AuthorID),
			Text:      p.Text,
			Img:       p.Img,
			Likes:     p.Likes,
			Comments:  commentViews(summaries, p.Comments),
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}
	return views, nil
}

func (h hydrator) comments(ctx context.Context, comments []domain.Comment) ([]domain.CommentView, error) {
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.AuthorID)
	}
	summaries, err := h.summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	return commentViews(summaries, comments), nil
}

func commentViews(summaries map[string]domain.UserSummary, comments []domain.Comment) []domain.CommentView {
	views := make([]domain.CommentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, domain.CommentView{
			ID:        c.ID,
			Author:    summaryOf(summaries, c.AuthorID),
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	return views
}

// summaryOf falls back to a bare id when the account no longer exists.
func summaryOf(summaries map[string]domain.UserSummary, id string) domain.UserSummary {
	if s, ok := summaries[id]; ok {
		return s
	}
	return domain.UserSummary{ID: id}
}

func uniq(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func toSummaries(users []*domain.User) []domain.UserSummary {
	out := make([]domain.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out
}
