package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/ports"
)

// MentionResolver maps the @handles of a text to user ids.
type MentionResolver struct {
	users ports.UserRepository
}

func NewMentionResolver(users ports.UserRepository) *MentionResolver {
	return &MentionResolver{users: users}
}

// Resolve returns the distinct ids of the users mentioned in text, minus the
// actor. Unknown handles are dropped. On a store failure the ids resolved so
// far are returned together with the error.
func (r *MentionResolver) Resolve(ctx context.Context, actorID, text string) ([]string, error) {
	handles := domain.ExtractHandles(text)
	if len(handles) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(handles))
	seen := make(map[string]struct{}, len(handles))
	for _, h := range handles {
		user, err := r.users.GetByUsername(ctx, h)
		if errors.Is(err, domain.ErrUserNotFound) {
			continue
		}
		if err != nil {
			return ids, fmt.Errorf("resolve @%s: %w", h, err)
		}
		if user.ID == actorID {
			continue
		}
		if _, ok := seen[user.ID]; ok {
			continue
		}
		seen[user.ID] = struct{}{}
		ids = append(ids, user.ID)
	}
	return ids, nil
}
