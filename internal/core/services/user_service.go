package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/ports"
)

const (
	suggestionPool  = 10
	suggestionLimit = 4
	searchLimit     = 20
)

type UserService struct {
	users       ports.UserRepository
	assets      ports.AssetHost
	hasher      ports.PasswordHasher
	suggestions ports.SuggestionSource // nil: random sample from the store
}

func NewUserService(
	users ports.UserRepository,
	assets ports.AssetHost,
	hasher ports.PasswordHasher,
	suggestions ports.SuggestionSource,
) *UserService {
	return &UserService{users: users, assets: assets, hasher: hasher, suggestions: suggestions}
}

func (s *UserService) GetProfile(ctx context.Context, username string) (*domain.User, error) {
	return s.users.GetByUsername(ctx, username)
}

// Suggested returns up to four accounts the caller does not follow yet.
func (s *UserService) Suggested(ctx context.Context, userID string) ([]*domain.User, error) {
	me, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.candidates(ctx, me.ID)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.User, 0, suggestionLimit)
	for _, u := range candidates {
		if u.ID == me.ID || me.IsFollowing(u.ID) {
			continue
		}
		out = append(out, u)
		if len(out) == suggestionLimit {
			break
		}
	}
	return out, nil
}

func (s *UserService) candidates(ctx context.Context, userID string) ([]*domain.User, error) {
	if s.suggestions != nil {
		ids, err := s.suggestions.SuggestUserIDs(ctx, userID, suggestionPool)
		if err == nil && len(ids) > 0 {
			return s.users.GetByIDs(ctx, ids)
		}
		if err != nil {
			slog.Warn("Graph suggestions unavailable, sampling store", "user_id", userID, "error", err)
		}
	}
	return s.users.Sample(ctx, userID, suggestionPool)
}

func (s *UserService) UpdateProfile(ctx context.Context, cmd ports.UpdateProfileCmd) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}

	// 1. Credentials
	if (cmd.CurrentPassword == "") != (cmd.NewPassword == "") {
		return nil, domain.ErrPasswordPair
	}
	if cmd.NewPassword != "" {
		if err := s.hasher.Compare(user.PasswordHash, cmd.CurrentPassword); err != nil {
			return nil, domain.ErrWrongPassword
		}
		if len(cmd.NewPassword) < domain.MinPasswordLength {
			return nil, domain.ErrWeakPassword
		}
		hash, err := s.hasher.Hash(cmd.NewPassword)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	// 2. Unique handles
	if cmd.Username != nil {
		username := strings.TrimSpace(*cmd.Username)
		if username != user.Username {
			if len(username) < domain.MinUsernameLength {
				return nil, domain.ErrInvalidUsername
			}
			if err := ensureAbsent(ctx, s.users.GetByUsername, username, domain.ErrUsernameTaken); err != nil {
				return nil, err
			}
			user.Username = username
		}
	}
	if cmd.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*cmd.Email))
		if email != user.Email {
			if err := domain.ValidateEmail(email); err != nil {
				return nil, err
			}
			if err := ensureAbsent(ctx, s.users.GetByEmail, email, domain.ErrEmailTaken); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}

	// 3. Images: hosted now, the old ones are destroyed once the user is saved
	var staged []stagedAsset
	for _, img := range []struct {
		raw  string
		dest *string
	}{
		{cmd.ProfileImg, &user.ProfileImg},
		{cmd.CoverImg, &user.CoverImg},
	} {
		if img.raw == "" {
			continue
		}
		url, err := s.assets.Upload(ctx, img.raw)
		if err != nil {
			s.discardStaged(ctx, staged)
			return nil, err
		}
		staged = append(staged, stagedAsset{oldURL: *img.dest, newURL: url})
		*img.dest = url
	}

	// 4. Free-form fields
	if cmd.FullName != nil && strings.TrimSpace(*cmd.FullName) != "" {
		user.FullName = strings.TrimSpace(*cmd.FullName)
	}
	if cmd.Bio != nil {
		user.Bio = *cmd.Bio
	}
	if cmd.Link != nil {
		user.Link = *cmd.Link
	}

	user.Touch()
	if err := s.users.Update(ctx, user); err != nil {
		s.discardStaged(ctx, staged)
		return nil, err
	}

	for _, a := range staged {
		s.destroy(ctx, a.oldURL)
	}
	return user, nil
}

func (s *UserService) Followers(ctx context.Context, username string) ([]domain.UserSummary, error) {
	return s.relations(ctx, username, domain.SetFollowers)
}

func (s *UserService) Following(ctx context.Context, username string) ([]domain.UserSummary, error) {
	return s.relations(ctx, username, domain.SetFollowing)
}

func (s *UserService) Search(ctx context.Context, query string) ([]domain.UserSummary, error) {
	return s.search(ctx, query, true)
}

// SearchMentions backs the @-autocomplete: usernames only.
func (s *UserService) SearchMentions(ctx context.Context, query string) ([]domain.UserSummary, error) {
	return s.search(ctx, query, false)
}

// --- HELPERS ---

func (s *UserService) relations(ctx context.Context, username string, set domain.UserSet) ([]domain.UserSummary, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	ids := user.Set(set)
	if len(ids) == 0 {
		return []domain.UserSummary{}, nil
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return toSummaries(users), nil
}

func (s *UserService) search(ctx context.Context, query string, includeFullName bool) ([]domain.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.UserSummary{}, nil
	}
	users, err := s.users.Search(ctx, query, includeFullName, searchLimit)
	if err != nil {
		return nil, err
	}
	return toSummaries(users), nil
}

type stagedAsset struct {
	oldURL string
	newURL string
}

// discardStaged removes uploads whose user update never happened.
func (s *UserService) discardStaged(ctx context.Context, staged []stagedAsset) {
	for _, a := range staged {
		s.destroy(ctx, a.newURL)
	}
}

func (s *UserService) destroy(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.assets.Destroy(ctx, domain.AssetIDFromURL(url)); err != nil {
		slog.Warn("Failed to destroy asset", "url", url, "error", err)
	}
}
