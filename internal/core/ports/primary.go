package ports

import (
	"context"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
)

// --- INPUTS (Command Pattern) ---

type SignupCmd struct {
	Username string
	FullName string
	Email    string
	Password string
}

type LoginCmd struct {
	Username string
	Password string
}

// UpdateProfileCmd uses pointers: nil means "leave unchanged".
type UpdateProfileCmd struct {
	UserID          string
	FullName        *string
	Email           *string
	Username        *string
	Bio             *string
	Link            *string
	CurrentPassword string
	NewPassword     string
	ProfileImg      string // raw image to upload, empty keeps the current one
	CoverImg        string
}

type CreatePostCmd struct {
	AuthorID string
	Text     string
	Img      string // raw image to upload
}

// --- OUTPUTS ---

type AuthResult struct {
	User  *domain.User
	Token string
}

type FollowResult struct {
	Following bool // state after the toggle
}

// --- DRIVING PORTS ---

type IdentityService interface {
	Signup(ctx context.Context, cmd SignupCmd) (*AuthResult, error)
	Login(ctx context.Context, cmd LoginCmd) (*AuthResult, error)
	Logout(ctx context.Context, userID string) error
	Me(ctx context.Context, userID string) (*domain.User, error)
	Authenticate(ctx context.Context, token string) (string, error)
}

type GraphService interface {
	ToggleFollow(ctx context.Context, actorID, targetID string) (*FollowResult, error)
	ToggleLike(ctx context.Context, actorID, postID string) ([]string, error)
}

type FeedService interface {
	ListAll(ctx context.Context) ([]*domain.PostView, error)
	ListByAuthor(ctx context.Context, username string) ([]*domain.PostView, error)
	ListLiked(ctx context.Context, userID string) ([]*domain.PostView, error)
	ListFollowingFeed(ctx context.Context, userID string) ([]*domain.PostView, error)

	CreatePost(ctx context.Context, cmd CreatePostCmd) (*domain.Post, error)
	AddComment(ctx context.Context, postID, authorID, text string) ([]domain.CommentView, error)
	DeletePost(ctx context.Context, postID, requesterID string) error
}

type UserService interface {
	GetProfile(ctx context.Context, username string) (*domain.User, error)
	Suggested(ctx context.Context, userID string) ([]*domain.User, error)
	UpdateProfile(ctx context.Context, cmd UpdateProfileCmd) (*domain.User, error)
	Followers(ctx context.Context, username string) ([]domain.UserSummary, error)
	Following(ctx context.Context, username string) ([]domain.UserSummary, error)
	Search(ctx context.Context, query string) ([]domain.UserSummary, error)
	SearchMentions(ctx context.Context, query string) ([]domain.UserSummary, error)
}

type NotificationService interface {
	List(ctx context.Context, userID string) ([]*domain.NotificationView, error)
	DeleteAll(ctx context.Context, userID string) error
	UnreadCount(ctx context.Context, userID string) (int64, error)
}
