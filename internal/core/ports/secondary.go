package ports

import (
	"context"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
)

// --- PERSISTENCE (Entity Store) ---
// Implementations translate "no rows/documents" into domain.ErrUserNotFound /
// domain.ErrPostNotFound and unique violations into domain.ErrUsernameTaken /
// domain.ErrEmailTaken.

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetByIDs returns the users whose id is in ids ($in). Unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	// Update persists the profile fields, credentials and session version.
	// Relationship sets are only changed through AddToSet/PullFromSet.
	Update(ctx context.Context, user *domain.User) error

	// AddToSet / PullFromSet are the atomic field-level push/pull the graph
	// mutator relies on. Adding an existing member is a no-op.
	AddToSet(ctx context.Context, userID string, set domain.UserSet, member string) error
	PullFromSet(ctx context.Context, userID string, set domain.UserSet, member string) error

	// Search matches query case-insensitively on username (and full name when
	// includeFullName is set).
	Search(ctx context.Context, query string, includeFullName bool, limit int) ([]*domain.User, error)
	// Sample returns up to size random users other than excludeID.
	Sample(ctx context.Context, excludeID string, size int) ([]*domain.User, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter domain.PostFilter) ([]*domain.Post, error)

	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
	AppendComment(ctx context.Context, postID string, comment domain.Comment) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	// ListFor returns the notifications addressed to userID, newest first.
	ListFor(ctx context.Context, userID string) ([]*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
	DeleteAllFor(ctx context.Context, userID string) error
}

// Transactor groups multi-record mutations. Stores without transactions run
// fn directly; the callers then apply their writes in a fixed order.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	// Atomic reports whether WithinTx rolls back on error.
	Atomic() bool
}

// --- ASSET HOST ---

type AssetHost interface {
	// Upload hosts a raw image (data URL) and returns its public secure URL.
	Upload(ctx context.Context, raw string) (string, error)
	Destroy(ctx context.Context, assetID string) error
}

// --- MESSAGING (BROKER) ---

type EventPublisher interface {
	PublishNotificationCreated(ctx context.Context, n *domain.Notification) error
	PublishFollowChanged(ctx context.Context, actorID, targetID string, following bool) error
}

// --- COUNTERS ---

type UnreadCounter interface {
	Increment(ctx context.Context, userID string) error
	Reset(ctx context.Context, userID string) error
	Get(ctx context.Context, userID string) (int64, error)
}

// --- GRAPH PROJECTION ---

// GraphProjection mirrors follow edges into a graph database.
type GraphProjection interface {
	CreateRelation(ctx context.Context, actorID, targetID string) error
	DeleteRelation(ctx context.Context, actorID, targetID string) error
}

// SuggestionSource proposes accounts to follow (friends of friends).
type SuggestionSource interface {
	SuggestUserIDs(ctx context.Context, userID string, limit int) ([]string, error)
}

// --- SECURITY (CRYPTO) ---

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenClaims is what an access token vouches for.
type TokenClaims struct {
	UserID         string
	SessionVersion int
}

type TokenProvider interface {
	Generate(claims TokenClaims) (string, error)
	Validate(token string) (*TokenClaims, error)
}
