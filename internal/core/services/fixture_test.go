package services

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/adapters/secondary/assets"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/adapters/secondary/cache"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/adapters/secondary/eventbroker"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/adapters/secondary/repository/memory"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/adapters/secondary/security"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/ports"
)

var errBoom = errors.New("boom")

type fixture struct {
	store   *memory.Store
	users   ports.UserRepository
	posts   ports.PostRepository
	notifs  ports.NotificationRepository
	tx      ports.Transactor
	assets  *assets.MemoryHost
	counter *cache.MemoryUnreadCounter
	hasher  *security.Argon2Hasher
	tokens  *security.JWTProvider

	graph    *GraphService
	feed     *FeedService
	dir      *UserService
	identity *IdentityService
	inbox    *NotificationService
}

type option func(*fixture)

func withUsers(wrap func(ports.UserRepository) ports.UserRepository) option {
	return func(f *fixture) { f.users = wrap(f.users) }
}

func withNotifications(wrap func(ports.NotificationRepository) ports.NotificationRepository) option {
	return func(f *fixture) { f.notifs = wrap(f.notifs) }
}

func withTransactor(tx ports.Transactor) option {
	return func(f *fixture) { f.tx = tx }
}

func newFixture(t *testing.T, opts ...option) *fixture {
	t.Helper()

	store := memory.NewStore()
	tokens, err := security.NewJWTProvider("test-secret", time.Hour)
	require.NoError(t, err)

	f := &fixture{
		store:   store,
		users:   store.Users(),
		posts:   store.Posts(),
		notifs:  store.Notifications(),
		tx:      store.Transactor(),
		assets:  assets.NewMemoryHost(),
		counter: cache.NewMemoryUnreadCounter(),
		hasher:  security.NewArgon2Hasher(&security.Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}),
		tokens:  tokens,
	}
	for _, opt := range opts {
		opt(f)
	}

	pub := eventbroker.NoopPublisher{}
	notifier := NewNotifier(f.notifs, f.counter, pub)
	mentions := NewMentionResolver(f.users)

	f.graph = NewGraphService(f.users, f.posts, f.tx, notifier, pub)
	f.feed = NewFeedService(f.posts, f.users, f.assets, mentions, notifier)
	f.dir = NewUserService(f.users, f.assets, f.hasher, nil)
	f.identity = NewIdentityService(f.users, f.hasher, f.tokens)
	f.inbox = NewNotificationService(f.notifs, f.counter, f.users)
	return f
}

// user stores an account straight into the memory store.
func (f *fixture) user(t *testing.T, username string) *domain.User {
	t.Helper()
	hash, err := f.hasher.Hash("password")
	require.NoError(t, err)
	u, err := domain.NewUser(username, username+" Fullname", username+"@example.com", hash)
	require.NoError(t, err)
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return u
}

func (f *fixture) reload(t *testing.T, id string) *domain.User {
	t.Helper()
	u, err := f.store.Users().GetByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func (f *fixture) inboxOf(t *testing.T, userID string) []*domain.Notification {
	t.Helper()
	items, err := f.store.Notifications().ListFor(context.Background(), userID)
	require.NoError(t, err)
	return items
}

func pngDataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png-bytes"))
}

// --- FAULT INJECTION ---

// flakyUsers fails set mutations on one set, every username lookup, or
// every profile update.
type flakyUsers struct {
	ports.UserRepository
	failSet    domain.UserSet
	failLookup bool
	failUpdate bool
}

func (u *flakyUsers) Update(ctx context.Context, user *domain.User) error {
	if u.failUpdate {
		return errBoom
	}
	return u.UserRepository.Update(ctx, user)
}

func (u *flakyUsers) AddToSet(ctx context.Context, id string, set domain.UserSet, member string) error {
	if set == u.failSet {
		return errBoom
	}
	return u.UserRepository.AddToSet(ctx, id, set, member)
}

func (u *flakyUsers) PullFromSet(ctx context.Context, id string, set domain.UserSet, member string) error {
	if set == u.failSet {
		return errBoom
	}
	return u.UserRepository.PullFromSet(ctx, id, set, member)
}

func (u *flakyUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if u.failLookup {
		return nil, errBoom
	}
	return u.UserRepository.GetByUsername(ctx, username)
}

type brokenNotifications struct {
	ports.NotificationRepository
}

func (brokenNotifications) Create(context.Context, *domain.Notification) error {
	return errBoom
}

// atomicTx pretends to roll back; enough to check how errors are reported.
type atomicTx struct{}

func (atomicTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (atomicTx) Atomic() bool { return true }
