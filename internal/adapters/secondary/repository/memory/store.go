// Package memory is a process-local Entity Store used by tests and by the
// "memory" store driver.
package memory

import (
	"context"
	"math/rand"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
)

type Store struct {
	mu            sync.RWMutex
	users         map[string]*domain.User
	posts         map[string]*domain.Post
	postOrder     []string
	notifications []*domain.Notification
}

func NewStore() *Store {
	return &Store{
		users: make(map[string]*domain.User),
		posts: make(map[string]*domain.Post),
	}
}

func (s *Store) Users() *UserRepo                 { return &UserRepo{s: s} }
func (s *Store) Posts() *PostRepo                 { return &PostRepo{s: s} }
func (s *Store) Notifications() *NotificationRepo { return &NotificationRepo{s: s} }
func (s *Store) Transactor() Transactor           { return Transactor{} }

// Transactor runs fn as is: each repository call is atomic on its own, the
// group is not.
type Transactor struct{}

func (Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (Transactor) Atomic() bool { return false }

// --- USERS ---

type UserRepo struct{ s *Store }

func (r *UserRepo) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.findOne(func(u *domain.User) bool { return u.Username == username })
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.findOne(func(u *domain.User) bool { return u.Email == email })
}

func (r *UserRepo) findOne(match func(*domain.User) bool) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepo) GetByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

func (r *UserRepo) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	for _, u := range r.s.users {
		if u.ID == user.ID {
			continue
		}
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}

	next := cloneUser(user)
	next.Followers = cur.Followers
	next.Following = cur.Following
	next.LikedPosts = cur.LikedPosts
	r.s.users[user.ID] = next
	return nil
}

func (r *UserRepo) AddToSet(_ context.Context, userID string, set domain.UserSet, member string) error {
	return r.mutateSet(userID, set, func(ids []string) []string {
		if slices.Contains(ids, member) {
			return ids
		}
		return append(ids, member)
	})
}

func (r *UserRepo) PullFromSet(_ context.Context, userID string, set domain.UserSet, member string) error {
	return r.mutateSet(userID, set, func(ids []string) []string {
		return slices.DeleteFunc(ids, func(id string) bool { return id == member })
	})
}

func (r *UserRepo) mutateSet(userID string, set domain.UserSet, fn func([]string) []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	switch set {
	case domain.SetFollowers:
		u.Followers = fn(slices.Clone(u.Followers))
	case domain.SetFollowing:
		u.Following = fn(slices.Clone(u.Following))
	case domain.SetLikedPosts:
		u.LikedPosts = fn(slices.Clone(u.LikedPosts))
	default:
		return domain.ErrInvalidArgument
	}
	return nil
}

func (r *UserRepo) Search(_ context.Context, query string, includeFullName bool, limit int) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	q := strings.ToLower(query)
	var out []*domain.User
	for _, u := range r.sortedUsers() {
		hit := strings.Contains(strings.ToLower(u.Username), q) ||
			(includeFullName && strings.Contains(strings.ToLower(u.FullName), q))
		if hit {
			out = append(out, cloneUser(u))
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *UserRepo) Sample(_ context.Context, excludeID string, size int) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	pool := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		if u.ID != excludeID {
			pool = append(pool, cloneUser(u))
		}
	}
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > size {
		pool = pool[:size]
	}
	return pool, nil
}

func (r *UserRepo) sortedUsers() []*domain.User {
	out := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// --- POSTS ---

type PostRepo struct{ s *Store }

func (r *PostRepo) Create(_ context.Context, post *domain.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.posts[post.ID] = clonePost(post)
	r.s.postOrder = append(r.s.postOrder, post.ID)
	return nil
}

func (r *PostRepo) GetByID(_ context.Context, id string) (*domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return clonePost(p), nil
}

func (r *PostRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.s.posts, id)
	r.s.postOrder = slices.DeleteFunc(r.s.postOrder, func(pid string) bool { return pid == id })
	return nil
}

// List walks posts in insertion order, which is the store default.
func (r *PostRepo) List(_ context.Context, filter domain.PostFilter) ([]*domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domain.Post{}
	if filter.Empty() {
		return out, nil
	}
	for _, id := range r.s.postOrder {
		p := r.s.posts[id]
		if filter.AuthorIDs != nil && !slices.Contains(filter.AuthorIDs, p.AuthorID) {
			continue
		}
		if filter.IDs != nil && !slices.Contains(filter.IDs, p.ID) {
			continue
		}
		out = append(out, clonePost(p))
	}
	if filter.NewestFirst {
		slices.Reverse(out)
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}
	return out, nil
}

func (r *PostRepo) AddLike(_ context.Context, postID, userID string) error {
	return r.mutate(postID, func(p *domain.Post) {
		if !slices.Contains(p.Likes, userID) {
			p.Likes = append(slices.Clone(p.Likes), userID)
		}
	})
}

func (r *PostRepo) RemoveLike(_ context.Context, postID, userID string) error {
	return r.mutate(postID, func(p *domain.Post) {
		p.Likes = slices.DeleteFunc(slices.Clone(p.Likes), func(id string) bool { return id == userID })
	})
}

func (r *PostRepo) AppendComment(_ context.Context, postID string, comment domain.Comment) error {
	return r.mutate(postID, func(p *domain.Post) {
		p.Comments = append(slices.Clone(p.Comments), comment)
	})
}

func (r *PostRepo) mutate(postID string, fn func(*domain.Post)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[postID]
	if !ok {
		return domain.ErrPostNotFound
	}
	fn(p)
	return nil
}

// --- NOTIFICATIONS ---

type NotificationRepo struct{ s *Store }

func (r *NotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cp := *n
	r.s.notifications = append(r.s.notifications, &cp)
	return nil
}

func (r *NotificationRepo) ListFor(_ context.Context, userID string) ([]*domain.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []*domain.Notification{}
	for i := len(r.s.notifications) - 1; i >= 0; i-- {
		if n := r.s.notifications[i]; n.To == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *NotificationRepo) MarkAllRead(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, n := range r.s.notifications {
		if n.To == userID {
			n.Read = true
		}
	}
	return nil
}

func (r *NotificationRepo) DeleteAllFor(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.notifications = slices.DeleteFunc(r.s.notifications, func(n *domain.Notification) bool {
		return n.To == userID
	})
	return nil
}

// --- HELPERS ---

func cloneUser(u *domain.User) *domain.User {
	cp := *u
	cp.Followers = slices.Clone(u.Followers)
	cp.Following = slices.Clone(u.Following)
	cp.LikedPosts = slices.Clone(u.LikedPosts)
	return &cp
}

func clonePost(p *domain.Post) *domain.Post {
	cp := *p
	cp.Likes = slices.Clone(p.Likes)
	cp.Comments = slices.Clone(p.Comments)
	return &cp
}
