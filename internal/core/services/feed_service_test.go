package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/ports"
)

func TestCreatePost_Empty(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")

	_, err := f.feed.CreatePost(ctx, ports.CreatePostCmd{AuthorID: alice.ID, Text: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyPost)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	all, err := f.feed.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Zero(t, f.assets.Len())
}

func TestCreatePost_UnknownAuthor(t *testing.T) {
	f := newFixture(t)

	_, err := f.feed.CreatePost(context.Background(), ports.CreatePostCmd{AuthorID: "ghost", Img: pngDataURL()})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Zero(t, f.assets.Len(), "nothing uploaded for an unknown author")
}

func TestCreatePost_RejectsNonDataURLImage(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	_, err := f.feed.CreatePost(context.Background(), ports.CreatePostCmd{AuthorID: alice.ID, Img: "https://elsewhere/cat.png"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedImage)
}

func TestPostLifecycle_MentionForbiddenDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")

	post, err := f.feed.CreatePost(ctx, ports.CreatePostCmd{AuthorID: alice.ID, Text: "hello @bob", Img: pngDataURL()})
	require.NoError(t, err)
	require.NotEmpty(t, post.Img)

	inbox := f.inboxOf(t, bob.ID)
	require.Len(t, inbox, 1)
	assert.Equal(t, domain.NotificationMention, inbox[0].Type)
	assert.Equal(t, alice.ID, inbox[0].From)
	assert.Equal(t, bob.ID, inbox[0].To)

	assetID := domain.AssetIDFromURL(post.Img)
	assert.True(t, f.assets.Has(assetID))

	err = f.feed.DeletePost(ctx, post.ID, bob.ID)
	assert.ErrorIs(t, err, domain.ErrNotPostAuthor)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.True(t, f.assets.Has(assetID))

	require.NoError(t, f.feed.DeletePost(ctx, post.ID, alice.ID))
	_, err = f.posts.GetByID(ctx, post.ID)
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
	assert.False(t, f.assets.Has(assetID))

	err = f.feed.DeletePost(ctx, post.ID, alice.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreatePost_MentionsDeduplicatedAndFiltered(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")

	_, err := f.feed.CreatePost(ctx, ports.CreatePostCmd{
		AuthorID: alice.ID,
		Text:     "@bob @bob @alice @nobody",
	})
	require.NoError(t, err)

	assert.Len(t, f.inboxOf(t, bob.ID), 1)
	assert.Empty(t, f.inboxOf(t, alice.ID), "self mention is ignored")
}

func TestCreatePost_NotificationFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, withNotifications(func(r ports.NotificationRepository) ports.NotificationRepository {
		return brokenNotifications{r}
	}))
	alice := f.user(t, "alice")
	f.user(t, "bob")

	post, err := f.feed.CreatePost(ctx, ports.CreatePostCmd{AuthorID: alice.ID, Text: "hi @bob"})
	require.NoError(t, err)

	stored, err := f.posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hi @bob", stored.Text)
}

func TestCreatePost_MentionLookupFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, withUsers(func(r ports.UserRepository) ports.UserRepository {
		return &flakyUsers{UserRepository: r, failLookup: true}
	}))
	alice := f.user(t, "alice")

	_, err := f.feed.CreatePost(ctx, ports.CreatePostCmd{AuthorID: alice.ID, Text: "hi @bob"})
	require.NoError(t, err)
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, bob, carol := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")

	post, err := f.feed.CreatePost(ctx, ports.CreatePostCmd{AuthorID: alice.ID, Text: "post"})
	require.NoError(t, err)

	comments, err := f.feed.AddComment(ctx, post.ID, bob.ID, "@carol look at this")
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, bob.ID, comments[0].Author.ID)
	assert.Equal(t, "bob", comments[0].Author.Username)
	assert.Equal(t, "@carol look at this", comments[0].Text)

	inbox := f.inboxOf(t, carol.ID)
	require.Len(t, inbox, 1)
	assert.Equal(t, domain.NotificationMention, inbox[0].Type)
	assert.Equal(t, bob.ID, inbox[0].From)

	comments, err = f.feed.AddComment(ctx, post.ID, alice.ID, "thanks")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "thanks", comments[1].Text)
}

func TestAddComment_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")

	// empty text wins over the missing post
	_, err := f.feed.AddComment(ctx, "missing", alice.ID, "  ")
	assert.ErrorIs(t, err, domain.ErrEmptyComment)

	_, err = f.feed.AddComment(ctx, "missing", alice.ID, "hello")
	assert.ErrorIs(t, err, domain.ErrPostNotFound)
}

func TestListFollowingFeed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, bob, carol := f.user(t, "alice"), f.user(t, "bob"), f.user(t, "carol")

	feed, err := f.feed.ListFollowingFeed(ctx, alice.ID)
	require.NoError(t, err)
	assert.NotNil(t, feed)
	assert.Empty(t, feed)

	_, err = f.graph.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	first, err := f.feed.CreatePost(ctx, ports.CreatePostCmd{AuthorID: bob.ID, Text: "first"})
	require.NoError(t, err)
	second, err := f.feed.CreatePost(ctx, ports.CreatePostCmd{AuthorID: bob.ID, Text: "second"})
	require.NoError(t, err)
	_, err = f.feed.CreatePost(ctx, ports.CreatePostCmd{AuthorID: carol.ID, Text: "not followed"})
	require.NoError(t, err)

	feed, err = f.feed.ListFollowingFeed(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, second.ID, feed[0].ID)
	assert.Equal(t, first.ID, feed[1].ID)
	assert.Equal(t, "bob", feed[0].Author.Username)

	_, err = f.feed.ListFollowingFeed(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestListByAuthorAndLiked(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")

	post, err := f.feed.CreatePost(ctx, ports.CreatePostCmd{AuthorID: bob.ID, Text: "by bob"})
	require.NoError(t, err)
	_, err = f.feed.CreatePost(ctx, ports.CreatePostCmd{AuthorID: alice.ID, Text: "by alice"})
	require.NoError(t, err)

	byBob, err := f.feed.ListByAuthor(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, byBob, 1)
	assert.Equal(t, post.ID, byBob[0].ID)

	_, err = f.feed.ListByAuthor(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	liked, err := f.feed.ListLiked(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, liked)

	_, err = f.graph.ToggleLike(ctx, alice.ID, post.ID)
	require.NoError(t, err)

	liked, err = f.feed.ListLiked(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, []string{alice.ID}, liked[0].Likes)

	all, err := f.feed.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestListAll_DeletedAuthorKeepsID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	post, err := domain.NewPost("gone-user", "orphan", "")
	require.NoError(t, err)
	require.NoError(t, f.posts.Create(ctx, post))

	all, err := f.feed.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, domain.UserSummary{ID: "gone-user"}, all[0].Author)
}
