package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/ports"
)

func ptr(s string) *string { return &s }

type staticSuggestions struct {
	ids []string
	err error
}

func (s staticSuggestions) SuggestUserIDs(context.Context, string, int) ([]string, error) {
	return s.ids, s.err
}

func TestSuggested_ExcludesSelfAndFollowed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	me := f.user(t, "me")
	followed := f.user(t, "followed")
	for _, name := range []string{"u1", "u2", "u3", "u4", "u5"} {
		f.user(t, name)
	}

	_, err := f.graph.ToggleFollow(ctx, me.ID, followed.ID)
	require.NoError(t, err)

	got, err := f.dir.Suggested(ctx, me.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got), 4)
	for _, u := range got {
		assert.NotEqual(t, me.ID, u.ID)
		assert.NotEqual(t, followed.ID, u.ID)
	}
}

func TestSuggested_GraphSource(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	me, a, b := f.user(t, "me"), f.user(t, "aaa"), f.user(t, "bbb")

	svc := NewUserService(f.users, f.assets, f.hasher, staticSuggestions{ids: []string{b.ID, me.ID, a.ID}})
	got, err := svc.Suggested(ctx, me.ID)
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, u := range got {
		ids = append(ids, u.ID)
	}
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)
}

func TestSuggested_GraphFailureFallsBackToSample(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	me := f.user(t, "me")
	other := f.user(t, "other")

	svc := NewUserService(f.users, f.assets, f.hasher, staticSuggestions{err: errBoom})
	got, err := svc.Suggested(ctx, me.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, other.ID, got[0].ID)
}

func TestFollowersAndFollowing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice, bob := f.user(t, "alice"), f.user(t, "bob")

	_, err := f.graph.ToggleFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	followers, err := f.dir.Followers(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].Username)

	following, err := f.dir.Following(ctx, "bob")
	require.NoError(t, err)
	assert.NotNil(t, following)
	assert.Empty(t, following)

	_, err = f.dir.Followers(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.user(t, "alice")
	f.user(t, "malik")

	empty, err := f.dir.Search(ctx, "  ")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	got, err := f.dir.Search(ctx, "ALI")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// full names are "<username> Fullname"
	got, err = f.dir.Search(ctx, "fullname")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = f.dir.SearchMentions(ctx, "fullname")
	require.NoError(t, err)
	assert.Empty(t, got, "mention search only looks at usernames")

	got, err = f.dir.SearchMentions(ctx, "mal")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "malik", got[0].Username)
}

func TestUpdateProfile_Passwords(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")

	_, err := f.dir.UpdateProfile(ctx, ports.UpdateProfileCmd{UserID: alice.ID, NewPassword: "newpassword"})
	assert.ErrorIs(t, err, domain.ErrPasswordPair)

	_, err = f.dir.UpdateProfile(ctx, ports.UpdateProfileCmd{UserID: alice.ID, CurrentPassword: "nope", NewPassword: "newpassword"})
	assert.ErrorIs(t, err, domain.ErrWrongPassword)

	_, err = f.dir.UpdateProfile(ctx, ports.UpdateProfileCmd{UserID: alice.ID, CurrentPassword: "password", NewPassword: "123"})
	assert.ErrorIs(t, err, domain.ErrWeakPassword)

	_, err = f.dir.UpdateProfile(ctx, ports.UpdateProfileCmd{UserID: alice.ID, CurrentPassword: "password", NewPassword: "newpassword"})
	require.NoError(t, err)
	assert.NoError(t, f.hasher.Compare(f.reload(t, alice.ID).PasswordHash, "newpassword"))
}

func TestUpdateProfile_Fields(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	f.user(t, "bob")

	_, err := f.dir.UpdateProfile(ctx, ports.UpdateProfileCmd{UserID: alice.ID, Username: ptr("bob")})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	_, err = f.dir.UpdateProfile(ctx, ports.UpdateProfileCmd{UserID: alice.ID, Email: ptr("bob@example.com")})
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = f.dir.UpdateProfile(ctx, ports.UpdateProfileCmd{UserID: alice.ID, Email: ptr("not-an-email")})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	updated, err := f.dir.UpdateProfile(ctx, ports.UpdateProfileCmd{
		UserID:   alice.ID,
		FullName: ptr(""),
		Username: ptr("alicia"),
		Bio:      ptr("hi there"),
		Link:     ptr("https://alicia.dev"),
	})
	require.NoError(t, err)
	assert.Equal(t, "alicia", updated.Username)
	assert.Equal(t, "alice Fullname", updated.FullName, "empty full name is ignored")
	assert.Equal(t, "hi there", updated.Bio)

	profile, err := f.dir.GetProfile(ctx, "alicia")
	require.NoError(t, err)
	assert.Equal(t, "https://alicia.dev", profile.Link)
}

func TestUpdateProfile_ReplacesImage(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")

	first, err := f.dir.UpdateProfile(ctx, ports.UpdateProfileCmd{UserID: alice.ID, ProfileImg: pngDataURL()})
	require.NoError(t, err)
	oldID := domain.AssetIDFromURL(first.ProfileImg)
	assert.True(t, f.assets.Has(oldID))

	second, err := f.dir.UpdateProfile(ctx, ports.UpdateProfileCmd{UserID: alice.ID, ProfileImg: pngDataURL()})
	require.NoError(t, err)
	assert.NotEqual(t, first.ProfileImg, second.ProfileImg)
	assert.False(t, f.assets.Has(oldID))
	assert.Equal(t, 1, f.assets.Len())
}

func TestUpdateProfile_RejectedCoverKeepsOldImages(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")

	first, err := f.dir.UpdateProfile(ctx, ports.UpdateProfileCmd{UserID: alice.ID, ProfileImg: pngDataURL()})
	require.NoError(t, err)
	oldID := domain.AssetIDFromURL(first.ProfileImg)

	_, err = f.dir.UpdateProfile(ctx, ports.UpdateProfileCmd{
		UserID:     alice.ID,
		ProfileImg: pngDataURL(),
		CoverImg:   "https://elsewhere.example/cover.png",
	})
	require.ErrorIs(t, err, domain.ErrUnsupportedImage)

	stored := f.reload(t, alice.ID)
	assert.Equal(t, first.ProfileImg, stored.ProfileImg)
	assert.Empty(t, stored.CoverImg)
	assert.True(t, f.assets.Has(oldID), "stored image must still be hosted")
	assert.Equal(t, 1, f.assets.Len(), "staged upload is discarded")
}

func TestUpdateProfile_FailedSaveKeepsOldImages(t *testing.T) {
	ctx := context.Background()
	flaky := &flakyUsers{}
	f := newFixture(t, withUsers(func(r ports.UserRepository) ports.UserRepository {
		flaky.UserRepository = r
		return flaky
	}))
	alice := f.user(t, "alice")

	first, err := f.dir.UpdateProfile(ctx, ports.UpdateProfileCmd{UserID: alice.ID, ProfileImg: pngDataURL()})
	require.NoError(t, err)
	oldID := domain.AssetIDFromURL(first.ProfileImg)

	flaky.failUpdate = true
	_, err = f.dir.UpdateProfile(ctx, ports.UpdateProfileCmd{
		UserID:     alice.ID,
		ProfileImg: pngDataURL(),
		CoverImg:   pngDataURL(),
	})
	require.ErrorIs(t, err, errBoom)

	stored := f.reload(t, alice.ID)
	assert.Equal(t, first.ProfileImg, stored.ProfileImg)
	assert.True(t, f.assets.Has(oldID))
	assert.Equal(t, 1, f.assets.Len())
}
