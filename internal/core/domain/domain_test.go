package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPost_RequiresTextOrImage(t *testing.T) {
	_, err := NewPost("u1", "", "")
	require.ErrorIs(t, err, ErrEmptyPost)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = NewPost("u1", "   ", "")
	require.ErrorIs(t, err, ErrEmptyPost)

	p, err := NewPost("u1", "", "https://cdn.example.com/posts/abc")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Empty(t, p.Likes)
	assert.NotNil(t, p.Likes)
}

func TestNewComment_RequiresText(t *testing.T) {
	_, err := NewComment("u1", "")
	require.ErrorIs(t, err, ErrEmptyComment)

	c, err := NewComment("u1", "nice")
	require.NoError(t, err)
	assert.Equal(t, "u1", c.AuthorID)
	assert.False(t, c.CreatedAt.IsZero())
}

func TestNewUser_Validation(t *testing.T) {
	_, err := NewUser("ab", "A B", "ab@example.com", "hash")
	require.ErrorIs(t, err, ErrInvalidUsername)

	_, err = NewUser("alice", "Alice", "not-an-email", "hash")
	require.ErrorIs(t, err, ErrInvalidEmail)

	u, err := NewUser(" alice ", "Alice", "Alice@Example.com", "hash")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Empty(t, u.Followers)
	assert.Equal(t, UserSummary{ID: u.ID, Username: "alice", FullName: "Alice"}, u.Summary())
}

func TestPostFilter_Empty(t *testing.T) {
	assert.False(t, PostFilter{}.Empty())
	assert.True(t, PostFilter{AuthorIDs: []string{}}.Empty())
	assert.True(t, PostFilter{IDs: []string{}}.Empty())
	assert.False(t, PostFilter{AuthorIDs: []string{"a"}}.Empty())
}

func TestAssetIDFromURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{in: "", want: ""},
		{in: "https://res.example.com/img/upload/v1/abc123.png", want: "abc123"},
		{in: "https://cdn.example.com/posts/3f2a", want: "3f2a"},
		{in: "https://cdn.example.com/posts/a.b.jpg", want: "a"},
		{in: "abc.webp", want: "abc"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, AssetIDFromURL(tc.in), tc.in)
	}
}
