package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUnreadCounter(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryUnreadCounter()

	require.NoError(t, c.Increment(ctx, "u1"))
	require.NoError(t, c.Increment(ctx, "u1"))
	require.NoError(t, c.Increment(ctx, "u2"))

	n, err := c.Get(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	require.NoError(t, c.Reset(ctx, "u1"))
	n, _ = c.Get(ctx, "u1")
	assert.Zero(t, n)

	n, _ = c.Get(ctx, "u2")
	assert.EqualValues(t, 1, n)
}

func TestUnreadKey(t *testing.T) {
	assert.Equal(t, "unread:abc", unreadKey("abc"))
}
