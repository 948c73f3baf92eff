package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/ports"
)

// Cheap parameters, the format is what matters here.
var testParams = &Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}

func TestArgon2Hasher(t *testing.T) {
	h := NewArgon2Hasher(testParams)

	hash, err := h.Hash("secret123")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$v=19$m=1024,t=1,p=1$")

	assert.NoError(t, h.Compare(hash, "secret123"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), errHashMismatch)

	other, err := h.Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "salt must differ between hashes")
}

func TestArgon2Hasher_Malformed(t *testing.T) {
	h := NewArgon2Hasher(testParams)

	for _, encoded := range []string{"", "plain", "$bcrypt$v=19$m=1,t=1,p=1$YQ$YQ", "$argon2id$v=1$m=1,t=1,p=1$YQ$YQ"} {
		assert.Error(t, h.Compare(encoded, "x"), encoded)
	}
}

func TestJWTProvider(t *testing.T) {
	p, err := NewJWTProvider("test-secret", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, p.TTL())

	token, err := p.Generate(ports.TokenClaims{UserID: "u1", SessionVersion: 3})
	require.NoError(t, err)

	claims, err := p.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, 3, claims.SessionVersion)
}

func TestJWTProvider_Rejects(t *testing.T) {
	p, err := NewJWTProvider("test-secret", time.Hour)
	require.NoError(t, err)

	token, err := p.Generate(ports.TokenClaims{UserID: "u1"})
	require.NoError(t, err)

	t.Run("other secret", func(t *testing.T) {
		other, _ := NewJWTProvider("another-secret", time.Hour)
		_, err := other.Validate(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		p.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { p.now = time.Now }()
		_, err := p.Validate(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := p.Validate("not-a-jwt")
		assert.Error(t, err)
	})

	t.Run("empty secret", func(t *testing.T) {
		_, err := NewJWTProvider("", time.Hour)
		assert.Error(t, err)
	})
}
