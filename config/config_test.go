package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_LocalDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsLocal())
	assert.Equal(t, DriverMongo, cfg.StoreDriver)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, 10*24*time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.S3Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("STORE_DRIVER", "Postgres")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("MONGO_TRANSACTIONS", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.True(t, cfg.MongoTransactions)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoad_ProductionNeedsSecret(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{StoreDriver: DriverMemory, JWTSecret: "x", JWTTTL: time.Hour}
	require.NoError(t, base.Validate())

	unknown := base
	unknown.StoreDriver = "sqlite"
	assert.Error(t, unknown.Validate())

	noDB := base
	noDB.StoreDriver = DriverPostgres
	assert.Error(t, noDB.Validate())

	halfS3 := base
	halfS3.S3Bucket = "images"
	assert.Error(t, halfS3.Validate())

	noPublicURL := halfS3
	noPublicURL.S3AccessKey, noPublicURL.S3SecretKey = "key", "secret"
	assert.ErrorContains(t, noPublicURL.Validate(), "S3_PUBLIC_URL")

	fullS3 := noPublicURL
	fullS3.S3PublicURL = "https://cdn.example.com"
	assert.NoError(t, fullS3.Validate())
}
