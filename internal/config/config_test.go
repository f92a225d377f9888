package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	c, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, ":8080", c.Addr())
	assert.Equal(t, AuthModeJWT, c.AuthMode)
	assert.Equal(t, "pgx", c.DBDriver)
	assert.Equal(t, 24*time.Hour, c.JWTTTL)
	assert.Equal(t, int64(5*1024*1024), c.UploadMaxBytes)
	assert.True(t, c.DBAutoMigrate)
	assert.Empty(t, c.DBDSN)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("AUTH_MODE", "DEV")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "postgres://localhost/pets")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("RATE_LIMIT_RPS", "0.5")

	c, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", c.Addr())
	assert.Equal(t, AuthModeDev, c.AuthMode)
	assert.Equal(t, "postgres", c.DBDriver)
	assert.Equal(t, 2*time.Hour, c.JWTTTL)
	assert.InDelta(t, 0.5, c.RateLimitRPS, 0.0001)
}

func TestFromEnv_JWTModeRequiresSecret(t *testing.T) {
	t.Setenv("AUTH_MODE", "jwt")
	t.Setenv("JWT_SECRET", "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestValidate_RemoteModeRequiresURL(t *testing.T) {
	c := Config{
		AuthMode:       AuthModeRemote,
		JWTSecret:      "x",
		DBDriver:       "pgx",
		UploadMaxBytes: 1,
		RateLimitRPS:   1,
		RateLimitBurst: 1,
	}
	assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)

	c.AuthRemoteURL = "http://idp.local"
	assert.NoError(t, c.Validate())
}

func TestValidate_UnknownDriver(t *testing.T) {
	c := Config{
		AuthMode:       AuthModeDev,
		DBDriver:       "mysql",
		UploadMaxBytes: 1,
		RateLimitRPS:   1,
		RateLimitBurst: 1,
	}
	assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
}
