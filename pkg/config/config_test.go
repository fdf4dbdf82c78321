package config

import (
	"deskly/pkg/logger"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		MongoURI:          DefaultMongoURI,
		MongoDatabaseName: DefaultMongoDatabaseName,
		MongoConnTimeout:  DefaultMongoConnTimeout,
		Port:              DefaultPort,
		JWTSecret:         "0123456789abcdef0123",
		JWTIssuer:         DefaultJWTIssuer,
		RateLimitRequests: DefaultRateLimitRequests,
		RateLimitWindow:   DefaultRateLimitWindow,
		RequestTimeout:    DefaultRequestTimeout,
		IdempotencyTTL:    DefaultIdempotencyTTL,
		MaxRequestSize:    DefaultMaxRequestSize,
		ReadTimeout:       DefaultReadTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
		ShutdownTimeout:   DefaultShutdownTimeout,
		LockBackend:       DefaultLockBackend,
		LockTTL:           DefaultLockTTL,
		LockWaitTimeout:   DefaultLockWaitTimeout,
		LockRetryInterval: DefaultLockRetryInterval,
		RedisAddr:         DefaultRedisAddr,
		BookingTimezone:   "Europe/Berlin",
		Log:               logger.Discard(),
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Port = "99999" }, wantErr: "Port must be between"},
		{name: "bad mongo uri", mutate: func(c *Config) { c.MongoURI = "postgres://x:y@host" }, wantErr: "MongoURI must start with"},
		{name: "short jwt secret", mutate: func(c *Config) { c.JWTSecret = "short" }, wantErr: "JWTSecret must be set"},
		{name: "unknown lock backend", mutate: func(c *Config) { c.LockBackend = "etcd" }, wantErr: "LockBackend must be one of"},
		{name: "redis without addr", mutate: func(c *Config) { c.LockBackend = LockBackendRedis; c.RedisAddr = "" }, wantErr: "RedisAddr cannot be empty"},
		{name: "non positive lock ttl", mutate: func(c *Config) { c.LockTTL = 0 }, wantErr: "LockTTL must be positive"},
		{name: "bad timezone", mutate: func(c *Config) { c.BookingTimezone = "Mars/Olympus" }, wantErr: "BookingTimezone must be a valid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ResolvesLocation(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
	require.NotNil(t, cfg.Location)
	assert.Equal(t, "Europe/Berlin", cfg.Location.String())
	assert.Equal(t, cfg.Location, cfg.Now().Location())
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.MongoDatabaseName = ""
	cfg.RateLimitRequests = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1. Port")
	assert.Contains(t, err.Error(), "2. MongoDatabaseName")
	assert.Contains(t, err.Error(), "3. RateLimitRequests")
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("DESKLY_TEST_NUM", "42")
	t.Setenv("DESKLY_TEST_BAD_NUM", "forty")
	t.Setenv("DESKLY_TEST_DUR", "250ms")
	t.Setenv("DESKLY_TEST_BOOL", "true")

	assert.Equal(t, 42, getEnvNum("DESKLY_TEST_NUM", 1))
	assert.Equal(t, 1, getEnvNum("DESKLY_TEST_BAD_NUM", 1))
	assert.Equal(t, 250*time.Millisecond, getEnvDuration("DESKLY_TEST_DUR", time.Second))
	assert.True(t, getEnvBool("DESKLY_TEST_BOOL", false))
	assert.Equal(t, "fallback", getEnvStr("DESKLY_TEST_MISSING", "fallback"))
}

func TestRedactMongoURI(t *testing.T) {
	assert.Equal(t, "mongodb://***:***@db:27017", redactMongoURI("mongodb://admin:secret@db:27017"))
	assert.Equal(t, "mongodb://db:27017", redactMongoURI("mongodb://db:27017"))
}

func TestNormalizePagination(t *testing.T) {
	assert.Equal(t, DefaultPaginationLimit, NormalizePaginationLimit(0))
	assert.Equal(t, DefaultPaginationLimit, NormalizePaginationLimit(-5))
	assert.Equal(t, 25, NormalizePaginationLimit(25))
	assert.Equal(t, MaxPaginationLimit, NormalizePaginationLimit(1000))
	assert.Equal(t, 1, NormalizePage(0))
	assert.Equal(t, 3, NormalizePage(3))
}
