package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions(t *testing.T) {
	t.Run("host, db and embedded password", func(t *testing.T) {
		opts, err := Options(Config{URL: "redis://:secret@cache.internal:6380/3"})
		require.NoError(t, err)
		assert.Equal(t, "cache.internal:6380", opts.Addr)
		assert.Equal(t, 3, opts.DB)
		assert.Equal(t, "secret", opts.Password)
		assert.Nil(t, opts.TLSConfig)
		assert.Equal(t, 3*time.Second, opts.ReadTimeout)
	})

	t.Run("explicit password wins and rediss enables TLS", func(t *testing.T) {
		opts, err := Options(Config{URL: "rediss://:old@cache.internal", Password: "new"})
		require.NoError(t, err)
		assert.Equal(t, "new", opts.Password)
		assert.NotNil(t, opts.TLSConfig)
		assert.Equal(t, "cache.internal:6379", opts.Addr)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := Options(Config{})
		assert.Error(t, err)

		_, err = Options(Config{URL: "redis://cache.internal/not-a-db"})
		assert.Error(t, err)

		_, err = Options(Config{URL: "http://cache.internal"})
		assert.Error(t, err)
	})
}

func TestHealthCheckWithoutClient(t *testing.T) {
	assert.Error(t, HealthCheck(t.Context()))
}
