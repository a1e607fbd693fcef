package redis_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domain"
	redisrepo "portfolio-backend/internal/repository/redis"
	"portfolio-backend/internal/store"
	redisclient "portfolio-backend/pkg/redis"
)

// Set REDIS_TEST_URL (e.g. redis://localhost:6379/15) to run against a live server.
func newRepo(t *testing.T) *redisrepo.KVRepository {
	t.Helper()
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}

	ctx := context.Background()
	client, err := redisclient.NewClient(ctx, redisclient.Config{URL: url})
	require.NoError(t, err)

	prefix := "portfolio:test:" + uuid.NewString() + ":"
	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		_ = client.Close()
	})
	return redisrepo.NewKVRepository(client, prefix)
}

func TestKVRepositorySaveLoadKeys(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	require.NoError(t, repo.Ping(ctx))

	_, err := repo.Load(ctx, domain.KeyProfile)
	assert.ErrorIs(t, err, domain.ErrStorageKeyNotFound)

	require.NoError(t, repo.Save(ctx, domain.KeyProfile, []byte(`{"name":"a"}`)))
	require.NoError(t, repo.Save(ctx, domain.KeyProfile, []byte(`{"name":"b"}`)))
	require.NoError(t, repo.Save(ctx, domain.KeyProjects, []byte(`[]`)))

	got, err := repo.Load(ctx, domain.KeyProfile)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"b"}`, string(got))

	keys, err := repo.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.KeyProfile, domain.KeyProjects}, keys)
}

func TestKVRepositoryBacksCollection(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	c, err := store.NewCollection(ctx, repo, domain.KeyServices, []domain.Service{})
	require.NoError(t, err)
	added, err := c.Add(ctx, domain.Service{Title: "Audit", Features: []string{"report"}})
	require.NoError(t, err)

	reopened, err := store.NewCollection(ctx, repo, domain.KeyServices, []domain.Service{})
	require.NoError(t, err)
	assert.Equal(t, []domain.Service{added}, reopened.List())
}
