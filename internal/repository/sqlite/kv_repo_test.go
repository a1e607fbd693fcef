package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository/sqlite"
	"portfolio-backend/internal/store"
	"portfolio-backend/pkg/database"
)

func newRepo(t *testing.T) *sqlite.KVRepository {
	t.Helper()
	ctx := context.Background()
	db, err := database.NewSQLiteConnection(ctx, filepath.Join(t.TempDir(), "portfolio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewKVRepository(db, "portfolio_storage")
	require.NoError(t, repo.EnsureSchema(ctx))
	return repo
}

func TestKVRepositorySaveLoad(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	_, err := repo.Load(ctx, domain.KeyProfile)
	assert.ErrorIs(t, err, domain.ErrStorageKeyNotFound)

	require.NoError(t, repo.Save(ctx, domain.KeyProfile, []byte(`{"name":"a"}`)))
	require.NoError(t, repo.Save(ctx, domain.KeyProfile, []byte(`{"name":"b"}`)))

	got, err := repo.Load(ctx, domain.KeyProfile)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"b"}`, string(got))

	keys, err := repo.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.KeyProfile}, keys)
	assert.NoError(t, repo.Ping(ctx))
}

func TestKVRepositoryBacksCollection(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	c, err := store.NewCollection(ctx, repo, domain.KeyTestimonials, []domain.Testimonial{})
	require.NoError(t, err)
	added, err := c.Add(ctx, domain.Testimonial{Name: "Ana", Rating: 5})
	require.NoError(t, err)

	reopened, err := store.NewCollection(ctx, repo, domain.KeyTestimonials, []domain.Testimonial{})
	require.NoError(t, err)
	got, ok := reopened.Get(added.ID)
	require.True(t, ok)
	assert.Equal(t, "Ana", got.Name)
}
