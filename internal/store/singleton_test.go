package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository/memory"
	"portfolio-backend/internal/store"
)

func TestSingletonUpdateMergesAndPersists(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStorage()
	fallback := domain.Profile{Name: "Owner", Title: "Engineer", SocialLinks: domain.SocialLinks{Github: "https://github.com/owner"}}

	s, err := store.NewSingleton(ctx, kv, domain.KeyProfile, fallback)
	require.NoError(t, err)

	updated, err := s.Update(ctx, []byte(`{"title":"Architect","socialLinks":{"linkedin":"https://linkedin.com/in/owner"}}`))
	require.NoError(t, err)
	assert.Equal(t, "Owner", updated.Name)
	assert.Equal(t, "Architect", updated.Title)
	assert.Empty(t, updated.SocialLinks.Github, "nested objects are replaced as a whole")
	assert.Equal(t, "https://linkedin.com/in/owner", updated.SocialLinks.LinkedIn)

	reopened, err := store.NewSingleton(ctx, kv, domain.KeyProfile, domain.Profile{})
	require.NoError(t, err)
	assert.Equal(t, updated, reopened.Get())
}

func TestSingletonLoadKeepsFallbackForMissingFields(t *testing.T) {
	kv := memory.NewKVStorage()
	kv.Put(domain.KeyAudioIntro, []byte(`{"enabled":true}`))

	s, err := store.NewSingleton(context.Background(), kv, domain.KeyAudioIntro, domain.AudioIntro{Title: "Hello"})
	require.NoError(t, err)

	got := s.Get()
	assert.True(t, got.Enabled)
	assert.Equal(t, "Hello", got.Title)
}

func TestSingletonCorruptFallsBack(t *testing.T) {
	kv := memory.NewKVStorage()
	kv.Put(domain.KeyProfile, []byte(`"just a string"`))

	s, err := store.NewSingleton(context.Background(), kv, domain.KeyProfile, domain.Profile{Name: "Default"})
	require.NoError(t, err)
	assert.Equal(t, "Default", s.Get().Name)
}

func TestSingletonRevisionConflict(t *testing.T) {
	ctx := context.Background()
	s, err := store.NewSingleton(ctx, memory.NewKVStorage(), domain.KeyProfile, domain.Profile{})
	require.NoError(t, err)

	_, err = s.Update(ctx, []byte(`{"name":"a"}`), store.ExpectRevision(3))
	assert.ErrorIs(t, err, domain.ErrRevisionConflict)
	assert.Empty(t, s.Get().Name)
}
