package store_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository/memory"
	"portfolio-backend/internal/store"
)

func TestOpenCatalogSeedsDefaults(t *testing.T) {
	cat, err := store.OpenCatalog(context.Background(), memory.NewKVStorage(), store.DefaultContent())
	require.NoError(t, err)

	if diff := cmp.Diff(store.DefaultContent(), cat.Snapshot()); diff != "" {
		t.Fatalf("snapshot differs from defaults (-want +got):\n%s", diff)
	}
}

func TestCatalogSharedFeed(t *testing.T) {
	ctx := context.Background()
	cat, err := store.OpenCatalog(ctx, memory.NewKVStorage(), store.DefaultContent())
	require.NoError(t, err)

	var keys []string
	unsubscribe := cat.Subscribe(func(ev domain.ChangeEvent) { keys = append(keys, ev.Key) })
	defer unsubscribe()

	_, err = cat.Services.Add(ctx, domain.Service{Title: "Audits"})
	require.NoError(t, err)
	_, err = cat.Profile.Update(ctx, []byte(`{"status":"Busy"}`))
	require.NoError(t, err)

	assert.Equal(t, []string{domain.KeyServices, domain.KeyProfile}, keys)
}

func TestCatalogReloadAndRestore(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStorage()
	cat, err := store.OpenCatalog(ctx, kv, store.DefaultContent())
	require.NoError(t, err)

	snap := cat.Snapshot()
	snap.Projects = []domain.Project{{ID: "imported", Title: "Imported"}}
	snap.Profile.Name = "Imported Owner"
	require.NoError(t, cat.Restore(ctx, snap))

	other, err := store.OpenCatalog(ctx, kv, domain.ContentSnapshot{})
	require.NoError(t, err)
	assert.Equal(t, "Imported Owner", other.Profile.Get().Name)
	assert.Len(t, other.Projects.List(), 1)

	kv.Put(domain.KeyProjects, []byte(`[]`))
	require.NoError(t, cat.Reload(ctx, domain.KeyProjects))
	assert.Empty(t, cat.Projects.List())
	assert.NoError(t, cat.Reload(ctx, "unknown-key"))
}

func TestLoadDefaultsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	content := `
profile:
  name: Yaml Owner
  socialLinks:
    github: https://github.com/yaml
projects:
  - id: "y1"
    title: From YAML
    techStack: [Go, Postgres]
    featured: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	snap, err := store.LoadDefaultsFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Yaml Owner", snap.Profile.Name)
	assert.Equal(t, "https://github.com/yaml", snap.Profile.SocialLinks.Github)
	require.Len(t, snap.Projects, 1)
	assert.Equal(t, []string{"Go", "Postgres"}, snap.Projects[0].TechStack)
	assert.Equal(t, store.DefaultContent().Services, snap.Services, "keys missing from the file keep built-in defaults")

	_, err = store.LoadDefaultsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestYAMLSnapshotRoundTrip(t *testing.T) {
	want := store.DefaultContent()
	raw, err := store.EncodeYAMLSnapshot(want)
	require.NoError(t, err)

	var got domain.ContentSnapshot
	require.NoError(t, store.DecodeYAMLSnapshot(raw, &got))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("yaml round trip (-want +got):\n%s", diff)
	}
}
