package store_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/repository/memory"
	"portfolio-backend/internal/store"
)

func fixedClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return t
	}
}

func newProjects(t *testing.T, kv domain.KVStorage, defaults []domain.Project) *store.Collection[domain.Project] {
	t.Helper()
	c, err := store.NewCollection(context.Background(), kv, domain.KeyProjects, defaults,
		store.WithIDGenerator(store.NewIDGenerator(fixedClock())))
	require.NoError(t, err)
	return c
}

func TestCollectionAddThenList(t *testing.T) {
	ctx := context.Background()
	c := newProjects(t, memory.NewKVStorage(), nil)

	added, err := c.Add(ctx, domain.Project{
		Title:     "X",
		Purpose:   "Y",
		TechStack: []string{"A", "B"},
		Featured:  true,
	})
	require.NoError(t, err)

	list := c.List()
	require.Len(t, list, 1)
	first := list[0]
	assert.NotEmpty(t, first.ID)
	assert.Equal(t, added.ID, first.ID)
	assert.Equal(t, "X", first.Title)
	assert.Equal(t, "Y", first.Purpose)
	assert.Equal(t, []string{"A", "B"}, first.TechStack)
	assert.True(t, first.Featured)
	assert.Empty(t, first.Outcome)
}

func TestCollectionAddPrependsWithDistinctIDs(t *testing.T) {
	ctx := context.Background()
	c := newProjects(t, memory.NewKVStorage(), []domain.Project{{ID: "seed", Title: "Seed"}})

	a, err := c.Add(ctx, domain.Project{Title: "a"})
	require.NoError(t, err)
	b, err := c.Add(ctx, domain.Project{Title: "b"})
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID, "same-millisecond adds must not collide")

	list := c.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{"b", "a", "Seed"}, []string{list[0].Title, list[1].Title, list[2].Title})
}

func TestCollectionAddIgnoresCallerID(t *testing.T) {
	c := newProjects(t, memory.NewKVStorage(), nil)

	added, err := c.Add(context.Background(), domain.Project{ID: "chosen", Title: "x"})
	require.NoError(t, err)
	assert.NotEqual(t, "chosen", added.ID)
}

func TestCollectionAddStampsCreatedAt(t *testing.T) {
	now := time.Date(2025, time.June, 2, 8, 30, 0, 0, time.UTC)
	c, err := store.NewCollection(context.Background(), memory.NewKVStorage(), domain.KeyGallery, []domain.GalleryItem{},
		store.WithClock(func() time.Time { return now }))
	require.NoError(t, err)

	item, err := c.Add(context.Background(), domain.GalleryItem{Title: "shot", Type: domain.GalleryTypeImage})
	require.NoError(t, err)
	assert.True(t, item.CreatedAt.Equal(now))
}

func TestCollectionUpdateShallowMerge(t *testing.T) {
	ctx := context.Background()
	c := newProjects(t, memory.NewKVStorage(), []domain.Project{{
		ID:        "p1",
		Title:     "Old",
		Purpose:   "Keep me",
		TechStack: []string{"Go", "SQL"},
	}})

	res, err := c.Update(ctx, "p1", []byte(`{"title":"New","techStack":["Rust"],"id":"hijack"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUpdated, res.Outcome)

	got, ok := c.Get("p1")
	require.True(t, ok)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, "Keep me", got.Purpose, "fields absent from the patch are unchanged")
	assert.Equal(t, []string{"Rust"}, got.TechStack, "arrays are replaced, not merged")

	_, hijacked := c.Get("hijack")
	assert.False(t, hijacked)
}

func TestCollectionUpdateUnknownIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStorage()
	c := newProjects(t, kv, []domain.Project{{ID: "p1", Title: "Only"}})
	before := c.List()

	res, err := c.Update(ctx, "missing", []byte(`{"title":"ghost"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNotFound, res.Outcome)
	assert.Equal(t, before, c.List())

	_, err = kv.Load(ctx, domain.KeyProjects)
	assert.ErrorIs(t, err, domain.ErrStorageKeyNotFound, "nothing is written for unknown ids")
}

func TestCollectionUpdateRejectsBadPatch(t *testing.T) {
	c := newProjects(t, memory.NewKVStorage(), []domain.Project{{ID: "p1"}})

	tests := []struct {
		name  string
		patch string
	}{
		{"not json", `{title`},
		{"array", `["title"]`},
		{"wrong field type", `{"featured":"yes"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Update(context.Background(), "p1", []byte(tt.patch))
			assert.ErrorIs(t, err, store.ErrInvalidPatch)
		})
	}
	assert.Equal(t, uint64(0), c.Revision())
}

func TestCollectionDelete(t *testing.T) {
	ctx := context.Background()
	c := newProjects(t, memory.NewKVStorage(), []domain.Project{{ID: "p1"}, {ID: "p2"}})

	res, err := c.Delete(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDeleted, res.Outcome)

	_, ok := c.Get("p1")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	res, err = c.Delete(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeNotFound, res.Outcome)
	assert.Equal(t, 1, c.Len())
}

func TestCollectionRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStorage()
	c := newProjects(t, kv, nil)

	_, err := c.Add(ctx, domain.Project{Title: "one", TechStack: []string{"Go"}, GithubURL: "https://github.com/x/one"})
	require.NoError(t, err)
	_, err = c.Add(ctx, domain.Project{Title: "two", Featured: true})
	require.NoError(t, err)

	reloaded := newProjects(t, kv, []domain.Project{{ID: "default"}})
	if diff := cmp.Diff(c.List(), reloaded.List()); diff != "" {
		t.Fatalf("reloaded collection differs (-saved +loaded):\n%s", diff)
	}
}

func TestCollectionLoadFallbacks(t *testing.T) {
	defaults := []domain.Project{{ID: "d1", Title: "Default"}}

	t.Run("absent key uses defaults", func(t *testing.T) {
		c := newProjects(t, memory.NewKVStorage(), defaults)
		assert.Equal(t, defaults, c.List())
	})

	t.Run("corrupt value uses defaults and logs", func(t *testing.T) {
		kv := memory.NewKVStorage()
		kv.Put(domain.KeyProjects, []byte(`{not json`))
		var logs bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&logs, nil))

		c, err := store.NewCollection(context.Background(), kv, domain.KeyProjects, defaults, store.WithLogger(logger))
		require.NoError(t, err)
		assert.Equal(t, defaults, c.List())
		assert.Contains(t, logs.String(), "corrupted")
	})

	t.Run("stored null is an empty collection", func(t *testing.T) {
		kv := memory.NewKVStorage()
		kv.Put(domain.KeyProjects, []byte(`null`))
		c := newProjects(t, kv, defaults)
		assert.Empty(t, c.List())
	})

	t.Run("storage error fails construction", func(t *testing.T) {
		_, err := store.NewCollection(context.Background(), failingLoad{}, domain.KeyProjects, defaults)
		assert.Error(t, err)
	})
}

type failingLoad struct{}

func (failingLoad) Load(context.Context, string) ([]byte, error) { return nil, errors.New("disk gone") }
func (failingLoad) Save(context.Context, string, []byte) error   { return nil }
func (failingLoad) Keys(context.Context) ([]string, error)       { return nil, nil }

func TestCollectionPersistFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStorage()
	c := newProjects(t, kv, []domain.Project{{ID: "p1", Title: "stable"}})
	boom := errors.New("quota exceeded")
	kv.FailSaves(boom)

	_, err := c.Add(ctx, domain.Project{Title: "new"})
	assert.ErrorIs(t, err, boom)

	_, err = c.Update(ctx, "p1", []byte(`{"title":"changed"}`))
	assert.ErrorIs(t, err, boom)

	_, err = c.Delete(ctx, "p1")
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, []domain.Project{{ID: "p1", Title: "stable"}}, c.List())
	assert.Equal(t, uint64(0), c.Revision())
}

func TestCollectionExpectRevision(t *testing.T) {
	ctx := context.Background()
	c := newProjects(t, memory.NewKVStorage(), []domain.Project{{ID: "p1"}})

	res, err := c.Update(ctx, "p1", []byte(`{"title":"first"}`), store.ExpectRevision(0))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Revision)

	_, err = c.Update(ctx, "p1", []byte(`{"title":"stale"}`), store.ExpectRevision(0))
	assert.ErrorIs(t, err, domain.ErrRevisionConflict)

	got, _ := c.Get("p1")
	assert.Equal(t, "first", got.Title)
}

func TestCollectionSubscribe(t *testing.T) {
	ctx := context.Background()
	c := newProjects(t, memory.NewKVStorage(), nil)

	var events []domain.ChangeEvent
	unsubscribe := c.Subscribe(func(ev domain.ChangeEvent) { events = append(events, ev) })

	added, err := c.Add(ctx, domain.Project{Title: "x"})
	require.NoError(t, err)
	_, err = c.Delete(ctx, added.ID)
	require.NoError(t, err)

	unsubscribe()
	_, err = c.Add(ctx, domain.Project{Title: "after"})
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, domain.ChangeAdded, events[0].Kind)
	assert.Equal(t, added.ID, events[0].ID)
	assert.Equal(t, domain.ChangeDeleted, events[1].Kind)
	assert.Equal(t, uint64(2), events[1].Revision)
}

func TestCollectionReloadPicksUpExternalWrite(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStorage()
	c := newProjects(t, kv, nil)

	external, err := json.Marshal([]domain.Project{{ID: "ext", Title: "from elsewhere"}})
	require.NoError(t, err)
	kv.Put(domain.KeyProjects, external)

	require.NoError(t, c.Reload(ctx))
	got, ok := c.Get("ext")
	require.True(t, ok)
	assert.Equal(t, "from elsewhere", got.Title)
}

// gatedLoad blocks the next Load after arm until release is closed
type gatedLoad struct {
	*memory.Storage
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func newGatedLoad() *gatedLoad {
	return &gatedLoad{Storage: memory.NewKVStorage(), entered: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedLoad) Load(ctx context.Context, key string) ([]byte, error) {
	if g.armed.CompareAndSwap(true, false) {
		close(g.entered)
		<-g.release
	}
	return g.Storage.Load(ctx, key)
}

func TestCollectionReloadKeepsConcurrentAdd(t *testing.T) {
	ctx := context.Background()
	kv := newGatedLoad()
	c := newProjects(t, kv, nil)

	kv.armed.Store(true)
	reloaded := make(chan error, 1)
	go func() { reloaded <- c.Reload(ctx) }()
	<-kv.entered

	type addResult struct {
		p   domain.Project
		err error
	}
	added := make(chan addResult, 1)
	go func() {
		p, err := c.Add(ctx, domain.Project{Title: "acked"})
		added <- addResult{p, err}
	}()

	select {
	case <-added:
		t.Fatal("add committed while reload was reading storage")
	case <-time.After(50 * time.Millisecond):
	}

	close(kv.release)
	require.NoError(t, <-reloaded)
	res := <-added
	require.NoError(t, res.err)

	_, ok := c.Get(res.p.ID)
	assert.True(t, ok, "acknowledged add must stay in memory")

	_, err := c.Add(ctx, domain.Project{Title: "later"})
	require.NoError(t, err)

	raw, err := kv.Storage.Load(ctx, domain.KeyProjects)
	require.NoError(t, err)
	var stored []domain.Project
	require.NoError(t, json.Unmarshal(raw, &stored))
	titles := make([]string, 0, len(stored))
	for _, p := range stored {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"later", "acked"}, titles)
}

func TestSingletonReloadKeepsConcurrentUpdate(t *testing.T) {
	ctx := context.Background()
	kv := newGatedLoad()
	s, err := store.NewSingleton(ctx, kv, domain.KeyProfile, domain.Profile{Name: "Owner"})
	require.NoError(t, err)

	kv.armed.Store(true)
	reloaded := make(chan error, 1)
	go func() { reloaded <- s.Reload(ctx) }()
	<-kv.entered

	updated := make(chan error, 1)
	go func() {
		_, err := s.Update(ctx, []byte(`{"title":"Architect"}`))
		updated <- err
	}()

	select {
	case <-updated:
		t.Fatal("update committed while reload was reading storage")
	case <-time.After(50 * time.Millisecond):
	}

	close(kv.release)
	require.NoError(t, <-reloaded)
	require.NoError(t, <-updated)
	assert.Equal(t, "Architect", s.Get().Title)
}

func TestCollectionConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	c := newProjects(t, memory.NewKVStorage(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Add(ctx, domain.Project{Title: "p"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	seen := map[string]bool{}
	for _, p := range c.List() {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
	assert.Len(t, seen, 20)
	assert.Equal(t, uint64(20), c.Revision())
}
