// Package store holds the content stores: one ordered collection (or
// singleton record) per content type, loaded once at startup and written
// through to a domain.KVStorage on every mutation.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"portfolio-backend/internal/domain"
)

// creationStamper is implemented by entities that record when they were added
type creationStamper[T any] interface {
	WithCreatedAt(at time.Time) T
}

// Collection is the store for one ordered content collection.
// Items are kept most-recent-first because Add prepends.
type Collection[T domain.Entity[T]] struct {
	key      string
	storage  domain.KVStorage
	defaults []T
	logger   *slog.Logger
	ids      *IDGenerator
	now      func() time.Time
	feed     *Feed

	mu       sync.RWMutex
	items    []T
	revision uint64
}

// NewCollection loads key from storage. A missing key or a corrupted value
// yields defaults; any other storage error is returned.
func NewCollection[T domain.Entity[T]](ctx context.Context, storage domain.KVStorage, key string, defaults []T, opts ...Option) (*Collection[T], error) {
	o := buildOptions(opts)
	c := &Collection[T]{
		key:      key,
		storage:  storage,
		defaults: slices.Clone(defaults),
		logger:   o.logger.With("store", key),
		ids:      o.ids,
		now:      o.now,
		feed:     o.feed,
	}
	items, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	c.items = items
	return c, nil
}

func (c *Collection[T]) Key() string { return c.key }

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	raw, err := c.storage.Load(ctx, c.key)
	if errors.Is(err, domain.ErrStorageKeyNotFound) {
		return slices.Clone(c.defaults), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.key, err)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		// The corrupted value is dropped; the next write replaces it.
		c.logger.Warn("stored collection is corrupted, using defaults", "error", err, "bytes", len(raw))
		return slices.Clone(c.defaults), nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// List returns the collection in stored order
func (c *Collection[T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.items)
}

func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexOf(id); i >= 0 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Revision increases by one on every committed change
func (c *Collection[T]) Revision() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.revision
}

// Add assigns a fresh id, prepends the entity and persists the collection.
// The entity is stored as given; no field is validated.
func (c *Collection[T]) Add(ctx context.Context, entity T, opts ...MutateOption) (T, error) {
	var zero T

	c.mu.Lock()
	if err := checkRevision(c.revision, opts); err != nil {
		c.mu.Unlock()
		return zero, err
	}

	stored := entity.WithID(c.nextID())
	if st, ok := any(stored).(creationStamper[T]); ok {
		stored = st.WithCreatedAt(c.now().UTC())
	}

	next := make([]T, 0, len(c.items)+1)
	next = append(next, stored)
	next = append(next, c.items...)
	if err := c.persist(ctx, next); err != nil {
		c.mu.Unlock()
		return zero, err
	}
	c.items = next
	c.revision++
	ev := domain.ChangeEvent{Key: c.key, Kind: domain.ChangeAdded, ID: stored.EntityID(), Revision: c.revision}
	c.mu.Unlock()

	c.feed.Publish(ev)
	return stored, nil
}

// Update shallow-merges patch (a JSON object) into the entity with id.
// An unknown id is not an error: the result reports OutcomeNotFound and
// nothing is written.
func (c *Collection[T]) Update(ctx context.Context, id string, patch []byte, opts ...MutateOption) (domain.MutationResult, error) {
	if err := ValidatePatch(patch); err != nil {
		return domain.MutationResult{}, err
	}

	c.mu.Lock()
	if err := checkRevision(c.revision, opts); err != nil {
		c.mu.Unlock()
		return domain.MutationResult{}, err
	}

	i := c.indexOf(id)
	if i < 0 {
		res := domain.MutationResult{Outcome: domain.OutcomeNotFound, ID: id, Revision: c.revision}
		c.mu.Unlock()
		return res, nil
	}

	merged, err := applyPatch(c.items[i], patch)
	if err != nil {
		c.mu.Unlock()
		return domain.MutationResult{}, err
	}
	merged = merged.WithID(id)

	next := slices.Clone(c.items)
	next[i] = merged
	if err := c.persist(ctx, next); err != nil {
		c.mu.Unlock()
		return domain.MutationResult{}, err
	}
	c.items = next
	c.revision++
	res := domain.MutationResult{Outcome: domain.OutcomeUpdated, ID: id, Revision: c.revision}
	c.mu.Unlock()

	c.feed.Publish(domain.ChangeEvent{Key: c.key, Kind: domain.ChangeUpdated, ID: id, Revision: res.Revision})
	return res, nil
}

// Delete removes the entity with id. Unknown ids report OutcomeNotFound.
func (c *Collection[T]) Delete(ctx context.Context, id string, opts ...MutateOption) (domain.MutationResult, error) {
	c.mu.Lock()
	if err := checkRevision(c.revision, opts); err != nil {
		c.mu.Unlock()
		return domain.MutationResult{}, err
	}

	i := c.indexOf(id)
	if i < 0 {
		res := domain.MutationResult{Outcome: domain.OutcomeNotFound, ID: id, Revision: c.revision}
		c.mu.Unlock()
		return res, nil
	}

	next := slices.Delete(slices.Clone(c.items), i, i+1)
	if err := c.persist(ctx, next); err != nil {
		c.mu.Unlock()
		return domain.MutationResult{}, err
	}
	c.items = next
	c.revision++
	res := domain.MutationResult{Outcome: domain.OutcomeDeleted, ID: id, Revision: c.revision}
	c.mu.Unlock()

	c.feed.Publish(domain.ChangeEvent{Key: c.key, Kind: domain.ChangeDeleted, ID: id, Revision: res.Revision})
	return res, nil
}

// Replace swaps the whole collection, as used by imports
func (c *Collection[T]) Replace(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	c.mu.Lock()
	if err := c.persist(ctx, items); err != nil {
		c.mu.Unlock()
		return err
	}
	c.items = slices.Clone(items)
	c.revision++
	ev := domain.ChangeEvent{Key: c.key, Kind: domain.ChangeReloaded, Revision: c.revision}
	c.mu.Unlock()

	c.feed.Publish(ev)
	return nil
}

// Reload re-reads storage, picking up writes made by another process.
// The read happens under the write lock so a concurrent mutation cannot
// commit between the read and the swap.
func (c *Collection[T]) Reload(ctx context.Context) error {
	c.mu.Lock()
	items, err := c.load(ctx)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.items = items
	c.revision++
	ev := domain.ChangeEvent{Key: c.key, Kind: domain.ChangeReloaded, Revision: c.revision}
	c.mu.Unlock()

	c.feed.Publish(ev)
	return nil
}

// Subscribe registers fn for changes of this collection only
func (c *Collection[T]) Subscribe(fn func(domain.ChangeEvent)) func() {
	return subscribeKey(c.feed, c.key, fn)
}

func (c *Collection[T]) indexOf(id string) int {
	return slices.IndexFunc(c.items, func(item T) bool { return item.EntityID() == id })
}

// nextID skips ids already present, e.g. after a clock step backwards
func (c *Collection[T]) nextID() string {
	for {
		id := c.ids.Next()
		if c.indexOf(id) < 0 {
			return id
		}
	}
}

// persist writes the full collection; callers hold the write lock
func (c *Collection[T]) persist(ctx context.Context, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.storage.Save(ctx, c.key, data); err != nil {
		return fmt.Errorf("persist %s: %w", c.key, err)
	}
	return nil
}
