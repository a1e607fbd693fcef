package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"portfolio-backend/internal/domain"
)

// Singleton stores one record under a key, such as the owner profile.
type Singleton[T any] struct {
	key      string
	storage  domain.KVStorage
	fallback T
	logger   *slog.Logger
	feed     *Feed

	mu       sync.RWMutex
	value    T
	revision uint64
}

func NewSingleton[T any](ctx context.Context, storage domain.KVStorage, key string, fallback T, opts ...Option) (*Singleton[T], error) {
	o := buildOptions(opts)
	s := &Singleton[T]{
		key:      key,
		storage:  storage,
		fallback: fallback,
		logger:   o.logger.With("store", key),
		feed:     o.feed,
	}
	v, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.value = v
	return s, nil
}

func (s *Singleton[T]) Key() string { return s.key }

func (s *Singleton[T]) load(ctx context.Context) (T, error) {
	raw, err := s.storage.Load(ctx, s.key)
	if errors.Is(err, domain.ErrStorageKeyNotFound) {
		return s.fallback, nil
	}
	if err != nil {
		var zero T
		return zero, fmt.Errorf("load %s: %w", s.key, err)
	}

	// Stored values may omit fields added later; start from the fallback.
	v := s.fallback
	if err := json.Unmarshal(raw, &v); err != nil {
		s.logger.Warn("stored record is corrupted, using defaults", "error", err, "bytes", len(raw))
		return s.fallback, nil
	}
	return v, nil
}

func (s *Singleton[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

func (s *Singleton[T]) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Update shallow-merges patch into the record and persists it
func (s *Singleton[T]) Update(ctx context.Context, patch []byte, opts ...MutateOption) (T, error) {
	var zero T
	if err := ValidatePatch(patch); err != nil {
		return zero, err
	}

	s.mu.Lock()
	if err := checkRevision(s.revision, opts); err != nil {
		s.mu.Unlock()
		return zero, err
	}
	merged, err := applyPatch(s.value, patch)
	if err != nil {
		s.mu.Unlock()
		return zero, err
	}
	if err := s.persist(ctx, merged); err != nil {
		s.mu.Unlock()
		return zero, err
	}
	s.value = merged
	s.revision++
	ev := domain.ChangeEvent{Key: s.key, Kind: domain.ChangeUpdated, Revision: s.revision}
	s.mu.Unlock()

	s.feed.Publish(ev)
	return merged, nil
}

// Replace overwrites the record, as used by imports
func (s *Singleton[T]) Replace(ctx context.Context, v T) error {
	s.mu.Lock()
	if err := s.persist(ctx, v); err != nil {
		s.mu.Unlock()
		return err
	}
	s.value = v
	s.revision++
	ev := domain.ChangeEvent{Key: s.key, Kind: domain.ChangeReloaded, Revision: s.revision}
	s.mu.Unlock()

	s.feed.Publish(ev)
	return nil
}

// Reload re-reads storage under the write lock
func (s *Singleton[T]) Reload(ctx context.Context) error {
	s.mu.Lock()
	v, err := s.load(ctx)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.value = v
	s.revision++
	ev := domain.ChangeEvent{Key: s.key, Kind: domain.ChangeReloaded, Revision: s.revision}
	s.mu.Unlock()

	s.feed.Publish(ev)
	return nil
}

func (s *Singleton[T]) Subscribe(fn func(domain.ChangeEvent)) func() {
	return subscribeKey(s.feed, s.key, fn)
}

func (s *Singleton[T]) persist(ctx context.Context, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.key, err)
	}
	if err := s.storage.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("persist %s: %w", s.key, err)
	}
	return nil
}
