// Package redis stores content keys as Redis strings.
package redis

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"

	"portfolio-backend/internal/domain"
)

// DefaultKeyPrefix namespaces content keys inside a shared Redis
const DefaultKeyPrefix = "portfolio:store:"

type KVRepository struct {
	client *redis.Client
	prefix string
}

// NewKVRepository stores key under prefix+key; an empty prefix uses DefaultKeyPrefix
func NewKVRepository(client *redis.Client, prefix string) *KVRepository {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &KVRepository{client: client, prefix: prefix}
}

func (r *KVRepository) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrStorageKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *KVRepository) Save(ctx context.Context, key string, data []byte) error {
	return r.client.Set(ctx, r.prefix+key, data, 0).Err()
}

func (r *KVRepository) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), r.prefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *KVRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

var _ domain.KVStorage = (*KVRepository)(nil)
