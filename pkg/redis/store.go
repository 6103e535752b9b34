package redis

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"
)

// ErrMiss is returned by JSONStore.Get when the key is absent or expired.
var ErrMiss = errors.New("redis: key not found")

// JSONStore keeps JSON-encoded values of type T under a key prefix. Every
// write refreshes the TTL.
type JSONStore[T any] struct {
	rdb    goredis.Cmdable
	prefix string
	ttl    time.Duration
}

func NewJSONStore[T any](rdb goredis.Cmdable, prefix string, ttl time.Duration) *JSONStore[T] {
	return &JSONStore[T]{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *JSONStore[T]) Key(id string) string { return s.prefix + id }

func (s *JSONStore[T]) Get(ctx context.Context, id string) (*T, error) {
	b, err := s.rdb.Get(ctx, s.Key(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *JSONStore[T]) Set(ctx context.Context, id string, v *T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.Key(id), b, s.ttl).Err()
}

func (s *JSONStore[T]) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, s.Key(id)).Err()
}
