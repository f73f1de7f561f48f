package storage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// maxUpdateRetries bounds the optimistic-concurrency retry loop in Update.
const maxUpdateRetries = 16

// RedisKV is the Redis-backed KV implementation. All keys are namespaced
// under a common prefix.
type RedisKV struct {
	client *redis.Client
	prefix string
}

func NewRedisKV(client *redis.Client, prefix string) *RedisKV {
	return &RedisKV{client: client, prefix: prefix}
}

func (s *RedisKV) key(k string) string {
	return s.prefix + ":" + k
}

func (s *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get key")
	}
	return data, nil
}

func (s *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return errors.Wrap(err, "failed to set key")
	}
	return nil
}

func (s *RedisKV) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return errors.Wrap(err, "failed to delete key")
	}
	return nil
}

// Update performs the read-modify-write under WATCH so a concurrent writer
// on the same key aborts the transaction instead of losing an update.
func (s *RedisKV) Update(ctx context.Context, key string, fn UpdateFunc) error {
	prefixed := s.key(key)

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, prefixed).Bytes()
		if err != nil && err != redis.Nil {
			return errors.Wrap(err, "failed to read key in transaction")
		}
		if err == redis.Nil {
			current = nil
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if next == nil {
				pipe.Del(ctx, prefixed)
			} else {
				pipe.Set(ctx, prefixed, next, 0)
			}
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.client.Watch(ctx, txf, prefixed)
		if err == redis.TxFailedErr {
			continue
		}
		return err
	}
	return errors.New("update transaction retries exhausted")
}
