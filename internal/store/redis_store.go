package store

import (
	"context"
	"errors"

	"github.com/go-redis/redis/v8"
)

// DefaultRedisPrefix namespaces collection keys.
const DefaultRedisPrefix = "marketplace:"

// RedisStore keeps each collection under one string key.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// OpenRedisStore connects to url and checks the server answers.
func OpenRedisStore(ctx context.Context, url, prefix string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, ioError("parse url", url, err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, ioError("ping", opt.Addr, err)
	}
	return NewRedisStore(client, prefix), nil
}

func (s *RedisStore) Load(ctx context.Context, name string) ([]byte, error) {
	doc, err := s.client.Get(ctx, s.prefix+name).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, ioError("get", name, err)
	}
	return doc, nil
}

func (s *RedisStore) Save(ctx context.Context, name string, doc []byte) error {
	if err := s.client.Set(ctx, s.prefix+name, doc, 0).Err(); err != nil {
		return ioError("set", name, err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
