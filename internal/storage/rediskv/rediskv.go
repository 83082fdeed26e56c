// Package rediskv implements storage.Store on Redis, for deployments
// where several clients share one backend.
package rediskv

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/savora-app/savora/internal/storage"
)

type Store struct {
	client *redis.Client
}

// Open builds a client for the given address. Password and db are
// optional in the same way they are for the underlying driver.
func Open(addr, password string, db int) *Store {
	opts := &redis.Options{Addr: addr}
	if password != "" {
		opts.Password = password
	}
	if db != 0 {
		opts.DB = db
	}
	return New(redis.NewClient(opts))
}

func New(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *Store) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}
