// Package redis stores the user document under a single Redis key.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/strogmv/userstore/internal/adapter/repository/file"
	"github.com/strogmv/userstore/internal/domain"
	"github.com/strogmv/userstore/internal/port"
)

const DefaultKey = "userstore:users"

func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: addr,
	})
}

type UserStore struct {
	client *redis.Client
	key    string
}

func NewUserStore(client *redis.Client, key string) *UserStore {
	if key == "" {
		key = DefaultKey
	}
	return &UserStore{client: client, key: key}
}

var _ port.UserStore = (*UserStore)(nil)

func (s *UserStore) Load(ctx context.Context) (domain.Users, error) {
	b, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Users{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return file.Decode(b)
}

// Save stores the same indented document the file backend writes, with no expiry.
func (s *UserStore) Save(ctx context.Context, users domain.Users) error {
	b, err := file.Encode(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := s.client.Set(ctx, s.key, b, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

func (s *UserStore) Close() error {
	return s.client.Close()
}
