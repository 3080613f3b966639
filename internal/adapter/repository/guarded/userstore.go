// Package guarded wraps a remote user store with a circuit breaker.
package guarded

import (
	"context"
	"log/slog"
	"time"

	"github.com/strogmv/userstore/internal/domain"
	"github.com/strogmv/userstore/internal/pkg/circuitbreaker"
	"github.com/strogmv/userstore/internal/pkg/logger"
	"github.com/strogmv/userstore/internal/port"
)

// ErrCircuitOpen is returned without calling the backend while it is considered down.
var ErrCircuitOpen = circuitbreaker.ErrOpen

type UserStore struct {
	next    port.UserStore
	breaker *circuitbreaker.Breaker
	name    string
}

func NewUserStore(name string, next port.UserStore, threshold int, cooldown time.Duration) *UserStore {
	return &UserStore{
		next:    next,
		breaker: circuitbreaker.NewBreaker(threshold, cooldown, 1),
		name:    name,
	}
}

var _ port.UserStore = (*UserStore)(nil)

func (s *UserStore) Load(ctx context.Context) (users domain.Users, err error) {
	err = s.do(ctx, "load", func() error {
		var lerr error
		users, lerr = s.next.Load(ctx)
		return lerr
	})
	return users, err
}

func (s *UserStore) Save(ctx context.Context, users domain.Users) error {
	return s.do(ctx, "save", func() error {
		return s.next.Save(ctx, users)
	})
}

func (s *UserStore) State() circuitbreaker.State {
	return s.breaker.State()
}

func (s *UserStore) do(ctx context.Context, op string, fn func() error) error {
	before := s.breaker.State()
	err := s.breaker.Do(fn)
	if after := s.breaker.State(); after != before {
		logger.From(ctx).Warn("store circuit changed",
			slog.String("backend", s.name),
			slog.String("op", op),
			slog.String("from", before.String()),
			slog.String("to", after.String()),
		)
	}
	return err
}
