package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/strogmv/userstore/internal/domain"
	"github.com/strogmv/userstore/internal/pkg/errors"
	"github.com/strogmv/userstore/internal/pkg/logger"
	"github.com/strogmv/userstore/internal/port"
)

const (
	MsgUserAdded   = "User added successfully"
	MsgUserUpdated = "User updated successfully"
	MsgUserDeleted = "User deleted successfully"

	ErrMsgUserExists   = "User already exists"
	ErrMsgUserNotFound = "User not found"
	ErrMsgSaveFailed   = "Failed to save user"
	ErrMsgUpdateFailed = "Failed to update user"
	ErrMsgDeleteFailed = "Failed to delete user"
)

// UsersImpl runs every request as load, mutate, save against Store.
// Nothing is cached between requests.
type UsersImpl struct {
	Store     port.UserStore
	publisher port.Publisher

	// Without serialization two mutations may interleave their
	// read-modify-write cycles and one of them is lost.
	serialize bool
	mu        sync.Mutex
}

type Option func(*UsersImpl)

// WithPublisher notifies p after every successful save.
func WithPublisher(p port.Publisher) Option {
	return func(s *UsersImpl) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithSerializedWrites makes mutations run one at a time.
func WithSerializedWrites(enabled bool) Option {
	return func(s *UsersImpl) { s.serialize = enabled }
}

func NewUsersImpl(store port.UserStore, opts ...Option) *UsersImpl {
	s := &UsersImpl{Store: store, publisher: port.NopPublisher{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ port.Users = (*UsersImpl)(nil)

func (s *UsersImpl) ListUsers(ctx context.Context, req port.ListUsersRequest) (resp port.ListUsersResponse, err error) {
	resp.Users = s.load(ctx)
	return resp, nil
}

func (s *UsersImpl) CreateUser(ctx context.Context, req port.CreateUserRequest) (resp port.MutationResponse, err error) {
	unlock := s.lock()
	defer unlock()

	users := s.load(ctx)
	if users.IndexOf(req.Number) != -1 {
		return resp, errors.Conflict(ErrMsgUserExists)
	}

	users = append(users, domain.User{Number: req.Number, Status: req.Status})
	if err := s.save(ctx, users); err != nil {
		return resp, errors.Internal(ErrMsgSaveFailed, err)
	}
	s.notify(ctx, "created", func(ctx context.Context) error {
		return s.publisher.PublishUserCreated(ctx, domain.UserCreated{Number: req.Number, Status: req.Status})
	})

	resp.Message = MsgUserAdded
	resp.Users = users
	return resp, nil
}

func (s *UsersImpl) UpdateUser(ctx context.Context, req port.UpdateUserRequest) (resp port.MutationResponse, err error) {
	unlock := s.lock()
	defer unlock()

	users := s.load(ctx)
	idx := users.IndexOf(req.Number)
	if idx == -1 {
		return resp, errors.NotFound(ErrMsgUserNotFound)
	}

	users[idx].Status = req.Status
	if err := s.save(ctx, users); err != nil {
		return resp, errors.Internal(ErrMsgUpdateFailed, err)
	}
	s.notify(ctx, "updated", func(ctx context.Context) error {
		return s.publisher.PublishUserUpdated(ctx, domain.UserUpdated{Number: req.Number, Status: req.Status})
	})

	resp.Message = MsgUserUpdated
	resp.Users = users
	return resp, nil
}

func (s *UsersImpl) DeleteUser(ctx context.Context, req port.DeleteUserRequest) (resp port.MutationResponse, err error) {
	unlock := s.lock()
	defer unlock()

	users := s.load(ctx)
	filtered := users.Without(req.Number)
	if len(filtered) == len(users) {
		return resp, errors.NotFound(ErrMsgUserNotFound)
	}

	if err := s.save(ctx, filtered); err != nil {
		return resp, errors.Internal(ErrMsgDeleteFailed, err)
	}
	removed := len(users) - len(filtered)
	s.notify(ctx, "deleted", func(ctx context.Context) error {
		return s.publisher.PublishUserDeleted(ctx, domain.UserDeleted{Number: req.Number, Removed: removed})
	})

	resp.Message = MsgUserDeleted
	resp.Users = filtered
	return resp, nil
}

// load never fails: an unreadable store is reported as empty.
func (s *UsersImpl) load(ctx context.Context) domain.Users {
	users, err := s.Store.Load(context.WithoutCancel(ctx))
	if err != nil {
		logger.From(ctx).Error("Error loading database", slog.Any("error", err))
		return domain.Users{}
	}
	if users == nil {
		return domain.Users{}
	}
	return users
}

// save runs to completion even if the caller goes away.
func (s *UsersImpl) save(ctx context.Context, users domain.Users) error {
	if err := s.Store.Save(context.WithoutCancel(ctx), users); err != nil {
		logger.From(ctx).Error("Error saving database", slog.Any("error", err))
		return err
	}
	return nil
}

func (s *UsersImpl) notify(ctx context.Context, kind string, publish func(context.Context) error) {
	if err := publish(context.WithoutCancel(ctx)); err != nil {
		logger.From(ctx).Warn("publish user event failed", slog.String("event", kind), slog.Any("error", err))
	}
}

func (s *UsersImpl) lock() func() {
	if !s.serialize {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}
