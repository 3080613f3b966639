package port

import (
	"context"

	"github.com/strogmv/userstore/internal/domain"
)

type Publisher interface {
	PublishUserCreated(ctx context.Context, event domain.UserCreated) error
	PublishUserUpdated(ctx context.Context, event domain.UserUpdated) error
	PublishUserDeleted(ctx context.Context, event domain.UserDeleted) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) PublishUserCreated(context.Context, domain.UserCreated) error { return nil }
func (NopPublisher) PublishUserUpdated(context.Context, domain.UserUpdated) error { return nil }
func (NopPublisher) PublishUserDeleted(context.Context, domain.UserDeleted) error { return nil }
