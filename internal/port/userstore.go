package port

import (
	"context"

	"github.com/strogmv/userstore/internal/domain"
)

// UserStore loads and saves the full user document.
type UserStore interface {
	Load(ctx context.Context) (domain.Users, error)
	Save(ctx context.Context, users domain.Users) error
}
