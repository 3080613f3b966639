package port

import (
	"context"

	"github.com/strogmv/userstore/internal/domain"
)

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users domain.Users
}

type CreateUserRequest struct {
	Number string `json:"number"`
	Status string `json:"status"`
}

type UpdateUserRequest struct {
	Number string `json:"-"`
	Status string `json:"status"`
}

type DeleteUserRequest struct {
	Number string
}

// MutationResponse is the body returned by every successful mutation.
type MutationResponse struct {
	Message string       `json:"message"`
	Users   domain.Users `json:"users"`
}

// Users is the record store service.
type Users interface {
	ListUsers(ctx context.Context, req ListUsersRequest) (ListUsersResponse, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (MutationResponse, error)
	UpdateUser(ctx context.Context, req UpdateUserRequest) (MutationResponse, error)
	DeleteUser(ctx context.Context, req DeleteUserRequest) (MutationResponse, error)
}
