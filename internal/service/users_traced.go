package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/strogmv/userstore/internal/port"
)

const tracerName = "github.com/strogmv/userstore/internal/service"

// UsersTraced records one span per service call.
type UsersTraced struct {
	base   port.Users
	tracer trace.Tracer
}

func NewUsersTraced(base port.Users) *UsersTraced {
	return &UsersTraced{base: base, tracer: otel.Tracer(tracerName)}
}

var _ port.Users = (*UsersTraced)(nil)

func (t *UsersTraced) ListUsers(ctx context.Context, req port.ListUsersRequest) (port.ListUsersResponse, error) {
	ctx, span := t.tracer.Start(ctx, "Users.ListUsers")
	defer span.End()
	resp, err := t.base.ListUsers(ctx, req)
	span.SetAttributes(attribute.Int("users.count", len(resp.Users)))
	return resp, end(span, err)
}

func (t *UsersTraced) CreateUser(ctx context.Context, req port.CreateUserRequest) (port.MutationResponse, error) {
	ctx, span := t.tracer.Start(ctx, "Users.CreateUser", trace.WithAttributes(attribute.String("user.number", req.Number)))
	defer span.End()
	resp, err := t.base.CreateUser(ctx, req)
	return resp, end(span, err)
}

func (t *UsersTraced) UpdateUser(ctx context.Context, req port.UpdateUserRequest) (port.MutationResponse, error) {
	ctx, span := t.tracer.Start(ctx, "Users.UpdateUser", trace.WithAttributes(attribute.String("user.number", req.Number)))
	defer span.End()
	resp, err := t.base.UpdateUser(ctx, req)
	return resp, end(span, err)
}

func (t *UsersTraced) DeleteUser(ctx context.Context, req port.DeleteUserRequest) (port.MutationResponse, error) {
	ctx, span := t.tracer.Start(ctx, "Users.DeleteUser", trace.WithAttributes(attribute.String("user.number", req.Number)))
	defer span.End()
	resp, err := t.base.DeleteUser(ctx, req)
	return resp, end(span, err)
}

func end(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
