package guarded

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strogmv/userstore/internal/adapter/repository/memory"
	"github.com/strogmv/userstore/internal/domain"
	"github.com/strogmv/userstore/internal/pkg/circuitbreaker"
)

func TestUserStore_PassesThrough(t *testing.T) {
	inner := memory.NewUserStore(domain.User{Number: "1", Status: "a"})
	s := NewUserStore("memory", inner, 2, time.Minute)
	ctx := context.Background()

	users, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Users{{Number: "1", Status: "a"}}, users)

	require.NoError(t, s.Save(ctx, domain.Users{}))
	assert.Empty(t, inner.Snapshot())
}

func TestUserStore_FailsFastWhenOpen(t *testing.T) {
	inner := memory.NewUserStore()
	inner.LoadErr = errors.New("connection refused")
	s := NewUserStore("memory", inner, 2, time.Hour)
	ctx := context.Background()

	_, err := s.Load(ctx)
	assert.EqualError(t, err, "connection refused")
	_, err = s.Load(ctx)
	assert.EqualError(t, err, "connection refused")

	inner.LoadErr = nil
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, circuitbreaker.Open, s.State())
}
