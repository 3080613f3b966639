package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strogmv/userstore/internal/domain"
)

func TestUserStore_LoadIsIsolatedCopy(t *testing.T) {
	s := NewUserStore(domain.User{Number: "1", Status: "a"})

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	got[0].Status = "changed"

	assert.Equal(t, "a", s.Snapshot()[0].Status)
}

func TestUserStore_SaveErrLeavesData(t *testing.T) {
	s := NewUserStore(domain.User{Number: "1"})
	s.SaveErr = errors.New("disk full")

	err := s.Save(context.Background(), domain.Users{})

	assert.EqualError(t, err, "disk full")
	assert.Len(t, s.Snapshot(), 1)
	assert.Zero(t, s.Saves())
}
