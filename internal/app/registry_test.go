package app

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Parley/internal/domain"
)

func TestRegistry_Register_And_Get(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	cid := domain.ConnectionID(uuid.NewString())

	u, err := registry.Register(cid, "alice", domain.DefaultRoom)
	req.NoError(err)
	req.Equal(cid, u.ID)
	req.Equal("alice", u.Username)
	req.Equal(domain.DefaultRoom, u.Room)
	req.False(u.JoinedAt.IsZero())

	got, ok := registry.Get(cid)
	req.True(ok)
	req.Same(u, got)
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	cid := domain.ConnectionID(uuid.NewString())

	_, err := registry.Register(cid, "alice", domain.DefaultRoom)
	req.NoError(err)

	_, err = registry.Register(cid, "bob", domain.DefaultRoom)
	req.ErrorIs(err, ErrDuplicateConnection)
}

func TestRegistry_Register_EmptyUsername(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	_, err := registry.Register("c1", "", domain.DefaultRoom)
	req.ErrorIs(err, domain.ErrUsernameEmpty)

	_, ok := registry.Get("c1")
	req.False(ok)
}

func TestRegistry_Unregister_Idempotent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	cid := domain.ConnectionID(uuid.NewString())

	_, err := registry.Register(cid, "alice", domain.DefaultRoom)
	req.NoError(err)

	// First unregister removes and returns the record.
	u, ok := registry.Unregister(cid)
	req.True(ok)
	req.Equal("alice", u.Username)

	// Second unregister is a no-op, not an error.
	u, ok = registry.Unregister(cid)
	req.False(ok)
	req.Nil(u)
}

func TestRegistry_UpdateRoom(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	cid := domain.ConnectionID(uuid.NewString())

	_, err := registry.Register(cid, "alice", domain.DefaultRoom)
	req.NoError(err)

	req.NoError(registry.UpdateRoom(cid, "random"))
	u, ok := registry.Get(cid)
	req.True(ok)
	req.Equal(domain.RoomName("random"), u.Room)

	req.ErrorIs(registry.UpdateRoom("missing", "random"), ErrUnknownConnection)
}

func TestRegistry_FindByUsername_EarliestWins(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	// Given two live connections sharing a username
	first, err := registry.Register("c1", "alice", domain.DefaultRoom)
	req.NoError(err)
	second, err := registry.Register("c2", "alice", domain.DefaultRoom)
	req.NoError(err)
	second.JoinedAt = first.JoinedAt.Add(time.Second)

	// When the username is resolved
	found, ok := registry.FindByUsername("alice")

	// Then the earliest registration wins
	req.True(ok)
	req.Equal(domain.ConnectionID("c1"), found.ID)

	_, ok = registry.FindByUsername("nobody")
	req.False(ok)
}
