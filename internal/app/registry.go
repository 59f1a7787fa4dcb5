package app

import (
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/domain"
)

var (
	// ErrDuplicateConnection means a connection id was registered twice.
	// The coordinator treats it as a no-op; seeing it anywhere else is a
	// sequencing bug in the caller.
	ErrDuplicateConnection = errors.New("connection already registered")
	// ErrUnknownConnection means a room update was forced on an
	// unregistered connection. Programmer error, never user-visible.
	ErrUnknownConnection = errors.New("connection not registered")
)

// Registry is the single source of truth for who a connection is and
// which room it occupies.
type Registry struct {
	mu    sync.RWMutex
	users map[domain.ConnectionID]*domain.User
}

func NewRegistry() *Registry {
	return &Registry{users: make(map[domain.ConnectionID]*domain.User)}
}

func (r *Registry) Register(cid domain.ConnectionID, username string, room domain.RoomName) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[cid]; ok {
		return nil, ErrDuplicateConnection
	}
	u, err := domain.NewUser(cid, username, room)
	if err != nil {
		return nil, err
	}
	r.users[cid] = u
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Str("username", username).Str("room", string(room)).Msg("registered connection")
	return u, nil
}

func (r *Registry) Get(cid domain.ConnectionID) (*domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[cid]
	return u, ok
}

// Unregister removes and returns the user record. Unknown connections
// report ok=false; double-disconnect is a no-op, not an error.
func (r *Registry) Unregister(cid domain.ConnectionID) (*domain.User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[cid]
	if !ok {
		return nil, false
	}
	delete(r.users, cid)
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Msg("unregistered connection")
	return u, true
}

func (r *Registry) UpdateRoom(cid domain.ConnectionID, room domain.RoomName) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[cid]
	if !ok {
		return ErrUnknownConnection
	}
	u.Room = room
	log.Info().Str("module", "app.registry").Str("cid", string(cid)).Str("room", string(room)).Msg("updated room")
	return nil
}

// FindByUsername does a linear scan. Usernames are not unique; a
// collision resolves to the earliest-registered match so that routing
// stays deterministic for the lifetime of that connection.
func (r *Registry) FindByUsername(username string) (*domain.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found *domain.User
	for _, u := range r.users {
		if u.Username != username {
			continue
		}
		if found == nil || u.JoinedAt.Before(found.JoinedAt) {
			found = u
		}
	}
	return found, found != nil
}
