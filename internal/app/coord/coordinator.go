// Package coord holds the chat coordinator: one method per inbound
// intent, each a single atomic transition over the registry and the
// room store. The coordinator never touches the network; every method
// returns the data the transport needs to notify the right parties,
// or nil when the caller must emit nothing.
package coord

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/dkeye/Parley/internal/app"
)

// ErrUserNotFound is the only user-visible error the coordinator
// produces: a private message whose target has no live connection.
var ErrUserNotFound = errors.New("user not found")

// DefaultHistoryLimit caps how many log entries a room snapshot carries.
const DefaultHistoryLimit = 50

type Coordinator struct {
	Registry *app.Registry
	Rooms    *app.RoomStore

	// HistoryLimit bounds snapshot history; zero falls back to
	// DefaultHistoryLimit.
	HistoryLimit int

	// mu serializes all intents. Traffic at chat-room scale does not
	// justify per-room locking; the stores keep their own RWMutex so
	// read-only REST lookups stay off this lock.
	mu     sync.Mutex
	lastID int64
}

func New(registry *app.Registry, rooms *app.RoomStore, historyLimit int) *Coordinator {
	return &Coordinator{
		Registry:     registry,
		Rooms:        rooms,
		HistoryLimit: historyLimit,
	}
}

func (c *Coordinator) historyLimit() int {
	if c.HistoryLimit > 0 {
		return c.HistoryLimit
	}
	return DefaultHistoryLimit
}

// nextMessageID returns a time-derived, monotonically non-decreasing
// id. Callers must hold c.mu.
func (c *Coordinator) nextMessageID() string {
	now := time.Now().UnixMilli()
	if now < c.lastID {
		now = c.lastID
	}
	c.lastID = now
	return strconv.FormatInt(now, 10)
}
