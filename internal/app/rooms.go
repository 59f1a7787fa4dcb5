package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/domain"
)

// roomState bundles everything a room owns: membership, log, typing set.
type roomState struct {
	members  map[domain.ConnectionID]struct{}
	messages []domain.Message
	typing   map[string]struct{}
}

func newRoomState() *roomState {
	return &roomState{
		members: make(map[domain.ConnectionID]struct{}),
		typing:  make(map[string]struct{}),
	}
}

// RoomInfo is a read-only view for APIs.
type RoomInfo struct {
	Name        domain.RoomName `json:"name"`
	MemberCount int             `json:"member_count"`
}

// RoomStore is a threadsafe in-memory room table. Rooms are created on
// first reference and never removed, so a room's log outlives its
// membership for the life of the process.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[domain.RoomName]*roomState

	// retention caps each room's log at appendMessage time; 0 keeps
	// the log unbounded.
	retention int
}

func NewRoomStore(retention int) *RoomStore {
	return &RoomStore{
		rooms:     make(map[domain.RoomName]*roomState),
		retention: retention,
	}
}

// ensure returns the room's state, creating it if absent.
// Callers must hold s.mu for writing.
func (s *RoomStore) ensure(name domain.RoomName) *roomState {
	st, ok := s.rooms[name]
	if !ok {
		st = newRoomState()
		s.rooms[name] = st
		log.Info().Str("module", "app.rooms").Str("room", string(name)).Msg("room created")
	}
	return st
}

func (s *RoomStore) EnsureRoom(name domain.RoomName) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(name)
}

func (s *RoomStore) AddMember(name domain.RoomName, cid domain.ConnectionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensure(name).members[cid] = struct{}{}
}

// RemoveMember is a no-op for non-members and unknown rooms.
func (s *RoomStore) RemoveMember(name domain.RoomName, cid domain.ConnectionID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.rooms[name]; ok {
		delete(st.members, cid)
	}
}

func (s *RoomStore) AppendMessage(name domain.RoomName, msg domain.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.ensure(name)
	st.messages = append(st.messages, msg)
	if s.retention > 0 && len(st.messages) > s.retention {
		st.messages = st.messages[len(st.messages)-s.retention:]
	}
}

// RecentMessages returns up to limit messages in append order, fewest
// first. Unknown rooms yield an empty slice.
func (s *RoomStore) RecentMessages(name domain.RoomName, limit int) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.rooms[name]
	if !ok {
		return nil
	}
	msgs := st.messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]domain.Message, len(msgs))
	copy(out, msgs)
	return out
}

func (s *RoomStore) Members(name domain.RoomName) []domain.ConnectionID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.rooms[name]
	if !ok {
		return nil
	}
	out := make([]domain.ConnectionID, 0, len(st.members))
	for cid := range st.members {
		out = append(out, cid)
	}
	return out
}

func (s *RoomStore) MemberCount(name domain.RoomName) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.rooms[name]; ok {
		return len(st.members)
	}
	return 0
}

// SetTyping adds or removes username from the room's typing set.
// Redundant transitions are no-ops.
func (s *RoomStore) SetTyping(name domain.RoomName, username string, isTyping bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.rooms[name]
	if !ok {
		if !isTyping {
			return
		}
		st = s.ensure(name)
	}
	if isTyping {
		st.typing[username] = struct{}{}
	} else {
		delete(st.typing, username)
	}
}

func (s *RoomStore) TypingUsers(name domain.RoomName) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.rooms[name]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(st.typing))
	for u := range st.typing {
		out = append(out, u)
	}
	return out
}

// List snapshots every room for the REST surface.
func (s *RoomStore) List() []RoomInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RoomInfo, 0, len(s.rooms))
	for name, st := range s.rooms {
		out = append(out, RoomInfo{Name: name, MemberCount: len(st.members)})
	}
	return out
}
