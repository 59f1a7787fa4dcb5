package coord

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/domain"
)

// JoinResult is the snapshot handed to a freshly joined connection.
// Members includes the joiner; the transport derives the "user-joined"
// audience by excluding it.
type JoinResult struct {
	Room        domain.RoomName
	Username    string
	Members     []domain.Profile
	Messages    []domain.Message
	MemberCount int
}

// Join registers the connection and seats it in roomName (the default
// room when empty). A connection joins exactly once; a duplicate join
// and an unusable username are both no-ops.
func (c *Coordinator) Join(cid domain.ConnectionID, username string, roomName domain.RoomName) *JoinResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	if roomName == "" {
		roomName = domain.DefaultRoom
	}
	user, err := c.Registry.Register(cid, username, roomName)
	if err != nil {
		log.Warn().Err(err).Str("module", "coord").Str("cid", string(cid)).Msg("join rejected")
		return nil
	}
	c.Rooms.AddMember(roomName, cid)

	log.Info().Str("module", "coord").Str("cid", string(cid)).Str("username", username).Str("room", string(roomName)).Msg("joined")
	return &JoinResult{
		Room:        roomName,
		Username:    user.Username,
		Members:     c.roomProfiles(roomName),
		Messages:    c.Rooms.RecentMessages(roomName, c.historyLimit()),
		MemberCount: c.Rooms.MemberCount(roomName),
	}
}

// SwitchRoomResult describes one room change. OldRoomAudience is the
// membership left behind (post-removal); NewRoomMembers includes the
// mover.
type SwitchRoomResult struct {
	OldRoom            domain.RoomName
	NewRoom            domain.RoomName
	Username           string
	OldRoomAudience    []domain.ConnectionID
	OldRoomMemberCount int
	NewRoomMembers     []domain.Profile
	NewRoomMessages    []domain.Message
	NewRoomMemberCount int
}

// SwitchRoom atomically moves the connection between rooms: out of the
// old room's member and typing sets, into the new room's member set.
// Unknown connections and same-room switches are no-ops.
func (c *Coordinator) SwitchRoom(cid domain.ConnectionID, newRoom domain.RoomName) *SwitchRoomResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, ok := c.Registry.Get(cid)
	if !ok || newRoom == user.Room {
		return nil
	}
	oldRoom := user.Room

	c.Rooms.SetTyping(oldRoom, user.Username, false)
	c.Rooms.RemoveMember(oldRoom, cid)
	c.Rooms.AddMember(newRoom, cid)
	if err := c.Registry.UpdateRoom(cid, newRoom); err != nil {
		// Unreachable while c.mu serializes intents.
		log.Error().Err(err).Str("module", "coord").Str("cid", string(cid)).Msg("room update failed")
		return nil
	}

	log.Info().Str("module", "coord").Str("cid", string(cid)).Str("from", string(oldRoom)).Str("to", string(newRoom)).Msg("switched room")
	return &SwitchRoomResult{
		OldRoom:            oldRoom,
		NewRoom:            newRoom,
		Username:           user.Username,
		OldRoomAudience:    c.Rooms.Members(oldRoom),
		OldRoomMemberCount: c.Rooms.MemberCount(oldRoom),
		NewRoomMembers:     c.roomProfiles(newRoom),
		NewRoomMessages:    c.Rooms.RecentMessages(newRoom, c.historyLimit()),
		NewRoomMemberCount: c.Rooms.MemberCount(newRoom),
	}
}

// LeaveResult tells the transport who to inform after a disconnect.
type LeaveResult struct {
	Username    string
	Room        domain.RoomName
	Audience    []domain.ConnectionID
	MemberCount int
}

// Disconnect tears the connection down. Disconnects can race a
// partially completed join, so an unknown connection is a no-op.
func (c *Coordinator) Disconnect(cid domain.ConnectionID) *LeaveResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, ok := c.Registry.Unregister(cid)
	if !ok {
		return nil
	}
	c.Rooms.SetTyping(user.Room, user.Username, false)
	c.Rooms.RemoveMember(user.Room, cid)

	log.Info().Str("module", "coord").Str("cid", string(cid)).Str("room", string(user.Room)).Msg("disconnected")
	return &LeaveResult{
		Username:    user.Username,
		Room:        user.Room,
		Audience:    c.Rooms.Members(user.Room),
		MemberCount: c.Rooms.MemberCount(user.Room),
	}
}

// roomProfiles resolves a room's membership to public profiles.
// Membership and registry can only disagree mid-disconnect; entries
// without a registry record are skipped.
func (c *Coordinator) roomProfiles(room domain.RoomName) []domain.Profile {
	members := c.Rooms.Members(room)
	out := make([]domain.Profile, 0, len(members))
	for _, cid := range members {
		if u, ok := c.Registry.Get(cid); ok {
			out = append(out, u.Profile())
		}
	}
	return out
}
