package coord

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/domain"
)

// MessageResult carries a stored room message plus its audience: every
// member of the room, sender included, so the sender renders the
// server-assigned id and timestamp.
type MessageResult struct {
	Message  domain.Message
	Audience []domain.ConnectionID
}

// SendMessage stamps text with the sender's identity and current room
// and appends it to that room's log. Unknown connections are no-ops;
// empty text is allowed.
func (c *Coordinator) SendMessage(cid domain.ConnectionID, text string) *MessageResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, ok := c.Registry.Get(cid)
	if !ok {
		return nil
	}
	msg := domain.NewTextMessage(c.nextMessageID(), user.Username, user.Room, text)
	c.Rooms.AppendMessage(user.Room, msg)

	log.Debug().Str("module", "coord").Str("room", string(user.Room)).Str("username", user.Username).Msg("message stored")
	return &MessageResult{
		Message:  msg,
		Audience: c.Rooms.Members(user.Room),
	}
}

// PrivateMessageResult routes a direct message. The message is never
// written to any room log.
type PrivateMessageResult struct {
	Message  domain.Message
	TargetID domain.ConnectionID
}

// SendPrivateMessage resolves targetUsername to a live connection.
// An unknown sender is a no-op (nil, nil); an unresolved target is the
// one user-visible error, ErrUserNotFound.
func (c *Coordinator) SendPrivateMessage(cid domain.ConnectionID, targetUsername, text string) (*PrivateMessageResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	sender, ok := c.Registry.Get(cid)
	if !ok {
		return nil, nil
	}
	target, ok := c.Registry.FindByUsername(targetUsername)
	if !ok {
		log.Warn().Str("module", "coord").Str("from", sender.Username).Str("to", targetUsername).Msg("private target not found")
		return nil, ErrUserNotFound
	}
	msg := domain.NewPrivateMessage(c.nextMessageID(), sender.Username, targetUsername, text)
	return &PrivateMessageResult{Message: msg, TargetID: target.ID}, nil
}

// TypingResult names the typist and the room mates to tell. The
// originator is never in the audience.
type TypingResult struct {
	Username string
	Room     domain.RoomName
	IsTyping bool
	Audience []domain.ConnectionID
}

func (c *Coordinator) StartTyping(cid domain.ConnectionID) *TypingResult {
	return c.setTyping(cid, true)
}

func (c *Coordinator) StopTyping(cid domain.ConnectionID) *TypingResult {
	return c.setTyping(cid, false)
}

func (c *Coordinator) setTyping(cid domain.ConnectionID, isTyping bool) *TypingResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, ok := c.Registry.Get(cid)
	if !ok {
		return nil
	}
	c.Rooms.SetTyping(user.Room, user.Username, isTyping)

	audience := make([]domain.ConnectionID, 0)
	for _, member := range c.Rooms.Members(user.Room) {
		if member != cid {
			audience = append(audience, member)
		}
	}
	return &TypingResult{
		Username: user.Username,
		Room:     user.Room,
		IsTyping: isTyping,
		Audience: audience,
	}
}

// OnlineUsers is a pure read of the caller's room membership.
func (c *Coordinator) OnlineUsers(cid domain.ConnectionID) []domain.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, ok := c.Registry.Get(cid)
	if !ok {
		return nil
	}
	return c.roomProfiles(user.Room)
}
