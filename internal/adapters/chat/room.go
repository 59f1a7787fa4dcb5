package chat

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/domain"
)

type roomSnapshot struct {
	Type     string           `json:"type"`
	Room     domain.RoomName  `json:"room"`
	Users    []domain.Profile `json:"users"`
	Messages []domain.Message `json:"messages"`
}

type memberEvent struct {
	Type      string    `json:"type"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
	UserCount int       `json:"userCount"`
}

func (ctl *ChatWSController) handleJoin(cid domain.ConnectionID, c *ChatConn, data []byte) {
	type joinPayload struct {
		Type     string `json:"type"`
		Username string `json:"username"`
		Room     string `json:"room,omitempty"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "chat").Msg("bad join payload")
		ctl.sendError(cid, c, "bad_payload")
		return
	}
	room := p.Room
	if len(room) > domain.MaxRoomNameLen {
		room = room[:domain.MaxRoomNameLen]
	}

	res := ctl.Coord.Join(cid, p.Username, domain.RoomName(room))
	if res == nil {
		return
	}

	ctl.sendJSON(cid, c, roomSnapshot{
		Type:     "joined-room",
		Room:     res.Room,
		Users:    res.Members,
		Messages: res.Messages,
	})
	ctl.broadcastProfiles(res.Members, cid, memberEvent{
		Type:      "user-joined",
		Username:  res.Username,
		Timestamp: time.Now().UTC(),
		UserCount: res.MemberCount,
	})
}

func (ctl *ChatWSController) handleSwitchRoom(cid domain.ConnectionID, c *ChatConn, data []byte) {
	type switchPayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
	}
	var p switchPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Room == "" {
		log.Error().Err(err).Str("module", "chat").Msg("bad switch payload")
		ctl.sendError(cid, c, "bad_payload")
		return
	}
	room := p.Room
	if len(room) > domain.MaxRoomNameLen {
		room = room[:domain.MaxRoomNameLen]
	}

	res := ctl.Coord.SwitchRoom(cid, domain.RoomName(room))
	if res == nil {
		return
	}

	ctl.broadcast(res.OldRoomAudience, cid, memberEvent{
		Type:      "user-left",
		Username:  res.Username,
		Timestamp: time.Now().UTC(),
		UserCount: res.OldRoomMemberCount,
	})
	ctl.sendJSON(cid, c, roomSnapshot{
		Type:     "joined-room",
		Room:     res.NewRoom,
		Users:    res.NewRoomMembers,
		Messages: res.NewRoomMessages,
	})
	ctl.broadcastProfiles(res.NewRoomMembers, cid, memberEvent{
		Type:      "user-joined",
		Username:  res.Username,
		Timestamp: time.Now().UTC(),
		UserCount: res.NewRoomMemberCount,
	})
}

// broadcastProfiles fans v out to a profile list, skipping exclude.
func (ctl *ChatWSController) broadcastProfiles(members []domain.Profile, exclude domain.ConnectionID, v any) {
	for _, m := range members {
		if m.ID == exclude {
			continue
		}
		ctl.sendTo(m.ID, v)
	}
}

func (ctl *ChatWSController) sendError(cid domain.ConnectionID, c *ChatConn, message string) {
	ctl.sendJSON(cid, c, struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}{
		Type:    "error",
		Message: message,
	})
}
