package chat

import (
	"time"

	"github.com/dkeye/Parley/internal/app/coord"
	"github.com/dkeye/Parley/internal/domain"
)

func (ctl *ChatWSController) handleTyping(cid domain.ConnectionID, isTyping bool) {
	var res *coord.TypingResult
	if isTyping {
		res = ctl.Coord.StartTyping(cid)
	} else {
		res = ctl.Coord.StopTyping(cid)
	}
	if res == nil {
		return
	}
	ctl.broadcast(res.Audience, cid, struct {
		Type     string `json:"type"`
		Username string `json:"username"`
		IsTyping bool   `json:"isTyping"`
	}{
		Type:     "user-typing",
		Username: res.Username,
		IsTyping: res.IsTyping,
	})
}

func (ctl *ChatWSController) handleGetOnlineUsers(cid domain.ConnectionID, c *ChatConn) {
	users := ctl.Coord.OnlineUsers(cid)
	if users == nil {
		return
	}
	ctl.sendJSON(cid, c, struct {
		Type  string           `json:"type"`
		Users []domain.Profile `json:"users"`
	}{
		Type:  "online-users",
		Users: users,
	})
}

// handleDisconnect runs once per connection, when its read pump exits.
// The coordinator treats a never-joined connection as a no-op.
func (ctl *ChatWSController) handleDisconnect(cid domain.ConnectionID) {
	ctl.Limiter.Forget(cid)
	res := ctl.Coord.Disconnect(cid)
	if res == nil {
		return
	}
	ctl.broadcast(res.Audience, cid, memberEvent{
		Type:      "user-left",
		Username:  res.Username,
		Timestamp: time.Now().UTC(),
		UserCount: res.MemberCount,
	})
}
