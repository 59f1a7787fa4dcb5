package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/domain"
)

func (ctl *ChatWSController) writePump(ctx context.Context, c *ChatConn) {
	ticker := time.NewTicker(ctl.pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "chat").Msg("writePump ctx done")
			return
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Warn().Err(err).Str("module", "chat").Msg("writePump ping")
				return
			}
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "chat").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "chat").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "chat").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *ChatWSController) readPump(ctx context.Context, cid domain.ConnectionID, c *ChatConn) {
	defer func() {
		log.Info().Str("module", "chat").Str("cid", string(cid)).Msg("readPump closing")
		ctl.handleDisconnect(cid)
		ctl.untrack(cid)
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "chat").Str("cid", string(cid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Info().Err(err).Str("module", "chat").Str("cid", string(cid)).Msg("readPump read error")
				return
			}
			ctl.handleIntent(cid, c, data)
		}
	}
}

func (ctl *ChatWSController) handleIntent(cid domain.ConnectionID, c *ChatConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "chat").Msg("bad json")
		return
	}

	switch env.Type {
	case "join-chat":
		ctl.handleJoin(cid, c, data)
	case "send-message":
		ctl.handleSendMessage(cid, c, data)
	case "typing-start":
		ctl.handleTyping(cid, true)
	case "typing-stop":
		ctl.handleTyping(cid, false)
	case "switch-room":
		ctl.handleSwitchRoom(cid, c, data)
	case "send-private-message":
		ctl.handlePrivateMessage(cid, c, data)
	case "get-online-users":
		ctl.handleGetOnlineUsers(cid, c)
	case "ping":
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "chat").Str("type", env.Type).Msg("unknown intent")
	}
}

// sendJSON marshals and queues v; a backpressured connection is cut
// loose rather than allowed to stall the rest of the room.
func (ctl *ChatWSController) sendJSON(cid domain.ConnectionID, c *ChatConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "chat").Msg("sendJSON marshal")
		return
	}
	if err := c.TrySend(b); err != nil {
		log.Warn().Err(err).Str("module", "chat").Str("cid", string(cid)).Msg("dropping slow consumer")
		c.Close()
	}
}
