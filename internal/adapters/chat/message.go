package chat

import (
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Parley/internal/app/coord"
	"github.com/dkeye/Parley/internal/domain"
)

type messageEvent struct {
	Type    string         `json:"type"`
	Message domain.Message `json:"message"`
}

func (ctl *ChatWSController) handleSendMessage(cid domain.ConnectionID, c *ChatConn, data []byte) {
	type messagePayload struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	var p messagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "chat").Msg("bad message payload")
		ctl.sendError(cid, c, "bad_payload")
		return
	}
	if !ctl.Limiter.Allow(cid) {
		log.Warn().Str("module", "chat").Str("cid", string(cid)).Msg("message rate limited")
		ctl.sendError(cid, c, "slow down")
		return
	}

	res := ctl.Coord.SendMessage(cid, p.Text)
	if res == nil {
		return
	}
	// The sender is part of the audience: its own message renders with
	// the server-assigned id and timestamp.
	ctl.broadcast(res.Audience, "", messageEvent{Type: "new-message", Message: res.Message})
}

func (ctl *ChatWSController) handlePrivateMessage(cid domain.ConnectionID, c *ChatConn, data []byte) {
	type privatePayload struct {
		Type           string `json:"type"`
		TargetUsername string `json:"targetUsername"`
		Text           string `json:"text"`
	}
	var p privatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "chat").Msg("bad private payload")
		ctl.sendError(cid, c, "bad_payload")
		return
	}

	res, err := ctl.Coord.SendPrivateMessage(cid, p.TargetUsername, p.Text)
	if errors.Is(err, coord.ErrUserNotFound) {
		ctl.sendError(cid, c, "User not found")
		return
	}
	if res == nil {
		return
	}
	ctl.sendTo(res.TargetID, messageEvent{Type: "private-message", Message: res.Message})
	ctl.sendJSON(cid, c, messageEvent{Type: "private-message-sent", Message: res.Message})
}
