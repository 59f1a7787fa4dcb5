package domain

import "time"

// Message kinds as they travel on the wire.
const (
	MessageText    = "text"
	MessagePrivate = "private"
)

// Message is an immutable chat event. Room messages carry Username and Room;
// private messages carry From and To and never enter a room log.
type Message struct {
	ID        string    `json:"id"`
	Username  string    `json:"username,omitempty"`
	From      string    `json:"from,omitempty"`
	To        string    `json:"to,omitempty"`
	Room      RoomName  `json:"room,omitempty"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
}

func NewTextMessage(id string, username string, room RoomName, text string) Message {
	return Message{
		ID:        id,
		Username:  username,
		Room:      room,
		Text:      text,
		Timestamp: time.Now().UTC(),
		Type:      MessageText,
	}
}

func NewPrivateMessage(id string, from, to, text string) Message {
	return Message{
		ID:        id,
		From:      from,
		To:        to,
		Text:      text,
		Timestamp: time.Now().UTC(),
		Type:      MessagePrivate,
	}
}
