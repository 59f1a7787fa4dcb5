package domain

type RoomName string

// DefaultRoom is where a connection lands when the join carries no room.
const DefaultRoom RoomName = "general"

const MaxRoomNameLen = 36
