package app

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkeye/Parley/internal/domain"
)

func textMsg(id, username, text string, room domain.RoomName) domain.Message {
	return domain.NewTextMessage(id, username, room, text)
}

func TestRoomStore_EnsureRoom_Idempotent(t *testing.T) {
	req := require.New(t)
	store := NewRoomStore(0)

	store.EnsureRoom("general")
	store.AddMember("general", "c1")
	store.EnsureRoom("general")

	// Re-ensuring must not reset membership.
	req.Equal(1, store.MemberCount("general"))
}

func TestRoomStore_Membership(t *testing.T) {
	req := require.New(t)
	store := NewRoomStore(0)

	store.AddMember("general", "c1")
	store.AddMember("general", "c2")
	req.ElementsMatch([]domain.ConnectionID{"c1", "c2"}, store.Members("general"))

	store.RemoveMember("general", "c1")
	req.Equal([]domain.ConnectionID{"c2"}, store.Members("general"))

	// Removing a non-member or from an unknown room is a no-op.
	store.RemoveMember("general", "ghost")
	store.RemoveMember("nowhere", "c2")
	req.Equal(1, store.MemberCount("general"))
	req.Equal(0, store.MemberCount("nowhere"))
}

func TestRoomStore_RecentMessages_OrderAndCap(t *testing.T) {
	req := require.New(t)
	store := NewRoomStore(0)

	for i := 0; i < 120; i++ {
		store.AppendMessage("general", textMsg(strconv.Itoa(i), "alice", "m"+strconv.Itoa(i), "general"))
	}

	recent := store.RecentMessages("general", 50)
	req.Len(recent, 50)
	// Chronological order, ending with the newest entry.
	req.Equal("m70", recent[0].Text)
	req.Equal("m119", recent[49].Text)

	// Shorter logs return everything.
	store.AppendMessage("random", textMsg("1", "bob", "hi", "random"))
	req.Len(store.RecentMessages("random", 50), 1)

	// Unknown rooms yield an empty result, not an error.
	req.Empty(store.RecentMessages("nowhere", 50))
}

func TestRoomStore_Retention_TrimsOnAppend(t *testing.T) {
	req := require.New(t)
	store := NewRoomStore(10)

	for i := 0; i < 25; i++ {
		store.AppendMessage("general", textMsg(strconv.Itoa(i), "alice", "m"+strconv.Itoa(i), "general"))
	}

	all := store.RecentMessages("general", 0)
	req.Len(all, 10)
	req.Equal("m15", all[0].Text)
	req.Equal("m24", all[9].Text)
}

func TestRoomStore_Typing(t *testing.T) {
	req := require.New(t)
	store := NewRoomStore(0)

	store.SetTyping("general", "alice", true)
	store.SetTyping("general", "alice", true) // redundant, no-op
	req.Equal([]string{"alice"}, store.TypingUsers("general"))

	store.SetTyping("general", "alice", false)
	store.SetTyping("general", "alice", false) // redundant, no-op
	req.Empty(store.TypingUsers("general"))

	// Clearing typing state in an unknown room must not create it.
	store.SetTyping("nowhere", "alice", false)
	req.NotContains(roomNames(store), domain.RoomName("nowhere"))
}

func TestRoomStore_List(t *testing.T) {
	req := require.New(t)
	store := NewRoomStore(0)

	store.AddMember("general", "c1")
	store.AddMember("general", "c2")
	store.EnsureRoom("random")

	req.ElementsMatch([]RoomInfo{
		{Name: "general", MemberCount: 2},
		{Name: "random", MemberCount: 0},
	}, store.List())
}

func roomNames(store *RoomStore) []domain.RoomName {
	infos := store.List()
	out := make([]domain.RoomName, 0, len(infos))
	for _, info := range infos {
		out = append(out, info.Name)
	}
	return out
}
