package game

import (
	"testing"
	"time"
)

func TestStore_CreateRoom_InitialState(t *testing.T) {
	store := NewStore()
	room := store.CreateRoom("r1")

	if room.ID != "r1" {
		t.Errorf("Expected room ID r1, got %s", room.ID)
	}
	if room.Status != StatusWaiting {
		t.Errorf("Expected status waiting, got %s", room.Status)
	}
	if room.Turn != 1 {
		t.Errorf("Expected turn 1, got %d", room.Turn)
	}
	if room.CurrentSide != SideViewers {
		t.Errorf("Expected viewers to act first, got %s", room.CurrentSide)
	}
	if room.Phase != "main" {
		t.Errorf("Expected phase main, got %s", room.Phase)
	}

	for _, side := range []Side{SideStreamer, SideViewers} {
		p := room.Players[side]
		if p == nil {
			t.Fatalf("Side %s missing from room", side)
		}
		if p.Health != 30 || p.MaxHealth != 30 {
			t.Errorf("Side %s: expected health 30/30, got %d/%d", side, p.Health, p.MaxHealth)
		}
		if p.Mana != 1 || p.MaxMana != 1 {
			t.Errorf("Side %s: expected mana 1/1, got %d/%d", side, p.Mana, p.MaxMana)
		}
		if len(room.Hands[side]) != 0 {
			t.Errorf("Side %s: expected empty hand", side)
		}
		if len(room.Decks[side]) != 19 {
			t.Errorf("Side %s: expected deck of 19, got %d", side, len(room.Decks[side]))
		}
		if len(room.Boards[side]) != 0 {
			t.Errorf("Side %s: expected empty board", side)
		}
	}
}

func TestStore_CreateRoom_GeneratedIDsAreUnique(t *testing.T) {
	store := NewStore()
	a := store.CreateRoom("")
	b := store.CreateRoom("")

	if a.ID == "" || b.ID == "" {
		t.Fatal("Generated room IDs must not be empty")
	}
	if a.ID == b.ID {
		t.Errorf("Generated room IDs must be unique, both were %s", a.ID)
	}
	if store.Count() != 2 {
		t.Errorf("Expected 2 rooms, got %d", store.Count())
	}
}

func TestStore_CreateRoom_IdempotentOnCollision(t *testing.T) {
	store := NewStore()
	first := store.CreateRoom("r1")
	first.Players[SideViewers].Mana = 7

	second := store.CreateRoom("r1")
	if second != first {
		t.Fatal("CreateRoom with an existing ID should return the existing room")
	}
	if second.Players[SideViewers].Mana != 7 {
		t.Error("Existing room state must not be reset on a colliding create")
	}
}

func TestStore_First_InsertionOrder(t *testing.T) {
	store := NewStore()
	store.CreateRoom("alpha")
	store.CreateRoom("beta")

	room, ok := store.First()
	if !ok {
		t.Fatal("First should find a room")
	}
	if room.ID != "alpha" {
		t.Errorf("Expected the earliest-created room, got %s", room.ID)
	}
}

func TestStore_First_Empty(t *testing.T) {
	store := NewStore()
	if _, ok := store.First(); ok {
		t.Error("First on an empty store should report no room")
	}
}

func TestStore_EvictStale(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewStoreWithClock(func() time.Time { return current })

	store.CreateRoom("old")
	current = current.Add(45 * time.Minute)
	store.CreateRoom("fresh")
	current = current.Add(30 * time.Minute)

	// "old" is 75 minutes idle, "fresh" only 30
	evicted := store.EvictStale(time.Hour)
	if evicted != 1 {
		t.Fatalf("Expected 1 room evicted, got %d", evicted)
	}
	if _, exists := store.Get("old"); exists {
		t.Error("Stale room should have been removed")
	}
	if _, exists := store.Get("fresh"); !exists {
		t.Error("Fresh room should survive the sweep")
	}

	// eviction order bookkeeping: "fresh" is now the first room
	room, ok := store.First()
	if !ok || room.ID != "fresh" {
		t.Errorf("Expected fresh to be the first room after eviction")
	}
}

func TestStore_Touch_KeepsRoomAlive(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := NewStoreWithClock(func() time.Time { return current })

	store.CreateRoom("r1")
	current = current.Add(55 * time.Minute)
	store.Touch("r1")
	current = current.Add(20 * time.Minute)

	if evicted := store.EvictStale(time.Hour); evicted != 0 {
		t.Errorf("Touched room should not be evicted, but %d rooms were", evicted)
	}
}

func TestStore_RoomIDs(t *testing.T) {
	store := NewStore()
	store.CreateRoom("a")
	store.CreateRoom("b")
	store.CreateRoom("c")

	ids := store.RoomIDs()
	if len(ids) != 3 {
		t.Fatalf("Expected 3 room IDs, got %d", len(ids))
	}
	for i, want := range []string{"a", "b", "c"} {
		if ids[i] != want {
			t.Errorf("Expected ids[%d]=%s, got %s", i, want, ids[i])
		}
	}
}
