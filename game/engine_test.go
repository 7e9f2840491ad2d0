package game

import (
	"reflect"
	"testing"
)

func newTestEngine() (*Engine, *Store) {
	store := NewStore()
	return NewEngine(store), store
}

func TestBindSide_BothSidesJoin(t *testing.T) {
	engine, _ := newTestEngine()

	engine.BindSide("r1", SideStreamer, "sess-streamer")
	state := engine.BindSide("r1", SideViewers, "sess-viewers")

	if state.Status != StatusActive {
		t.Errorf("Expected status active, got %s", state.Status)
	}
	if state.Players[SideStreamer].SessionID != "sess-streamer" {
		t.Error("Streamer session ref not attached")
	}
	if state.Players[SideViewers].SessionID != "sess-viewers" {
		t.Error("Viewers session ref not attached")
	}
	for _, side := range []Side{SideStreamer, SideViewers} {
		p := state.Players[side]
		if p.Mana != 1 || p.MaxMana != 1 {
			t.Errorf("Side %s: expected mana 1/1, got %d/%d", side, p.Mana, p.MaxMana)
		}
		if len(state.Hands[side]) != 0 {
			t.Errorf("Side %s: expected empty hand", side)
		}
		if len(state.Decks[side]) != 19 {
			t.Errorf("Side %s: expected deck of 19, got %d", side, len(state.Decks[side]))
		}
	}
}

func TestBindSide_FirstBindActivates(t *testing.T) {
	engine, _ := newTestEngine()
	state := engine.BindSide("r1", SideStreamer, "sess-1")
	if state.Status != StatusActive {
		t.Errorf("Room goes active on the first bind, got %s", state.Status)
	}
}

func TestBindSide_ReturnsSnapshot(t *testing.T) {
	engine, store := newTestEngine()
	state := engine.BindSide("r1", SideViewers, "sess-1")

	state.Players[SideViewers].Mana = 99
	room, _ := store.Get("r1")
	if room.Players[SideViewers].Mana == 99 {
		t.Fatal("BindSide must return a copy, not the live room")
	}
}

func TestPlayCard_Success(t *testing.T) {
	engine, store := newTestEngine()
	engine.BindSide("r1", SideViewers, "sess-1")

	room, _ := store.Get("r1")
	room.Hands[SideViewers] = []string{"healing_light"}

	result, err := engine.PlayCard("r1", SideViewers, "healing_light")
	if err != nil {
		t.Fatalf("PlayCard failed: %v", err)
	}
	if result.Room.Players[SideViewers].Mana != 0 {
		t.Errorf("Expected mana 0 after playing a 1-cost card, got %d", result.Room.Players[SideViewers].Mana)
	}
	if len(result.Room.Hands[SideViewers]) != 0 {
		t.Errorf("Expected empty hand, got %d cards", len(result.Room.Hands[SideViewers]))
	}
	if len(result.Room.Boards[SideViewers]) != 0 {
		t.Error("Spells must not be placed on the board")
	}
	if result.Message != "Viewers played Healing Light" {
		t.Errorf("Unexpected message: %q", result.Message)
	}
}

func TestPlayCard_Creature(t *testing.T) {
	engine, store := newTestEngine()
	engine.BindSide("r1", SideViewers, "sess-1")

	room, _ := store.Get("r1")
	room.Hands[SideViewers] = []string{"fire_imp"}
	room.Players[SideViewers].Mana = 3

	result, err := engine.PlayCard("r1", SideViewers, "fire_imp")
	if err != nil {
		t.Fatalf("PlayCard failed: %v", err)
	}

	board := result.Room.Boards[SideViewers]
	if len(board) != 1 {
		t.Fatalf("Expected 1 creature on board, got %d", len(board))
	}
	creature := board[0]
	if creature.ID != "fire_imp" {
		t.Errorf("Expected fire_imp on board, got %s", creature.ID)
	}
	if creature.CurrentHealth != creature.Health {
		t.Errorf("Creature should enter with full health, got %d/%d", creature.CurrentHealth, creature.Health)
	}
	if creature.CanAttack {
		t.Error("Creature must not attack the turn it enters")
	}
	if result.Room.Players[SideViewers].Mana != 1 {
		t.Errorf("Expected mana 1 after 2-cost play, got %d", result.Room.Players[SideViewers].Mana)
	}
}

func TestPlayCard_RemovesSingleCopy(t *testing.T) {
	engine, store := newTestEngine()
	engine.BindSide("r1", SideViewers, "sess-1")

	room, _ := store.Get("r1")
	room.Hands[SideViewers] = []string{"fireball", "fireball", "lightning_bolt"}
	room.Players[SideViewers].Mana = 5

	result, err := engine.PlayCard("r1", SideViewers, "fireball")
	if err != nil {
		t.Fatalf("PlayCard failed: %v", err)
	}
	if !reflect.DeepEqual(result.Room.Hands[SideViewers], []string{"fireball", "lightning_bolt"}) {
		t.Errorf("Expected first copy removed, hand is %v", result.Room.Hands[SideViewers])
	}
}

func TestPlayCard_InsufficientMana_StateUnchanged(t *testing.T) {
	engine, store := newTestEngine()
	engine.BindSide("r1", SideViewers, "sess-1")

	room, _ := store.Get("r1")
	room.Hands[SideViewers] = []string{"fireball"}
	room.Players[SideViewers].Mana = 0

	before := room.Snapshot()

	_, err := engine.PlayCard("r1", SideViewers, "fireball")
	if err != ErrInsufficientMana {
		t.Fatalf("Expected ErrInsufficientMana, got %v", err)
	}
	if err.Error() != "Not enough mana" {
		t.Errorf("Rejection reason must be the fixed string, got %q", err.Error())
	}

	after := room.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Error("A rejected play must leave the room untouched")
	}
}

func TestPlayCard_CardNotInHand_StateUnchanged(t *testing.T) {
	engine, store := newTestEngine()
	engine.BindSide("r1", SideViewers, "sess-1")

	room, _ := store.Get("r1")
	room.Players[SideViewers].Mana = 10
	before := room.Snapshot()

	_, err := engine.PlayCard("r1", SideViewers, "fireball")
	if err != ErrCardNotInHand {
		t.Fatalf("Expected ErrCardNotInHand, got %v", err)
	}

	after := room.Snapshot()
	if !reflect.DeepEqual(before, after) {
		t.Error("A rejected play must leave the room untouched")
	}
}

func TestPlayCard_InvalidCard(t *testing.T) {
	engine, _ := newTestEngine()
	engine.BindSide("r1", SideViewers, "sess-1")

	if _, err := engine.PlayCard("r1", SideViewers, "black_lotus"); err != ErrInvalidCard {
		t.Errorf("Expected ErrInvalidCard, got %v", err)
	}
}

func TestPlayCard_RoomNotFound(t *testing.T) {
	engine, _ := newTestEngine()
	if _, err := engine.PlayCard("nowhere", SideViewers, "fireball"); err != ErrRoomNotFound {
		t.Errorf("Expected ErrRoomNotFound, got %v", err)
	}
}

func TestDrawCard_LIFO(t *testing.T) {
	engine, store := newTestEngine()
	engine.BindSide("r1", SideViewers, "sess-1")

	room, _ := store.Get("r1")
	room.Decks[SideViewers] = []string{"fireball", "fire_imp", "mana_crystal"}

	result, err := engine.DrawCard("r1", SideViewers)
	if err != nil {
		t.Fatalf("DrawCard failed: %v", err)
	}
	if result.CardID != "mana_crystal" {
		t.Errorf("Draw must come from the tail of the deck, got %s", result.CardID)
	}
	if len(result.Room.Decks[SideViewers]) != 2 {
		t.Errorf("Expected deck of 2 after draw, got %d", len(result.Room.Decks[SideViewers]))
	}
	if !reflect.DeepEqual(result.Room.Hands[SideViewers], []string{"mana_crystal"}) {
		t.Errorf("Expected drawn card appended to hand, hand is %v", result.Room.Hands[SideViewers])
	}
}

func TestDrawCard_EmptyDeck(t *testing.T) {
	engine, store := newTestEngine()
	engine.BindSide("r1", SideViewers, "sess-1")

	room, _ := store.Get("r1")
	room.Decks[SideViewers] = nil

	if _, err := engine.DrawCard("r1", SideViewers); err != ErrCannotDraw {
		t.Errorf("Expected ErrCannotDraw on empty deck, got %v", err)
	}
}

func TestDrawCard_HandCap(t *testing.T) {
	engine, store := newTestEngine()
	engine.BindSide("r1", SideViewers, "sess-1")

	room, _ := store.Get("r1")
	for i := 0; i < MaxHandSize; i++ {
		room.Hands[SideViewers] = append(room.Hands[SideViewers], "fireball")
	}

	if _, err := engine.DrawCard("r1", SideViewers); err != ErrCannotDraw {
		t.Errorf("Expected ErrCannotDraw on a full hand, got %v", err)
	}
	if len(room.Hands[SideViewers]) != MaxHandSize {
		t.Errorf("Hand size must stay at %d, got %d", MaxHandSize, len(room.Hands[SideViewers]))
	}
}

func TestEndTurn_FirstTurn(t *testing.T) {
	engine, store := newTestEngine()
	engine.BindSide("r1", SideViewers, "sess-1")

	// a creature already on the streamer board must wake up on their turn
	room, _ := store.Get("r1")
	room.Boards[SideStreamer] = []BoardCreature{{CurrentHealth: 3}}
	deckBefore := len(room.Decks[SideStreamer])

	result, err := engine.EndTurn("r1")
	if err != nil {
		t.Fatalf("EndTurn failed: %v", err)
	}

	state := result.Room
	if state.Turn != 2 {
		t.Errorf("Expected turn 2, got %d", state.Turn)
	}
	if state.CurrentSide != SideStreamer {
		t.Errorf("Expected streamer to act, got %s", state.CurrentSide)
	}
	streamer := state.Players[SideStreamer]
	if streamer.MaxMana != 2 {
		t.Errorf("Expected streamer maxMana 2, got %d", streamer.MaxMana)
	}
	if streamer.Mana != 2 {
		t.Errorf("Expected full mana refill to 2, got %d", streamer.Mana)
	}
	if len(state.Decks[SideStreamer]) != deckBefore-1 {
		t.Errorf("Expected one card drawn, deck went %d -> %d", deckBefore, len(state.Decks[SideStreamer]))
	}
	if len(state.Hands[SideStreamer]) != 1 {
		t.Errorf("Expected 1 card in hand, got %d", len(state.Hands[SideStreamer]))
	}
	if !state.Boards[SideStreamer][0].CanAttack {
		t.Error("Creatures must be able to attack from the owner's next turn")
	}
	if result.Message != "Turn 2 - STREAMER's turn" {
		t.Errorf("Unexpected message: %q", result.Message)
	}
}

func TestEndTurn_Alternation(t *testing.T) {
	engine, _ := newTestEngine()
	engine.BindSide("r1", SideViewers, "sess-1")

	for n := 1; n <= 6; n++ {
		result, err := engine.EndTurn("r1")
		if err != nil {
			t.Fatalf("EndTurn %d failed: %v", n, err)
		}
		want := SideViewers
		if n%2 == 1 {
			want = SideStreamer
		}
		if result.Room.CurrentSide != want {
			t.Errorf("After %d end turns expected %s, got %s", n, want, result.Room.CurrentSide)
		}
	}
}

func TestEndTurn_ManaCapsAtTen(t *testing.T) {
	engine, _ := newTestEngine()
	engine.BindSide("r1", SideViewers, "sess-1")

	prevMax := map[Side]int{SideStreamer: 1, SideViewers: 1}
	for n := 0; n < 30; n++ {
		result, err := engine.EndTurn("r1")
		if err != nil {
			t.Fatalf("EndTurn failed: %v", err)
		}
		side := result.Room.CurrentSide
		p := result.Room.Players[side]
		if p.MaxMana < prevMax[side] {
			t.Errorf("maxMana decreased from %d to %d", prevMax[side], p.MaxMana)
		}
		prevMax[side] = p.MaxMana
		if p.MaxMana > MaxMana {
			t.Fatalf("maxMana exceeded cap: %d", p.MaxMana)
		}
		if p.Mana != p.MaxMana {
			t.Errorf("Expected full refill, mana %d of %d", p.Mana, p.MaxMana)
		}
	}
}

func TestEndTurn_EmptyDeckIsSilent(t *testing.T) {
	engine, store := newTestEngine()
	engine.BindSide("r1", SideViewers, "sess-1")

	room, _ := store.Get("r1")
	room.Decks[SideStreamer] = nil

	if _, err := engine.EndTurn("r1"); err != nil {
		t.Errorf("EndTurn must ignore a failed draw, got %v", err)
	}
}

func TestAddMana_Clamp(t *testing.T) {
	engine, store := newTestEngine()
	engine.BindSide("r1", SideViewers, "sess-1")

	room, _ := store.Get("r1")
	room.Players[SideViewers].Mana = 2
	room.Players[SideViewers].MaxMana = 5

	result, err := engine.AddMana("r1", SideViewers, 6)
	if err != nil {
		t.Fatalf("AddMana failed: %v", err)
	}
	if got := result.Room.Players[SideViewers].Mana; got != 8 {
		t.Errorf("Expected mana 8, got %d", got)
	}

	result, _ = engine.AddMana("r1", SideViewers, 100)
	if got := result.Room.Players[SideViewers].Mana; got != MaxMana {
		t.Errorf("Expected mana clamped to %d, got %d", MaxMana, got)
	}
}

func TestHeal_Clamp(t *testing.T) {
	engine, store := newTestEngine()
	engine.BindSide("r1", SideViewers, "sess-1")

	room, _ := store.Get("r1")
	room.Players[SideViewers].Health = 25

	result, err := engine.Heal("r1", SideViewers, 3)
	if err != nil {
		t.Fatalf("Heal failed: %v", err)
	}
	if got := result.Room.Players[SideViewers].Health; got != 28 {
		t.Errorf("Expected health 28, got %d", got)
	}

	result, _ = engine.Heal("r1", SideViewers, 50)
	if got := result.Room.Players[SideViewers].Health; got != MaxHealth {
		t.Errorf("Expected health clamped to %d, got %d", MaxHealth, got)
	}
}

func TestAddCardToHand_BypassesCap(t *testing.T) {
	engine, store := newTestEngine()
	engine.BindSide("r1", SideViewers, "sess-1")

	room, _ := store.Get("r1")
	for i := 0; i < MaxHandSize; i++ {
		room.Hands[SideViewers] = append(room.Hands[SideViewers], "fireball")
	}

	result, err := engine.AddCardToHand("r1", SideViewers, "mana_crystal")
	if err != nil {
		t.Fatalf("AddCardToHand failed: %v", err)
	}
	if got := len(result.Room.Hands[SideViewers]); got != MaxHandSize+1 {
		t.Errorf("Gifted cards ignore the hand cap; expected %d cards, got %d", MaxHandSize+1, got)
	}
}

func TestGetState(t *testing.T) {
	engine, _ := newTestEngine()
	engine.BindSide("r1", SideViewers, "sess-1")

	state, err := engine.GetState("r1")
	if err != nil {
		t.Fatalf("GetState failed: %v", err)
	}
	if state.ID != "r1" {
		t.Errorf("Expected room r1, got %s", state.ID)
	}

	if _, err := engine.GetState("nowhere"); err != ErrRoomNotFound {
		t.Errorf("Expected ErrRoomNotFound, got %v", err)
	}
}
