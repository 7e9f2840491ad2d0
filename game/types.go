// game/types.go
package game

import (
	"sync"
	"time"

	"github.com/wfunc/cardbattle/cards"
)

// Side 表示对局中的固定角色，主播方或观众方
type Side string

const (
	SideStreamer Side = "streamer"
	SideViewers  Side = "viewers"
)

// Valid reports whether s is one of the two fixed sides.
func (s Side) Valid() bool {
	return s == SideStreamer || s == SideViewers
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideStreamer {
		return SideViewers
	}
	return SideStreamer
}

// Status 表示房间的业务状态
type Status string

const (
	StatusWaiting Status = "waiting"
	StatusActive  Status = "active"
)

const (
	// MaxHealth 是玩家生命上限
	MaxHealth = 30
	// MaxMana 是法力上限
	MaxMana = 10
	// MaxHandSize 是手牌上限，正常抽牌不会超过
	MaxHandSize = 10
	// StartingMana 是开局法力
	StartingMana = 1
)

// PlayerState 是单侧玩家的状态
type PlayerState struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Health    int    `json:"health"`
	MaxHealth int    `json:"maxHealth"`
	Mana      int    `json:"mana"`
	MaxMana   int    `json:"maxMana"`
	// SessionID 是传输层会话的不透明引用，入座时写入
	SessionID string `json:"sessionId,omitempty"`
}

// BoardCreature 是场上的随从实例
type BoardCreature struct {
	cards.CardDefinition
	CurrentHealth int  `json:"currentHealth"`
	CanAttack     bool `json:"canAttack"`
}

// Room 是一局游戏的聚合状态
// 字段的JSON命名沿用前端既有协议
type Room struct {
	ID           string                  `json:"gameId"`
	Players      map[Side]*PlayerState   `json:"players"`
	Turn         int                     `json:"turn"`
	CurrentSide  Side                    `json:"currentPlayer"`
	Phase        string                  `json:"phase"`
	Boards       map[Side][]BoardCreature `json:"board"`
	Hands        map[Side][]string       `json:"hands"`
	Decks        map[Side][]string       `json:"decks"`
	Status       Status                  `json:"status"`
	CreatedAt    time.Time               `json:"createdAt"`
	LastActivity time.Time               `json:"lastActivity"`

	mu sync.Mutex
}

// newRoom 构造一个初始房间状态
func newRoom(id string, now time.Time) *Room {
	return &Room{
		ID: id,
		Players: map[Side]*PlayerState{
			SideStreamer: {
				ID:        string(SideStreamer),
				Name:      "Streamer",
				Health:    MaxHealth,
				MaxHealth: MaxHealth,
				Mana:      StartingMana,
				MaxMana:   StartingMana,
			},
			SideViewers: {
				ID:        string(SideViewers),
				Name:      "Viewers",
				Health:    MaxHealth,
				MaxHealth: MaxHealth,
				Mana:      StartingMana,
				MaxMana:   StartingMana,
			},
		},
		Turn:        1,
		CurrentSide: SideViewers,
		Phase:       "main",
		Boards: map[Side][]BoardCreature{
			SideStreamer: {},
			SideViewers:  {},
		},
		Hands: map[Side][]string{
			SideStreamer: {},
			SideViewers:  {},
		},
		Decks: map[Side][]string{
			SideStreamer: cards.NewDeck(),
			SideViewers:  cards.NewDeck(),
		},
		Status:       StatusWaiting,
		CreatedAt:    now,
		LastActivity: now,
	}
}

// snapshot 返回房间状态的深拷贝，调用方可自由读取
// 必须在持有房间锁时调用
func (r *Room) snapshot() *Room {
	cp := &Room{
		ID:           r.ID,
		Players:      make(map[Side]*PlayerState, len(r.Players)),
		Turn:         r.Turn,
		CurrentSide:  r.CurrentSide,
		Phase:        r.Phase,
		Boards:       make(map[Side][]BoardCreature, len(r.Boards)),
		Hands:        make(map[Side][]string, len(r.Hands)),
		Decks:        make(map[Side][]string, len(r.Decks)),
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
		LastActivity: r.LastActivity,
	}
	for side, p := range r.Players {
		player := *p
		cp.Players[side] = &player
	}
	for side, board := range r.Boards {
		cp.Boards[side] = append([]BoardCreature(nil), board...)
	}
	for side, hand := range r.Hands {
		cp.Hands[side] = append([]string(nil), hand...)
	}
	for side, deck := range r.Decks {
		cp.Decks[side] = append([]string(nil), deck...)
	}
	return cp
}

// Snapshot 加锁后返回深拷贝
func (r *Room) Snapshot() *Room {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}
