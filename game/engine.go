// game/engine.go
package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wfunc/cardbattle/cards"
)

// 拒绝原因，文本即对外协议中的reason字符串
var (
	ErrRoomNotFound     = errors.New("Room not found")
	ErrInvalidCard      = errors.New("Invalid card")
	ErrInsufficientMana = errors.New("Not enough mana")
	ErrCardNotInHand    = errors.New("Card not in hand")
	ErrCannotDraw       = errors.New("Cannot draw card")
)

// EffectResolver resolves spell and support effects when such a card is
// played. The catalog's effect text is descriptive only; the engine deducts
// mana and discards the card but applies no effect itself.
type EffectResolver interface {
	Resolve(room *Room, side Side, def cards.CardDefinition)
}

// Result 是一次成功操作的产物，Room为深拷贝快照
type Result struct {
	Room    *Room
	Message string
	CardID  string
}

// Engine 实现对局的全部状态迁移
type Engine struct {
	store    *Store
	resolver EffectResolver
}

// NewEngine 创建游戏引擎
func NewEngine(store *Store) *Engine {
	return &Engine{store: store}
}

// SetEffectResolver installs the spell/support resolution hook.
func (e *Engine) SetEffectResolver(r EffectResolver) {
	e.resolver = r
}

// Store 返回引擎持有的房间存储
func (e *Engine) Store() *Store {
	return e.store
}

// BindSide 将传输层会话绑定到房间的一侧，房间不存在时创建
// 首次绑定即置为active（沿用既有行为）
func (e *Engine) BindSide(roomID string, side Side, sessionID string) *Room {
	room := e.store.CreateRoom(roomID)

	room.mu.Lock()
	defer room.mu.Unlock()

	if player, ok := room.Players[side]; ok {
		player.SessionID = sessionID
		room.Status = StatusActive
	}
	room.LastActivity = e.store.Now()
	return room.snapshot()
}

// GetState 返回房间状态快照
func (e *Engine) GetState(roomID string) (*Room, error) {
	room, exists := e.store.Get(roomID)
	if !exists {
		return nil, ErrRoomNotFound
	}
	return room.Snapshot(), nil
}

// PlayCard 打出一张手牌
// 所有前置校验先于任何修改，失败时状态保持不变
func (e *Engine) PlayCard(roomID string, side Side, cardID string) (*Result, error) {
	room, exists := e.store.Get(roomID)
	if !exists {
		return nil, ErrRoomNotFound
	}

	def, ok := cards.Lookup(cardID)
	if !ok {
		return nil, ErrInvalidCard
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	player := room.Players[side]
	if player == nil {
		return nil, ErrCardNotInHand
	}
	if player.Mana < def.Cost {
		return nil, ErrInsufficientMana
	}

	handIndex := -1
	for i, id := range room.Hands[side] {
		if id == cardID {
			handIndex = i
			break
		}
	}
	if handIndex < 0 {
		return nil, ErrCardNotInHand
	}

	player.Mana -= def.Cost
	room.Hands[side] = append(room.Hands[side][:handIndex], room.Hands[side][handIndex+1:]...)

	switch def.Kind {
	case cards.KindCreature:
		room.Boards[side] = append(room.Boards[side], BoardCreature{
			CardDefinition: def,
			CurrentHealth:  def.Health,
			CanAttack:      false,
		})
	default:
		// 法术与辅助牌的效果由外部解析器处理
		if e.resolver != nil {
			e.resolver.Resolve(room, side, def)
		}
	}

	room.LastActivity = e.store.Now()

	return &Result{
		Room:    room.snapshot(),
		Message: fmt.Sprintf("%s played %s", player.Name, def.Name),
		CardID:  cardID,
	}, nil
}

// DrawCard 从牌堆顶抽一张牌到手牌
func (e *Engine) DrawCard(roomID string, side Side) (*Result, error) {
	room, exists := e.store.Get(roomID)
	if !exists {
		return nil, ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	cardID, err := e.drawLocked(room, side)
	if err != nil {
		return nil, err
	}

	room.LastActivity = e.store.Now()

	return &Result{
		Room:   room.snapshot(),
		CardID: cardID,
	}, nil
}

// drawLocked 执行抽牌，调用方必须持有房间锁
// 牌堆以切片末尾为顶（LIFO）
func (e *Engine) drawLocked(room *Room, side Side) (string, error) {
	deck := room.Decks[side]
	hand := room.Hands[side]

	if len(deck) == 0 || len(hand) >= MaxHandSize {
		return "", ErrCannotDraw
	}

	cardID := deck[len(deck)-1]
	room.Decks[side] = deck[:len(deck)-1]
	room.Hands[side] = append(hand, cardID)
	return cardID, nil
}

// EndTurn 结束当前回合
// 切换行动方，回合数加一，新行动方法力上限+1（封顶10）并回满，
// 抽一张牌（失败静默忽略），其场上随从全部获得攻击资格
func (e *Engine) EndTurn(roomID string) (*Result, error) {
	room, exists := e.store.Get(roomID)
	if !exists {
		return nil, ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	next := room.CurrentSide.Opponent()
	room.CurrentSide = next
	room.Turn++

	player := room.Players[next]
	if player.MaxMana < MaxMana {
		player.MaxMana++
	}
	player.Mana = player.MaxMana

	// 回合开始摸牌，空牌堆或满手牌不视为错误
	e.drawLocked(room, next)

	board := room.Boards[next]
	for i := range board {
		board[i].CanAttack = true
	}

	room.LastActivity = e.store.Now()

	return &Result{
		Room:    room.snapshot(),
		Message: fmt.Sprintf("Turn %d - %s's turn", room.Turn, strings.ToUpper(string(next))),
	}, nil
}

// AddMana 直接为一侧增加法力，封顶10，供外部事件效果使用
func (e *Engine) AddMana(roomID string, side Side, amount int) (*Result, error) {
	room, exists := e.store.Get(roomID)
	if !exists {
		return nil, ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	player := room.Players[side]
	player.Mana += amount
	if player.Mana > MaxMana {
		player.Mana = MaxMana
	}
	room.LastActivity = e.store.Now()

	return &Result{Room: room.snapshot()}, nil
}

// Heal 直接为一侧恢复生命，不超过生命上限
func (e *Engine) Heal(roomID string, side Side, amount int) (*Result, error) {
	room, exists := e.store.Get(roomID)
	if !exists {
		return nil, ErrRoomNotFound
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	player := room.Players[side]
	player.Health += amount
	if player.Health > player.MaxHealth {
		player.Health = player.MaxHealth
	}
	room.LastActivity = e.store.Now()

	return &Result{Room: room.snapshot()}, nil
}

// AddCardToHand 将一张牌直接放入手牌
// 礼物特殊卡走此通道，不受手牌上限约束（沿用既有行为）
func (e *Engine) AddCardToHand(roomID string, side Side, cardID string) (*Result, error) {
	room, exists := e.store.Get(roomID)
	if !exists {
		return nil, ErrRoomNotFound
	}
	if _, ok := cards.Lookup(cardID); !ok {
		return nil, ErrInvalidCard
	}

	room.mu.Lock()
	defer room.mu.Unlock()

	room.Hands[side] = append(room.Hands[side], cardID)
	room.LastActivity = e.store.Now()

	return &Result{Room: room.snapshot(), CardID: cardID}, nil
}
