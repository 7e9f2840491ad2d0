// live/adapter.go
package live

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/wfunc/cardbattle/cards"
	"github.com/wfunc/cardbattle/game"
	"github.com/wfunc/cardbattle/logger"
)

// 外部直播事件类型
const (
	EventGift   = "gift"
	EventFollow = "follow"
	EventLike   = "like"
	EventShare  = "share"
)

// WebhookEvent 是直播平台回调的载荷
type WebhookEvent struct {
	Event string    `json:"event"`
	Data  EventData `json:"data"`
}

// EventData 是事件数据，gift事件携带礼物字段
type EventData struct {
	GiftID      string `json:"giftId"`
	GiftName    string `json:"giftName"`
	RepeatCount int    `json:"repeatCount"`
	UserID      int64  `json:"userId"`
	SecUID      string `json:"secUid"`
	UniqueID    string `json:"uniqueId"`
	LikeCount   int    `json:"likeCount"`
}

// EffectKind 是礼物映射到的游戏效果类型
type EffectKind string

const (
	EffectDraw    EffectKind = "draw_card"
	EffectMana    EffectKind = "extra_mana"
	EffectSpecial EffectKind = "special_card"
	EffectHeal    EffectKind = "heal"
)

type giftEffect struct {
	Kind  EffectKind
	Value int
}

// giftEffects 是礼物到效果的静态映射，先按giftId查，再按小写礼物名查
var giftEffects = map[string]giftEffect{
	"rose":      {EffectDraw, 1},
	"rocket":    {EffectMana, 2},
	"lion":      {EffectSpecial, 1},
	"tiktok":    {EffectDraw, 2},
	"coin":      {EffectMana, 1},
	"ice_cream": {EffectHeal, 3},
}

// maxMultiplier 是连击倍率上限
const maxMultiplier = 5

// Applied 描述一次已生效的外部效果，供传输层广播
type Applied struct {
	ViewerName string     `json:"viewerName"`
	Kind       EffectKind `json:"effectType"`
	Amount     int        `json:"amount"`
	CardIDs    []string   `json:"cardIds,omitempty"`
	Message    string     `json:"message"`
	State      *game.Room `json:"gameState"`
}

// Adapter 将直播间事件转换为对当前对局的游戏效果
// 效果始终作用于最早创建的存活房间的观众方
type Adapter struct {
	engine *game.Engine
}

// NewAdapter 创建外部效果适配器
func NewAdapter(engine *game.Engine) *Adapter {
	return &Adapter{engine: engine}
}

// HandleWebhook 分发一条回调事件
// 返回已生效的效果；like、未知礼物、无房间等情况返回nil
func (a *Adapter) HandleWebhook(evt WebhookEvent) *Applied {
	switch evt.Event {
	case EventGift:
		return a.handleGift(evt.Data)
	case EventFollow:
		logger.Log.Infof("New follower: %s", evt.Data.UniqueID)
		return a.apply(giftEffect{EffectDraw, 1}, evt.Data.UniqueID, 1)
	case EventLike:
		// 点赞暂不产生效果，仅观测
		logger.Log.Infof("Like from %s: %d likes", evt.Data.UniqueID, evt.Data.LikeCount)
		return nil
	case EventShare:
		logger.Log.Infof("Share from %s", evt.Data.UniqueID)
		return a.apply(giftEffect{EffectMana, 1}, evt.Data.UniqueID, 1)
	default:
		logger.Log.Infof("Unknown webhook event: %s", evt.Event)
		return nil
	}
}

func (a *Adapter) handleGift(data EventData) *Applied {
	logger.Log.Infof("Gift: %s x%d from %s", data.GiftName, data.RepeatCount, data.UniqueID)

	effect, ok := giftEffects[data.GiftID]
	if !ok {
		effect, ok = giftEffects[strings.ToLower(data.GiftName)]
	}
	if !ok {
		// 未知礼物静默忽略
		return nil
	}
	return a.apply(effect, data.UniqueID, data.RepeatCount)
}

// apply 将效果施加到当前目标房间的观众方
// repeatCount缺省按1处理，倍率封顶maxMultiplier
func (a *Adapter) apply(effect giftEffect, viewerName string, repeatCount int) *Applied {
	if repeatCount <= 0 {
		repeatCount = 1
	}
	multiplier := repeatCount
	if multiplier > maxMultiplier {
		multiplier = maxMultiplier
	}
	amount := effect.Value * multiplier

	target, ok := a.engine.Store().First()
	if !ok {
		logger.Log.Info("No active game found for gift effect")
		return nil
	}
	roomID := target.ID

	applied := &Applied{
		ViewerName: viewerName,
		Kind:       effect.Kind,
		Amount:     amount,
	}

	switch effect.Kind {
	case EffectDraw:
		// 抽满手牌或抽空牌堆时提前停止，已完成的抽牌保留
		drawn := 0
		for i := 0; i < amount; i++ {
			result, err := a.engine.DrawCard(roomID, game.SideViewers)
			if err != nil {
				break
			}
			drawn++
			applied.State = result.Room
		}
		applied.Amount = drawn
		applied.Message = fmt.Sprintf("%s gifted %d card draws", viewerName, drawn)
	case EffectMana:
		result, err := a.engine.AddMana(roomID, game.SideViewers, amount)
		if err != nil {
			return nil
		}
		applied.State = result.Room
		applied.Message = fmt.Sprintf("%s gifted +%d mana", viewerName, amount)
	case EffectSpecial:
		for i := 0; i < amount; i++ {
			cardID := cards.RarePool[rand.Intn(len(cards.RarePool))]
			result, err := a.engine.AddCardToHand(roomID, game.SideViewers, cardID)
			if err != nil {
				break
			}
			applied.CardIDs = append(applied.CardIDs, cardID)
			applied.State = result.Room
		}
		applied.Message = fmt.Sprintf("%s gifted %d special cards", viewerName, len(applied.CardIDs))
	case EffectHeal:
		result, err := a.engine.Heal(roomID, game.SideViewers, amount)
		if err != nil {
			return nil
		}
		applied.State = result.Room
		applied.Message = fmt.Sprintf("%s gifted +%d health", viewerName, amount)
	}

	if applied.State == nil {
		// 没有任何实际变更（例如一张牌都没抽到）时仍回传当前状态
		state, err := a.engine.GetState(roomID)
		if err != nil {
			return nil
		}
		applied.State = state
	}
	return applied
}

// ValidateSignature 校验回调签名
// 平台尚未提供签名密钥，目前全部放行
func (a *Adapter) ValidateSignature(payload []byte, signature string) bool {
	return true
}
