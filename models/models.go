// models/models.go
package models

import (
	"time"
)

// RoomSnapshot 是一次成功变更后的房间状态快照（审计用途）
type RoomSnapshot struct {
	RoomID      string                 `json:"room_id"`
	Status      string                 `json:"status"`
	Turn        int                    `json:"turn"`
	CurrentSide string                 `json:"current_side"`
	State       map[string]interface{} `json:"state"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// GiftEventRecord 是一条已处理的直播间事件记录
type GiftEventRecord struct {
	RoomID     string    `json:"room_id"`
	Event      string    `json:"event"`
	GiftID     string    `json:"gift_id"`
	GiftName   string    `json:"gift_name"`
	ViewerName string    `json:"viewer_name"`
	EffectType string    `json:"effect_type"`
	Amount     int       `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}
