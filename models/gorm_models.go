// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormRoomSnapshot 房间快照模型
type GormRoomSnapshot struct {
	gorm.Model
	RoomID      string                 `gorm:"uniqueIndex;not null"`
	Status      string                 `gorm:"not null"`
	Turn        int                    `gorm:"default:1"`
	CurrentSide string                 `gorm:"not null"`
	State       map[string]interface{} `gorm:"type:jsonb;serializer:json"`
}

// GormGiftEvent 直播间事件模型
type GormGiftEvent struct {
	gorm.Model
	RoomID     string `gorm:"index;not null"`
	Event      string `gorm:"not null"`
	GiftID     string
	GiftName   string
	ViewerName string
	EffectType string
	Amount     int `gorm:"default:0"`
}
