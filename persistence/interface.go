// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/cardbattle/models"
)

// Database 审计数据库接口
// 对局状态本身始终在内存中，这里只做快照与事件留痕
type Database interface {
	SaveRoomSnapshot(snap *models.RoomSnapshot) error
	LoadRoomSnapshot(roomID string) (*models.RoomSnapshot, error)
	SaveGiftEvent(event *models.GiftEventRecord) error
	ListGiftEvents(roomID string, limit int) ([]models.GiftEventRecord, error)
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
