// persistence/noop.go
package persistence

import (
	"github.com/wfunc/cardbattle/models"
)

// Noop 在未配置数据库时使用，全部操作为空实现
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) SaveRoomSnapshot(snap *models.RoomSnapshot) error {
	return nil
}

func (n *Noop) LoadRoomSnapshot(roomID string) (*models.RoomSnapshot, error) {
	return nil, ErrRecordNotFound
}

func (n *Noop) SaveGiftEvent(event *models.GiftEventRecord) error {
	return nil
}

func (n *Noop) ListGiftEvents(roomID string, limit int) ([]models.GiftEventRecord, error) {
	return nil, nil
}

func (n *Noop) Close() error {
	return nil
}
