// broadcast/broadcast.go
package broadcast

import (
	"encoding/json"
	"errors"

	"github.com/wfunc/cardbattle/game"
	"github.com/wfunc/cardbattle/session"
)

var (
	ErrRoomNotFound = errors.New("room not found")
)

// 广播接口
type Broadcaster interface {
	BroadcastToRoom(roomID string, msgID uint16, data []byte) error
	BroadcastJSON(roomID string, msgID uint16, v interface{}) error
	BroadcastJSONExcept(roomID, exceptSessionID string, msgID uint16, v interface{}) error
}

// 基于房间的广播器
// 通过会话管理器找到绑定在房间上的所有连接
type RoomBroadcaster struct {
	store          *game.Store
	sessionManager *session.Manager
}

func NewRoomBroadcaster(store *game.Store, sessionManager *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		store:          store,
		sessionManager: sessionManager,
	}
}

func (b *RoomBroadcaster) BroadcastToRoom(roomID string, msgID uint16, data []byte) error {
	if _, exists := b.store.Get(roomID); !exists {
		return ErrRoomNotFound
	}

	for _, s := range b.sessionManager.GetByRoom(roomID) {
		if err := s.Send(msgID, data); err != nil {
			// 发送失败的连接由其自身的读循环负责清理
			continue
		}
	}
	return nil
}

func (b *RoomBroadcaster) BroadcastJSON(roomID string, msgID uint16, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.BroadcastToRoom(roomID, msgID, data)
}

// BroadcastJSONExcept 向房间内除指定会话外的所有连接广播
// 用于playerJoined这类不需要回送给动作发起方的通知
func (b *RoomBroadcaster) BroadcastJSONExcept(roomID, exceptSessionID string, msgID uint16, v interface{}) error {
	if _, exists := b.store.Get(roomID); !exists {
		return ErrRoomNotFound
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	for _, s := range b.sessionManager.GetByRoom(roomID) {
		if s.GetID() == exceptSessionID {
			continue
		}
		if err := s.Send(msgID, data); err != nil {
			continue
		}
	}
	return nil
}
