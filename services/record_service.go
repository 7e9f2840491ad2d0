// services/record_service.go
package services

import (
	"encoding/json"
	"fmt"

	"github.com/wfunc/cardbattle/game"
	"github.com/wfunc/cardbattle/live"
	"github.com/wfunc/cardbattle/models"
	"github.com/wfunc/cardbattle/persistence"
)

// RecordService 负责对局快照与直播事件的审计落库
// 落库失败不影响对局，调用方只记日志
type RecordService struct {
	db persistence.Database
}

func NewRecordService(db persistence.Database) *RecordService {
	return &RecordService{db: db}
}

// RecordSnapshot 保存一次成功变更后的房间状态
func (s *RecordService) RecordSnapshot(state *game.Room) error {
	if state == nil {
		return fmt.Errorf("nil room state")
	}

	// 经JSON转为通用map，落库结构与对外协议保持一致
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	var asMap map[string]interface{}
	if err := json.Unmarshal(raw, &asMap); err != nil {
		return err
	}

	return s.db.SaveRoomSnapshot(&models.RoomSnapshot{
		RoomID:      state.ID,
		Status:      string(state.Status),
		Turn:        state.Turn,
		CurrentSide: string(state.CurrentSide),
		State:       asMap,
	})
}

// RecordGiftEvent 保存一条已生效的直播事件
func (s *RecordService) RecordGiftEvent(evt live.WebhookEvent, applied *live.Applied) error {
	if applied == nil || applied.State == nil {
		return fmt.Errorf("nil applied effect")
	}

	return s.db.SaveGiftEvent(&models.GiftEventRecord{
		RoomID:     applied.State.ID,
		Event:      evt.Event,
		GiftID:     evt.Data.GiftID,
		GiftName:   evt.Data.GiftName,
		ViewerName: applied.ViewerName,
		EffectType: string(applied.Kind),
		Amount:     applied.Amount,
	})
}

// GiftHistory 查询房间的事件记录
func (s *RecordService) GiftHistory(roomID string, limit int) ([]models.GiftEventRecord, error) {
	return s.db.ListGiftEvents(roomID, limit)
}

// LastSnapshot 查询房间最近一次快照
func (s *RecordService) LastSnapshot(roomID string) (*models.RoomSnapshot, error) {
	return s.db.LoadRoomSnapshot(roomID)
}
