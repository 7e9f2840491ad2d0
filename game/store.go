// game/store.go
package game

import (
	"fmt"
	"sync"
	"time"
)

// Store 管理所有房间状态
// 房间按创建顺序记录，外部事件的默认目标是最早创建的房间
type Store struct {
	rooms     map[string]*Room
	order     []string
	roomCount int
	now       func() time.Time
	mutex     sync.RWMutex
}

// NewStore 创建一个新的房间存储
func NewStore() *Store {
	return &Store{
		rooms: make(map[string]*Room),
		now:   time.Now,
	}
}

// NewStoreWithClock creates a store with an injected clock, for tests.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{
		rooms: make(map[string]*Room),
		now:   now,
	}
}

// Now 返回存储使用的时钟
func (s *Store) Now() time.Time {
	return s.now()
}

// CreateRoom 创建一个新房间
// roomID为空时生成唯一ID；已存在时返回原房间（加入语义是幂等的）
func (s *Store) CreateRoom(roomID string) *Room {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if roomID != "" {
		if room, exists := s.rooms[roomID]; exists {
			return room
		}
	} else {
		s.roomCount++
		roomID = fmt.Sprintf("game_%d_%d", s.now().UnixMilli(), s.roomCount)
	}

	room := newRoom(roomID, s.now())
	s.rooms[roomID] = room
	s.order = append(s.order, roomID)
	return room
}

// Get 获取一个房间
func (s *Store) Get(roomID string) (*Room, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	room, exists := s.rooms[roomID]
	return room, exists
}

// First 返回最早创建且仍存活的房间，没有房间时返回false
func (s *Store) First() (*Room, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, id := range s.order {
		if room, exists := s.rooms[id]; exists {
			return room, true
		}
	}
	return nil, false
}

// Count 返回当前房间数
func (s *Store) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.rooms)
}

// RoomIDs 按创建顺序返回所有房间ID
func (s *Store) RoomIDs() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	ids := make([]string, 0, len(s.rooms))
	for _, id := range s.order {
		if _, exists := s.rooms[id]; exists {
			ids = append(ids, id)
		}
	}
	return ids
}

// Touch 刷新房间的最后活动时间
func (s *Store) Touch(roomID string) {
	room, exists := s.Get(roomID)
	if !exists {
		return
	}
	room.mu.Lock()
	room.LastActivity = s.now()
	room.mu.Unlock()
}

// EvictStale 清理超过maxAge未活动的房间，返回清理数量
func (s *Store) EvictStale(maxAge time.Duration) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	evicted := 0
	remaining := s.order[:0]
	for _, id := range s.order {
		room, exists := s.rooms[id]
		if !exists {
			continue
		}
		room.mu.Lock()
		stale := now.Sub(room.LastActivity) > maxAge
		room.mu.Unlock()
		if stale {
			delete(s.rooms, id)
			evicted++
			continue
		}
		remaining = append(remaining, id)
	}
	s.order = remaining
	return evicted
}
