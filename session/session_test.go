package session

import (
	"net"
	"testing"
	"time"

	"github.com/wfunc/cardbattle/network"
)

// MockConnection is a test double for the network.Connection interface.
type MockConnection struct{}

func (m *MockConnection) Send(msgID uint16, data []byte) error       { return nil }
func (m *MockConnection) SendJSON(msgID uint16, v interface{}) error { return nil }
func (m *MockConnection) Close() error                               { return nil }
func (m *MockConnection) RemoteAddr() net.Addr                       { return &net.TCPAddr{} }
func (m *MockConnection) SetHeartbeat(interval time.Duration)        {}
func (m *MockConnection) ReadPacket() (*network.Packet, error)       { return nil, nil }

func TestNewManager(t *testing.T) {
	manager := NewManager()
	if manager == nil {
		t.Fatal("NewManager should not return nil")
	}
	if manager.sessions == nil {
		t.Fatal("NewManager should initialize the sessions map")
	}
}

func TestManager_Add_Get_Remove(t *testing.T) {
	manager := NewManager()
	sessionID := "test_session_1"
	sess := NewSession(sessionID, &MockConnection{})

	// Test Add
	manager.Add(sess)
	if manager.Count() != 1 {
		t.Fatalf("Expected session count to be 1, got %d", manager.Count())
	}

	// Test Get
	retrievedSess, exists := manager.Get(sessionID)
	if !exists {
		t.Fatal("Get should find the added session")
	}
	if retrievedSess != sess {
		t.Fatal("Get should return the same session instance")
	}

	// Test Remove
	manager.Remove(sessionID)
	if manager.Count() != 0 {
		t.Fatalf("Expected session count to be 0 after removal, got %d", manager.Count())
	}

	_, exists = manager.Get(sessionID)
	if exists {
		t.Fatal("Get should not find the removed session")
	}
}

func TestManager_GetByRoom(t *testing.T) {
	manager := NewManager()

	sess1 := NewSession("session1", &MockConnection{})
	sess1.Bind("room_a", "streamer")

	sess2 := NewSession("session2", &MockConnection{})
	sess2.Bind("room_b", "viewers")

	sess3 := NewSession("session3", &MockConnection{})
	sess3.Bind("room_a", "viewers")

	manager.Add(sess1)
	manager.Add(sess2)
	manager.Add(sess3)

	roomASessions := manager.GetByRoom("room_a")
	if len(roomASessions) != 2 {
		t.Errorf("Expected 2 sessions in room_a, got %d", len(roomASessions))
	}

	roomBSessions := manager.GetByRoom("room_b")
	if len(roomBSessions) != 1 {
		t.Errorf("Expected 1 session in room_b, got %d", len(roomBSessions))
	}

	emptySessions := manager.GetByRoom("room_c")
	if len(emptySessions) != 0 {
		t.Errorf("Expected 0 sessions in room_c, got %d", len(emptySessions))
	}
}

func TestSession_Bind(t *testing.T) {
	sess := NewSession("test_session", &MockConnection{})
	sess.Bind("r1", "viewers")

	if sess.Room() != "r1" {
		t.Errorf("Expected room r1, got %s", sess.Room())
	}
	if sess.Side != "viewers" {
		t.Errorf("Expected side viewers, got %s", sess.Side)
	}
}

func TestSession_Set_Get(t *testing.T) {
	sess := NewSession("test_session", &MockConnection{})
	key := "test_key"
	value := "test_value"

	sess.Set(key, value)

	retrievedValue := sess.Get(key)
	if retrievedValue != value {
		t.Errorf("Expected value %v, got %v", value, retrievedValue)
	}

	nilValue := sess.Get("non_existent_key")
	if nilValue != nil {
		t.Errorf("Expected nil for non-existent key, got %v", nilValue)
	}
}
