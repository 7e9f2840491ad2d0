package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/rpc"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wfunc/cardbattle/broadcast"
	"github.com/wfunc/cardbattle/config"
	"github.com/wfunc/cardbattle/game"
	"github.com/wfunc/cardbattle/live"
	"github.com/wfunc/cardbattle/logger"
	"github.com/wfunc/cardbattle/monitor"
	"github.com/wfunc/cardbattle/network"
	"github.com/wfunc/cardbattle/persistence"
	cardbattle_rpc "github.com/wfunc/cardbattle/rpc"
	"github.com/wfunc/cardbattle/services"
	"github.com/wfunc/cardbattle/session"
	"github.com/wfunc/cardbattle/timer"
)

type GameServer struct {
	cfg            *config.Config
	upgrader       websocket.Upgrader
	store          *game.Store
	engine         *game.Engine
	adapter        *live.Adapter
	sessionManager *session.Manager
	broadcaster    broadcast.Broadcaster
	records        *services.RecordService
	rpcServer      *cardbattle_rpc.Server
	timers         *timer.Manager
	monitor        *monitor.Monitor
	shutdownChan   chan struct{}
}

func NewGameServer(cfg *config.Config, db persistence.Database) *GameServer {
	store := game.NewStore()
	engine := game.NewEngine(store)

	s := &GameServer{
		cfg:            cfg,
		store:          store,
		engine:         engine,
		adapter:        live.NewAdapter(engine),
		sessionManager: session.NewManager(),
		records:        services.NewRecordService(db),
		timers:         timer.NewManager(),
		monitor:        monitor.NewMonitor("cardbattle"),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	// 初始化广播器
	s.broadcaster = broadcast.NewRoomBroadcaster(store, s.sessionManager)

	// 初始化RPC服务器
	rpcServer, err := cardbattle_rpc.NewServer(cfg.Server.RPCAddress)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	// 注册RPC服务
	adminService := cardbattle_rpc.NewAdminService(engine, s.records)
	rpc.Register(adminService)

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()
	s.monitor.StartServer(s.cfg.Server.MetricsAddress)

	// 周期清理过期房间
	interval := s.cfg.Game.SweepInterval
	s.timers.AddTimer(interval, interval, s.sweepStaleRooms)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/game/", s.handleGameState)
	mux.HandleFunc("/webhook/tiktok", s.handleWebhook)

	logger.Log.Infof("Game server listening on %s", s.cfg.Server.HTTPAddress)
	return http.ListenAndServe(s.cfg.Server.HTTPAddress, withCORS(mux))
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.timers.Stop()
	s.rpcServer.Stop()
}

// withCORS 放行所有来源，前端独立部署
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Signature")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *GameServer) sweepStaleRooms() {
	evicted := s.store.EvictStale(s.cfg.Game.RoomMaxAge)
	if evicted > 0 {
		logger.Log.Infof("Cleaned up %d inactive rooms", evicted)
		s.monitor.AddRoomsEvicted(evicted)
	}
	s.monitor.SetActiveRooms(s.store.Count())
}

// --- HTTP ---

func (s *GameServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "OK",
		"message":   "Card battle server running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *GameServer) handleGameState(w http.ResponseWriter, r *http.Request) {
	roomID := strings.TrimPrefix(r.URL.Path, "/api/game/")
	if roomID == "" {
		http.Error(w, "missing room id", http.StatusBadRequest)
		return
	}

	state, err := s.engine.GetState(roomID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(state)
}

func (s *GameServer) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "cannot read body", http.StatusBadRequest)
		return
	}

	// 签名校验目前是全放行的占位实现
	if !s.adapter.ValidateSignature(body, r.Header.Get("X-Signature")) {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	var evt live.WebhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	s.monitor.IncWebhookEvent(evt.Event)

	if applied := s.adapter.HandleWebhook(evt); applied != nil {
		s.monitor.IncGiftEffect(string(applied.Kind))
		s.broadcaster.BroadcastJSON(applied.State.ID, network.MsgTypeGiftEffect, applied)
		s.persistGiftEvent(evt, applied)
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Webhook received"))
}

// --- WebSocket ---

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.monitor.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.sessionManager.Remove(sess.GetID())
		s.monitor.DecOnlinePlayers()
		// 房间保留给断线重连，过期后由清理任务回收
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			s.handlePacket(sess, packet)
		}
	}
}

func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	start := time.Now()
	s.monitor.IncMessagesReceived()
	defer func() {
		s.monitor.ObserveMessageLatency(time.Since(start))
	}()

	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		sess.LastActive = time.Now()
	case network.MsgTypeJoinGame:
		s.handleJoinGame(sess, packet)
	case network.MsgTypePlayCard:
		s.handlePlayCard(sess, packet)
	case network.MsgTypeDrawCard:
		s.handleDrawCard(sess, packet)
	case network.MsgTypeEndTurn:
		s.handleEndTurn(sess, packet)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

type joinGameRequest struct {
	GameID     string `json:"gameId"`
	PlayerType string `json:"playerType"`
}

type playCardRequest struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
	CardID   string `json:"cardId"`
}

type drawCardRequest struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
}

type endTurnRequest struct {
	GameID string `json:"gameId"`
}

func (s *GameServer) sendError(sess *session.Session, err error) {
	sess.SendJSON(network.MsgTypeError, map[string]string{"message": err.Error()})
}

func (s *GameServer) handleJoinGame(sess *session.Session, packet *network.Packet) {
	var req joinGameRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}

	side := game.Side(req.PlayerType)
	state := s.engine.BindSide(req.GameID, side, sess.GetID())

	// 房间ID可能是新生成的，以返回的状态为准
	sess.Bind(state.ID, string(side))

	sess.SendJSON(network.MsgTypeGameState, state)
	s.broadcaster.BroadcastJSONExcept(state.ID, sess.GetID(), network.MsgTypePlayerJoined, map[string]interface{}{
		"playerType": req.PlayerType,
		"gameState":  state,
	})

	s.monitor.SetActiveRooms(s.store.Count())
	s.persistSnapshot(state)

	logger.Log.Infof("%s joined game %s (session %s)", req.PlayerType, state.ID, sess.GetID())
}

func (s *GameServer) handlePlayCard(sess *session.Session, packet *network.Packet) {
	var req playCardRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}

	result, err := s.engine.PlayCard(req.GameID, game.Side(req.PlayerID), req.CardID)
	if err != nil {
		s.sendError(sess, err)
		return
	}

	s.broadcaster.BroadcastJSON(req.GameID, network.MsgTypeCardPlayed, map[string]interface{}{
		"playerId":  req.PlayerID,
		"cardId":    req.CardID,
		"gameState": result.Room,
		"message":   result.Message,
	})
	s.persistSnapshot(result.Room)
}

func (s *GameServer) handleDrawCard(sess *session.Session, packet *network.Packet) {
	var req drawCardRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}

	result, err := s.engine.DrawCard(req.GameID, game.Side(req.PlayerID))
	if err != nil {
		s.sendError(sess, err)
		return
	}

	s.broadcaster.BroadcastJSON(req.GameID, network.MsgTypeCardDrawn, map[string]interface{}{
		"playerId":  req.PlayerID,
		"cardId":    result.CardID,
		"gameState": result.Room,
	})
	s.persistSnapshot(result.Room)
}

func (s *GameServer) handleEndTurn(sess *session.Session, packet *network.Packet) {
	var req endTurnRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		return
	}

	result, err := s.engine.EndTurn(req.GameID)
	if err != nil {
		s.sendError(sess, err)
		return
	}

	s.broadcaster.BroadcastJSON(req.GameID, network.MsgTypeTurnEnded, map[string]interface{}{
		"gameState": result.Room,
		"message":   result.Message,
	})
	s.persistSnapshot(result.Room)
}

// --- 审计落库，失败只记日志 ---

func (s *GameServer) persistSnapshot(state *game.Room) {
	go func() {
		if err := s.records.RecordSnapshot(state); err != nil {
			logger.Log.Warnf("Failed to persist snapshot for room %s: %v", state.ID, err)
		}
	}()
}

func (s *GameServer) persistGiftEvent(evt live.WebhookEvent, applied *live.Applied) {
	go func() {
		if err := s.records.RecordGiftEvent(evt, applied); err != nil {
			logger.Log.Warnf("Failed to persist gift event for room %s: %v", applied.State.ID, err)
		}
	}()
}
