package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/cardbattle/game"
	"github.com/wfunc/cardbattle/logger"
	"github.com/wfunc/cardbattle/models"
	"github.com/wfunc/cardbattle/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if the error is due to the listener being closed.
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// AdminService exposes operational queries over net/rpc.
type AdminService struct {
	engine  *game.Engine
	records *services.RecordService
}

// NewAdminService creates a new AdminService.
func NewAdminService(engine *game.Engine, records *services.RecordService) *AdminService {
	return &AdminService{engine: engine, records: records}
}

// Methods follow the net/rpc signature: exported method, exported arguments,
// second argument is a pointer, return type is error.

type RoomCountArgs struct{}

type RoomCountReply struct {
	Count int
	Rooms []string
}

func (as *AdminService) RoomCount(args *RoomCountArgs, reply *RoomCountReply) error {
	store := as.engine.Store()
	reply.Count = store.Count()
	reply.Rooms = store.RoomIDs()
	return nil
}

type RoomStateArgs struct {
	RoomID string
}

type RoomStateReply struct {
	State *game.Room
}

func (as *AdminService) GetRoomState(args *RoomStateArgs, reply *RoomStateReply) error {
	state, err := as.engine.GetState(args.RoomID)
	if err != nil {
		return err
	}
	reply.State = state
	return nil
}

type GiftHistoryArgs struct {
	RoomID string
	Limit  int
}

type GiftHistoryReply struct {
	Events []models.GiftEventRecord
}

func (as *AdminService) GiftHistory(args *GiftHistoryArgs, reply *GiftHistoryReply) error {
	events, err := as.records.GiftHistory(args.RoomID, args.Limit)
	if err != nil {
		return err
	}
	reply.Events = events
	return nil
}
