package network

// 客户端到服务端
const (
	MsgTypeHeartbeat = 1
	MsgTypeJoinGame  = 101
	MsgTypePlayCard  = 201
	MsgTypeDrawCard  = 202
	MsgTypeEndTurn   = 203
)

// 服务端到客户端
const (
	MsgTypeGameState    = 301
	MsgTypePlayerJoined = 302
	MsgTypeCardPlayed   = 303
	MsgTypeCardDrawn    = 304
	MsgTypeTurnEnded    = 305
	MsgTypeGiftEffect   = 306
	MsgTypeError        = 400
)
