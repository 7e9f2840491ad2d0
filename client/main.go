package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	MsgTypeJoinGame = 101
	MsgTypePlayCard = 201
	MsgTypeDrawCard = 202
	MsgTypeEndTurn  = 203
)

const defaultRoom = "demo_room"

// send formats and sends a message to the WebSocket server.
func send(c *websocket.Conn, msgID uint16, data []byte) error {
	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func sendJSON(c *websocket.Conn, msgID uint16, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return send(c, msgID, data)
}

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	u := url.URL{Scheme: "ws", Host: "localhost:3000", Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	// Read loop
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			if len(message) < 4 {
				log.Printf("Received invalid packet of size %d", len(message))
				continue
			}
			msgID := binary.BigEndian.Uint16(message[0:2])
			data := message[4:]
			log.Printf("<- RECV (ID: %d): %s", msgID, string(data))
		}
	}()

	// Join as the viewers side automatically
	log.Printf("Joining game %s as viewers...", defaultRoom)
	join := map[string]string{"gameId": defaultRoom, "playerType": "viewers"}
	if err := sendJSON(c, MsgTypeJoinGame, join); err != nil {
		log.Println("Write error:", err)
		return
	}

	log.Println("Client started. Commands: draw | end | play <cardId>")

	// Write loop
	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-done:
			return
		case <-interrupt:
			log.Println("Interrupt received, closing connection.")
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				log.Println("Write close error:", err)
			}
			select {
			case <-done:
			case <-time.After(time.Second):
			}
			return
		default:
			text, _ := reader.ReadString('\n')
			text = strings.TrimSpace(text)

			switch {
			case text == "draw":
				req := map[string]string{"gameId": defaultRoom, "playerId": "viewers"}
				if err := sendJSON(c, MsgTypeDrawCard, req); err != nil {
					log.Println("Write error:", err)
					return
				}
				log.Println("-> SENT: draw")
			case text == "end":
				req := map[string]string{"gameId": defaultRoom}
				if err := sendJSON(c, MsgTypeEndTurn, req); err != nil {
					log.Println("Write error:", err)
					return
				}
				log.Println("-> SENT: end turn")
			case strings.HasPrefix(text, "play "):
				cardID := strings.TrimPrefix(text, "play ")
				req := map[string]string{"gameId": defaultRoom, "playerId": "viewers", "cardId": cardID}
				if err := sendJSON(c, MsgTypePlayCard, req); err != nil {
					log.Println("Write error:", err)
					return
				}
				log.Printf("-> SENT: play %s", cardID)
			}
		}
	}
}
