package socket

import (
	"log"

	socketio "github.com/googollee/go-socket.io"
)

// NewSocketServer initializes the Socket.IO server used for live delivery in
// match conversations. Clients join the room named after their match's
// conversationId; history persistence stays in the chat service.
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "join", func(c socketio.Conn, conversationID string) {
		if conversationID == "" {
			log.Println("Invalid conversationId in join request")
			return
		}
		log.Printf("Socket %s joined conversation %s", c.ID(), conversationID)
		c.Join(conversationID)
	})

	server.OnEvent("/", "sendMessage", func(c socketio.Conn, message map[string]interface{}) {
		conversationID, _ := message["conversationId"].(string)
		if conversationID == "" {
			return
		}
		server.BroadcastToRoom("/", conversationID, "newMessage", message)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("Socket disconnected:", c.ID(), reason)
	})

	return server
}
