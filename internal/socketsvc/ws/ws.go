package ws

import (
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// Conn is the slice of *websocket.Conn the hub needs; faked in tests.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Ws is the subscriber registry: every connected client, keyed by
// socket id. Broadcast is fire and forget; a subscriber whose write
// fails is dropped so it can never hold up the rest.
type Ws struct {
	connMap sync.Map // socketId -> Conn
}

func NewWs() *Ws {
	return &Ws{}
}

func (s *Ws) StoreConnection(socketId string, conn Conn) {
	s.connMap.Store(socketId, conn)
}

func (s *Ws) GetConnection(socketId string) (Conn, bool) {
	conn, ok := s.connMap.Load(socketId)
	if !ok {
		return nil, false
	}
	return conn.(Conn), true
}

func (s *Ws) RemoveConnection(socketId string) {
	if conn, ok := s.connMap.Load(socketId); ok {
		conn.(Conn).Close()
	}
	s.connMap.Delete(socketId)
}

// Broadcast pushes the payload to every connected client and returns
// the number of deliveries. Stale connections are closed and removed
// from the registry on write failure.
func (s *Ws) Broadcast(payload []byte) int {
	sent := 0

	s.connMap.Range(func(key, value interface{}) bool {
		conn := value.(Conn)
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Warnf("dropping stale socket %s: %v", key, err)
			conn.Close()
			s.connMap.Delete(key)
			return true
		}
		sent++
		return true
	})

	return sent
}

func (s *Ws) Count() int {
	count := 0
	s.connMap.Range(func(key, value any) bool {
		count++
		return true
	})
	return count
}
