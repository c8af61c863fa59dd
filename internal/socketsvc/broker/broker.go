package broker

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/direcciones/card-services/internal/comm"
)

// Broker bridges NATS and the websocket hub: snapshot broadcasts from
// the card service go out to every connected client, refresh requests
// go the other way.
type Broker struct {
	Conn      *nats.Conn
	Broadcast func(payload []byte) int // injected hub fan-out
}

func NewBroker(conn *nats.Conn, fncBroadcast func(payload []byte) int) *Broker {
	return &Broker{
		Conn:      conn,
		Broadcast: fncBroadcast,
	}
}

// Subscribe consumes snapshot messages from the card service.
func (b *Broker) Subscribe(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessages)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}

// RequestRefresh asks the card service to re-broadcast the current
// snapshot, so a client that just connected converges immediately.
func (b *Broker) RequestRefresh(socketId string) {
	msg := comm.RefreshRequest{
		Type:     comm.TypeCardRefresh,
		SocketId: socketId,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}

	if err := b.Publish(comm.TopicCardRefresh, payload); err != nil {
		log.Errorf("Failed to publish refresh request: %v", err)
	}
}

func (b *Broker) handleMessages(msgNats *nats.Msg) {
	message := &comm.CardBroadcast{}
	err := json.Unmarshal(msgNats.Data, &message)
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}

	switch message.Type {
	case comm.TypeCardUpdated:
		// forward the raw payload; the hub does not care about the shape
		n := b.Broadcast(msgNats.Data)
		log.Infof("card snapshot delivered to %d clients", n)
	default:
		log.Error("Unknown message")
	}
}
