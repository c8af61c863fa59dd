package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/direcciones/card-services/internal/cardsvc/service"
	"github.com/direcciones/card-services/internal/comm"
)

// Broker is the card service's side of the pub/sub fabric: it publishes
// snapshot broadcasts for the notifier and answers refresh requests
// from the socket service.
type Broker struct {
	Conn     *nats.Conn
	Notifier *service.Notifier
}

func NewBroker(nc *nats.Conn) *Broker {
	return &Broker{Conn: nc}
}

// Publish satisfies service.Publisher.
func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}

// SubscribeRefresh listens for refresh requests from the socket
// service and answers each with a full snapshot broadcast.
func (b *Broker) SubscribeRefresh(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessage)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (b *Broker) handleMessage(msgNats *nats.Msg) {
	msg := &comm.RefreshRequest{}
	err := json.Unmarshal(msgNats.Data, &msg)
	if err != nil {
		log.Errorf("Error nats message %s", err)
		return
	}

	switch msg.Type {
	case comm.TypeCardRefresh:
		if b.Notifier == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		b.Notifier.Broadcast(ctx)
		log.Infof("card snapshot re-broadcast for socket %s", msg.SocketId)
	default:
		log.Error("Unknown message")
	}
}
