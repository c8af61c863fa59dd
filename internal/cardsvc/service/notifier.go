package service

import (
	"context"
	"encoding/json"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/direcciones/card-services/internal/cardsvc/models"
	"github.com/direcciones/card-services/internal/comm"
)

// Publisher is the broker side of the fan-out. Implemented by
// broker.Broker over NATS.
type Publisher interface {
	Publish(topic string, payload []byte) error
}

type AddressRepo interface {
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Address, error)
}

// Notifier rebuilds the full denormalized card view and hands it to the
// broker after every committing mutation. This is a full-snapshot
// model: every message carries the entire address-joined card list, no
// diffs.
type Notifier struct {
	cards CardRepo
	addrs AddressRepo
	pub   Publisher
	topic string
}

func NewNotifier(cards CardRepo, addrs AddressRepo, pub Publisher) *Notifier {
	return &Notifier{
		cards: cards,
		addrs: addrs,
		pub:   pub,
		topic: comm.TopicCardUpdated,
	}
}

// Snapshot fetches every card and resolves its street ids to full
// address records. No pagination; the card set is small by design.
func (n *Notifier) Snapshot(ctx context.Context) ([]comm.CardView, error) {
	cards, err := n.cards.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]comm.CardView, 0, len(cards))
	for i := range cards {
		view, err := n.View(ctx, &cards[i])
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}

	return views, nil
}

// View resolves a single card for mutation payloads.
func (n *Notifier) View(ctx context.Context, card *models.Card) (*comm.CardView, error) {
	addresses, err := n.addrs.ListByIDs(ctx, card.Street)
	if err != nil {
		return nil, err
	}

	assigned := make([]comm.AssignmentView, 0, len(card.UsersAssigned))
	for _, entry := range card.UsersAssigned {
		assigned = append(assigned, comm.AssignmentView{
			UserID: entry.UserID.Hex(),
			Date:   entry.Date,
		})
	}

	return &comm.CardView{
		ID:            card.ID.Hex(),
		Number:        card.Number,
		Group:         card.Group,
		Street:        addresses,
		UsersAssigned: assigned,
		StartDate:     card.StartDate,
		EndDate:       card.EndDate,
	}, nil
}

// Broadcast publishes the current snapshot. Delivery is fire and
// forget: a failure is logged and swallowed so it can never fail the
// mutation that triggered it.
func (n *Notifier) Broadcast(ctx context.Context) {
	views, err := n.Snapshot(ctx)
	if err != nil {
		log.Errorf("Error building card snapshot: %s", err)
		return
	}

	msg := comm.CardBroadcast{
		Type:  comm.TypeCardUpdated,
		Cards: views,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Error marshaling card snapshot: %s", err)
		return
	}

	if err := n.pub.Publish(n.topic, payload); err != nil {
		log.Errorf("Error publishing card snapshot: %s", err)
	}
}
