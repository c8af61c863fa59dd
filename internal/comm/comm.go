package comm

import (
	"time"

	"github.com/direcciones/card-services/internal/cardsvc/models"
)

// NATS subjects shared between the card service and the socket service.
const (
	TopicCardUpdated = "card.updated"
	TopicCardRefresh = "card.refresh"
)

// Message types carried on the subjects above.
const (
	TypeCardUpdated = "card-updated"
	TypeCardRefresh = "card-refresh"
)

// AssignmentView is an assignment entry with its user id flattened to
// the wire representation.
type AssignmentView struct {
	UserID string    `json:"userId"`
	Date   time.Time `json:"date"`
}

// CardView is a card with its street ids resolved to full address
// records. This is the unit of the snapshot broadcast and of mutation
// payloads.
type CardView struct {
	ID            string           `json:"id"`
	Number        int              `json:"number"`
	Group         string           `json:"group"`
	Street        []models.Address `json:"street"`
	UsersAssigned []AssignmentView `json:"usersAssigned"`
	StartDate     *time.Time       `json:"startDate"`
	EndDate       *time.Time       `json:"endDate"`
}

// CardBroadcast is the full-snapshot message published after every
// committing mutation. It always carries the entire card list.
type CardBroadcast struct {
	Type  string     `json:"type"`
	Cards []CardView `json:"cards"`
}

// RefreshRequest asks the card service to re-broadcast the current
// snapshot, typically because a client just (re)connected.
type RefreshRequest struct {
	Type     string `json:"type"`
	SocketId string `json:"socketid"`
}
