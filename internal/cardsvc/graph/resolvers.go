package graph

import (
	"errors"
	"fmt"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/direcciones/card-services/internal/cardsvc/auth"
	"github.com/direcciones/card-services/internal/cardsvc/service"
	"github.com/direcciones/card-services/internal/comm"
)

var errMissingAssignFields = errors.New("the userId and cardIds fields are required")
var errMissingReturnFields = errors.New("the userId and cardId fields are required")

// Resolver holds the collaborators the GraphQL operations run against.
type Resolver struct {
	cards    *service.CardService
	notifier *service.Notifier
}

// Mutation envelopes. Failures never surface as GraphQL errors on the
// mutation path; they are folded into message/success instead. The
// query path keeps the opposite convention.
type cardPayload struct {
	Message string         `json:"message"`
	Success bool           `json:"success"`
	Card    *comm.CardView `json:"card"`
}

type cardListPayload struct {
	Message string          `json:"message"`
	Success bool            `json:"success"`
	Card    []comm.CardView `json:"card"`
}

type deletePayload struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

func (r *Resolver) queryCards(p graphql.ResolveParams) (interface{}, error) {
	if _, err := auth.FromContext(p.Context); err != nil {
		return nil, fmt.Errorf("failed to fetch cards: %w", err)
	}

	views, err := r.notifier.Snapshot(p.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cards: %w", err)
	}

	// a fetch also refreshes every live subscriber
	r.notifier.Broadcast(p.Context)

	return views, nil
}

func (r *Resolver) createCard(p graphql.ResolveParams) (interface{}, error) {
	claims, err := auth.FromContext(p.Context)
	if err != nil {
		return cardPayload{Message: fmt.Sprintf("Failed to create card: %v", err)}, nil
	}

	input, _ := p.Args["newCard"].(map[string]interface{})

	card, err := r.cards.Create(p.Context, claims.Group, argTime(input, "startDate"), argTime(input, "endDate"))
	if err != nil {
		return cardPayload{Message: fmt.Sprintf("Failed to create card: %v", err)}, nil
	}

	view, err := r.notifier.View(p.Context, card)
	if err != nil {
		return cardPayload{Message: fmt.Sprintf("Failed to create card: %v", err)}, nil
	}

	return cardPayload{Message: "Card created successfully.", Success: true, Card: view}, nil
}

func (r *Resolver) updateCard(p graphql.ResolveParams) (interface{}, error) {
	if _, err := auth.FromContext(p.Context); err != nil {
		return cardPayload{Message: fmt.Sprintf("Failed to update card: %v", err)}, nil
	}

	input, _ := p.Args["updateCardInput"].(map[string]interface{})
	id := argString(input, "id")
	street := argStringList(input, "street")

	card, err := r.cards.Update(p.Context, id, street)
	if err != nil {
		return cardPayload{Message: fmt.Sprintf("Failed to update card: %v", err)}, nil
	}

	if card == nil {
		// toggled down to an empty street set: the card is gone
		return cardPayload{Message: "Card deleted: no addresses remain linked.", Success: true}, nil
	}

	view, err := r.notifier.View(p.Context, card)
	if err != nil {
		return cardPayload{Message: fmt.Sprintf("Failed to update card: %v", err)}, nil
	}

	return cardPayload{Message: "Card updated.", Success: true, Card: view}, nil
}

func (r *Resolver) deleteCard(p graphql.ResolveParams) (interface{}, error) {
	if _, err := auth.FromContext(p.Context); err != nil {
		return deletePayload{Message: fmt.Sprintf("Failed to delete card: %v", err)}, nil
	}

	id, _ := p.Args["id"].(string)

	if err := r.cards.Delete(p.Context, id); err != nil {
		return deletePayload{Message: fmt.Sprintf("Failed to delete card: %v", err)}, nil
	}

	return deletePayload{Message: "Card deleted.", Success: true}, nil
}

func (r *Resolver) assignCard(p graphql.ResolveParams) (interface{}, error) {
	claims, err := auth.FromContext(p.Context)
	if err != nil {
		return cardListPayload{Message: fmt.Sprintf("Failed to assign cards: %v", err)}, nil
	}
	if !claims.CanAssign() {
		return cardListPayload{Message: fmt.Sprintf("Failed to assign cards: %v", auth.ErrUnauthorized)}, nil
	}

	input, _ := p.Args["assignCardInput"].(map[string]interface{})
	userID := argString(input, "userId")
	cardIDs := argStringList(input, "cardIds")

	if userID == "" || len(cardIDs) == 0 {
		return cardListPayload{Message: fmt.Sprintf("Failed to assign cards: %v", errMissingAssignFields)}, nil
	}

	cards, user, err := r.cards.Assign(p.Context, claims.Group, userID, cardIDs)
	if err != nil {
		return cardListPayload{Message: fmt.Sprintf("Failed to assign cards: %v", err)}, nil
	}

	views := make([]comm.CardView, 0, len(cards))
	for i := range cards {
		view, err := r.notifier.View(p.Context, &cards[i])
		if err != nil {
			return cardListPayload{Message: fmt.Sprintf("Failed to assign cards: %v", err)}, nil
		}
		views = append(views, *view)
	}

	return cardListPayload{
		Message: fmt.Sprintf("Cards assigned to user %s.", user.Name),
		Success: true,
		Card:    views,
	}, nil
}

func (r *Resolver) returnCard(p graphql.ResolveParams) (interface{}, error) {
	if _, err := auth.FromContext(p.Context); err != nil {
		return cardPayload{Message: fmt.Sprintf("Failed to return card: %v", err)}, nil
	}

	input, _ := p.Args["returnCardInput"].(map[string]interface{})
	userID := argString(input, "userId")
	cardID := argString(input, "cardId")

	if userID == "" || cardID == "" {
		return cardPayload{Message: fmt.Sprintf("Failed to return card: %v", errMissingReturnFields)}, nil
	}

	card, err := r.cards.Return(p.Context, userID, cardID)
	if err != nil {
		return cardPayload{Message: fmt.Sprintf("Failed to return card: %v", err)}, nil
	}

	view, err := r.notifier.View(p.Context, card)
	if err != nil {
		return cardPayload{Message: fmt.Sprintf("Failed to return card: %v", err)}, nil
	}

	return cardPayload{Message: "Card returned successfully.", Success: true, Card: view}, nil
}

func argString(input map[string]interface{}, key string) string {
	if v, ok := input[key].(string); ok {
		return v
	}
	return ""
}

func argStringList(input map[string]interface{}, key string) []string {
	raw, ok := input[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func argTime(input map[string]interface{}, key string) *time.Time {
	if v, ok := input[key].(time.Time); ok {
		return &v
	}
	return nil
}
