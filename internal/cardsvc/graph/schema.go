package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/direcciones/card-services/internal/cardsvc/models"
	"github.com/direcciones/card-services/internal/cardsvc/service"
)

// NewSchema builds the executable GraphQL schema around the lifecycle
// engine and the notifier. One query, five mutations; all mutations
// answer with the {message, success, card?} envelope.
func NewSchema(cards *service.CardService, notifier *service.Notifier) (graphql.Schema, error) {
	r := &Resolver{cards: cards, notifier: notifier}

	addressType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Address",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type: graphql.NewNonNull(graphql.ID),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					addr, ok := p.Source.(models.Address)
					if !ok {
						return nil, nil
					}
					return addr.ID.Hex(), nil
				},
			},
			"street":       &graphql.Field{Type: graphql.String},
			"number":       &graphql.Field{Type: graphql.String},
			"city":         &graphql.Field{Type: graphql.String},
			"neighborhood": &graphql.Field{Type: graphql.String},
			"gps":          &graphql.Field{Type: graphql.String},
			"confirmed":    &graphql.Field{Type: graphql.Boolean},
		},
	})

	assignmentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AssignmentEntry",
		Fields: graphql.Fields{
			"userId": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"date":   &graphql.Field{Type: graphql.DateTime},
		},
	})

	cardType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Card",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"number":        &graphql.Field{Type: graphql.Int},
			"group":         &graphql.Field{Type: graphql.String},
			"street":        &graphql.Field{Type: graphql.NewList(addressType)},
			"usersAssigned": &graphql.Field{Type: graphql.NewList(assignmentType)},
			"startDate":     &graphql.Field{Type: graphql.DateTime},
			"endDate":       &graphql.Field{Type: graphql.DateTime},
		},
	})

	cardPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CardPayload",
		Fields: graphql.Fields{
			"message": &graphql.Field{Type: graphql.String},
			"success": &graphql.Field{Type: graphql.Boolean},
			"card":    &graphql.Field{Type: cardType},
		},
	})

	cardListPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CardListPayload",
		Fields: graphql.Fields{
			"message": &graphql.Field{Type: graphql.String},
			"success": &graphql.Field{Type: graphql.Boolean},
			"card":    &graphql.Field{Type: graphql.NewList(cardType)},
		},
	})

	deletePayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DeleteCardPayload",
		Fields: graphql.Fields{
			"message": &graphql.Field{Type: graphql.String},
			"success": &graphql.Field{Type: graphql.Boolean},
		},
	})

	newCardInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "NewCardInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"startDate": &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
			"endDate":   &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
		},
	})

	updateCardInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UpdateCardInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"street": &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.ID))},
		},
	})

	assignCardInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "AssignCardInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"userId":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"cardIds": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID)))},
		},
	})

	returnCardInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "ReturnCardInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"userId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"cardId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"card": &graphql.Field{
				Type:    graphql.NewList(cardType),
				Resolve: r.queryCards,
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createCard": &graphql.Field{
				Type: cardPayloadType,
				Args: graphql.FieldConfigArgument{
					"newCard": &graphql.ArgumentConfig{Type: newCardInput},
				},
				Resolve: r.createCard,
			},
			"updateCard": &graphql.Field{
				Type: cardPayloadType,
				Args: graphql.FieldConfigArgument{
					"updateCardInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateCardInput)},
				},
				Resolve: r.updateCard,
			},
			"deleteCard": &graphql.Field{
				Type: deletePayloadType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.deleteCard,
			},
			"assignCard": &graphql.Field{
				Type: cardListPayloadType,
				Args: graphql.FieldConfigArgument{
					"assignCardInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(assignCardInput)},
				},
				Resolve: r.assignCard,
			},
			"returnCard": &graphql.Field{
				Type: cardPayloadType,
				Args: graphql.FieldConfigArgument{
					"returnCardInput": &graphql.ArgumentConfig{Type: graphql.NewNonNull(returnCardInput)},
				},
				Resolve: r.returnCard,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}
