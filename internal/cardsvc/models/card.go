package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentEntry records a checkout of a card by a user. The history
// is append-only while a card is out, but return wipes it, so at most
// the last entry is meaningful.
type AssignmentEntry struct {
	UserID primitive.ObjectID `bson:"userId" json:"userId"`
	Date   time.Time          `bson:"date" json:"date"`
}

// Card is an access-card document. Street holds the linked address ids;
// an address id may live in at most one card's street set, and a card
// whose street set becomes empty is deleted rather than persisted.
type Card struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Number        int                  `bson:"number" json:"number"`
	Group         string               `bson:"group" json:"group"`
	Street        []primitive.ObjectID `bson:"street" json:"street"`
	UsersAssigned []AssignmentEntry    `bson:"usersAssigned" json:"usersAssigned"`
	StartDate     *time.Time           `bson:"startDate" json:"startDate"`
	EndDate       *time.Time           `bson:"endDate" json:"endDate"`
}

// Assigned reports whether the card is currently checked out.
func (c *Card) Assigned() bool {
	return c.StartDate != nil
}

// LastAssignment returns the most recent assignment entry, or nil.
func (c *Card) LastAssignment() *AssignmentEntry {
	if len(c.UsersAssigned) == 0 {
		return nil
	}
	return &c.UsersAssigned[len(c.UsersAssigned)-1]
}
