package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/direcciones/card-services/internal/cardsvc/models"
)

type CardStore struct {
	coll *mongo.Collection
}

func NewCardStore(db *mongo.Database) *CardStore {
	return &CardStore{coll: db.Collection("cards")}
}

func (s *CardStore) List(ctx context.Context) ([]models.Card, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer cursor.Close(ctx)

	var cards []models.Card
	if err := cursor.All(ctx, &cards); err != nil {
		return nil, fmt.Errorf("failed to decode cards: %w", err)
	}

	return cards, nil
}

// Get returns the card or nil when no document matches.
func (s *CardStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Card, error) {
	var card models.Card
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&card)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	return &card, nil
}

// FindByStreet returns a card other than excludeID holding streetID in
// its street set, or nil when the address is unclaimed.
func (s *CardStore) FindByStreet(ctx context.Context, streetID, excludeID primitive.ObjectID) (*models.Card, error) {
	filter := bson.M{
		"street": streetID,
		"_id":    bson.M{"$ne": excludeID},
	}

	var card models.Card
	err := s.coll.FindOne(ctx, filter).Decode(&card)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to look up street linkage: %w", err)
	}

	return &card, nil
}

// Numbers returns the distinct card numbers currently in use.
func (s *CardStore) Numbers(ctx context.Context) ([]int, error) {
	values, err := s.coll.Distinct(ctx, "number", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch card numbers: %w", err)
	}

	numbers := make([]int, 0, len(values))
	for _, v := range values {
		switch n := v.(type) {
		case int32:
			numbers = append(numbers, int(n))
		case int64:
			numbers = append(numbers, int(n))
		case float64:
			numbers = append(numbers, int(n))
		}
	}

	return numbers, nil
}

func (s *CardStore) Insert(ctx context.Context, card *models.Card) error {
	res, err := s.coll.InsertOne(ctx, card)
	if err != nil {
		return fmt.Errorf("failed to insert card: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		card.ID = id
	}

	return nil
}

// SetStreet replaces the card's street set and returns the updated
// document.
func (s *CardStore) SetStreet(ctx context.Context, id primitive.ObjectID, street []primitive.ObjectID) (*models.Card, error) {
	update := bson.M{"$set": bson.M{"street": street}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var card models.Card
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&card)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update card street: %w", err)
	}

	return &card, nil
}

// Delete removes the card by id. Deleting an absent card is not an
// error; DeleteOne simply matches nothing.
func (s *CardStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	return nil
}

// AssignIfAvailable transitions the card to assigned in one conditional
// write keyed on startDate being null, so a concurrent assignment of
// the same card cannot slip between check and set. Returns nil when the
// card is absent or already assigned; the caller disambiguates.
func (s *CardStore) AssignIfAvailable(ctx context.Context, id primitive.ObjectID, entry models.AssignmentEntry) (*models.Card, error) {
	filter := bson.M{"_id": id, "startDate": nil}
	update := bson.M{
		"$set": bson.M{
			"startDate": entry.Date,
			"endDate":   nil,
		},
		"$push": bson.M{
			"usersAssigned": entry,
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var card models.Card
	err := s.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&card)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to assign card: %w", err)
	}

	return &card, nil
}

// Release transitions the card back to available: start cleared, end
// stamped, assignment history wiped.
func (s *CardStore) Release(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Card, error) {
	update := bson.M{
		"$set": bson.M{
			"startDate":     nil,
			"endDate":       at,
			"usersAssigned": []models.AssignmentEntry{},
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var card models.Card
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&card)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to release card: %w", err)
	}

	return &card, nil
}
