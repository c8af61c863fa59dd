package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/direcciones/card-services/internal/cardsvc/models"
)

type AddressStore struct {
	coll *mongo.Collection
}

func NewAddressStore(db *mongo.Database) *AddressStore {
	return &AddressStore{coll: db.Collection("addresses")}
}

// ListByIDs returns the address records for the given id set. Missing
// ids are skipped, not errors; the linkage only guarantees uniqueness,
// not that every linked address still exists.
func (s *AddressStore) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Address, error) {
	if len(ids) == 0 {
		return []models.Address{}, nil
	}

	cursor, err := s.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	defer cursor.Close(ctx)

	var addresses []models.Address
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, fmt.Errorf("failed to decode addresses: %w", err)
	}

	return addresses, nil
}
