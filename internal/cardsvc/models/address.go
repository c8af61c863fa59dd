package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Address is referenced by cards through their street set, never owned.
// Content is managed by the address service; this service only reads
// it by id-set when building the denormalized card view.
type Address struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Street       string             `bson:"street" json:"street"`
	Number       string             `bson:"number" json:"number"`
	City         string             `bson:"city" json:"city"`
	Neighborhood string             `bson:"neighborhood" json:"neighborhood"`
	Gps          string             `bson:"gps,omitempty" json:"gps"`
	Confirmed    bool               `bson:"confirmed" json:"confirmed"`
}
