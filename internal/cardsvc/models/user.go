package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User identity record. Only id, name, group and the role flags are
// consumed by this service; the rest of the document belongs to the
// account service.
type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Group    string             `bson:"group" json:"group"`
	IsAdmin  bool               `bson:"isAdmin" json:"isAdmin"`
	IsSS     bool               `bson:"isSS" json:"isSS"`
	IsSCards bool               `bson:"isSCards" json:"isSCards"`
}
