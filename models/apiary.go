package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Apiary holds the structure for the apiary collection in mongo
type Apiary struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Location    string             `json:"location,omitempty" bson:"location,omitempty"`
	OwnerID     string             `json:"ownerId" bson:"ownerId"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}
