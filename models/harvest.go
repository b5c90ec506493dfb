package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Harvest holds the structure for the harvest collection in mongo
type Harvest struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ApiaryID  string             `json:"apiaryId" bson:"apiaryId"`
	HiveID    string             `json:"hiveId" bson:"hiveId"`
	Date      time.Time          `json:"date" bson:"date"`
	Amount    float64            `json:"amount" bson:"amount"`
	Type      string             `json:"type" bson:"type"`
	Notes     string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Harvest type values
const (
	HarvestTypeHoney    = "honey"
	HarvestTypeWax      = "wax"
	HarvestTypePropolis = "propolis"
)
