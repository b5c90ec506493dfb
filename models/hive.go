package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Hive holds the structure for the hive collection in mongo
type Hive struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ApiaryID         string             `json:"apiaryId" bson:"apiaryId"`
	Name             string             `json:"name" bson:"name"`
	Location         string             `json:"location,omitempty" bson:"location,omitempty"`
	Type             string             `json:"type" bson:"type"`
	IsNucleus        bool               `json:"isNucleus" bson:"isNucleus"`
	Status           string             `json:"status" bson:"status"`
	Notes            string             `json:"notes,omitempty" bson:"notes,omitempty"`
	HasQueen         bool               `json:"hasQueen" bson:"hasQueen"`
	QueenMarked      bool               `json:"queenMarked" bson:"queenMarked"`
	QueenColor       string             `json:"queenColor,omitempty" bson:"queenColor,omitempty"`
	QueenAddedDate   *time.Time         `json:"queenAddedDate,omitempty" bson:"queenAddedDate,omitempty"`
	QueenWingClipped bool               `json:"queenWingClipped" bson:"queenWingClipped"`
	Population       string             `json:"population,omitempty" bson:"population,omitempty"`
	Varroa           string             `json:"varroa,omitempty" bson:"varroa,omitempty"`
	Honey            string             `json:"honey,omitempty" bson:"honey,omitempty"`
	Frames           string             `json:"frames,omitempty" bson:"frames,omitempty"`
	IsWintered       bool               `json:"isWintered" bson:"isWintered"`
	Image            string             `json:"image,omitempty" bson:"image,omitempty"`
	LastInspection   *time.Time         `json:"lastInspection,omitempty" bson:"lastInspection,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Hive status values
const (
	HiveStatusExcellent = "excellent"
	HiveStatusGood      = "good"
	HiveStatusWarning   = "warning"
	HiveStatusCritical  = "critical"
	HiveStatusActive    = "active"
	HiveStatusInactive  = "inactive"
	HiveStatusSwarmed   = "swarmed"
)
