package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Inspection holds the structure for the inspection collection in mongo
type Inspection struct {
	ID                primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ApiaryID          string             `json:"apiaryId" bson:"apiaryId"`
	HiveID            string             `json:"hiveId" bson:"hiveId"`
	Date              time.Time          `json:"date" bson:"date"`
	Weather           string             `json:"weather,omitempty" bson:"weather,omitempty"`
	Temperature       *float64           `json:"temperature,omitempty" bson:"temperature,omitempty"`
	Duration          string             `json:"duration,omitempty" bson:"duration,omitempty"`
	BroodFrames       int                `json:"broodFrames" bson:"broodFrames"`
	TotalFrames       int                `json:"totalFrames" bson:"totalFrames"`
	QueenSeen         *bool              `json:"queenSeen,omitempty" bson:"queenSeen,omitempty"`
	Temperament       string             `json:"temperament,omitempty" bson:"temperament,omitempty"`
	VarroaCount       *int               `json:"varroaCount,omitempty" bson:"varroaCount,omitempty"`
	VarroaDays        *int               `json:"varroaDays,omitempty" bson:"varroaDays,omitempty"`
	VarroaPerDay      *float64           `json:"varroaPerDay,omitempty" bson:"varroaPerDay,omitempty"`
	VarroaLevel       string             `json:"varroaLevel,omitempty" bson:"varroaLevel,omitempty"`
	Observations      []string           `json:"observations,omitempty" bson:"observations,omitempty"`
	CustomObservation string             `json:"customObservation,omitempty" bson:"customObservation,omitempty"`
	Notes             string             `json:"notes,omitempty" bson:"notes,omitempty"`
	IsWintering       bool               `json:"isWintering" bson:"isWintering"`
	WinterFeed        *float64           `json:"winterFeed,omitempty" bson:"winterFeed,omitempty"`
	IsVarroaTreatment bool               `json:"isVarroaTreatment" bson:"isVarroaTreatment"`
	TreatmentType     string             `json:"treatmentType,omitempty" bson:"treatmentType,omitempty"`
	Rating            *int               `json:"rating,omitempty" bson:"rating,omitempty"`
	Findings          []string           `json:"findings,omitempty" bson:"findings,omitempty"`
	CreatedAt         time.Time          `json:"createdAt" bson:"createdAt"`
}
