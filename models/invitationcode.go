package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvitationCode represents the structure of an invitation code document in MongoDB.
// A code is redeemable iff isActive && not expired && currentUses < maxUses; these
// conditions are evaluated at redemption time, never persisted as a combined status.
type InvitationCode struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Code        string             `json:"code" bson:"code" index:"unique"`
	ApiaryID    string             `json:"apiaryId" bson:"apiaryId"`
	CreatedBy   string             `json:"createdBy" bson:"createdBy"`
	ExpiresAt   *time.Time         `json:"expiresAt,omitempty" bson:"expiresAt,omitempty"`
	MaxUses     int                `json:"maxUses" bson:"maxUses"`
	CurrentUses int                `json:"currentUses" bson:"currentUses"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}
