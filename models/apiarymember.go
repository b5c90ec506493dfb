package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership roles for apiary members
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// ApiaryMember links a user to an apiary with a role. At most one
// membership document exists per (apiaryId, userId) pair.
type ApiaryMember struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ApiaryID string             `json:"apiaryId" bson:"apiaryId"`
	UserID   string             `json:"userId" bson:"userId"`
	Role     string             `json:"role" bson:"role"`
	JoinedAt time.Time          `json:"joinedAt" bson:"joinedAt"`
}
