package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SchedulerLock is the distributed lock document for scheduled jobs. One
// document exists per job name; the holder is the instance that currently
// owns the job.
type SchedulerLock struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Holder    string             `json:"holder" bson:"holder"`
	ExpiresAt time.Time          `json:"expiresAt" bson:"expiresAt"`
}
