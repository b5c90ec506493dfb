package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task holds the structure for the task collection in mongo
type Task struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ApiaryID    string             `json:"apiaryId" bson:"apiaryId"`
	HiveID      string             `json:"hiveId,omitempty" bson:"hiveId,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	DueDate     time.Time          `json:"dueDate" bson:"dueDate"`
	Priority    string             `json:"priority" bson:"priority"`
	Type        string             `json:"type" bson:"type"`
	Completed   bool               `json:"completed" bson:"completed"`
	CreatedBy   string             `json:"createdBy" bson:"createdBy"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

// Task priority values
const (
	TaskPriorityLow    = "low"
	TaskPriorityMedium = "medium"
	TaskPriorityHigh   = "high"
)

// Task type values
const (
	TaskTypeInspection  = "inspection"
	TaskTypeTreatment   = "treatment"
	TaskTypeFeeding     = "feeding"
	TaskTypeMaintenance = "maintenance"
	TaskTypeOther       = "other"
)
