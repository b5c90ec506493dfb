package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/bkeeper-app/bkeeper-api/api"
	"github.com/bkeeper-app/bkeeper-api/config"
	"github.com/bkeeper-app/bkeeper-api/databases"
	"github.com/bkeeper-app/bkeeper-api/models"
)

// Task exported for testing purposes
type Task struct {
	DB databases.TaskDatabase
}

// TasksByApiaryIDHandler returns all tasks for an apiary ordered by due date.
// The optional completed query param ("true"/"false") filters by state.
func (t Task) TasksByApiaryIDHandler(w http.ResponseWriter, r *http.Request) {
	apiaryID := mux.Vars(r)["apiaryId"]

	filter := bson.M{"apiaryId": apiaryID}
	switch r.URL.Query().Get("completed") {
	case "true":
		filter["completed"] = true
	case "false":
		filter["completed"] = false
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "dueDate", Value: 1}})
	dbResp, err := t.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get tasks", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Task{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateTaskHandler creates a new task
func (t Task) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	apiaryID := mux.Vars(r)["apiaryId"]

	var newTask models.Task
	if err := json.NewDecoder(r.Body).Decode(&newTask); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if newTask.Title == "" {
		config.ErrorStatus("task title is required", http.StatusBadRequest, w, nil)
		return
	}

	newTask.ID = primitive.NewObjectID()
	newTask.ApiaryID = apiaryID
	newTask.CreatedBy = api.UserIDFromContext(r.Context())
	newTask.Completed = false
	if newTask.Priority == "" {
		newTask.Priority = models.TaskPriorityMedium
	}
	if newTask.Type == "" {
		newTask.Type = models.TaskTypeOther
	}
	newTask.CreatedAt = time.Now()

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := t.DB.InsertOne(ctx, newTask); err != nil {
		config.ErrorStatus("failed to create task", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(newTask)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

type taskCompletionRequest struct {
	Completed bool `json:"completed"`
}

// SetTaskCompletionHandler marks a task completed or not
func (t Task) SetTaskCompletionHandler(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskId"]

	tID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req taskCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := t.DB.UpdateOne(ctx, bson.M{"_id": tID}, bson.M{"$set": bson.M{"completed": req.Completed}}); err != nil {
		config.ErrorStatus("failed to update task", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"updated": true}`))
}

// DeleteTaskByIDHandler deletes a task by ID
func (t Task) DeleteTaskByIDHandler(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskId"]

	tID, err := primitive.ObjectIDFromHex(taskID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := t.DB.DeleteOne(ctx, bson.M{"_id": tID}); err != nil {
		config.ErrorStatus("failed to delete task", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"deleted": true}`))
}
