package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/bkeeper-app/bkeeper-api/api"
	"github.com/bkeeper-app/bkeeper-api/config"
	"github.com/bkeeper-app/bkeeper-api/databases"
	"github.com/bkeeper-app/bkeeper-api/models"
)

// Inspection exported for testing purposes
type Inspection struct {
	DB  databases.InspectionDatabase
	HDB databases.HiveDatabase
}

// InspectionsByApiaryIDHandler returns all inspections for an apiary, newest
// first. An optional hiveId query param narrows to one hive.
func (i Inspection) InspectionsByApiaryIDHandler(w http.ResponseWriter, r *http.Request) {
	apiaryID := mux.Vars(r)["apiaryId"]
	hiveID := r.URL.Query().Get("hiveId")

	filter := bson.M{"apiaryId": apiaryID}
	if hiveID != "" {
		filter["hiveId"] = hiveID
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	dbResp, err := i.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get inspections", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Inspection{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// InspectionByIDHandler returns an inspection by ID
func (i Inspection) InspectionByIDHandler(w http.ResponseWriter, r *http.Request) {
	inspectionID := mux.Vars(r)["inspectionId"]

	zap.S().Debugf("inspectionId: %v", inspectionID)

	iID, err := primitive.ObjectIDFromHex(inspectionID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := i.DB.FindOne(ctx, bson.M{"_id": iID})
	if err != nil {
		config.ErrorStatus("failed to get inspection by ID", http.StatusNotFound, w, err)
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateInspectionHandler records a new inspection and bumps the hive's
// lastInspection timestamp
func (i Inspection) CreateInspectionHandler(w http.ResponseWriter, r *http.Request) {
	apiaryID := mux.Vars(r)["apiaryId"]

	var newInspection models.Inspection
	if err := json.NewDecoder(r.Body).Decode(&newInspection); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if newInspection.HiveID == "" {
		config.ErrorStatus("hiveId is required", http.StatusBadRequest, w, nil)
		return
	}

	newInspection.ID = primitive.NewObjectID()
	newInspection.ApiaryID = apiaryID
	if newInspection.Date.IsZero() {
		newInspection.Date = time.Now()
	}
	newInspection.CreatedAt = time.Now()

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := i.DB.InsertOne(ctx, newInspection); err != nil {
		config.ErrorStatus("failed to create inspection", http.StatusInternalServerError, w, err)
		return
	}

	// Best effort: the inspection is recorded even if the hive bump fails
	if hID, err := primitive.ObjectIDFromHex(newInspection.HiveID); err == nil {
		update := bson.M{"$set": bson.M{"lastInspection": newInspection.Date, "updatedAt": time.Now()}}
		if err := i.HDB.UpdateOne(ctx, bson.M{"_id": hID}, update); err != nil {
			zap.S().Warnw("failed to update hive lastInspection",
				"hiveId", newInspection.HiveID,
				"error", err)
		}
	}

	b, err := json.Marshal(newInspection)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// DeleteInspectionByIDHandler deletes an inspection by ID
func (i Inspection) DeleteInspectionByIDHandler(w http.ResponseWriter, r *http.Request) {
	inspectionID := mux.Vars(r)["inspectionId"]

	iID, err := primitive.ObjectIDFromHex(inspectionID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := i.DB.DeleteOne(ctx, bson.M{"_id": iID}); err != nil {
		config.ErrorStatus("failed to delete inspection", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"deleted": true}`))
}
