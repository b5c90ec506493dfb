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

// Harvest exported for testing purposes
type Harvest struct {
	DB databases.HarvestDatabase
}

// HarvestsByApiaryIDHandler returns all harvests for an apiary, newest first.
// An optional hiveId query param narrows to one hive.
func (h Harvest) HarvestsByApiaryIDHandler(w http.ResponseWriter, r *http.Request) {
	apiaryID := mux.Vars(r)["apiaryId"]
	hiveID := r.URL.Query().Get("hiveId")

	filter := bson.M{"apiaryId": apiaryID}
	if hiveID != "" {
		filter["hiveId"] = hiveID
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	dbResp, err := h.DB.Find(ctx, filter, opts)
	if err != nil {
		config.ErrorStatus("failed to get harvests", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Harvest{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateHarvestHandler records a new harvest
func (h Harvest) CreateHarvestHandler(w http.ResponseWriter, r *http.Request) {
	apiaryID := mux.Vars(r)["apiaryId"]

	var newHarvest models.Harvest
	if err := json.NewDecoder(r.Body).Decode(&newHarvest); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if newHarvest.HiveID == "" {
		config.ErrorStatus("hiveId is required", http.StatusBadRequest, w, nil)
		return
	}
	if newHarvest.Amount <= 0 {
		config.ErrorStatus("amount must be greater than zero", http.StatusBadRequest, w, nil)
		return
	}

	newHarvest.ID = primitive.NewObjectID()
	newHarvest.ApiaryID = apiaryID
	if newHarvest.Type == "" {
		newHarvest.Type = models.HarvestTypeHoney
	}
	if newHarvest.Date.IsZero() {
		newHarvest.Date = time.Now()
	}
	newHarvest.CreatedAt = time.Now()

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := h.DB.InsertOne(ctx, newHarvest); err != nil {
		config.ErrorStatus("failed to create harvest", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(newHarvest)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// DeleteHarvestByIDHandler deletes a harvest by ID
func (h Harvest) DeleteHarvestByIDHandler(w http.ResponseWriter, r *http.Request) {
	harvestID := mux.Vars(r)["harvestId"]

	hID, err := primitive.ObjectIDFromHex(harvestID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := h.DB.DeleteOne(ctx, bson.M{"_id": hID}); err != nil {
		config.ErrorStatus("failed to delete harvest", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"deleted": true}`))
}
