package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
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

var (
	// Page denotes the starting Page for pagination results
	Page = 0
)

// getPage returns the requested page query param, falling back to the
// previous value when absent
func getPage(page int, r *http.Request) int {
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p >= 0 {
		return p
	}
	return page
}

// Hive exported for testing purposes
type Hive struct {
	DB databases.HiveDatabase
}

// HivesByApiaryIDHandler returns all hives in an apiary
func (h Hive) HivesByApiaryIDHandler(w http.ResponseWriter, r *http.Request) {
	apiaryID := mux.Vars(r)["apiaryId"]
	Limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		zap.S().Warnf(fmt.Sprintf("limit not set, using default of %v, err: %v", Limit|10, err))
	}
	limit64 := int64(Limit)
	Page = getPage(Page, r)
	skip64 := int64(Page * Limit)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := h.DB.Find(ctx, bson.M{"apiaryId": apiaryID}, &options.FindOptions{Limit: &limit64, Skip: &skip64})
	if err != nil {
		config.ErrorStatus("failed to get hives", http.StatusNotFound, w, err)
		return
	}
	// Because the frontend requires that the data elements inside models.Hive exist, if
	// len == 0 then we will just return an empty data object
	if len(dbResp) == 0 {
		dbResp = []models.Hive{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// HiveByIDHandler returns a hive by ID
func (h Hive) HiveByIDHandler(w http.ResponseWriter, r *http.Request) {
	hiveID := mux.Vars(r)["hiveId"]

	zap.S().Debugf("hiveId: %v", hiveID)

	hID, err := primitive.ObjectIDFromHex(hiveID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := h.DB.FindOne(ctx, bson.M{"_id": hID})
	if err != nil {
		config.ErrorStatus("failed to get hive by ID", http.StatusNotFound, w, err)
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

// CreateHiveHandler creates a new hive
func (h Hive) CreateHiveHandler(w http.ResponseWriter, r *http.Request) {
	apiaryID := mux.Vars(r)["apiaryId"]

	var newHive models.Hive
	if err := json.NewDecoder(r.Body).Decode(&newHive); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if newHive.Name == "" {
		config.ErrorStatus("hive name is required", http.StatusBadRequest, w, nil)
		return
	}

	newHive.ID = primitive.NewObjectID()
	newHive.ApiaryID = apiaryID
	if newHive.Status == "" {
		newHive.Status = models.HiveStatusActive
	}
	newHive.CreatedAt = time.Now()
	newHive.UpdatedAt = newHive.CreatedAt

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := h.DB.InsertOne(ctx, newHive); err != nil {
		config.ErrorStatus("failed to create hive", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(newHive)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UpdateHiveFieldHandler updates the provided hive fields
func (h Hive) UpdateHiveFieldHandler(w http.ResponseWriter, r *http.Request) {
	hiveID := mux.Vars(r)["hiveId"]

	hID, err := primitive.ObjectIDFromHex(hiveID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	// apiaryId and createdAt are immutable; everything else on the hive
	// document can be patched by the app
	delete(updates, "_id")
	delete(updates, "id")
	delete(updates, "apiaryId")
	delete(updates, "createdAt")
	if len(updates) == 0 {
		config.ErrorStatus("no updatable fields provided", http.StatusBadRequest, w, nil)
		return
	}
	updates["updatedAt"] = time.Now()

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := h.DB.UpdateOne(ctx, bson.M{"_id": hID}, bson.M{"$set": updates}); err != nil {
		config.ErrorStatus("failed to update hive", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"updated": true}`))
}

// DeleteHiveByIDHandler deletes a hive by ID
func (h Hive) DeleteHiveByIDHandler(w http.ResponseWriter, r *http.Request) {
	hiveID := mux.Vars(r)["hiveId"]

	hID, err := primitive.ObjectIDFromHex(hiveID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := h.DB.DeleteOne(ctx, bson.M{"_id": hID}); err != nil {
		config.ErrorStatus("failed to delete hive", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"deleted": true}`))
}
