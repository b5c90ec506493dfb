package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/bkeeper-app/bkeeper-api/api"
	"github.com/bkeeper-app/bkeeper-api/config"
	"github.com/bkeeper-app/bkeeper-api/databases"
	"github.com/bkeeper-app/bkeeper-api/models"
)

// Apiary struct mostly used for mocking tests
type Apiary struct {
	DB  databases.ApiaryDatabase
	MDB databases.ApiaryMemberDatabase
	UDB databases.UserDatabase
}

// ApiaryHandler returns an apiary given an apiaryID
func (a Apiary) ApiaryHandler(w http.ResponseWriter, r *http.Request) {
	apiaryID := mux.Vars(r)["apiaryId"]

	zap.S().Debugf("apiaryId: %v", apiaryID)

	aID, err := primitive.ObjectIDFromHex(apiaryID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := a.DB.FindOne(ctx, bson.M{"_id": aID})
	if err != nil {
		config.ErrorStatus("failed to get apiary by ID", http.StatusNotFound, w, err)
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

// CreateApiaryHandler creates a new apiary and the owner membership row
func (a Apiary) CreateApiaryHandler(w http.ResponseWriter, r *http.Request) {
	userID := api.UserIDFromContext(r.Context())
	if userID == "" {
		config.ErrorStatus("user not authenticated", http.StatusUnauthorized, w, ErrUnauthenticated)
		return
	}

	var newApiary models.Apiary
	if err := json.NewDecoder(r.Body).Decode(&newApiary); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if newApiary.Name == "" {
		config.ErrorStatus("apiary name is required", http.StatusBadRequest, w, nil)
		return
	}

	newApiary.ID = primitive.NewObjectID()
	newApiary.OwnerID = userID
	newApiary.CreatedAt = time.Now()

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := a.DB.InsertOne(ctx, newApiary); err != nil {
		config.ErrorStatus("failed to create apiary", http.StatusInternalServerError, w, err)
		return
	}

	owner := models.ApiaryMember{
		ID:       primitive.NewObjectID(),
		ApiaryID: newApiary.ID.Hex(),
		UserID:   userID,
		Role:     models.RoleOwner,
		JoinedAt: time.Now(),
	}
	if _, err := a.MDB.InsertOne(ctx, owner); err != nil {
		config.ErrorStatus("failed to add owner membership", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(newApiary)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UpdateApiaryFieldHandler updates name, description or location on an apiary
func (a Apiary) UpdateApiaryFieldHandler(w http.ResponseWriter, r *http.Request) {
	apiaryID := mux.Vars(r)["apiaryId"]

	aID, err := primitive.ObjectIDFromHex(apiaryID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var updates map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	allowed := map[string]bool{"name": true, "description": true, "location": true}
	set := bson.M{}
	for k, v := range updates {
		if allowed[k] {
			set[k] = v
		}
	}
	if len(set) == 0 {
		config.ErrorStatus("no updatable fields provided", http.StatusBadRequest, w, nil)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := a.DB.UpdateOne(ctx, bson.M{"_id": aID}, bson.M{"$set": set}); err != nil {
		config.ErrorStatus("failed to update apiary", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"updated": true}`))
}

// DeleteApiaryByIDHandler deletes an apiary given an apiaryID
func (a Apiary) DeleteApiaryByIDHandler(w http.ResponseWriter, r *http.Request) {
	apiaryID := mux.Vars(r)["apiaryId"]

	aID, err := primitive.ObjectIDFromHex(apiaryID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if err := a.DB.DeleteOne(ctx, bson.M{"_id": aID}); err != nil {
		config.ErrorStatus("failed to delete apiary", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"deleted": true}`))
}

type apiaryMemberResponse struct {
	models.ApiaryMember
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// ApiaryMembersHandler returns the members of an apiary with their user names
func (a Apiary) ApiaryMembersHandler(w http.ResponseWriter, r *http.Request) {
	apiaryID := mux.Vars(r)["apiaryId"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	members, err := a.MDB.Find(ctx, bson.M{"apiaryId": apiaryID})
	if err != nil {
		config.ErrorStatus("failed to get apiary members", http.StatusInternalServerError, w, err)
		return
	}

	resp := make([]apiaryMemberResponse, 0, len(members))
	for _, m := range members {
		entry := apiaryMemberResponse{ApiaryMember: m}
		if uID, err := primitive.ObjectIDFromHex(m.UserID); err == nil {
			if user, err := a.UDB.FindOne(ctx, bson.M{"_id": uID}); err == nil {
				entry.Name = user.Name
				entry.Email = user.Email
			}
		}
		resp = append(resp, entry)
	}

	b, err := json.Marshal(resp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ApiariesByUserHandler returns the apiaries a user belongs to
func (a Apiary) ApiariesByUserHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	memberships, err := a.MDB.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		config.ErrorStatus("failed to get memberships", http.StatusInternalServerError, w, err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(memberships))
	for _, m := range memberships {
		if aID, err := primitive.ObjectIDFromHex(m.ApiaryID); err == nil {
			ids = append(ids, aID)
		}
	}

	apiaries := []models.Apiary{}
	if len(ids) > 0 {
		apiaries, err = a.DB.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
		if err != nil {
			config.ErrorStatus("failed to get apiaries", http.StatusInternalServerError, w, err)
			return
		}
	}

	b, err := json.Marshal(apiaries)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
