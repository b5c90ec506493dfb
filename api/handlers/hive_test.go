package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bkeeper-app/bkeeper-api/api/handlers"
	"github.com/bkeeper-app/bkeeper-api/databases"
	"github.com/bkeeper-app/bkeeper-api/databases/mocks"
	"github.com/bkeeper-app/bkeeper-api/models"
)

func TestHive_HivesByApiaryIDHandler(t *testing.T) {
	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	cursor := &mocks.CursorHelper{}
	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Hive)
		*arg = []models.Hive{
			{Name: "Hive 1", ApiaryID: "abc", Status: models.HiveStatusActive},
			{Name: "Hive 2", ApiaryID: "abc", Status: models.HiveStatusWarning},
		}
	})
	conn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursor)
	db.On("Collection", "hives").Return(conn)

	h := handlers.Hive{DB: databases.NewHiveDatabase(db)}

	req := authedRequest(t, "GET", "/api/v1/apiary/abc/hives?limit=10", "", "user-1",
		map[string]string{"apiaryId": "abc"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.HivesByApiaryIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Hive 1")
	assert.Contains(t, rr.Body.String(), "Hive 2")
}

func TestHive_HivesByApiaryIDHandlerEmpty(t *testing.T) {
	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	cursor := &mocks.CursorHelper{}
	cursor.On("Decode", mock.Anything).Return(nil)
	conn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursor)
	db.On("Collection", "hives").Return(conn)

	h := handlers.Hive{DB: databases.NewHiveDatabase(db)}

	req := authedRequest(t, "GET", "/api/v1/apiary/abc/hives?limit=10", "", "user-1",
		map[string]string{"apiaryId": "abc"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.HivesByApiaryIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
}

func TestHive_CreateHiveHandlerDefaultsStatus(t *testing.T) {
	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	var inserted models.Hive
	conn.On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(models.Hive)
	})
	db.On("Collection", "hives").Return(conn)

	h := handlers.Hive{DB: databases.NewHiveDatabase(db)}

	req := authedRequest(t, "POST", "/api/v1/apiary/abc/hives",
		`{"name": "Hive 1", "queenColor": "blue"}`, "user-1",
		map[string]string{"apiaryId": "abc"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.CreateHiveHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "abc", inserted.ApiaryID)
	assert.Equal(t, models.HiveStatusActive, inserted.Status)
}

func TestHive_CreateHiveHandlerMissingName(t *testing.T) {
	db := &MockDatabaseHelper{}

	h := handlers.Hive{DB: databases.NewHiveDatabase(db)}

	req := authedRequest(t, "POST", "/api/v1/apiary/abc/hives", `{}`, "user-1",
		map[string]string{"apiaryId": "abc"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.CreateHiveHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "hive name is required")
}

func TestHive_UpdateHiveFieldHandlerStripsImmutableFields(t *testing.T) {
	hiveID := primitive.NewObjectID()

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	var update bson.M
	conn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{}, nil).Run(func(args mock.Arguments) {
		update = args.Get(2).(bson.M)
	})
	db.On("Collection", "hives").Return(conn)

	h := handlers.Hive{DB: databases.NewHiveDatabase(db)}

	req := authedRequest(t, "PATCH", "/api/v1/hive/"+hiveID.Hex(),
		`{"status": "weak", "apiaryId": "evil", "createdAt": "2020-01-01"}`, "user-1",
		map[string]string{"hiveId": hiveID.Hex()})

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.UpdateHiveFieldHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	set := update["$set"].(map[string]interface{})
	assert.Equal(t, "weak", set["status"])
	assert.NotContains(t, set, "apiaryId")
	assert.NotContains(t, set, "createdAt")
	assert.Contains(t, set, "updatedAt")
}

func TestHive_DeleteHiveByIDHandler(t *testing.T) {
	hiveID := primitive.NewObjectID()

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	conn.On("DeleteOne", mock.Anything, mock.Anything).Return(nil)
	db.On("Collection", "hives").Return(conn)

	h := handlers.Hive{DB: databases.NewHiveDatabase(db)}

	req := authedRequest(t, "DELETE", "/api/v1/hive/"+hiveID.Hex(), "", "user-1",
		map[string]string{"hiveId": hiveID.Hex()})

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.DeleteHiveByIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"deleted": true}`, rr.Body.String())
}
