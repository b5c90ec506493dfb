package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bkeeper-app/bkeeper-api/api/handlers"
	"github.com/bkeeper-app/bkeeper-api/databases"
	"github.com/bkeeper-app/bkeeper-api/databases/mocks"
	"github.com/bkeeper-app/bkeeper-api/models"
)

func TestHarvest_CreateHarvestHandlerDefaultsType(t *testing.T) {
	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	var inserted models.Harvest
	conn.On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(models.Harvest)
	})
	db.On("Collection", "harvests").Return(conn)

	h := handlers.Harvest{DB: databases.NewHarvestDatabase(db)}

	req := authedRequest(t, "POST", "/api/v1/apiary/abc/harvests",
		`{"hiveId": "hive-1", "amount": 4.5, "notes": "spring flow"}`, "user-1",
		map[string]string{"apiaryId": "abc"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.CreateHarvestHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "abc", inserted.ApiaryID)
	assert.Equal(t, models.HarvestTypeHoney, inserted.Type)
	assert.Equal(t, 4.5, inserted.Amount)
}

func TestHarvest_CreateHarvestHandlerRejectsZeroAmount(t *testing.T) {
	db := &MockDatabaseHelper{}

	h := handlers.Harvest{DB: databases.NewHarvestDatabase(db)}

	req := authedRequest(t, "POST", "/api/v1/apiary/abc/harvests",
		`{"hiveId": "hive-1", "amount": 0}`, "user-1",
		map[string]string{"apiaryId": "abc"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.CreateHarvestHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "amount must be greater than zero")
}

func TestHarvest_HarvestsByApiaryIDHandlerEmpty(t *testing.T) {
	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	cursor := &mocks.CursorHelper{}
	cursor.On("Decode", mock.Anything).Return(nil)
	conn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursor)
	db.On("Collection", "harvests").Return(conn)

	h := handlers.Harvest{DB: databases.NewHarvestDatabase(db)}

	req := authedRequest(t, "GET", "/api/v1/apiary/abc/harvests", "", "user-1",
		map[string]string{"apiaryId": "abc"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.HarvestsByApiaryIDHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
}
