package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bkeeper-app/bkeeper-api/api/handlers"
	"github.com/bkeeper-app/bkeeper-api/databases"
	"github.com/bkeeper-app/bkeeper-api/databases/mocks"
	"github.com/bkeeper-app/bkeeper-api/models"
)

func newApiaryHandler(db databases.DatabaseHelper) handlers.Apiary {
	return handlers.Apiary{
		DB:  databases.NewApiaryDatabase(db),
		MDB: databases.NewApiaryMemberDatabase(db),
		UDB: databases.NewUserDatabase(db),
	}
}

func TestApiary_ApiaryHandlerBadObjectID(t *testing.T) {
	db := &MockDatabaseHelper{}

	ap := newApiaryHandler(db)

	req := authedRequest(t, "GET", "/api/v1/apiary/notahexid", "", "user-1",
		map[string]string{"apiaryId": "notahexid"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(ap.ApiaryHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to get objectID from Hex")
}

func TestApiary_ApiaryHandlerFound(t *testing.T) {
	apiaryID := primitive.NewObjectID()

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	result := &mocks.SingleResultHelper{}
	result.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.Apiary)
		(*arg).ID = apiaryID
		(*arg).Name = "Orchard Apiary"
		(*arg).Location = "back field"
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(result)
	db.On("Collection", "apiaries").Return(conn)

	ap := newApiaryHandler(db)

	req := authedRequest(t, "GET", "/api/v1/apiary/"+apiaryID.Hex(), "", "user-1",
		map[string]string{"apiaryId": apiaryID.Hex()})

	rr := httptest.NewRecorder()
	http.HandlerFunc(ap.ApiaryHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Orchard Apiary")
}

func TestApiary_CreateApiaryHandler(t *testing.T) {
	db := &MockDatabaseHelper{}
	apiaryConn := &mocks.CollectionHelper{}
	memberConn := &mocks.CollectionHelper{}

	var createdApiary models.Apiary
	apiaryConn.On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil).Run(func(args mock.Arguments) {
		createdApiary = args.Get(1).(models.Apiary)
	})

	var ownerMember models.ApiaryMember
	memberConn.On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil).Run(func(args mock.Arguments) {
		ownerMember = args.Get(1).(models.ApiaryMember)
	})

	db.On("Collection", "apiaries").Return(apiaryConn)
	db.On("Collection", "apiaryMembers").Return(memberConn)

	ap := newApiaryHandler(db)

	req := authedRequest(t, "POST", "/api/v1/apiary",
		`{"name": "Orchard Apiary", "location": "back field"}`, "user-1", nil)

	rr := httptest.NewRecorder()
	http.HandlerFunc(ap.CreateApiaryHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "user-1", createdApiary.OwnerID)
	assert.Equal(t, createdApiary.ID.Hex(), ownerMember.ApiaryID)
	assert.Equal(t, "user-1", ownerMember.UserID)
	assert.Equal(t, models.RoleOwner, ownerMember.Role)
}

func TestApiary_CreateApiaryHandlerUnauthenticated(t *testing.T) {
	db := &MockDatabaseHelper{}

	ap := newApiaryHandler(db)

	req := authedRequest(t, "POST", "/api/v1/apiary", `{"name": "Orchard Apiary"}`, "", nil)

	rr := httptest.NewRecorder()
	http.HandlerFunc(ap.CreateApiaryHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestApiary_UpdateApiaryFieldHandlerIgnoresUnknownFields(t *testing.T) {
	apiaryID := primitive.NewObjectID()

	db := &MockDatabaseHelper{}

	ap := newApiaryHandler(db)

	// ownerId is not updatable, so the request has nothing to apply
	req := authedRequest(t, "PATCH", "/api/v1/apiary/"+apiaryID.Hex(),
		`{"ownerId": "intruder"}`, "user-1", map[string]string{"apiaryId": apiaryID.Hex()})

	rr := httptest.NewRecorder()
	http.HandlerFunc(ap.UpdateApiaryFieldHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "no updatable fields provided")
}

func TestApiary_ApiaryMembersHandler(t *testing.T) {
	userID := primitive.NewObjectID()

	db := &MockDatabaseHelper{}
	memberConn := &mocks.CollectionHelper{}
	userConn := &mocks.CollectionHelper{}

	cursor := &mocks.CursorHelper{}
	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.ApiaryMember)
		*arg = []models.ApiaryMember{
			{ApiaryID: "abc", UserID: userID.Hex(), Role: models.RoleOwner},
		}
	})
	memberConn.On("Find", mock.Anything, mock.Anything).Return(cursor)

	userResult := &mocks.SingleResultHelper{}
	userResult.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.User)
		(*arg).ID = userID
		(*arg).Name = "Bee Keeper"
		(*arg).Email = "beekeeper@example.com"
	})
	userConn.On("FindOne", mock.Anything, mock.Anything).Return(userResult)

	db.On("Collection", "apiaryMembers").Return(memberConn)
	db.On("Collection", "users").Return(userConn)

	ap := newApiaryHandler(db)

	req := authedRequest(t, "GET", "/api/v1/apiary/abc/members", "", "user-1",
		map[string]string{"apiaryId": "abc"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(ap.ApiaryMembersHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Bee Keeper")
	assert.Contains(t, rr.Body.String(), models.RoleOwner)
}

func TestApiary_ApiariesByUserHandlerNoMemberships(t *testing.T) {
	db := &MockDatabaseHelper{}
	memberConn := &mocks.CollectionHelper{}

	cursor := &mocks.CursorHelper{}
	cursor.On("Decode", mock.Anything).Return(nil)
	memberConn.On("Find", mock.Anything, mock.Anything).Return(cursor)
	db.On("Collection", "apiaryMembers").Return(memberConn)

	ap := newApiaryHandler(db)

	req := authedRequest(t, "GET", "/api/v1/user/user-1/apiaries", "", "user-1",
		map[string]string{"userId": "user-1"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(ap.ApiariesByUserHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
}
