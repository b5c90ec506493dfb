package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/bkeeper-app/bkeeper-api/api/handlers"
	"github.com/bkeeper-app/bkeeper-api/databases"
	"github.com/bkeeper-app/bkeeper-api/databases/mocks"
	"github.com/bkeeper-app/bkeeper-api/models"
)

func TestUser_UserHandlerBadObjectID(t *testing.T) {
	db := &MockDatabaseHelper{}

	u := handlers.User{DB: databases.NewUserDatabase(db)}

	req := authedRequest(t, "GET", "/api/v1/user/notahexid", "", "user-1",
		map[string]string{"userId": "notahexid"})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UserHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to get objectID from Hex")
}

func TestUser_UserHandlerFound(t *testing.T) {
	userID := primitive.NewObjectID()

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	result := &mocks.SingleResultHelper{}
	result.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.User)
		(*arg).ID = userID
		(*arg).Email = "beekeeper@example.com"
		(*arg).Name = "Bee Keeper"
		(*arg).Password = "should-not-leak"
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(result)
	db.On("Collection", "users").Return(conn)

	u := handlers.User{DB: databases.NewUserDatabase(db)}

	req := authedRequest(t, "GET", "/api/v1/user/"+userID.Hex(), "", "user-1",
		map[string]string{"userId": userID.Hex()})

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UserHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "beekeeper@example.com")
	assert.NotContains(t, rr.Body.String(), "should-not-leak")
}

func TestUser_RegisterHandler(t *testing.T) {
	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	cursor := &mocks.CursorHelper{}
	cursor.On("Decode", mock.Anything).Return(nil)

	var inserted models.User
	conn.On("Find", mock.Anything, mock.Anything).Return(cursor)
	conn.On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(models.User)
	})
	db.On("Collection", "users").Return(conn)

	u := handlers.User{DB: databases.NewUserDatabase(db)}

	req := authedRequest(t, "POST", "/api/v1/auth/register",
		`{"email": "New@Example.com", "name": "New Keeper", "password": "honey123"}`, "", nil)

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.RegisterHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "new@example.com", inserted.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(inserted.Password), []byte("honey123")))
	assert.NotContains(t, rr.Body.String(), inserted.Password)
}

func TestUser_RegisterHandlerDuplicateEmail(t *testing.T) {
	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	cursor := &mocks.CursorHelper{}
	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.User)
		*arg = []models.User{{Email: "taken@example.com"}}
	})
	conn.On("Find", mock.Anything, mock.Anything).Return(cursor)
	db.On("Collection", "users").Return(conn)

	u := handlers.User{DB: databases.NewUserDatabase(db)}

	req := authedRequest(t, "POST", "/api/v1/auth/register",
		`{"email": "taken@example.com", "password": "honey123"}`, "", nil)

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.RegisterHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "email already registered")
	conn.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestUser_RegisterHandlerMissingPassword(t *testing.T) {
	db := &MockDatabaseHelper{}

	u := handlers.User{DB: databases.NewUserDatabase(db)}

	req := authedRequest(t, "POST", "/api/v1/auth/register",
		`{"email": "someone@example.com"}`, "", nil)

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.RegisterHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUser_LoginHandler(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("honey123"), bcrypt.MinCost)
	assert.NoError(t, err)

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	result := &mocks.SingleResultHelper{}
	result.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.User)
		(*arg).ID = primitive.NewObjectID()
		(*arg).Email = "beekeeper@example.com"
		(*arg).Password = string(hash)
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(result)
	db.On("Collection", "users").Return(conn)

	u := handlers.User{DB: databases.NewUserDatabase(db)}

	req := authedRequest(t, "POST", "/api/v1/auth/login",
		`{"email": "Beekeeper@Example.com", "password": "honey123"}`, "", nil)

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.LoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"token"`)
	assert.NotContains(t, rr.Body.String(), string(hash))
}

func TestUser_LoginHandlerWrongPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("honey123"), bcrypt.MinCost)
	assert.NoError(t, err)

	db := &MockDatabaseHelper{}
	conn := &mocks.CollectionHelper{}

	result := &mocks.SingleResultHelper{}
	result.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(**models.User)
		(*arg).Email = "beekeeper@example.com"
		(*arg).Password = string(hash)
	})
	conn.On("FindOne", mock.Anything, mock.Anything).Return(result)
	db.On("Collection", "users").Return(conn)

	u := handlers.User{DB: databases.NewUserDatabase(db)}

	req := authedRequest(t, "POST", "/api/v1/auth/login",
		`{"email": "beekeeper@example.com", "password": "vinegar"}`, "", nil)

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.LoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Invalid credentials")
}
