package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bkeeper-app/bkeeper-api/api/handlers"
)

var a handlers.App

func TestMain(m *testing.M) {
	a.Router = a.New()
	os.Exit(m.Run())
}

func executeRequest(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)

	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	if expected != actual {
		t.Errorf("Expected response code %d. Got %d\n", expected, actual)
	}
}

func TestHealthCheckRoute(t *testing.T) {
	req, _ := http.NewRequest("GET", "/health", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusOK, response.Code)
	assert.Equal(t, `{"alive": true}`, response.Body.String())
}

func TestNonExistentRoute(t *testing.T) {
	req, _ := http.NewRequest("GET", "/api/v1/nope", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusNotFound, response.Code)
}

func TestProtectedRouteWithoutAuth(t *testing.T) {
	req, _ := http.NewRequest("GET", "/api/v1/apiary/abc123", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
	assert.Equal(t, `{"error": "unauthorized"}`, response.Body.String())
}

func TestProtectedRouteWithUnknownBearerToken(t *testing.T) {
	req, _ := http.NewRequest("POST", "/api/v1/invitations/redeem", nil)
	req.Header.Set("Authorization", "Bearer asdfasdf")
	response := executeRequest(req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
}

func TestCreateTokenWithoutCredentials(t *testing.T) {
	req, _ := http.NewRequest("POST", "/api/v1/auth/token", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
}
