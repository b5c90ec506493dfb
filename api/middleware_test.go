package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRevokeTokenWithoutBearerHeader(t *testing.T) {
	req, err := http.NewRequest("DELETE", "/api/v1/auth/logout", nil)
	assert.NoError(t, err)
	req.SetBasicAuth("beekeeper@example.com", "honey123")

	rr := httptest.NewRecorder()
	http.HandlerFunc(RevokeToken).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "missing bearer token")
}

func TestRevokeTokenEmptyAuthorizationHeader(t *testing.T) {
	req, err := http.NewRequest("DELETE", "/api/v1/auth/logout", nil)
	assert.NoError(t, err)

	rr := httptest.NewRecorder()
	http.HandlerFunc(RevokeToken).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
