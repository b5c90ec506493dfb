package handlers_test

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bkeeper-app/bkeeper-api/api/handlers"
)

func TestCloudinary_GenerateSignature(t *testing.T) {
	t.Setenv("CLOUDINARY_UPLOAD_PRESET", "hive-photos")
	t.Setenv("CLOUDINARY_API_SECRET", "test-secret")

	c := handlers.CloudinaryHandler{}

	req := authedRequest(t, "GET", "/api/v1/cloudinary/signature", "", "user-1", nil)

	rr := httptest.NewRecorder()
	http.HandlerFunc(c.GenerateSignature).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	h := hmac.New(sha1.New, []byte("test-secret"))
	h.Write([]byte("timestamp=" + resp["timestamp"] + "&upload_preset=hive-photos"))
	assert.Equal(t, hex.EncodeToString(h.Sum(nil)), resp["signature"])
}
