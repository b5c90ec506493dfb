package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"

	"github.com/bkeeper-app/bkeeper-api/api/handlers"
)

func TestNotification_SendNotificationToUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(handlers.HandleNotificationsWebSocket))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?userId=user-ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	assert.NoError(t, err)
	defer conn.Close()

	// registration runs in the server handler goroutine
	time.Sleep(50 * time.Millisecond)

	handlers.SendNotificationToUser("user-ws", "member_joined", map[string]string{
		"apiaryId": "abc",
		"userId":   "user-2",
	})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var msg map[string]interface{}
	assert.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "member_joined", msg["event"])
}

func TestNotification_SendNotificationToDisconnectedUser(t *testing.T) {
	// nobody is connected with this id; the send must be a no-op
	handlers.SendNotificationToUser("nobody-here", "member_joined", nil)
}
