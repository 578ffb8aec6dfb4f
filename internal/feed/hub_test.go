package feed

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Register(conn)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcastsToClient(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)

	hub.Publish(Event{Type: EventRouteCreated, Collection: "community_routes", ID: "abc", Title: "Morning Ridge"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var got Event
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, EventRouteCreated, got.Type)
	assert.Equal(t, "Morning Ridge", got.Title)
	assert.Equal(t, "abc", got.ID)
}

func TestHubDropsEventsWithoutClients(t *testing.T) {
	hub := NewHub()
	// Nothing registered; publishing must not block or panic.
	for i := 0; i < 200; i++ {
		hub.Publish(Event{Type: EventRouteDeleted, Collection: "user_routes", Title: "gone"})
	}
}

func TestHubUnregisterIsIdempotent(t *testing.T) {
	hub := NewHub()
	conn := dialHub(t, hub)
	hub.Unregister(conn)
	hub.Unregister(conn)
}
