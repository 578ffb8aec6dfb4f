package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"trailpost/internal/feed"
	"trailpost/internal/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow any origin; the token query parameter is the gate.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// FeedController streams route lifecycle events to connected clients.
type FeedController struct {
	Hub *feed.Hub
}

func NewFeedController(hub *feed.Hub) *FeedController {
	return &FeedController{Hub: hub}
}

// HandleFeedWebSocket authenticates via the token query parameter (browsers
// cannot set an Authorization header on a WebSocket upgrade) and then keeps
// the connection registered until the client goes away.
func (fc *FeedController) HandleFeedWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token query parameter"})
		return
	}
	userID, err := middleware.ValidateToken(token)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket feed connection attempt with invalid token")
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Error("Failed to upgrade WebSocket connection.")
		return
	}

	logrus.WithField("user_id", userID).Info("Feed client connected.")
	fc.Hub.Register(conn)

	// The feed is write-only; the read loop only exists to notice the close.
	go func() {
		defer func() {
			fc.Hub.Unregister(conn)
			conn.Close()
			logrus.WithField("user_id", userID).Info("Feed client disconnected.")
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logrus.WithError(err).Debug("Feed client read error.")
				}
				return
			}
		}
	}()
}
