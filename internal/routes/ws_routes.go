package routes

import (
	"github.com/gin-gonic/gin"

	"trailpost/internal/controllers"
)

func WebSocketRoutes(r *gin.Engine, fc *controllers.FeedController) {
	ws := r.Group("/ws")
	{
		ws.GET("/feed", fc.HandleFeedWebSocket)
	}
}
