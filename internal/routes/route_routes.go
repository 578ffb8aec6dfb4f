package routes

import (
	"github.com/gin-gonic/gin"

	"trailpost/internal/controllers"
	"trailpost/internal/middleware"
)

func RouteRoutes(r *gin.Engine, rc *controllers.RouteController) {
	routes := r.Group("/routes")
	routes.Use(middleware.RequireAuth())
	{
		routes.POST("", rc.CreateRoute)
		routes.GET("", rc.ListRoutes)
		routes.GET("/:collection/:id", rc.GetRoute)
		routes.GET("/:collection/:id/photo", rc.GetRoutePhoto)
		routes.DELETE("/:collection/:id", rc.DeleteRoute)
	}
}
