package routes

import (
	"github.com/gin-gonic/gin"

	"trailpost/internal/controllers"
)

func AuthRoutes(r *gin.Engine, a *controllers.AuthController) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", a.Signup)
		auth.POST("/login", a.Login)
	}
}
