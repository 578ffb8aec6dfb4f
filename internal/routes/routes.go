package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"trailpost/internal/controllers"
	"trailpost/internal/feed"
	"trailpost/internal/photos"
	"trailpost/internal/store"
)

// Deps carries everything the HTTP surface needs. Handlers get their
// collaborators injected here instead of reaching for package globals.
type Deps struct {
	DB     *gorm.DB
	Store  store.Client
	Photos *photos.Service
	Hub    *feed.Hub
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger(ginlog.WithDefaultLevel(zerolog.InfoLevel)))

	auth := controllers.NewAuthController(d.DB)
	route := controllers.NewRouteController(d.Store, d.Photos, d.Hub)
	feedCtrl := controllers.NewFeedController(d.Hub)

	AuthRoutes(r, auth)
	RouteRoutes(r, route)
	WebSocketRoutes(r, feedCtrl)

	return r
}
