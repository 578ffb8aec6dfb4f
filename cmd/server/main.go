package main

import (
	"context"
	"log"
	"net/http"

	"trailpost/internal/blob"
	"trailpost/internal/config"
	"trailpost/internal/feed"
	"trailpost/internal/logger"
	"trailpost/internal/middleware"
	"trailpost/internal/photos"
	"trailpost/internal/routes"
	"trailpost/internal/store"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	blobs, err := blob.Open(context.Background())
	if err != nil {
		log.Fatalf("blob store init failed: %v", err)
	}

	r := routes.SetupRouter(routes.Deps{
		DB:     db,
		Store:  store.NewGorm(db),
		Photos: photos.NewService(blobs),
		Hub:    feed.NewHub(),
	})

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	log.Println("🚀 Server running at :8080")
	log.Fatal(http.ListenAndServe("0.0.0.0:8080", handler))
}
