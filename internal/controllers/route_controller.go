package controllers

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"trailpost/internal/blob"
	"trailpost/internal/feed"
	"trailpost/internal/middleware"
	"trailpost/internal/models"
	"trailpost/internal/normalize"
	"trailpost/internal/photos"
	"trailpost/internal/publish"
	"trailpost/internal/store"
)

// RouteResponse mirrors a stored document for API output.
type RouteResponse struct {
	ID              string  `json:"id"`
	Collection      string  `json:"collection"`
	Title           string  `json:"title"`
	City            string  `json:"city"`
	Difficulty      string  `json:"difficulty"`
	Slope           string  `json:"slope"`
	Description     string  `json:"description"`
	AvgRating       float64 `json:"avgRating"`
	DifficultyOrder int     `json:"difficultyOrder"`
	SlopeOrder      int     `json:"slopeOrder"`
}

func toRouteResponse(collection, id string, rec models.RouteRecord) RouteResponse {
	return RouteResponse{
		ID:              id,
		Collection:      collection,
		Title:           rec.Title,
		City:            rec.City,
		Difficulty:      rec.Difficulty,
		Slope:           rec.Slope,
		Description:     rec.Description,
		AvgRating:       rec.AvgRating,
		DifficultyOrder: rec.DifficultyOrder,
		SlopeOrder:      rec.SlopeOrder,
	}
}

// RouteController exposes route creation, browsing and deletion over HTTP,
// delegating the persistence semantics to the publish engine.
type RouteController struct {
	Store      store.Client
	Photos     *photos.Service
	Feed       *feed.Hub
	Publisher  *publish.Publisher
	Reconciler *publish.Reconciler
}

func NewRouteController(st store.Client, ph *photos.Service, hub *feed.Hub) *RouteController {
	return &RouteController{
		Store:      st,
		Photos:     ph,
		Feed:       hub,
		Publisher:  publish.NewPublisher(st, ph),
		Reconciler: publish.NewReconciler(st),
	}
}

// CreateRoute accepts the route form and dispatches the uncoordinated
// persistence operations. It answers 202 as soon as they are dispatched;
// their individual outcomes surface in logs and on the event feed, never as
// a response to this request.
func (rc *RouteController) CreateRoute(c *gin.Context) {
	if _, ok := middleware.CurrentUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please log in to create a route"})
		return
	}

	var input struct {
		Title       string `json:"title"`
		City        string `json:"city"`
		Difficulty  string `json:"difficulty"`
		Slope       string `json:"slope"`
		Description string `json:"description"`
		Scope       string `json:"scope"`
		Photo       string `json:"photo"` // base64-encoded image bytes
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateRoute: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	rec, scope, err := normalize.Route(normalize.Input{
		Title:       input.Title,
		City:        input.City,
		Difficulty:  input.Difficulty,
		Slope:       input.Slope,
		Description: input.Description,
		Scope:       input.Scope,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	photo, err := base64.StdEncoding.DecodeString(input.Photo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo is not valid base64"})
		return
	}

	receipt := rc.Publisher.Publish(rec, scope, photo)
	go rc.announceCreates(rec.Title, receipt)

	c.JSON(http.StatusAccepted, gin.H{
		"message": "route submitted",
		"title":   rec.Title,
		"scope":   scope,
	})
}

// announceCreates forwards successful creates to the event feed. Failures
// were already logged by the publisher and are deliberately not retried.
func (rc *RouteController) announceCreates(title string, receipt *publish.Receipt) {
	for o := range receipt.Outcomes() {
		if o.Err != nil {
			continue
		}
		if o.Op == publish.OpCreateUserCopy || o.Op == publish.OpCreateCommunityCopy {
			rc.Feed.Publish(feed.Event{
				Type:       feed.EventRouteCreated,
				Collection: o.Collection,
				ID:         o.DocID,
				Title:      title,
			})
		}
	}
}

// ListRoutes returns one collection, optionally ordered by a derived index.
func (rc *RouteController) ListRoutes(c *gin.Context) {
	collection := c.DefaultQuery("collection", store.CollectionUser)
	if !store.ValidCollection(collection) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown collection"})
		return
	}

	var orderBy string
	switch c.Query("sort") {
	case "":
		orderBy = ""
	case "difficulty":
		orderBy = models.FieldDifficultyOrder
	case "slope":
		orderBy = models.FieldSlopeOrder
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown sort field"})
		return
	}

	docs, err := rc.Store.List(c.Request.Context(), collection, orderBy)
	if err != nil {
		logrus.WithError(err).Error("ListRoutes: list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load routes"})
		return
	}

	out := make([]RouteResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, toRouteResponse(collection, doc.ID, doc.Record))
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}

// GetRoute returns one route's stored fields. A missing record answers 404
// so the client can navigate back rather than showing an error dialog.
func (rc *RouteController) GetRoute(c *gin.Context) {
	collection, id := c.Param("collection"), c.Param("id")
	if !store.ValidCollection(collection) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown collection"})
		return
	}

	rec, err := rc.Store.Get(c.Request.Context(), collection, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("GetRoute: load failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load route"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(collection, id, rec)})
}

// GetRoutePhoto serves the photo addressed by the route's current title.
// A blob that exists but does not decode comes back as the blank placeholder;
// only an absent blob is a 404.
func (rc *RouteController) GetRoutePhoto(c *gin.Context) {
	collection, id := c.Param("collection"), c.Param("id")
	if !store.ValidCollection(collection) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown collection"})
		return
	}

	rec, err := rc.Store.Get(c.Request.Context(), collection, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load route"})
		return
	}

	data, err := rc.Photos.Fetch(c.Request.Context(), rec.Title)
	if errors.Is(err, blob.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No photo for this route"})
		return
	}
	if err != nil {
		logrus.WithError(err).Error("GetRoutePhoto: fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load photo"})
		return
	}
	c.Data(http.StatusOK, "image/jpeg", data)
}

// DeleteRoute runs the deletion chain for the viewed record. The chain runs
// on a background context: once started it completes even if the client
// goes away mid-request.
func (rc *RouteController) DeleteRoute(c *gin.Context) {
	collection, id := c.Param("collection"), c.Param("id")
	if !store.ValidCollection(collection) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown collection"})
		return
	}

	rec, err := rc.Store.Get(c.Request.Context(), collection, id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load route"})
		return
	}

	res := rc.Reconciler.Delete(context.Background(), collection, id, rec.Title)
	switch res.State {
	case publish.StateNotOwned:
		c.JSON(http.StatusForbidden, gin.H{"error": "Route cannot be deleted as you didn't create it"})
	case publish.StateFailed:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete route"})
	default:
		rc.Feed.Publish(feed.Event{
			Type:       feed.EventRouteDeleted,
			Collection: collection,
			ID:         id,
			Title:      rec.Title,
		})
		c.JSON(http.StatusOK, gin.H{
			"message":       "Route deleted successfully",
			"state":         res.State,
			"other_deleted": res.OtherDeleted,
			"other_failed":  res.OtherFailed,
		})
	}
}
