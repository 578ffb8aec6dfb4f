// Package store exposes the document collections routes are persisted in.
// Every orchestration above it is built from independent single-document
// calls: there is no transaction spanning two documents and none is assumed.
package store

import (
	"context"
	"errors"
	"fmt"

	"trailpost/internal/models"
)

// The two route collections. A private route lives only in CollectionUser;
// a public one is duplicated into CollectionCommunity as a second document
// with its own id. No stored field links the two copies; the title is the
// only usable join key.
const (
	CollectionUser      = "user_routes"
	CollectionCommunity = "community_routes"
)

// ErrNotFound is returned by Get when no document matches.
var ErrNotFound = errors.New("store: document not found")

// Document pairs a record with its store-assigned id.
type Document struct {
	ID     string
	Record models.RouteRecord
}

// Client is the document store surface the engine consumes. All methods act
// on a single named collection and a single document at a time.
type Client interface {
	// Create persists the record into collection and returns the assigned id.
	Create(ctx context.Context, collection string, rec models.RouteRecord) (string, error)
	// Get fetches one document by id, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (models.RouteRecord, error)
	// QueryByField returns every document whose named field equals value.
	QueryByField(ctx context.Context, collection, field, value string) ([]Document, error)
	// Delete removes a document by id. Deleting an id that is already gone
	// is not an error, matching the backend's semantics.
	Delete(ctx context.Context, collection, id string) error
	// List returns a collection ordered by the given record field
	// ("difficultyOrder", "slopeOrder" or "" for insertion order).
	List(ctx context.Context, collection, orderBy string) ([]Document, error)
}

// OtherCollection returns the collection of the pair the given one is not.
func OtherCollection(collection string) string {
	if collection == CollectionCommunity {
		return CollectionUser
	}
	return CollectionCommunity
}

// ValidCollection reports whether name is one of the two route collections.
func ValidCollection(name string) bool {
	return name == CollectionUser || name == CollectionCommunity
}

// column maps a queryable document field name to its backing column.
// Queries on any other field are refused rather than interpolated.
func column(field string) (string, error) {
	switch field {
	case models.FieldTitle:
		return "title", nil
	case models.FieldCity:
		return "city", nil
	case models.FieldDifficulty:
		return "difficulty", nil
	case models.FieldSlope:
		return "slope", nil
	default:
		return "", fmt.Errorf("store: unsupported query field %q", field)
	}
}

// orderColumn maps a sortable field name to its backing column.
func orderColumn(field string) (string, error) {
	switch field {
	case models.FieldDifficultyOrder:
		return "difficulty_order", nil
	case models.FieldSlopeOrder:
		return "slope_order", nil
	default:
		return "", fmt.Errorf("store: unsupported order field %q", field)
	}
}
