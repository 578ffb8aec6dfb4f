package models

import (
	"math"
	"strings"

	"gorm.io/gorm"
)

// Field names as they appear in the persisted document and in queries.
const (
	FieldTitle           = "title"
	FieldCity            = "city"
	FieldDifficulty      = "difficulty"
	FieldSlope           = "slope"
	FieldDescription     = "description"
	FieldAvgRating       = "avgRating"
	FieldDifficultyOrder = "difficultyOrder"
	FieldSlopeOrder      = "slopeOrder"
)

// OrderMax is the sentinel ordering index for unknown or absent category
// values. Records carrying it sort after every known category.
const OrderMax = math.MaxInt32

// RouteRecord is a route as persisted in a document collection.
// DifficultyOrder and SlopeOrder are always derived from the current
// Difficulty/Slope value; use SetDifficulty/SetSlope so they stay in sync.
// Photo bytes are never embedded here; the blob store key is derived from
// Title at the point of use.
type RouteRecord struct {
	gorm.Model

	// Collection is the named collection the row belongs to. It addresses
	// the record, it is not part of the record's field values.
	Collection string `gorm:"index" json:"-"`

	Title           string  `json:"title"`
	City            string  `json:"city"`
	Difficulty      string  `json:"difficulty"`
	Slope           string  `json:"slope"`
	Description     string  `json:"description"`
	AvgRating       float64 `json:"avgRating"`
	DifficultyOrder int     `json:"difficultyOrder"`
	SlopeOrder      int     `json:"slopeOrder"`
}

// SetDifficulty assigns the difficulty and recomputes its ordering index.
func (r *RouteRecord) SetDifficulty(difficulty string) {
	r.Difficulty = difficulty
	r.DifficultyOrder = DifficultyOrder(difficulty)
}

// SetSlope assigns the slope and recomputes its ordering index.
func (r *RouteRecord) SetSlope(slope string) {
	r.Slope = slope
	r.SlopeOrder = SlopeOrder(slope)
}

// DifficultyOrder maps a difficulty value to its sort index.
// Unknown values sort last via OrderMax, never zero and never an error.
func DifficultyOrder(difficulty string) int {
	switch strings.ToLower(difficulty) {
	case "easy":
		return 1
	case "moderate":
		return 2
	case "hard":
		return 3
	case "expert":
		return 4
	default:
		return OrderMax
	}
}

// SlopeOrder maps a slope value to its sort index.
func SlopeOrder(slope string) int {
	switch strings.ToLower(slope) {
	case "gentle":
		return 1
	case "inclined":
		return 2
	case "steep":
		return 3
	case "very steep":
		return 4
	default:
		return OrderMax
	}
}
