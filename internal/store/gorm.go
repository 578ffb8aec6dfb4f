package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"trailpost/internal/models"
)

// GormClient implements Client on a Postgres-backed gorm handle. Both
// collections share the route_records table, discriminated by the
// collection column, so each Create/Delete still touches exactly one row.
type GormClient struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *GormClient {
	return &GormClient{db: db}
}

func (g *GormClient) Create(ctx context.Context, collection string, rec models.RouteRecord) (string, error) {
	rec.ID = 0
	rec.Collection = collection
	if err := g.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return "", err
	}
	return strconv.FormatUint(uint64(rec.ID), 10), nil
}

func (g *GormClient) Get(ctx context.Context, collection, id string) (models.RouteRecord, error) {
	rowID, err := parseID(id)
	if err != nil {
		return models.RouteRecord{}, ErrNotFound
	}
	var rec models.RouteRecord
	err = g.db.WithContext(ctx).
		Where("id = ? AND collection = ?", rowID, collection).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RouteRecord{}, ErrNotFound
	}
	if err != nil {
		return models.RouteRecord{}, err
	}
	return rec, nil
}

func (g *GormClient) QueryByField(ctx context.Context, collection, field, value string) ([]Document, error) {
	col, err := column(field)
	if err != nil {
		return nil, err
	}
	var recs []models.RouteRecord
	err = g.db.WithContext(ctx).
		Where(fmt.Sprintf("collection = ? AND %s = ?", col), collection, value).
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return toDocuments(recs), nil
}

func (g *GormClient) Delete(ctx context.Context, collection, id string) error {
	rowID, err := parseID(id)
	if err != nil {
		// Nothing stored under a malformed id; deleting it is a no-op.
		return nil
	}
	return g.db.WithContext(ctx).
		Where("id = ? AND collection = ?", rowID, collection).
		Delete(&models.RouteRecord{}).Error
}

func (g *GormClient) List(ctx context.Context, collection, orderBy string) ([]Document, error) {
	q := g.db.WithContext(ctx).Where("collection = ?", collection)
	switch orderBy {
	case "":
		q = q.Order("id asc")
	default:
		col, err := orderColumn(orderBy)
		if err != nil {
			return nil, err
		}
		q = q.Order(col + " asc").Order("id asc")
	}
	var recs []models.RouteRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	return toDocuments(recs), nil
}

func parseID(id string) (uint, error) {
	v, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}

func toDocuments(recs []models.RouteRecord) []Document {
	docs := make([]Document, 0, len(recs))
	for _, rec := range recs {
		docs = append(docs, Document{
			ID:     strconv.FormatUint(uint64(rec.ID), 10),
			Record: rec,
		})
	}
	return docs
}
