package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"trailpost/internal/models"
)

// MemoryClient is an in-process Client used by tests and local development.
// Ids are uuids, mirroring the backend's opaque store-assigned ids.
type MemoryClient struct {
	mu   sync.RWMutex
	docs map[string]map[string]models.RouteRecord // collection -> id -> record
	seq  map[string]int                           // id -> insertion order
	next int
}

func NewMemory() *MemoryClient {
	return &MemoryClient{
		docs: make(map[string]map[string]models.RouteRecord),
		seq:  make(map[string]int),
	}
}

func (m *MemoryClient) Create(_ context.Context, collection string, rec models.RouteRecord) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string]models.RouteRecord)
	}
	id := uuid.NewString()
	rec.Collection = collection
	m.docs[collection][id] = rec
	m.next++
	m.seq[id] = m.next
	return id, nil
}

func (m *MemoryClient) Get(_ context.Context, collection, id string) (models.RouteRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.docs[collection][id]
	if !ok {
		return models.RouteRecord{}, ErrNotFound
	}
	return rec, nil
}

func (m *MemoryClient) QueryByField(_ context.Context, collection, field, value string) ([]Document, error) {
	if _, err := column(field); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Document
	for id, rec := range m.docs[collection] {
		if fieldValue(rec, field) == value {
			out = append(out, Document{ID: id, Record: rec})
		}
	}
	m.sortBySeq(out)
	return out, nil
}

func (m *MemoryClient) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs[collection], id)
	return nil
}

func (m *MemoryClient) List(_ context.Context, collection, orderBy string) ([]Document, error) {
	if orderBy != "" {
		if _, err := orderColumn(orderBy); err != nil {
			return nil, err
		}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Document, 0, len(m.docs[collection]))
	for id, rec := range m.docs[collection] {
		out = append(out, Document{ID: id, Record: rec})
	}
	m.sortBySeq(out)
	switch orderBy {
	case models.FieldDifficultyOrder:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Record.DifficultyOrder < out[j].Record.DifficultyOrder
		})
	case models.FieldSlopeOrder:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Record.SlopeOrder < out[j].Record.SlopeOrder
		})
	}
	return out, nil
}

func (m *MemoryClient) sortBySeq(docs []Document) {
	sort.Slice(docs, func(i, j int) bool {
		return m.seq[docs[i].ID] < m.seq[docs[j].ID]
	})
}

func fieldValue(rec models.RouteRecord, field string) string {
	switch field {
	case models.FieldTitle:
		return rec.Title
	case models.FieldCity:
		return rec.City
	case models.FieldDifficulty:
		return rec.Difficulty
	case models.FieldSlope:
		return rec.Slope
	default:
		return ""
	}
}
