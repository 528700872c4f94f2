package testutil

import (
	"context"
	"strings"
	"sync"

	"cellar-registry/internal/models"
	"cellar-registry/internal/textnorm"
)

// MockRepository is an in-memory domain.Repository for resolver and
// handler tests. Exact lookups approximate the accent/case-insensitive
// column collation of the real store; candidate listings approximate the
// OR'd LIKE predicates.
type MockRepository struct {
	Mu        sync.Mutex
	Regions   []models.Region
	Producers []models.Producer
	Wines     []models.Wine

	// Err, when set, is returned by every method to simulate storage failure.
	Err error

	nextID int64
}

func NewMockRepository() *MockRepository {
	return &MockRepository{nextID: 1000}
}

// collate mimics the utf8mb4_0900_ai_ci comparison key: case folded,
// accents ignored, articles kept.
func collate(s string) string {
	return strings.ToLower(textnorm.NormalizeAccents(strings.TrimSpace(s)))
}

func likeAny(name string, tokens []string) bool {
	n := collate(name)
	for _, t := range tokens {
		if t != "" && strings.Contains(n, t) {
			return true
		}
	}
	return false
}

func (m *MockRepository) FindRegionsByNameCtx(ctx context.Context, name string) ([]models.Region, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := []models.Region{}
	for _, r := range m.Regions {
		if collate(r.Name) == collate(name) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockRepository) ListRegionCandidatesCtx(ctx context.Context, tokens []string, limit int) ([]models.Region, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := []models.Region{}
	for _, r := range m.Regions {
		if len(out) >= limit {
			break
		}
		if likeAny(r.Name, tokens) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockRepository) CreateRegionCtx(ctx context.Context, name string) (int64, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	m.nextID++
	m.Regions = append(m.Regions, models.Region{ID: m.nextID, Name: name})
	return m.nextID, nil
}

func (m *MockRepository) FindProducersByNameCtx(ctx context.Context, name string) ([]models.Producer, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := []models.Producer{}
	for _, p := range m.Producers {
		if collate(p.Name) == collate(name) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockRepository) ListProducerCandidatesCtx(ctx context.Context, tokens []string, limit int) ([]models.Producer, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := []models.Producer{}
	for _, p := range m.Producers {
		if len(out) >= limit {
			break
		}
		if likeAny(p.Name, tokens) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockRepository) CreateProducerCtx(ctx context.Context, name string, regionID *int64) (int64, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	m.nextID++
	m.Producers = append(m.Producers, models.Producer{ID: m.nextID, Name: name, RegionID: regionID})
	return m.nextID, nil
}

func (m *MockRepository) matchesScope(w models.Wine, scope models.ProducerScope) bool {
	if scope.ProducerID != nil {
		return w.ProducerID == *scope.ProducerID
	}
	if scope.ProducerName != nil {
		return collate(w.ProducerName) == collate(*scope.ProducerName)
	}
	return true
}

func (m *MockRepository) FindWinesByNameCtx(ctx context.Context, name string, scope models.ProducerScope) ([]models.Wine, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := []models.Wine{}
	for _, w := range m.Wines {
		if collate(w.Name) == collate(name) && m.matchesScope(w, scope) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *MockRepository) ListWineCandidatesCtx(ctx context.Context, tokens []string, scope models.ProducerScope, limit int) ([]models.Wine, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := []models.Wine{}
	for _, w := range m.Wines {
		if len(out) >= limit {
			break
		}
		if likeAny(w.Name, tokens) && m.matchesScope(w, scope) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *MockRepository) CreateWineCtx(ctx context.Context, name string, producerID int64, vintage *models.Vintage) (int64, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	m.nextID++
	w := models.Wine{ID: m.nextID, Name: name, ProducerID: producerID, NonVintage: true}
	if vintage != nil && !vintage.NonVintage {
		year := vintage.Year
		w.Year = &year
		w.NonVintage = false
	}
	m.Wines = append(m.Wines, w)
	return m.nextID, nil
}
