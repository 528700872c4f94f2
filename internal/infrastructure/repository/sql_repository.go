package repository

import (
	"context"

	"cellar-registry/internal/domain"
	"cellar-registry/internal/models"
	"cellar-registry/pkg/database"
)

// SQLRepository is a thin adapter over pkg/database.DB to satisfy the
// domain repositories. It keeps the resolver decoupled from the SQL layer.
type SQLRepository struct {
	db *database.DB
}

func NewSQLRepository(db *database.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// Ensure interface compliance at compile time
var _ domain.Repository = (*SQLRepository)(nil)

// RegionRepository methods
func (r *SQLRepository) FindRegionsByNameCtx(ctx context.Context, name string) ([]models.Region, error) {
	return r.db.FindRegionsByNameCtx(ctx, name)
}

func (r *SQLRepository) ListRegionCandidatesCtx(ctx context.Context, tokens []string, limit int) ([]models.Region, error) {
	return r.db.ListRegionCandidatesCtx(ctx, tokens, limit)
}

func (r *SQLRepository) CreateRegionCtx(ctx context.Context, name string) (int64, error) {
	return r.db.CreateRegionCtx(ctx, name)
}

// ProducerRepository methods
func (r *SQLRepository) FindProducersByNameCtx(ctx context.Context, name string) ([]models.Producer, error) {
	return r.db.FindProducersByNameCtx(ctx, name)
}

func (r *SQLRepository) ListProducerCandidatesCtx(ctx context.Context, tokens []string, limit int) ([]models.Producer, error) {
	return r.db.ListProducerCandidatesCtx(ctx, tokens, limit)
}

func (r *SQLRepository) CreateProducerCtx(ctx context.Context, name string, regionID *int64) (int64, error) {
	return r.db.CreateProducerCtx(ctx, name, regionID)
}

// WineRepository methods
func (r *SQLRepository) FindWinesByNameCtx(ctx context.Context, name string, scope models.ProducerScope) ([]models.Wine, error) {
	return r.db.FindWinesByNameCtx(ctx, name, scope)
}

func (r *SQLRepository) ListWineCandidatesCtx(ctx context.Context, tokens []string, scope models.ProducerScope, limit int) ([]models.Wine, error) {
	return r.db.ListWineCandidatesCtx(ctx, tokens, scope, limit)
}

func (r *SQLRepository) CreateWineCtx(ctx context.Context, name string, producerID int64, vintage *models.Vintage) (int64, error) {
	return r.db.CreateWineCtx(ctx, name, producerID, vintage)
}
