package domain

import (
	"context"

	"cellar-registry/internal/models"
)

// The corpus accessor is split per entity kind. Each kind exposes two read
// paths the resolver depends on:
//
//   - an exact lookup backed by the storage layer's case/accent-insensitive
//     collation, which must never miss an identical name, and
//   - a bounded candidate listing driven by coarse search tokens, which is
//     the cheap broad filter the expensive scorer runs against.
//
// Create methods serve the entity-creation workflow that consults the
// resolver before inserting.

// RegionRepository defines data access for wine regions.
type RegionRepository interface {
	FindRegionsByNameCtx(ctx context.Context, name string) ([]models.Region, error)
	ListRegionCandidatesCtx(ctx context.Context, tokens []string, limit int) ([]models.Region, error)
	CreateRegionCtx(ctx context.Context, name string) (int64, error)
}

// ProducerRepository defines data access for producers.
type ProducerRepository interface {
	FindProducersByNameCtx(ctx context.Context, name string) ([]models.Producer, error)
	ListProducerCandidatesCtx(ctx context.Context, tokens []string, limit int) ([]models.Producer, error)
	CreateProducerCtx(ctx context.Context, name string, regionID *int64) (int64, error)
}

// WineRepository defines data access for wines and their bottle counts.
// Scope narrows queries to one producer when the caller supplied one.
type WineRepository interface {
	FindWinesByNameCtx(ctx context.Context, name string, scope models.ProducerScope) ([]models.Wine, error)
	ListWineCandidatesCtx(ctx context.Context, tokens []string, scope models.ProducerScope, limit int) ([]models.Wine, error)
	CreateWineCtx(ctx context.Context, name string, producerID int64, vintage *models.Vintage) (int64, error)
}

// Repository aggregates the per-kind repositories required by services.
type Repository interface {
	RegionRepository
	ProducerRepository
	WineRepository
}
