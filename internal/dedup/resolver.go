// Package dedup answers one question: does a suspiciously similar entity
// already exist in the corpus? It orchestrates candidate filtering,
// normalization and fuzzy scoring per entity kind and assembles the final
// verdict. It never persists anything and holds no per-request state.
package dedup

import (
	"context"
	"strings"
	"sync"

	"cellar-registry/internal/constants"
	"cellar-registry/internal/domain"
	"cellar-registry/internal/match"
	"cellar-registry/internal/models"
	"cellar-registry/internal/validation"
)

// Config holds the matching knobs. All of them are hot-reloadable via
// ApplyConfig.
type Config struct {
	FuzzyThreshold float64 // minimum similarity for a fuzzy hit
	CandidateLimit int     // max corpus rows fetched per check
	MaxSimilar     int     // cap on reported similar matches
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		FuzzyThreshold: constants.FuzzyMatchThreshold,
		CandidateLimit: constants.CandidateLimit,
		MaxSimilar:     constants.MaxSimilarMatches,
	}
}

// Resolver runs duplicate checks against the corpus. Safe for concurrent
// use; every check is a self-contained read-only unit of work.
type Resolver struct {
	repo domain.Repository

	mu  sync.RWMutex
	cfg Config
}

func NewResolver(repo domain.Repository, cfg Config) *Resolver {
	if cfg.FuzzyThreshold <= 0 || cfg.FuzzyThreshold > 1 {
		cfg.FuzzyThreshold = constants.FuzzyMatchThreshold
	}
	if cfg.CandidateLimit <= 0 {
		cfg.CandidateLimit = constants.CandidateLimit
	}
	if cfg.MaxSimilar <= 0 {
		cfg.MaxSimilar = constants.MaxSimilarMatches
	}
	return &Resolver{repo: repo, cfg: cfg}
}

// ApplyConfig swaps the matching knobs at runtime. Zero values keep the
// current setting.
func (r *Resolver) ApplyConfig(threshold float64, candidateLimit, maxSimilar int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if threshold > 0 && threshold <= 1 {
		r.cfg.FuzzyThreshold = threshold
	}
	if candidateLimit > 0 {
		r.cfg.CandidateLimit = candidateLimit
	}
	if maxSimilar > 0 {
		r.cfg.MaxSimilar = maxSimilar
	}
}

func (r *Resolver) config() Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cfg
}

// Check validates the request and dispatches to the kind-specific
// decision procedure. Validation failures come back as ValidationError;
// corpus failures propagate as DBError for the transport layer to mask.
func (r *Resolver) Check(ctx context.Context, req models.CheckRequest) (*models.Verdict, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := validation.ValidateCheckRequest(&req); err != nil {
		return nil, err
	}
	switch req.Kind {
	case models.KindProducer:
		return r.checkProducer(ctx, req.Name, req.Context)
	case models.KindWine:
		return r.checkWine(ctx, req.Name, req.Context)
	default:
		return r.checkRegion(ctx, req.Name)
	}
}

// similar reports whether a candidate name is close enough to flag:
// fuzzy token overlap above the threshold, or normalized containment in
// either direction.
func similar(input, candidate string, threshold float64) bool {
	return match.MeetsThreshold(input, candidate, threshold) || match.IsSubstringMatch(input, candidate)
}

func (r *Resolver) checkRegion(ctx context.Context, name string) (*models.Verdict, error) {
	cfg := r.config()
	verdict := &models.Verdict{SimilarMatches: []models.MatchResult{}}

	exact, err := r.repo.FindRegionsByNameCtx(ctx, name)
	if err != nil {
		return nil, err
	}
	taken := make(map[int64]bool, len(exact))
	for _, region := range exact {
		taken[region.ID] = true
	}
	if len(exact) > 0 {
		verdict.ExactMatch = &models.MatchResult{ID: exact[0].ID, Name: exact[0].Name}
	}

	candidates, err := r.repo.ListRegionCandidatesCtx(ctx, SearchTokens(name), cfg.CandidateLimit)
	if err != nil {
		return nil, err
	}
	for _, c := range candidates {
		if len(verdict.SimilarMatches) >= cfg.MaxSimilar {
			break
		}
		if taken[c.ID] || match.SameName(name, c.Name) {
			continue
		}
		if similar(name, c.Name, cfg.FuzzyThreshold) {
			verdict.SimilarMatches = append(verdict.SimilarMatches, models.MatchResult{ID: c.ID, Name: c.Name})
		}
	}
	return verdict, nil
}

// regionAgrees checks the producer's region against the caller context.
// Without region context every exact-name row agrees; with context the
// region id or the region name has to line up.
func regionAgrees(p models.Producer, c *models.CheckContext) bool {
	if c == nil || (c.RegionID == nil && c.RegionName == nil) {
		return true
	}
	if c.RegionID != nil && p.RegionID != nil && *c.RegionID == *p.RegionID {
		return true
	}
	if c.RegionName != nil && p.RegionName != nil && match.SameName(*c.RegionName, *p.RegionName) {
		return true
	}
	return false
}

func producerMeta(p models.Producer) string {
	if p.RegionName != nil {
		return *p.RegionName
	}
	return ""
}

func (r *Resolver) checkProducer(ctx context.Context, name string, c *models.CheckContext) (*models.Verdict, error) {
	cfg := r.config()
	verdict := &models.Verdict{SimilarMatches: []models.MatchResult{}}

	// Exact-name rows are found without region filtering: a same-name
	// producer in another region must still suppress the fuzzy list.
	exact, err := r.repo.FindProducersByNameCtx(ctx, name)
	if err != nil {
		return nil, err
	}
	taken := make(map[int64]bool, len(exact))
	for _, p := range exact {
		taken[p.ID] = true
		if verdict.ExactMatch == nil && regionAgrees(p, c) {
			verdict.ExactMatch = &models.MatchResult{ID: p.ID, Name: p.Name, Meta: producerMeta(p)}
		}
	}

	candidates, err := r.repo.ListProducerCandidatesCtx(ctx, SearchTokens(name), cfg.CandidateLimit)
	if err != nil {
		return nil, err
	}
	for _, p := range candidates {
		if len(verdict.SimilarMatches) >= cfg.MaxSimilar {
			break
		}
		// An exact name is never also "similar", whether or not its
		// region matched.
		if taken[p.ID] || match.SameName(name, p.Name) {
			continue
		}
		if similar(name, p.Name, cfg.FuzzyThreshold) {
			verdict.SimilarMatches = append(verdict.SimilarMatches, models.MatchResult{ID: p.ID, Name: p.Name, Meta: producerMeta(p)})
		}
	}
	return verdict, nil
}

func producerScope(c *models.CheckContext) models.ProducerScope {
	if c == nil {
		return models.ProducerScope{}
	}
	return models.ProducerScope{ProducerID: c.ProducerID, ProducerName: c.ProducerName}
}

// inputVintage resolves the caller's vintage: an absent vintageYear means
// the wine is non-vintage.
func inputVintage(c *models.CheckContext) models.Vintage {
	if c == nil || c.VintageYear == nil {
		return models.Vintage{NonVintage: true}
	}
	return *c.VintageYear
}

func wineMeta(w models.Wine) string {
	label := w.ProducerName
	switch {
	case w.NonVintage:
		label += " NV"
	case w.Year != nil:
		label += " " + models.Vintage{Year: *w.Year}.String()
	}
	return strings.TrimSpace(label)
}

func (r *Resolver) checkWine(ctx context.Context, name string, c *models.CheckContext) (*models.Verdict, error) {
	cfg := r.config()
	scope := producerScope(c)
	vintage := inputVintage(c)
	verdict := &models.Verdict{SimilarMatches: []models.MatchResult{}}

	exact, err := r.repo.FindWinesByNameCtx(ctx, name, scope)
	if err != nil {
		return nil, err
	}
	taken := make(map[int64]bool, len(exact))
	for _, w := range exact {
		taken[w.ID] = true
		// The display match is the first exact-name row regardless of
		// vintage; redirecting into the bottle flow additionally needs
		// vintage agreement and stock on hand.
		if verdict.ExactMatch == nil {
			verdict.ExactMatch = &models.MatchResult{ID: w.ID, Name: w.Name, Meta: wineMeta(w)}
		}
		if verdict.ExistingEntityID == nil && vintage.Agrees(w.Year, w.NonVintage) && w.BottleCount > 0 {
			id := w.ID
			verdict.ExistingEntityID = &id
			verdict.ExistingCount = w.BottleCount
		}
	}

	candidates, err := r.repo.ListWineCandidatesCtx(ctx, SearchTokens(name), scope, cfg.CandidateLimit)
	if err != nil {
		return nil, err
	}
	for _, w := range candidates {
		if len(verdict.SimilarMatches) >= cfg.MaxSimilar {
			break
		}
		if taken[w.ID] || match.SameName(name, w.Name) {
			continue
		}
		if similar(name, w.Name, cfg.FuzzyThreshold) {
			verdict.SimilarMatches = append(verdict.SimilarMatches, models.MatchResult{ID: w.ID, Name: w.Name, Meta: wineMeta(w)})
		}
	}
	return verdict, nil
}
