package dedup

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"cellar-registry/internal/models"
	testutil "cellar-registry/internal/testing"
	errs "cellar-registry/pkg/errors"
)

func intPtr(v int) *int       { return &v }
func i64Ptr(v int64) *int64   { return &v }
func strPtr(s string) *string { return &s }

func seededRepo() *testutil.MockRepository {
	repo := testutil.NewMockRepository()
	repo.Regions = []models.Region{
		{ID: 1, Name: "Rioja"},
		{ID: 2, Name: "Ribera del Duero"},
		{ID: 3, Name: "Burgundy"},
	}
	repo.Producers = []models.Producer{
		{ID: 10, Name: "Giacomo Conterno", RegionID: i64Ptr(4), RegionName: strPtr("Piedmont")},
		{ID: 11, Name: "Domaine Leflaive", RegionID: i64Ptr(3), RegionName: strPtr("Burgundy")},
		{ID: 12, Name: "Domaine Leflaive", RegionID: i64Ptr(5), RegionName: strPtr("Maconnais")},
	}
	repo.Wines = []models.Wine{
		{ID: 100, Name: "Monfortino", ProducerID: 10, ProducerName: "Giacomo Conterno", Year: intPtr(2015), BottleCount: 2},
		{ID: 101, Name: "Monfortino", ProducerID: 10, ProducerName: "Giacomo Conterno", Year: intPtr(2016), BottleCount: 0},
		{ID: 102, Name: "Grande Cuvee", ProducerID: 11, ProducerName: "Krug", NonVintage: true, BottleCount: 1},
	}
	return repo
}

func newTestResolver(repo *testutil.MockRepository) *Resolver {
	return NewResolver(repo, DefaultConfig())
}

func TestCheckRegionExactMatch(t *testing.T) {
	r := newTestResolver(seededRepo())
	v, err := r.Check(context.Background(), models.CheckRequest{Kind: models.KindRegion, Name: "rioja"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ExactMatch == nil || v.ExactMatch.ID != 1 {
		t.Fatalf("expected exact match on Rioja, got %+v", v.ExactMatch)
	}
	if len(v.SimilarMatches) != 0 {
		t.Fatalf("exact row must not reappear in similar: %+v", v.SimilarMatches)
	}
}

func TestCheckRegionAccentInsensitiveExact(t *testing.T) {
	repo := testutil.NewMockRepository()
	repo.Regions = []models.Region{{ID: 1, Name: "Cote Rotie"}}
	r := newTestResolver(repo)
	v, err := r.Check(context.Background(), models.CheckRequest{Kind: models.KindRegion, Name: "Côte Rôtie"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ExactMatch == nil || v.ExactMatch.ID != 1 {
		t.Fatalf("accented spelling should hit the exact row, got %+v", v.ExactMatch)
	}
}

func TestCheckRegionSimilar(t *testing.T) {
	r := newTestResolver(seededRepo())
	v, err := r.Check(context.Background(), models.CheckRequest{Kind: models.KindRegion, Name: "Ribera del Duoro"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ExactMatch != nil {
		t.Fatalf("no exact row expected, got %+v", v.ExactMatch)
	}
	if len(v.SimilarMatches) != 1 || v.SimilarMatches[0].ID != 2 {
		t.Fatalf("expected Ribera del Duero as similar, got %+v", v.SimilarMatches)
	}
}

func TestCheckRegionSimilarCap(t *testing.T) {
	repo := testutil.NewMockRepository()
	for i := 0; i < 30; i++ {
		repo.Regions = append(repo.Regions, models.Region{ID: int64(i + 1), Name: fmt.Sprintf("Barolo Zone %d", i+1)})
	}
	r := newTestResolver(repo)
	v, err := r.Check(context.Background(), models.CheckRequest{Kind: models.KindRegion, Name: "Barolo"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.SimilarMatches) != 5 {
		t.Fatalf("similar list must cap at 5, got %d", len(v.SimilarMatches))
	}
}

func TestCheckRegionSimilarCapHotReload(t *testing.T) {
	repo := testutil.NewMockRepository()
	for i := 0; i < 30; i++ {
		repo.Regions = append(repo.Regions, models.Region{ID: int64(i + 1), Name: fmt.Sprintf("Barolo Zone %d", i+1)})
	}
	r := newTestResolver(repo)
	r.ApplyConfig(0, 0, 2)
	v, err := r.Check(context.Background(), models.CheckRequest{Kind: models.KindRegion, Name: "Barolo"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.SimilarMatches) != 2 {
		t.Fatalf("reloaded cap of 2 not applied, got %d", len(v.SimilarMatches))
	}
}

func TestCheckProducerRegionContext(t *testing.T) {
	r := newTestResolver(seededRepo())

	// With a region that matches the second row, that row is the exact match.
	v, err := r.Check(context.Background(), models.CheckRequest{
		Kind: models.KindProducer,
		Name: "Domaine Leflaive",
		Context: &models.CheckContext{
			RegionName: strPtr("Maconnais"),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ExactMatch == nil || v.ExactMatch.ID != 12 {
		t.Fatalf("expected producer 12, got %+v", v.ExactMatch)
	}
	if v.ExactMatch.Meta != "Maconnais" {
		t.Fatalf("expected region meta, got %q", v.ExactMatch.Meta)
	}
	// Same-name rows stay out of the similar list regardless of region.
	if len(v.SimilarMatches) != 0 {
		t.Fatalf("same-name rows leaked into similar: %+v", v.SimilarMatches)
	}
}

func TestCheckProducerRegionMismatch(t *testing.T) {
	r := newTestResolver(seededRepo())
	v, err := r.Check(context.Background(), models.CheckRequest{
		Kind: models.KindProducer,
		Name: "Domaine Leflaive",
		Context: &models.CheckContext{
			RegionID: i64Ptr(99),
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ExactMatch != nil {
		t.Fatalf("no region agrees, exact must be nil, got %+v", v.ExactMatch)
	}
	if len(v.SimilarMatches) != 0 {
		t.Fatalf("exact-name rows must still be excluded from similar: %+v", v.SimilarMatches)
	}
}

func TestCheckProducerNoContext(t *testing.T) {
	r := newTestResolver(seededRepo())
	v, err := r.Check(context.Background(), models.CheckRequest{Kind: models.KindProducer, Name: "Domaine Leflaive"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ExactMatch == nil || v.ExactMatch.ID != 11 {
		t.Fatalf("first exact row expected without context, got %+v", v.ExactMatch)
	}
}

func TestCheckWineExistingVintage(t *testing.T) {
	r := newTestResolver(seededRepo())
	v, err := r.Check(context.Background(), models.CheckRequest{
		Kind: models.KindWine,
		Name: "Monfortino",
		Context: &models.CheckContext{
			ProducerID:  i64Ptr(10),
			VintageYear: &models.Vintage{Year: 2015},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ExactMatch == nil || v.ExactMatch.ID != 100 {
		t.Fatalf("expected wine 100 as exact, got %+v", v.ExactMatch)
	}
	if v.ExistingEntityID == nil || *v.ExistingEntityID != 100 {
		t.Fatalf("expected existing entity 100, got %+v", v.ExistingEntityID)
	}
	if v.ExistingCount != 2 {
		t.Fatalf("expected 2 bottles, got %d", v.ExistingCount)
	}
}

func TestCheckWineVintageDisagrees(t *testing.T) {
	r := newTestResolver(seededRepo())
	v, err := r.Check(context.Background(), models.CheckRequest{
		Kind: models.KindWine,
		Name: "Monfortino",
		Context: &models.CheckContext{
			ProducerID:  i64Ptr(10),
			VintageYear: &models.Vintage{Year: 2019},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The name collision is reported, but with no agreeing vintage in
	// stock the add-bottle redirect stays off.
	if v.ExactMatch == nil {
		t.Fatal("exact name match expected regardless of vintage")
	}
	if v.ExistingEntityID != nil {
		t.Fatalf("existing entity must be nil, got %d", *v.ExistingEntityID)
	}
}

func TestCheckWineZeroBottles(t *testing.T) {
	r := newTestResolver(seededRepo())
	v, err := r.Check(context.Background(), models.CheckRequest{
		Kind: models.KindWine,
		Name: "Monfortino",
		Context: &models.CheckContext{
			ProducerID:  i64Ptr(10),
			VintageYear: &models.Vintage{Year: 2016},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ExistingEntityID != nil {
		t.Fatal("zero bottles on hand must not trigger the redirect")
	}
}

func TestCheckWineNonVintage(t *testing.T) {
	r := newTestResolver(seededRepo())

	// Explicit "NV" and an absent vintage both mean non-vintage.
	for _, c := range []*models.CheckContext{
		{ProducerID: i64Ptr(11), VintageYear: &models.Vintage{NonVintage: true}},
		{ProducerID: i64Ptr(11)},
	} {
		v, err := r.Check(context.Background(), models.CheckRequest{Kind: models.KindWine, Name: "Grande Cuvee", Context: c})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.ExistingEntityID == nil || *v.ExistingEntityID != 102 {
			t.Fatalf("expected NV wine 102, got %+v", v.ExistingEntityID)
		}
		if v.ExistingCount != 1 {
			t.Fatalf("expected 1 bottle, got %d", v.ExistingCount)
		}
	}
}

func TestCheckWineProducerScope(t *testing.T) {
	r := newTestResolver(seededRepo())
	v, err := r.Check(context.Background(), models.CheckRequest{
		Kind: models.KindWine,
		Name: "Monfortino",
		Context: &models.CheckContext{
			ProducerID:  i64Ptr(999),
			VintageYear: &models.Vintage{Year: 2015},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.ExactMatch != nil || v.ExistingEntityID != nil {
		t.Fatalf("another producer's wine must not match, got %+v", v)
	}
}

func TestCheckValidation(t *testing.T) {
	r := newTestResolver(seededRepo())
	cases := []struct {
		name string
		req  models.CheckRequest
	}{
		{"missing name", models.CheckRequest{Kind: models.KindRegion, Name: "   "}},
		{"unknown kind", models.CheckRequest{Kind: "vineyard", Name: "Barolo"}},
		{"vintage out of range", models.CheckRequest{
			Kind:    models.KindWine,
			Name:    "Monfortino",
			Context: &models.CheckContext{VintageYear: &models.Vintage{Year: 1502}},
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := r.Check(context.Background(), c.req)
			var ve *errs.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestCheckRepositoryError(t *testing.T) {
	repo := seededRepo()
	repo.Err = errors.New("connection refused")
	r := newTestResolver(repo)
	if _, err := r.Check(context.Background(), models.CheckRequest{Kind: models.KindRegion, Name: "Rioja"}); err == nil {
		t.Fatal("expected storage error to propagate")
	}
}
