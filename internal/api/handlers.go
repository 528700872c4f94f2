// Package api is the JSON transport for duplicate checks and the
// entity-creation workflow that consults them before inserting.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"cellar-registry/internal/dedup"
	"cellar-registry/internal/domain"
	"cellar-registry/internal/models"
	"cellar-registry/internal/validation"
	errs "cellar-registry/pkg/errors"
	"cellar-registry/pkg/logging"
)

type App struct {
	resolver *dedup.Resolver
	repo     domain.Repository
	log      *logging.Logger
}

func NewApp(resolver *dedup.Resolver, repo domain.Repository, logger *logging.Logger) *App {
	return &App{resolver: resolver, repo: repo, log: logger.WithComponent("api")}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error kinds onto HTTP statuses. Validation messages are
// safe and go out verbatim; everything else is logged in full server-side
// and masked with a generic message so no query or schema detail leaks.
func (a *App) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *errs.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Message()})
		return
	}
	var be *errs.BizError
	if errors.As(err, &be) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": be.Message()})
		return
	}
	a.log.Error("request failed", "path", r.URL.Path, "error", err.Error())
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "request failed"})
}

// CheckDuplicatesHandler runs one duplicate check and returns the verdict.
func (a *App) CheckDuplicatesHandler(w http.ResponseWriter, r *http.Request) {
	var req models.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	verdict, err := a.resolver.Check(r.Context(), req)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, verdict)
}

// createResponse reports the id the caller should use and whether a new
// row was actually inserted. The verdict rides along so clients can warn
// about near-duplicates they chose to ignore.
type createResponse struct {
	ID      int64           `json:"id"`
	Created bool            `json:"created"`
	Verdict *models.Verdict `json:"verdict"`
}

type createRegionRequest struct {
	Name string `json:"name"`
}

// CreateRegionHandler inserts a region unless an identical one exists, in
// which case the existing id is returned for reuse.
func (a *App) CreateRegionHandler(w http.ResponseWriter, r *http.Request) {
	var body createRegionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	verdict, err := a.resolver.Check(r.Context(), models.CheckRequest{Kind: models.KindRegion, Name: body.Name})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if verdict.ExactMatch != nil {
		writeJSON(w, http.StatusOK, createResponse{ID: verdict.ExactMatch.ID, Created: false, Verdict: verdict})
		return
	}
	id, err := a.repo.CreateRegionCtx(r.Context(), body.Name)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{ID: id, Created: true, Verdict: verdict})
}

type createProducerRequest struct {
	Name       string  `json:"name"`
	RegionID   *int64  `json:"regionId,omitempty"`
	RegionName *string `json:"regionName,omitempty"`
}

// CreateProducerHandler inserts a producer unless one with the same name
// already exists in the same region.
func (a *App) CreateProducerHandler(w http.ResponseWriter, r *http.Request) {
	var body createProducerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	verdict, err := a.resolver.Check(r.Context(), models.CheckRequest{
		Kind: models.KindProducer,
		Name: body.Name,
		Context: &models.CheckContext{
			RegionID:   body.RegionID,
			RegionName: body.RegionName,
		},
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if verdict.ExactMatch != nil {
		writeJSON(w, http.StatusOK, createResponse{ID: verdict.ExactMatch.ID, Created: false, Verdict: verdict})
		return
	}
	id, err := a.repo.CreateProducerCtx(r.Context(), body.Name, body.RegionID)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{ID: id, Created: true, Verdict: verdict})
}

type createWineRequest struct {
	Name         string          `json:"name"`
	ProducerID   *int64          `json:"producerId,omitempty"`
	ProducerName *string         `json:"producerName,omitempty"`
	VintageYear  *models.Vintage `json:"vintageYear,omitempty"`
}

// CreateWineHandler inserts a wine unless this exact vintage already
// exists with bottles on hand, in which case the existing id is returned
// so the caller can redirect into the add-bottle flow.
func (a *App) CreateWineHandler(w http.ResponseWriter, r *http.Request) {
	var body createWineRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	verdict, err := a.resolver.Check(r.Context(), models.CheckRequest{
		Kind: models.KindWine,
		Name: body.Name,
		Context: &models.CheckContext{
			ProducerID:   body.ProducerID,
			ProducerName: body.ProducerName,
			VintageYear:  body.VintageYear,
		},
	})
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	if verdict.ExistingEntityID != nil {
		writeJSON(w, http.StatusOK, createResponse{ID: *verdict.ExistingEntityID, Created: false, Verdict: verdict})
		return
	}
	// A new wine row (or a new vintage of an existing name) needs a
	// concrete producer to attach to.
	if body.ProducerID == nil {
		a.writeError(w, r, errs.NewValidation("api.CreateWineHandler", "producerId is required to create a wine", nil))
		return
	}
	if err := validation.ValidateVintage(body.VintageYear); err != nil {
		a.writeError(w, r, err)
		return
	}
	id, err := a.repo.CreateWineCtx(r.Context(), body.Name, *body.ProducerID, body.VintageYear)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, createResponse{ID: id, Created: true, Verdict: verdict})
}
