package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/agrichain/agrichain/internal/composer"
	"github.com/agrichain/agrichain/internal/domain"
	"github.com/agrichain/agrichain/internal/worker"
)

// ComposeInsight handles POST /insights. The insight is composed
// synchronously and stored when a repository is configured.
func (h *Handler) ComposeInsight(w http.ResponseWriter, r *http.Request) {
	var req domain.InsightRequest
	if !decode(w, r, &req) {
		return
	}

	insight, err := h.svc.Composer.Compose(r.Context(), req)
	if err != nil {
		h.writeError(w, r, "compose insight", err)
		return
	}

	if h.svc.Repo != nil {
		if err := h.svc.Repo.SaveInsight(r.Context(), insight); err != nil {
			h.logger.Error("failed to save insight", "id", insight.ID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, insight)
}

// AcceptedResponse is the response for POST /insights/async.
type AcceptedResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Poll   string `json:"poll"`
}

// ComposeInsightAsync handles POST /insights/async. The request is
// validated, published for the worker, and answered with 202.
func (h *Handler) ComposeInsightAsync(w http.ResponseWriter, r *http.Request) {
	if h.svc.Bus == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("event bus not available"))
		return
	}

	var req domain.InsightRequest
	if !decode(w, r, &req) {
		return
	}
	if err := composer.Validate(&req); err != nil {
		h.writeError(w, r, "compose insight", err)
		return
	}

	job := worker.Job{
		ID:      uuid.New().String(),
		TraceID: GetTraceID(r.Context()),
		Request: req,
	}
	payload, err := json.Marshal(job)
	if err != nil {
		h.writeError(w, r, "queue insight", err)
		return
	}
	if err := h.svc.Bus.Publish(r.Context(), domain.TopicInsightRequested, payload); err != nil {
		h.writeError(w, r, "queue insight", err)
		return
	}

	h.logger.Info("insight queued", "id", job.ID, "crop", req.Crop, "trace_id", job.TraceID)
	writeJSON(w, http.StatusAccepted, AcceptedResponse{
		ID:     job.ID,
		Status: "accepted",
		Poll:   "/insights/" + job.ID,
	})
}

// GetInsight retrieves a stored insight by ID.
func (h *Handler) GetInsight(w http.ResponseWriter, r *http.Request) {
	if h.svc.Repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("repository not available"))
		return
	}

	insight, err := h.svc.Repo.GetInsight(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, "get insight", err)
		return
	}
	writeJSON(w, http.StatusOK, insight)
}

// ArrivalsRequest is the request body for POST /arrivals.
type ArrivalsRequest struct {
	Records []domain.ArrivalRecord `json:"records"`
}

// SaveArrivals handles POST /arrivals. Cached forecasts and market stats
// for every affected commodity and state are dropped.
func (h *Handler) SaveArrivals(w http.ResponseWriter, r *http.Request) {
	if h.svc.Repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody("repository not available"))
		return
	}

	var req ArrivalsRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.Records) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("records required"))
		return
	}

	n, err := h.svc.Repo.SaveArrivals(r.Context(), req.Records)
	if err != nil {
		h.writeError(w, r, "save arrivals", err)
		return
	}

	type pair struct{ commodity, state string }
	seen := make(map[pair]bool)
	for _, rec := range req.Records {
		p := pair{rec.Commodity, rec.State}
		if seen[p] {
			continue
		}
		seen[p] = true
		h.svc.Surge.Invalidate(r.Context(), p.commodity, p.state)
		h.svc.Market.Invalidate(r.Context(), p.commodity, p.state)
	}

	h.logger.Info("arrivals saved", "count", n, "pairs", len(seen))
	writeJSON(w, http.StatusCreated, map[string]int{
		"inserted": n,
	})
}
