package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agrichain/agrichain/internal/agronomy"
	"github.com/agrichain/agrichain/internal/domain"
	"github.com/agrichain/agrichain/internal/explain"
	"github.com/agrichain/agrichain/internal/spoilage"
	"github.com/agrichain/agrichain/internal/weather"
)

// ListCrops returns every crop in the registry with its shelf life.
func (h *Handler) ListCrops(w http.ResponseWriter, r *http.Request) {
	names := h.svc.Registry.Crops()
	crops := make([]domain.CropProfile, 0, len(names))
	for _, name := range names {
		crops = append(crops, h.svc.Registry.Lookup(name))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"crops": crops,
		"count": len(crops),
	})
}

// ListStorageTypes returns the storage classes in order of increasing protection.
func (h *Handler) ListStorageTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"storage_types": spoilage.Storage(),
	})
}

// SpoilageRequest is the request body for POST /spoilage.
type SpoilageRequest struct {
	Crop         string              `json:"crop"`
	District     string              `json:"district"`
	State        string              `json:"state"`
	Storage      domain.StorageClass `json:"storage_type"`
	TransitHours *float64            `json:"transit_hours,omitempty"`

	// Fetched from the weather provider when either is missing
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
}

// WeatherUsed reports the conditions a spoilage assessment was scored under.
type WeatherUsed struct {
	Temperature    float64           `json:"temperature"`
	Humidity       float64           `json:"humidity"`
	SpoilageFactor float64           `json:"spoilage_factor"`
	Provenance     domain.Provenance `json:"provenance"`
	Error          string            `json:"error,omitempty"`
}

// SpoilageResponse is the response for POST /spoilage.
type SpoilageResponse struct {
	Crop          string                     `json:"crop"`
	District      string                     `json:"district"`
	Spoilage      domain.SpoilageAssessment  `json:"spoilage"`
	Micronutrient domain.MicronutrientReport `json:"micronutrient"`
	WeatherUsed   WeatherUsed                `json:"weather_used"`
}

// Spoilage handles POST /spoilage.
func (h *Handler) Spoilage(w http.ResponseWriter, r *http.Request) {
	var req SpoilageRequest
	if !decode(w, r, &req) {
		return
	}
	if !requireFields(w, map[string]string{"crop": req.Crop, "state": req.State}) {
		return
	}
	if req.Storage == "" {
		req.Storage = domain.StorageBasicShed
	}
	transit := h.svc.DefaultTransitHours
	if req.TransitHours != nil {
		if *req.TransitHours < 0 {
			writeJSON(w, http.StatusBadRequest, errorBody("transit_hours cannot be negative"))
			return
		}
		transit = *req.TransitHours
	}

	used := WeatherUsed{SpoilageFactor: 1, Provenance: domain.ProvenanceDefault}
	if req.Temperature == nil || req.Humidity == nil {
		reading := weather.Resolve(r.Context(), h.svc.Weather, req.District, req.State, h.logger)
		used = WeatherUsed{
			Temperature:    reading.Value.Temperature,
			Humidity:       reading.Value.Humidity,
			SpoilageFactor: reading.Value.SpoilageFactor,
			Provenance:     reading.Provenance,
			Error:          reading.Error,
		}
	}
	if req.Temperature != nil {
		used.Temperature = *req.Temperature
	}
	if req.Humidity != nil {
		used.Humidity = *req.Humidity
	}

	assessment := h.svc.Spoilage.Assess(domain.SpoilageInput{
		Crop:         req.Crop,
		Storage:      req.Storage,
		TransitHours: transit,
		Temperature:  used.Temperature,
		Humidity:     used.Humidity,
		Multiplier:   used.SpoilageFactor,
	})

	writeJSON(w, http.StatusOK, SpoilageResponse{
		Crop:          assessment.Crop,
		District:      req.District,
		Spoilage:      assessment,
		Micronutrient: agronomy.Micronutrients(req.District),
		WeatherUsed:   used,
	})
}

// BypassRequest is the request body for POST /bypass-score.
type BypassRequest struct {
	Crop     string            `json:"crop"`
	State    string            `json:"state"`
	Quantity *float64          `json:"quantity_quintals,omitempty"`
	Price    float64           `json:"predicted_price"`
	Trend    domain.PriceTrend `json:"price_trend,omitempty"`
}

// BypassScore handles POST /bypass-score.
func (h *Handler) BypassScore(w http.ResponseWriter, r *http.Request) {
	var req BypassRequest
	if !decode(w, r, &req) {
		return
	}
	if !requireFields(w, map[string]string{"crop": req.Crop, "state": req.State}) {
		return
	}
	if req.Price < 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("predicted_price cannot be negative"))
		return
	}
	quantity := 10.0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	if quantity < 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("quantity_quintals cannot be negative"))
		return
	}
	if req.Trend == "" {
		req.Trend = domain.TrendStable
	}

	writeJSON(w, http.StatusOK, h.svc.Bypass.Score(domain.BypassInput{
		Crop:     req.Crop,
		Region:   req.State,
		Quantity: quantity,
		Price:    req.Price,
		Trend:    req.Trend,
	}))
}

// ArrivalPredictionRequest is the request body for POST /arrival-prediction.
type ArrivalPredictionRequest struct {
	Crop  string `json:"crop"`
	State string `json:"state"`
	Date  string `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
}

// ArrivalPrediction handles POST /arrival-prediction.
func (h *Handler) ArrivalPrediction(w http.ResponseWriter, r *http.Request) {
	var req ArrivalPredictionRequest
	if !decode(w, r, &req) {
		return
	}
	if !requireFields(w, map[string]string{"crop": req.Crop, "state": req.State}) {
		return
	}
	target := time.Now()
	if req.Date != "" {
		t, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("date must be YYYY-MM-DD"))
			return
		}
		target = t
	}

	fc, err := h.svc.Surge.Forecast(r.Context(), req.Crop, req.State, target)
	if err != nil {
		h.writeError(w, r, "arrival prediction", err)
		return
	}
	writeJSON(w, http.StatusOK, fc)
}

// PriceTrend handles GET /price-trend?commodity=&state=.
func (h *Handler) PriceTrend(w http.ResponseWriter, r *http.Request) {
	commodity, state := r.URL.Query().Get("commodity"), r.URL.Query().Get("state")
	if !requireFields(w, map[string]string{"commodity": commodity, "state": state}) {
		return
	}
	report, err := h.svc.Market.Trend(r.Context(), commodity, state)
	if err != nil {
		h.writeError(w, r, "price trend", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// BestMarkets handles GET /best-markets?commodity=&state=.
func (h *Handler) BestMarkets(w http.ResponseWriter, r *http.Request) {
	commodity, state := r.URL.Query().Get("commodity"), r.URL.Query().Get("state")
	if !requireFields(w, map[string]string{"commodity": commodity, "state": state}) {
		return
	}
	ranking, err := h.svc.Market.BestMarkets(r.Context(), commodity, state)
	if err != nil {
		h.writeError(w, r, "best markets", err)
		return
	}
	writeJSON(w, http.StatusOK, ranking)
}

// Micronutrients handles GET /micronutrients/{district}.
func (h *Handler) Micronutrients(w http.ResponseWriter, r *http.Request) {
	district := chi.URLParam(r, "district")
	if strings.TrimSpace(district) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("district required"))
		return
	}
	writeJSON(w, http.StatusOK, agronomy.Micronutrients(district))
}

// ExplainRequest is the request body for POST /explain.
type ExplainRequest struct {
	Recommendation string          `json:"recommendation"`
	Signals        explain.Signals `json:"signals"`
	Alternative    string          `json:"alternative,omitempty"`
	Risks          []string        `json:"risks,omitempty"`
}

// Explain handles POST /explain. A payload that fails validation is
// reported with its problems and never returned.
func (h *Handler) Explain(w http.ResponseWriter, r *http.Request) {
	var req ExplainRequest
	if !decode(w, r, &req) {
		return
	}
	payload, err := explain.FromContext(req.Recommendation, req.Signals, req.Alternative, req.Risks...)
	if err != nil {
		var verr *explain.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":    "explanation failed validation",
				"problems": verr.Problems,
			})
			return
		}
		h.writeError(w, r, "explain", err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}
