package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/agrichain/agrichain/internal/bypass"
	"github.com/agrichain/agrichain/internal/composer"
	"github.com/agrichain/agrichain/internal/domain"
	"github.com/agrichain/agrichain/internal/explain"
	"github.com/agrichain/agrichain/internal/market"
	"github.com/agrichain/agrichain/internal/profiles"
	"github.com/agrichain/agrichain/internal/repository"
	"github.com/agrichain/agrichain/internal/rules"
	"github.com/agrichain/agrichain/internal/spoilage"
	"github.com/agrichain/agrichain/internal/surge"
)

// Services are the components the handlers serve. Repo, Cache, Bus,
// Weather and Rules may be nil; the affected endpoints degrade or
// answer 503.
type Services struct {
	Repo  domain.Repository
	Cache domain.Cache
	Bus   domain.EventBus

	Registry *profiles.Registry
	Spoilage *spoilage.Engine
	Bypass   *bypass.Engine
	Surge    *surge.Service
	Market   *market.Service
	Weather  domain.WeatherProvider
	Rules    *rules.Engine
	Composer *composer.Composer

	// DefaultTransitHours applies to spoilage requests without transit hours.
	DefaultTransitHours float64

	Version string
	Logger  *slog.Logger
}

// Handler holds dependencies for API handlers.
type Handler struct {
	svc    Services
	logger *slog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(svc Services) *Handler {
	if svc.Registry == nil {
		svc.Registry = profiles.NewRegistry()
	}
	if svc.Spoilage == nil {
		svc.Spoilage = spoilage.NewEngine(svc.Registry)
	}
	if svc.Bypass == nil {
		svc.Bypass = bypass.NewEngine(domain.DefaultConfig().Scoring)
	}
	if svc.Surge == nil {
		svc.Surge = surge.NewService(svc.arrivals(), svc.Cache, 0, svc.Logger)
	}
	if svc.Market == nil {
		svc.Market = market.NewService(svc.arrivals(), svc.Cache, 0, svc.Logger)
	}
	if svc.Composer == nil {
		svc.Composer = composer.New(composer.Deps{
			Registry: svc.Registry,
			Spoilage: svc.Spoilage,
			Bypass:   svc.Bypass,
			Rules:    svc.Rules,
			Surge:    svc.Surge,
			Market:   svc.Market,
			Weather:  svc.Weather,
			Logger:   svc.Logger,
		})
	}
	if svc.DefaultTransitHours <= 0 {
		svc.DefaultTransitHours = domain.DefaultConfig().Scoring.DefaultTransitHours
	}
	logger := svc.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// arrivals returns the repository, or an empty source when none is configured.
func (s Services) arrivals() surge.ArrivalSource {
	if s.Repo == nil {
		return noArrivals{}
	}
	return s.Repo
}

type noArrivals struct{}

func (noArrivals) ListArrivals(context.Context, string, string) ([]domain.ArrivalRecord, error) {
	return nil, nil
}

// Health returns server health status.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	checks := map[string]string{}

	check := func(name string, ping func() error) {
		if err := ping(); err != nil {
			status = "degraded"
			checks[name] = err.Error()
			return
		}
		checks[name] = "ok"
	}

	if h.svc.Repo != nil {
		check("repository", func() error { return h.svc.Repo.Ping(r.Context()) })
	}
	if h.svc.Cache != nil {
		check("cache", func() error { return h.svc.Cache.Ping(r.Context()) })
	}
	if h.svc.Bus != nil {
		check("eventBus", func() error { return h.svc.Bus.Ping(r.Context()) })
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  status,
		"version": h.svc.Version,
		"checks":  checks,
	})
}

// Ready returns whether the server is ready to accept traffic.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"ready": "true",
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// decode reads a JSON request body into v. It answers 400 and returns
// false when the body is malformed.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON request body"))
		return false
	}
	return true
}

// writeError maps domain errors onto HTTP status codes. Validation
// failures of a composed payload are internal: their details are logged,
// never served.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, repository.ErrInvalidInput), errors.Is(err, composer.ErrInvalidRequest):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, explain.ErrInvalidPayload):
		h.logger.Error("explanation failed validation", "op", op, "trace_id", GetTraceID(r.Context()), "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("could not produce a valid recommendation"))
	default:
		h.logger.Error("request failed", "op", op, "trace_id", GetTraceID(r.Context()), "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody(op+" failed"))
	}
}

func requireFields(w http.ResponseWriter, fields map[string]string) bool {
	var missing []string
	for _, name := range []string{"crop", "commodity", "state", "district"} {
		if v, ok := fields[name]; ok && strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		writeJSON(w, http.StatusBadRequest, errorBody(strings.Join(missing, ", ")+" required"))
		return false
	}
	return true
}
