package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/agrichain/agrichain/internal/bus"
	"github.com/agrichain/agrichain/internal/domain"
	"github.com/agrichain/agrichain/internal/explain"
	"github.com/agrichain/agrichain/internal/repository"
	"github.com/agrichain/agrichain/internal/rules"
	"github.com/agrichain/agrichain/internal/worker"
)

type testEnv struct {
	server *Server
	repo   domain.Repository
	bus    *bus.ChannelBus
	engine *rules.Engine
}

// createTestServer creates a server backed by a temporary sqlite
// repository, a channel bus and an empty advisory engine.
func createTestServer(t *testing.T) *testEnv {
	t.Helper()

	repo, err := repository.New(domain.RepositoryConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "api.db"),
	})
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	eventBus := bus.NewChannelBus(100)
	t.Cleanup(func() { eventBus.Close() })

	engine, err := rules.NewEngine(5)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	t.Cleanup(func() { engine.Close() })

	cfg := domain.ServerConfig{
		Host:         "localhost",
		Port:         8080,
		ReadTimeout:  30,
		WriteTimeout: 30,
	}
	server := NewServer(cfg, Services{
		Repo:    repo,
		Bus:     eventBus,
		Rules:   engine,
		Version: "test-v1",
	})
	return &testEnv{server: server, repo: repo, bus: eventBus, engine: engine}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
}

func ptr[T any](v T) *T { return &v }

func TestHealthEndpoint(t *testing.T) {
	env := createTestServer(t)

	t.Run("HealthCheck", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/health", nil)
		if rr.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rr.Code)
		}

		var resp struct {
			Status  string            `json:"status"`
			Version string            `json:"version"`
			Checks  map[string]string `json:"checks"`
		}
		decodeBody(t, rr, &resp)

		if resp.Status != "healthy" {
			t.Errorf("expected status 'healthy', got '%s'", resp.Status)
		}
		if resp.Version != "test-v1" {
			t.Errorf("expected version 'test-v1', got '%s'", resp.Version)
		}
		if resp.Checks["repository"] != "ok" || resp.Checks["eventBus"] != "ok" {
			t.Errorf("expected repository and bus checks ok, got %v", resp.Checks)
		}
	})

	t.Run("ReadyCheck", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/ready", nil)
		if rr.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", rr.Code)
		}
	})
}

func TestReferenceEndpoints(t *testing.T) {
	env := createTestServer(t)

	t.Run("Crops", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/crops", nil)
		var resp struct {
			Crops []domain.CropProfile `json:"crops"`
			Count int                  `json:"count"`
		}
		decodeBody(t, rr, &resp)
		if resp.Count == 0 || resp.Count != len(resp.Crops) {
			t.Errorf("expected a non-empty crop list, got %d/%d", resp.Count, len(resp.Crops))
		}
		for _, c := range resp.Crops {
			if c.Name == domain.DefaultCropName {
				t.Error("expected the default profile to be hidden")
			}
		}
	})

	t.Run("StorageTypes", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/storage-types", nil)
		var resp struct {
			StorageTypes []domain.StorageInfo `json:"storage_types"`
		}
		decodeBody(t, rr, &resp)
		if len(resp.StorageTypes) != 4 {
			t.Fatalf("expected 4 storage types, got %d", len(resp.StorageTypes))
		}
		if resp.StorageTypes[0].Value != domain.StorageOpenAir {
			t.Errorf("expected open_air first, got %s", resp.StorageTypes[0].Value)
		}
	})

	t.Run("UnknownDistrict", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/micronutrients/atlantis", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		var report domain.MicronutrientReport
		decodeBody(t, rr, &report)
		if report.Available || len(report.Warnings) != 0 {
			t.Errorf("expected unavailable report, got %+v", report)
		}
	})
}

func TestSpoilageEndpoint(t *testing.T) {
	env := createTestServer(t)

	t.Run("CallerSuppliedWeather", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/spoilage", SpoilageRequest{
			Crop:         "Tomato",
			District:     "Pune",
			State:        "Maharashtra",
			Storage:      domain.StorageOpenAir,
			TransitHours: ptr(24.0),
			Temperature:  ptr(35.0),
			Humidity:     ptr(90.0),
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}
		var resp SpoilageResponse
		decodeBody(t, rr, &resp)

		if resp.WeatherUsed.Provenance != domain.ProvenanceDefault || resp.WeatherUsed.SpoilageFactor != 1 {
			t.Errorf("expected caller weather with factor 1, got %+v", resp.WeatherUsed)
		}
		if resp.Spoilage.RiskTier != domain.TierHigh {
			t.Errorf("expected High tier, got %s (score %d)", resp.Spoilage.RiskTier, resp.Spoilage.RiskScore)
		}
		if resp.Spoilage.DaysSafe < 1 {
			t.Errorf("expected at least 1 day safe, got %d", resp.Spoilage.DaysSafe)
		}
	})

	t.Run("FetchesWeatherWhenMissing", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/spoilage", SpoilageRequest{
			Crop:        "Onion",
			District:    "Nashik",
			State:       "Maharashtra",
			Temperature: ptr(30.0),
		})
		var resp SpoilageResponse
		decodeBody(t, rr, &resp)

		if resp.WeatherUsed.Temperature != 30 {
			t.Errorf("expected supplied temperature 30, got %v", resp.WeatherUsed.Temperature)
		}
		if resp.WeatherUsed.Humidity != 65 {
			t.Errorf("expected neutral humidity 65, got %v", resp.WeatherUsed.Humidity)
		}
		if resp.Spoilage.Storage != domain.StorageBasicShed {
			t.Errorf("expected basic_shed default, got %s", resp.Spoilage.Storage)
		}
	})

	t.Run("Validation", func(t *testing.T) {
		tests := []struct {
			name string
			body any
		}{
			{"malformed", "{"},
			{"missing crop", SpoilageRequest{State: "Goa"}},
			{"negative transit", SpoilageRequest{Crop: "Tomato", State: "Goa", TransitHours: ptr(-1.0)}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if rr := env.do(t, http.MethodPost, "/spoilage", tt.body); rr.Code != http.StatusBadRequest {
					t.Errorf("expected status 400, got %d", rr.Code)
				}
			})
		}
	})
}

func TestBypassEndpoint(t *testing.T) {
	env := createTestServer(t)

	rr := env.do(t, http.MethodPost, "/bypass-score", BypassRequest{
		Crop:     "Onion",
		State:    "Maharashtra",
		Quantity: ptr(20.0),
		Price:    1500,
		Trend:    domain.TrendRising,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp domain.BypassAssessment
	decodeBody(t, rr, &resp)

	if resp.Score != 9 {
		t.Errorf("expected score 9, got %d", resp.Score)
	}
	if resp.CommissionSaved != 2400 {
		t.Errorf("expected ₹2400 saved, got %v", resp.CommissionSaved)
	}

	if rr := env.do(t, http.MethodPost, "/bypass-score", BypassRequest{Crop: "Onion", State: "Goa", Price: -1}); rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for negative price, got %d", rr.Code)
	}
}

func arrivalRows() []domain.ArrivalRecord {
	var rows []domain.ArrivalRecord
	for m := 0; m < 6; m++ {
		for d := 0; d < 2; d++ {
			rows = append(rows, domain.ArrivalRecord{
				Commodity:   "Onion",
				State:       "Maharashtra",
				Market:      "Lasalgaon",
				ArrivalDate: time.Date(2024, time.Month(m+1), 5+d*10, 0, 0, 0, 0, time.UTC),
				ModalPrice:  1000 + float64(m)*100,
			})
		}
	}
	return rows
}

func TestArrivalsAndMarketEndpoints(t *testing.T) {
	env := createTestServer(t)

	// Warm the cache with the empty state first.
	rr := env.do(t, http.MethodGet, "/price-trend?commodity=onion&state=maharashtra", nil)
	var before domain.TrendReport
	decodeBody(t, rr, &before)
	if before.Trend != domain.TrendUnknown {
		t.Fatalf("expected unknown trend without data, got %s", before.Trend)
	}

	rr = env.do(t, http.MethodPost, "/arrivals", ArrivalsRequest{Records: arrivalRows()})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var saved map[string]int
	decodeBody(t, rr, &saved)
	if saved["inserted"] != 12 {
		t.Errorf("expected 12 inserted, got %d", saved["inserted"])
	}

	t.Run("TrendAfterInvalidation", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/price-trend?commodity=onion&state=maharashtra", nil)
		var report domain.TrendReport
		decodeBody(t, rr, &report)
		if report.Trend != domain.TrendRising {
			t.Errorf("expected rising trend, got %s", report.Trend)
		}
	})

	t.Run("BestMarkets", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/best-markets?commodity=onion&state=maharashtra", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		var ranking domain.MarketRanking
		decodeBody(t, rr, &ranking)
		if len(ranking.Markets) != 1 || ranking.Markets[0].Market != "Lasalgaon" {
			t.Errorf("expected Lasalgaon ranked, got %+v", ranking.Markets)
		}
	})

	t.Run("MissingQuery", func(t *testing.T) {
		if rr := env.do(t, http.MethodGet, "/price-trend?commodity=onion", nil); rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rr.Code)
		}
	})

	t.Run("ArrivalPredictionNoData", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/arrival-prediction", ArrivalPredictionRequest{Crop: "Onion", State: "Maharashtra", Date: "2024-10-01"})
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		var fc domain.SurgeForecast
		decodeBody(t, rr, &fc)
		if fc.HasPrediction || fc.Advice != domain.AdviceNoData {
			t.Errorf("expected NoData below 50 rows, got %+v", fc)
		}
	})

	t.Run("BadDate", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/arrival-prediction", ArrivalPredictionRequest{Crop: "Onion", State: "Maharashtra", Date: "01/10/2024"})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rr.Code)
		}
	})

	t.Run("InvalidRecords", func(t *testing.T) {
		if rr := env.do(t, http.MethodPost, "/arrivals", ArrivalsRequest{}); rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400 for empty records, got %d", rr.Code)
		}
		bad := []domain.ArrivalRecord{{Commodity: "Onion", State: "Maharashtra"}}
		if rr := env.do(t, http.MethodPost, "/arrivals", ArrivalsRequest{Records: bad}); rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400 for invalid record, got %d", rr.Code)
		}
	})
}

func TestExplainEndpoint(t *testing.T) {
	env := createTestServer(t)

	t.Run("Valid", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/explain", ExplainRequest{
			Recommendation: "Sell within two days at Lasalgaon.",
			Signals:        explain.Signals{Weather: "Hot and humid", SpoilageRisk: domain.TierHigh},
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}
		var payload domain.ExplainablePayload
		decodeBody(t, rr, &payload)
		if len(payload.Evidence) == 0 {
			t.Error("expected evidence")
		}
	})

	t.Run("EmptyRecommendation", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/explain", ExplainRequest{Recommendation: "  "})
		if rr.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected status 422, got %d", rr.Code)
		}
		var resp struct {
			Problems []string `json:"problems"`
		}
		decodeBody(t, rr, &resp)
		if len(resp.Problems) == 0 {
			t.Error("expected validation problems")
		}
	})
}

func TestInsightEndpoints(t *testing.T) {
	env := createTestServer(t)

	var id string
	t.Run("Compose", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/insights", domain.InsightRequest{
			Crop:     "Tomato",
			State:    "Karnataka",
			District: "Kolar",
			Quantity: 10,
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}
		var insight domain.Insight
		decodeBody(t, rr, &insight)
		if insight.ID == "" {
			t.Fatal("expected insight ID")
		}
		if insight.Explanation.Recommendation == "" {
			t.Error("expected a recommendation")
		}
		if insight.Weather.Provenance != domain.ProvenanceDefault {
			t.Errorf("expected default weather provenance, got %s", insight.Weather.Provenance)
		}
		id = insight.ID
	})

	t.Run("GetStored", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/insights/"+id, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		if rr := env.do(t, http.MethodGet, "/insights/missing", nil); rr.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", rr.Code)
		}
	})

	t.Run("InvalidRequest", func(t *testing.T) {
		if rr := env.do(t, http.MethodPost, "/insights", domain.InsightRequest{State: "Goa"}); rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rr.Code)
		}
		if rr := env.do(t, http.MethodPost, "/insights", domain.InsightRequest{Crop: "Tomato", State: "Goa", HarvestDate: "soon"}); rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400 for bad harvest date, got %d", rr.Code)
		}
	})

	t.Run("Async", func(t *testing.T) {
		jobs := make(chan worker.Job, 1)
		_, err := env.bus.Subscribe(context.Background(), domain.TopicInsightRequested, func(_ context.Context, msg *domain.Message) error {
			var job worker.Job
			if err := json.Unmarshal(msg.Payload, &job); err != nil {
				return err
			}
			jobs <- job
			return nil
		})
		if err != nil {
			t.Fatalf("subscribe failed: %v", err)
		}

		rr := env.do(t, http.MethodPost, "/insights/async", domain.InsightRequest{Crop: "Onion", State: "Maharashtra"})
		if rr.Code != http.StatusAccepted {
			t.Fatalf("expected status 202, got %d", rr.Code)
		}
		var accepted AcceptedResponse
		decodeBody(t, rr, &accepted)

		select {
		case job := <-jobs:
			if job.ID != accepted.ID {
				t.Errorf("expected job %s, got %s", accepted.ID, job.ID)
			}
			if job.Request.Storage != domain.StorageBasicShed {
				t.Errorf("expected defaults applied before publish, got %s", job.Request.Storage)
			}
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for job")
		}

		if rr := env.do(t, http.MethodPost, "/insights/async", domain.InsightRequest{Crop: "Onion"}); rr.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rr.Code)
		}
	})
}

func TestAdvisoryRuleEndpoints(t *testing.T) {
	env := createTestServer(t)

	var id string
	t.Run("Create", func(t *testing.T) {
		rr := env.do(t, http.MethodPost, "/advisory-rules", CreateAdvisoryRuleRequest{
			Name:       "Short shelf life",
			Expression: "days_safe <= 2",
			Message:    "Sell within two days.",
			Severity:   domain.TierHigh,
		})
		if rr.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
		}
		var resp struct {
			Rule domain.AdvisoryRule `json:"rule"`
		}
		decodeBody(t, rr, &resp)
		if resp.Rule.ID == "" || !resp.Rule.Enabled {
			t.Errorf("expected generated ID and enabled rule, got %+v", resp.Rule)
		}
		id = resp.Rule.ID
	})

	t.Run("CreateInvalid", func(t *testing.T) {
		tests := []struct {
			name string
			req  CreateAdvisoryRuleRequest
		}{
			{"missing message", CreateAdvisoryRuleRequest{Name: "x", Expression: "true"}},
			{"bad expression", CreateAdvisoryRuleRequest{Name: "x", Expression: "amount > 1", Message: "m"}},
			{"bad severity", CreateAdvisoryRuleRequest{Name: "x", Expression: "true", Message: "m", Severity: "Critical"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if rr := env.do(t, http.MethodPost, "/advisory-rules", tt.req); rr.Code != http.StatusBadRequest {
					t.Errorf("expected status 400, got %d", rr.Code)
				}
			})
		}
	})

	t.Run("ListAndReload", func(t *testing.T) {
		rr := env.do(t, http.MethodGet, "/advisory-rules", nil)
		var list struct {
			Count  int `json:"count"`
			Loaded int `json:"loaded"`
		}
		decodeBody(t, rr, &list)
		if list.Count != 1 || list.Loaded != 0 {
			t.Errorf("expected 1 stored and 0 loaded, got %d/%d", list.Count, list.Loaded)
		}

		rr = env.do(t, http.MethodPost, "/advisory-rules/reload", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		if env.engine.RulesCount() != 1 {
			t.Errorf("expected 1 loaded rule, got %d", env.engine.RulesCount())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if rr := env.do(t, http.MethodDelete, "/advisory-rules/"+id, nil); rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		if rr := env.do(t, http.MethodDelete, "/advisory-rules/"+id, nil); rr.Code != http.StatusNotFound {
			t.Errorf("expected status 404 on second delete, got %d", rr.Code)
		}
		env.do(t, http.MethodPost, "/advisory-rules/reload", nil)
		if env.engine.RulesCount() != 0 {
			t.Errorf("expected no loaded rules after delete, got %d", env.engine.RulesCount())
		}
	})
}

func TestUnavailableCollaborators(t *testing.T) {
	server := NewServer(domain.ServerConfig{}, Services{Version: "bare"})

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/insights/abc"},
		{http.MethodPost, "/insights/async"},
		{http.MethodPost, "/advisory-rules/reload"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString("{}"))
		rr := httptest.NewRecorder()
		server.Router().ServeHTTP(rr, req)
		if rr.Code != http.StatusServiceUnavailable {
			t.Errorf("%s %s: expected status 503, got %d", tc.method, tc.path, rr.Code)
		}
	}
}

func TestMiddleware(t *testing.T) {
	t.Run("TracingMiddlewareSetsRequestID", func(t *testing.T) {
		var capturedRequestID, capturedTraceID string

		handler := TracingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			capturedRequestID = GetRequestID(r.Context())
			capturedTraceID = GetTraceID(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if capturedRequestID == "" || capturedTraceID == "" {
			t.Error("expected request and trace IDs to be set")
		}
		if rr.Header().Get(RequestIDHeader) != capturedRequestID {
			t.Error("expected X-Request-ID response header")
		}
	})

	t.Run("TracingMiddlewareKeepsRequestID", func(t *testing.T) {
		handler := TracingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Header().Get(RequestIDHeader) != "req-123" {
			t.Errorf("expected request ID 'req-123', got '%s'", rr.Header().Get(RequestIDHeader))
		}
	})

	t.Run("RecoverMiddlewareHandlesPanic", func(t *testing.T) {
		handler := RecoverMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("test panic")
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusInternalServerError {
			t.Errorf("expected status 500, got %d", rr.Code)
		}
	})

	t.Run("CORSPreflight", func(t *testing.T) {
		handler := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("preflight should not reach the handler")
		}))

		req := httptest.NewRequest(http.MethodOptions, "/insights", nil)
		req.Header.Set("Origin", "https://farm.example")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusNoContent {
			t.Errorf("expected status 204, got %d", rr.Code)
		}
		if rr.Header().Get("Access-Control-Allow-Origin") != "https://farm.example" {
			t.Errorf("expected origin echoed, got '%s'", rr.Header().Get("Access-Control-Allow-Origin"))
		}
	})
}
