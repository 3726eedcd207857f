//go:build integration
// +build integration

// Package integration provides end-to-end tests against a running agrichain
// server.
//
// These tests exercise the full pipeline:
//
//	Request → Gather (weather, price, route) → Score → Explain → Validate
//
// Run with: go test -tags=integration -v ./tests/integration/...
//
// The server should run with no provider keys so every external value
// resolves to its documented fallback and the assertions stay stable:
//
//	AGRICHAIN_SQLITE_PATH=/tmp/agrichain-it.db agrichain serve
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

// TestConfig holds test environment configuration
type TestConfig struct {
	BaseURL string
}

func getTestConfig() TestConfig {
	baseURL := os.Getenv("AGRICHAIN_TEST_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return TestConfig{BaseURL: baseURL}
}

// InsightRequest is the body sent to POST /insights
type InsightRequest struct {
	Crop         string   `json:"crop"`
	State        string   `json:"state"`
	District     string   `json:"district"`
	Market       string   `json:"market"`
	Quantity     float64  `json:"quantity_quintals"`
	Storage      string   `json:"storage_type,omitempty"`
	TransitHours *float64 `json:"transit_hours,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	Humidity     *float64 `json:"humidity,omitempty"`
	Price        *float64 `json:"predicted_price,omitempty"`
}

// InsightResponse is the subset of an insight these tests check.
type InsightResponse struct {
	ID          string `json:"id"`
	Explanation struct {
		Recommendation  string   `json:"recommendation"`
		TopReasons      []string `json:"top_reasons"`
		Confidence      string   `json:"confidence"`
		ConfidenceScore float64  `json:"confidence_score"`
		Risks           []string `json:"risks"`
	} `json:"explanation"`
	Spoilage struct {
		RiskScore int    `json:"risk_score"`
		RiskTier  string `json:"risk_tier"`
	} `json:"spoilage"`
	Bypass struct {
		Score           int     `json:"score"`
		CommissionSaved float64 `json:"commission_saved"`
	} `json:"bypass"`
	Weather struct {
		Provenance string `json:"provenance"`
	} `json:"weather"`
	Metadata struct {
		TraceID string `json:"trace_id"`
	} `json:"metadata"`
}

func ptr(v float64) *float64 { return &v }

func call(t *testing.T, config TestConfig, method, path string, body any, wantStatus int, out any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequest(method, config.BaseURL+path, reader)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("Expected status %d, got %d: %s", wantStatus, resp.StatusCode, string(respBody))
	}
	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			t.Fatalf("Failed to unmarshal response: %v (body: %s)", err, string(respBody))
		}
	}
}

func TestHealth(t *testing.T) {
	config := getTestConfig()

	var health struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	call(t, config, http.MethodGet, "/health", nil, http.StatusOK, &health)

	if health.Status != "healthy" {
		t.Errorf("Expected healthy, got %s (checks %v)", health.Status, health.Checks)
	}
}

// SCENARIO 1: tomatoes left in the open in a hot, humid spell
func TestInsight_HighSpoilageRisk(t *testing.T) {
	config := getTestConfig()

	req := InsightRequest{
		Crop:         "tomato",
		State:        "maharashtra",
		District:     "nashik",
		Market:       "Lasalgaon",
		Quantity:     20,
		Storage:      "open_air",
		TransitHours: ptr(24),
		Temperature:  ptr(35),
		Humidity:     ptr(90),
		Price:        ptr(1800),
	}

	var result InsightResponse
	call(t, config, http.MethodPost, "/insights", req, http.StatusOK, &result)

	if result.ID == "" {
		t.Error("Expected insight ID")
	}
	if result.Spoilage.RiskTier != "High" {
		t.Errorf("Expected High spoilage tier, got %s (score %d)", result.Spoilage.RiskTier, result.Spoilage.RiskScore)
	}
	if result.Explanation.Recommendation == "" {
		t.Error("Expected a recommendation")
	}
	n := len(result.Explanation.TopReasons)
	if n < 1 || n > 3 {
		t.Errorf("Expected 1-3 top reasons, got %d", n)
	}
	if len(result.Explanation.Risks) == 0 {
		t.Error("Expected at least one risk for a High spoilage tier")
	}
	if result.Explanation.ConfidenceScore < 0 || result.Explanation.ConfidenceScore > 1 {
		t.Errorf("Confidence score out of range: %v", result.Explanation.ConfidenceScore)
	}

	// The stored copy must match what was returned.
	var stored InsightResponse
	call(t, config, http.MethodGet, "/insights/"+result.ID, nil, http.StatusOK, &stored)
	if stored.Explanation.Recommendation != result.Explanation.Recommendation {
		t.Errorf("Stored recommendation differs: %q vs %q", stored.Explanation.Recommendation, result.Explanation.Recommendation)
	}
}

// SCENARIO 2: no weather supplied and no provider key configured
func TestInsight_WeatherFallback(t *testing.T) {
	config := getTestConfig()

	req := InsightRequest{
		Crop:     "onion",
		State:    "maharashtra",
		District: "nashik",
		Market:   "Lasalgaon",
		Quantity: 10,
	}

	var result InsightResponse
	call(t, config, http.MethodPost, "/insights", req, http.StatusOK, &result)

	if result.Weather.Provenance == "live" {
		t.Skip("server has a weather key configured")
	}
	if result.Weather.Provenance != "fallback" && result.Weather.Provenance != "default" {
		t.Errorf("Expected fallback weather provenance, got %q", result.Weather.Provenance)
	}
}

// SCENARIO 3: missing fields are rejected before any scoring
func TestInsight_InvalidRequest(t *testing.T) {
	config := getTestConfig()

	var body map[string]string
	call(t, config, http.MethodPost, "/insights", InsightRequest{Crop: "onion"}, http.StatusBadRequest, &body)

	if !strings.Contains(body["error"], "state") {
		t.Errorf("Expected error to mention state, got %q", body["error"])
	}
}

// SCENARIO 4: async composition is polled until the worker stores it
func TestInsight_Async(t *testing.T) {
	config := getTestConfig()

	req := InsightRequest{
		Crop:     "potato",
		State:    "uttar pradesh",
		District: "agra",
		Market:   "Agra",
		Quantity: 50,
		Storage:  "cold_storage",
	}

	var accepted struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Poll   string `json:"poll"`
	}
	call(t, config, http.MethodPost, "/insights/async", req, http.StatusAccepted, &accepted)
	if accepted.Status != "accepted" || accepted.Poll == "" {
		t.Fatalf("Unexpected async response: %+v", accepted)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := client.Get(config.BaseURL + accepted.Poll)
		if err != nil {
			t.Fatalf("Poll failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("Insight %s was not stored within 30s", accepted.ID)
}

// SCENARIO 5: advisory rules are created, reloaded and fire on the next insight
func TestAdvisoryRuleLifecycle(t *testing.T) {
	config := getTestConfig()
	ruleID := fmt.Sprintf("it-humid-%d", time.Now().UnixNano())

	rule := map[string]any{
		"id":         ruleID,
		"name":       "Humid storage",
		"expression": "humidity > 80.0 ? 1.0 : 0.0",
		"message":    "Ventilate the store",
		"severity":   "High",
	}
	call(t, config, http.MethodPost, "/advisory-rules", rule, http.StatusCreated, nil)
	defer call(t, config, http.MethodDelete, "/advisory-rules/"+ruleID, nil, http.StatusOK, nil)

	call(t, config, http.MethodPost, "/advisory-rules/reload", nil, http.StatusOK, nil)

	req := InsightRequest{
		Crop:        "banana",
		State:       "kerala",
		District:    "thrissur",
		Market:      "Thrissur",
		Quantity:    5,
		Temperature: ptr(30),
		Humidity:    ptr(92),
	}
	var result struct {
		Advisories []struct {
			RuleID string `json:"rule_id"`
		} `json:"advisories"`
	}
	call(t, config, http.MethodPost, "/insights", req, http.StatusOK, &result)

	for _, a := range result.Advisories {
		if a.RuleID == ruleID {
			return
		}
	}
	t.Errorf("Expected advisory %s to fire, got %+v", ruleID, result.Advisories)
}
