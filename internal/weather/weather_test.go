package weather

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/agrichain/agrichain/internal/cache"
	"github.com/agrichain/agrichain/internal/domain"
)

func TestInterpret(t *testing.T) {
	tests := []struct {
		name                  string
		temp, hum, rain, wind float64
		risk                  domain.RiskTier
		factor                float64
		summary               string
	}{
		{
			name: "favorable", temp: 25, hum: 60, rain: 0, wind: 3,
			risk: domain.TierLow, factor: 1.0,
			summary: "Weather conditions are favorable. Good time to harvest and transport.",
		},
		{
			name: "hot and humid", temp: 35, hum: 80, rain: 0, wind: 2,
			risk: domain.TierMedium, factor: 1.2,
			summary: "Weather concern: high temperature, moderate humidity. Harvest risk is medium.",
		},
		{
			name: "storm", temp: 40, hum: 90, rain: 15, wind: 12,
			risk: domain.TierHigh, factor: 1.6,
			summary: "Weather concern: extreme heat, very high humidity, heavy rainfall, strong winds. Harvest risk is high.",
		},
		{
			name: "wind alone does not raise risk", temp: 20, hum: 50, rain: 0, wind: 15,
			risk: domain.TierLow, factor: 1.0,
			summary: "Weather concern: strong winds. Harvest risk is low.",
		},
		{
			name: "boundaries are strict", temp: 32, hum: 70, rain: 2, wind: 10,
			risk: domain.TierLow, factor: 1.0,
			summary: "Weather conditions are favorable. Good time to harvest and transport.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Interpret(tt.temp, tt.hum, tt.rain, tt.wind)
			if got.HarvestRisk != tt.risk || got.TransitRisk != tt.risk {
				t.Errorf("expected %s risk, got %s/%s", tt.risk, got.HarvestRisk, got.TransitRisk)
			}
			if got.SpoilageFactor != tt.factor {
				t.Errorf("expected factor %v, got %v", tt.factor, got.SpoilageFactor)
			}
			if got.Summary != tt.summary {
				t.Errorf("expected summary %q, got %q", tt.summary, got.Summary)
			}
		})
	}
}

func TestMock(t *testing.T) {
	m := Mock("pune", "maharashtra")
	if m.Temperature != 28.5 || m.Humidity != 65 || m.SpoilageFactor != 1.0 {
		t.Errorf("unexpected mock reading: %+v", m)
	}
	if m.City != "Pune" || m.Source != SourceMock {
		t.Errorf("unexpected mock identity: %s %s", m.City, m.Source)
	}
}

func TestStateCentre(t *testing.T) {
	c, ok := StateCentre("tamil nadu")
	if !ok || c.Lat != 11.1271 {
		t.Errorf("expected Tamil Nadu centre, got %+v %v", c, ok)
	}
	c, ok = StateCentre("Atlantis")
	if ok || c != IndiaCentre {
		t.Errorf("expected India centre fallback, got %+v %v", c, ok)
	}
}

func newOpenWeather(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if r.URL.Query().Get("appid") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/geo/1.0/direct":
			json.NewEncoder(w).Encode([]map[string]float64{{"lat": 18.52, "lon": 73.85}})
		case "/data/2.5/weather":
			if r.URL.Query().Get("lat") != "18.5200" {
				t.Errorf("expected geocoded latitude, got %s", r.URL.Query().Get("lat"))
			}
			w.Write([]byte(`{"main":{"temp":35.26,"humidity":80},"wind":{"speed":4.04},"weather":[{"description":"haze"}],"rain":{"1h":3}}`))
		case "/data/2.5/forecast":
			w.Write([]byte(`{"list":[
				{"dt_txt":"2024-10-15 09:00:00","main":{"temp":40,"humidity":90},"wind":{"speed":2},"rain":{"3h":12}},
				{"dt_txt":"2024-10-15 12:00:00","main":{"temp":40,"humidity":90},"wind":{"speed":2}},
				{"dt_txt":"2024-10-16 09:00:00","main":{"temp":26,"humidity":60},"wind":{"speed":2}},
				{"dt_txt":"2024-10-17 09:00:00","main":{"temp":25,"humidity":55},"wind":{"speed":2}}
			]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestClientCurrent(t *testing.T) {
	var calls int32
	srv := newOpenWeather(t, &calls)
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"}, cache.NewLRUCache(10), nil)
	ctx := context.Background()

	got, err := client.Current(ctx, "Pune", "Maharashtra")
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if got.Temperature != 35.3 || got.Rainfall != 3 || got.Description != "haze" {
		t.Errorf("unexpected reading: %+v", got)
	}
	if got.HarvestRisk != domain.TierMedium || got.Source != SourceLive {
		t.Errorf("expected live Medium reading, got %s/%s", got.HarvestRisk, got.Source)
	}

	if _, err := client.Current(ctx, "pune", "maharashtra"); err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("expected second read to be cached (2 calls), got %d", n)
	}
}

func TestClientOutlook(t *testing.T) {
	var calls int32
	srv := newOpenWeather(t, &calls)
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"}, nil, nil)
	got, err := client.Outlook(context.Background(), "Pune", "Maharashtra", 5)
	if err != nil {
		t.Fatalf("Outlook failed: %v", err)
	}
	if len(got.Days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(got.Days))
	}
	if got.Days[0].HarvestRisk != domain.TierHigh || got.Days[0].Rainfall != 12 {
		t.Errorf("unexpected first day: %+v", got.Days[0])
	}
	if got.BestDay != "2024-10-16" || got.BestDayRisk != domain.TierLow {
		t.Errorf("expected earliest low-risk day, got %s %s", got.BestDay, got.BestDayRisk)
	}
	if got.Summary != "Best day to harvest/transport: 2024-10-16 (Low risk)" {
		t.Errorf("unexpected summary: %q", got.Summary)
	}
}

func TestClientErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("no key", func(t *testing.T) {
		client := NewClient(Config{}, nil, nil)
		if _, err := client.Current(ctx, "Pune", "Maharashtra"); !errors.Is(err, ErrNotConfigured) {
			t.Errorf("expected ErrNotConfigured, got %v", err)
		}
	})

	t.Run("upstream error", func(t *testing.T) {
		var calls int32
		srv := newOpenWeather(t, &calls)
		defer srv.Close()

		client := NewClient(Config{BaseURL: srv.URL, APIKey: "wrong"}, nil, nil)
		_, err := client.Current(ctx, "Pune", "Maharashtra")
		if err == nil || !strings.Contains(err.Error(), "401") {
			t.Errorf("expected 401 error, got %v", err)
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		var calls int32
		srv := newOpenWeather(t, &calls)
		defer srv.Close()

		client := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key", RateLimit: 3}, cache.NewLRUCache(10), nil)
		if _, err := client.Current(ctx, "Pune", "Maharashtra"); err != nil {
			t.Fatalf("first call failed: %v", err)
		}
		_, err := client.Current(ctx, "Nashik", "Maharashtra")
		if !errors.Is(err, ErrRateLimited) {
			t.Errorf("expected ErrRateLimited, got %v", err)
		}
	})
}

type stubProvider struct {
	reading *domain.WeatherReading
	err     error
}

func (s stubProvider) Current(context.Context, string, string) (*domain.WeatherReading, error) {
	return s.reading, s.err
}

func TestResolveProvenance(t *testing.T) {
	ctx := context.Background()
	live := Reading("Pune", "Maharashtra", 30, 60, 0, 1, "clear", SourceLive)

	tests := []struct {
		name string
		p    domain.WeatherProvider
		want domain.Provenance
	}{
		{"nil provider", nil, domain.ProvenanceDefault},
		{"live", stubProvider{reading: &live}, domain.ProvenanceLive},
		{"not configured", stubProvider{err: ErrNotConfigured}, domain.ProvenanceDefault},
		{"failure", stubProvider{err: errors.New("timeout")}, domain.ProvenanceFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(ctx, tt.p, "Pune", "Maharashtra", nil)
			if got.Provenance != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got.Provenance)
			}
		})
	}

	failed := Resolve(ctx, stubProvider{err: errors.New("timeout")}, "Pune", "Maharashtra", nil)
	if failed.Error != "timeout" || failed.Value.SpoilageFactor != 1.0 {
		t.Errorf("expected neutral fallback with error, got %+v", failed)
	}
}

func TestMockOutlook(t *testing.T) {
	now := time.Date(2024, 10, 15, 8, 0, 0, 0, time.UTC)
	got := MockOutlook("Pune", "Maharashtra", 0, now)
	if len(got.Days) != 5 || got.BestDay != "2024-10-15" || got.Source != SourceMock {
		t.Errorf("unexpected mock outlook: %+v", got)
	}
}
