package routing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agrichain/agrichain/internal/domain"
)

func newOlaMaps(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "test-key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/places/v1/geocode":
			if r.URL.Query().Get("address") == "Nowhere" {
				_, _ = w.Write([]byte(`{"geocodingResults":[]}`))
				return
			}
			_, _ = w.Write([]byte(`{"geocodingResults":[{"geometry":{"location":{"lat":19.076,"lng":72.8777}}}]}`))
		case "/routing/v1/directions":
			if r.Method != http.MethodPost {
				http.Error(w, "method", http.StatusMethodNotAllowed)
				return
			}
			if r.URL.Query().Get("destination") != "19.0760,72.8777" {
				_, _ = w.Write([]byte(`{"routes":[]}`))
				return
			}
			_, _ = w.Write([]byte(`{"routes":[{"legs":[{"duration":11700,"distance":148620}]}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestClientTransit(t *testing.T) {
	srv := newOlaMaps(t)
	defer srv.Close()
	c := NewClient(Config{BaseURL: srv.URL, APIKey: "test-key"}, nil)
	ctx := context.Background()

	t.Run("GeocodedDestination", func(t *testing.T) {
		est, err := c.Transit(ctx, "18.5204,73.8567", "Mumbai")
		if err != nil {
			t.Fatalf("Transit failed: %v", err)
		}
		if est.Hours != 3.3 {
			t.Errorf("expected 3.3 hours, got %v", est.Hours)
		}
		if est.DistanceKm != 148.6 {
			t.Errorf("expected 148.6 km, got %v", est.DistanceKm)
		}
	})

	t.Run("NoRoute", func(t *testing.T) {
		_, err := c.Transit(ctx, "18.5204,73.8567", "10.0,10.0")
		if !errors.Is(err, ErrNoRoute) {
			t.Errorf("expected ErrNoRoute, got %v", err)
		}
	})

	t.Run("UnknownPlace", func(t *testing.T) {
		if _, err := c.Transit(ctx, "Nowhere", "Mumbai"); err == nil {
			t.Error("expected geocoding error")
		}
	})

	t.Run("BadKey", func(t *testing.T) {
		bad := NewClient(Config{BaseURL: srv.URL, APIKey: "wrong"}, nil)
		_, err := bad.Transit(ctx, "18.5,73.8", "19.0760,72.8777")
		if err == nil || !strings.Contains(err.Error(), "401") {
			t.Errorf("expected 401 error, got %v", err)
		}
	})

	t.Run("NotConfigured", func(t *testing.T) {
		_, err := NewClient(Config{}, nil).Transit(ctx, "a", "b")
		if !errors.Is(err, ErrNotConfigured) {
			t.Errorf("expected ErrNotConfigured, got %v", err)
		}
	})
}

type stubRoutes struct {
	est *domain.TransitEstimate
	err error
}

func (s stubRoutes) Transit(context.Context, string, string) (*domain.TransitEstimate, error) {
	return s.est, s.err
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	supplied := 4.5

	tests := []struct {
		name      string
		p         domain.RouteProvider
		supplied  *float64
		wantHours float64
		wantProv  domain.Provenance
	}{
		{"caller supplied", stubRoutes{est: &domain.TransitEstimate{Hours: 9}}, &supplied, 4.5, domain.ProvenanceDefault},
		{"nil provider", nil, nil, 6, domain.ProvenanceDefault},
		{"not configured", stubRoutes{err: ErrNotConfigured}, nil, 6, domain.ProvenanceDefault},
		{"failure", stubRoutes{err: errors.New("timeout")}, nil, 6, domain.ProvenanceFallback},
		{"live", stubRoutes{est: &domain.TransitEstimate{Hours: 3.3, DistanceKm: 148.6}}, nil, 3.3, domain.ProvenanceLive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(ctx, tt.p, "Pune", "Mumbai", tt.supplied, 0, nil)
			if got.Value.Hours != tt.wantHours {
				t.Errorf("expected %v hours, got %v", tt.wantHours, got.Value.Hours)
			}
			if got.Provenance != tt.wantProv {
				t.Errorf("expected %s, got %s", tt.wantProv, got.Provenance)
			}
		})
	}
}

func TestIsCoordinate(t *testing.T) {
	tests := map[string]bool{
		"18.5204,73.8567":   true,
		" 18.5 , 73.8 ":     true,
		"Pune":              false,
		"Pune, Maharashtra": false,
		"":                  false,
	}
	for in, want := range tests {
		if got := isCoordinate(in); got != want {
			t.Errorf("%q: expected %v, got %v", in, want, got)
		}
	}
}
