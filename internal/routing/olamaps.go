// Package routing estimates farm-to-market transit time.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/agrichain/agrichain/internal/domain"
)

const (
	DefaultBaseURL = "https://api.olamaps.io"

	// DefaultTransitHours is used when no route can be computed.
	DefaultTransitHours = 6.0

	defaultTimeout = 10 * time.Second
)

var (
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("routing provider not configured")

	// ErrNoRoute is returned when the directions API finds nothing.
	ErrNoRoute = errors.New("no route found")
)

// Config configures the Ola Maps client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client queries the Ola Maps directions and geocoding APIs.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an Ola Maps client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type directionsResponse struct {
	Routes []struct {
		Legs []struct {
			Duration float64 `json:"duration"` // seconds
			Distance float64 `json:"distance"` // metres
		} `json:"legs"`
	} `json:"routes"`
}

type geocodeResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"geocodingResults"`
}

// Transit routes from origin to destination. Either may be a "lat,lng"
// pair or a place name to geocode.
func (c *Client) Transit(ctx context.Context, origin, destination string) (*domain.TransitEstimate, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	from, err := c.point(ctx, origin)
	if err != nil {
		return nil, fmt.Errorf("resolve origin: %w", err)
	}
	to, err := c.point(ctx, destination)
	if err != nil {
		return nil, fmt.Errorf("resolve destination: %w", err)
	}

	var resp directionsResponse
	if err := c.do(ctx, http.MethodPost, "/routing/v1/directions", url.Values{
		"origin":      {from},
		"destination": {to},
	}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Routes) == 0 || len(resp.Routes[0].Legs) == 0 {
		return nil, ErrNoRoute
	}

	leg := resp.Routes[0].Legs[0]
	est := &domain.TransitEstimate{
		Hours:      round1(leg.Duration / 3600),
		DistanceKm: round1(leg.Distance / 1000),
	}
	c.logger.Debug("route computed", "origin", origin, "destination", destination, "hours", est.Hours, "km", est.DistanceKm)
	return est, nil
}

// point returns a "lat,lng" pair for a coordinate string or place name.
func (c *Client) point(ctx context.Context, place string) (string, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return "", errors.New("empty location")
	}
	if isCoordinate(place) {
		return place, nil
	}

	var resp geocodeResponse
	if err := c.do(ctx, http.MethodGet, "/places/v1/geocode", url.Values{
		"address": {place},
	}, &resp); err != nil {
		return "", err
	}
	if len(resp.Results) == 0 {
		return "", fmt.Errorf("no geocoding result for %q", place)
	}
	loc := resp.Results[0].Geometry.Location
	return strconv.FormatFloat(loc.Lat, 'f', 4, 64) + "," + strconv.FormatFloat(loc.Lng, 'f', 4, 64), nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, out any) error {
	params.Set("api_key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create routing request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("routing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("routing API error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode routing response: %w", err)
	}
	return nil
}

// Resolve estimates transit time and tags it with its provenance. A
// caller-supplied value wins; without a provider the default applies.
func Resolve(ctx context.Context, p domain.RouteProvider, origin, destination string, supplied *float64, fallbackHours float64, logger *slog.Logger) domain.Sourced[domain.TransitEstimate] {
	if fallbackHours <= 0 {
		fallbackHours = DefaultTransitHours
	}
	if supplied != nil {
		return domain.Default(domain.TransitEstimate{Hours: math.Max(*supplied, 0)})
	}
	def := domain.TransitEstimate{Hours: fallbackHours}
	if p == nil {
		return domain.Default(def)
	}

	est, err := p.Transit(ctx, origin, destination)
	switch {
	case err == nil && est != nil:
		return domain.Live(*est)
	case errors.Is(err, ErrNotConfigured):
		return domain.Default(def)
	default:
		if logger != nil {
			logger.Warn("routing unavailable, using default transit time", "origin", origin, "destination", destination, "error", err)
		}
		return domain.Fallback(def, err)
	}
}

func isCoordinate(s string) bool {
	lat, lng, ok := strings.Cut(s, ",")
	if !ok {
		return false
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(lat), 64); err != nil {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(lng), 64)
	return err == nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
