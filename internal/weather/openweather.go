package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agrichain/agrichain/internal/cache"
	"github.com/agrichain/agrichain/internal/domain"
	"github.com/agrichain/agrichain/internal/profiles"
)

const (
	// SourceLive marks readings returned by the API.
	SourceLive = "live"

	// SourceMock marks the neutral reading used without live data.
	SourceMock = "mock"

	// DefaultRateLimit is the OpenWeather free-tier call budget per minute.
	DefaultRateLimit = 60

	rateLimitKey    = "ratelimit:weather"
	readingsPerDay  = 8
	defaultDays     = 5
	defaultTimeout  = 10 * time.Second
	defaultCacheTTL = 10 * time.Minute
)

var (
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("weather provider not configured")

	// ErrRateLimited is returned when the per-minute call budget is spent.
	ErrRateLimited = errors.New("weather rate limit exceeded")
)

// Config configures the OpenWeather client.
type Config struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	CacheTTL  time.Duration
	RateLimit int64
}

// Client fetches current weather and short forecasts from OpenWeather.
// Readings are cached per location; calls are counted against a shared
// per-minute budget when the cache supports counters.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      domain.Cache
	ttl        time.Duration
	limit      int64
	logger     *slog.Logger
}

// NewClient creates an OpenWeather client. c may be nil.
func NewClient(cfg Config, c domain.Cache, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.openweathermap.org"
	}
	return &Client{
		baseURL:    base,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		cache:      c,
		ttl:        ttl,
		limit:      limit,
		logger:     logger,
	}
}

type currentResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Rain map[string]float64 `json:"rain"`
}

type forecastResponse struct {
	List []struct {
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Rain map[string]float64 `json:"rain"`
	} `json:"list"`
}

// Current returns interpreted current conditions for a city in a state.
func (c *Client) Current(ctx context.Context, city, state string) (*domain.WeatherReading, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	key := fmt.Sprintf("weather:current:%s:%s", profiles.Normalize(city), profiles.Normalize(state))
	if c.cache != nil {
		var cached domain.WeatherReading
		if found, err := cache.GetJSON(ctx, c.cache, key, &cached); err == nil && found {
			return &cached, nil
		}
	}

	coord := c.locate(ctx, city, state)

	var resp currentResponse
	if err := c.get(ctx, "/data/2.5/weather", url.Values{
		"lat":   {formatCoord(coord.Lat)},
		"lon":   {formatCoord(coord.Lon)},
		"units": {"metric"},
	}, &resp); err != nil {
		return nil, err
	}

	description := ""
	if len(resp.Weather) > 0 {
		description = resp.Weather[0].Description
	}
	reading := Reading(city, state, resp.Main.Temp, resp.Main.Humidity, resp.Rain["1h"], resp.Wind.Speed, description, SourceLive)

	if c.cache != nil {
		if err := cache.SetJSON(ctx, c.cache, key, reading, c.ttl); err != nil {
			c.logger.Warn("weather cache write failed", "key", key, "error", err)
		}
	}
	return &reading, nil
}

// Outlook returns a daily forecast and the lowest-risk day to harvest or transport.
func (c *Client) Outlook(ctx context.Context, city, state string, days int) (*domain.WeatherOutlook, error) {
	if days <= 0 {
		days = defaultDays
	}
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	coord := c.locate(ctx, city, state)

	var resp forecastResponse
	if err := c.get(ctx, "/data/2.5/forecast", url.Values{
		"lat":   {formatCoord(coord.Lat)},
		"lon":   {formatCoord(coord.Lon)},
		"units": {"metric"},
		"cnt":   {strconv.Itoa(days * readingsPerDay)},
	}, &resp); err != nil {
		return nil, err
	}

	type acc struct {
		temp, humidity, rain, wind float64
		n                          int
	}
	byDate := make(map[string]*acc)
	for _, item := range resp.List {
		date, _, _ := strings.Cut(item.DtTxt, " ")
		a, ok := byDate[date]
		if !ok {
			a = &acc{}
			byDate[date] = a
		}
		a.temp += item.Main.Temp
		a.humidity += item.Main.Humidity
		a.rain += item.Rain["3h"]
		a.wind += item.Wind.Speed
		a.n++
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	if len(dates) > days {
		dates = dates[:days]
	}

	forecast := make([]domain.ForecastDay, 0, len(dates))
	for _, d := range dates {
		a := byDate[d]
		n := float64(a.n)
		temp, hum, rain, wind := round(a.temp/n, 1), round(a.humidity/n, 1), round(a.rain, 1), round(a.wind/n, 1)
		sig := Interpret(temp, hum, rain, wind)
		forecast = append(forecast, domain.ForecastDay{
			Date:        d,
			Temperature: temp,
			Humidity:    hum,
			Rainfall:    rain,
			HarvestRisk: sig.HarvestRisk,
			TransitRisk: sig.TransitRisk,
			Summary:     sig.Summary,
		})
	}
	if len(forecast) == 0 {
		return nil, errors.New("weather forecast returned no data")
	}

	return outlook(city, state, forecast, SourceLive), nil
}

// MockOutlook is the neutral forecast used without live data.
func MockOutlook(city, state string, days int, now time.Time) domain.WeatherOutlook {
	if days <= 0 {
		days = defaultDays
	}
	forecast := make([]domain.ForecastDay, days)
	for i := range forecast {
		forecast[i] = domain.ForecastDay{
			Date:        now.AddDate(0, 0, i).Format("2006-01-02"),
			Temperature: float64(28 + i),
			Humidity:    float64(60 + i*2),
			HarvestRisk: domain.TierLow,
			TransitRisk: domain.TierLow,
			Summary:     "Favorable conditions for harvest and transport.",
		}
	}
	return *outlook(city, state, forecast, SourceMock)
}

// outlook picks the earliest day with the lowest harvest risk.
func outlook(city, state string, forecast []domain.ForecastDay, source string) *domain.WeatherOutlook {
	best := forecast[0]
	for _, d := range forecast[1:] {
		if d.HarvestRisk.Rank() < best.HarvestRisk.Rank() {
			best = d
		}
	}
	return &domain.WeatherOutlook{
		City:        profiles.Normalize(city),
		State:       profiles.Normalize(state),
		Days:        forecast,
		BestDay:     best.Date,
		BestDayRisk: best.HarvestRisk,
		Summary:     fmt.Sprintf("Best day to harvest/transport: %s (%s risk)", best.Date, best.HarvestRisk),
		Source:      source,
	}
}

// locate geocodes a city, falling back to the state centre and then to India's centre.
func (c *Client) locate(ctx context.Context, city, state string) Coordinate {
	if strings.TrimSpace(city) != "" {
		var places []Coordinate
		err := c.get(ctx, "/geo/1.0/direct", url.Values{
			"q":     {fmt.Sprintf("%s,%s,IN", city, state)},
			"limit": {"1"},
		}, &places)
		if err == nil && len(places) > 0 {
			return places[0]
		}
		if err != nil {
			c.logger.Debug("geocoding failed, using state centre", "city", city, "state", state, "error", err)
		}
	}
	coord, _ := StateCentre(state)
	return coord
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.allow(ctx); err != nil {
		return err
	}

	params.Set("appid", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("weather API error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode weather response: %w", err)
	}
	return nil
}

// allow spends one call from the per-minute budget.
func (c *Client) allow(ctx context.Context) error {
	counter, ok := c.cache.(cache.Counter)
	if !ok {
		return nil
	}
	n, err := counter.IncrementCounter(ctx, rateLimitKey, time.Minute)
	if err != nil {
		c.logger.Warn("weather rate counter failed", "error", err)
		return nil
	}
	if n > c.limit {
		return ErrRateLimited
	}
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
