// Package models talks to the opaque price and crop-suitability model service.
package models

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/agrichain/agrichain/internal/domain"
	"github.com/agrichain/agrichain/internal/market"
	"github.com/agrichain/agrichain/internal/profiles"
)

const defaultTimeout = 10 * time.Second

// ErrNotConfigured is returned when no model service URL is set.
var ErrNotConfigured = errors.New("model service not configured")

// Client is an HTTP JSON client for the model service. It implements both
// domain.PriceModel and domain.SuitabilityModel.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a model client. An empty baseURL leaves it unconfigured.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type priceRequest struct {
	State     string `json:"state"`
	District  string `json:"district"`
	Market    string `json:"market"`
	Commodity string `json:"commodity"`
	Variety   string `json:"variety"`
	Grade     string `json:"grade"`
	Date      string `json:"date"`
}

type priceResponse struct {
	PredictedPrice *float64 `json:"predicted_price"`
}

type suitabilityResponse struct {
	Classes []domain.SuitabilityClass `json:"classes"`
}

// PredictPrice asks the model for a modal price and wraps it in the
// standard confidence envelope.
func (c *Client) PredictPrice(ctx context.Context, q domain.PriceQuery) (*domain.PriceEstimate, error) {
	date := q.Date
	if date.IsZero() {
		date = time.Now()
	}
	var resp priceResponse
	if err := c.post(ctx, "/predict/price", priceRequest{
		State:     q.State,
		District:  q.District,
		Market:    q.Market,
		Commodity: q.Commodity,
		Variety:   q.Variety,
		Grade:     q.Grade,
		Date:      date.Format("2006-01-02"),
	}, &resp); err != nil {
		return nil, err
	}
	if resp.PredictedPrice == nil {
		return nil, errors.New("price model returned no prediction")
	}
	q.Date = date
	est := market.Envelope(q, *resp.PredictedPrice)
	return &est, nil
}

// RankClasses asks the classifier for class probabilities for the soil.
func (c *Client) RankClasses(ctx context.Context, soil domain.SoilReadings) ([]domain.SuitabilityClass, error) {
	var resp suitabilityResponse
	if err := c.post(ctx, "/predict/suitability", soil, &resp); err != nil {
		return nil, err
	}
	for _, cl := range resp.Classes {
		if cl.Probability < 0 || cl.Probability > 1 {
			return nil, fmt.Errorf("suitability model returned probability %v for %s", cl.Probability, cl.Class)
		}
	}
	return resp.Classes, nil
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	if c.baseURL == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode model request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create model request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("model request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("model API error %d: %s", resp.StatusCode, string(msg))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode model response: %w", err)
	}

	c.logger.Debug("model call", "path", path, "duration", time.Since(start))
	return nil
}

// ResolvePrice estimates a price and tags it with its provenance. A
// caller-supplied price wins; otherwise fallback (typically the recent
// market average) stands in when the model is unavailable.
func ResolvePrice(ctx context.Context, m domain.PriceModel, q domain.PriceQuery, supplied *float64, fallback float64, logger *slog.Logger) domain.Sourced[domain.PriceEstimate] {
	if supplied != nil {
		return domain.Default(market.Envelope(q, *supplied))
	}
	def := market.Envelope(q, fallback)
	if m == nil {
		return domain.Default(def)
	}

	est, err := m.PredictPrice(ctx, q)
	switch {
	case err == nil && est != nil:
		return domain.Live(*est)
	case errors.Is(err, ErrNotConfigured):
		return domain.Default(def)
	default:
		if logger != nil {
			logger.Warn("price model unavailable, using fallback price",
				"commodity", profiles.Normalize(q.Commodity), "fallback", fallback, "error", err)
		}
		return domain.Fallback(def, err)
	}
}
