// Package composer assembles one farmer-facing insight from the scoring
// engines and the external collaborators.
package composer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agrichain/agrichain/internal/agronomy"
	"github.com/agrichain/agrichain/internal/bypass"
	"github.com/agrichain/agrichain/internal/domain"
	"github.com/agrichain/agrichain/internal/explain"
	"github.com/agrichain/agrichain/internal/market"
	"github.com/agrichain/agrichain/internal/models"
	"github.com/agrichain/agrichain/internal/narrator"
	"github.com/agrichain/agrichain/internal/profiles"
	"github.com/agrichain/agrichain/internal/routing"
	"github.com/agrichain/agrichain/internal/rules"
	"github.com/agrichain/agrichain/internal/spoilage"
	"github.com/agrichain/agrichain/internal/surge"
	"github.com/agrichain/agrichain/internal/weather"
)

// EngineVersion is stamped on every insight.
const EngineVersion = "agrichain-1.0"

const (
	defaultTimeout = 5 * time.Second
	outlookDays    = 5
	maxActions     = 3
)

// ErrInvalidRequest is returned when the request lacks required fields.
var ErrInvalidRequest = errors.New("invalid insight request")

// Forecaster produces arrival surge forecasts.
type Forecaster interface {
	Forecast(ctx context.Context, commodity, state string, target time.Time) (domain.SurgeForecast, error)
}

// MarketStats produces price trend and market ranking reports.
type MarketStats interface {
	Trend(ctx context.Context, commodity, state string) (domain.TrendReport, error)
	BestMarkets(ctx context.Context, commodity, state string) (domain.MarketRanking, error)
}

// Deps are the collaborators a Composer works with. Registry, Spoilage and
// Bypass are required; any external collaborator may be nil.
type Deps struct {
	Registry *profiles.Registry
	Spoilage *spoilage.Engine
	Bypass   *bypass.Engine
	Rules    *rules.Engine

	Surge  Forecaster
	Market MarketStats

	Weather     domain.WeatherProvider
	Outlook     domain.OutlookProvider
	Prices      domain.PriceModel
	Suitability domain.SuitabilityModel
	Routes      domain.RouteProvider
	Narrator    domain.Narrator

	// Timeout bounds each external call.
	Timeout time.Duration

	// DefaultTransitHours applies when no route can be computed.
	DefaultTransitHours float64

	Logger *slog.Logger
	Tracer trace.Tracer
}

// Composer runs the three-phase insight pipeline.
type Composer struct {
	deps   Deps
	logger *slog.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// New creates a Composer.
func New(deps Deps) *Composer {
	if deps.Registry == nil {
		deps.Registry = profiles.NewRegistry()
	}
	if deps.Spoilage == nil {
		deps.Spoilage = spoilage.NewEngine(deps.Registry)
	}
	if deps.Bypass == nil {
		deps.Bypass = bypass.NewEngine(domain.DefaultConfig().Scoring)
	}
	if deps.Timeout <= 0 {
		deps.Timeout = defaultTimeout
	}
	if deps.DefaultTransitHours <= 0 {
		deps.DefaultTransitHours = routing.DefaultTransitHours
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := deps.Tracer
	if tracer == nil {
		tracer = otel.Tracer("agrichain-composer")
	}
	return &Composer{deps: deps, logger: logger, tracer: tracer, now: time.Now}
}

// gathered holds the phase 1 results.
type gathered struct {
	weather     domain.Sourced[domain.WeatherReading]
	outlook     domain.Sourced[domain.WeatherOutlook]
	price       domain.Sourced[domain.PriceEstimate]
	transit     domain.Sourced[domain.TransitEstimate]
	trend       domain.TrendReport
	markets     domain.MarketRanking
	surge       domain.SurgeForecast
	suitability *domain.SuitabilityReport
}

// Compose builds, validates and returns a complete insight. It fails only
// on an invalid request or when the explanation does not pass validation.
func (c *Composer) Compose(ctx context.Context, req domain.InsightRequest) (*domain.Insight, error) {
	start := c.now()

	if err := Validate(&req); err != nil {
		return nil, err
	}
	harvest, err := harvestDate(req.HarvestDate, start)
	if err != nil {
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "composer.Compose", trace.WithAttributes(
		attribute.String("crop", req.Crop),
		attribute.String("state", req.State),
	))
	defer span.End()

	traceID := span.SpanContext().TraceID().String()
	if !span.SpanContext().TraceID().IsValid() {
		traceID = uuid.New().String()
	}

	// Phase 1: external inputs
	gatherStart := c.now()
	g := c.gather(ctx, req, harvest)
	gatherMs := c.now().Sub(gatherStart).Milliseconds()

	// Phase 2: engines
	scoreStart := c.now()
	_, scoreSpan := c.tracer.Start(ctx, "composer.score")
	temperature, humidity := g.weather.Value.Temperature, g.weather.Value.Humidity
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	if req.Humidity != nil {
		humidity = *req.Humidity
	}

	spoil := c.deps.Spoilage.Assess(domain.SpoilageInput{
		Crop:         req.Crop,
		Storage:      req.Storage,
		TransitHours: g.transit.Value.Hours,
		Temperature:  temperature,
		Humidity:     humidity,
		Multiplier:   g.weather.Value.SpoilageFactor,
	})
	byp := c.deps.Bypass.Score(domain.BypassInput{
		Crop:     req.Crop,
		Region:   req.State,
		Quantity: req.Quantity,
		Price:    g.price.Value.PredictedPrice,
		Trend:    g.trend.Trend,
	})
	micro := agronomy.Micronutrients(req.District)

	var advisories []domain.AdvisoryResult
	if c.deps.Rules != nil {
		advisories = c.deps.Rules.EvaluateAll(ctx, domain.AdvisoryFacts{
			Crop:          profiles.Normalize(req.Crop),
			State:         profiles.Normalize(req.State),
			SpoilageScore: spoil.RiskScore,
			SpoilageTier:  spoil.RiskTier,
			DaysSafe:      spoil.DaysSafe,
			BypassScore:   byp.Score,
			SurgeAdvice:   g.surge.Advice,
			Trend:         g.trend.Trend,
			Temperature:   temperature,
			Humidity:      humidity,
			Quantity:      req.Quantity,
		})
	}
	scoreSpan.SetAttributes(
		attribute.Int("spoilage.score", spoil.RiskScore),
		attribute.Int("bypass.score", byp.Score),
		attribute.Int("advisories", len(advisories)),
	)
	scoreSpan.End()
	scoreMs := c.now().Sub(scoreStart).Milliseconds()

	// Phase 3: narration and the explanation gate
	explainStart := c.now()
	explainCtx, explainSpan := c.tracer.Start(ctx, "composer.explain")
	defer explainSpan.End()

	facts := c.narrationFacts(req, harvest, g, spoil, byp)
	narrCtx, cancel := context.WithTimeout(explainCtx, c.deps.Timeout)
	narration := narrator.Resolve(narrCtx, c.deps.Narrator, facts, c.logger)
	cancel()

	payload, err := explain.FromContext(
		narration.Value,
		signals(req, g, spoil),
		alternative(req, g),
		rules.Triggered(advisories)...,
	)
	if err != nil {
		explainSpan.RecordError(err)
		explainSpan.SetStatus(codes.Error, "explanation rejected")
		c.logger.Error("explanation failed validation", "crop", req.Crop, "state", req.State, "error", err)
		return nil, fmt.Errorf("compose insight: %w", err)
	}
	explainMs := c.now().Sub(explainStart).Milliseconds()

	insight := &domain.Insight{
		ID:            uuid.New().String(),
		Crop:          profiles.Normalize(req.Crop),
		State:         profiles.Normalize(req.State),
		District:      profiles.Normalize(req.District),
		Timestamp:     c.now().UTC(),
		Explanation:   payload,
		Spoilage:      spoil,
		Bypass:        byp,
		Surge:         g.surge,
		Trend:         g.trend,
		BestMarkets:   g.markets,
		Micronutrient: micro,
		Suitability:   g.suitability,
		Advisories:    advisories,
		Weather:       g.weather,
		Outlook:       g.outlook,
		Price:         g.price,
		Transit:       g.transit,
		Narration:     narration.Provenance,
		Metadata: domain.InsightMetadata{
			TraceID:        traceID,
			GatherMs:       gatherMs,
			ScoreMs:        scoreMs,
			ExplainMs:      explainMs,
			TotalMs:        c.now().Sub(start).Milliseconds(),
			RulesEvaluated: len(advisories),
			EngineVersion:  EngineVersion,
		},
	}

	span.SetAttributes(
		attribute.String("insight.id", insight.ID),
		attribute.String("spoilage.tier", string(spoil.RiskTier)),
	)
	c.logger.Info("insight composed",
		"id", insight.ID,
		"crop", insight.Crop,
		"state", insight.State,
		"spoilage_tier", spoil.RiskTier,
		"bypass_score", byp.Score,
		"surge_advice", g.surge.Advice,
		"weather", g.weather.Provenance,
		"price", g.price.Provenance,
		"transit", g.transit.Provenance,
		"narration", narration.Provenance,
		"total_ms", insight.Metadata.TotalMs,
	)
	return insight, nil
}

// gather fetches every external input in parallel. A failing branch never
// cancels its siblings; it falls back to a default and records provenance.
func (c *Composer) gather(ctx context.Context, req domain.InsightRequest, harvest time.Time) gathered {
	ctx, span := c.tracer.Start(ctx, "composer.gather")
	defer span.End()

	var (
		g         gathered
		wg        sync.WaitGroup
		priceLive bool
	)
	run := func(name string, fn func(ctx context.Context)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bctx, cancel := context.WithTimeout(ctx, c.deps.Timeout)
			defer cancel()
			_, bspan := c.tracer.Start(bctx, "gather."+name)
			defer bspan.End()
			fn(bctx)
		}()
	}

	run("weather", func(ctx context.Context) {
		g.weather = weather.Resolve(ctx, c.deps.Weather, req.District, req.State, c.logger)
	})

	run("outlook", func(ctx context.Context) {
		g.outlook = c.resolveOutlook(ctx, req, harvest)
	})

	query := domain.PriceQuery{
		State:     req.State,
		District:  req.District,
		Market:    req.Market,
		Commodity: req.Crop,
		Variety:   req.Variety,
		Grade:     req.Grade,
		Date:      harvest,
	}
	run("price", func(ctx context.Context) {
		g.price = models.ResolvePrice(ctx, c.deps.Prices, query, req.PredictedPrice, 0, c.logger)
		priceLive = g.price.Provenance == domain.ProvenanceLive
	})

	run("transit", func(ctx context.Context) {
		destination := req.Destination
		if destination == "" {
			destination = req.Market
		}
		origin := strings.Trim(req.District+", "+req.State, ", ")
		g.transit = routing.Resolve(ctx, c.deps.Routes, origin, destination, req.TransitHours, c.deps.DefaultTransitHours, c.logger)
	})

	run("market", func(ctx context.Context) {
		g.trend, g.markets = c.marketStats(ctx, req)
	})

	run("surge", func(ctx context.Context) {
		g.surge = c.forecast(ctx, req, harvest)
	})

	if req.Soil != nil {
		run("suitability", func(ctx context.Context) {
			report := c.suitability(ctx, req)
			g.suitability = &report
		})
	}

	wg.Wait()

	// Without a model or caller price, the recent market average stands in.
	if !priceLive && req.PredictedPrice == nil {
		if avg := fallbackPrice(g.markets, req.Market); avg > 0 {
			g.price.Value = market.Envelope(query, avg)
		}
	}

	span.SetAttributes(
		attribute.String("weather.provenance", string(g.weather.Provenance)),
		attribute.String("price.provenance", string(g.price.Provenance)),
		attribute.String("transit.provenance", string(g.transit.Provenance)),
	)
	return g
}

func (c *Composer) resolveOutlook(ctx context.Context, req domain.InsightRequest, harvest time.Time) domain.Sourced[domain.WeatherOutlook] {
	mock := weather.MockOutlook(req.District, req.State, outlookDays, harvest)
	if c.deps.Outlook == nil {
		return domain.Default(mock)
	}
	o, err := c.deps.Outlook.Outlook(ctx, req.District, req.State, outlookDays)
	switch {
	case err == nil && o != nil:
		return domain.Live(*o)
	case errors.Is(err, weather.ErrNotConfigured):
		return domain.Default(mock)
	default:
		c.logger.Warn("forecast unavailable, using neutral outlook", "district", req.District, "error", err)
		return domain.Fallback(mock, err)
	}
}

func (c *Composer) marketStats(ctx context.Context, req domain.InsightRequest) (domain.TrendReport, domain.MarketRanking) {
	trend := market.Trend(req.Crop, req.State, nil)
	ranking := market.BestMarkets(req.Crop, req.State, nil)
	if c.deps.Market == nil {
		return trend, ranking
	}
	if t, err := c.deps.Market.Trend(ctx, req.Crop, req.State); err != nil {
		c.logger.Warn("price trend unavailable", "crop", req.Crop, "state", req.State, "error", err)
	} else {
		trend = t
	}
	if r, err := c.deps.Market.BestMarkets(ctx, req.Crop, req.State); err != nil {
		c.logger.Warn("market ranking unavailable", "crop", req.Crop, "state", req.State, "error", err)
	} else {
		ranking = r
	}
	return trend, ranking
}

func (c *Composer) forecast(ctx context.Context, req domain.InsightRequest, harvest time.Time) domain.SurgeForecast {
	if c.deps.Surge != nil {
		f, err := c.deps.Surge.Forecast(ctx, req.Crop, req.State, harvest)
		if err == nil {
			return f
		}
		c.logger.Warn("surge forecast unavailable", "crop", req.Crop, "state", req.State, "error", err)
	}
	return surge.Detect(req.Crop, req.State, nil, harvest)
}

func (c *Composer) suitability(ctx context.Context, req domain.InsightRequest) domain.SuitabilityReport {
	var classes []domain.SuitabilityClass
	if c.deps.Suitability != nil {
		ranked, err := c.deps.Suitability.RankClasses(ctx, *req.Soil)
		if err != nil && !errors.Is(err, models.ErrNotConfigured) {
			c.logger.Warn("suitability model unavailable", "crop", req.Crop, "error", err)
		}
		classes = ranked
	}
	return agronomy.Suitability(c.deps.Registry, req.Crop, *req.Soil, classes)
}

func (c *Composer) narrationFacts(req domain.InsightRequest, harvest time.Time, g gathered, spoil domain.SpoilageAssessment, byp domain.BypassAssessment) domain.NarrationFacts {
	actions := make([]string, 0, maxActions)
	for _, a := range spoil.Actions {
		if len(actions) == maxActions {
			break
		}
		actions = append(actions, a.Label)
	}

	window := "Around " + harvest.Format("2006-01-02")
	if g.outlook.Value.BestDay != "" {
		window += ", best day " + g.outlook.Value.BestDay
	}

	facts := domain.NarrationFacts{
		Crop:                req.Crop,
		State:               req.State,
		District:            req.District,
		PredictedPrice:      g.price.Value.PredictedPrice,
		PriceTrend:          fmt.Sprintf("%s (%s%%)", g.trend.Trend, strconv.FormatFloat(g.trend.ChangePct, 'f', -1, 64)),
		BestMarket:          g.markets.BestMarket,
		BestMarketPrice:     g.markets.BestPrice,
		HarvestWindow:       window,
		Weather:             g.weather.Value.Summary,
		HarvestRisk:         g.weather.Value.HarvestRisk,
		SpoilageRisk:        spoil.RiskTier,
		DaysSafe:            spoil.DaysSafe,
		PreservationActions: actions,
		SurgeAdvice:         g.surge.Alert,
		BypassVerdict:       byp.NextStep,
		IsCropSuitable:      true,
		RecommendedCrop:     req.Crop,
	}
	if g.suitability != nil {
		facts.IsCropSuitable = g.suitability.IsSuitable
		facts.RecommendedCrop = g.suitability.RecommendedCrop
	}
	return facts
}

// signals normalizes the gathered inputs and assessments for the ranker.
func signals(req domain.InsightRequest, g gathered, spoil domain.SpoilageAssessment) explain.Signals {
	s := explain.Signals{
		Weather:      g.weather.Value.Summary,
		SpoilageRisk: spoil.RiskTier,
		TransitHours: &g.transit.Value.Hours,
		DaysSafe:     &spoil.DaysSafe,
	}
	if g.trend.Trend != domain.TrendUnknown && g.trend.Trend != "" {
		s.PriceTrend = string(g.trend.Trend)
	}
	if g.price.Value.PredictedPrice > 0 {
		s.PredictedPrice = &g.price.Value.PredictedPrice
	}
	if req.Soil != nil {
		s.SoilPH = &req.Soil.PH
		s.SoilMoisture = &req.Soil.Moisture
	}
	return s
}

// alternative picks the fallback plan shown next to the recommendation.
func alternative(req domain.InsightRequest, g gathered) string {
	if alt := strings.TrimSpace(req.Alternative); alt != "" {
		return alt
	}
	if g.suitability != nil && !g.suitability.IsSuitable && g.suitability.RecommendedCrop != "" {
		return fmt.Sprintf("Soil suits %s better; consider it for the next season.", g.suitability.RecommendedCrop)
	}
	best := g.markets.BestMarket
	if best != "" && best != "Unknown" && profiles.Normalize(best) != profiles.Normalize(req.Market) {
		return fmt.Sprintf("Sell at %s for a better average price (₹%s/quintal).", best, strconv.FormatFloat(g.markets.BestPrice, 'f', -1, 64))
	}
	return ""
}

// fallbackPrice is the chosen market's recent average, else the best market's.
func fallbackPrice(r domain.MarketRanking, chosen string) float64 {
	for _, m := range r.Markets {
		if profiles.Normalize(m.Market) == profiles.Normalize(chosen) {
			return m.AvgPrice
		}
	}
	return r.BestPrice
}

// Validate checks required request fields and applies defaults.
func Validate(req *domain.InsightRequest) error {
	var missing []string
	if strings.TrimSpace(req.Crop) == "" {
		missing = append(missing, "crop")
	}
	if strings.TrimSpace(req.State) == "" {
		missing = append(missing, "state")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrInvalidRequest, strings.Join(missing, ", "))
	}
	if req.Quantity < 0 {
		return fmt.Errorf("%w: quantity_quintals cannot be negative", ErrInvalidRequest)
	}
	if req.Storage == "" {
		req.Storage = domain.StorageBasicShed
	}
	if req.Market == "" {
		req.Market = req.District
	}
	return nil
}

func harvestDate(s string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return now, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: harvest_date must be YYYY-MM-DD", ErrInvalidRequest)
	}
	return t, nil
}
