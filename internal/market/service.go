package market

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agrichain/agrichain/internal/cache"
	"github.com/agrichain/agrichain/internal/domain"
	"github.com/agrichain/agrichain/internal/profiles"
)

// ArrivalSource lists arrival history for a commodity and state.
type ArrivalSource interface {
	ListArrivals(ctx context.Context, commodity, state string) ([]domain.ArrivalRecord, error)
}

// Service computes trends and rankings from stored arrivals.
// Results are cached per commodity and state.
type Service struct {
	arrivals ArrivalSource
	cache    domain.Cache
	ttl      time.Duration
	logger   *slog.Logger
}

// NewService creates a new market service. cache may be nil.
func NewService(arrivals ArrivalSource, c domain.Cache, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{arrivals: arrivals, cache: c, ttl: ttl, logger: logger}
}

// Trend returns the recent price trend for a commodity in a state.
func (s *Service) Trend(ctx context.Context, commodity, state string) (domain.TrendReport, error) {
	var report domain.TrendReport
	err := s.cached(ctx, cacheKey("trend", commodity, state), &report, func(records []domain.ArrivalRecord) any {
		report = Trend(commodity, state, records)
		return report
	}, commodity, state)
	return report, err
}

// BestMarkets returns the best-paying markets for a commodity in a state.
func (s *Service) BestMarkets(ctx context.Context, commodity, state string) (domain.MarketRanking, error) {
	var ranking domain.MarketRanking
	err := s.cached(ctx, cacheKey("best", commodity, state), &ranking, func(records []domain.ArrivalRecord) any {
		ranking = BestMarkets(commodity, state, records)
		return ranking
	}, commodity, state)
	return ranking, err
}

// Invalidate drops cached results for a commodity and state.
func (s *Service) Invalidate(ctx context.Context, commodity, state string) {
	if s.cache == nil {
		return
	}
	for _, kind := range []string{"trend", "best"} {
		key := cacheKey(kind, commodity, state)
		if err := s.cache.Delete(ctx, key); err != nil {
			s.logger.Warn("market cache delete failed", "key", key, "error", err)
		}
	}
}

func (s *Service) cached(ctx context.Context, key string, out any, compute func([]domain.ArrivalRecord) any, commodity, state string) error {
	if s.cache != nil {
		found, err := cache.GetJSON(ctx, s.cache, key, out)
		if err != nil {
			s.logger.Warn("market cache read failed", "key", key, "error", err)
		} else if found {
			return nil
		}
	}

	records, err := s.arrivals.ListArrivals(ctx, commodity, state)
	if err != nil {
		return fmt.Errorf("failed to load arrivals: %w", err)
	}

	v := compute(records)
	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, key, v, s.ttl); err != nil {
			s.logger.Warn("market cache write failed", "key", key, "error", err)
		}
	}
	return nil
}

func cacheKey(kind, commodity, state string) string {
	return fmt.Sprintf("market:%s:%s:%s", kind, profiles.Normalize(commodity), profiles.Normalize(state))
}
