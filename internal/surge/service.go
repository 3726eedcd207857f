package surge

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

// Service runs the detector over stored arrivals. The weekly aggregate is
// cached per commodity and state; the forecast for a target week is derived
// from it on every call.
type Service struct {
	arrivals ArrivalSource
	cache    domain.Cache
	ttl      time.Duration
	logger   *slog.Logger
}

// NewService creates a surge service. cache may be nil.
func NewService(arrivals ArrivalSource, c domain.Cache, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{arrivals: arrivals, cache: c, ttl: ttl, logger: logger}
}

// Forecast returns the surge forecast for the week containing target.
func (s *Service) Forecast(ctx context.Context, commodity, state string, target time.Time) (domain.SurgeForecast, error) {
	history, err := s.history(ctx, commodity, state)
	if err != nil {
		return domain.SurgeForecast{}, err
	}
	return history.Forecast(commodity, state, target), nil
}

func (s *Service) history(ctx context.Context, commodity, state string) (History, error) {
	key := cacheKey(commodity, state)

	if s.cache != nil {
		var cached History
		found, err := cache.GetJSON(ctx, s.cache, key, &cached)
		if err != nil {
			s.logger.Warn("surge cache read failed", "key", key, "error", err)
		} else if found {
			return cached, nil
		}
	}

	records, err := s.arrivals.ListArrivals(ctx, commodity, state)
	if err != nil {
		return History{}, fmt.Errorf("failed to load arrivals: %w", err)
	}
	history := NewHistory(records)

	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, key, history, s.ttl); err != nil {
			s.logger.Warn("surge cache write failed", "key", key, "error", err)
		}
	}
	return history, nil
}

// Invalidate drops the cached history for the pair, so every target week
// is recomputed. Called after new arrivals are stored.
func (s *Service) Invalidate(ctx context.Context, commodity, state string) {
	if s.cache == nil {
		return
	}
	key := cacheKey(commodity, state)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.logger.Warn("surge cache delete failed", "key", key, "error", err)
	}
}

func cacheKey(commodity, state string) string {
	return fmt.Sprintf("surge:history:%s:%s", profiles.Normalize(commodity), profiles.Normalize(state))
}
